// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// Mouse drags a single body's anchor point toward a world-space Target,
// softened by Frequency/DampingRatio so dragging doesn't inject
// unbounded velocity; BodyA is nominally the mouse's anchor (usually a
// tiny kinematic "ground" body) and BodyB the dragged body, matching the
// original's convention of treating it as a single-body joint in
// disguise.
type Mouse struct {
	bodyA, bodyB IBody
	LocalAnchorB math2.Vec2
	Target       math2.Vec2
	MaxForce     float32
	Frequency    float32
	DampingRatio float32

	rB     math2.Vec2
	mass   math2.Mat22
	gamma  float32
	beta   float32
	c0     math2.Vec2
	impulse math2.Vec2
}

func NewMouse(bodyA, bodyB IBody, target math2.Vec2) *Mouse {
	return &Mouse{bodyA: bodyA, bodyB: bodyB, Target: target, MaxForce: 1000, Frequency: 5, DampingRatio: 0.7}
}

func (m *Mouse) BodyA() IBody { return m.bodyA }
func (m *Mouse) BodyB() IBody { return m.bodyB }

func (m *Mouse) InitVelocityConstraints(data SolverData) {
	b := m.bodyB
	qB := math2.NewUnitVec2FromAngle(b.Angle())
	m.rB = m.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	mass := b.InvMass()
	omega := 2 * math2.Pi * m.Frequency
	dCoef := 2*mass*m.DampingRatio*omega
	k := mass * omega * omega
	h := data.Dt
	m.gamma = h * (dCoef + h*k)
	if m.gamma != 0 {
		m.gamma = 1 / m.gamma
	}
	m.beta = h * k * m.gamma

	iB := b.InvRotInertia()
	k11 := b.InvMass() + iB*m.rB.Y*m.rB.Y + m.gamma
	k12 := -iB * m.rB.X * m.rB.Y
	k22 := b.InvMass() + iB*m.rB.X*m.rB.X + m.gamma
	m.mass = math2.NewMat22(k11, k12, k12, k22)

	m.c0 = b.Position().Add(m.rB).Sub(m.Target)

	if !data.WarmStarting {
		m.impulse = math2.Vec2Zero
	}
}

func (m *Mouse) WarmStart(data SolverData) {
	b := m.bodyB
	b.SetLinearVelocity(b.LinearVelocity().Add(m.impulse.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*m.rB.Cross(m.impulse))
}

func (m *Mouse) SolveVelocityConstraints(data SolverData) {
	b := m.bodyB
	cdot := b.LinearVelocity().Add(m.rB.CrossScalar(b.AngularVelocity()))
	rhs := cdot.Add(m.c0.Mul(m.beta)).Add(m.impulse.Mul(m.gamma))

	impulse, ok := m.mass.Solve(rhs.Neg())
	if !ok {
		return
	}

	old := m.impulse
	m.impulse = m.impulse.Add(impulse)
	maxImpulse := m.MaxForce * data.Dt
	if m.impulse.LengthSquared() > maxImpulse*maxImpulse {
		n, _, ok := m.impulse.Normalize()
		if ok {
			m.impulse = n.Vec2().Mul(maxImpulse)
		}
	}
	impulse = m.impulse.Sub(old)

	b.SetLinearVelocity(b.LinearVelocity().Add(impulse.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*m.rB.Cross(impulse))
}

// SolvePositionConstraints is a no-op: mouse dragging is a purely
// velocity-level soft constraint, matching the original's MouseJoint.
func (m *Mouse) SolvePositionConstraints(data SolverData) bool { return true }
