// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// Rope caps the distance between an anchor point on each body at
// MaxLength, acting like Distance but one-sided: it never pulls the
// bodies together, only stops them from separating past the limit. This
// is the rope *joint*, distinct from the multi-particle rope simulator.
type Rope struct {
	bodyA, bodyB               IBody
	LocalAnchorA, LocalAnchorB math2.Vec2
	MaxLength                  float32

	u       math2.Vec2
	rA, rB  math2.Vec2
	mass    float32
	state   State
	impulse float32
}

// State mirrors the original's distinction between a taut rope
// (constraint active) and a slack one (no force applied).
type State int

const (
	StateInactive State = iota
	StateAtLower
)

func NewRope(bodyA, bodyB IBody, localAnchorA, localAnchorB math2.Vec2, maxLength float32) *Rope {
	return &Rope{bodyA: bodyA, bodyB: bodyB, LocalAnchorA: localAnchorA, LocalAnchorB: localAnchorB, MaxLength: maxLength}
}

func (r *Rope) BodyA() IBody { return r.bodyA }
func (r *Rope) BodyB() IBody { return r.bodyB }

func (r *Rope) InitVelocityConstraints(data SolverData) {
	a, b := r.bodyA, r.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	r.rA = r.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	r.rB = r.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	pA := a.Position().Add(r.rA)
	pB := b.Position().Add(r.rB)

	u, length, ok := pB.Sub(pA).Normalize()
	c := length - r.MaxLength
	if c > 0 {
		r.state = StateAtLower
	} else {
		r.state = StateInactive
	}
	if !ok || length < math2.Epsilon {
		r.u = math2.Vec2{X: 1, Y: 0}
	} else {
		r.u = u.Vec2()
	}

	crA := r.rA.Cross(r.u)
	crB := r.rB.Cross(r.u)
	invMass := a.InvMass() + a.InvRotInertia()*crA*crA + b.InvMass() + b.InvRotInertia()*crB*crB
	if invMass != 0 {
		r.mass = 1 / invMass
	}

	if !data.WarmStarting || r.state != StateAtLower {
		r.impulse = 0
	}
}

func (r *Rope) WarmStart(data SolverData) {
	a, b := r.bodyA, r.bodyB
	p := r.u.Mul(r.impulse)
	a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*r.rA.Cross(p))
	b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*r.rB.Cross(p))
}

func (r *Rope) SolveVelocityConstraints(data SolverData) {
	if r.state != StateAtLower {
		return
	}
	a, b := r.bodyA, r.bodyB
	vpA := a.LinearVelocity().Add(r.rA.CrossScalar(a.AngularVelocity()))
	vpB := b.LinearVelocity().Add(r.rB.CrossScalar(b.AngularVelocity()))
	cdot := r.u.Dot(vpB.Sub(vpA))

	impulse := -r.mass * cdot
	old := r.impulse
	r.impulse = math2.Clamp(old+impulse, -1e8, 0)
	impulse = r.impulse - old

	p := r.u.Mul(impulse)
	a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*r.rA.Cross(p))
	b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*r.rB.Cross(p))
}

func (r *Rope) SolvePositionConstraints(data SolverData) bool {
	a, b := r.bodyA, r.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	rA := r.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB := r.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)
	pA := a.Position().Add(rA)
	pB := b.Position().Add(rB)

	u, length, ok := pB.Sub(pA).Normalize()
	if !ok {
		return true
	}
	c := math2.Clamp(length-r.MaxLength, 0, 0.2)
	impulse := -r.mass * c

	p := u.Vec2().Mul(impulse)
	a.SetPosition(a.Position().Sub(p.Mul(a.InvMass())))
	a.SetAngle(a.Angle() - a.InvRotInertia()*rA.Cross(p))
	b.SetPosition(b.Position().Add(p.Mul(b.InvMass())))
	b.SetAngle(b.Angle() + b.InvRotInertia()*rB.Cross(p))

	return length-r.MaxLength < 0.005
}
