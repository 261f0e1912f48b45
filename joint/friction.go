// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// Friction applies capped linear and angular drag between two bodies
// without constraining their relative position, useful for damping top-
// down movement or simulating a conveyor belt's surface drag.
type Friction struct {
	bodyA, bodyB               IBody
	LocalAnchorA, LocalAnchorB math2.Vec2
	MaxForce                   float32
	MaxTorque                  float32

	rA, rB       math2.Vec2
	linearMass   math2.Mat22
	angularMass  float32
	linearImpulse  math2.Vec2
	angularImpulse float32
}

func NewFriction(bodyA, bodyB IBody, localAnchorA, localAnchorB math2.Vec2) *Friction {
	return &Friction{bodyA: bodyA, bodyB: bodyB, LocalAnchorA: localAnchorA, LocalAnchorB: localAnchorB}
}

func (f *Friction) BodyA() IBody { return f.bodyA }
func (f *Friction) BodyB() IBody { return f.bodyB }

func (f *Friction) InitVelocityConstraints(data SolverData) {
	a, b := f.bodyA, f.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	f.rA = f.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	f.rB = f.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	f.angularMass = iA + iB
	if f.angularMass != 0 {
		f.angularMass = 1 / f.angularMass
	}

	k11 := mA + mB + iA*f.rA.Y*f.rA.Y + iB*f.rB.Y*f.rB.Y
	k12 := -iA*f.rA.X*f.rA.Y - iB*f.rB.X*f.rB.Y
	k22 := mA + mB + iA*f.rA.X*f.rA.X + iB*f.rB.X*f.rB.X
	f.linearMass, _ = math2.NewMat22(k11, k12, k12, k22).Inverse()

	if !data.WarmStarting {
		f.linearImpulse = math2.Vec2Zero
		f.angularImpulse = 0
	}
}

func (f *Friction) WarmStart(data SolverData) {
	a, b := f.bodyA, f.bodyB
	a.SetLinearVelocity(a.LinearVelocity().Sub(f.linearImpulse.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*(f.rA.Cross(f.linearImpulse)+f.angularImpulse))
	b.SetLinearVelocity(b.LinearVelocity().Add(f.linearImpulse.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*(f.rB.Cross(f.linearImpulse)+f.angularImpulse))
}

func (f *Friction) SolveVelocityConstraints(data SolverData) {
	a, b := f.bodyA, f.bodyB
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	cdotAngular := b.AngularVelocity() - a.AngularVelocity()
	impulse := -f.angularMass * cdotAngular
	old := f.angularImpulse
	maxImpulse := f.MaxTorque * data.Dt
	f.angularImpulse = math2.Clamp(old+impulse, -maxImpulse, maxImpulse)
	impulse = f.angularImpulse - old
	a.SetAngularVelocity(a.AngularVelocity() - iA*impulse)
	b.SetAngularVelocity(b.AngularVelocity() + iB*impulse)

	cdot := b.LinearVelocity().Add(f.rB.CrossScalar(b.AngularVelocity())).
		Sub(a.LinearVelocity()).Sub(f.rA.CrossScalar(a.AngularVelocity()))
	p := f.linearMass.MulVec2(cdot).Neg()
	oldP := f.linearImpulse
	f.linearImpulse = f.linearImpulse.Add(p)

	maxLinear := f.MaxForce * data.Dt
	if f.linearImpulse.LengthSquared() > maxLinear*maxLinear {
		n, _, ok := f.linearImpulse.Normalize()
		if ok {
			f.linearImpulse = n.Vec2().Mul(maxLinear)
		}
	}
	p = f.linearImpulse.Sub(oldP)

	a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - iA*f.rA.Cross(p))
	b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + iB*f.rB.Cross(p))
}

// SolvePositionConstraints is a no-op: friction only damps relative
// velocity and motion, it never corrects a position error.
func (f *Friction) SolvePositionConstraints(data SolverData) bool { return true }
