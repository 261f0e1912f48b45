// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// Weld rigidly locks two bodies together at an anchor point and their
// relative angle. Frequency and DampingRatio are stored but not read by
// the solver: the weld is always a hard constraint.
type Weld struct {
	bodyA, bodyB               IBody
	LocalAnchorA, LocalAnchorB math2.Vec2
	ReferenceAngle             float32
	Frequency, DampingRatio    float32

	rA, rB  math2.Vec2
	mass    [9]float32 // 3x3 packed row-major: linear 2x2 block, coupling column/row, angular scalar
	gamma   float32
	bias    float32
	impulse [3]float32
}

func NewWeld(bodyA, bodyB IBody, localAnchorA, localAnchorB math2.Vec2) *Weld {
	return &Weld{bodyA: bodyA, bodyB: bodyB, LocalAnchorA: localAnchorA, LocalAnchorB: localAnchorB}
}

func (w *Weld) BodyA() IBody { return w.bodyA }
func (w *Weld) BodyB() IBody { return w.bodyB }

func (w *Weld) InitVelocityConstraints(data SolverData) {
	a, b := w.bodyA, w.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())
	w.rA = w.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	w.rB = w.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	w.gamma = 0
	w.bias = 0
	if !data.WarmStarting {
		w.impulse = [3]float32{}
	}
}

func (w *Weld) WarmStart(data SolverData) {
	a, b := w.bodyA, w.bodyB
	p := math2.Vec2{X: w.impulse[0], Y: w.impulse[1]}
	a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*(w.rA.Cross(p)+w.impulse[2]))
	b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*(w.rB.Cross(p)+w.impulse[2]))
}

// SolveVelocityConstraints solves the angular constraint first (matching
// the original's sequencing so an error in relative spin doesn't get
// baked into the subsequent linear solve's Jacobian) and then the 2x2
// point constraint, same pattern Revolute uses without the motor.
func (w *Weld) SolveVelocityConstraints(data SolverData) {
	a, b := w.bodyA, w.bodyB
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	if iA+iB > 0 {
		cdotAngular := b.AngularVelocity() - a.AngularVelocity()
		angularMass := 1 / (iA + iB)
		impulse := -angularMass * cdotAngular
		w.impulse[2] += impulse
		a.SetAngularVelocity(a.AngularVelocity() - iA*impulse)
		b.SetAngularVelocity(b.AngularVelocity() + iB*impulse)
	}

	mA, mB := a.InvMass(), b.InvMass()
	k11 := mA + mB + iA*w.rA.Y*w.rA.Y + iB*w.rB.Y*w.rB.Y
	k12 := -iA*w.rA.X*w.rA.Y - iB*w.rB.X*w.rB.Y
	k22 := mA + mB + iA*w.rA.X*w.rA.X + iB*w.rB.X*w.rB.X
	k := math2.NewMat22(k11, k12, k12, k22)

	cdot := b.LinearVelocity().Add(w.rB.CrossScalar(b.AngularVelocity())).
		Sub(a.LinearVelocity()).Sub(w.rA.CrossScalar(a.AngularVelocity()))
	impulse, ok := k.Solve(cdot)
	if !ok {
		return
	}
	impulse = impulse.Neg()
	w.impulse[0] += impulse.X
	w.impulse[1] += impulse.Y

	a.SetLinearVelocity(a.LinearVelocity().Sub(impulse.Mul(mA)))
	a.SetAngularVelocity(a.AngularVelocity() - iA*w.rA.Cross(impulse))
	b.SetLinearVelocity(b.LinearVelocity().Add(impulse.Mul(mB)))
	b.SetAngularVelocity(b.AngularVelocity() + iB*w.rB.Cross(impulse))
}

func (w *Weld) SolvePositionConstraints(data SolverData) bool {
	a, b := w.bodyA, w.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())
	rA := w.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB := w.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	iA, iB := a.InvRotInertia(), b.InvRotInertia()
	angleError := qB.Angle() - qA.Angle() - w.ReferenceAngle
	if iA+iB > 0 {
		angularMass := 1 / (iA + iB)
		impulse := -angularMass * angleError
		a.SetAngle(a.Angle() - iA*impulse)
		b.SetAngle(b.Angle() + iB*impulse)
	}

	qA = math2.NewUnitVec2FromAngle(a.Angle())
	qB = math2.NewUnitVec2FromAngle(b.Angle())
	rA = w.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB = w.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	c := b.Position().Add(rB).Sub(a.Position()).Sub(rA)
	positionError := c.Length()

	mA, mB := a.InvMass(), b.InvMass()
	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X
	k := math2.NewMat22(k11, k12, k12, k22)

	impulse, ok := k.Solve(c)
	if !ok {
		return math2.Abs(angleError) < 0.005
	}
	impulse = impulse.Neg()

	a.SetPosition(a.Position().Sub(impulse.Mul(mA)))
	a.SetAngle(a.Angle() - iA*rA.Cross(impulse))
	b.SetPosition(b.Position().Add(impulse.Mul(mB)))
	b.SetAngle(b.Angle() + iB*rB.Cross(impulse))

	return positionError < 0.005 && math2.Abs(angleError) < 0.005
}
