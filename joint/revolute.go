// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// limitState tracks which side, if either, of a joint's angle/translation
// limit is currently pinning the constraint.
type limitState int

const (
	limitInactive limitState = iota
	limitAtLower
	limitAtUpper
	limitEqual
)

// Revolute pins an anchor point on each body together, letting them
// rotate freely about it, with an optional motor and angle limit — the
// joint the bridge-of-segments scenario chains together.
type Revolute struct {
	bodyA, bodyB               IBody
	LocalAnchorA, LocalAnchorB math2.Vec2
	ReferenceAngle             float32

	EnableMotor    bool
	MotorSpeed     float32
	MaxMotorTorque float32

	EnableLimit            bool
	LowerAngle, UpperAngle float32

	rA, rB       math2.Vec2
	mass         math2.Mat22
	motorMass    float32
	impulse      math2.Vec2
	motorImpulse float32

	state       limitState
	limitImpulse float32
}

func NewRevolute(bodyA, bodyB IBody, localAnchorA, localAnchorB math2.Vec2) *Revolute {
	return &Revolute{bodyA: bodyA, bodyB: bodyB, LocalAnchorA: localAnchorA, LocalAnchorB: localAnchorB}
}

func (r *Revolute) BodyA() IBody { return r.bodyA }
func (r *Revolute) BodyB() IBody { return r.bodyB }

func (r *Revolute) jointAngle() float32 {
	return r.bodyB.Angle() - r.bodyA.Angle() - r.ReferenceAngle
}

func (r *Revolute) InitVelocityConstraints(data SolverData) {
	a, b := r.bodyA, r.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	r.rA = r.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	r.rB = r.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	r.motorMass = iA + iB
	if r.motorMass != 0 {
		r.motorMass = 1 / r.motorMass
	}

	k11 := mA + mB + iA*r.rA.Y*r.rA.Y + iB*r.rB.Y*r.rB.Y
	k12 := -iA*r.rA.X*r.rA.Y - iB*r.rB.X*r.rB.Y
	k22 := mA + mB + iA*r.rA.X*r.rA.X + iB*r.rB.X*r.rB.X
	r.mass = math2.NewMat22(k11, k12, k12, k22)

	if r.EnableLimit {
		angle := r.jointAngle()
		if r.UpperAngle-r.LowerAngle < 2*0.005 {
			r.state = limitEqual
		} else if angle <= r.LowerAngle {
			if r.state != limitAtLower {
				r.limitImpulse = 0
			}
			r.state = limitAtLower
		} else if angle >= r.UpperAngle {
			if r.state != limitAtUpper {
				r.limitImpulse = 0
			}
			r.state = limitAtUpper
		} else {
			r.state = limitInactive
			r.limitImpulse = 0
		}
	} else {
		r.state = limitInactive
		r.limitImpulse = 0
	}

	if !data.WarmStarting {
		r.impulse = math2.Vec2Zero
		r.motorImpulse = 0
		r.limitImpulse = 0
	}
}

func (r *Revolute) WarmStart(data SolverData) {
	a, b := r.bodyA, r.bodyB
	p := r.impulse
	axial := r.motorImpulse + r.limitImpulse
	a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*(r.rA.Cross(p)+axial))
	b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*(r.rB.Cross(p)+axial))
}

func (r *Revolute) SolveVelocityConstraints(data SolverData) {
	a, b := r.bodyA, r.bodyB
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	if r.EnableMotor && r.state != limitEqual {
		cdot := b.AngularVelocity() - a.AngularVelocity() - r.MotorSpeed
		impulse := -r.motorMass * cdot
		old := r.motorImpulse
		maxImpulse := r.MaxMotorTorque * data.Dt
		r.motorImpulse = math2.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = r.motorImpulse - old
		a.SetAngularVelocity(a.AngularVelocity() - iA*impulse)
		b.SetAngularVelocity(b.AngularVelocity() + iB*impulse)
	}

	if r.EnableLimit && r.state != limitInactive {
		cdot := b.AngularVelocity() - a.AngularVelocity()
		impulse := -r.motorMass * cdot
		switch r.state {
		case limitAtLower:
			newImpulse := math2.Max(r.limitImpulse+impulse, 0)
			impulse = newImpulse - r.limitImpulse
			r.limitImpulse = newImpulse
		case limitAtUpper:
			newImpulse := math2.Min(r.limitImpulse+impulse, 0)
			impulse = newImpulse - r.limitImpulse
			r.limitImpulse = newImpulse
		default:
			r.limitImpulse += impulse
		}
		a.SetAngularVelocity(a.AngularVelocity() - iA*impulse)
		b.SetAngularVelocity(b.AngularVelocity() + iB*impulse)
	}

	vA, wA := a.LinearVelocity(), a.AngularVelocity()
	vB, wB := b.LinearVelocity(), b.AngularVelocity()

	cdot := vB.Add(r.rB.CrossScalar(wB)).Sub(vA).Sub(r.rA.CrossScalar(wA))
	impulse, ok := r.mass.Solve(cdot)
	if !ok {
		return
	}
	impulse = impulse.Neg()
	r.impulse = r.impulse.Add(impulse)

	a.SetLinearVelocity(a.LinearVelocity().Sub(impulse.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*r.rA.Cross(impulse))
	b.SetLinearVelocity(b.LinearVelocity().Add(impulse.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*r.rB.Cross(impulse))
}

func (r *Revolute) SolvePositionConstraints(data SolverData) bool {
	a, b := r.bodyA, r.bodyB
	angularError := float32(0)

	if r.EnableLimit {
		angle := r.jointAngle()
		iA, iB := a.InvRotInertia(), b.InvRotInertia()
		angularMass := iA + iB
		if angularMass != 0 {
			angularMass = 1 / angularMass
		}
		var c float32
		if math2.Abs(r.UpperAngle-r.LowerAngle) < 2*0.005 {
			c = math2.Clamp(angle-r.LowerAngle, -0.2, 0.2)
		} else if angle <= r.LowerAngle {
			c = math2.Clamp(angle-r.LowerAngle, -0.2, 0)
		} else if angle >= r.UpperAngle {
			c = math2.Clamp(angle-r.UpperAngle, 0, 0.2)
		}
		angularError = math2.Abs(c)
		impulse := -angularMass * c
		a.SetAngle(a.Angle() - iA*impulse)
		b.SetAngle(b.Angle() + iB*impulse)
	}

	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	rA := r.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB := r.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	c := b.Position().Add(rB).Sub(a.Position()).Sub(rA)
	positionError := c.Length()

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X
	k := math2.NewMat22(k11, k12, k12, k22)

	impulse, ok := k.Solve(c)
	if !ok {
		return angularError < 0.005
	}
	impulse = impulse.Neg()

	a.SetPosition(a.Position().Sub(impulse.Mul(mA)))
	a.SetAngle(a.Angle() - iA*rA.Cross(impulse))
	b.SetPosition(b.Position().Add(impulse.Mul(mB)))
	b.SetAngle(b.Angle() + iB*rB.Cross(impulse))

	return positionError < 0.005 && angularError < 0.005
}
