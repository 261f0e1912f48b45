// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// Prismatic constrains two bodies to slide relative to each other only
// along a shared local axis, like a piston: perpendicular translation
// and relative rotation are both locked, with an optional motor and
// translation limit along the slide axis.
type Prismatic struct {
	bodyA, bodyB               IBody
	LocalAnchorA, LocalAnchorB math2.Vec2
	LocalAxisA                 math2.Vec2
	ReferenceAngle             float32

	EnableMotor   bool
	MotorSpeed    float32
	MaxMotorForce float32

	EnableLimit                      bool
	LowerTranslation, UpperTranslation float32

	axis, perp math2.Vec2
	s1, s2     float32
	a1, a2     float32
	k          math2.Mat22
	impulse    math2.Vec2
	motorImpulse float32
	motorMass  float32

	state        limitState
	limitImpulse float32
}

func NewPrismatic(bodyA, bodyB IBody, localAnchorA, localAnchorB, localAxisA math2.Vec2) *Prismatic {
	return &Prismatic{bodyA: bodyA, bodyB: bodyB, LocalAnchorA: localAnchorA, LocalAnchorB: localAnchorB, LocalAxisA: localAxisA}
}

func (p *Prismatic) BodyA() IBody { return p.bodyA }
func (p *Prismatic) BodyB() IBody { return p.bodyB }

func (p *Prismatic) InitVelocityConstraints(data SolverData) {
	a, b := p.bodyA, p.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	rA := p.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB := p.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)
	d := b.Position().Add(rB).Sub(a.Position()).Sub(rA)

	axis := p.LocalAxisA.Rotate(qA)
	p.axis = axis
	p.a1 = d.Add(rA).Cross(axis)
	p.a2 = rB.Cross(axis)

	perp := axis.Perp()
	p.perp = perp
	p.s1 = d.Add(rA).Cross(perp)
	p.s2 = rB.Cross(perp)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	k11 := mA + mB + iA*p.s1*p.s1 + iB*p.s2*p.s2
	k12 := iA*p.s1 + iB*p.s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}
	p.k = math2.NewMat22(k11, k12, k12, k22)

	p.motorMass = mA + mB + iA*p.a1*p.a1 + iB*p.a2*p.a2
	if p.motorMass != 0 {
		p.motorMass = 1 / p.motorMass
	}

	if p.EnableLimit {
		translation := axis.Dot(d)
		if p.UpperTranslation-p.LowerTranslation < 2*0.005 {
			p.state = limitEqual
		} else if translation <= p.LowerTranslation {
			if p.state != limitAtLower {
				p.limitImpulse = 0
			}
			p.state = limitAtLower
		} else if translation >= p.UpperTranslation {
			if p.state != limitAtUpper {
				p.limitImpulse = 0
			}
			p.state = limitAtUpper
		} else {
			p.state = limitInactive
			p.limitImpulse = 0
		}
	} else {
		p.state = limitInactive
		p.limitImpulse = 0
	}

	if !data.WarmStarting {
		p.impulse = math2.Vec2Zero
		p.motorImpulse = 0
		p.limitImpulse = 0
	}
}

func (p *Prismatic) WarmStart(data SolverData) {
	a, b := p.bodyA, p.bodyB
	axialImpulse := p.motorImpulse + p.limitImpulse
	perpImpulse := p.impulse.X

	lin := p.perp.Mul(perpImpulse).Add(p.axis.Mul(axialImpulse))
	lA := perpImpulse*p.s1 + p.impulse.Y + axialImpulse*p.a1
	lB := perpImpulse*p.s2 + p.impulse.Y + axialImpulse*p.a2

	a.SetLinearVelocity(a.LinearVelocity().Sub(lin.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*lA)
	b.SetLinearVelocity(b.LinearVelocity().Add(lin.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*lB)
}

func (p *Prismatic) SolveVelocityConstraints(data SolverData) {
	a, b := p.bodyA, p.bodyB

	if p.EnableMotor && p.state != limitEqual {
		cdot := p.axis.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + p.a2*b.AngularVelocity() - p.a1*a.AngularVelocity()
		impulse := p.motorMass * (p.MotorSpeed - cdot)
		old := p.motorImpulse
		maxImpulse := p.MaxMotorForce * data.Dt
		p.motorImpulse = math2.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = p.motorImpulse - old

		lin := p.axis.Mul(impulse)
		a.SetLinearVelocity(a.LinearVelocity().Sub(lin.Mul(a.InvMass())))
		a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*impulse*p.a1)
		b.SetLinearVelocity(b.LinearVelocity().Add(lin.Mul(b.InvMass())))
		b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*impulse*p.a2)
	}

	if p.EnableLimit && p.state != limitInactive {
		cdot := p.axis.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + p.a2*b.AngularVelocity() - p.a1*a.AngularVelocity()
		impulse := p.motorMass * (-cdot)
		switch p.state {
		case limitAtLower:
			newImpulse := math2.Max(p.limitImpulse+impulse, 0)
			impulse = newImpulse - p.limitImpulse
			p.limitImpulse = newImpulse
		case limitAtUpper:
			newImpulse := math2.Min(p.limitImpulse+impulse, 0)
			impulse = newImpulse - p.limitImpulse
			p.limitImpulse = newImpulse
		default:
			p.limitImpulse += impulse
		}

		lin := p.axis.Mul(impulse)
		a.SetLinearVelocity(a.LinearVelocity().Sub(lin.Mul(a.InvMass())))
		a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*impulse*p.a1)
		b.SetLinearVelocity(b.LinearVelocity().Add(lin.Mul(b.InvMass())))
		b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*impulse*p.a2)
	}

	cdot1 := math2.Vec2{
		X: p.perp.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + p.s2*b.AngularVelocity() - p.s1*a.AngularVelocity(),
		Y: b.AngularVelocity() - a.AngularVelocity(),
	}

	impulse, ok := p.k.Solve(cdot1.Neg())
	if !ok {
		return
	}
	p.impulse = p.impulse.Add(impulse)

	lin := p.perp.Mul(impulse.X)
	lA := impulse.X*p.s1 + impulse.Y
	lB := impulse.X*p.s2 + impulse.Y

	a.SetLinearVelocity(a.LinearVelocity().Sub(lin.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*lA)
	b.SetLinearVelocity(b.LinearVelocity().Add(lin.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*lB)
}

func (p *Prismatic) SolvePositionConstraints(data SolverData) bool {
	a, b := p.bodyA, p.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	rA := p.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB := p.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)
	d := b.Position().Add(rB).Sub(a.Position()).Sub(rA)

	axis := p.LocalAxisA.Rotate(qA)
	a1 := d.Add(rA).Cross(axis)
	a2 := rB.Cross(axis)
	perp := axis.Perp()
	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	translationError := float32(0)
	if p.EnableLimit {
		translation := axis.Dot(d)
		var c float32
		if math2.Abs(p.UpperTranslation-p.LowerTranslation) < 2*0.005 {
			c = math2.Clamp(translation-p.LowerTranslation, -0.2, 0.2)
		} else if translation <= p.LowerTranslation {
			c = math2.Clamp(translation-p.LowerTranslation, -0.2, 0)
		} else if translation >= p.UpperTranslation {
			c = math2.Clamp(translation-p.UpperTranslation, 0, 0.2)
		}
		translationError = math2.Abs(c)
		axialMass := mA + mB + iA*a1*a1 + iB*a2*a2
		var impulse float32
		if axialMass != 0 {
			impulse = -c / axialMass
		}
		lin := axis.Mul(impulse)
		a.SetPosition(a.Position().Sub(lin.Mul(mA)))
		a.SetAngle(a.Angle() - iA*impulse*a1)
		b.SetPosition(b.Position().Add(lin.Mul(mB)))
		b.SetAngle(b.Angle() + iB*impulse*a2)
	}

	c := math2.Vec2{X: perp.Dot(d), Y: qB.Angle() - qA.Angle() - p.ReferenceAngle}
	positionError := math2.Abs(c.X) + math2.Abs(c.Y)

	k11 := mA + mB + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}
	k := math2.NewMat22(k11, k12, k12, k22)

	impulse, ok := k.Solve(c.Neg())
	if !ok {
		return translationError < 0.005
	}

	lin := perp.Mul(impulse.X)
	lA := impulse.X*s1 + impulse.Y
	lB := impulse.X*s2 + impulse.Y

	a.SetPosition(a.Position().Sub(lin.Mul(mA)))
	a.SetAngle(a.Angle() - iA*lA)
	b.SetPosition(b.Position().Add(lin.Mul(mB)))
	b.SetAngle(b.Angle() + iB*lB)

	return positionError < 0.005 && translationError < 0.005
}
