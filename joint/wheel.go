// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// Wheel constrains a point on bodyB to slide along a local axis fixed to
// bodyA, like a suspension strut: perpendicular translation is locked,
// relative rotation is free, and an optional spring along the axis plus
// an optional motor about the shared angular freedom can be enabled.
type Wheel struct {
	bodyA, bodyB               IBody
	LocalAnchorA, LocalAnchorB math2.Vec2
	LocalAxisA                 math2.Vec2

	EnableMotor    bool
	MotorSpeed     float32
	MaxMotorTorque float32

	Frequency    float32
	DampingRatio float32

	axis, perp math2.Vec2
	s1, s2     float32
	a1, a2     float32

	motorMass    float32
	motorImpulse float32

	springMass   float32
	springImpulse float32
	bias         float32
	gamma        float32

	mass       float32
	impulse    float32
}

func NewWheel(bodyA, bodyB IBody, localAnchorA, localAnchorB, localAxisA math2.Vec2) *Wheel {
	return &Wheel{bodyA: bodyA, bodyB: bodyB, LocalAnchorA: localAnchorA, LocalAnchorB: localAnchorB, LocalAxisA: localAxisA}
}

func (w *Wheel) BodyA() IBody { return w.bodyA }
func (w *Wheel) BodyB() IBody { return w.bodyB }

func (w *Wheel) InitVelocityConstraints(data SolverData) {
	a, b := w.bodyA, w.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	rA := w.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB := w.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)
	d := b.Position().Add(rB).Sub(a.Position()).Sub(rA)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	w.axis = w.LocalAxisA.Rotate(qA)
	w.a1 = d.Add(rA).Cross(w.axis)
	w.a2 = rB.Cross(w.axis)
	w.motorMass = mA + mB + iA*w.a1*w.a1 + iB*w.a2*w.a2
	if w.motorMass != 0 {
		w.motorMass = 1 / w.motorMass
	}

	w.perp = w.axis.Perp()
	w.s1 = d.Add(rA).Cross(w.perp)
	w.s2 = rB.Cross(w.perp)
	invMass := mA + mB + iA*w.s1*w.s1 + iB*w.s2*w.s2
	if invMass != 0 {
		w.mass = 1 / invMass
	}

	w.springMass = 0
	w.bias = 0
	w.gamma = 0
	if w.Frequency > 0 {
		c := w.perp.Dot(d)
		omega := 2 * math2.Pi * w.Frequency
		invSpringMass := mA + mB + iA*w.s1*w.s1 + iB*w.s2*w.s2
		if invSpringMass != 0 {
			w.springMass = 1 / invSpringMass
		}
		dampCoef := 2 * w.springMass * w.DampingRatio * omega
		k := w.springMass * omega * omega
		h := data.Dt
		w.gamma = h * (dampCoef + h*k)
		if w.gamma != 0 {
			w.gamma = 1 / w.gamma
		}
		w.bias = c * h * k * w.gamma
		invM := invSpringMass + w.gamma
		if invM != 0 {
			w.springMass = 1 / invM
		}
	}

	if !data.WarmStarting {
		w.impulse = 0
		w.springImpulse = 0
		w.motorImpulse = 0
	}
}

func (w *Wheel) WarmStart(data SolverData) {
	a, b := w.bodyA, w.bodyB
	p := w.perp.Mul(w.impulse).Add(w.axis.Mul(w.springImpulse + w.motorImpulse))
	lA := w.impulse*w.s1 + w.springImpulse*w.s1 + w.motorImpulse*w.a1
	lB := w.impulse*w.s2 + w.springImpulse*w.s2 + w.motorImpulse*w.a2

	a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*lA)
	b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*lB)
}

func (w *Wheel) SolveVelocityConstraints(data SolverData) {
	a, b := w.bodyA, w.bodyB

	if w.Frequency > 0 {
		cdot := w.axis.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + w.s2*b.AngularVelocity() - w.s1*a.AngularVelocity()
		impulse := -w.springMass * (cdot + w.bias + w.gamma*w.springImpulse)
		w.springImpulse += impulse

		p := w.axis.Mul(impulse)
		a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
		a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*impulse*w.s1)
		b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
		b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*impulse*w.s2)
	}

	if w.EnableMotor {
		cdot := b.AngularVelocity() - a.AngularVelocity() - w.MotorSpeed
		impulse := -w.motorMass * cdot
		old := w.motorImpulse
		maxImpulse := w.MaxMotorTorque * data.Dt
		w.motorImpulse = math2.Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = w.motorImpulse - old

		p := w.axis.Mul(impulse)
		a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
		a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*impulse*w.a1)
		b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
		b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*impulse*w.a2)
	}

	cdot := w.perp.Dot(b.LinearVelocity().Sub(a.LinearVelocity())) + w.s2*b.AngularVelocity() - w.s1*a.AngularVelocity()
	impulse := -w.mass * cdot
	w.impulse += impulse

	p := w.perp.Mul(impulse)
	a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*impulse*w.s1)
	b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*impulse*w.s2)
}

func (w *Wheel) SolvePositionConstraints(data SolverData) bool {
	a, b := w.bodyA, w.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	rA := w.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB := w.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)
	d := b.Position().Add(rB).Sub(a.Position()).Sub(rA)

	axis := w.LocalAxisA.Rotate(qA)
	perp := axis.Perp()
	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)
	c := perp.Dot(d)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvRotInertia(), b.InvRotInertia()
	invMass := mA + mB + iA*s1*s1 + iB*s2*s2
	var impulse float32
	if invMass != 0 {
		impulse = -c / invMass
	}

	p := perp.Mul(impulse)
	lA := impulse * s1
	lB := impulse * s2

	a.SetPosition(a.Position().Sub(p.Mul(mA)))
	a.SetAngle(a.Angle() - iA*lA)
	b.SetPosition(b.Position().Add(p.Mul(mB)))
	b.SetAngle(b.Angle() + iB*lB)

	return math2.Abs(c) < 0.005
}
