// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// Distance constrains the distance between an anchor point on each body
// to a fixed Length, optionally softened into a spring via
// Frequency/DampingRatio (frequency 0 means rigid).
type Distance struct {
	bodyA, bodyB       IBody
	LocalAnchorA, LocalAnchorB math2.Vec2
	Length             float32
	Frequency          float32
	DampingRatio       float32
	MinLength, MaxLength float32

	u          math2.Vec2
	rA, rB     math2.Vec2
	mass       float32
	bias       float32
	gamma      float32
	impulse    float32
}

func NewDistance(bodyA, bodyB IBody, localAnchorA, localAnchorB math2.Vec2, length float32) *Distance {
	return &Distance{
		bodyA: bodyA, bodyB: bodyB,
		LocalAnchorA: localAnchorA, LocalAnchorB: localAnchorB,
		Length: length, MinLength: length, MaxLength: length,
	}
}

func (d *Distance) BodyA() IBody { return d.bodyA }
func (d *Distance) BodyB() IBody { return d.bodyB }

func (d *Distance) InitVelocityConstraints(data SolverData) {
	a, b := d.bodyA, d.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	d.rA = d.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	d.rB = d.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	pA := a.Position().Add(d.rA)
	pB := b.Position().Add(d.rB)

	u, length, ok := pB.Sub(pA).Normalize()
	if !ok {
		d.u = math2.Vec2{X: 1, Y: 0}
	} else {
		d.u = u.Vec2()
	}

	crA := d.rA.Cross(d.u)
	crB := d.rB.Cross(d.u)
	invMass := a.InvMass() + a.InvRotInertia()*crA*crA + b.InvMass() + b.InvRotInertia()*crB*crB
	if invMass != 0 {
		d.mass = 1 / invMass
	}

	d.gamma = 0
	d.bias = 0
	if d.Frequency > 0 {
		c := length - d.Length
		omega := 2 * math2.Pi * d.Frequency
		dCoef := 2 * d.mass * d.DampingRatio * omega
		k := d.mass * omega * omega
		h := data.Dt
		d.gamma = h * (dCoef + h*k)
		if d.gamma != 0 {
			d.gamma = 1 / d.gamma
		}
		d.bias = c * h * k * d.gamma
		invMass2 := invMass + d.gamma
		if invMass2 != 0 {
			d.mass = 1 / invMass2
		}
	}

	if !data.WarmStarting {
		d.impulse = 0
	}
}

func (d *Distance) WarmStart(data SolverData) {
	a, b := d.bodyA, d.bodyB
	p := d.u.Mul(d.impulse)
	a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*d.rA.Cross(p))
	b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*d.rB.Cross(p))
}

func (d *Distance) SolveVelocityConstraints(data SolverData) {
	a, b := d.bodyA, d.bodyB
	vpA := a.LinearVelocity().Add(d.rA.CrossScalar(a.AngularVelocity()))
	vpB := b.LinearVelocity().Add(d.rB.CrossScalar(b.AngularVelocity()))
	cdot := d.u.Dot(vpB.Sub(vpA))

	impulse := -d.mass * (cdot + d.bias + d.gamma*d.impulse)
	d.impulse += impulse

	p := d.u.Mul(impulse)
	a.SetLinearVelocity(a.LinearVelocity().Sub(p.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() - a.InvRotInertia()*d.rA.Cross(p))
	b.SetLinearVelocity(b.LinearVelocity().Add(p.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*d.rB.Cross(p))
}

func (d *Distance) SolvePositionConstraints(data SolverData) bool {
	if d.Frequency > 0 {
		return true // a soft constraint has no hard position error to correct
	}
	a, b := d.bodyA, d.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	rA := d.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB := d.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)
	pA := a.Position().Add(rA)
	pB := b.Position().Add(rB)

	u, length, ok := pB.Sub(pA).Normalize()
	if !ok {
		return true
	}
	c := math2.Clamp(length-d.Length, -0.2, 0.2)
	impulse := -d.mass * c

	p := u.Vec2().Mul(impulse)
	a.SetPosition(a.Position().Sub(p.Mul(a.InvMass())))
	a.SetAngle(a.Angle() - a.InvRotInertia()*rA.Cross(p))
	b.SetPosition(b.Position().Add(p.Mul(b.InvMass())))
	b.SetAngle(b.Angle() + b.InvRotInertia()*rB.Cross(p))

	return math2.Abs(c) < 0.005
}
