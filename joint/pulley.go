// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// Pulley links two bodies through fixed ground anchors with a shared
// rope of total length LengthA+Ratio*LengthB: pulling bodyA's side in
// pays out bodyB's side, scaled by Ratio, like a block-and-tackle.
type Pulley struct {
	bodyA, bodyB                 IBody
	GroundAnchorA, GroundAnchorB math2.Vec2
	LocalAnchorA, LocalAnchorB   math2.Vec2
	LengthA, LengthB             float32
	Ratio                        float32

	uA, uB   math2.Vec2
	rA, rB   math2.Vec2
	mass     float32
	impulse  float32
}

func NewPulley(bodyA, bodyB IBody, groundAnchorA, groundAnchorB, localAnchorA, localAnchorB math2.Vec2, ratio float32) *Pulley {
	p := &Pulley{
		bodyA: bodyA, bodyB: bodyB,
		GroundAnchorA: groundAnchorA, GroundAnchorB: groundAnchorB,
		LocalAnchorA: localAnchorA, LocalAnchorB: localAnchorB,
		Ratio: ratio,
	}
	dA := bodyA.Position().Add(localAnchorA).Sub(groundAnchorA)
	dB := bodyB.Position().Add(localAnchorB).Sub(groundAnchorB)
	p.LengthA = dA.Length()
	p.LengthB = dB.Length()
	return p
}

func (p *Pulley) BodyA() IBody { return p.bodyA }
func (p *Pulley) BodyB() IBody { return p.bodyB }

func (p *Pulley) InitVelocityConstraints(data SolverData) {
	a, b := p.bodyA, p.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	p.rA = p.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	p.rB = p.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	pA := a.Position().Add(p.rA)
	pB := b.Position().Add(p.rB)

	uA, lenA, okA := pA.Sub(p.GroundAnchorA).Normalize()
	uB, lenB, okB := pB.Sub(p.GroundAnchorB).Normalize()
	if okA {
		p.uA = uA.Vec2()
	} else {
		p.uA = math2.Vec2Zero
	}
	if okB {
		p.uB = uB.Vec2()
	} else {
		p.uB = math2.Vec2Zero
	}
	_ = lenA
	_ = lenB

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	crA := p.rA.Cross(p.uA)
	crB := p.rB.Cross(p.uB)
	mAcoef := mA + iA*crA*crA
	mBcoef := mB + iB*crB*crB

	invMass := mAcoef + p.Ratio*p.Ratio*mBcoef
	if invMass != 0 {
		p.mass = 1 / invMass
	}

	if !data.WarmStarting {
		p.impulse = 0
	}
}

func (p *Pulley) WarmStart(data SolverData) {
	a, b := p.bodyA, p.bodyB
	pA := p.uA.Mul(-p.impulse)
	pB := p.uB.Mul(-p.Ratio * p.impulse)

	a.SetLinearVelocity(a.LinearVelocity().Add(pA.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() + a.InvRotInertia()*p.rA.Cross(pA))
	b.SetLinearVelocity(b.LinearVelocity().Add(pB.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*p.rB.Cross(pB))
}

func (p *Pulley) SolveVelocityConstraints(data SolverData) {
	a, b := p.bodyA, p.bodyB
	vpA := a.LinearVelocity().Add(p.rA.CrossScalar(a.AngularVelocity()))
	vpB := b.LinearVelocity().Add(p.rB.CrossScalar(b.AngularVelocity()))

	cdot := -p.uA.Dot(vpA) - p.Ratio*p.uB.Dot(vpB)
	impulse := -p.mass * cdot
	p.impulse += impulse

	pA := p.uA.Mul(-impulse)
	pB := p.uB.Mul(-p.Ratio * impulse)

	a.SetLinearVelocity(a.LinearVelocity().Add(pA.Mul(a.InvMass())))
	a.SetAngularVelocity(a.AngularVelocity() + a.InvRotInertia()*p.rA.Cross(pA))
	b.SetLinearVelocity(b.LinearVelocity().Add(pB.Mul(b.InvMass())))
	b.SetAngularVelocity(b.AngularVelocity() + b.InvRotInertia()*p.rB.Cross(pB))
}

func (p *Pulley) SolvePositionConstraints(data SolverData) bool {
	a, b := p.bodyA, p.bodyB
	qA := math2.NewUnitVec2FromAngle(a.Angle())
	qB := math2.NewUnitVec2FromAngle(b.Angle())

	rA := p.LocalAnchorA.Sub(a.LocalCenter()).Rotate(qA)
	rB := p.LocalAnchorB.Sub(b.LocalCenter()).Rotate(qB)

	pA := a.Position().Add(rA)
	pB := b.Position().Add(rB)

	uA, lenA, okA := pA.Sub(p.GroundAnchorA).Normalize()
	uB, lenB, okB := pB.Sub(p.GroundAnchorB).Normalize()
	if !okA {
		lenA = 0
	}
	if !okB {
		lenB = 0
	}

	c := p.LengthA + p.Ratio*p.LengthB - lenA - p.Ratio*lenB
	impulse := -p.mass * c

	pAimpulse := uA.Vec2().Mul(-impulse)
	pBimpulse := uB.Vec2().Mul(-p.Ratio * impulse)

	mA, mB := a.InvMass(), b.InvMass()
	iA, iB := a.InvRotInertia(), b.InvRotInertia()

	a.SetPosition(a.Position().Add(pAimpulse.Mul(mA)))
	a.SetAngle(a.Angle() + iA*rA.Cross(pAimpulse))
	b.SetPosition(b.Position().Add(pBimpulse.Mul(mB)))
	b.SetAngle(b.Angle() + iB*rB.Cross(pBimpulse))

	return math2.Abs(c) < 0.005
}
