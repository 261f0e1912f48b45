// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import "github.com/forgephys/forge2d/math2"

// Gear couples the relative angular motion of two bodies by a fixed
// Ratio, the way two meshed gears move together; each body is assumed
// to already be pinned to a fixed ground reference by its own Revolute,
// so this joint only needs to hold bodyA.Angle() + Ratio*bodyB.Angle()
// constant at whatever value it had when the joint was built.
type Gear struct {
	bodyA, bodyB IBody
	Ratio        float32

	constant float32
	mass     float32
	impulse  float32
}

func NewGear(bodyA, bodyB IBody, ratio float32) *Gear {
	return &Gear{
		bodyA:    bodyA,
		bodyB:    bodyB,
		Ratio:    ratio,
		constant: bodyA.Angle() + ratio*bodyB.Angle(),
	}
}

func (g *Gear) BodyA() IBody { return g.bodyA }
func (g *Gear) BodyB() IBody { return g.bodyB }

func (g *Gear) InitVelocityConstraints(data SolverData) {
	iA := g.bodyA.InvRotInertia()
	iB := g.bodyB.InvRotInertia()
	invMass := iA + g.Ratio*g.Ratio*iB
	if invMass != 0 {
		g.mass = 1 / invMass
	}
	if !data.WarmStarting {
		g.impulse = 0
	}
}

func (g *Gear) WarmStart(data SolverData) {
	a, b := g.bodyA, g.bodyB
	a.SetAngularVelocity(a.AngularVelocity() + a.InvRotInertia()*g.impulse)
	b.SetAngularVelocity(b.AngularVelocity() + g.Ratio*b.InvRotInertia()*g.impulse)
}

func (g *Gear) SolveVelocityConstraints(data SolverData) {
	a, b := g.bodyA, g.bodyB
	cdot := a.AngularVelocity() + g.Ratio*b.AngularVelocity()
	impulse := -g.mass * cdot
	g.impulse += impulse

	a.SetAngularVelocity(a.AngularVelocity() + a.InvRotInertia()*impulse)
	b.SetAngularVelocity(b.AngularVelocity() + g.Ratio*b.InvRotInertia()*impulse)
}

func (g *Gear) SolvePositionConstraints(data SolverData) bool {
	a, b := g.bodyA, g.bodyB
	c := a.Angle() + g.Ratio*b.Angle() - g.constant
	iA, iB := a.InvRotInertia(), b.InvRotInertia()
	invMass := iA + g.Ratio*g.Ratio*iB
	var impulse float32
	if invMass != 0 {
		impulse = -c / invMass
	}
	a.SetAngle(a.Angle() + iA*impulse)
	b.SetAngle(b.Angle() + g.Ratio*iB*impulse)
	return math2.Abs(c) < 0.005
}
