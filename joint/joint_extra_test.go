// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/math2"
)

func TestPrismaticJointLocksPerpendicularOffset(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 3, Y: 0.5})
	p := NewPrismatic(a, b, math2.Vec2Zero, math2.Vec2Zero, math2.Vec2{X: 1})

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 30; i++ {
		p.InitVelocityConstraints(data)
		p.WarmStart(data)
		p.SolveVelocityConstraints(data)
		for iter := 0; iter < 4; iter++ {
			p.SolvePositionConstraints(data)
		}
	}

	assert.InDelta(t, 0.0, b.Position().Y, 0.02)
	assert.InDelta(t, 3.0, b.Position().X, 0.1)
}

func TestPrismaticJointMotorDrivesAlongAxis(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 1, Y: 0})
	p := NewPrismatic(a, b, math2.Vec2Zero, math2.Vec2Zero, math2.Vec2{X: 1})
	p.EnableMotor = true
	p.MotorSpeed = 2
	p.MaxMotorForce = 1000

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 30; i++ {
		p.InitVelocityConstraints(data)
		p.WarmStart(data)
		p.SolveVelocityConstraints(data)
	}

	assert.InDelta(t, 2.0, b.LinearVelocity().X, 0.05)
}

func TestWheelJointLocksPerpendicularOffset(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 3, Y: 0.5})
	w := NewWheel(a, b, math2.Vec2Zero, math2.Vec2Zero, math2.Vec2{X: 1})

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 30; i++ {
		w.InitVelocityConstraints(data)
		w.WarmStart(data)
		w.SolveVelocityConstraints(data)
		w.SolvePositionConstraints(data)
	}

	assert.InDelta(t, 0.0, b.Position().Y, 0.02)
}

func TestMouseJointDragsBodyTowardTarget(t *testing.T) {
	ground := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2Zero)
	m := NewMouse(ground, b, math2.Vec2{X: 2, Y: 0})

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 120; i++ {
		m.InitVelocityConstraints(data)
		m.WarmStart(data)
		m.SolveVelocityConstraints(data)
		b.position = b.position.Add(b.linearVelocity.Mul(data.Dt))
	}

	assert.Less(t, b.Position().Distance(math2.Vec2{X: 2, Y: 0}), float32(0.5))
}

func TestRopeJointClampsSeparationToMaxLength(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 3, Y: 0})
	r := NewRope(a, b, math2.Vec2Zero, math2.Vec2Zero, 2)

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 60; i++ {
		r.InitVelocityConstraints(data)
		r.WarmStart(data)
		r.SolveVelocityConstraints(data)
		for iter := 0; iter < 4; iter++ {
			r.SolvePositionConstraints(data)
		}
	}

	assert.InDelta(t, 2.0, a.Position().Distance(b.Position()), 0.05)
}

func TestRopeJointLeavesSlackRopeUntouched(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 1, Y: 0})
	r := NewRope(a, b, math2.Vec2Zero, math2.Vec2Zero, 2)

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	r.InitVelocityConstraints(data)
	assert.Equal(t, StateInactive, r.state)
	assert.True(t, r.SolvePositionConstraints(data))
}

func TestFrictionJointDampensRelativeVelocity(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 1, Y: 0})
	b.linearVelocity = math2.Vec2{X: 5, Y: 0}
	b.angularVelocity = 3
	f := NewFriction(a, b, math2.Vec2Zero, math2.Vec2Zero)
	f.MaxForce = 1000
	f.MaxTorque = 1000

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 30; i++ {
		f.InitVelocityConstraints(data)
		f.WarmStart(data)
		f.SolveVelocityConstraints(data)
	}

	assert.InDelta(t, 0.0, b.LinearVelocity().X, 0.1)
	assert.InDelta(t, 0.0, b.AngularVelocity(), 0.1)
}

func TestPulleyJointConservesWeightedLength(t *testing.T) {
	groundA := math2.Vec2Zero
	groundB := math2.Vec2{X: 4, Y: 0}

	a := dynamicBody(math2.Vec2{X: 0, Y: -5})
	b := dynamicBody(math2.Vec2{X: 4, Y: -3})
	p := NewPulley(a, b, groundA, groundB, math2.Vec2Zero, math2.Vec2Zero, 1)
	initialSum := p.LengthA + p.Ratio*p.LengthB

	// Displace a's anchor further from its ground point, breaking the
	// length conservation the joint is meant to restore.
	a.position = math2.Vec2{X: 0, Y: -6}

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 60; i++ {
		p.InitVelocityConstraints(data)
		p.WarmStart(data)
		p.SolveVelocityConstraints(data)
		for iter := 0; iter < 4; iter++ {
			p.SolvePositionConstraints(data)
		}
	}

	lenA := a.Position().Sub(groundA).Length()
	lenB := b.Position().Sub(groundB).Length()
	assert.InDelta(t, initialSum, lenA+p.Ratio*lenB, 0.05)
}

func TestGearJointHoldsWeightedAngularVelocitySumNearZero(t *testing.T) {
	a := dynamicBody(math2.Vec2Zero)
	a.angularVelocity = 5
	b := dynamicBody(math2.Vec2{X: 1, Y: 0})
	g := NewGear(a, b, 1)

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 30; i++ {
		g.InitVelocityConstraints(data)
		g.WarmStart(data)
		g.SolveVelocityConstraints(data)
	}

	assert.InDelta(t, 0.0, a.AngularVelocity()+g.Ratio*b.AngularVelocity(), 0.05)
}
