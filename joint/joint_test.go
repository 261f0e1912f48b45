// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package joint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/math2"
)

// fakeBody is a minimal IBody for exercising joints without pulling in
// package dynamics.
type fakeBody struct {
	invMass, invRotInertia float32
	localCenter            math2.Vec2
	position               math2.Vec2
	angle                  float32
	linearVelocity         math2.Vec2
	angularVelocity        float32
}

func (b *fakeBody) InvMass() float32             { return b.invMass }
func (b *fakeBody) InvRotInertia() float32        { return b.invRotInertia }
func (b *fakeBody) LocalCenter() math2.Vec2       { return b.localCenter }
func (b *fakeBody) Position() math2.Vec2          { return b.position }
func (b *fakeBody) Angle() float32                { return b.angle }
func (b *fakeBody) LinearVelocity() math2.Vec2    { return b.linearVelocity }
func (b *fakeBody) AngularVelocity() float32      { return b.angularVelocity }
func (b *fakeBody) SetLinearVelocity(v math2.Vec2) { b.linearVelocity = v }
func (b *fakeBody) SetAngularVelocity(w float32)    { b.angularVelocity = w }
func (b *fakeBody) SetPosition(p math2.Vec2)        { b.position = p }
func (b *fakeBody) SetAngle(a float32)              { b.angle = a }

func staticBody(pos math2.Vec2) *fakeBody { return &fakeBody{position: pos} }

func dynamicBody(pos math2.Vec2) *fakeBody {
	return &fakeBody{invMass: 1, invRotInertia: 1, position: pos}
}

func TestDistanceJointPullsBodiesToRestLength(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 3, Y: 0})
	d := NewDistance(a, b, math2.Vec2Zero, math2.Vec2Zero, 2)

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 60; i++ {
		d.InitVelocityConstraints(data)
		d.WarmStart(data)
		d.SolveVelocityConstraints(data)
		for iter := 0; iter < 4; iter++ {
			d.SolvePositionConstraints(data)
		}
	}

	assert.InDelta(t, 2.0, a.Position().Distance(b.Position()), 0.02)
}

func TestDistanceJointSoftConstraintSkipsPositionCorrection(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 3, Y: 0})
	d := NewDistance(a, b, math2.Vec2Zero, math2.Vec2Zero, 2)
	d.Frequency = 4
	d.DampingRatio = 0.5

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	d.InitVelocityConstraints(data)
	assert.True(t, d.SolvePositionConstraints(data))
}

func TestRevoluteJointHoldsAnchorsTogether(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 1, Y: 0})
	b.linearVelocity = math2.Vec2{X: 0, Y: 5}
	r := NewRevolute(a, b, math2.Vec2Zero, math2.Vec2{X: -1, Y: 0})

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 30; i++ {
		r.InitVelocityConstraints(data)
		r.WarmStart(data)
		r.SolveVelocityConstraints(data)
		for iter := 0; iter < 4; iter++ {
			r.SolvePositionConstraints(data)
		}
	}

	anchorA := a.Position()
	anchorB := b.Position().Add(math2.Vec2{X: -1, Y: 0}.Rotate(math2.NewUnitVec2FromAngle(b.Angle())))
	assert.InDelta(t, 0.0, anchorA.Distance(anchorB), 0.02)
}

func TestRevoluteJointMotorDrivesAngularVelocityTowardTarget(t *testing.T) {
	a := staticBody(math2.Vec2Zero)
	b := dynamicBody(math2.Vec2{X: 1, Y: 0})
	r := NewRevolute(a, b, math2.Vec2Zero, math2.Vec2{X: -1, Y: 0})
	r.EnableMotor = true
	r.MotorSpeed = 2
	r.MaxMotorTorque = 1000

	data := SolverData{Dt: 1.0 / 60.0, InvDt: 60, WarmStarting: true}
	for i := 0; i < 30; i++ {
		r.InitVelocityConstraints(data)
		r.WarmStart(data)
		r.SolveVelocityConstraints(data)
	}

	assert.InDelta(t, 2.0, b.AngularVelocity(), 0.05)
}
