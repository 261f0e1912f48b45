// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/manifold"
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

// circleCircleManifold builds the manifold InitVelocityConstraints would
// see for two circles at world y-coordinates ay and by: CollideCircles
// itself only needs the relative transform between the two shapes, which
// InitVelocityConstraints then reconciles against the absolute body
// positions passed alongside it.
func circleCircleManifold(ay, by float32, ra, rb float32) manifold.Manifold {
	a := shape.NewCircle(math2.Vec2Zero, ra)
	b := shape.NewCircle(math2.Vec2Zero, rb)
	return manifold.CollideCircles(a, math2.TransformIdentity, b, math2.Transform{P: math2.Vec2{X: 0, Y: by - ay}, Q: math2.UnitVec2Right})
}

func TestFallingCircleOnStaticCircleStopsOnNormalImpulse(t *testing.T) {
	m := circleCircleManifold(0, 1.9, 1, 1)
	assert.Equal(t, 1, m.PointCount)

	bodies := []BodyConstraint{
		{InvMass: 0, InvRotInertia: 0, Position: math2.Vec2{X: 0, Y: 0}},
		{InvMass: 1, InvRotInertia: 1, Position: math2.Vec2{X: 0, Y: 1.9}, LinearVelocity: math2.Vec2{X: 0, Y: -5}},
	}
	contacts := []ContactInput{{Manifold: &m, RadiusA: 1, RadiusB: 1, Friction: 0.2}}

	vcs, pcs := InitVelocityConstraints(bodies, contacts, []int{0}, []int{1})
	assert.Len(t, vcs, 1)
	assert.InDelta(t, 1.0, vcs[0].Normal.Y, 1e-5)

	SolveVelocityConstraints(bodies, vcs)
	assert.InDelta(t, 0.0, bodies[1].LinearVelocity.Y, 1e-4)
	assert.Greater(t, vcs[0].Points[0].NormalImpulse, float32(0))

	minSep := SolvePositionConstraints(bodies, pcs)
	assert.InDelta(t, -0.1, minSep, 1e-4)
	assert.Greater(t, bodies[1].Position.Y, float32(1.9))
}

func TestWarmStartReappliesStoredImpulse(t *testing.T) {
	m := circleCircleManifold(0, 1.9, 1, 1)

	bodies := []BodyConstraint{
		{InvMass: 0, Position: math2.Vec2{X: 0, Y: 0}},
		{InvMass: 1, Position: math2.Vec2{X: 0, Y: 1.9}},
	}
	contacts := []ContactInput{{Manifold: &m, RadiusA: 1, RadiusB: 1}}
	vcs, _ := InitVelocityConstraints(bodies, contacts, []int{0}, []int{1})
	vcs[0].Points[0].NormalImpulse = 3

	WarmStart(bodies, vcs)
	assert.InDelta(t, 3.0, bodies[1].LinearVelocity.Y, 1e-5)
}

func TestStoreImpulsesCopiesBackToManifold(t *testing.T) {
	m := circleCircleManifold(0, 1.9, 1, 1)
	bodies := []BodyConstraint{
		{InvMass: 0, Position: math2.Vec2{X: 0, Y: 0}},
		{InvMass: 1, InvRotInertia: 1, Position: math2.Vec2{X: 0, Y: 1.9}, LinearVelocity: math2.Vec2{X: 0, Y: -5}},
	}
	contacts := []ContactInput{{Manifold: &m, RadiusA: 1, RadiusB: 1}}
	vcs, _ := InitVelocityConstraints(bodies, contacts, []int{0}, []int{1})
	SolveVelocityConstraints(bodies, vcs)

	StoreImpulses(vcs, []*manifold.Manifold{&m})
	assert.Equal(t, vcs[0].Points[0].NormalImpulse, m.Points[0].NormalImpulse)
}

func TestSolveVelocityConstraintsRespectsFrictionCap(t *testing.T) {
	m := circleCircleManifold(0, 1.9, 1, 1)
	bodies := []BodyConstraint{
		{InvMass: 0, Position: math2.Vec2{X: 0, Y: 0}},
		{InvMass: 1, InvRotInertia: 1, Position: math2.Vec2{X: 0, Y: 1.9}, LinearVelocity: math2.Vec2{X: 10, Y: -5}},
	}
	contacts := []ContactInput{{Manifold: &m, RadiusA: 1, RadiusB: 1, Friction: 0.1}}
	vcs, _ := InitVelocityConstraints(bodies, contacts, []int{0}, []int{1})

	SolveVelocityConstraints(bodies, vcs)
	maxFriction := vcs[0].Friction * vcs[0].Points[0].NormalImpulse
	assert.LessOrEqual(t, vcs[0].Points[0].TangentImpulse, maxFriction+1e-4)
	assert.GreaterOrEqual(t, vcs[0].Points[0].TangentImpulse, -maxFriction-1e-4)
}
