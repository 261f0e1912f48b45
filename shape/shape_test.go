// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/math2"
)

func TestCircleComputeAABBAndMass(t *testing.T) {
	c := NewCircle(math2.Vec2{X: 1, Y: 2}, 0.5)
	aabb := c.ComputeAABB(math2.TransformIdentity, 0)
	assert.InDelta(t, 0.5, aabb.LowerBound.X, 1e-6)
	assert.InDelta(t, 1.5, aabb.LowerBound.Y, 1e-6)
	assert.InDelta(t, 1.5, aabb.UpperBound.X, 1e-6)
	assert.InDelta(t, 2.5, aabb.UpperBound.Y, 1e-6)

	md := c.ComputeMass(1)
	assert.InDelta(t, math2.Pi*0.25, md.Mass, 1e-5)
	assert.Equal(t, c.Center, md.Center)
}

func TestCircleTestPoint(t *testing.T) {
	c := NewCircle(math2.Vec2Zero, 1)
	assert.True(t, c.TestPoint(math2.TransformIdentity, math2.Vec2{X: 0.5, Y: 0}))
	assert.False(t, c.TestPoint(math2.TransformIdentity, math2.Vec2{X: 2, Y: 0}))
}

func TestCircleRayCastHitsNearSide(t *testing.T) {
	c := NewCircle(math2.Vec2Zero, 1)
	out, hit := c.RayCast(RayCastInput{
		P1:          math2.Vec2{X: -3, Y: 0},
		P2:          math2.Vec2{X: 3, Y: 0},
		MaxFraction: 1,
	}, math2.TransformIdentity, 0)
	assert.True(t, hit)
	assert.InDelta(t, -1.0, out.Normal.X, 1e-5)
	assert.InDelta(t, 2.0/6.0, out.Fraction, 1e-5)
}

func TestNewBoxProducesCCWSquare(t *testing.T) {
	box := NewBox(1, 1)
	assert.Len(t, box.Vertices, 4)
	md := box.ComputeMass(1)
	assert.InDelta(t, 4.0, md.Mass, 1e-5)
	assert.InDelta(t, 0, md.Center.X, 1e-5)
	assert.InDelta(t, 0, md.Center.Y, 1e-5)
}

func TestPolygonTestPoint(t *testing.T) {
	box := NewBox(1, 1)
	assert.True(t, box.TestPoint(math2.TransformIdentity, math2.Vec2{X: 0.5, Y: 0.5}))
	assert.False(t, box.TestPoint(math2.TransformIdentity, math2.Vec2{X: 2, Y: 0}))
}

func TestPolygonRayCastThroughFace(t *testing.T) {
	box := NewBox(1, 1)
	out, hit := box.RayCast(RayCastInput{
		P1:          math2.Vec2{X: -3, Y: 0},
		P2:          math2.Vec2{X: 3, Y: 0},
		MaxFraction: 1,
	}, math2.TransformIdentity, 0)
	assert.True(t, hit)
	assert.InDelta(t, -1.0, out.Normal.X, 1e-5)
	assert.InDelta(t, 2.0/6.0, out.Fraction, 1e-5)
}

func TestNewPolygonDiscardsInteriorPoint(t *testing.T) {
	p := NewPolygon([]math2.Vec2{
		{X: 0, Y: 0},
		{X: 4, Y: 0},
		{X: 4, Y: 4},
		{X: 0, Y: 4},
		{X: 2, Y: 2}, // strictly interior; must not survive the hull
	})
	assert.Len(t, p.Vertices, 4)
}

func TestEdgeComputeAABB(t *testing.T) {
	e := NewEdge(math2.Vec2{X: -1, Y: 0}, math2.Vec2{X: 1, Y: 2})
	aabb := e.ComputeAABB(math2.TransformIdentity, 0)
	assert.Equal(t, float32(-1), aabb.LowerBound.X)
	assert.Equal(t, float32(0), aabb.LowerBound.Y)
	assert.Equal(t, float32(1), aabb.UpperBound.X)
	assert.Equal(t, float32(2), aabb.UpperBound.Y)
}

func TestEdgeIsMassless(t *testing.T) {
	e := NewEdge(math2.Vec2{X: 0, Y: 0}, math2.Vec2{X: 2, Y: 0})
	md := e.ComputeMass(5)
	assert.Equal(t, float32(0), md.Mass)
	assert.Equal(t, float32(0), md.RotInertia)
}

func TestEdgeRayCastPerpendicularCrossing(t *testing.T) {
	e := NewEdge(math2.Vec2{X: -1, Y: 0}, math2.Vec2{X: 1, Y: 0})
	out, hit := e.RayCast(RayCastInput{
		P1:          math2.Vec2{X: 0, Y: -1},
		P2:          math2.Vec2{X: 0, Y: 1},
		MaxFraction: 1,
	}, math2.TransformIdentity, 0)
	assert.True(t, hit)
	assert.InDelta(t, 0.5, out.Fraction, 1e-5)
}

func TestDistanceProxySupport(t *testing.T) {
	p := DistanceProxy{Vertices: []math2.Vec2{{X: -1}, {X: 1}, {X: 0, Y: 2}}}
	assert.Equal(t, 1, p.Support(math2.Vec2{X: 1, Y: 0}))
	assert.Equal(t, 2, p.Support(math2.Vec2{X: 0, Y: 1}))
}
