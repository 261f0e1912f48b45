// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

func TestCollideCirclesOverlapping(t *testing.T) {
	a := shape.NewCircle(math2.Vec2Zero, 1)
	b := shape.NewCircle(math2.Vec2Zero, 1)
	xfA := math2.TransformIdentity
	xfB := math2.Transform{P: math2.Vec2{X: 1.5, Y: 0}, Q: math2.UnitVec2Right}

	m := CollideCircles(a, xfA, b, xfB)
	assert.Equal(t, 1, m.PointCount)
	assert.Equal(t, KindCircles, m.Kind)

	wm := NewWorldManifold(&m, xfA, xfB, a.Radius, b.Radius)
	assert.InDelta(t, 1.0, wm.Normal.X, 1e-5)
	assert.InDelta(t, -0.5, wm.Separations[0], 1e-5)
}

func TestCollideCirclesSeparatedProducesNoManifold(t *testing.T) {
	a := shape.NewCircle(math2.Vec2Zero, 1)
	b := shape.NewCircle(math2.Vec2Zero, 1)
	xfB := math2.Transform{P: math2.Vec2{X: 10, Y: 0}, Q: math2.UnitVec2Right}

	m := CollideCircles(a, math2.TransformIdentity, b, xfB)
	assert.Equal(t, 0, m.PointCount)
}

func TestCollidePolygonAndCircleFaceContact(t *testing.T) {
	poly := shape.NewBox(1, 1)
	circ := shape.NewCircle(math2.Vec2Zero, 0.5)
	xfA := math2.TransformIdentity
	xfB := math2.Transform{P: math2.Vec2{X: 1.3, Y: 0}, Q: math2.UnitVec2Right}

	m := CollidePolygonAndCircle(poly, xfA, circ, xfB)
	assert.Equal(t, 1, m.PointCount)
	assert.Equal(t, KindFaceA, m.Kind)
	assert.InDelta(t, 1.0, m.LocalNormal.X, 1e-5)
}

func TestCollidePolygonAndCircleVertexContact(t *testing.T) {
	poly := shape.NewBox(1, 1)
	circ := shape.NewCircle(math2.Vec2Zero, 0.5)
	// Past the box's corner, not in front of either adjoining face.
	xfB := math2.Transform{P: math2.Vec2{X: 1.3, Y: 1.3}, Q: math2.UnitVec2Right}

	m := CollidePolygonAndCircle(poly, math2.TransformIdentity, circ, xfB)
	assert.Equal(t, 1, m.PointCount)
	assert.InDelta(t, 1.0, m.LocalPoint.X, 1e-5)
	assert.InDelta(t, 1.0, m.LocalPoint.Y, 1e-5)
}

func TestCollidePolygonAndCircleTooFarProducesNoManifold(t *testing.T) {
	poly := shape.NewBox(1, 1)
	circ := shape.NewCircle(math2.Vec2Zero, 0.5)
	xfB := math2.Transform{P: math2.Vec2{X: 10, Y: 0}, Q: math2.UnitVec2Right}

	m := CollidePolygonAndCircle(poly, math2.TransformIdentity, circ, xfB)
	assert.Equal(t, 0, m.PointCount)
}

func TestCollidePolygonsOverlappingBoxesProduceTwoPoints(t *testing.T) {
	a := shape.NewBox(1, 1)
	b := shape.NewBox(1, 1)
	xfA := math2.TransformIdentity
	xfB := math2.Transform{P: math2.Vec2{X: 1.5, Y: 0}, Q: math2.UnitVec2Right}

	m := CollidePolygons(a, xfA, b, xfB)
	assert.Equal(t, 2, m.PointCount)

	wm := NewWorldManifold(&m, xfA, xfB, 0, 0)
	for i := 0; i < m.PointCount; i++ {
		assert.Less(t, wm.Separations[i], float32(0))
	}
}

func TestCollidePolygonsSeparatedBoxesProduceNoManifold(t *testing.T) {
	a := shape.NewBox(1, 1)
	b := shape.NewBox(1, 1)
	xfB := math2.Transform{P: math2.Vec2{X: 10, Y: 0}, Q: math2.UnitVec2Right}

	m := CollidePolygons(a, math2.TransformIdentity, b, xfB)
	assert.Equal(t, 0, m.PointCount)
}

func TestContactFeatureFlipSwapsSides(t *testing.T) {
	cf := ContactFeature{IndexA: 1, IndexB: 2, TypeA: FeatureFace, TypeB: FeatureVertex}
	flipped := cf.Flip()
	assert.Equal(t, 2, flipped.IndexA)
	assert.Equal(t, 1, flipped.IndexB)
	assert.Equal(t, FeatureVertex, flipped.TypeA)
	assert.Equal(t, FeatureFace, flipped.TypeB)
}
