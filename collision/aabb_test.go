// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/math2"
)

func box(lx, ly, ux, uy float32) AABB {
	return AABB{LowerBound: math2.Vec2{X: lx, Y: ly}, UpperBound: math2.Vec2{X: ux, Y: uy}}
}

func TestAABBOverlaps(t *testing.T) {
	a := box(0, 0, 2, 2)
	b := box(1, 1, 3, 3)
	c := box(5, 5, 6, 6)
	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
}

func TestAABBContains(t *testing.T) {
	outer := box(0, 0, 10, 10)
	inner := box(2, 2, 3, 3)
	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
}

func TestAABBUnion(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(-1, 2, 0.5, 3)
	u := a.Union(b)
	assert.Equal(t, float32(-1), u.LowerBound.X)
	assert.Equal(t, float32(0), u.LowerBound.Y)
	assert.Equal(t, float32(1), u.UpperBound.X)
	assert.Equal(t, float32(3), u.UpperBound.Y)
}

func TestAABBFatten(t *testing.T) {
	a := box(0, 0, 1, 1)
	f := a.Fatten(0.1)
	assert.InDelta(t, -0.1, f.LowerBound.X, 1e-6)
	assert.InDelta(t, 1.1, f.UpperBound.X, 1e-6)
	assert.True(t, f.Contains(a))
}

func TestAABBRayCastHit(t *testing.T) {
	a := box(0, 0, 2, 2)
	fraction, hit := a.RayCast(RayCastInput{
		P1:          math2.Vec2{X: -1, Y: 1},
		P2:          math2.Vec2{X: 3, Y: 1},
		MaxFraction: 1,
	})
	assert.True(t, hit)
	assert.InDelta(t, 0.25, fraction, 1e-6)
}

func TestAABBRayCastMiss(t *testing.T) {
	a := box(0, 0, 2, 2)
	_, hit := a.RayCast(RayCastInput{
		P1:          math2.Vec2{X: -1, Y: 5},
		P2:          math2.Vec2{X: 3, Y: 5},
		MaxFraction: 1,
	})
	assert.False(t, hit)
}

func TestEmptyAABBUnionsToTheOtherOperand(t *testing.T) {
	e := EmptyAABB()
	a := box(1, 1, 2, 2)
	assert.Equal(t, a, e.Union(a))
}
