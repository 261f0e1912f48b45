// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/math2"
)

func TestChainOpenChildCountAndGhostVertices(t *testing.T) {
	c := NewChain([]math2.Vec2{{X: 0}, {X: 1}, {X: 2}, {X: 3}}, false)
	assert.Equal(t, 3, c.ChildCount())

	first := c.EdgeAt(0)
	assert.False(t, first.HasV0)
	assert.True(t, first.HasV3)

	middle := c.EdgeAt(1)
	assert.True(t, middle.HasV0)
	assert.True(t, middle.HasV3)

	last := c.EdgeAt(2)
	assert.True(t, last.HasV0)
	assert.False(t, last.HasV3)
}

func TestChainLoopChildCountWrapsAround(t *testing.T) {
	c := NewChain([]math2.Vec2{{X: 0}, {X: 1, Y: 1}, {X: 0, Y: 2}}, true)
	assert.Equal(t, 3, c.ChildCount())

	last := c.EdgeAt(2)
	assert.Equal(t, c.Vertices[2], last.V1)
	assert.Equal(t, c.Vertices[0], last.V2)
	assert.True(t, last.HasV0)
	assert.True(t, last.HasV3)
}

func TestChainIsMassless(t *testing.T) {
	c := NewChain([]math2.Vec2{{X: 0}, {X: 1}}, false)
	md := c.ComputeMass(10)
	assert.Equal(t, float32(0), md.Mass)
}

func TestMultiCombinesChildMassAboutCommonCenter(t *testing.T) {
	left := NewBox(1, 1)
	right := &Polygon{}
	*right = *NewBox(1, 1)
	for i := range right.Vertices {
		right.Vertices[i] = right.Vertices[i].Add(math2.Vec2{X: 4})
	}
	right.Centroid = right.Centroid.Add(math2.Vec2{X: 4})

	m := NewMulti(left, right)
	md := m.ComputeMass(1)
	assert.InDelta(t, 8.0, md.Mass, 1e-5)
	assert.InDelta(t, 2.0, md.Center.X, 1e-5)
}

func TestMultiTestPointChecksEveryChild(t *testing.T) {
	a := NewCircle(math2.Vec2{X: -5}, 0.5)
	b := NewCircle(math2.Vec2{X: 5}, 0.5)
	m := NewMulti(a, b)
	assert.True(t, m.TestPoint(math2.TransformIdentity, math2.Vec2{X: 5, Y: 0}))
	assert.False(t, m.TestPoint(math2.TransformIdentity, math2.Vec2{X: 0, Y: 0}))
}

func TestMultiKindIsUniformlyPolygon(t *testing.T) {
	m := NewMulti(NewCircle(math2.Vec2Zero, 1))
	assert.Equal(t, KindPolygon, m.Kind())
}
