// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/math2"
)

func TestDynamicTreeCreateAndQuery(t *testing.T) {
	tree := NewDynamicTree()
	idA := tree.CreateProxy(box(0, 0, 1, 1), "a")
	idB := tree.CreateProxy(box(5, 5, 6, 6), "b")

	var found []int
	tree.Query(box(-1, -1, 2, 2), func(id int) bool {
		found = append(found, id)
		return true
	})

	assert.Contains(t, found, idA)
	assert.NotContains(t, found, idB)
	assert.Equal(t, "a", tree.UserData(idA))
}

func TestDynamicTreeFatAABBContainsTight(t *testing.T) {
	tree := NewDynamicTree()
	tight := box(0, 0, 1, 1)
	id := tree.CreateProxy(tight, nil)
	assert.True(t, tree.FatAABB(id).Contains(tight))
}

func TestDynamicTreeMoveProxyOnlyTouchesTreeWhenNeeded(t *testing.T) {
	tree := NewDynamicTree()
	id := tree.CreateProxy(box(0, 0, 1, 1), nil)

	// A tiny move still inside the fat AABB is a no-op.
	moved := tree.MoveProxy(id, box(0.01, 0.01, 1.01, 1.01), math2.Vec2Zero)
	assert.False(t, moved)

	// A move far enough to escape the fat margin forces a reinsertion.
	moved = tree.MoveProxy(id, box(10, 10, 11, 11), math2.Vec2{X: 1, Y: 1})
	assert.True(t, moved)
	assert.True(t, tree.FatAABB(id).Contains(box(10, 10, 11, 11)))
}

func TestDynamicTreeDestroyProxyRemovesItFromQueries(t *testing.T) {
	tree := NewDynamicTree()
	id := tree.CreateProxy(box(0, 0, 1, 1), nil)
	tree.DestroyProxy(id)

	found := false
	tree.Query(box(-10, -10, 10, 10), func(int) bool {
		found = true
		return true
	})
	assert.False(t, found)
}

func TestDynamicTreeRayCastFindsProxyAlongSegment(t *testing.T) {
	tree := NewDynamicTree()
	id := tree.CreateProxy(box(5, -1, 6, 1), nil)

	var hitID int
	var hitFraction float32
	tree.RayCast(RayCastInput{P1: math2.Vec2{X: 0, Y: 0}, P2: math2.Vec2{X: 10, Y: 0}, MaxFraction: 1}, func(proxyID int, rc RayCastInput) float32 {
		hitID = proxyID
		fr, _ := tree.FatAABB(proxyID).RayCast(rc)
		hitFraction = fr
		return rc.MaxFraction
	})
	assert.Equal(t, id, hitID)
	assert.Greater(t, hitFraction, float32(0))
}

func TestDynamicTreeBalancesManyProxies(t *testing.T) {
	tree := NewDynamicTree()
	for i := 0; i < 200; i++ {
		x := float32(i)
		tree.CreateProxy(box(x, 0, x+1, 1), i)
	}

	var count int
	tree.Query(box(-1000, -1000, 1000, 1000), func(int) bool {
		count++
		return true
	})
	assert.Equal(t, 200, count)
}
