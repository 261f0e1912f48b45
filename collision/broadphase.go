// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import (
	"sort"

	"github.com/forgephys/forge2d/math2"
)

// Pair identifies two proxies whose fat AABBs overlap, ordered so
// (Min, Max) is stable regardless of which proxy moved this step — the
// same shape as the original's ProxyIdPair, used to dedupe an id moving
// past several neighbors in one UpdatePairs call.
type Pair struct {
	ProxyIdA int
	ProxyIdB int
}

// BroadPhase wraps a DynamicTree with the move-buffer / pair-buffer
// pattern of the original's b2BroadPhase: proxies that moved since the
// last UpdatePairs are recorded in moveBuffer, and UpdatePairs re-queries
// only those proxies' fat AABBs against the whole tree rather than
// re-testing every pair in the world.
type BroadPhase struct {
	tree        *DynamicTree
	moveBuffer  []int
	moveSet     map[int]bool
	queryProxyID int
}

func NewBroadPhase() *BroadPhase {
	return &BroadPhase{tree: NewDynamicTree(), moveSet: make(map[int]bool)}
}

func (bp *BroadPhase) CreateProxy(aabb AABB, userData interface{}) int {
	id := bp.tree.CreateProxy(aabb, userData)
	bp.bufferMove(id)
	return id
}

func (bp *BroadPhase) DestroyProxy(id int) {
	bp.unbufferMove(id)
	bp.tree.DestroyProxy(id)
}

// MoveProxy buffers id for the next UpdatePairs call only if the tree
// actually had to touch it (the proxy's fat AABB no longer contains the
// tight one).
func (bp *BroadPhase) MoveProxy(id int, aabb AABB, displacement math2.Vec2) {
	moved := bp.tree.MoveProxy(id, aabb, displacement)
	if moved {
		bp.bufferMove(id)
	}
}

func (bp *BroadPhase) UserData(id int) interface{} { return bp.tree.UserData(id) }
func (bp *BroadPhase) FatAABB(id int) AABB         { return bp.tree.FatAABB(id) }
func (bp *BroadPhase) TestOverlap(idA, idB int) bool {
	return bp.tree.FatAABB(idA).Overlaps(bp.tree.FatAABB(idB))
}

func (bp *BroadPhase) bufferMove(id int) {
	if bp.moveSet[id] {
		return
	}
	bp.moveSet[id] = true
	bp.moveBuffer = append(bp.moveBuffer, id)
}

func (bp *BroadPhase) unbufferMove(id int) {
	if !bp.moveSet[id] {
		return
	}
	delete(bp.moveSet, id)
	for i, v := range bp.moveBuffer {
		if v == id {
			bp.moveBuffer = append(bp.moveBuffer[:i], bp.moveBuffer[i+1:]...)
			break
		}
	}
}

// UpdatePairs re-queries the tree for every proxy buffered since the last
// call and returns the deduplicated, canonically-ordered set of new
// overlapping pairs it found (self-pairs and duplicates collapsed),
// leaving it to the caller (the contact manager) to diff this against its
// existing contact set and create/keep/destroy contacts accordingly.
func (bp *BroadPhase) UpdatePairs() []Pair {
	pairSet := make(map[Pair]bool)
	for _, queryID := range bp.moveBuffer {
		bp.queryProxyID = queryID
		fat := bp.tree.FatAABB(queryID)
		bp.tree.Query(fat, func(id int) bool {
			if id == bp.queryProxyID {
				return true
			}
			a, b := id, bp.queryProxyID
			if a > b {
				a, b = b, a
			}
			pairSet[Pair{ProxyIdA: a, ProxyIdB: b}] = true
			return true
		})
	}

	bp.moveBuffer = bp.moveBuffer[:0]
	for k := range bp.moveSet {
		delete(bp.moveSet, k)
	}

	pairs := make([]Pair, 0, len(pairSet))
	for p := range pairSet {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].ProxyIdA != pairs[j].ProxyIdA {
			return pairs[i].ProxyIdA < pairs[j].ProxyIdA
		}
		return pairs[i].ProxyIdB < pairs[j].ProxyIdB
	})
	return pairs
}

// Query visits every leaf whose fat AABB overlaps aabb.
func (bp *BroadPhase) Query(aabb AABB, cb func(id int) bool) {
	bp.tree.Query(aabb, cb)
}

// RayCast visits every leaf along the given segment; see DynamicTree.RayCast.
func (bp *BroadPhase) RayCast(rc RayCastInput, cb func(id int, rc RayCastInput) float32) {
	bp.tree.RayCast(rc, cb)
}
