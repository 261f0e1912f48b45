// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collision

import "github.com/forgephys/forge2d/math2"

// aabbExtension fattens a proxy's AABB so a small motion doesn't force a
// tree rebalance every step; only a motion crossing the fat margin
// triggers MoveProxy to actually touch the tree.
const aabbExtension = float32(0.1)

// aabbMultiplier predicts a moving proxy's displacement and fattens its
// AABB in the direction of travel by this multiple, so a fast proxy is
// less likely to tunnel out of its own fat bound between steps.
const aabbMultiplier = float32(4.0)

const nullNode = -1

type treeNode struct {
	aabb     AABB
	userData interface{}

	parent int // also doubles as "next free node" when this node is on the freelist
	left   int
	right  int
	height int // -1 marks a free node
}

func (n *treeNode) isLeaf() bool { return n.left == nullNode }

// DynamicTree is an array-backed, freelist-allocated AABB tree: every
// node is an index into a slice rather than a pointer, so proxies survive
// a tree rebalance without invalidating anything the broad-phase holds
// onto (it only ever stores the int id).
type DynamicTree struct {
	nodes     []treeNode
	root      int
	freeList  int
	nodeCount int
}

func NewDynamicTree() *DynamicTree {
	return &DynamicTree{root: nullNode, freeList: nullNode}
}

func (t *DynamicTree) allocateNode() int {
	if t.freeList == nullNode {
		t.nodes = append(t.nodes, treeNode{})
		n := len(t.nodes) - 1
		t.nodes[n] = treeNode{parent: nullNode, left: nullNode, right: nullNode, height: -1}
		t.freeList = n
	}
	id := t.freeList
	t.freeList = t.nodes[id].parent
	t.nodes[id] = treeNode{parent: nullNode, left: nullNode, right: nullNode, height: 0}
	t.nodeCount++
	return id
}

func (t *DynamicTree) freeNode(id int) {
	t.nodes[id].parent = t.freeList
	t.nodes[id].height = -1
	t.freeList = id
	t.nodeCount--
}

// CreateProxy inserts a new leaf for aabb and returns its stable proxy id.
func (t *DynamicTree) CreateProxy(aabb AABB, userData interface{}) int {
	id := t.allocateNode()
	margin := math2.Vec2{X: aabbExtension, Y: aabbExtension}
	t.nodes[id].aabb = AABB{LowerBound: aabb.LowerBound.Sub(margin), UpperBound: aabb.UpperBound.Add(margin)}
	t.nodes[id].userData = userData
	t.nodes[id].height = 0
	t.insertLeaf(id)
	return id
}

func (t *DynamicTree) DestroyProxy(id int) {
	t.removeLeaf(id)
	t.freeNode(id)
}

// MoveProxy re-inserts id's leaf only if its fat AABB no longer contains
// the tight aabb passed in, fattening in the direction of displacement so
// a body moving consistently in one direction doesn't thrash the tree.
func (t *DynamicTree) MoveProxy(id int, aabb AABB, displacement math2.Vec2) bool {
	fat := t.nodes[id].aabb
	if fat.Contains(aabb) {
		return false
	}
	t.removeLeaf(id)

	margin := math2.Vec2{X: aabbExtension, Y: aabbExtension}
	newFat := AABB{LowerBound: aabb.LowerBound.Sub(margin), UpperBound: aabb.UpperBound.Add(margin)}

	if displacement.X < 0 {
		newFat.LowerBound.X += aabbMultiplier * displacement.X
	} else {
		newFat.UpperBound.X += aabbMultiplier * displacement.X
	}
	if displacement.Y < 0 {
		newFat.LowerBound.Y += aabbMultiplier * displacement.Y
	} else {
		newFat.UpperBound.Y += aabbMultiplier * displacement.Y
	}

	t.nodes[id].aabb = newFat
	t.insertLeaf(id)
	return true
}

func (t *DynamicTree) UserData(id int) interface{} { return t.nodes[id].userData }
func (t *DynamicTree) FatAABB(id int) AABB         { return t.nodes[id].aabb }

// Query visits every leaf whose fat AABB overlaps aabb, calling cb with
// its id; cb returns false to stop the query early.
func (t *DynamicTree) Query(aabb AABB, cb func(id int) bool) {
	if t.root == nullNode {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.nodes[id]
		if !node.aabb.Overlaps(aabb) {
			continue
		}
		if node.isLeaf() {
			if !cb(id) {
				return
			}
		} else {
			stack = append(stack, node.left, node.right)
		}
	}
}

// RayCast visits every leaf whose fat AABB the segment from rc.P1 to
// rc.P2 crosses within [0, rc.MaxFraction], narrowing MaxFraction as cb
// returns the fraction it wants to continue searching up to (a typical
// cb refines MaxFraction to the closest hit found so far).
func (t *DynamicTree) RayCast(rc RayCastInput, cb func(id int, rc RayCastInput) float32) {
	if t.root == nullNode {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &t.nodes[id]
		if _, hit := node.aabb.RayCast(rc); !hit {
			continue
		}
		if node.isLeaf() {
			fraction := cb(id, rc)
			if fraction == 0 {
				return
			}
			if fraction > 0 {
				rc.MaxFraction = fraction
			}
		} else {
			stack = append(stack, node.left, node.right)
		}
	}
}

// insertLeaf walks down from the root choosing, at each internal node,
// the child whose AABB grows the least to accommodate the new leaf (the
// surface-area-heuristic descent from the original DynamicTree), then
// rebalances ancestor heights and AABBs back up to the root.
func (t *DynamicTree) insertLeaf(leaf int) {
	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	leafAABB := t.nodes[leaf].aabb
	index := t.root
	for !t.nodes[index].isLeaf() {
		node := &t.nodes[index]
		left, right := node.left, node.right

		area := node.aabb.Perimeter()
		combined := node.aabb.Union(leafAABB)
		combinedArea := combined.Perimeter()

		cost := 2 * combinedArea
		inheritCost := 2 * (combinedArea - area)

		costLeft := t.descendCost(left, leafAABB) + inheritCost
		costRight := t.descendCost(right, leafAABB) + inheritCost

		if cost < costLeft && cost < costRight {
			break
		}
		if costLeft < costRight {
			index = left
		} else {
			index = right
		}
	}

	sibling := index
	oldParent := t.nodes[sibling].parent
	newParent := t.allocateNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].aabb = leafAABB.Union(t.nodes[sibling].aabb)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	if oldParent != nullNode {
		if t.nodes[oldParent].left == sibling {
			t.nodes[oldParent].left = newParent
		} else {
			t.nodes[oldParent].right = newParent
		}
		t.nodes[newParent].left = sibling
		t.nodes[newParent].right = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
	} else {
		t.nodes[newParent].left = sibling
		t.nodes[newParent].right = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
		t.root = newParent
	}

	t.fixupAncestors(t.nodes[leaf].parent)
}

func (t *DynamicTree) descendCost(child int, leafAABB AABB) float32 {
	node := &t.nodes[child]
	combined := node.aabb.Union(leafAABB)
	if node.isLeaf() {
		return combined.Perimeter()
	}
	return combined.Perimeter() - node.aabb.Perimeter()
}

func (t *DynamicTree) fixupAncestors(start int) {
	index := start
	for index != nullNode {
		index = t.balance(index)
		node := &t.nodes[index]
		left, right := node.left, node.right
		node.height = 1 + maxInt(t.nodes[left].height, t.nodes[right].height)
		node.aabb = t.nodes[left].aabb.Union(t.nodes[right].aabb)
		index = node.parent
	}
}

func (t *DynamicTree) removeLeaf(leaf int) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	var sibling int
	if t.nodes[parent].left == leaf {
		sibling = t.nodes[parent].right
	} else {
		sibling = t.nodes[parent].left
	}

	if grandParent != nullNode {
		if t.nodes[grandParent].left == parent {
			t.nodes[grandParent].left = sibling
		} else {
			t.nodes[grandParent].right = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.freeNode(parent)
		t.fixupAncestors(grandParent)
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
	}
}

// balance performs a single AVL-style rotation at index if its subtrees'
// heights differ by more than one, returning the node now occupying that
// position (unchanged if already balanced).
func (t *DynamicTree) balance(index int) int {
	a := &t.nodes[index]
	if a.isLeaf() || a.height < 2 {
		return index
	}

	iB, iC := a.left, a.right
	b, c := &t.nodes[iB], &t.nodes[iC]
	balanceFactor := c.height - b.height

	if balanceFactor > 1 {
		return t.rotate(index, iC, iB)
	}
	if balanceFactor < -1 {
		return t.rotate(index, iB, iC)
	}
	return index
}

// rotate promotes iHeavy (the taller child of iA) to iA's position,
// pushing iA down as one of iHeavy's children in place of whichever of
// iHeavy's own children is shallower. iLight is iA's other, untouched
// child.
func (t *DynamicTree) rotate(iA, iHeavy, iLight int) int {
	a := &t.nodes[iA]
	heavy := &t.nodes[iHeavy]
	f, g := heavy.left, heavy.right

	heavy.left = iA
	heavy.parent = a.parent
	a.parent = iHeavy

	if heavy.parent != nullNode {
		if t.nodes[heavy.parent].left == iA {
			t.nodes[heavy.parent].left = iHeavy
		} else {
			t.nodes[heavy.parent].right = iHeavy
		}
	} else {
		t.root = iHeavy
	}

	if t.nodes[f].height > t.nodes[g].height {
		heavy.right = f
		if a.left == iHeavy {
			a.left = g
		} else {
			a.right = g
		}
		t.nodes[g].parent = iA
		a.aabb = iLightAABB(t, iLight, g)
		heavy.aabb = t.nodes[iA].aabb.Union(t.nodes[f].aabb)
		a.height = 1 + maxInt(t.nodes[iLight].height, t.nodes[g].height)
		heavy.height = 1 + maxInt(a.height, t.nodes[f].height)
	} else {
		heavy.right = g
		if a.left == iHeavy {
			a.left = f
		} else {
			a.right = f
		}
		t.nodes[f].parent = iA
		a.aabb = iLightAABB(t, iLight, f)
		heavy.aabb = t.nodes[iA].aabb.Union(t.nodes[g].aabb)
		a.height = 1 + maxInt(t.nodes[iLight].height, t.nodes[f].height)
		heavy.height = 1 + maxInt(a.height, t.nodes[g].height)
	}

	return iHeavy
}

func iLightAABB(t *DynamicTree, iLight, other int) AABB {
	return t.nodes[iLight].aabb.Union(t.nodes[other].aabb)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
