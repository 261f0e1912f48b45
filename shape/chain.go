// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"github.com/forgephys/forge2d/collision"
	"github.com/forgephys/forge2d/math2"
)

// Chain is a connected strip of edges (e.g. terrain or a conveyor belt),
// each child an Edge carrying the ghost vertices of its neighbors so
// narrow-phase generators can suppress spurious normals at the internal
// joints between consecutive segments.
type Chain struct {
	Vertices []math2.Vec2
	Loop     bool
	Radius   float32
}

func NewChain(vertices []math2.Vec2, loop bool) *Chain {
	return &Chain{Vertices: vertices, Loop: loop}
}

func (c *Chain) Kind() Kind            { return KindChain }
func (c *Chain) VertexRadius() float32 { return c.Radius }

func (c *Chain) ChildCount() int {
	if c.Loop {
		return len(c.Vertices)
	}
	if len(c.Vertices) < 2 {
		return 0
	}
	return len(c.Vertices) - 1
}

// edgeAt materializes the childIndex'th edge, including the ghost
// vertices borrowed from the previous and next segment.
func (c *Chain) edgeAt(childIndex int) *Edge {
	n := len(c.Vertices)
	i1 := childIndex
	i2 := childIndex + 1
	if c.Loop {
		i2 %= n
	}
	e := &Edge{V1: c.Vertices[i1], V2: c.Vertices[i2], Radius: c.Radius}

	if c.Loop || i1 > 0 {
		i0 := i1 - 1
		if i0 < 0 {
			i0 = n - 1
		}
		e.V0 = c.Vertices[i0]
		e.HasV0 = true
	}
	if c.Loop || i2 < n-1 {
		i3 := (i2 + 1) % n
		e.V3 = c.Vertices[i3]
		e.HasV3 = true
	}
	return e
}

func (c *Chain) Child(childIndex int) DistanceProxy {
	return c.edgeAt(childIndex).Child(0)
}

// EdgeAt exposes the childIndex'th materialized edge (ghost vertices
// included) so narrow-phase dispatch can run the edge collide routines
// and build the matching EdgeInfo admissibility check directly, the way
// the chain-to-edge generators in spec.md's narrow-phase table require.
func (c *Chain) EdgeAt(childIndex int) *Edge {
	return c.edgeAt(childIndex)
}

func (c *Chain) ComputeAABB(xf math2.Transform, childIndex int) collision.AABB {
	return c.edgeAt(childIndex).ComputeAABB(xf, 0)
}

// ComputeMass matches Edge: a chain has no interior and contributes no
// mass of its own.
func (c *Chain) ComputeMass(density float32) MassData {
	return MassData{}
}

func (c *Chain) TestPoint(xf math2.Transform, point math2.Vec2) bool { return false }

func (c *Chain) RayCast(input RayCastInput, xf math2.Transform, childIndex int) (RayCastOutput, bool) {
	return c.edgeAt(childIndex).RayCast(input, xf, 0)
}
