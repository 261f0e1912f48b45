// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"github.com/forgephys/forge2d/collision"
	"github.com/forgephys/forge2d/math2"
)

// Multi composes several child shapes (each itself single-child, for
// simplicity) into one fixture, e.g. an L-shaped body built from two
// boxes. Each child keeps its own local offset baked into its own
// vertices; Multi does not carry a per-child transform of its own.
type Multi struct {
	Shapes []Shape
	Radius float32
}

func NewMulti(shapes ...Shape) *Multi {
	return &Multi{Shapes: shapes}
}

func (m *Multi) Kind() Kind            { return KindPolygon }
func (m *Multi) ChildCount() int       { return len(m.Shapes) }
func (m *Multi) VertexRadius() float32 { return m.Radius }

func (m *Multi) Child(childIndex int) DistanceProxy {
	return m.Shapes[childIndex].Child(0)
}

func (m *Multi) ComputeAABB(xf math2.Transform, childIndex int) collision.AABB {
	return m.Shapes[childIndex].ComputeAABB(xf, 0)
}

// ComputeMass sums each child's mass properties as if all children
// belonged to a single rigid shape: centers are mass-weighted and the
// rotational inertias, each already about the local origin, are added.
func (m *Multi) ComputeMass(density float32) MassData {
	var total MassData
	for _, s := range m.Shapes {
		md := s.ComputeMass(density)
		if total.Mass+md.Mass == 0 {
			continue
		}
		total.Center = total.Center.Mul(total.Mass).Add(md.Center.Mul(md.Mass)).Mul(1 / (total.Mass + md.Mass))
		total.RotInertia += md.RotInertia
		total.Mass += md.Mass
	}
	return total
}

func (m *Multi) TestPoint(xf math2.Transform, point math2.Vec2) bool {
	for _, s := range m.Shapes {
		if s.TestPoint(xf, point) {
			return true
		}
	}
	return false
}

func (m *Multi) RayCast(input RayCastInput, xf math2.Transform, childIndex int) (RayCastOutput, bool) {
	return m.Shapes[childIndex].RayCast(input, xf, 0)
}
