// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"github.com/forgephys/forge2d/collision"
	"github.com/forgephys/forge2d/math2"
)

// Edge is a single line segment from V1 to V2, optionally carrying ghost
// vertices V0 (before V1) and V3 (after V2) from the chain it was cut
// from. The ghost vertices are consumed only by manifold.EdgeInfo, which
// uses them to suppress a false collision normal on the "inner" side of a
// polygon built from chained edges (e.g. a terrain strip).
type Edge struct {
	V0, V1, V2, V3   math2.Vec2
	HasV0, HasV3     bool
	Radius           float32
}

func NewEdge(v1, v2 math2.Vec2) *Edge {
	return &Edge{V1: v1, V2: v2}
}

func (e *Edge) Kind() Kind            { return KindEdge }
func (e *Edge) ChildCount() int       { return 1 }
func (e *Edge) VertexRadius() float32 { return e.Radius }

func (e *Edge) Child(childIndex int) DistanceProxy {
	return DistanceProxy{Vertices: []math2.Vec2{e.V1, e.V2}, Radius: e.Radius}
}

func (e *Edge) ComputeAABB(xf math2.Transform, childIndex int) collision.AABB {
	v1 := xf.ToWorld(e.V1)
	v2 := xf.ToWorld(e.V2)
	r := math2.Vec2{X: e.Radius, Y: e.Radius}
	return collision.AABB{LowerBound: v1.Min(v2).Sub(r), UpperBound: v1.Max(v2).Add(r)}
}

// ComputeMass treats an edge as having no interior: a degenerate,
// zero-mass shape is the correct answer for a static terrain strip, so
// callers combining fixture mass data onto a body simply skip edges with
// zero mass rather than this type guessing a density-dependent line mass.
func (e *Edge) ComputeMass(density float32) MassData {
	return MassData{Mass: 0, Center: e.V1.Add(e.V2).Mul(0.5), RotInertia: 0}
}

func (e *Edge) TestPoint(xf math2.Transform, point math2.Vec2) bool {
	return false
}

// RayCast intersects the segment against V1-V2, following
// EdgeShape::RayCast: parameterize the edge as V1 + s*e and solve for the
// ray parameter and edge parameter simultaneously.
func (e *Edge) RayCast(input RayCastInput, xf math2.Transform, childIndex int) (RayCastOutput, bool) {
	p1 := xf.ToLocal(input.P1)
	p2 := xf.ToLocal(input.P2)
	d := p2.Sub(p1)

	v1, v2 := e.V1, e.V2
	edge := v2.Sub(v1)
	normal, _, ok := edge.RightPerp().Normalize()
	if !ok {
		return RayCastOutput{}, false
	}

	denominator := d.Dot(normal.Vec2())
	if denominator == 0 {
		return RayCastOutput{}, false
	}

	t := normal.Vec2().Dot(v1.Sub(p1)) / denominator
	if t < 0 || t > input.MaxFraction {
		return RayCastOutput{}, false
	}

	point := p1.MulAdd(t, d)
	s := point.Sub(v1).Dot(edge) / edge.Dot(edge)
	if s < 0 || s > 1 {
		return RayCastOutput{}, false
	}

	if denominator > 0 {
		normal = normal.Conjugate()
	}
	return RayCastOutput{Normal: normal.Mul(xf.Q), Fraction: t}, true
}
