// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

// CollideEdgeAndCircle treats the edge as a degenerate two-vertex
// polygon and runs the same closest-point-on-segment test
// CollidePolygonAndCircle uses for a single face, consulting info (built
// from the edge's ghost vertices) to suppress a vertex contact the
// concave side of a chained strip would otherwise report.
func CollideEdgeAndCircle(e *shape.Edge, info EdgeInfo, xfA math2.Transform, circ *shape.Circle, xfB math2.Transform) Manifold {
	var m Manifold

	q := xfA.ToLocal(xfB.ToWorld(circ.Center))

	e1 := e.V2.Sub(e.V1)
	u := e1.Dot(e.V2.Sub(q))
	v := e1.Dot(q.Sub(e.V1))

	radius := e.Radius + circ.Radius

	var normal math2.Vec2
	var point math2.Vec2

	switch {
	case v <= 0:
		point = e.V1
		d := q.Sub(e.V1)
		if d.LengthSquared() > radius*radius {
			return m
		}
		n, _, ok := d.Normalize()
		if !ok {
			return m
		}
		if !info.Admits(n.Vec2()) {
			return m
		}
		normal = n.Vec2()
	case u <= 0:
		point = e.V2
		d := q.Sub(e.V2)
		if d.LengthSquared() > radius*radius {
			return m
		}
		n, _, ok := d.Normalize()
		if !ok {
			return m
		}
		if !info.Admits(n.Vec2()) {
			return m
		}
		normal = n.Vec2()
	default:
		n, _, ok := info.Normal.Normalize()
		if !ok {
			return m
		}
		separation := n.Vec2().Dot(q.Sub(e.V1))
		if separation > radius || separation < -radius {
			return m
		}
		normal = n.Vec2()
		if separation < 0 {
			normal = normal.Neg()
		}
		point = e.V1.Add(e.V2).Mul(0.5)
	}

	m.Kind = KindFaceA
	m.LocalNormal = normal
	m.LocalPoint = point
	m.PointCount = 1
	m.Points[0] = Point{LocalPoint: circ.Center, ID: ContactFeature{TypeA: FeatureFace, TypeB: FeatureVertex}}
	return m
}
