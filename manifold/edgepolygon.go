// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

// asPolygon views a two-vertex edge as a degenerate convex polygon so it
// can be fed through the same reference-face clipping machinery
// CollidePolygons uses, matching how EPCollider in the original treats
// an edge as a one-sided polygon.
func edgeAsPolygon(e *shape.Edge) *shape.Polygon {
	normal, _, ok := e.V2.Sub(e.V1).RightPerp().Normalize()
	if !ok {
		normal = math2.UnitVec2Right
	}
	return &shape.Polygon{
		Vertices: []math2.Vec2{e.V1, e.V2},
		Normals:  []math2.Vec2{normal.Vec2(), normal.Vec2().Neg()},
		Radius:   e.Radius,
	}
}

// CollideEdgeAndPolygon runs the polygon/polygon reference-face clip with
// the edge standing in as a one-sided two-vertex polygon, then drops any
// surviving point whose contact normal falls outside the edge's
// EdgeInfo-derived admissible cone (the ghost-vertex concave-suppression
// original_source supplements the spec with).
func CollideEdgeAndPolygon(e *shape.Edge, info EdgeInfo, xfA math2.Transform, poly *shape.Polygon, xfB math2.Transform) Manifold {
	edgePoly := edgeAsPolygon(e)
	m := CollidePolygons(edgePoly, xfA, poly, xfB)
	if m.PointCount == 0 {
		return m
	}

	worldNormal := xfA.ToWorldVec(m.LocalNormal)
	if m.Kind == KindFaceB {
		worldNormal = xfB.ToWorldVec(m.LocalNormal)
	}
	localOnEdgeNormal := xfA.ToLocalVec(worldNormal)
	if !info.Admits(localOnEdgeNormal) {
		return Manifold{}
	}
	return m
}
