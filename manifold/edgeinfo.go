// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import "github.com/forgephys/forge2d/math2"

// EdgeInfo mirrors the original's EdgeInfo.hpp / ShapeSeparation.cpp: it
// separates an edge's raw two-point geometry from the question of
// whether a given incident normal is admissible against it. A terrain
// strip built from chained edges must suppress a collision normal that
// points into the "inner" side of a concave joint between two
// consecutive segments (the ghost ("ghost vertex") ahead of/behind the
// edge is what lets it tell the two cases apart), or a box sliding along
// the strip snags on every internal vertex.
type EdgeInfo struct {
	Vertex1, Vertex2 math2.Vec2
	Normal           math2.Vec2 // the edge's own outward normal, V1->V2 right-perp

	Front, Back                 bool
	LowerLimit, UpperLimit      math2.Vec2 // admissible-normal cone bounds at V1/V2
}

// NewEdgeInfo derives Front/Back admissibility and the normal cone limits
// from the edge's own two vertices and whichever ghost vertices are
// present, following the original's computation in
// EdgeShape::ComputeLowerUpper.
func NewEdgeInfo(v0 math2.Vec2, hasV0 bool, v1, v2 math2.Vec2, v3 math2.Vec2, hasV3 bool) EdgeInfo {
	edge := v2.Sub(v1)
	normal, _, ok := edge.RightPerp().Normalize()
	if !ok {
		normal = math2.UnitVec2Right
	}

	info := EdgeInfo{Vertex1: v1, Vertex2: v2, Normal: normal.Vec2()}

	if hasV0 {
		r1, _, ok1 := v1.Sub(v0).Normalize()
		if ok1 {
			convex := r1.Vec2().Cross(edge) > 0
			info.Front = convex
			info.LowerLimit = r1.Vec2().Perp()
		}
	} else {
		info.Front = true
		info.LowerLimit = math2.Vec2Zero
	}

	if hasV3 {
		r2, _, ok2 := v3.Sub(v2).Normalize()
		if ok2 {
			convex := edge.Cross(r2.Vec2()) > 0
			info.Back = convex
			info.UpperLimit = r2.Vec2().Perp()
		}
	} else {
		info.Back = true
		info.UpperLimit = math2.Vec2Zero
	}

	return info
}

// Admits reports whether the candidate world-space normal n (already
// rotated into the edge's frame) is within this edge's admissible cone —
// false means the narrow-phase generator should suppress the contact
// rather than report a spurious normal pointing into the concave side of
// a chained strip.
func (e EdgeInfo) Admits(n math2.Vec2) bool {
	if e.Front && n.Cross(e.LowerLimit) < 0 {
		return false
	}
	if e.Back && e.UpperLimit.Cross(n) < 0 {
		return false
	}
	return true
}
