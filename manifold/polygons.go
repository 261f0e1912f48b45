// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

// clipVertex is one vertex surviving a clip pass, carrying the
// ContactFeature it (or the edge that produced it) originated from.
type clipVertex struct {
	point math2.Vec2
	id    ContactFeature
}

// findMaxSeparation returns the edge of poly1 (in poly1's own frame, with
// poly2 expressed relative to it via xf) whose outward normal has the
// largest separation against poly2 — the face most likely to be the
// reference face of a SAT-style separating axis.
func findMaxSeparation(poly1, poly2 *shape.Polygon, xf math2.Transform) (int, float32) {
	bestIndex := 0
	bestSeparation := float32(-math2.Infinity)

	for i, n1 := range poly1.Normals {
		v1 := poly1.Vertices[i]
		nLocal2 := xf.ToLocalVec(n1.Neg())
		proxy2 := poly2.Child(0)
		support := proxy2.Support(nLocal2)
		v2 := xf.ToWorld(poly2.Vertices[support])
		// xf maps poly2-local -> poly1-local, so v2 is already in poly1 frame.
		s := n1.Dot(v2.Sub(v1))
		if s > bestSeparation {
			bestSeparation = s
			bestIndex = i
		}
	}
	return bestIndex, bestSeparation
}

// clipIncidentEdge picks, from poly2, the edge most anti-parallel to the
// reference face's normal (the "incident" edge) and expresses it in
// poly1's frame as two clip vertices.
func clipIncidentEdge(poly1 *shape.Polygon, edge1 int, poly2 *shape.Polygon, xf math2.Transform) [2]clipVertex {
	normal1 := xf.ToLocalVec(poly1.Normals[edge1])

	index := 0
	minDot := float32(math2.Infinity)
	for i, n2 := range poly2.Normals {
		d := normal1.Dot(n2)
		if d < minDot {
			minDot = d
			index = i
		}
	}

	n := len(poly2.Vertices)
	i1, i2 := index, (index+1)%n

	return [2]clipVertex{
		{point: xf.ToWorld(poly2.Vertices[i1]), id: ContactFeature{IndexA: edge1, IndexB: i1, TypeA: FeatureFace, TypeB: FeatureVertex}},
		{point: xf.ToWorld(poly2.Vertices[i2]), id: ContactFeature{IndexA: edge1, IndexB: i2, TypeA: FeatureFace, TypeB: FeatureVertex}},
	}
}

// clipSegmentToLine is the Sutherland-Hodgman clip of a 2-point polygon
// edge against the half-plane normal.Dot(x) <= offset, used to trim the
// incident edge down to the reference face's side planes.
func clipSegmentToLine(in [2]clipVertex, normal math2.Vec2, offset float32, clipEdge int) ([2]clipVertex, int) {
	var out [2]clipVertex
	count := 0

	d0 := normal.Dot(in[0].point) - offset
	d1 := normal.Dot(in[1].point) - offset

	if d0 <= 0 {
		out[count] = in[0]
		count++
	}
	if d1 <= 0 {
		out[count] = in[1]
		count++
	}

	if d0*d1 < 0 {
		alpha := d0 / (d0 - d1)
		pt := in[0].point.Lerp(in[1].point, alpha)
		out[count] = clipVertex{point: pt, id: ContactFeature{IndexA: clipEdge, IndexB: in[0].id.IndexB, TypeA: FeatureFace, TypeB: FeatureVertex}}
		count++
	}

	return out, count
}

// CollidePolygons generates up to a 2-point face manifold between two
// convex polygons, following the reference-face / incident-edge / clip
// pipeline from CollidePolygons.cpp: find each polygon's best separating
// face, pick the one with the larger separation as the reference face,
// clip the other polygon's most anti-parallel edge against it, and keep
// only the surviving points within the reference face's own slop.
func CollidePolygons(a *shape.Polygon, xfA math2.Transform, b *shape.Polygon, xfB math2.Transform) Manifold {
	var m Manifold

	xfBtoA := math2.MulT(xfA, xfB)
	xfAtoB := math2.MulT(xfB, xfA)

	edgeA, separationA := findMaxSeparation(a, b, xfBtoA)
	edgeB, separationB := findMaxSeparation(b, a, xfAtoB)

	totalRadius := a.Radius + b.Radius
	if separationA > totalRadius || separationB > totalRadius {
		return m
	}

	var poly1, poly2 *shape.Polygon
	var edge1 int
	var flip bool
	const relativeTol = 0.98
	const absoluteTol = 0.001

	if separationB > relativeTol*separationA+absoluteTol {
		poly1, poly2 = b, a
		edge1 = edgeB
		flip = true
	} else {
		poly1, poly2 = a, b
		edge1 = edgeA
		flip = false
	}

	var xf1, xf2 math2.Transform
	if flip {
		xf1, xf2 = xfB, xfA
	} else {
		xf1, xf2 = xfA, xfB
	}
	xf2to1 := math2.MulT(xf1, xf2)

	incident := clipIncidentEdge(poly1, edge1, poly2, xf2to1)

	n1 := len(poly1.Vertices)
	i11, i12 := edge1, (edge1+1)%n1
	v11 := poly1.Vertices[i11]
	v12 := poly1.Vertices[i12]

	localTangent, _, ok := v12.Sub(v11).Normalize()
	if !ok {
		localTangent = math2.UnitVec2Right
	}
	tangent := localTangent.Vec2()
	normal := tangent.RightPerp()
	planePoint := v11.Add(v12).Mul(0.5)

	clip1, c1 := clipSegmentToLine(incident, tangent.Neg(), -tangent.Dot(v11), i11)
	if c1 < 2 {
		return m
	}
	clip2, c2 := clipSegmentToLine(clip1, tangent, tangent.Dot(v12), i12)
	if c2 < 2 {
		return m
	}

	m.Kind = KindFaceA
	m.LocalNormal = normal
	m.LocalPoint = planePoint

	pointCount := 0
	for i := 0; i < 2; i++ {
		separation := normal.Dot(clip2[i].point.Sub(v11))
		if separation <= totalRadius {
			id := clip2[i].id
			if flip {
				id = id.Flip()
			}
			// clip2 points are in poly1's frame from clipping; the manifold
			// stores each point in the incident shape's (poly2's) frame.
			m.Points[pointCount] = Point{LocalPoint: xf2to1.ToLocal(clip2[i].point), ID: id}
			pointCount++
		}
	}
	m.PointCount = pointCount

	if flip {
		m.Kind = KindFaceB
	}
	return m
}
