// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

// CollidePolygonAndCircle finds the polygon edge closest to the circle's
// center and produces either a face contact (circle center projects onto
// the edge's interior) or a vertex contact (it projects past one end),
// mirroring CollidePolygonAndCircle.cpp.
func CollidePolygonAndCircle(poly *shape.Polygon, xfA math2.Transform, circ *shape.Circle, xfB math2.Transform) Manifold {
	var m Manifold

	c := xfA.ToLocal(xfB.ToWorld(circ.Center))

	separation := float32(-math2.Infinity)
	normalIndex := 0
	for i, v := range poly.Vertices {
		s := poly.Normals[i].Dot(c.Sub(v))
		if s > separation {
			separation = s
			normalIndex = i
		}
	}
	if separation > poly.Radius+circ.Radius {
		return m
	}

	n := len(poly.Vertices)
	v1 := poly.Vertices[normalIndex]
	v2 := poly.Vertices[(normalIndex+1)%n]

	if separation < math2.Epsilon {
		m.Kind = KindFaceA
		normal := poly.Normals[normalIndex]
		m.LocalNormal = normal
		m.LocalPoint = v1.Add(v2).Mul(0.5)
		m.PointCount = 1
		m.Points[0] = Point{LocalPoint: circ.Center, ID: ContactFeature{TypeA: FeatureFace, TypeB: FeatureVertex}}
		return m
	}

	u1 := c.Sub(v1).Dot(v2.Sub(v1))
	u2 := c.Sub(v2).Dot(v1.Sub(v2))

	switch {
	case u1 <= 0:
		if c.DistanceSquared(v1) > (poly.Radius+circ.Radius)*(poly.Radius+circ.Radius) {
			return m
		}
		m.Kind = KindFaceA
		normal, _, ok := c.Sub(v1).Normalize()
		if !ok {
			normal = math2.UnitVec2Right
		}
		m.LocalNormal = normal.Vec2()
		m.LocalPoint = v1
	case u2 <= 0:
		if c.DistanceSquared(v2) > (poly.Radius+circ.Radius)*(poly.Radius+circ.Radius) {
			return m
		}
		m.Kind = KindFaceA
		normal, _, ok := c.Sub(v2).Normalize()
		if !ok {
			normal = math2.UnitVec2Right
		}
		m.LocalNormal = normal.Vec2()
		m.LocalPoint = v2
	default:
		m.Kind = KindFaceA
		m.LocalNormal = poly.Normals[normalIndex]
		m.LocalPoint = v1.Add(v2).Mul(0.5)
	}

	m.PointCount = 1
	m.Points[0] = Point{LocalPoint: circ.Center, ID: ContactFeature{TypeA: FeatureFace, TypeB: FeatureVertex}}
	return m
}
