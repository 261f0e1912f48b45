// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"github.com/forgephys/forge2d/collision"
	"github.com/forgephys/forge2d/math2"
)

// Polygon is a convex polygon of 3..MaxPolygonVertices vertices, wound
// counter-clockwise, with a per-edge outward normal precomputed at
// construction and an optional uniform skin Radius (nonzero only for
// polygons built as the convex hull of a rounded shape).
type Polygon struct {
	Vertices []math2.Vec2
	Normals  []math2.Vec2
	Centroid math2.Vec2
	Radius   float32
}

// MaxPolygonVertices bounds how many vertices a single convex hull may
// carry; the sequential-impulse solver only ever needs up to two contact
// points per manifold regardless, but narrow-phase face clipping assumes
// a small, fixed-size polygon.
const MaxPolygonVertices = 16

// NewPolygon computes the convex hull of points (discarding points inside
// the hull and nearly-collinear ones) and derives edge normals and the
// area centroid from it, mirroring PolygonShape::Set in the original.
func NewPolygon(points []math2.Vec2) *Polygon {
	hull := convexHull(points)
	n := len(hull)
	normals := make([]math2.Vec2, n)
	for i := 0; i < n; i++ {
		edge := hull[(i+1)%n].Sub(hull[i])
		normal, _, ok := edge.RightPerp().Normalize()
		if !ok {
			normal = math2.UnitVec2Right
		}
		normals[i] = normal.Vec2()
	}
	return &Polygon{
		Vertices: hull,
		Normals:  normals,
		Centroid: computeCentroid(hull),
	}
}

// NewBox builds the axis-aligned rectangle polygon of the given half
// extents centered at the local origin, the common case for ground/crate
// fixtures in the test scenarios.
func NewBox(halfWidth, halfHeight float32) *Polygon {
	return NewPolygon([]math2.Vec2{
		{X: -halfWidth, Y: -halfHeight},
		{X: halfWidth, Y: -halfHeight},
		{X: halfWidth, Y: halfHeight},
		{X: -halfWidth, Y: halfHeight},
	})
}

func (p *Polygon) Kind() Kind            { return KindPolygon }
func (p *Polygon) ChildCount() int       { return 1 }
func (p *Polygon) VertexRadius() float32 { return p.Radius }

func (p *Polygon) Child(childIndex int) DistanceProxy {
	return DistanceProxy{Vertices: p.Vertices, Radius: p.Radius}
}

func (p *Polygon) ComputeAABB(xf math2.Transform, childIndex int) collision.AABB {
	lower := xf.ToWorld(p.Vertices[0])
	upper := lower
	for i := 1; i < len(p.Vertices); i++ {
		v := xf.ToWorld(p.Vertices[i])
		lower = lower.Min(v)
		upper = upper.Max(v)
	}
	r := math2.Vec2{X: p.Radius, Y: p.Radius}
	return collision.AABB{LowerBound: lower.Sub(r), UpperBound: upper.Add(r)}
}

// ComputeMass integrates the polygon's area, centroid and rotational
// inertia by triangulating as a fan from the first vertex.
func (p *Polygon) ComputeMass(density float32) MassData {
	origin := p.Vertices[0]
	var area, rotInertia float32
	center := math2.Vec2Zero
	const k13 = float32(1.0 / 3.0)

	for i := 1; i+1 < len(p.Vertices); i++ {
		e1 := p.Vertices[i].Sub(origin)
		e2 := p.Vertices[i+1].Sub(origin)
		d := e1.Cross(e2)
		triArea := 0.5 * d
		area += triArea

		center = center.MulAdd(triArea*k13, e1.Add(e2))

		intx2 := e1.X*e1.X + e1.X*e2.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e1.Y*e2.Y + e2.Y*e2.Y
		rotInertia += (0.25 * k13 * d) * (intx2 + inty2)
	}

	mass := density * area
	if area > math2.Epsilon {
		center = center.Mul(1 / area)
	}
	c := center.Add(origin)

	i := density*rotInertia + mass*(c.Dot(c)-center.Dot(center))
	return MassData{Mass: mass, Center: c, RotInertia: i}
}

func (p *Polygon) TestPoint(xf math2.Transform, point math2.Vec2) bool {
	local := xf.ToLocal(point)
	for i := range p.Vertices {
		if p.Normals[i].Dot(local.Sub(p.Vertices[i])) > 0 {
			return false
		}
	}
	return true
}

// RayCast walks the polygon's half-planes, narrowing [lower, upper] along
// the ray the way a convex-hull slab test does, following
// PolygonShape::RayCast.
func (p *Polygon) RayCast(input RayCastInput, xf math2.Transform, childIndex int) (RayCastOutput, bool) {
	p1 := xf.ToLocalVec(input.P1.Sub(xf.P))
	p2 := xf.ToLocalVec(input.P2.Sub(xf.P))
	d := p2.Sub(p1)

	lower, upper := float32(0), input.MaxFraction
	index := -1

	for i := range p.Vertices {
		numerator := p.Normals[i].Dot(p.Vertices[i].Sub(p1))
		denominator := p.Normals[i].Dot(d)

		if denominator == 0 {
			if numerator < 0 {
				return RayCastOutput{}, false
			}
			continue
		}

		t := numerator / denominator
		if denominator < 0 && t > lower {
			lower = t
			index = i
		} else if denominator > 0 && t < upper {
			upper = t
		}
		if upper < lower {
			return RayCastOutput{}, false
		}
	}

	if index >= 0 {
		normal := p.Normals[index]
		local := math2.UnitVec2{X: normal.X, Y: normal.Y}
		return RayCastOutput{Normal: local.Mul(xf.Q), Fraction: lower}, true
	}
	return RayCastOutput{}, false
}

func computeCentroid(vs []math2.Vec2) math2.Vec2 {
	origin := vs[0]
	centroid := math2.Vec2Zero
	var area float32
	for i := 1; i+1 < len(vs); i++ {
		e1 := vs[i].Sub(origin)
		e2 := vs[i+1].Sub(origin)
		a := 0.5 * e1.Cross(e2)
		area += a
		centroid = centroid.MulAdd(a/3, e1.Add(e2))
	}
	if area > math2.Epsilon {
		centroid = centroid.Mul(1 / area)
	}
	return centroid.Add(origin)
}

// convexHull computes the counter-clockwise convex hull of points via a
// gift-wrapping scan, discarding collinear and interior points, mirroring
// ComputeHull in the original's b2_polygon_shape.cpp (recent Box2D
// versions compute the hull explicitly rather than trusting the caller's
// winding order).
func convexHull(points []math2.Vec2) []math2.Vec2 {
	n := len(points)
	if n < 3 {
		return points
	}

	// Find the leftmost point (lowest on ties) to start from.
	start := 0
	for i := 1; i < n; i++ {
		if points[i].X < points[start].X ||
			(points[i].X == points[start].X && points[i].Y < points[start].Y) {
			start = i
		}
	}

	hull := make([]math2.Vec2, 0, n)
	used := make([]bool, n)
	current := start
	for {
		hull = append(hull, points[current])
		used[current] = true
		next := -1
		for i := 0; i < n; i++ {
			if i == current {
				continue
			}
			if next == -1 {
				next = i
				continue
			}
			e1 := points[next].Sub(points[current])
			e2 := points[i].Sub(points[current])
			cross := e1.Cross(e2)
			if cross < 0 || (cross == 0 && e2.LengthSquared() > e1.LengthSquared()) {
				next = i
			}
		}
		current = next
		if current == start || len(hull) > n {
			break
		}
	}
	if len(hull) < 3 {
		return points
	}
	return hull
}
