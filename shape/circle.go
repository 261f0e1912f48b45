// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"github.com/forgephys/forge2d/collision"
	"github.com/forgephys/forge2d/math2"
)

// Circle is a disc of the given Radius centered at Center in the owning
// fixture's local frame.
type Circle struct {
	Center math2.Vec2
	Radius float32
}

func NewCircle(center math2.Vec2, radius float32) *Circle {
	return &Circle{Center: center, Radius: radius}
}

func (c *Circle) Kind() Kind           { return KindCircle }
func (c *Circle) ChildCount() int      { return 1 }
func (c *Circle) VertexRadius() float32 { return c.Radius }

func (c *Circle) Child(childIndex int) DistanceProxy {
	return DistanceProxy{Vertices: []math2.Vec2{c.Center}, Radius: c.Radius}
}

func (c *Circle) ComputeAABB(xf math2.Transform, childIndex int) collision.AABB {
	p := xf.ToWorld(c.Center)
	r := math2.Vec2{X: c.Radius, Y: c.Radius}
	return collision.AABB{LowerBound: p.Sub(r), UpperBound: p.Add(r)}
}

func (c *Circle) ComputeMass(density float32) MassData {
	mass := density * math2.Pi * c.Radius * c.Radius
	rotInertia := mass * (0.5*c.Radius*c.Radius + c.Center.LengthSquared())
	return MassData{Mass: mass, Center: c.Center, RotInertia: rotInertia}
}

func (c *Circle) TestPoint(xf math2.Transform, point math2.Vec2) bool {
	center := xf.ToWorld(c.Center)
	return point.DistanceSquared(center) <= c.Radius*c.Radius
}

// RayCast intersects the input segment with this circle, following the
// quadratic-in-t derivation from the original RayCastOutput.cpp: solve
// |p1 + t*d - center| == radius for the smallest t in [0, MaxFraction].
func (c *Circle) RayCast(input RayCastInput, xf math2.Transform, childIndex int) (RayCastOutput, bool) {
	position := xf.ToWorld(c.Center)
	s := input.P1.Sub(position)
	b := s.LengthSquared() - c.Radius*c.Radius

	r := input.P2.Sub(input.P1)
	rr := r.LengthSquared()
	if rr < math2.Epsilon {
		return RayCastOutput{}, false
	}

	rs := s.Dot(r)
	sigma := rs*rs - rr*b
	if sigma < 0 || rr < math2.Epsilon {
		return RayCastOutput{}, false
	}

	t := -(rs + math2.Sqrt(sigma))
	if t >= 0 && t <= input.MaxFraction*rr {
		t /= rr
		normal, _, ok := s.Add(r.Mul(t)).Normalize()
		if !ok {
			return RayCastOutput{}, false
		}
		return RayCastOutput{Normal: normal, Fraction: t}, true
	}
	return RayCastOutput{}, false
}
