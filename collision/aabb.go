// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collision implements the axis-aligned bounding box type and the
// dynamic AABB tree / broad-phase pair cache built on top of it.
package collision

import "github.com/forgephys/forge2d/math2"

// AABB is an axis-aligned bounding box, adapted from the teacher's
// min/max Box2 into the lowerBound/upperBound naming the rest of this
// package's Box2D-derived vocabulary uses.
type AABB struct {
	LowerBound math2.Vec2
	UpperBound math2.Vec2
}

// NewAABB builds an AABB from its corner points; the caller is responsible
// for lower <= upper componentwise (use Union/ExpandByPoint to grow one
// safely instead of constructing by hand when that isn't already known).
func NewAABB(lower, upper math2.Vec2) AABB {
	return AABB{LowerBound: lower, UpperBound: upper}
}

// EmptyAABB returns an AABB with no extent that Union()s correctly with
// any real AABB (its lower bound is +Inf, its upper bound is -Inf).
func EmptyAABB() AABB {
	inf := math2.Infinity
	return AABB{
		LowerBound: math2.Vec2{X: inf, Y: inf},
		UpperBound: math2.Vec2{X: -inf, Y: -inf},
	}
}

// IsValid reports whether the lower bound is componentwise <= the upper
// bound and both corners are finite.
func (a AABB) IsValid() bool {
	d := a.UpperBound.Sub(a.LowerBound)
	return d.X >= 0 && d.Y >= 0 && a.LowerBound.IsValid() && a.UpperBound.IsValid()
}

func (a AABB) Center() math2.Vec2 {
	return a.LowerBound.Add(a.UpperBound).Mul(0.5)
}

func (a AABB) Extents() math2.Vec2 {
	return a.UpperBound.Sub(a.LowerBound).Mul(0.5)
}

func (a AABB) Perimeter() float32 {
	wx := a.UpperBound.X - a.LowerBound.X
	wy := a.UpperBound.Y - a.LowerBound.Y
	return 2 * (wx + wy)
}

// Union returns the smallest AABB containing both a and o.
func (a AABB) Union(o AABB) AABB {
	return AABB{
		LowerBound: a.LowerBound.Min(o.LowerBound),
		UpperBound: a.UpperBound.Max(o.UpperBound),
	}
}

// Contains reports whether o lies entirely within a.
func (a AABB) Contains(o AABB) bool {
	return a.LowerBound.X <= o.LowerBound.X && a.LowerBound.Y <= o.LowerBound.Y &&
		o.UpperBound.X <= a.UpperBound.X && o.UpperBound.Y <= a.UpperBound.Y
}

// Overlaps reports whether a and o intersect (touching at an edge counts
// as overlap, matching the broad-phase's conservative test).
func (a AABB) Overlaps(o AABB) bool {
	d1 := o.LowerBound.Sub(a.UpperBound)
	d2 := a.LowerBound.Sub(o.UpperBound)
	if d1.X > 0 || d1.Y > 0 {
		return false
	}
	if d2.X > 0 || d2.Y > 0 {
		return false
	}
	return true
}

// Fatten returns a grown by margin in every direction, the "fat" AABB the
// dynamic tree stores so a slow-moving proxy doesn't force a tree update
// every step.
func (a AABB) Fatten(margin float32) AABB {
	m := math2.Vec2{X: margin, Y: margin}
	return AABB{LowerBound: a.LowerBound.Sub(m), UpperBound: a.UpperBound.Add(m)}
}

// RayCastInput describes a ray cast in terms of an AABB's own input
// contract: endpoints p1/p2 and a maximum fraction along the segment to
// accept a hit at.
type RayCastInput struct {
	P1, P2      math2.Vec2
	MaxFraction float32
}

// RayCast performs a slab test of the ray in input against a, returning
// the entry fraction when the ray intersects a within [0, MaxFraction].
func (a AABB) RayCast(input RayCastInput) (fraction float32, hit bool) {
	tmin := float32(0)
	tmax := input.MaxFraction
	p := input.P1
	d := input.P2.Sub(input.P1)
	absD := d.Abs()

	lower := [2]float32{a.LowerBound.X, a.LowerBound.Y}
	upper := [2]float32{a.UpperBound.X, a.UpperBound.Y}
	pc := [2]float32{p.X, p.Y}
	dc := [2]float32{d.X, d.Y}
	absDc := [2]float32{absD.X, absD.Y}

	for i := 0; i < 2; i++ {
		if absDc[i] < math2.Epsilon {
			if pc[i] < lower[i] || upper[i] < pc[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dc[i]
		t1 := (lower[i] - pc[i]) * inv
		t2 := (upper[i] - pc[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
