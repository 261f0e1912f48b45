// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Vec2 is an ordered pair of reals (x, y). Unlike the mutable,
// pointer-chained vectors elsewhere in the corpus this spec's data model
// calls for small immutable values, so Vec2's operators return new values
// rather than mutating the receiver; it is cheap enough to copy that this
// costs nothing and makes solver math read like the algebra it mirrors.
type Vec2 struct {
	X float32
	Y float32
}

// Vec2Zero is the additive identity.
var Vec2Zero = Vec2{0, 0}

func NewVec2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Neg() Vec2       { return Vec2{-v.X, -v.Y} }

// Mul scales v by the scalar s.
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// MulAdd returns v + o*s, the fused multiply-add used throughout the
// solver's velocity/position integration.
func (v Vec2) MulAdd(s float32, o Vec2) Vec2 { return Vec2{v.X + s*o.X, v.Y + s*o.Y} }

func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

// Cross is the 2D scalar cross product (the z component of the 3D cross
// product of (v.X, v.Y, 0) and (o.X, o.Y, 0)).
func (v Vec2) Cross(o Vec2) float32 { return v.X*o.Y - v.Y*o.X }

// CrossScalar returns the vector s*(-y, x), i.e. the cross product of the
// scalar s with v treated as lying in the z=0 plane; the dual of Cross.
func (v Vec2) CrossScalar(s float32) Vec2 { return Vec2{-s * v.Y, s * v.X} }

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// RightPerp returns v rotated 90 degrees clockwise.
func (v Vec2) RightPerp() Vec2 { return Vec2{v.Y, -v.X} }

func (v Vec2) LengthSquared() float32 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float32        { return Sqrt(v.LengthSquared()) }

func (v Vec2) DistanceSquared(o Vec2) float32 { return v.Sub(o).LengthSquared() }
func (v Vec2) Distance(o Vec2) float32        { return v.Sub(o).Length() }

// Normalize returns the unit vector in the direction of v, its length, and
// whether v was long enough to normalize (a zero or near-zero vector
// returns false and leaves the direction invalid so callers can detect
// the degeneracy instead of silently dividing by zero).
func (v Vec2) Normalize() (UnitVec2, float32, bool) {
	length := v.Length()
	if length < Epsilon {
		return UnitVec2{}, 0, false
	}
	inv := 1 / length
	return UnitVec2{X: v.X * inv, Y: v.Y * inv}, length, true
}

func (v Vec2) Abs() Vec2 { return Vec2{Abs(v.X), Abs(v.Y)} }

func (v Vec2) Min(o Vec2) Vec2 { return Vec2{Min(v.X, o.X), Min(v.Y, o.Y)} }
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{Max(v.X, o.X), Max(v.Y, o.Y)} }

func (v Vec2) Clamp(lo, hi Vec2) Vec2 {
	return Vec2{Clamp(v.X, lo.X, hi.X), Clamp(v.Y, lo.Y, hi.Y)}
}

func (v Vec2) Lerp(o Vec2, alpha float32) Vec2 {
	return Vec2{v.X + (o.X-v.X)*alpha, v.Y + (o.Y-v.Y)*alpha}
}

func (v Vec2) IsValid() bool { return IsFinite(v.X) && IsFinite(v.Y) }

// Rotate returns v rotated by the unit direction q, treating q as a
// complex number of unit modulus (q.X = cos theta, q.Y = sin theta).
func (v Vec2) Rotate(q UnitVec2) Vec2 {
	return Vec2{q.X*v.X - q.Y*v.Y, q.Y*v.X + q.X*v.Y}
}

// InverseRotate returns v rotated by the inverse (conjugate) of q.
func (v Vec2) InverseRotate(q UnitVec2) Vec2 {
	return Vec2{q.X*v.X + q.Y*v.Y, q.X*v.Y - q.Y*v.X}
}
