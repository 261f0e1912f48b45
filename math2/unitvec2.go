// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// UnitVec2 is the unit-length-invariant variant of Vec2, used wherever a
// direction (a body's rotation, a contact normal, a raycast direction) is
// required rather than an arbitrary displacement. The zero value is the
// invalid direction: it is a representable, distinguishable value rather
// than a panic or a sentinel error, since a degenerate normalize (e.g. two
// coincident polygon vertices) must be something the caller can check for
// and recover from mid-solve, not something that aborts a step.
type UnitVec2 struct {
	X float32
	Y float32
}

// UnitVec2Right is the identity rotation (angle 0): the positive x-axis.
var UnitVec2Right = UnitVec2{X: 1, Y: 0}

// NewUnitVec2FromAngle builds the unit vector at the given angle, in
// radians, measured counter-clockwise from the positive x-axis.
func NewUnitVec2FromAngle(angle float32) UnitVec2 {
	return UnitVec2{X: Cos(angle), Y: Sin(angle)}
}

// IsValid reports whether u represents an actual direction, as opposed to
// the zero value produced by normalizing a zero-length vector.
func (u UnitVec2) IsValid() bool {
	return u.X != 0 || u.Y != 0
}

// Vec2 views u as a plain displacement vector.
func (u UnitVec2) Vec2() Vec2 { return Vec2{X: u.X, Y: u.Y} }

// Angle returns the angle of u, in radians, measured counter-clockwise
// from the positive x-axis.
func (u UnitVec2) Angle() float32 { return Atan2(u.Y, u.X) }

// Conjugate returns the inverse rotation of u.
func (u UnitVec2) Conjugate() UnitVec2 { return UnitVec2{X: u.X, Y: -u.Y} }

// Mul composes two rotations (complex multiplication of unit complex
// numbers), returning the rotation equivalent to applying u then o.
func (u UnitVec2) Mul(o UnitVec2) UnitVec2 {
	return UnitVec2{X: u.X*o.X - u.Y*o.Y, Y: u.X*o.Y + u.Y*o.X}
}

// MulT returns the rotation that maps o onto u's frame: the transpose
// (inverse) of u composed with o.
func (u UnitVec2) MulT(o UnitVec2) UnitVec2 {
	return UnitVec2{X: u.X*o.X + u.Y*o.Y, Y: u.X*o.Y - u.Y*o.X}
}
