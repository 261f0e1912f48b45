// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Length, Mass, Time, Angle and Frequency are distinct named float32 types
// so that a caller cannot pass a duration where a length is expected and
// have it compile; the compiler enforces the dimensional bookkeeping that
// would otherwise only live in a comment. They convert to and from plain
// float32 explicitly, never implicitly.
type Length float32
type Mass float32
type Time float32
type Angle float32
type Frequency float32

// Length2D is a displacement or position with both components expressed
// in Length; Vec2 itself stays dimensionless since it is also used for
// velocities, impulses and other quantities with different units.
type Length2D struct {
	X, Y Length
}

func NewLength2D(x, y Length) Length2D { return Length2D{X: x, Y: y} }

func (l Length2D) Vec2() Vec2 { return Vec2{X: float32(l.X), Y: float32(l.Y)} }

func Vec2ToLength2D(v Vec2) Length2D { return Length2D{X: Length(v.X), Y: Length(v.Y)} }

// Inv returns 1/f, or 0 when f is 0 (treated as the identity for "no
// filtering" rather than a division error — mirrors how an infinite mass
// is represented as an inverse mass of 0 elsewhere in this package).
func (f Frequency) Inv() Time {
	if f == 0 {
		return 0
	}
	return Time(1 / float32(f))
}
