// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Transform is a rigid transform: a translation (the origin's position in
// world space) composed with a rotation. It carries no scale — every
// shape in this engine is defined in its own body-local frame, scaled only
// at creation time if at all.
type Transform struct {
	P Vec2
	Q UnitVec2
}

// TransformIdentity is the origin with no rotation.
var TransformIdentity = Transform{P: Vec2Zero, Q: UnitVec2Right}

func NewTransform(p Vec2, q UnitVec2) Transform { return Transform{P: p, Q: q} }

// ToWorld maps a point from the transform's local frame into world space.
func (t Transform) ToWorld(local Vec2) Vec2 {
	return local.Rotate(t.Q).Add(t.P)
}

// ToLocal maps a world-space point into the transform's local frame; the
// inverse of ToWorld.
func (t Transform) ToLocal(world Vec2) Vec2 {
	return world.Sub(t.P).InverseRotate(t.Q)
}

// ToWorldVec rotates a direction/displacement vector into world space
// without applying the translation.
func (t Transform) ToWorldVec(local Vec2) Vec2 {
	return local.Rotate(t.Q)
}

// ToLocalVec rotates a world-space direction/displacement vector into the
// local frame without applying the translation.
func (t Transform) ToLocalVec(world Vec2) Vec2 {
	return world.InverseRotate(t.Q)
}

// Mul composes two transforms: applying the result to a point is
// equivalent to applying b, then a.
func Mul(a, b Transform) Transform {
	return Transform{Q: a.Q.Mul(b.Q), P: b.P.Rotate(a.Q).Add(a.P)}
}

// MulT returns the transform that maps points expressed in b's frame into
// a's frame: the inverse of a composed with b.
func MulT(a, b Transform) Transform {
	return Transform{Q: a.Q.MulT(b.Q), P: b.P.Sub(a.P).InverseRotate(a.Q)}
}
