// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2AddSub(t *testing.T) {
	a := Vec2{X: 1, Y: 2}
	b := Vec2{X: 3, Y: -1}
	assert.Equal(t, Vec2{X: 4, Y: 1}, a.Add(b))
	assert.Equal(t, Vec2{X: -2, Y: 3}, a.Sub(b))
}

func TestVec2DotCross(t *testing.T) {
	a := Vec2{X: 1, Y: 0}
	b := Vec2{X: 0, Y: 1}
	assert.Equal(t, float32(0), a.Dot(b))
	assert.Equal(t, float32(1), a.Cross(b))
}

func TestVec2Normalize(t *testing.T) {
	u, length, ok := Vec2{X: 3, Y: 4}.Normalize()
	assert.True(t, ok)
	assert.InDelta(t, 5.0, length, 1e-6)
	assert.InDelta(t, 0.6, u.X, 1e-6)
	assert.InDelta(t, 0.8, u.Y, 1e-6)
}

func TestVec2NormalizeDegenerate(t *testing.T) {
	_, _, ok := Vec2Zero.Normalize()
	assert.False(t, ok)
}

func TestVec2RotateInverseRotateRoundTrip(t *testing.T) {
	q := NewUnitVec2FromAngle(Pi / 3)
	v := Vec2{X: 2, Y: -5}
	assert.InDelta(t, v.X, v.Rotate(q).InverseRotate(q).X, 1e-5)
	assert.InDelta(t, v.Y, v.Rotate(q).InverseRotate(q).Y, 1e-5)
}

func TestVec2Lerp(t *testing.T) {
	a := Vec2{X: 0, Y: 0}
	b := Vec2{X: 10, Y: 20}
	assert.Equal(t, Vec2{X: 5, Y: 10}, a.Lerp(b, 0.5))
}

func TestVec2PerpIsNinetyDegreesCCW(t *testing.T) {
	v := Vec2{X: 1, Y: 0}
	assert.Equal(t, Vec2{X: 0, Y: 1}, v.Perp())
	assert.Equal(t, Vec2{X: 0, Y: -1}, v.RightPerp())
}

func TestTransformToWorldToLocalRoundTrip(t *testing.T) {
	xf := Transform{P: Vec2{X: 3, Y: -2}, Q: NewUnitVec2FromAngle(Pi / 4)}
	p := Vec2{X: 1, Y: 1}
	world := xf.ToWorld(p)
	local := xf.ToLocal(world)
	assert.InDelta(t, p.X, local.X, 1e-5)
	assert.InDelta(t, p.Y, local.Y, 1e-5)
}

func TestMulComposesTransforms(t *testing.T) {
	a := Transform{P: Vec2{X: 1, Y: 0}, Q: UnitVec2Right}
	b := Transform{P: Vec2{X: 0, Y: 1}, Q: UnitVec2Right}
	c := Mul(a, b)
	p := c.ToWorld(Vec2Zero)
	assert.InDelta(t, 1.0, p.X, 1e-6)
	assert.InDelta(t, 1.0, p.Y, 1e-6)
}

func TestMat22SolveMatchesInverse(t *testing.T) {
	m := NewMat22(2, 0, 0, 4)
	b := Vec2{X: 6, Y: 8}
	x, ok := m.Solve(b)
	assert.True(t, ok)
	assert.InDelta(t, 3.0, x.X, 1e-6)
	assert.InDelta(t, 2.0, x.Y, 1e-6)

	inv, ok := m.Inverse()
	assert.True(t, ok)
	x2 := inv.MulVec2(b)
	assert.InDelta(t, x.X, x2.X, 1e-6)
	assert.InDelta(t, x.Y, x2.Y, 1e-6)
}

func TestMat22SingularReportsFalse(t *testing.T) {
	m := NewMat22(1, 2, 2, 4)
	_, ok := m.Inverse()
	assert.False(t, ok)
}

func TestSweepGetTransformInterpolates(t *testing.T) {
	s := Sweep{
		LocalCenter: Vec2Zero,
		C0:          Vec2{X: 0, Y: 0},
		C:           Vec2{X: 10, Y: 0},
		A0:          0,
		A:           0,
		Alpha0:      0,
	}
	mid := s.GetTransform(0.5)
	assert.InDelta(t, 5.0, mid.P.X, 1e-6)
}

func TestSweepAdvanceMovesAlpha0Forward(t *testing.T) {
	s := Sweep{C0: Vec2{X: 0}, C: Vec2{X: 10}, Alpha0: 0}
	s.Advance(0.5)
	assert.InDelta(t, 5.0, s.C0.X, 1e-6)
	assert.InDelta(t, 0.5, s.Alpha0, 1e-6)

	// A second advance to an earlier or equal alpha is a no-op.
	before := s.C0
	s.Advance(0.5)
	assert.Equal(t, before, s.C0)
}
