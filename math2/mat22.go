// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Mat22 is a 2x2 matrix stored as two column vectors, exactly as a 2x2
// linear map is used throughout the solver: to carry a local-space
// Jacobian block (e.g. a two-point contact's effective mass matrix) rather
// than to represent a body's orientation, which is Transform's job.
type Mat22 struct {
	Ex, Ey Vec2
}

// Mat22Identity is the identity map.
var Mat22Identity = Mat22{Ex: Vec2{1, 0}, Ey: Vec2{0, 1}}

func NewMat22(a11, a12, a21, a22 float32) Mat22 {
	return Mat22{Ex: Vec2{a11, a21}, Ey: Vec2{a12, a22}}
}

// Add returns the element-wise sum of m and o.
func (m Mat22) Add(o Mat22) Mat22 {
	return Mat22{Ex: m.Ex.Add(o.Ex), Ey: m.Ey.Add(o.Ey)}
}

// MulVec2 applies m to v.
func (m Mat22) MulVec2(v Vec2) Vec2 {
	return Vec2{
		X: m.Ex.X*v.X + m.Ey.X*v.Y,
		Y: m.Ex.Y*v.X + m.Ey.Y*v.Y,
	}
}

// Mul returns the matrix product m*o.
func (m Mat22) Mul(o Mat22) Mat22 {
	return Mat22{Ex: m.MulVec2(o.Ex), Ey: m.MulVec2(o.Ey)}
}

func (m Mat22) Determinant() float32 {
	return m.Ex.X*m.Ey.Y - m.Ey.X*m.Ex.Y
}

// Inverse returns the inverse of m and whether m was invertible; a
// degenerate (zero-determinant) input returns the zero matrix and false so
// callers building a block solver can fall back to a non-block solve
// instead of propagating a NaN (see §7, solver degeneracy handling).
func (m Mat22) Inverse() (Mat22, bool) {
	det := m.Determinant()
	if det == 0 {
		return Mat22{}, false
	}
	invDet := 1 / det
	return Mat22{
		Ex: Vec2{invDet * m.Ey.Y, -invDet * m.Ex.Y},
		Ey: Vec2{-invDet * m.Ey.X, invDet * m.Ex.X},
	}, true
}

// Solve solves m*x = b for x, equivalent to m.Inverse().MulVec2(b) but
// without forming the inverse explicitly.
func (m Mat22) Solve(b Vec2) (Vec2, bool) {
	a11, a12, a21, a22 := m.Ex.X, m.Ey.X, m.Ex.Y, m.Ey.Y
	det := a11*a22 - a12*a21
	if det == 0 {
		return Vec2{}, false
	}
	invDet := 1 / det
	return Vec2{
		X: invDet * (a22*b.X - a12*b.Y),
		Y: invDet * (a11*b.Y - a21*b.X),
	}, true
}

// Transpose returns the transpose of m.
func (m Mat22) Transpose() Mat22 {
	return Mat22{Ex: Vec2{m.Ex.X, m.Ey.X}, Ey: Vec2{m.Ex.Y, m.Ey.Y}}
}
