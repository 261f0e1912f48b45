// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math2

// Sweep describes the motion of a body's center of mass over one time
// step, as the linear interpolation between a position at alpha0 (the
// fraction of the step already consumed by a previous TOI sub-step) and a
// position at alpha==1 (the end of the step). Continuous collision uses
// GetTransform at intermediate alphas to find the first time of impact
// without re-running the whole velocity integration.
type Sweep struct {
	LocalCenter Vec2 // center of mass in body-local coordinates

	C0, C Vec2       // center of mass, world coordinates, at alpha0 and alpha=1
	A0, A float32    // world angle, in radians, at alpha0 and alpha=1
	Alpha0 float32   // fraction of the step already advanced, in [0,1]
}

// GetTransform interpolates this sweep at the given alpha in [0,1] and
// returns the resulting world transform of the body origin (not the
// center of mass: LocalCenter is subtracted back out).
func (s *Sweep) GetTransform(alpha float32) Transform {
	var t Transform
	beta := (alpha - s.Alpha0) / (1 - s.Alpha0)
	t.P = s.C0.Lerp(s.C, beta)
	angle := s.A0 + beta*(s.A-s.A0)
	t.Q = NewUnitVec2FromAngle(angle)
	t.P = t.P.Sub(s.LocalCenter.Rotate(t.Q))
	return t
}

// Advance moves the starting point of this sweep (alpha0, C0, A0) forward
// to the given alpha, leaving the end point (C, A) unchanged. Used after a
// TOI sub-step consumes part of the remaining time.
func (s *Sweep) Advance(alpha float32) {
	if s.Alpha0 >= alpha {
		return
	}
	beta := (alpha - s.Alpha0) / (1 - s.Alpha0)
	s.C0 = s.C0.Lerp(s.C, beta)
	s.A0 += beta * (s.A - s.A0)
	s.Alpha0 = alpha
}

// Normalize wraps A0 and A so that A0 lies in [0, 2*pi), preserving the
// angle A - A0 swept over the step.
func (s *Sweep) Normalize() {
	twoPi := float32(2 * Pi)
	d := twoPi * Floor(s.A0/twoPi)
	s.A0 -= d
	s.A -= d
}
