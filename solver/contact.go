// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/forgephys/forge2d/manifold"
	"github.com/forgephys/forge2d/math2"
)

// VelocityConstraintPoint is one contact point's solver-local state:
// positions relative to each body's center of mass, effective masses
// along the normal and tangent, the restitution-adjusted velocity bias,
// and the impulse accumulators carried across velocity iterations (and,
// via warm-starting, across steps).
type VelocityConstraintPoint struct {
	RA, RB         math2.Vec2
	NormalMass     float32
	TangentMass    float32
	VelocityBias   float32
	NormalImpulse  float32
	TangentImpulse float32
}

// VelocityConstraint is one contact's velocity-solver state: which two
// bodies it couples, the shared normal/tangent, friction/restitution,
// and 1-2 VelocityConstraintPoints.
type VelocityConstraint struct {
	IndexA, IndexB int
	Normal         math2.Vec2
	NormalMass     math2.Mat22 // 2-point block solve effective mass
	Friction       float32
	Restitution    float32
	TangentSpeed   float32
	Points         [2]VelocityConstraintPoint
	PointCount     int
}

// PositionConstraint is the position-solver's per-contact state: enough
// local-frame geometry to recompute separation at an arbitrary candidate
// position/angle during NGS iteration, without re-running narrow-phase.
type PositionConstraint struct {
	IndexA, IndexB       int
	LocalNormal          math2.Vec2
	LocalPoint           math2.Vec2
	LocalPoints          [2]math2.Vec2
	LocalCenterA, LocalCenterB math2.Vec2
	Kind                 manifold.Kind
	RadiusA, RadiusB     float32
	PointCount           int
}

// baumgarte is the position-error bias fraction applied per velocity
// iteration.
const baumgarte = float32(0.2)

// maxLinearCorrection caps how much separation a single position
// iteration may resolve, keeping NGS correction from injecting energy
// when two bodies are deeply overlapped at spawn.
const maxLinearCorrection = float32(0.2)

// linearSlop is the allowed penetration before the position solver
// considers a contact resolved; keeping a small negative target
// separation avoids jitter from the solver endlessly chasing zero
// penetration.
const linearSlop = float32(0.005)

// velocityThreshold is the relative normal velocity below which
// restitution is not applied, avoiding a resting contact bouncing
// forever off its own baumgarte-corrected bias.
const velocityThreshold = float32(1.0)
