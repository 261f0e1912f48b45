// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the sequential-impulse velocity and position
// solvers shared by regular contact resolution and TOI sub-stepping. It
// is deliberately decoupled from package dynamics: BodyConstraint is a
// flat, solver-local snapshot of whatever a Body needs to contribute, so
// this package never imports the entity-owning package and dynamics can
// freely import solver without a cycle.
package solver

import "github.com/forgephys/forge2d/math2"

// BodyConstraint is the per-body state the velocity/position solvers
// read and mutate; dynamics.Body builds one of these per awake body at
// the start of a step's solve phase and copies the results back
// afterward.
type BodyConstraint struct {
	InvMass       float32
	InvRotInertia float32
	LocalCenter   math2.Vec2

	Position math2.Vec2
	Angle    float32

	LinearVelocity  math2.Vec2
	AngularVelocity float32
}
