// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package joint implements the constraint catalog binding pairs of
// bodies beyond contact resolution: distance, revolute, prismatic,
// pulley, gear, mouse, wheel, weld, friction, and rope joints. Each
// follows the same three-phase protocol contacts do (init, solve
// velocity, solve position) so the island solver can treat joints and
// contacts uniformly.
package joint

import "github.com/forgephys/forge2d/math2"

// IBody is the subset of a body's solver-visible state a joint needs,
// mirroring the teacher's equation.IBody / constraint.IBody pattern:
// defining it here, rather than importing package dynamics's Body type
// directly, is what lets dynamics import joint without joint importing
// dynamics back.
type IBody interface {
	InvMass() float32
	InvRotInertia() float32
	LocalCenter() math2.Vec2
	Position() math2.Vec2
	Angle() float32
	LinearVelocity() math2.Vec2
	AngularVelocity() float32
	SetLinearVelocity(math2.Vec2)
	SetAngularVelocity(float32)
	SetPosition(math2.Vec2)
	SetAngle(float32)
}

// SolverData is the shared, read-only step parameters every joint's
// Init/Solve methods need (the sub-step time and whether warm-starting
// is enabled).
type SolverData struct {
	Dt          float32
	InvDt       float32
	WarmStarting bool
}

// Joint is implemented by every concrete joint kind and driven by the
// island solver in the same init/warm-start/solve-velocity/solve-position
// sequence contacts go through.
type Joint interface {
	BodyA() IBody
	BodyB() IBody
	InitVelocityConstraints(data SolverData)
	WarmStart(data SolverData)
	SolveVelocityConstraints(data SolverData)
	// SolvePositionConstraints nudges position directly (NGS) and reports
	// whether the joint is within its position tolerance, the way a
	// contact's position solver reports its remaining separation.
	SolvePositionConstraints(data SolverData) bool
}

func worldAnchor(body IBody, localAnchor math2.Vec2) math2.Vec2 {
	q := math2.NewUnitVec2FromAngle(body.Angle())
	return body.Position().Add(localAnchor.Sub(body.LocalCenter()).Rotate(q))
}
