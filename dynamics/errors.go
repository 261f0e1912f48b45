// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import "errors"

// Sentinel errors returned by World's mutating API. None of these are
// raised during Step itself — Step is infallible and reports its own
// degeneracies through StepStats instead.
var (
	// ErrLockedWorld is returned when a mutating call (CreateBody,
	// DestroyBody, CreateFixture, ...) is made from inside a listener
	// callback while a Step is in progress.
	ErrLockedWorld = errors.New("dynamics: world is locked during step")

	// ErrInvalidBody is returned when a BodyID does not name a live body.
	ErrInvalidBody = errors.New("dynamics: invalid body id")

	// ErrInvalidFixture is returned when a FixtureID does not name a live
	// fixture.
	ErrInvalidFixture = errors.New("dynamics: invalid fixture id")

	// ErrInvalidJoint is returned when a JointID does not name a live
	// joint.
	ErrInvalidJoint = errors.New("dynamics: invalid joint id")

	// ErrInvalidShape is returned when a shape fails validation at
	// fixture-creation time (nil shape, negative vertex radius).
	ErrInvalidShape = errors.New("dynamics: invalid shape")

	// ErrInvalidArgument is returned for out-of-domain construction
	// arguments: negative density, non-finite position, and the like.
	ErrInvalidArgument = errors.New("dynamics: invalid argument")
)
