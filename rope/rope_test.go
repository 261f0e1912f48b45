// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/math2"
)

func straightRope(n int) Def {
	verts := make([]math2.Vec2, n)
	masses := make([]float32, n)
	for i := 0; i < n; i++ {
		verts[i] = math2.Vec2{X: float32(i), Y: 0}
		masses[i] = 1
	}
	masses[0] = 0 // pin the first particle
	def := DefaultDef()
	def.Vertices = verts
	def.Masses = masses
	return def
}

func TestNewRejectsTooFewVertices(t *testing.T) {
	_, err := New(Def{Vertices: []math2.Vec2{{}, {}}})
	assert.Equal(t, ErrTooFewVertices, err)
}

func TestNewMeasuresRestLengthsAndAngles(t *testing.T) {
	r, err := New(straightRope(5))
	assert.NoError(t, err)
	assert.Equal(t, 5, r.VertexCount())
	for _, l := range r.restLengths {
		assert.InDelta(t, 1.0, l, 1e-6)
	}
	for _, a := range r.restAngles {
		assert.InDelta(t, 0.0, a, 1e-6)
	}
}

func TestStepZeroDtIsNoop(t *testing.T) {
	r, err := New(straightRope(4))
	assert.NoError(t, err)
	before := append([]math2.Vec2(nil), r.Vertices()...)
	r.Step(0, 10)
	assert.Equal(t, before, r.Vertices())
}

func TestStepUnderGravitySagsAndStaysConnected(t *testing.T) {
	def := straightRope(6)
	def.Gravity = math2.Vec2{X: 0, Y: -10}
	r, err := New(def)
	assert.NoError(t, err)

	for i := 0; i < 120; i++ {
		r.Step(1.0/60.0, 8)
	}

	// The pinned particle never moves.
	assert.InDelta(t, 0.0, r.Vertex(0).X, 1e-4)
	assert.InDelta(t, 0.0, r.Vertex(0).Y, 1e-4)

	// Gravity pulls every later particle strictly below the straight
	// line it started on.
	for i := 1; i < r.VertexCount(); i++ {
		assert.Lessf(t, r.Vertex(i).Y, float32(0), "vertex %d did not sag", i)
	}

	// The stretch constraint keeps adjacent particles close to their
	// rest distance even while the rope is swinging.
	for i := 0; i < r.VertexCount()-1; i++ {
		d := r.Vertex(i).Distance(r.Vertex(i + 1))
		assert.InDelta(t, 1.0, d, 0.2)
	}
}

func TestSetAngleRetargetsBendConstraint(t *testing.T) {
	r, err := New(straightRope(5))
	assert.NoError(t, err)
	r.SetAngle(0.3)
	for _, a := range r.restAngles {
		assert.InDelta(t, 0.3, a, 1e-6)
	}
}
