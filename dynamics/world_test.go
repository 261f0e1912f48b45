// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgephys/forge2d/collision"
	"github.com/forgephys/forge2d/joint"
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

func newTestWorld(gravityY float32) *World {
	return NewWorld(WorldConf{Gravity: math2.Vec2{X: 0, Y: gravityY}, MaxVertexRadius: 10})
}

func TestFallingBoxSettlesOnStaticGround(t *testing.T) {
	w := newTestWorld(-10)

	groundID, err := w.CreateBody(BodyConf{Type: Static, Position: math2.Vec2{X: 0, Y: 0}, Enabled: true})
	require.NoError(t, err)
	_, err = w.CreateFixture(groundID, shape.NewBox(10, 0.5), DefaultFixtureConf())
	require.NoError(t, err)

	boxConf := DefaultBodyConf()
	boxConf.Type = Dynamic
	boxConf.Position = math2.Vec2{X: 0, Y: 2}
	boxID, err := w.CreateBody(boxConf)
	require.NoError(t, err)
	fixConf := DefaultFixtureConf()
	fixConf.Density = 1
	_, err = w.CreateFixture(boxID, shape.NewBox(0.5, 0.5), fixConf)
	require.NoError(t, err)

	conf := DefaultStepConf()
	for i := 0; i < 240; i++ {
		w.Step(conf)
	}

	box, err := w.Body(boxID)
	require.NoError(t, err)
	// The box should have come to rest on top of the ground (ground top at
	// y=0.5, box half-height 0.5) rather than having fallen through it.
	assert.InDelta(t, 1.0, box.Transform().P.Y, 0.05)
	assert.InDelta(t, 0, box.LinearVelocity().Y, 0.05)
}

func TestRayCastHitsFixtureAlongSegment(t *testing.T) {
	w := newTestWorld(0)
	bodyID, err := w.CreateBody(BodyConf{Type: Static, Enabled: true})
	require.NoError(t, err)
	_, err = w.CreateFixture(bodyID, shape.NewCircle(math2.Vec2Zero, 1), DefaultFixtureConf())
	require.NoError(t, err)

	var hits int
	var hitFraction float32
	w.RayCast(math2.Vec2{X: -5, Y: 0}, math2.Vec2{X: 5, Y: 0}, func(r RayCastResult) float32 {
		hits++
		hitFraction = r.Fraction
		return r.Fraction
	})

	assert.Equal(t, 1, hits)
	assert.InDelta(t, 0.4, hitFraction, 1e-4)
}

func TestQueryAABBFindsOverlappingFixture(t *testing.T) {
	w := newTestWorld(0)
	bodyID, err := w.CreateBody(BodyConf{Type: Static, Position: math2.Vec2{X: 5, Y: 5}, Enabled: true})
	require.NoError(t, err)
	_, err = w.CreateFixture(bodyID, shape.NewBox(1, 1), DefaultFixtureConf())
	require.NoError(t, err)

	var found int
	w.QueryAABB(collision.AABB{LowerBound: math2.Vec2{X: 4, Y: 4}, UpperBound: math2.Vec2{X: 6, Y: 6}}, func(f *Fixture, childIndex int) bool {
		found++
		return true
	})
	assert.Equal(t, 1, found)

	found = 0
	w.QueryAABB(collision.AABB{LowerBound: math2.Vec2{X: -10, Y: -10}, UpperBound: math2.Vec2{X: -8, Y: -8}}, func(f *Fixture, childIndex int) bool {
		found++
		return true
	})
	assert.Equal(t, 0, found)
}

type recordingListener struct {
	begins, ends int
}

func (l *recordingListener) BeginContact(c *Contact)                                    { l.begins++ }
func (l *recordingListener) EndContact(c *Contact)                                      { l.ends++ }
func (l *recordingListener) PreSolve(c *Contact, old *manifoldSnapshot)                  {}
func (l *recordingListener) PostSolve(c *Contact, impulses []PointImpulse)               {}

func TestContactListenerFiresBeginOnCircleOverlap(t *testing.T) {
	w := newTestWorld(0)
	l := &recordingListener{}
	w.SetContactListener(l)

	aID, err := w.CreateBody(BodyConf{Type: Static, Position: math2.Vec2{X: 0, Y: 0}, Enabled: true})
	require.NoError(t, err)
	_, err = w.CreateFixture(aID, shape.NewCircle(math2.Vec2Zero, 1), DefaultFixtureConf())
	require.NoError(t, err)

	bConf := DefaultBodyConf()
	bConf.Type = Dynamic
	bConf.Position = math2.Vec2{X: 1.5, Y: 0}
	bID, err := w.CreateBody(bConf)
	require.NoError(t, err)
	_, err = w.CreateFixture(bID, shape.NewCircle(math2.Vec2Zero, 1), DefaultFixtureConf())
	require.NoError(t, err)

	conf := DefaultStepConf()
	w.Step(conf)
	w.Step(conf)

	assert.Equal(t, 1, l.begins)
	assert.Equal(t, 0, l.ends)
}

func TestBridgeOfRevoluteJointedSegmentsHoldsTogether(t *testing.T) {
	w := newTestWorld(-10)

	const segments = 10
	const half = 0.5

	leftAnchor, err := w.CreateBody(BodyConf{Type: Static, Position: math2.Vec2{X: -half, Y: 10}, Enabled: true})
	require.NoError(t, err)

	prev := leftAnchor
	var planks []BodyID
	for i := 0; i < segments; i++ {
		conf := DefaultBodyConf()
		conf.Type = Dynamic
		conf.Position = math2.Vec2{X: float32(i)*2*half + half, Y: 10}
		id, err := w.CreateBody(conf)
		require.NoError(t, err)
		fixConf := DefaultFixtureConf()
		fixConf.Density = 1
		_, err = w.CreateFixture(id, shape.NewBox(half, 0.125), fixConf)
		require.NoError(t, err)
		planks = append(planks, id)

		anchorWorld := math2.Vec2{X: float32(i) * 2 * half, Y: 10}
		_, err = w.CreateJoint(prev, id, false, func(a, b joint.IBody) joint.Joint {
			localA := anchorWorld.Sub(a.Position())
			localB := anchorWorld.Sub(b.Position())
			return joint.NewRevolute(a, b, localA, localB)
		})
		require.NoError(t, err)
		prev = id
	}

	rightAnchor, err := w.CreateBody(BodyConf{Type: Static, Position: math2.Vec2{X: float32(segments) * 2 * half, Y: 10}, Enabled: true})
	require.NoError(t, err)
	anchorWorld := math2.Vec2{X: float32(segments) * 2 * half, Y: 10}
	_, err = w.CreateJoint(prev, rightAnchor, false, func(a, b joint.IBody) joint.Joint {
		localA := anchorWorld.Sub(a.Position())
		localB := anchorWorld.Sub(b.Position())
		return joint.NewRevolute(a, b, localA, localB)
	})
	require.NoError(t, err)

	conf := DefaultStepConf()
	for i := 0; i < 180; i++ {
		w.Step(conf)
	}

	// The bridge should sag but every adjacent plank pair should still be
	// within a small multiple of a segment length of each other — i.e. it
	// hasn't torn apart into disconnected pieces.
	var positions []math2.Vec2
	for _, id := range planks {
		b, err := w.Body(id)
		require.NoError(t, err)
		positions = append(positions, b.Transform().P)
	}
	for i := 1; i < len(positions); i++ {
		d := positions[i].Sub(positions[i-1]).Length()
		assert.Less(t, d, float32(2*half*1.5))
	}
}

func TestDestroyBodyCascadesToFixturesContactsAndJoints(t *testing.T) {
	w := newTestWorld(0)
	aID, err := w.CreateBody(BodyConf{Type: Static, Enabled: true})
	require.NoError(t, err)
	_, err = w.CreateFixture(aID, shape.NewCircle(math2.Vec2Zero, 1), DefaultFixtureConf())
	require.NoError(t, err)

	bConf := DefaultBodyConf()
	bConf.Type = Dynamic
	bConf.Position = math2.Vec2{X: 1, Y: 0}
	bID, err := w.CreateBody(bConf)
	require.NoError(t, err)
	fixConf := DefaultFixtureConf()
	fixConf.Density = 1
	_, err = w.CreateFixture(bID, shape.NewCircle(math2.Vec2Zero, 1), fixConf)
	require.NoError(t, err)

	_, err = w.CreateJoint(aID, bID, true, func(a, b joint.IBody) joint.Joint {
		return joint.NewDistance(a, b, math2.Vec2Zero, math2.Vec2Zero, 1)
	})
	require.NoError(t, err)

	w.Step(DefaultStepConf())

	require.NoError(t, w.DestroyBody(aID))

	_, err = w.Body(aID)
	assert.ErrorIs(t, err, ErrInvalidBody)

	b, err := w.Body(bID)
	require.NoError(t, err)
	assert.Empty(t, b.jointEdges)
	assert.Empty(t, b.contactEdges)

	assert.NotPanics(t, func() { w.Step(DefaultStepConf()) })
}

func TestCreateFixtureRejectsOnLockedWorld(t *testing.T) {
	w := newTestWorld(0)
	aID, err := w.CreateBody(BodyConf{Type: Static, Enabled: true})
	require.NoError(t, err)

	l := &lockCheckingListener{t: t, w: w, shape: shape.NewCircle(math2.Vec2Zero, 1), bodyID: aID}
	w.SetContactListener(l)

	bConf := DefaultBodyConf()
	bConf.Type = Dynamic
	bConf.Position = math2.Vec2{X: 0.5, Y: 0}
	bID, err := w.CreateBody(bConf)
	require.NoError(t, err)
	_, err = w.CreateFixture(aID, shape.NewCircle(math2.Vec2Zero, 1), DefaultFixtureConf())
	require.NoError(t, err)
	_, err = w.CreateFixture(bID, shape.NewCircle(math2.Vec2Zero, 1), DefaultFixtureConf())
	require.NoError(t, err)

	w.Step(DefaultStepConf())
	assert.True(t, l.observedLockedErr)
}

// lockCheckingListener attempts a mutating World call from inside
// BeginContact to confirm the world rejects it while Step holds the lock.
type lockCheckingListener struct {
	t                  *testing.T
	w                  *World
	shape              shape.Shape
	bodyID             BodyID
	observedLockedErr  bool
}

func (l *lockCheckingListener) BeginContact(c *Contact) {
	_, err := l.w.CreateFixture(l.bodyID, l.shape, DefaultFixtureConf())
	if err == ErrLockedWorld {
		l.observedLockedErr = true
	}
}
func (l *lockCheckingListener) EndContact(c *Contact)                      {}
func (l *lockCheckingListener) PreSolve(c *Contact, old *manifoldSnapshot) {}
func (l *lockCheckingListener) PostSolve(c *Contact, impulses []PointImpulse) {}

func TestShouldCollideFilterSemantics(t *testing.T) {
	a := DefaultFilter()
	b := DefaultFilter()
	assert.True(t, ShouldCollide(a, b))

	a.GroupIndex = 2
	b.GroupIndex = 2
	assert.True(t, ShouldCollide(a, b))

	a.GroupIndex = -2
	b.GroupIndex = -2
	assert.False(t, ShouldCollide(a, b))

	a.GroupIndex = 0
	b.GroupIndex = 0
	a.CategoryBits = 0x0002
	a.MaskBits = 0x0002
	b.CategoryBits = 0x0001
	b.MaskBits = 0x0001
	assert.False(t, ShouldCollide(a, b))
}

func TestFastBulletIsStoppedByTOIInsteadOfTunneling(t *testing.T) {
	w := newTestWorld(0)

	wallID, err := w.CreateBody(BodyConf{Type: Static, Position: math2.Vec2{X: 5, Y: 0}, Enabled: true})
	require.NoError(t, err)
	_, err = w.CreateFixture(wallID, shape.NewBox(0.1, 5), DefaultFixtureConf())
	require.NoError(t, err)

	bulletConf := DefaultBodyConf()
	bulletConf.Type = Dynamic
	bulletConf.Bullet = true
	// Close enough that the fat AABBs already overlap at creation time, so
	// a contact exists before the first Step even though the velocity
	// below would otherwise carry the circle clean through the wall in a
	// single dt=1/60 step.
	bulletConf.Position = math2.Vec2{X: 4.75, Y: 0}
	bulletConf.LinearVelocity = math2.Vec2{X: 1000, Y: 0}
	bulletID, err := w.CreateBody(bulletConf)
	require.NoError(t, err)
	fixConf := DefaultFixtureConf()
	fixConf.Density = 1
	_, err = w.CreateFixture(bulletID, shape.NewCircle(math2.Vec2Zero, 0.1), fixConf)
	require.NoError(t, err)

	conf := DefaultStepConf()
	stats := w.Step(conf)

	bullet, err := w.Body(bulletID)
	require.NoError(t, err)
	// Without continuous collision the bullet would land at x=6.75 (its
	// 1000 m/s travel capped by MaxTranslation=2 per step), past the wall; TOI
	// should have clipped its travel to just short of the wall's face at
	// x=4.9 (wall half-width 0.1 centered at x=5).
	assert.Less(t, bullet.Transform().P.X, float32(4.95))
	assert.Greater(t, stats.Toi.SubSteps, 0)
}
