// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import (
	"github.com/forgephys/forge2d/collision"
	"github.com/forgephys/forge2d/shape"
)

// FixtureID is a stable handle into World's fixture arena.
type FixtureID int

// Filter controls which fixture pairs collide, following Box2D's
// category/mask/group scheme: two fixtures sharing the same non-zero
// group index always collide if it is positive and never collide if it
// is negative; otherwise they collide if their category/mask bits
// intersect both ways.
type Filter struct {
	CategoryBits uint16
	MaskBits     uint16
	GroupIndex   int16
}

// DefaultFilter collides with everything.
func DefaultFilter() Filter {
	return Filter{CategoryBits: 0x0001, MaskBits: 0xFFFF}
}

// ShouldCollide implements the filter contract §4.6 of the governing
// design references: group overrides category/mask when non-zero and
// equal; otherwise category/mask decides.
func ShouldCollide(a, b Filter) bool {
	if a.GroupIndex == b.GroupIndex && a.GroupIndex != 0 {
		return a.GroupIndex > 0
	}
	return a.CategoryBits&b.MaskBits != 0 && b.CategoryBits&a.MaskBits != 0
}

// FixtureConf is the construction surface for a Fixture.
type FixtureConf struct {
	Density     float32
	Friction    float32
	Restitution float32
	Sensor      bool
	Filter      Filter
}

// DefaultFixtureConf matches the teacher's material defaults: modest
// friction, no restitution, not a sensor, collides with everything.
func DefaultFixtureConf() FixtureConf {
	return FixtureConf{Friction: 0.2, Filter: DefaultFilter()}
}

// fixtureProxy binds one shape child to one broad-phase proxy.
type fixtureProxy struct {
	proxyID    int
	aabb       collision.AABB
	childIndex int
}

// Fixture binds an immutable Shape to a Body with material properties
// and a collision filter; it owns one broad-phase proxy per shape
// child (a polygon/circle/edge has one child, a Chain has one per
// segment).
type Fixture struct {
	id   FixtureID
	body *Body

	shape       shape.Shape
	density     float32
	friction    float32
	restitution float32
	isSensor    bool
	filter      Filter

	proxies []fixtureProxy
}

func newFixture(id FixtureID, body *Body, s shape.Shape, conf FixtureConf) *Fixture {
	return &Fixture{
		id:          id,
		body:        body,
		shape:       s,
		density:     conf.Density,
		friction:    conf.Friction,
		restitution: conf.Restitution,
		isSensor:    conf.Sensor,
		filter:      conf.Filter,
	}
}

// ID returns the stable handle this fixture was created with.
func (f *Fixture) ID() FixtureID { return f.id }

// Body returns the owning body.
func (f *Fixture) Body() *Body { return f.body }

// Shape returns the fixture's (shared, immutable) geometry.
func (f *Fixture) Shape() shape.Shape { return f.shape }

// IsSensor reports whether this fixture generates contacts without
// contributing impulses.
func (f *Fixture) IsSensor() bool { return f.isSensor }

// Filter returns the fixture's collision filter.
func (f *Fixture) Filter() Filter { return f.filter }

// SetFilter replaces the collision filter; existing contacts touching
// this fixture are marked filter-dirty so the next Update re-evaluates
// ShouldCollide.
func (f *Fixture) SetFilter(filter Filter) {
	f.filter = filter
	if f.body == nil || f.body.world == nil {
		return
	}
	f.body.world.markFilterDirty(f.id)
}

// Friction returns the fixture's Coulomb friction coefficient.
func (f *Fixture) Friction() float32 { return f.friction }

// Restitution returns the fixture's coefficient of restitution.
func (f *Fixture) Restitution() float32 { return f.restitution }

// Density returns the fixture's mass density.
func (f *Fixture) Density() float32 { return f.density }

// proxyID returns the broad-phase proxy id for the given shape child.
func (f *Fixture) proxyID(childIndex int) int {
	for _, p := range f.proxies {
		if p.childIndex == childIndex {
			return p.proxyID
		}
	}
	return -1
}
