// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import (
	"github.com/forgephys/forge2d/manifold"
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

// ContactID identifies a potentially-touching ordered pair of fixture
// children; it doubles as the map key World uses to look up a Contact,
// satisfying the data model's invariant that at most one Contact exists
// per (fixtureA, childA, fixtureB, childB) tuple.
type ContactID struct {
	FixtureA FixtureID
	ChildA   int
	FixtureB FixtureID
	ChildB   int
}

func makeContactID(fa FixtureID, ca int, fb FixtureID, cb int) ContactID {
	if fa > fb || (fa == fb && ca > cb) {
		fa, fb = fb, fa
		ca, cb = cb, ca
	}
	return ContactID{FixtureA: fa, ChildA: ca, FixtureB: fb, ChildB: cb}
}

// Contact represents a potentially-touching ordered pair of fixture
// children. It exists iff the owning fixtures' broad-phase proxies
// overlap and the collision filter permits; its manifold is rebuilt
// every step by Update.
type Contact struct {
	id ContactID

	fixtureA, fixtureB *Fixture
	childA, childB     int

	// flip records whether the narrow-phase generator was invoked with
	// fixtureB's shape as its first ("A") argument: several generators
	// require a specific shape-kind ordering (polygon before circle,
	// edge before polygon), so the manifold's local frame does not
	// always match (fixtureA, fixtureB) — flip lets every other method
	// report a self-consistent (bodyA, bodyB, radiusA, radiusB) matching
	// whatever frame the stored Manifold actually uses.
	flip bool

	manifold     manifold.Manifold
	prevManifold manifold.Manifold

	friction     float32
	restitution  float32
	tangentSpeed float32

	touching    bool
	enabled     bool
	islanded    bool
	toiComputed bool
	filterDirty bool

	toi      float32
	toiCount int
}

func newContact(fa *Fixture, ca int, fb *Fixture, cb int) *Contact {
	c := &Contact{
		fixtureA:    fa,
		childA:      ca,
		fixtureB:    fb,
		childB:      cb,
		enabled:     true,
		friction:    mixFriction(fa.friction, fb.friction),
		restitution: mixRestitution(fa.restitution, fb.restitution),
	}
	c.id = makeContactID(fa.id, ca, fb.id, cb)
	return c
}

func mixFriction(a, b float32) float32 { return math2.Sqrt(a * b) }
func mixRestitution(a, b float32) float32 { return math2.Max(a, b) }

// ID returns the contact's identity tuple.
func (c *Contact) ID() ContactID { return c.id }

// FixtureA and FixtureB return the contact's two fixtures in the order
// they were created, independent of which one the narrow-phase manifold
// is expressed relative to.
func (c *Contact) FixtureA() *Fixture { return c.fixtureA }
func (c *Contact) FixtureB() *Fixture { return c.fixtureB }
func (c *Contact) ChildA() int        { return c.childA }
func (c *Contact) ChildB() int        { return c.childB }

// Manifold returns the contact's current manifold, in the local frame
// of whichever fixture manifoldFixtureA names.
func (c *Contact) Manifold() *manifold.Manifold { return &c.manifold }

// IsTouching reports whether the last Update produced a non-empty
// manifold.
func (c *Contact) IsTouching() bool { return c.touching }

// IsEnabled reports whether the contact currently contributes to the
// island solver; a pre-solve listener may disable it for one step.
func (c *Contact) IsEnabled() bool { return c.enabled }

// SetEnabled lets a pre-solve listener veto this step's impulse
// contribution without destroying the contact.
func (c *Contact) SetEnabled(enabled bool) { c.enabled = enabled }

// Friction returns the combined Coulomb friction coefficient.
func (c *Contact) Friction() float32 { return c.friction }

// Restitution returns the combined coefficient of restitution.
func (c *Contact) Restitution() float32 { return c.restitution }

// manifoldFixtureA and manifoldFixtureB return the fixtures in the
// order the stored Manifold's local frame actually uses.
func (c *Contact) manifoldFixtureA() *Fixture {
	if c.flip {
		return c.fixtureB
	}
	return c.fixtureA
}

func (c *Contact) manifoldFixtureB() *Fixture {
	if c.flip {
		return c.fixtureA
	}
	return c.fixtureB
}

func (c *Contact) bodyA() *Body { return c.manifoldFixtureA().body }
func (c *Contact) bodyB() *Body { return c.manifoldFixtureB().body }

func (c *Contact) radiusA() float32 { return c.manifoldFixtureA().shape.VertexRadius() }
func (c *Contact) radiusB() float32 { return c.manifoldFixtureB().shape.VertexRadius() }

// resolveChild peels a Chain or single-child Multi fixture child down to
// the concrete shape the narrow-phase generators dispatch on, returning
// an EdgeInfo alongside it when the resolved shape is an Edge (whether
// directly attached or materialized from a Chain segment).
func resolveChild(s shape.Shape, childIndex int) (shape.Shape, *manifold.EdgeInfo) {
	switch v := s.(type) {
	case *shape.Chain:
		e := v.EdgeAt(childIndex)
		info := manifold.NewEdgeInfo(e.V0, e.HasV0, e.V1, e.V2, e.V3, e.HasV3)
		return e, &info
	case *shape.Multi:
		return resolveChild(v.Shapes[childIndex], 0)
	case *shape.Edge:
		info := manifold.NewEdgeInfo(v.V0, v.HasV0, v.V1, v.V2, v.V3, v.HasV3)
		return v, &info
	default:
		return s, nil
	}
}

// collide dispatches to the one narrow-phase generator matching the
// resolved pair's concrete shape kinds, per spec.md's 5-entry switch
// (not virtual dispatch). It returns the manifold and whether the
// generator needed shapeB as its first argument.
func collide(fa *Fixture, ca int, xfA math2.Transform, fb *Fixture, cb int, xfB math2.Transform) (manifold.Manifold, bool) {
	sa, infoA := resolveChild(fa.shape, ca)
	sb, infoB := resolveChild(fb.shape, cb)

	switch a := sa.(type) {
	case *shape.Circle:
		switch b := sb.(type) {
		case *shape.Circle:
			return manifold.CollideCircles(a, xfA, b, xfB), false
		case *shape.Polygon:
			return manifold.CollidePolygonAndCircle(b, xfB, a, xfA), true
		case *shape.Edge:
			return manifold.CollideEdgeAndCircle(b, *infoB, xfB, a, xfA), true
		}
	case *shape.Polygon:
		switch b := sb.(type) {
		case *shape.Circle:
			return manifold.CollidePolygonAndCircle(a, xfA, b, xfB), false
		case *shape.Polygon:
			return manifold.CollidePolygons(a, xfA, b, xfB), false
		case *shape.Edge:
			return manifold.CollideEdgeAndPolygon(b, *infoB, xfB, a, xfA), true
		}
	case *shape.Edge:
		switch b := sb.(type) {
		case *shape.Circle:
			return manifold.CollideEdgeAndCircle(a, *infoA, xfA, b, xfB), false
		case *shape.Polygon:
			return manifold.CollideEdgeAndPolygon(a, *infoA, xfA, b, xfB), false
		}
	}
	return manifold.Manifold{}, false
}

// update regenerates the manifold, matches points across frames by
// ContactFeature to carry over warm-start impulses, and reports whether
// the touching state flipped (for Begin/EndContact dispatch), mirroring
// spec.md §4.6 step 1.
func (c *Contact) update() (becameTouching, stoppedTouching bool) {
	wasTouching := c.touching
	c.prevManifold = c.manifold

	bodyA := c.fixtureA.body
	bodyB := c.fixtureB.body

	m, flip := collide(c.fixtureA, c.childA, bodyA.xf, c.fixtureB, c.childB, bodyB.xf)
	c.flip = flip
	c.manifold = m
	c.touching = m.PointCount > 0

	if c.touching && !c.fixtureA.isSensor && !c.fixtureB.isSensor {
		warmStartManifold(&c.manifold, &c.prevManifold)
	}

	return !wasTouching && c.touching, wasTouching && !c.touching
}

// warmStartManifold copies each new point's normal/tangent impulse from
// the previous manifold's matching point (same ContactFeature), leaving
// unmatched points at zero.
func warmStartManifold(m, prev *manifold.Manifold) {
	for i := 0; i < m.PointCount; i++ {
		p := &m.Points[i]
		p.NormalImpulse = 0
		p.TangentImpulse = 0
		for j := 0; j < prev.PointCount; j++ {
			if prev.Points[j].ID == p.ID {
				p.NormalImpulse = prev.Points[j].NormalImpulse
				p.TangentImpulse = prev.Points[j].TangentImpulse
				break
			}
		}
	}
}
