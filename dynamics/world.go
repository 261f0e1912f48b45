// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dynamics assembles the broad-phase, narrow-phase, island
// assembly and sequential-impulse solver packages into the public World
// API: create bodies/fixtures/joints, step the simulation, and query it
// back. It is the one package allowed to see every other package's
// exported surface at once.
package dynamics

import (
	"github.com/google/uuid"

	"github.com/forgephys/forge2d/collision"
	"github.com/forgephys/forge2d/joint"
	"github.com/forgephys/forge2d/log"
	"github.com/forgephys/forge2d/manifold"
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

var worldLog = log.New("DYN")

// WorldConf is the construction surface for a World.
type WorldConf struct {
	Gravity         math2.Vec2
	MinVertexRadius float32
	MaxVertexRadius float32
}

// DefaultWorldConf matches Box2D's usual defaults: no gravity, a
// permissive vertex radius range.
func DefaultWorldConf() WorldConf {
	return WorldConf{MinVertexRadius: 0, MaxVertexRadius: 10}
}

// StepConf is the per-call configuration for World.Step, covering both
// the regular and TOI solver phases.
type StepConf struct {
	Dt      float32
	DtRatio float32 // dt / previous dt, scales carried-over impulses at warm start

	RegVelocityIterations int
	RegPositionIterations int
	ToiVelocityIterations int
	ToiPositionIterations int
	MaxSubSteps           int

	LinearSlop          float32
	AngularSlop         float32
	MaxLinearCorrection float32
	MaxAngularCorrection float32
	RegResolutionRate   float32
	ToiResolutionRate   float32
	VelocityThreshold   float32
	MaxTranslation      float32
	MaxRotation         float32
	AABBExtension       float32
	DisplaceMultiplier  float32

	DoWarmStart    bool
	DoToi          bool
	DoBlockSolve   bool
	AutoClearForces bool

	Tolerance           float32
	MinStillTimeToSleep float32
}

// DefaultStepConf returns the conventional Box2D tuning constants at
// dt=1/60, the values spec.md's end-to-end scenarios are written against.
func DefaultStepConf() StepConf {
	return StepConf{
		Dt:                    1.0 / 60.0,
		DtRatio:               1,
		RegVelocityIterations: 8,
		RegPositionIterations: 3,
		ToiVelocityIterations: 8,
		ToiPositionIterations: 20,
		MaxSubSteps:           8,
		LinearSlop:            0.005,
		AngularSlop:           2.0 / 180.0 * math2.Pi,
		MaxLinearCorrection:   0.2,
		MaxAngularCorrection:  8.0 / 180.0 * math2.Pi,
		RegResolutionRate:     0.2,
		ToiResolutionRate:     0.75,
		VelocityThreshold:     1.0,
		MaxTranslation:        2.0,
		MaxRotation:           0.5 * math2.Pi,
		AABBExtension:         0.1,
		DisplaceMultiplier:    2.0,
		DoWarmStart:           true,
		DoToi:                 true,
		DoBlockSolve:          true,
		AutoClearForces:       true,
		Tolerance:             0.005,
		MinStillTimeToSleep:   0.5,
	}
}

// PrePhaseStats tallies §4.10 step 1's contact-management bookkeeping.
type PrePhaseStats struct {
	ProxiesSynced    int
	PairsFound       int
	ContactsCreated  int
	ContactsDestroyed int
	ContactsUpdated  int
}

// RegularPhaseStats tallies §4.8's island solve across every island
// solved this step.
type RegularPhaseStats struct {
	IslandsFound         int
	BodiesSolved         int
	VelocityIterationSum int
	PositionIterationSum int
	MinSeparation        float32
	MaxNormalImpulse     float32
	BodiesSlept          int
}

// ToiPhaseStats tallies §4.9's sub-stepping loop.
type ToiPhaseStats struct {
	SubSteps       int
	ContactsAtCap  int
	MinToi         float32
}

// StepStats is Step's return value: per-phase counters plus a UUID
// correlating this call's log lines across an interleaved multi-world
// log stream, since Step must not read the wall clock itself.
type StepStats struct {
	StepID  uuid.UUID
	Pre     PrePhaseStats
	Regular RegularPhaseStats
	Toi     ToiPhaseStats
}

// ContactListener receives contact lifecycle notifications during Step.
// Implementations must not mutate the World (§5): creating or destroying
// bodies/fixtures/joints from inside a callback returns ErrLockedWorld.
type ContactListener interface {
	BeginContact(c *Contact)
	EndContact(c *Contact)
	PreSolve(c *Contact, oldManifold *manifoldSnapshot)
	PostSolve(c *Contact, impulses []PointImpulse)
}

// PointImpulse reports one manifold point's final accumulated impulses
// to a PostSolve listener.
type PointImpulse struct {
	NormalImpulse, TangentImpulse float32
}

// manifoldSnapshot is the pre-solve manifold handed to PreSolve, distinct
// from *manifold.Manifold only in name so listener code never mistakes it
// for the live, still-mutating contact manifold.
type manifoldSnapshot = manifold.Manifold

// JointListener is notified when a joint is destroyed, e.g. by cascaded
// body destruction.
type JointListener interface {
	JointDestroyed(id JointID)
}

// JointID is a stable handle into World's joint registry.
type JointID int

// jointRecord binds a constructed joint.Joint to the two bodies it was
// built against, plus whether those bodies should otherwise still
// collide with each other.
type jointRecord struct {
	id               JointID
	j                joint.Joint
	bodyA, bodyB     BodyID
	collideConnected bool
}

type proxyRef struct {
	fixture    FixtureID
	childIndex int
}

// World owns every body, fixture, contact and joint, plus the broad-phase
// they share, and drives them all forward one Step at a time. Contact and
// joint lifecycle notifications go out exclusively through the typed
// ContactListener/JointListener below; unlike Body, World has no pub/sub
// Dispatcher of its own to keep in sync with those callbacks.
type World struct {
	conf WorldConf

	bodies   map[BodyID]*Body
	nextBody BodyID

	fixtures   map[FixtureID]*Fixture
	nextFixture FixtureID

	contacts map[ContactID]*Contact

	joints    map[JointID]*jointRecord
	nextJoint JointID

	broadPhase *collision.BroadPhase
	proxies    map[int]proxyRef

	proxySyncQueue map[BodyID]bool
	filterDirty    map[FixtureID]bool

	locked bool

	contactListener ContactListener
	jointListener   JointListener

	prevDt float32
}

// NewWorld constructs an empty World.
func NewWorld(conf WorldConf) *World {
	w := &World{
		conf:           conf,
		bodies:         make(map[BodyID]*Body),
		fixtures:       make(map[FixtureID]*Fixture),
		contacts:       make(map[ContactID]*Contact),
		joints:         make(map[JointID]*jointRecord),
		broadPhase:     collision.NewBroadPhase(),
		proxies:        make(map[int]proxyRef),
		proxySyncQueue: make(map[BodyID]bool),
		filterDirty:    make(map[FixtureID]bool),
	}
	return w
}

// SetContactListener installs the callback object notified of contact
// lifecycle events during Step.
func (w *World) SetContactListener(l ContactListener) { w.contactListener = l }

// SetJointListener installs the callback object notified when a joint is
// destroyed out from under its caller.
func (w *World) SetJointListener(l JointListener) { w.jointListener = l }

// Gravity returns the world's gravitational acceleration.
func (w *World) Gravity() math2.Vec2 { return w.conf.Gravity }

// SetGravity changes the world's gravitational acceleration, taking
// effect on the next Step.
func (w *World) SetGravity(g math2.Vec2) { w.conf.Gravity = g }

// Body looks up a live body by id.
func (w *World) Body(id BodyID) (*Body, error) {
	b, ok := w.bodies[id]
	if !ok {
		return nil, ErrInvalidBody
	}
	return b, nil
}

func (w *World) fixture(id FixtureID) *Fixture { return w.fixtures[id] }

// CreateBody adds a new body to the world.
func (w *World) CreateBody(conf BodyConf) (BodyID, error) {
	if w.locked {
		return 0, ErrLockedWorld
	}
	if !conf.Position.IsValid() {
		return 0, ErrInvalidArgument
	}
	w.nextBody++
	id := w.nextBody
	w.bodies[id] = newBody(id, w, conf)
	return id, nil
}

// DestroyBody removes a body and cascades to its fixtures, contacts and
// joints.
func (w *World) DestroyBody(id BodyID) error {
	if w.locked {
		return ErrLockedWorld
	}
	b, ok := w.bodies[id]
	if !ok {
		return ErrInvalidBody
	}

	for _, jid := range append([]JointID(nil), b.jointEdges...) {
		_ = w.DestroyJoint(jid)
	}
	for _, fid := range append([]FixtureID(nil), b.fixtures...) {
		_ = w.DestroyFixture(fid)
	}

	delete(w.bodies, id)
	delete(w.proxySyncQueue, id)
	return nil
}

// CreateFixture attaches a shape to a body with the given material and
// filter, and recomputes the body's mass data from its attached shapes.
func (w *World) CreateFixture(bodyID BodyID, s shape.Shape, conf FixtureConf) (FixtureID, error) {
	if w.locked {
		return 0, ErrLockedWorld
	}
	b, ok := w.bodies[bodyID]
	if !ok {
		return 0, ErrInvalidBody
	}
	if s == nil || s.VertexRadius() < 0 {
		return 0, ErrInvalidShape
	}
	if conf.Density < 0 {
		return 0, ErrInvalidArgument
	}

	w.nextFixture++
	id := w.nextFixture
	f := newFixture(id, b, s, conf)
	w.fixtures[id] = f
	b.addFixture(id)

	for c := 0; c < s.ChildCount(); c++ {
		aabb := s.ComputeAABB(b.xf, c)
		proxyID := w.broadPhase.CreateProxy(aabb, nil)
		w.proxies[proxyID] = proxyRef{fixture: id, childIndex: c}
		f.proxies = append(f.proxies, fixtureProxy{proxyID: proxyID, aabb: aabb, childIndex: c})
	}

	b.ResetMassData()
	return id, nil
}

// DestroyFixture removes a fixture, its broad-phase proxies and any
// contacts that reference it, and recomputes the owning body's mass.
func (w *World) DestroyFixture(id FixtureID) error {
	if w.locked {
		return ErrLockedWorld
	}
	f, ok := w.fixtures[id]
	if !ok {
		return ErrInvalidFixture
	}

	for cid, c := range w.contacts {
		if c.fixtureA.id == id || c.fixtureB.id == id {
			w.destroyContact(cid)
		}
	}

	for _, p := range f.proxies {
		w.broadPhase.DestroyProxy(p.proxyID)
		delete(w.proxies, p.proxyID)
	}

	f.body.removeFixture(id)
	delete(w.fixtures, id)
	delete(w.filterDirty, id)
	f.body.ResetMassData()
	return nil
}

// markFilterDirty flags every contact touching fixture id for
// re-evaluation against ShouldCollide on the next Update.
func (w *World) markFilterDirty(id FixtureID) {
	w.filterDirty[id] = true
	for _, c := range w.contacts {
		if c.fixtureA.id == id || c.fixtureB.id == id {
			c.filterDirty = true
		}
	}
}

// queueProxySync marks a body's fixtures for AABB/proxy resynchronization
// at the start of the next Step, following a direct SetTransform call.
func (w *World) queueProxySync(id BodyID) { w.proxySyncQueue[id] = true }

// CreateJoint registers a joint built by build, which receives the two
// bodies as joint.IBody values (every *Body already satisfies the
// interface). collideConnected controls whether the two bodies may still
// generate contacts with each other.
func (w *World) CreateJoint(bodyA, bodyB BodyID, collideConnected bool, build func(a, b joint.IBody) joint.Joint) (JointID, error) {
	if w.locked {
		return 0, ErrLockedWorld
	}
	a, ok := w.bodies[bodyA]
	if !ok {
		return 0, ErrInvalidBody
	}
	b, ok := w.bodies[bodyB]
	if !ok {
		return 0, ErrInvalidBody
	}

	w.nextJoint++
	id := w.nextJoint
	rec := &jointRecord{id: id, j: build(a, b), bodyA: bodyA, bodyB: bodyB, collideConnected: collideConnected}
	w.joints[id] = rec
	a.addJointEdge(id)
	b.addJointEdge(id)
	a.WakeUp()
	b.WakeUp()
	return id, nil
}

// DestroyJoint removes a joint and notifies the joint listener, if one is
// installed.
func (w *World) DestroyJoint(id JointID) error {
	if w.locked {
		return ErrLockedWorld
	}
	rec, ok := w.joints[id]
	if !ok {
		return ErrInvalidJoint
	}
	if a, ok := w.bodies[rec.bodyA]; ok {
		a.removeJointEdge(id)
		a.WakeUp()
	}
	if b, ok := w.bodies[rec.bodyB]; ok {
		b.removeJointEdge(id)
		b.WakeUp()
	}
	delete(w.joints, id)
	if w.jointListener != nil {
		w.jointListener.JointDestroyed(id)
	}
	return nil
}

func (w *World) destroyContact(id ContactID) {
	c, ok := w.contacts[id]
	if !ok {
		return
	}
	if c.touching && w.contactListener != nil {
		w.contactListener.EndContact(c)
	}
	if a, ok := w.bodies[c.fixtureA.body.id]; ok {
		a.removeContactEdge(id)
	}
	if b, ok := w.bodies[c.fixtureB.body.id]; ok {
		b.removeContactEdge(id)
	}
	delete(w.contacts, id)
}

// QueryAABB visits every fixture whose broad-phase proxy overlaps aabb;
// cb returns false to stop the query early.
func (w *World) QueryAABB(aabb collision.AABB, cb func(f *Fixture, childIndex int) bool) {
	w.broadPhase.Query(aabb, func(proxyID int) bool {
		ref, ok := w.proxies[proxyID]
		if !ok {
			return true
		}
		return cb(w.fixtures[ref.fixture], ref.childIndex)
	})
}

// RayCastResult is one hit reported by RayCast.
type RayCastResult struct {
	Fixture    *Fixture
	ChildIndex int
	Point      math2.Vec2
	Normal     math2.Vec2
	Fraction   float32
}

// RayCast casts a segment from p1 to p2 against every fixture's proxies,
// invoking cb with each hit found along the way; cb returns the fraction
// to clip the remaining search to (0 to stop, 1 to keep the original
// length), matching Box2D's RayCastCallback contract.
func (w *World) RayCast(p1, p2 math2.Vec2, cb func(RayCastResult) float32) {
	maxFraction := float32(1)
	w.broadPhase.RayCast(collision.RayCastInput{P1: p1, P2: p2, MaxFraction: maxFraction}, func(proxyID int, rc collision.RayCastInput) float32 {
		ref, ok := w.proxies[proxyID]
		if !ok {
			return rc.MaxFraction
		}
		f := w.fixtures[ref.fixture]
		out, hit := f.shape.RayCast(shape.RayCastInput{P1: rc.P1, P2: rc.P2, MaxFraction: rc.MaxFraction}, f.body.xf, ref.childIndex)
		if !hit {
			return rc.MaxFraction
		}
		point := rc.P1.Lerp(rc.P2, out.Fraction)
		return cb(RayCastResult{Fixture: f, ChildIndex: ref.childIndex, Point: point, Normal: out.Normal.Vec2(), Fraction: out.Fraction})
	})
}
