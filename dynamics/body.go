// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import (
	"github.com/forgephys/forge2d/event"
	"github.com/forgephys/forge2d/math2"
)

// BodyID is a stable handle into World's body arena; it survives
// reallocation of the underlying storage, unlike a pointer.
type BodyID int

// BodyType selects how a body is affected by and participates in the
// simulation, mirroring the teacher's physics.BodyType.
type BodyType int

const (
	// Static bodies never move; they have infinite effective mass and
	// seed no island growth.
	Static BodyType = iota
	// Kinematic bodies move under their own prescribed velocity and are
	// unaffected by forces or collisions.
	Kinematic
	// Dynamic bodies are fully simulated.
	Dynamic
)

func (t BodyType) String() string {
	switch t {
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// sleepState is the body's position in the Awake -> Sleepy -> Sleeping
// progression; only Dynamic bodies with AllowSleep ever leave Awake.
type sleepState int

const (
	awake sleepState = iota
	sleepy
	sleeping
)

// Sleep/wake events dispatched on a Body's embedded Dispatcher, mirroring
// the teacher's physics.Body SleepyEvent/SleepEvent/WakeUpEvent.
const (
	SleepyEvent = "dynamics.Sleepy"
	SleepEvent  = "dynamics.Sleep"
	WakeUpEvent = "dynamics.WakeUp"
)

// defaultSleepLinearLimit and defaultSleepAngularLimit are the linear and
// angular speeds a body must stay under to count as still; how long it
// must stay still before sleeping is StepConf's MinStillTimeToSleep.
const (
	defaultSleepLinearLimit  = 0.01
	defaultSleepAngularLimit = 2.0 / 180.0 * math2.Pi
)

// BodyConf is the entire construction surface for a Body: type, initial
// transform, initial velocities, damping, and the behavioral flags.
type BodyConf struct {
	Type                   BodyType
	Position               math2.Vec2
	Angle                  float32
	LinearVelocity         math2.Vec2
	AngularVelocity        float32
	LinearDamping          float32
	AngularDamping         float32
	GravityScale           float32
	AllowSleep             bool
	Awake                  bool
	FixedRotation          bool
	Bullet                 bool
	Enabled                bool
}

// DefaultBodyConf returns a BodyConf with the same defaults the teacher's
// NewBody applies (awake, allowed to sleep, gravity scale 1, enabled).
func DefaultBodyConf() BodyConf {
	return BodyConf{
		Type:         Static,
		GravityScale: 1,
		AllowSleep:   true,
		Awake:        true,
		Enabled:      true,
	}
}

// Body is a rigid body: a transform, a sweep (its motion over the
// current step), velocities, mass properties derived from its attached
// fixtures, and the adjacency lists (fixtures, contact edges, joint
// edges) the world and island solver walk. It embeds event.Dispatcher
// the way the teacher's physics.Body does, for Sleepy/Sleep/WakeUp.
type Body struct {
	event.Dispatcher

	id    BodyID
	world *World

	bodyType BodyType
	xf       math2.Transform
	sweep    math2.Sweep

	linearVelocity  math2.Vec2
	angularVelocity float32

	linearDamping  float32
	angularDamping float32
	gravityScale   float32

	mass          float32
	invMass       float32
	rotInertia    float32
	invRotInertia float32

	force  math2.Vec2
	torque float32

	fixtures     []FixtureID
	contactEdges []ContactID
	jointEdges   []JointID

	awake         bool
	allowSleep    bool
	fixedRotation bool
	bullet        bool
	enabled       bool
	islanded      bool

	sleepState sleepState
	sleepTime  float32
}

func newBody(id BodyID, w *World, conf BodyConf) *Body {
	b := &Body{
		id:             id,
		world:          w,
		bodyType:       conf.Type,
		linearVelocity: conf.LinearVelocity,
		angularVelocity: conf.AngularVelocity,
		linearDamping:  conf.LinearDamping,
		angularDamping: conf.AngularDamping,
		gravityScale:   conf.GravityScale,
		allowSleep:     conf.AllowSleep,
		fixedRotation:  conf.FixedRotation,
		bullet:         conf.Bullet,
		enabled:        conf.Enabled,
		awake:          conf.Awake || conf.Type != Dynamic,
	}
	q := math2.NewUnitVec2FromAngle(conf.Angle)
	b.xf = math2.Transform{P: conf.Position, Q: q}
	b.sweep.LocalCenter = math2.Vec2Zero
	b.sweep.C0 = conf.Position
	b.sweep.C = conf.Position
	b.sweep.A0 = conf.Angle
	b.sweep.A = conf.Angle
	b.sweep.Alpha0 = 0
	if b.bodyType == Dynamic {
		b.mass = 1
		b.invMass = 1
	}
	if b.awake {
		b.sleepState = awake
	} else {
		b.sleepState = sleeping
	}
	return b
}

// ID returns the stable handle this body was created with.
func (b *Body) ID() BodyID { return b.id }

// Type reports whether the body is Static, Kinematic, or Dynamic.
func (b *Body) Type() BodyType { return b.bodyType }

// Transform returns the body's origin transform (not its center of
// mass); this is the public-facing position most callers want.
func (b *Body) Transform() math2.Transform { return b.xf }

// WorldCenter returns the world-space position of the body's center of
// mass, the quantity the solver actually integrates.
func (b *Body) WorldCenter() math2.Vec2 { return b.sweep.C }

// SetTransform repositions the body immediately (not through velocity
// integration), recomputing its sweep and syncing its fixtures' broad-
// phase proxies on the next pre-phase.
func (b *Body) SetTransform(position math2.Vec2, angle float32) {
	q := math2.NewUnitVec2FromAngle(angle)
	b.xf = math2.Transform{P: position, Q: q}
	center := b.xf.ToWorldVec(b.sweep.LocalCenter)
	b.sweep.C0 = center
	b.sweep.C = center
	b.sweep.A0 = angle
	b.sweep.A = angle
	if b.world != nil {
		b.world.queueProxySync(b.id)
	}
}

func (b *Body) synchronizeTransform() {
	b.xf.Q = math2.NewUnitVec2FromAngle(b.sweep.A)
	b.xf.P = b.sweep.C.Sub(b.sweep.LocalCenter.Rotate(b.xf.Q))
}

// LinearVelocity returns the body's linear velocity of its center of mass.
func (b *Body) LinearVelocity() math2.Vec2 { return b.linearVelocity }

// AngularVelocity returns the body's angular velocity in radians/second.
func (b *Body) AngularVelocity() float32 { return b.angularVelocity }

// SetLinearVelocity sets the body's linear velocity directly, waking it
// if it was asleep and the new velocity is non-zero.
func (b *Body) SetLinearVelocity(v math2.Vec2) {
	if b.bodyType == Static {
		return
	}
	if v.Dot(v) > 0 {
		b.WakeUp()
	}
	b.linearVelocity = v
}

// SetAngularVelocity sets the body's angular velocity directly.
func (b *Body) SetAngularVelocity(w float32) {
	if b.bodyType == Static {
		return
	}
	if w*w > 0 {
		b.WakeUp()
	}
	b.angularVelocity = w
}

// InvMass returns the inverse mass used by the solver (0 for Static and
// Kinematic bodies).
func (b *Body) InvMass() float32 { return b.invMass }

// InvRotInertia returns the inverse rotational inertia about the center
// of mass used by the solver.
func (b *Body) InvRotInertia() float32 { return b.invRotInertia }

// LocalCenter returns the center of mass in the body's local frame.
func (b *Body) LocalCenter() math2.Vec2 { return b.sweep.LocalCenter }

// Position satisfies joint.IBody: it is the world-space center of mass,
// the representation joints and the island solver operate on, not the
// origin Transform() exposes.
func (b *Body) Position() math2.Vec2 { return b.sweep.C }

// Angle satisfies joint.IBody and returns the body's current rotation.
func (b *Body) Angle() float32 { return b.sweep.A }

// SetPosition satisfies joint.IBody: the position solver writes the
// center of mass directly back here between NGS iterations.
func (b *Body) SetPosition(p math2.Vec2) { b.sweep.C = p }

// SetAngle satisfies joint.IBody.
func (b *Body) SetAngle(a float32) { b.sweep.A = a }

// Force returns the accumulated linear force that will be integrated on
// the next Step and then cleared (when StepConf.AutoClearForces is set).
func (b *Body) Force() math2.Vec2 { return b.force }

// Torque returns the accumulated torque about the center of mass.
func (b *Body) Torque() float32 { return b.torque }

// ApplyForce adds a force at a world point, accumulating both the
// central force and the torque it induces about the center of mass,
// mirroring the teacher's Body.ApplyForce.
func (b *Body) ApplyForce(force, point math2.Vec2) {
	if b.bodyType != Dynamic {
		return
	}
	b.WakeUp()
	b.force = b.force.Add(force)
	b.torque += point.Sub(b.sweep.C).Cross(force)
}

// ApplyForceToCenter adds a force through the center of mass, inducing
// no torque.
func (b *Body) ApplyForceToCenter(force math2.Vec2) {
	if b.bodyType != Dynamic {
		return
	}
	b.WakeUp()
	b.force = b.force.Add(force)
}

// ApplyTorque adds to the accumulated torque.
func (b *Body) ApplyTorque(torque float32) {
	if b.bodyType != Dynamic {
		return
	}
	b.WakeUp()
	b.torque += torque
}

// ApplyLinearImpulse immediately changes velocity by invMass*impulse,
// applied at a world point.
func (b *Body) ApplyLinearImpulse(impulse, point math2.Vec2) {
	if b.bodyType != Dynamic {
		return
	}
	b.WakeUp()
	b.linearVelocity = b.linearVelocity.Add(impulse.Mul(b.invMass))
	b.angularVelocity += b.invRotInertia * point.Sub(b.sweep.C).Cross(impulse)
}

// ApplyAngularImpulse immediately changes angular velocity by
// invRotInertia*impulse.
func (b *Body) ApplyAngularImpulse(impulse float32) {
	if b.bodyType != Dynamic {
		return
	}
	b.WakeUp()
	b.angularVelocity += b.invRotInertia * impulse
}

// IsAwake reports whether the body currently participates in solving.
func (b *Body) IsAwake() bool { return b.awake }

// IsEnabled reports whether the body participates in the simulation at
// all (a disabled body keeps no broad-phase proxies).
func (b *Body) IsEnabled() bool { return b.enabled }

// IsBullet reports whether the body is eligible for TOI against other
// dynamic bodies rather than only against statics.
func (b *Body) IsBullet() bool { return b.bullet }

// SetBullet toggles TOI eligibility against other dynamic bodies.
func (b *Body) SetBullet(bullet bool) { b.bullet = bullet }

// SetAllowSleep toggles whether the body is allowed to fall asleep; if
// sleep is disallowed mid-sleep the body is immediately woken.
func (b *Body) SetAllowSleep(allow bool) {
	b.allowSleep = allow
	if !allow {
		b.WakeUp()
	}
}

// WakeUp marks the body awake and resets its sleep timer, dispatching
// WakeUpEvent if it had been sleeping.
func (b *Body) WakeUp() {
	if b.bodyType == Static {
		return
	}
	wasSleeping := b.sleepState == sleeping
	b.awake = true
	b.sleepState = awake
	b.sleepTime = 0
	if wasSleeping {
		b.Dispatch(WakeUpEvent, nil)
	}
}

// Sleep forces the body to sleep immediately, zeroing its velocities.
func (b *Body) Sleep() {
	b.awake = false
	b.sleepState = sleeping
	b.linearVelocity = math2.Vec2Zero
	b.angularVelocity = 0
	b.sleepTime = 0
	b.Dispatch(SleepEvent, nil)
}

// sleepTick advances the body's sleep timer given how long it has been
// under the speed thresholds, putting it to sleep once it has been
// still for minStillTime seconds, mirroring the teacher's SleepTick.
func (b *Body) sleepTick(dt, minStillTime float32, stillThisStep bool) {
	if !b.allowSleep || b.bodyType != Dynamic {
		b.sleepTime = 0
		if b.sleepState == sleepy {
			b.sleepState = awake
		}
		return
	}
	if !stillThisStep {
		if b.sleepState != awake {
			b.sleepState = awake
		}
		b.sleepTime = 0
		return
	}
	if b.sleepState == awake {
		b.sleepState = sleepy
		b.Dispatch(SleepyEvent, nil)
	}
	b.sleepTime += dt
	if b.sleepTime >= minStillTime {
		b.Sleep()
	}
}

// Fixtures returns the ids of fixtures attached to this body.
func (b *Body) Fixtures() []FixtureID { return b.fixtures }

func (b *Body) addFixture(id FixtureID) { b.fixtures = append(b.fixtures, id) }

func (b *Body) removeFixture(id FixtureID) {
	for i, f := range b.fixtures {
		if f == id {
			b.fixtures = append(b.fixtures[:i], b.fixtures[i+1:]...)
			return
		}
	}
}

func (b *Body) addContactEdge(id ContactID) { b.contactEdges = append(b.contactEdges, id) }

func (b *Body) removeContactEdge(id ContactID) {
	for i, c := range b.contactEdges {
		if c == id {
			b.contactEdges = append(b.contactEdges[:i], b.contactEdges[i+1:]...)
			return
		}
	}
}

func (b *Body) addJointEdge(id JointID) { b.jointEdges = append(b.jointEdges, id) }

func (b *Body) removeJointEdge(id JointID) {
	for i, j := range b.jointEdges {
		if j == id {
			b.jointEdges = append(b.jointEdges[:i], b.jointEdges[i+1:]...)
			return
		}
	}
}

// ResetMassData recomputes mass, center of mass, and rotational inertia
// from the shapes of all attached fixtures with non-zero density,
// mirroring the teacher's Body.UpdateMassProperties but driven by
// Fixture.ComputeMass rather than a single attached geometry.
func (b *Body) ResetMassData() {
	b.mass = 0
	b.invMass = 0
	b.rotInertia = 0
	b.invRotInertia = 0
	b.sweep.LocalCenter = math2.Vec2Zero

	if b.bodyType == Static || b.bodyType == Kinematic {
		b.sweep.C0 = b.xf.P
		b.sweep.C = b.xf.P
		return
	}

	localCenter := math2.Vec2Zero
	for _, fid := range b.fixtures {
		f := b.world.fixture(fid)
		if f.density == 0 {
			continue
		}
		massData := f.shape.ComputeMass(f.density)
		b.mass += massData.Mass
		localCenter = localCenter.Add(massData.Center.Mul(massData.Mass))
		b.rotInertia += massData.RotInertia
	}

	if b.mass > 0 {
		b.invMass = 1 / b.mass
		localCenter = localCenter.Mul(b.invMass)
	} else {
		b.mass = 1
		b.invMass = 1
	}

	if b.rotInertia > 0 && !b.fixedRotation {
		b.rotInertia -= b.mass * localCenter.Dot(localCenter)
		b.invRotInertia = 1 / b.rotInertia
	} else {
		b.rotInertia = 0
		b.invRotInertia = 0
	}

	oldCenter := b.sweep.C
	b.sweep.LocalCenter = localCenter
	b.sweep.C0 = b.xf.ToWorldVec(localCenter)
	b.sweep.C = b.sweep.C0
	b.sweep.A0 = b.sweep.A

	b.linearVelocity = b.linearVelocity.Add(b.sweep.C.Sub(oldCenter).CrossScalar(b.angularVelocity))
}
