// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import (
	"github.com/forgephys/forge2d/joint"
	"github.com/forgephys/forge2d/manifold"
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/solver"
)

// island is the transient per-step grouping of bodies, contacts and
// joints the regular-phase solver treats as one coupled system, built by
// a DFS over each body's contact/joint adjacency per spec.md §4.7.
type island struct {
	bodies   []*Body
	contacts []*Contact
	joints   []*jointRecord
}

// buildIslands clears every islanded flag and then seeds a DFS from each
// awake, non-static body not yet claimed by an island, per §4.7. Static
// bodies never seed growth but may appear as participants in more than
// one island within the same step: growIsland clears their islanded flag
// once each island is complete.
func (w *World) buildIslands() []*island {
	for _, b := range w.bodies {
		b.islanded = false
	}
	for _, c := range w.contacts {
		c.islanded = false
	}

	var islands []*island
	for _, seed := range w.bodies {
		if seed.islanded || !seed.awake || !seed.enabled || seed.bodyType == Static {
			continue
		}
		islands = append(islands, w.growIsland(seed))
	}
	return islands
}

func (w *World) growIsland(seed *Body) *island {
	isl := &island{}
	stack := []*Body{seed}
	seed.islanded = true

	jointsAdded := make(map[JointID]bool)

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		isl.bodies = append(isl.bodies, b)

		if b.bodyType == Static {
			continue
		}

		for _, cid := range b.contactEdges {
			c, ok := w.contacts[cid]
			if !ok || c.islanded {
				continue
			}
			if !c.touching || !c.enabled || c.fixtureA.isSensor || c.fixtureB.isSensor {
				continue
			}
			other := c.fixtureB.body
			if other == b {
				other = c.fixtureA.body
			}
			if other.bodyType == Static && !other.awake {
				continue
			}
			c.islanded = true
			isl.contacts = append(isl.contacts, c)
			if !other.islanded {
				other.islanded = true
				stack = append(stack, other)
			}
		}

		for _, jid := range b.jointEdges {
			rec, ok := w.joints[jid]
			if !ok || jointsAdded[jid] {
				continue
			}
			other := w.bodies[rec.bodyB]
			if other == b {
				other = w.bodies[rec.bodyA]
			}
			if other == nil || !other.enabled {
				continue
			}
			jointsAdded[jid] = true
			isl.joints = append(isl.joints, rec)
			if !other.islanded {
				other.islanded = true
				stack = append(stack, other)
			}
		}
	}

	for _, b := range isl.bodies {
		if b.bodyType == Static {
			b.islanded = false
		}
	}
	return isl
}

// islandBodies is the per-island solver scratch: a BodyConstraint per
// body plus the index lookup contacts/joints use to reference them.
type islandBodies struct {
	list    []*Body
	bc      []solver.BodyConstraint
	indexOf map[BodyID]int
}

func newIslandBodies(bodies []*Body) *islandBodies {
	ib := &islandBodies{
		list:    bodies,
		bc:      make([]solver.BodyConstraint, len(bodies)),
		indexOf: make(map[BodyID]int, len(bodies)),
	}
	for i, b := range bodies {
		ib.indexOf[b.id] = i
		ib.bc[i] = bodyToConstraint(b)
	}
	return ib
}

func bodyToConstraint(b *Body) solver.BodyConstraint {
	return solver.BodyConstraint{
		InvMass:         b.invMass,
		InvRotInertia:   b.invRotInertia,
		LocalCenter:     b.sweep.LocalCenter,
		Position:        b.sweep.C,
		Angle:           b.sweep.A,
		LinearVelocity:  b.linearVelocity,
		AngularVelocity: b.angularVelocity,
	}
}

// pushToBodies copies the solver's BodyConstraint state into the live
// Body values, so joints (which read/write *Body directly through
// joint.IBody) see the contact solver's latest answer.
func (ib *islandBodies) pushToBodies() {
	for i, b := range ib.list {
		bc := &ib.bc[i]
		b.sweep.C = bc.Position
		b.sweep.A = bc.Angle
		b.linearVelocity = bc.LinearVelocity
		b.angularVelocity = bc.AngularVelocity
	}
}

// pullFromBodies copies live Body state (as just mutated by a joint)
// back into the solver's BodyConstraint array.
func (ib *islandBodies) pullFromBodies() {
	for i, b := range ib.list {
		ib.bc[i] = bodyToConstraint(b)
	}
}

func (ib *islandBodies) writeback() {
	for i, b := range ib.list {
		bc := &ib.bc[i]
		b.sweep.C = bc.Position
		b.sweep.A = bc.Angle
		b.linearVelocity = bc.LinearVelocity
		b.angularVelocity = bc.AngularVelocity
		b.synchronizeTransform()
	}
}

// solveIsland runs §4.8 Phases A-H over one island and folds its counters into
// stats.
func (w *World) solveIsland(isl *island, conf StepConf, stats *RegularPhaseStats) {
	ib := newIslandBodies(isl.bodies)
	jointData := joint.SolverData{Dt: conf.Dt, InvDt: 0, WarmStarting: conf.DoWarmStart}
	if conf.Dt > 0 {
		jointData.InvDt = 1 / conf.Dt
	}

	// Phase A: touching, enabled, non-sensor contacts contribute velocity
	// and position constraints.
	var contactInputs []solver.ContactInput
	var indexA, indexB []int
	activeContacts := isl.contacts[:0:0]
	for _, c := range isl.contacts {
		if !c.touching || !c.enabled || c.fixtureA.isSensor || c.fixtureB.isSensor {
			continue
		}
		activeContacts = append(activeContacts, c)
		contactInputs = append(contactInputs, solver.ContactInput{
			Manifold:     &c.manifold,
			RadiusA:      c.radiusA(),
			RadiusB:      c.radiusB(),
			Friction:     c.friction,
			Restitution:  c.restitution,
			TangentSpeed: c.tangentSpeed,
		})
		indexA = append(indexA, ib.indexOf[c.bodyA().id])
		indexB = append(indexB, ib.indexOf[c.bodyB().id])
	}
	vcs, pcs := solver.InitVelocityConstraints(ib.bc, contactInputs, indexA, indexB)

	// Phase B: integrate forces into velocity for dynamic bodies.
	for i, b := range ib.list {
		if b.bodyType != Dynamic {
			continue
		}
		bc := &ib.bc[i]
		bc.LinearVelocity = bc.LinearVelocity.Add(w.conf.Gravity.Mul(b.gravityScale).Add(b.force.Mul(bc.InvMass)).Mul(conf.Dt))
		bc.AngularVelocity += conf.Dt * bc.InvRotInertia * b.torque
		bc.LinearVelocity = bc.LinearVelocity.Mul(1 / (1 + conf.Dt*b.linearDamping))
		bc.AngularVelocity *= 1 / (1 + conf.Dt*b.angularDamping)
	}

	// Phase C: warm start.
	if conf.DoWarmStart {
		for i, c := range activeContacts {
			for j := 0; j < vcs[i].PointCount; j++ {
				vcs[i].Points[j].NormalImpulse = conf.DtRatio * c.manifold.Points[j].NormalImpulse
				vcs[i].Points[j].TangentImpulse = conf.DtRatio * c.manifold.Points[j].TangentImpulse
			}
		}
		solver.WarmStart(ib.bc, vcs)
		ib.pushToBodies()
		for _, rec := range isl.joints {
			rec.j.WarmStart(jointData)
		}
		ib.pullFromBodies()
	}

	// Phase D: velocity iterations.
	for iter := 0; iter < conf.RegVelocityIterations; iter++ {
		ib.pushToBodies()
		for _, rec := range isl.joints {
			rec.j.SolveVelocityConstraints(jointData)
		}
		ib.pullFromBodies()
		solver.SolveVelocityConstraints(ib.bc, vcs)
	}
	stats.VelocityIterationSum += conf.RegVelocityIterations

	// Phase E: integrate positions, clamping translation/rotation.
	for i := range ib.bc {
		bc := &ib.bc[i]
		translation := bc.LinearVelocity.Mul(conf.Dt)
		rotation := bc.AngularVelocity * conf.Dt
		if ratio := clampMotionRatio(translation, rotation, conf.MaxTranslation, conf.MaxRotation); ratio < 1 {
			translation = translation.Mul(ratio)
			rotation *= ratio
		}
		bc.Position = bc.Position.Add(translation)
		bc.Angle += rotation
	}

	// Phase F: position iterations.
	for iter := 0; iter < conf.RegPositionIterations; iter++ {
		minSep := solver.SolvePositionConstraints(ib.bc, pcs)
		if minSep < stats.MinSeparation {
			stats.MinSeparation = minSep
		}
		contactsOK := minSep >= -3*conf.LinearSlop

		ib.pushToBodies()
		jointsOK := true
		for _, rec := range isl.joints {
			if !rec.j.SolvePositionConstraints(jointData) {
				jointsOK = false
			}
		}
		ib.pullFromBodies()

		stats.PositionIterationSum++
		if contactsOK && jointsOK {
			break
		}
	}

	// Phase G: writeback.
	ib.writeback()
	solver.StoreImpulses(vcs, manifoldsOf(activeContacts))
	for _, vc := range vcs {
		impulse := vc.Points[0].NormalImpulse
		if vc.PointCount > 1 && vc.Points[1].NormalImpulse > impulse {
			impulse = vc.Points[1].NormalImpulse
		}
		if impulse > stats.MaxNormalImpulse {
			stats.MaxNormalImpulse = impulse
		}
	}

	// Phase H: sleep, decided collectively for the whole island since a
	// resting contact couples every body's stillness to its neighbors'.
	minSleepTime := float32(math2.Infinity)
	anyDynamic := false
	for _, b := range isl.bodies {
		if b.bodyType != Dynamic {
			continue
		}
		anyDynamic = true
		still := b.allowSleep &&
			b.linearVelocity.Dot(b.linearVelocity) < defaultSleepLinearLimit*defaultSleepLinearLimit &&
			b.angularVelocity*b.angularVelocity < defaultSleepAngularLimit*defaultSleepAngularLimit
		if !still {
			b.sleepTime = 0
			minSleepTime = 0
		} else {
			b.sleepTime += conf.Dt
			if b.sleepTime < minSleepTime {
				minSleepTime = b.sleepTime
			}
		}
	}
	if anyDynamic && minSleepTime >= conf.MinStillTimeToSleep {
		for _, b := range isl.bodies {
			if b.bodyType == Dynamic && b.awake {
				b.Sleep()
				stats.BodiesSlept++
			}
		}
	}

	stats.IslandsFound++
	stats.BodiesSolved += len(isl.bodies)
}

func manifoldsOf(contacts []*Contact) []*manifold.Manifold {
	ms := make([]*manifold.Manifold, len(contacts))
	for i, c := range contacts {
		ms[i] = &c.manifold
	}
	return ms
}

// clampMotionRatio returns the largest ratio in (0,1] that keeps the
// proposed translation/rotation within the per-step caps, scaling both
// components together so a body's motion direction is preserved.
func clampMotionRatio(translation math2.Vec2, rotation, maxTranslation, maxRotation float32) float32 {
	ratio := float32(1)
	if tl := translation.LengthSquared(); tl > maxTranslation*maxTranslation {
		ratio = maxTranslation / math2.Sqrt(tl)
	}
	if rotation < 0 {
		rotation = -rotation
	}
	if rotation > maxRotation {
		r := maxRotation / rotation
		if r < ratio {
			ratio = r
		}
	}
	return ratio
}
