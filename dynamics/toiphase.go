// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import (
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
	"github.com/forgephys/forge2d/solver"
	"github.com/forgephys/forge2d/toi"
)

// maxToiIslandBodies bounds the BFS a minimum-TOI event expands into, the
// way a real-time solver caps how much of the world one continuous-
// collision event is allowed to touch.
const maxToiIslandBodies = 32

// toiEligible reports whether a and b should be checked for tunneling at
// all: at least one must be Dynamic, and two Dynamic bodies only get
// checked against each other if one is a bullet, continuous collision
// against other dynamics being too expensive to run unconditionally.
func toiEligible(a, b *Body) bool {
	if a.bodyType != Dynamic && b.bodyType != Dynamic {
		return false
	}
	if a.bodyType == Dynamic && b.bodyType == Dynamic {
		return a.bullet || b.bullet
	}
	return true
}

// childDistanceProxy resolves s's childIndex'th shape (peeling Chain/Multi
// the same way narrow-phase dispatch does) down to the DistanceProxy GJK
// and the TOI bisection both operate on.
func childDistanceProxy(s shape.Shape, childIndex int) shape.DistanceProxy {
	resolved, _ := resolveChild(s, childIndex)
	return resolved.Child(0)
}

// computeTOI runs §4.9's bisection for one contact over the unconsumed
// portion of the step, relative to whichever of its two bodies has
// already been advanced furthest by an earlier sub-step this Step.
func (w *World) computeTOI(c *Contact, conf StepConf) (float32, bool) {
	bodyA, bodyB := c.fixtureA.body, c.fixtureB.body
	if !toiEligible(bodyA, bodyB) {
		return 0, false
	}
	if !bodyA.awake && !bodyB.awake {
		return 0, false
	}
	if !c.enabled || c.fixtureA.isSensor || c.fixtureB.isSensor {
		return 0, false
	}

	alpha0 := math2.Max(bodyA.sweep.Alpha0, bodyB.sweep.Alpha0)
	sweepA, sweepB := bodyA.sweep, bodyB.sweep
	sweepA.Alpha0 = alpha0
	sweepB.Alpha0 = alpha0

	input := toi.Input{
		ProxyA: childDistanceProxy(c.fixtureA.shape, c.childA),
		ProxyB: childDistanceProxy(c.fixtureB.shape, c.childB),
		SweepA: sweepA,
		SweepB: sweepB,
		TMax:   1,
	}
	target := math2.Max(conf.LinearSlop, c.radiusA()+c.radiusB()-3*conf.LinearSlop)
	tolerance := 0.25 * conf.LinearSlop

	output := toi.TimeOfImpact(&input, target, tolerance)
	if output.State != toi.StateTouching || output.T >= 1 {
		return 0, false
	}
	return output.T, true
}

// findMinTOI scans every contact for the earliest time of impact this
// step still has to offer, memoizing each contact's result (toiComputed)
// so later sub-steps in the same Step don't repeat a bisection whose
// answer didn't change.
func (w *World) findMinTOI(conf StepConf) (*Contact, float32, bool) {
	var best *Contact
	minAlpha := float32(1)

	for _, c := range w.contacts {
		if !c.toiComputed {
			alpha, ok := w.computeTOI(c, conf)
			c.toiComputed = true
			if ok {
				c.toi = alpha
			} else {
				c.toi = 1
			}
		}
		if c.toi < minAlpha {
			minAlpha = c.toi
			best = c
		}
	}

	if best == nil || minAlpha >= 1 {
		return nil, 0, false
	}
	return best, minAlpha, true
}

// toiIsland is the mini coupled system a single TOI event is resolved
// against: the two bodies of the triggering contact, plus whatever other
// bodies/contacts are reachable through currently-touching contacts,
// advanced to the same alpha before the sub-step solve runs.
type toiIsland struct {
	bodies   []*Body
	contacts []*Contact
}

func (w *World) buildTOIIsland(seedA, seedB *Body, alpha float32) *toiIsland {
	for _, b := range w.bodies {
		b.islanded = false
	}
	for _, c := range w.contacts {
		c.islanded = false
	}

	isl := &toiIsland{bodies: []*Body{seedA, seedB}}
	seedA.islanded = true
	seedB.islanded = true
	stack := []*Body{seedA, seedB}

	for len(stack) > 0 && len(isl.bodies) < maxToiIslandBodies {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.bodyType == Static {
			continue
		}

		for _, cid := range b.contactEdges {
			c, ok := w.contacts[cid]
			if !ok || c.islanded {
				continue
			}
			if !c.enabled || !c.touching || c.fixtureA.isSensor || c.fixtureB.isSensor {
				continue
			}
			other := c.fixtureB.body
			if other == b {
				other = c.fixtureA.body
			}

			c.islanded = true
			isl.contacts = append(isl.contacts, c)

			if !other.islanded {
				if other.bodyType != Static {
					other.sweep.Advance(alpha)
					other.sweep.C, other.sweep.A = other.sweep.C0, other.sweep.A0
					other.synchronizeTransform()
				}
				other.islanded = true
				isl.bodies = append(isl.bodies, other)
				stack = append(stack, other)
			}
		}
	}

	for _, c := range isl.contacts {
		c.update()
	}
	return isl
}

// solveTOIIsland resolves the remaining (1-alpha) fraction of the step
// for one TOI island: up to ToiPositionIterations NGS position passes
// (stopping once the worst separation is above -1.5*LinearSlop) to push
// the triggering pair apart, a velocity solve, and position integration
// over the leftover time, mirroring §4.9's sub-step structure without
// joints (Box2D's own TOI solver excludes them too — the next step's
// regular phase re-settles every joint).
func (w *World) solveTOIIsland(isl *toiIsland, alpha float32, conf StepConf, stats *ToiPhaseStats) {
	h := (1 - alpha) * conf.Dt
	ib := newIslandBodies(isl.bodies)

	var contactInputs []solver.ContactInput
	var indexA, indexB []int
	for _, c := range isl.contacts {
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

	for iter := 0; iter < conf.ToiPositionIterations; iter++ {
		minSep := solver.SolvePositionConstraints(ib.bc, pcs)
		if minSep > -1.5*conf.LinearSlop {
			break
		}
	}

	for iter := 0; iter < conf.ToiVelocityIterations; iter++ {
		solver.SolveVelocityConstraints(ib.bc, vcs)
	}

	for i := range ib.bc {
		bc := &ib.bc[i]
		translation := bc.LinearVelocity.Mul(h)
		rotation := bc.AngularVelocity * h
		if ratio := clampMotionRatio(translation, rotation, conf.MaxTranslation, conf.MaxRotation); ratio < 1 {
			translation = translation.Mul(ratio)
			rotation *= ratio
		}
		bc.Position = bc.Position.Add(translation)
		bc.Angle += rotation
	}

	ib.writeback()
	solver.StoreImpulses(vcs, manifoldsOf(isl.contacts))

	for _, b := range isl.bodies {
		w.synchronizeFixtures(b, math2.Vec2Zero)
	}
}

// toiPhase runs §4.9: repeatedly find the earliest time of impact among
// all contacts, advance the affected bodies' sweeps to it, and sub-step
// solve the small island it touches, until no contact reports a TOI
// inside the remaining step or MaxSubSteps is reached.
func (w *World) toiPhase(conf StepConf, stats *ToiPhaseStats) {
	for _, c := range w.contacts {
		c.toiComputed = false
		c.toiCount = 0
	}

	for sub := 0; sub < conf.MaxSubSteps; sub++ {
		contact, alpha, found := w.findMinTOI(conf)
		if !found {
			break
		}

		bodyA, bodyB := contact.fixtureA.body, contact.fixtureB.body
		backupA, backupB := bodyA.sweep, bodyB.sweep
		bodyA.sweep.Advance(alpha)
		bodyB.sweep.Advance(alpha)
		bodyA.sweep.C, bodyA.sweep.A = bodyA.sweep.C0, bodyA.sweep.A0
		bodyB.sweep.C, bodyB.sweep.A = bodyB.sweep.C0, bodyB.sweep.A0
		bodyA.synchronizeTransform()
		bodyB.synchronizeTransform()

		contact.update()
		if !contact.touching || !contact.enabled {
			contact.toi = 1
			bodyA.sweep, bodyB.sweep = backupA, backupB
			bodyA.synchronizeTransform()
			bodyB.synchronizeTransform()
			continue
		}

		contact.toiCount++
		if contact.toiCount > conf.MaxSubSteps {
			stats.ContactsAtCap++
			contact.toi = 1
			continue
		}

		stats.SubSteps++
		if stats.SubSteps == 1 || alpha < stats.MinToi {
			stats.MinToi = alpha
		}

		isl := w.buildTOIIsland(bodyA, bodyB, alpha)
		w.solveTOIIsland(isl, alpha, conf, stats)

		// Every contact incident to a body this island just moved needs
		// its TOI answer recomputed; everything else is still valid.
		for _, b := range isl.bodies {
			for _, cid := range b.contactEdges {
				if c, ok := w.contacts[cid]; ok {
					c.toiComputed = false
				}
			}
		}
	}
}
