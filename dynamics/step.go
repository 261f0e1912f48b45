// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dynamics

import (
	"github.com/google/uuid"

	"github.com/forgephys/forge2d/math2"
)

// Step advances the simulation by conf.Dt: it resynchronizes broad-phase
// proxies and contact manifolds, solves every island's constraints, runs
// continuous-collision sub-stepping if enabled, and finally syncs moved
// bodies' proxies back into the broad-phase. World is locked for the
// duration so a listener callback cannot mutate it out from under the
// solve.
func (w *World) Step(conf StepConf) StepStats {
	stats := StepStats{StepID: uuid.New()}
	stats.Regular.MinSeparation = math2.Infinity

	w.locked = true
	w.prePhase(conf, &stats.Pre)

	for _, isl := range w.buildIslands() {
		w.solveIsland(isl, conf, &stats.Regular)
	}

	if conf.DoToi {
		w.toiPhase(conf, &stats.Toi)
	}

	w.postPhase(conf)
	w.locked = false

	w.prevDt = conf.Dt
	if stats.Toi.SubSteps > 0 || stats.Regular.BodiesSlept > 0 {
		worldLog.Info("step %s: %d islands, %d toi substeps, %d bodies slept", stats.StepID, stats.Regular.IslandsFound, stats.Toi.SubSteps, stats.Regular.BodiesSlept)
	} else {
		worldLog.Debug("step %s: %d islands, %d contacts updated", stats.StepID, stats.Regular.IslandsFound, stats.Pre.ContactsUpdated)
	}
	return stats
}

// bodiesMayCollide reports false if a and b are joined by a joint built
// with collideConnected false.
func (w *World) bodiesMayCollide(a, b *Body) bool {
	for _, jid := range a.jointEdges {
		rec, ok := w.joints[jid]
		if !ok || rec.collideConnected {
			continue
		}
		if (rec.bodyA == a.id && rec.bodyB == b.id) || (rec.bodyA == b.id && rec.bodyB == a.id) {
			return false
		}
	}
	return true
}

// synchronizeFixtures recomputes every one of b's fixture proxies' tight
// AABBs from its current transform and tells the broad-phase about any
// that moved, fattening in the direction of displacement so a fast body
// is less likely to tunnel out of its own fat bound before the next sync.
func (w *World) synchronizeFixtures(b *Body, displacement math2.Vec2) {
	for _, fid := range b.fixtures {
		f := w.fixtures[fid]
		for i := range f.proxies {
			aabb := f.shape.ComputeAABB(b.xf, f.proxies[i].childIndex)
			f.proxies[i].aabb = aabb
			w.broadPhase.MoveProxy(f.proxies[i].proxyID, aabb, displacement)
		}
	}
}

// prePhase resynchronizes any body moved directly via SetTransform,
// drops contacts whose proxies have separated or whose filter now
// rejects the pair, creates contacts for newly overlapping proxy pairs,
// and finally regenerates every surviving contact's manifold, firing
// Begin/EndContact and PreSolve along the way, per spec.md §4.6.
func (w *World) prePhase(conf StepConf, stats *PrePhaseStats) {
	for bid := range w.proxySyncQueue {
		b, ok := w.bodies[bid]
		if !ok {
			continue
		}
		w.synchronizeFixtures(b, math2.Vec2Zero)
		stats.ProxiesSynced++
	}
	for bid := range w.proxySyncQueue {
		delete(w.proxySyncQueue, bid)
	}

	for cid, c := range w.contacts {
		if c.filterDirty {
			c.filterDirty = false
			if !ShouldCollide(c.fixtureA.filter, c.fixtureB.filter) {
				w.destroyContact(cid)
				stats.ContactsDestroyed++
				continue
			}
		}
		if !w.broadPhase.TestOverlap(c.fixtureA.proxyID(c.childA), c.fixtureB.proxyID(c.childB)) {
			w.destroyContact(cid)
			stats.ContactsDestroyed++
		}
	}

	for _, pair := range w.broadPhase.UpdatePairs() {
		refA, okA := w.proxies[pair.ProxyIdA]
		refB, okB := w.proxies[pair.ProxyIdB]
		if !okA || !okB {
			continue
		}
		stats.PairsFound++

		fa := w.fixtures[refA.fixture]
		fb := w.fixtures[refB.fixture]
		if fa.body == fb.body || !w.bodiesMayCollide(fa.body, fb.body) {
			continue
		}
		if !ShouldCollide(fa.filter, fb.filter) {
			continue
		}

		id := makeContactID(fa.id, refA.childIndex, fb.id, refB.childIndex)
		if _, exists := w.contacts[id]; exists {
			continue
		}

		var c *Contact
		if fa.id < fb.id || (fa.id == fb.id && refA.childIndex <= refB.childIndex) {
			c = newContact(fa, refA.childIndex, fb, refB.childIndex)
		} else {
			c = newContact(fb, refB.childIndex, fa, refA.childIndex)
		}
		w.contacts[c.id] = c
		fa.body.addContactEdge(c.id)
		fb.body.addContactEdge(c.id)
		stats.ContactsCreated++
	}

	for _, c := range w.contacts {
		bodyA, bodyB := c.fixtureA.body, c.fixtureB.body
		if !bodyA.awake && !bodyB.awake {
			continue
		}
		if bodyA.bodyType != Dynamic && bodyB.bodyType != Dynamic {
			continue
		}

		becameTouching, stoppedTouching := c.update()
		stats.ContactsUpdated++
		if w.contactListener == nil {
			continue
		}
		if becameTouching {
			w.contactListener.BeginContact(c)
		}
		if stoppedTouching {
			w.contactListener.EndContact(c)
		}
		if c.touching {
			w.contactListener.PreSolve(c, &c.prevManifold)
		}
	}
}

// postPhase resynchronizes every moved body's proxies against the
// broad-phase, advances each sweep's reference point to the end of the
// step, and clears accumulated forces when StepConf asks for it.
func (w *World) postPhase(conf StepConf) {
	for _, b := range w.bodies {
		if !b.enabled || b.bodyType == Static {
			continue
		}
		displacement := b.sweep.C.Sub(b.sweep.C0)
		w.synchronizeFixtures(b, displacement)

		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A
		b.sweep.Alpha0 = 0

		if conf.AutoClearForces {
			b.force = math2.Vec2Zero
			b.torque = 0
		}
	}
}
