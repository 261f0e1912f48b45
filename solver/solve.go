// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"github.com/forgephys/forge2d/manifold"
	"github.com/forgephys/forge2d/math2"
)

// ContactInput bundles what InitVelocityConstraints needs from one
// contact that it can't get from the two BodyConstraints alone: the
// narrow-phase manifold (already computed this step) and the two
// shapes' vertex radii.
type ContactInput struct {
	Manifold         *manifold.Manifold
	RadiusA, RadiusB float32
	Friction         float32
	Restitution      float32
	TangentSpeed     float32
}

// InitVelocityConstraints builds one VelocityConstraint and one
// PositionConstraint per touching contact from its manifold, computing
// each point's relative-position arms and effective masses once up
// front so every velocity iteration after this is pure arithmetic.
func InitVelocityConstraints(bodies []BodyConstraint, contacts []ContactInput, indexA, indexB []int) ([]VelocityConstraint, []PositionConstraint) {
	n := len(contacts)
	vcs := make([]VelocityConstraint, n)
	pcs := make([]PositionConstraint, n)

	for i, c := range contacts {
		bA := &bodies[indexA[i]]
		bB := &bodies[indexB[i]]
		m := c.Manifold

		xfA := math2.Transform{P: bA.Position.Sub(bA.LocalCenter.Rotate(math2.NewUnitVec2FromAngle(bA.Angle))), Q: math2.NewUnitVec2FromAngle(bA.Angle)}
		xfB := math2.Transform{P: bB.Position.Sub(bB.LocalCenter.Rotate(math2.NewUnitVec2FromAngle(bB.Angle))), Q: math2.NewUnitVec2FromAngle(bB.Angle)}

		wm := manifold.NewWorldManifold(m, xfA, xfB, c.RadiusA, c.RadiusB)

		vc := VelocityConstraint{
			IndexA: indexA[i], IndexB: indexB[i],
			Normal:       wm.Normal,
			Friction:     c.Friction,
			Restitution:  c.Restitution,
			TangentSpeed: c.TangentSpeed,
			PointCount:   m.PointCount,
		}
		pc := PositionConstraint{
			IndexA: indexA[i], IndexB: indexB[i],
			LocalNormal: m.LocalNormal, LocalPoint: m.LocalPoint,
			LocalCenterA: bA.LocalCenter, LocalCenterB: bB.LocalCenter,
			Kind: m.Kind, RadiusA: c.RadiusA, RadiusB: c.RadiusB,
			PointCount: m.PointCount,
		}

		tangent := vc.Normal.RightPerp()

		for j := 0; j < m.PointCount; j++ {
			pc.LocalPoints[j] = m.Points[j].LocalPoint

			rA := wm.Points[j].Sub(bA.Position)
			rB := wm.Points[j].Sub(bB.Position)
			vc.Points[j].RA = rA
			vc.Points[j].RB = rB

			rnA := rA.Cross(vc.Normal)
			rnB := rB.Cross(vc.Normal)
			kNormal := bA.InvMass + bB.InvMass + bA.InvRotInertia*rnA*rnA + bB.InvRotInertia*rnB*rnB
			if kNormal > 0 {
				vc.Points[j].NormalMass = 1 / kNormal
			}

			rtA := rA.Cross(tangent)
			rtB := rB.Cross(tangent)
			kTangent := bA.InvMass + bB.InvMass + bA.InvRotInertia*rtA*rtA + bB.InvRotInertia*rtB*rtB
			if kTangent > 0 {
				vc.Points[j].TangentMass = 1 / kTangent
			}

			relVel := bB.LinearVelocity.Add(rB.CrossScalar(bB.AngularVelocity)).
				Sub(bA.LinearVelocity).Sub(rA.CrossScalar(bA.AngularVelocity))
			vn := relVel.Dot(vc.Normal)
			if vn < -velocityThreshold {
				vc.Points[j].VelocityBias = -vc.Restitution * vn
			}
		}

		if m.PointCount == 2 {
			rA1, rB1 := vc.Points[0].RA, vc.Points[0].RB
			rA2, rB2 := vc.Points[1].RA, vc.Points[1].RB
			rn1A, rn1B := rA1.Cross(vc.Normal), rB1.Cross(vc.Normal)
			rn2A, rn2B := rA2.Cross(vc.Normal), rB2.Cross(vc.Normal)
			k11 := bA.InvMass + bB.InvMass + bA.InvRotInertia*rn1A*rn1A + bB.InvRotInertia*rn1B*rn1B
			k22 := bA.InvMass + bB.InvMass + bA.InvRotInertia*rn2A*rn2A + bB.InvRotInertia*rn2B*rn2B
			k12 := bA.InvMass + bB.InvMass + bA.InvRotInertia*rn1A*rn2A + bB.InvRotInertia*rn1B*rn2B

			const maxConditionNumber = 1000.0
			if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
				vc.NormalMass = math2.NewMat22(k11, k12, k12, k22)
			}
		}

		vcs[i] = vc
		pcs[i] = pc
	}

	return vcs, pcs
}

// WarmStart reapplies each point's impulse accumulator from the previous
// step (seeded from the matched-by-ContactFeature values when
// InitVelocityConstraints' caller carried them over) so the solver starts
// from last step's answer instead of zero.
func WarmStart(bodies []BodyConstraint, vcs []VelocityConstraint) {
	for i := range vcs {
		vc := &vcs[i]
		bA := &bodies[vc.IndexA]
		bB := &bodies[vc.IndexB]
		tangent := vc.Normal.RightPerp()

		for j := 0; j < vc.PointCount; j++ {
			p := &vc.Points[j]
			impulse := vc.Normal.Mul(p.NormalImpulse).Add(tangent.Mul(p.TangentImpulse))
			bA.LinearVelocity = bA.LinearVelocity.Sub(impulse.Mul(bA.InvMass))
			bA.AngularVelocity -= bA.InvRotInertia * p.RA.Cross(impulse)
			bB.LinearVelocity = bB.LinearVelocity.Add(impulse.Mul(bB.InvMass))
			bB.AngularVelocity += bB.InvRotInertia * p.RB.Cross(impulse)
		}
	}
}

// SolveVelocityConstraints runs one velocity iteration over every
// contact: friction first (capped by last iteration's normal impulse,
// matching the original's sequencing so friction never outpaces the
// normal impulse that licenses it), then normal impulse, block-solved
// for a 2-point manifold when the constraint's NormalMass was set.
func SolveVelocityConstraints(bodies []BodyConstraint, vcs []VelocityConstraint) {
	for i := range vcs {
		vc := &vcs[i]
		bA := &bodies[vc.IndexA]
		bB := &bodies[vc.IndexB]
		normal := vc.Normal
		tangent := normal.RightPerp()

		for j := 0; j < vc.PointCount; j++ {
			p := &vc.Points[j]
			dv := bB.LinearVelocity.Add(p.RB.CrossScalar(bB.AngularVelocity)).
				Sub(bA.LinearVelocity).Sub(p.RA.CrossScalar(bA.AngularVelocity))
			vt := dv.Dot(tangent) - vc.TangentSpeed
			lambda := p.TangentMass * -vt

			maxFriction := vc.Friction * p.NormalImpulse
			newImpulse := math2.Clamp(p.TangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - p.TangentImpulse
			p.TangentImpulse = newImpulse

			impulse := tangent.Mul(lambda)
			bA.LinearVelocity = bA.LinearVelocity.Sub(impulse.Mul(bA.InvMass))
			bA.AngularVelocity -= bA.InvRotInertia * p.RA.Cross(impulse)
			bB.LinearVelocity = bB.LinearVelocity.Add(impulse.Mul(bB.InvMass))
			bB.AngularVelocity += bB.InvRotInertia * p.RB.Cross(impulse)
		}

		if vc.PointCount == 1 || vc.NormalMass == (math2.Mat22{}) {
			for j := 0; j < vc.PointCount; j++ {
				p := &vc.Points[j]
				dv := bB.LinearVelocity.Add(p.RB.CrossScalar(bB.AngularVelocity)).
					Sub(bA.LinearVelocity).Sub(p.RA.CrossScalar(bA.AngularVelocity))
				vn := dv.Dot(normal)
				lambda := -p.NormalMass * (vn - p.VelocityBias)
				newImpulse := math2.Max(p.NormalImpulse+lambda, 0)
				lambda = newImpulse - p.NormalImpulse
				p.NormalImpulse = newImpulse

				impulse := normal.Mul(lambda)
				bA.LinearVelocity = bA.LinearVelocity.Sub(impulse.Mul(bA.InvMass))
				bA.AngularVelocity -= bA.InvRotInertia * p.RA.Cross(impulse)
				bB.LinearVelocity = bB.LinearVelocity.Add(impulse.Mul(bB.InvMass))
				bB.AngularVelocity += bB.InvRotInertia * p.RB.Cross(impulse)
			}
			continue
		}

		solveBlock(bA, bB, vc)
	}
}

// solveBlock resolves a 2-point manifold's normal impulses together by
// solving the 2x2 system once and clamping each accumulated impulse at
// zero, which removes the bias a sequential per-point solve has toward
// whichever point it happens to process first. The cases where only one
// point stays active are not re-solved.
func solveBlock(bA, bB *BodyConstraint, vc *VelocityConstraint) {
	normal := vc.Normal
	p1, p2 := &vc.Points[0], &vc.Points[1]

	a := math2.Vec2{X: p1.NormalImpulse, Y: p2.NormalImpulse}

	dv1 := bB.LinearVelocity.Add(p1.RB.CrossScalar(bB.AngularVelocity)).
		Sub(bA.LinearVelocity).Sub(p1.RA.CrossScalar(bA.AngularVelocity))
	dv2 := bB.LinearVelocity.Add(p2.RB.CrossScalar(bB.AngularVelocity)).
		Sub(bA.LinearVelocity).Sub(p2.RA.CrossScalar(bA.AngularVelocity))

	vn1 := dv1.Dot(normal)
	vn2 := dv2.Dot(normal)

	b := math2.Vec2{X: vn1 - p1.VelocityBias, Y: vn2 - p2.VelocityBias}

	x, ok := vc.NormalMass.Solve(b.Neg())
	if !ok {
		return
	}
	x = x.Add(a).Max(math2.Vec2Zero)

	d := x.Sub(a)
	impulse1 := normal.Mul(d.X)
	impulse2 := normal.Mul(d.Y)

	bA.LinearVelocity = bA.LinearVelocity.Sub(impulse1.Add(impulse2).Mul(bA.InvMass))
	bA.AngularVelocity -= bA.InvRotInertia * (p1.RA.Cross(impulse1) + p2.RA.Cross(impulse2))
	bB.LinearVelocity = bB.LinearVelocity.Add(impulse1.Add(impulse2).Mul(bB.InvMass))
	bB.AngularVelocity += bB.InvRotInertia * (p1.RB.Cross(impulse1) + p2.RB.Cross(impulse2))

	p1.NormalImpulse, p2.NormalImpulse = x.X, x.Y
}

// SolvePositionConstraints runs one NGS position iteration over every
// contact, nudging each body's position/angle directly (not through
// velocity) to reduce penetration, and returns the largest remaining
// penetration found so the caller can stop iterating once it's within
// linearSlop.
func SolvePositionConstraints(bodies []BodyConstraint, pcs []PositionConstraint) float32 {
	minSeparation := float32(0)

	for i := range pcs {
		pc := &pcs[i]
		bA := &bodies[pc.IndexA]
		bB := &bodies[pc.IndexB]

		for j := 0; j < pc.PointCount; j++ {
			qA := math2.NewUnitVec2FromAngle(bA.Angle)
			qB := math2.NewUnitVec2FromAngle(bB.Angle)
			xfA := math2.Transform{P: bA.Position.Sub(pc.LocalCenterA.Rotate(qA)), Q: qA}
			xfB := math2.Transform{P: bB.Position.Sub(pc.LocalCenterB.Rotate(qB)), Q: qB}

			var normal, point math2.Vec2
			var separation float32

			switch pc.Kind {
			case manifold.KindCircles:
				pA := xfA.ToWorld(pc.LocalPoint)
				pB := xfB.ToWorld(pc.LocalPoints[0])
				n, dist, ok := pB.Sub(pA).Normalize()
				if !ok {
					continue
				}
				normal = n.Vec2()
				point = pA.Add(pB).Mul(0.5)
				separation = dist - pc.RadiusA - pc.RadiusB
			case manifold.KindFaceB:
				n, _, ok := xfB.ToWorldVec(pc.LocalNormal).Normalize()
				if !ok {
					continue
				}
				normal = n.Vec2()
				planePoint := xfB.ToWorld(pc.LocalPoint)
				clip := xfA.ToWorld(pc.LocalPoints[j])
				separation = clip.Sub(planePoint).Dot(normal) - pc.RadiusA - pc.RadiusB
				point = clip
				normal = normal.Neg()
			default: // KindFaceA
				n, _, ok := xfA.ToWorldVec(pc.LocalNormal).Normalize()
				if !ok {
					continue
				}
				normal = n.Vec2()
				planePoint := xfA.ToWorld(pc.LocalPoint)
				clip := xfB.ToWorld(pc.LocalPoints[j])
				separation = clip.Sub(planePoint).Dot(normal) - pc.RadiusA - pc.RadiusB
				point = clip
			}

			if separation < minSeparation {
				minSeparation = separation
			}

			rA := point.Sub(bA.Position)
			rB := point.Sub(bB.Position)

			c := math2.Clamp(baumgarte*(separation+linearSlop), -maxLinearCorrection, 0)

			rnA := rA.Cross(normal)
			rnB := rB.Cross(normal)
			k := bA.InvMass + bB.InvMass + bA.InvRotInertia*rnA*rnA + bB.InvRotInertia*rnB*rnB
			var impulseMag float32
			if k > 0 {
				impulseMag = -c / k
			}
			impulse := normal.Mul(impulseMag)

			bA.Position = bA.Position.Sub(impulse.Mul(bA.InvMass))
			bA.Angle -= bA.InvRotInertia * rA.Cross(impulse)
			bB.Position = bB.Position.Add(impulse.Mul(bB.InvMass))
			bB.Angle += bB.InvRotInertia * rB.Cross(impulse)
		}
	}

	return minSeparation
}

// StoreImpulses copies each velocity constraint's final normal/tangent
// impulses back into the manifold points they were derived from, so the
// owning Contact can warm-start next step from them.
func StoreImpulses(vcs []VelocityConstraint, manifolds []*manifold.Manifold) {
	for i, vc := range vcs {
		m := manifolds[i]
		for j := 0; j < vc.PointCount; j++ {
			m.Points[j].NormalImpulse = vc.Points[j].NormalImpulse
			m.Points[j].TangentImpulse = vc.Points[j].TangentImpulse
		}
	}
}
