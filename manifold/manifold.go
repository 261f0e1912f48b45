// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifold implements the narrow-phase contact manifold
// generators, one function per shape-kind pair, plus the WorldManifold
// and EdgeInfo helpers original_source supplements the distilled spec
// with.
package manifold

import "github.com/forgephys/forge2d/math2"

// ContactFeatureKind discriminates which part of each shape produced a
// manifold point, so the solver can match this step's impulses against
// last step's for warm-starting even as the manifold's point order
// shuffles between frames.
type ContactFeatureKind int

const (
	FeatureVertex ContactFeatureKind = iota
	FeatureFace
)

// ContactFeature names the vertex/face indices on each shape that
// produced a manifold point. Two points are "the same contact point"
// across frames iff their ContactFeature values are equal.
type ContactFeature struct {
	IndexA, IndexB int
	TypeA, TypeB   ContactFeatureKind
}

// Flip swaps A and B, used when a generator is called with its shapes in
// the opposite of their canonical order (e.g. CollidePolygonAndCircle
// always expects the polygon first).
func (cf ContactFeature) Flip() ContactFeature {
	return ContactFeature{IndexA: cf.IndexB, IndexB: cf.IndexA, TypeA: cf.TypeB, TypeB: cf.TypeA}
}

// Kind discriminates a Manifold's geometry so WorldManifold and the
// solver know how to interpret LocalPoint/LocalNormal.
type Kind int

const (
	KindCircles Kind = iota
	KindFaceA
	KindFaceB
)

// Point is one contact point in the local frame of the shape opposite the
// reference (B for KindCircles and KindFaceA, A for KindFaceB), with
// its accumulated normal/tangent impulse carried across steps for warm
// starting and its originating ContactFeature for matching points across
// frames.
type Point struct {
	LocalPoint     math2.Vec2
	NormalImpulse  float32
	TangentImpulse float32
	ID             ContactFeature
}

// Manifold is the narrow-phase generators' output: up to two contact
// points sharing one local-frame normal/reference point, all in body-local
// frames (the normal and reference point in the reference shape's, each
// point in the other shape's) so it survives being cached across a step
// where both bodies may have moved.
type Manifold struct {
	Kind        Kind
	LocalNormal math2.Vec2
	LocalPoint  math2.Vec2
	Points      [2]Point
	PointCount  int
}

// WorldManifold is the position-solver-manifold helper from
// PositionSolverManifold.cpp/WorldManifold.cpp: it turns a local-frame
// Manifold plus the two shapes' current transforms and vertex radii into
// a world-space normal and, per point, a world position and separation —
// what the position solver and a PostSolve contact listener both need.
type WorldManifold struct {
	Normal     math2.Vec2
	Points     [2]math2.Vec2
	Separations [2]float32
}

// NewWorldManifold computes the world manifold for m given the two
// shapes' transforms and vertex (skin) radii.
func NewWorldManifold(m *Manifold, xfA, xfB math2.Transform, radiusA, radiusB float32) WorldManifold {
	var wm WorldManifold
	if m.PointCount == 0 {
		return wm
	}

	switch m.Kind {
	case KindCircles:
		pointA := xfA.ToWorld(m.LocalPoint)
		pointB := xfB.ToWorld(m.Points[0].LocalPoint)
		normal, _, ok := pointB.Sub(pointA).Normalize()
		if !ok {
			normal = math2.UnitVec2Right
		}
		wm.Normal = normal.Vec2()
		cA := pointA.Add(normal.Vec2().Mul(radiusA))
		cB := pointB.Sub(normal.Vec2().Mul(radiusB))
		wm.Points[0] = cA.Add(cB).Mul(0.5)
		wm.Separations[0] = cB.Sub(cA).Dot(normal.Vec2())

	case KindFaceA:
		normal, _, ok := xfA.ToWorldVec(m.LocalNormal).Normalize()
		if !ok {
			normal = math2.UnitVec2Right
		}
		wm.Normal = normal.Vec2()
		planePoint := xfA.ToWorld(m.LocalPoint)
		for i := 0; i < m.PointCount; i++ {
			clipPoint := xfB.ToWorld(m.Points[i].LocalPoint)
			cA := clipPoint.Add(normal.Vec2().Mul(radiusA - clipPoint.Sub(planePoint).Dot(normal.Vec2())))
			cB := clipPoint.Sub(normal.Vec2().Mul(radiusB))
			wm.Points[i] = cA.Add(cB).Mul(0.5)
			wm.Separations[i] = cB.Sub(cA).Dot(normal.Vec2())
		}

	case KindFaceB:
		normal, _, ok := xfB.ToWorldVec(m.LocalNormal).Normalize()
		if !ok {
			normal = math2.UnitVec2Right
		}
		wm.Normal = normal.Vec2()
		planePoint := xfB.ToWorld(m.LocalPoint)
		for i := 0; i < m.PointCount; i++ {
			clipPoint := xfA.ToWorld(m.Points[i].LocalPoint)
			cB := clipPoint.Add(normal.Vec2().Mul(radiusB - clipPoint.Sub(planePoint).Dot(normal.Vec2())))
			cA := clipPoint.Sub(normal.Vec2().Mul(radiusA))
			wm.Points[i] = cA.Add(cB).Mul(0.5)
			wm.Separations[i] = cA.Sub(cB).Dot(normal.Vec2())
		}
		// WorldManifold.Normal conventionally points from A to B regardless
		// of which shape is the reference face; flip it back for faceB.
		wm.Normal = wm.Normal.Neg()
	}

	return wm
}
