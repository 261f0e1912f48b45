// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package toi implements continuous collision detection: given two
// shapes' sweeps over a time step, find the first time in [0,1] at which
// their separation drops to the requested target, using repeated GJK
// distance queries (package distance) bracketed by bisection on the
// per-axis separation function.
package toi

import (
	"github.com/forgephys/forge2d/distance"
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

// State classifies how a TimeOfImpact query terminated.
type State int

const (
	StateUnknown State = iota
	StateFailed
	StateOverlapped
	StateTouching
	StateSeparated
)

// MaxIterations bounds the outer time-advancing loop.
const MaxIterations = 20

// MaxRootIterations bounds the inner bisection root-find per outer
// iteration.
const MaxRootIterations = 50

// Input describes a TOI query between two shape proxies, each following
// its own Sweep over the step. The target separation and bracketing
// tolerance are passed to TimeOfImpact separately.
type Input struct {
	ProxyA, ProxyB shape.DistanceProxy
	SweepA, SweepB math2.Sweep
	TMax           float32 // upper end of the searched interval [0, TMax]
}

// Output is the result of a TimeOfImpact query.
type Output struct {
	State State
	T     float32
}

// separationFunction evaluates, at a given interpolation fraction t, the
// separation along a fixed witness axis derived from the simplex GJK
// found at t=0 — the standard "conservative advancement" trick that lets
// TimeOfImpact avoid a full GJK call at every candidate t.
type separationFunction struct {
	proxyA, proxyB   *shape.DistanceProxy
	sweepA, sweepB   math2.Sweep
	localPoint       math2.Vec2
	axis             math2.Vec2
	kind             int // 0: points, 1: faceA, 2: faceB
}

func makeSeparationFunction(cache *distance.Cache, proxyA, proxyB *shape.DistanceProxy, sweepA, sweepB math2.Sweep, t1 float32) separationFunction {
	xfA := sweepA.GetTransform(t1)
	xfB := sweepB.GetTransform(t1)

	sf := separationFunction{proxyA: proxyA, proxyB: proxyB, sweepA: sweepA, sweepB: sweepB}

	count := cache.Count
	if count == 1 {
		sf.kind = 0
		localA := proxyA.Vertex(cache.IndexA[0])
		localB := proxyB.Vertex(cache.IndexB[0])
		pointA := xfA.ToWorld(localA)
		pointB := xfB.ToWorld(localB)
		axis, _, ok := pointB.Sub(pointA).Normalize()
		if !ok {
			axis = math2.UnitVec2Right
		}
		sf.axis = axis.Vec2()
		return sf
	}

	if cache.IndexA[0] == cache.IndexA[1] {
		sf.kind = 2
		localB1 := proxyB.Vertex(cache.IndexB[0])
		localB2 := proxyB.Vertex(cache.IndexB[1])
		sf.axis = localB2.Sub(localB1).Perp()
		axis, _, ok := sf.axis.Normalize()
		if ok {
			sf.axis = axis.Vec2()
		}
		sf.localPoint = localB1.Add(localB2).Mul(0.5)
		if sf.evaluate(t1) < 0 {
			sf.axis = sf.axis.Neg()
		}
		return sf
	}

	sf.kind = 1
	localA1 := proxyA.Vertex(cache.IndexA[0])
	localA2 := proxyA.Vertex(cache.IndexA[1])
	sf.axis = localA2.Sub(localA1).Perp()
	axis, _, ok := sf.axis.Normalize()
	if ok {
		sf.axis = axis.Vec2()
	}
	sf.localPoint = localA1.Add(localA2).Mul(0.5)
	if sf.evaluate(t1) < 0 {
		sf.axis = sf.axis.Neg()
	}
	return sf
}

func (sf *separationFunction) evaluate(t float32) float32 {
	xfA := sf.sweepA.GetTransform(t)
	xfB := sf.sweepB.GetTransform(t)

	switch sf.kind {
	case 1: // faceA
		normal := xfA.ToWorldVec(sf.axis)
		pointA := xfA.ToWorld(sf.localPoint)
		support := sf.proxyB.Support(normal.Neg().InverseRotate(xfB.Q))
		pointB := xfB.ToWorld(sf.proxyB.Vertex(support))
		return pointB.Sub(pointA).Dot(normal)
	case 2: // faceB
		normal := xfB.ToWorldVec(sf.axis)
		pointB := xfB.ToWorld(sf.localPoint)
		support := sf.proxyA.Support(normal.Neg().InverseRotate(xfA.Q))
		pointA := xfA.ToWorld(sf.proxyA.Vertex(support))
		return pointA.Sub(pointB).Dot(normal)
	default: // points
		normal := sf.axis
		localA := sf.proxyA.Vertex(sf.proxyA.Support(normal.Neg().InverseRotate(xfA.Q)))
		localB := sf.proxyB.Vertex(sf.proxyB.Support(normal.InverseRotate(xfB.Q)))
		pointA := xfA.ToWorld(localA)
		pointB := xfB.ToWorld(localB)
		return pointB.Sub(pointA).Dot(normal)
	}
}

// TimeOfImpact finds the earliest t in [0, input.TMax] at which the two
// swept proxies come within target (+/- tolerance) of each other,
// alternating a GJK distance query (to bracket a candidate interval) with
// bisection root-finding on the separation function inside that bracket.
func TimeOfImpact(input *Input, target, tolerance float32) Output {
	t1 := input.SweepA.Alpha0
	cache := &distance.Cache{}

	for iter := 0; iter < MaxIterations; iter++ {
		xfA := input.SweepA.GetTransform(t1)
		xfB := input.SweepB.GetTransform(t1)

		dOut := distance.Distance(cache, &distance.Input{
			ProxyA: input.ProxyA, ProxyB: input.ProxyB,
			TransformA: xfA, TransformB: xfB,
		})

		if dOut.Distance <= 0 {
			return Output{State: StateOverlapped, T: t1}
		}
		if dOut.Distance < target+tolerance {
			return Output{State: StateTouching, T: t1}
		}

		sf := makeSeparationFunction(cache, &input.ProxyA, &input.ProxyB, input.SweepA, input.SweepB, t1)

		done := false
		t2 := input.TMax
		for rootIter := 0; rootIter < MaxRootIterations; rootIter++ {
			s2 := sf.evaluate(t2)
			if s2 > target+tolerance {
				return Output{State: StateSeparated, T: input.TMax}
			}
			if s2 > target-tolerance {
				t1 = t2
				break
			}

			s1 := sf.evaluate(t1)
			if s1 < target-tolerance {
				return Output{State: StateFailed, T: t1}
			}
			if s1 <= target+tolerance {
				done = true
				t1 = t1
				break
			}

			a1, a2 := t1, t2
			for i := 0; i < MaxRootIterations; i++ {
				mid := 0.5 * (a1 + a2)
				sMid := sf.evaluate(mid)
				if math2.Abs(sMid-target) < tolerance {
					t2 = mid
					break
				}
				if sMid > target {
					a1 = mid
					s1 = sMid
				} else {
					a2 = mid
					s2 = sMid
				}
				t2 = mid
			}
			t1 = t2
			break
		}

		if done {
			break
		}
		if t1 >= input.TMax {
			return Output{State: StateSeparated, T: input.TMax}
		}
	}

	return Output{State: StateTouching, T: t1}
}
