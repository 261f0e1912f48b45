// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package distance implements the GJK closest-point algorithm between two
// convex DistanceProxy clouds, with a warm-startable simplex cache so
// repeated queries between the same pair of fixtures (every broad-phase
// pair, every frame) converge in one or two iterations instead of
// rebuilding the simplex from scratch.
package distance

import (
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

// MaxIterations bounds GJK's main loop; a correctly terminating GJK query
// converges in well under this many iterations for any convex pair, so
// hitting the cap is itself a (silently tolerated) degeneracy signal.
const MaxIterations = 20

// SimplexVertex is one vertex of the working simplex: the Minkowski
// difference point wA-wB plus the indices into each proxy it came from,
// so a cache can be replayed without re-running Support.
type SimplexVertex struct {
	WA, WB math2.Vec2
	W      math2.Vec2
	A      float32 // barycentric coordinate for this vertex
	IndexA, IndexB int
}

// Simplex is 1, 2 or 3 SimplexVertex values; solve2/solve3
// reduce it in place as GJK narrows in on the closest feature.
type Simplex struct {
	V     [3]SimplexVertex
	Count int
}

// Cache persists a Simplex's vertex indices between successive Distance
// calls for the same fixture pair, letting GJK start from last step's
// answer instead of an arbitrary vertex — the single biggest performance
// lever in a broad-phase that reuses the same pairs frame after frame.
type Cache struct {
	Count   int
	IndexA  [3]int
	IndexB  [3]int
	Metric  float32
}

// Input is one GJK query: the two proxies and the rigid transforms
// placing them in a common frame.
type Input struct {
	ProxyA, ProxyB shape.DistanceProxy
	TransformA, TransformB math2.Transform
	UseRadii bool
}

// Output is the result of a GJK query: the closest points on each shape
// (in world space, ignoring vertex radii unless UseRadii asked for them
// to be subtracted), the distance between them, and how many iterations
// it took.
type Output struct {
	PointA, PointB math2.Vec2
	Distance       float32
	Iterations     int
}

func readVertex(cache *Cache, proxyA, proxyB *shape.DistanceProxy, xfA, xfB math2.Transform, i int) SimplexVertex {
	ia, ib := cache.IndexA[i], cache.IndexB[i]
	wa := xfA.ToWorld(proxyA.Vertex(ia))
	wb := xfB.ToWorld(proxyB.Vertex(ib))
	return SimplexVertex{WA: wa, WB: wb, W: wb.Sub(wa), IndexA: ia, IndexB: ib}
}

func readSimplex(cache *Cache, proxyA, proxyB *shape.DistanceProxy, xfA, xfB math2.Transform) Simplex {
	var s Simplex
	s.Count = cache.Count
	for i := 0; i < s.Count; i++ {
		s.V[i] = readVertex(cache, proxyA, proxyB, xfA, xfB, i)
	}
	if s.Count == 0 {
		s.Count = 1
		s.V[0] = SimplexVertex{
			WA: xfA.ToWorld(proxyA.Vertex(0)),
			WB: xfB.ToWorld(proxyB.Vertex(0)),
		}
		s.V[0].W = s.V[0].WB.Sub(s.V[0].WA)
		s.V[0].A = 1
	}
	return s
}

func writeCache(cache *Cache, s *Simplex) {
	cache.Count = s.Count
	for i := 0; i < s.Count; i++ {
		cache.IndexA[i] = s.V[i].IndexA
		cache.IndexB[i] = s.V[i].IndexB
	}
}

func (s *Simplex) searchDirection() math2.Vec2 {
	switch s.Count {
	case 1:
		return s.V[0].W.Neg()
	case 2:
		e := s.V[1].W.Sub(s.V[0].W)
		sgn := e.Cross(s.V[0].W.Neg())
		if sgn > 0 {
			return e.Perp()
		}
		return e.RightPerp()
	default:
		return math2.Vec2Zero
	}
}

func (s *Simplex) closestPoint() math2.Vec2 {
	switch s.Count {
	case 1:
		return s.V[0].W
	case 2:
		return s.V[0].W.Mul(s.V[0].A).Add(s.V[1].W.Mul(s.V[1].A))
	default:
		return math2.Vec2Zero
	}
}

func (s *Simplex) witnessPoints() (a, b math2.Vec2) {
	switch s.Count {
	case 1:
		return s.V[0].WA, s.V[0].WB
	case 2:
		a = s.V[0].WA.Mul(s.V[0].A).Add(s.V[1].WA.Mul(s.V[1].A))
		b = s.V[0].WB.Mul(s.V[0].A).Add(s.V[1].WB.Mul(s.V[1].A))
		return a, b
	default:
		a = s.V[0].WA.Mul(s.V[0].A).Add(s.V[1].WA.Mul(s.V[1].A)).Add(s.V[2].WA.Mul(s.V[2].A))
		return a, a
	}
}

// solve2 reduces a 2-simplex to the region of the segment V0-V1 closest
// to the origin, updating barycentric coordinates (and possibly dropping
// to a 1-simplex) in place.
func (s *Simplex) solve2() {
	w1, w2 := s.V[0].W, s.V[1].W
	e12 := w2.Sub(w1)

	d12_2 := -w1.Dot(e12)
	if d12_2 <= 0 {
		s.V[0].A = 1
		s.Count = 1
		return
	}

	d12_1 := w2.Dot(e12)
	if d12_1 <= 0 {
		s.V[0] = s.V[1]
		s.V[0].A = 1
		s.Count = 1
		return
	}

	inv := 1 / (d12_1 + d12_2)
	s.V[0].A = d12_1 * inv
	s.V[1].A = d12_2 * inv
	s.Count = 2
}

// solve3 reduces a 3-simplex (only reached once GJK brackets the origin,
// meaning the shapes overlap) to the sub-simplex closest to the origin.
func (s *Simplex) solve3() {
	w1, w2, w3 := s.V[0].W, s.V[1].W, s.V[2].W

	e12 := w2.Sub(w1)
	w1e12 := w1.Dot(e12)
	w2e12 := w2.Dot(e12)
	d12_1 := w2e12
	d12_2 := -w1e12

	e13 := w3.Sub(w1)
	w1e13 := w1.Dot(e13)
	w3e13 := w3.Dot(e13)
	d13_1 := w3e13
	d13_2 := -w1e13

	e23 := w3.Sub(w2)
	w2e23 := w2.Dot(e23)
	w3e23 := w3.Dot(e23)
	d23_1 := w3e23
	d23_2 := -w2e23

	n123 := e12.Cross(e13)
	d123_1 := n123 * w2.Cross(w3)
	d123_2 := n123 * w3.Cross(w1)
	d123_3 := n123 * w1.Cross(w2)

	if d12_2 <= 0 && d13_2 <= 0 {
		s.V[0].A = 1
		s.Count = 1
		return
	}
	if d12_1 > 0 && d12_2 > 0 && d123_3 <= 0 {
		inv := 1 / (d12_1 + d12_2)
		s.V[0].A = d12_1 * inv
		s.V[1].A = d12_2 * inv
		s.Count = 2
		return
	}
	if d13_1 > 0 && d13_2 > 0 && d123_2 <= 0 {
		inv := 1 / (d13_1 + d13_2)
		s.V[0].A = d13_1 * inv
		s.V[2].A = d13_2 * inv
		s.V[1] = s.V[2]
		s.Count = 2
		return
	}
	if d12_1 <= 0 && d23_2 <= 0 {
		s.V[1].A = 1
		s.V[0] = s.V[1]
		s.Count = 1
		return
	}
	if d13_1 <= 0 && d23_1 <= 0 {
		s.V[2].A = 1
		s.V[0] = s.V[2]
		s.Count = 1
		return
	}
	if d23_1 > 0 && d23_2 > 0 && d123_1 <= 0 {
		inv := 1 / (d23_1 + d23_2)
		s.V[1].A = d23_1 * inv
		s.V[2].A = d23_2 * inv
		s.V[0] = s.V[2]
		s.Count = 2
		return
	}

	inv := 1 / (d123_1 + d123_2 + d123_3)
	s.V[0].A = d123_1 * inv
	s.V[1].A = d123_2 * inv
	s.V[2].A = d123_3 * inv
	s.Count = 3
}

// Distance runs GJK between two proxies placed by transformA/transformB,
// starting from (and updating) cache so repeated queries for the same
// pair converge fast, and returns the closest points/separation between
// them.
func Distance(cache *Cache, input *Input) Output {
	proxyA, proxyB := &input.ProxyA, &input.ProxyB
	xfA, xfB := input.TransformA, input.TransformB

	simplex := readSimplex(cache, proxyA, proxyB, xfA, xfB)

	saveA := [3]int{}
	saveB := [3]int{}
	iter := 0
	for ; iter < MaxIterations; iter++ {
		saveCount := simplex.Count
		for i := 0; i < saveCount; i++ {
			saveA[i] = simplex.V[i].IndexA
			saveB[i] = simplex.V[i].IndexB
		}

		switch simplex.Count {
		case 1:
		case 2:
			simplex.solve2()
		case 3:
			simplex.solve3()
		}

		if simplex.Count == 3 {
			break
		}

		d := simplex.searchDirection()
		if d.LengthSquared() < math2.Epsilon*math2.Epsilon {
			break
		}

		indexA := proxyA.Support(d.Neg().InverseRotate(asUnit(xfA)))
		indexB := proxyB.Support(d.InverseRotate(asUnit(xfB)))

		wa := xfA.ToWorld(proxyA.Vertex(indexA))
		wb := xfB.ToWorld(proxyB.Vertex(indexB))
		vertex := SimplexVertex{WA: wa, WB: wb, W: wb.Sub(wa), IndexA: indexA, IndexB: indexB}

		duplicate := false
		for i := 0; i < saveCount; i++ {
			if saveA[i] == indexA && saveB[i] == indexB {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}

		simplex.V[simplex.Count] = vertex
		simplex.Count++
	}

	pointA, pointB := simplex.witnessPoints()
	distance := pointA.Distance(pointB)

	writeCache(cache, &simplex)

	if input.UseRadii {
		rA, rB := proxyA.Radius, proxyB.Radius
		if distance > rA+rB && distance > math2.Epsilon {
			normal, _, ok := pointB.Sub(pointA).Normalize()
			if ok {
				pointA = pointA.Add(normal.Vec2().Mul(rA))
				pointB = pointB.Sub(normal.Vec2().Mul(rB))
			}
			distance -= rA + rB
		} else {
			mid := pointA.Add(pointB).Mul(0.5)
			pointA, pointB = mid, mid
			distance = 0
		}
	}

	return Output{PointA: pointA, PointB: pointB, Distance: distance, Iterations: iter + 1}
}

func asUnit(xf math2.Transform) math2.UnitVec2 { return xf.Q }
