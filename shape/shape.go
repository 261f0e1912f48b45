// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape implements the concrete collision geometries (circle,
// polygon, edge and chain) and the primitives the rest of the engine
// builds on: each shape's GJK distance proxy, mass properties, AABB and
// per-shape ray cast.
package shape

import (
	"github.com/forgephys/forge2d/collision"
	"github.com/forgephys/forge2d/math2"
)

// Kind discriminates the concrete shape behind the Shape interface so
// narrow-phase manifold generation can dispatch on a closed set of pairs
// without a type switch at every call site.
type Kind int

const (
	KindCircle Kind = iota
	KindEdge
	KindPolygon
	KindChain
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindEdge:
		return "edge"
	case KindPolygon:
		return "polygon"
	case KindChain:
		return "chain"
	default:
		return "unknown"
	}
}

// MassData holds the mass, center of mass and rotational inertia (about
// the local origin, not the center of mass — ComputeMass callers shift it
// to the center as part of combining several fixtures onto one body) that
// ComputeMass derives from a shape and density.
type MassData struct {
	Mass         float32
	Center       math2.Vec2
	RotInertia   float32
}

// DistanceProxy is the vertex cloud plus skin radius that GJK operates on;
// every shape reduces its children to one of these so the distance and
// TOI algorithms never need to know the concrete shape kind.
type DistanceProxy struct {
	Vertices []math2.Vec2
	Radius   float32
}

// Support returns the index of the proxy vertex farthest in direction d.
func (p *DistanceProxy) Support(d math2.Vec2) int {
	best := 0
	bestValue := p.Vertices[0].Dot(d)
	for i := 1; i < len(p.Vertices); i++ {
		value := p.Vertices[i].Dot(d)
		if value > bestValue {
			best = i
			bestValue = value
		}
	}
	return best
}

func (p *DistanceProxy) Vertex(i int) math2.Vec2 { return p.Vertices[i] }
func (p *DistanceProxy) VertexCount() int        { return len(p.Vertices) }

// RayCastInput is the per-shape ray cast request: a segment from P1 to P2
// and the largest fraction along it a hit is accepted at.
type RayCastInput struct {
	P1, P2      math2.Vec2
	MaxFraction float32
}

// RayCastOutput is the result of a successful per-shape ray cast: the
// fraction along the input segment the ray first touches the shape, and
// the outward surface normal there, both in the frame the input was
// given in.
type RayCastOutput struct {
	Normal   math2.UnitVec2
	Fraction float32
}

// Shape is implemented by every concrete collision geometry. ChildCount
// and Child exist because ChainShape and MultiShape are composites: most
// shapes have exactly one child that is themselves.
type Shape interface {
	Kind() Kind
	ChildCount() int
	Child(childIndex int) DistanceProxy
	VertexRadius() float32
	ComputeAABB(xf math2.Transform, childIndex int) collision.AABB
	ComputeMass(density float32) MassData
	RayCast(input RayCastInput, xf math2.Transform, childIndex int) (RayCastOutput, bool)
	TestPoint(xf math2.Transform, point math2.Vec2) bool
}
