// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rope implements a position-based-dynamics particle chain: a
// lightweight alternative to a revolute-jointed body chain for things
// like curtains, cables and vines, where per-body overhead isn't worth
// paying for. It steps independently of a World.
package rope

import (
	"errors"
	"math"

	"github.com/forgephys/forge2d/math2"
)

// ErrTooFewVertices is returned by New when fewer than three vertices are
// given: the bending constraint needs a previous and next neighbor for
// every interior particle, so a rope needs at least three to have one.
var ErrTooFewVertices = errors.New("rope: need at least 3 vertices")

// Def is the construction surface for a Rope: the rest pose, a per-
// vertex mass (0 pins that vertex in place), and the constraint tuning
// constants.
type Def struct {
	Vertices []math2.Vec2
	Masses   []float32
	Gravity  math2.Vec2

	// Damping is an exponential velocity decay rate applied every Step.
	Damping float32

	// Stretch is the stretching-constraint stiffness in [0,1]; 1 is
	// rigid.
	Stretch float32

	// Bend is the bending-constraint stiffness; values above 0.5 can
	// make the simulation blow up.
	Bend float32
}

// DefaultDef returns the rest-length constants Box2D's own rope demo
// ships with: soft bending, nearly-rigid stretching, light damping.
func DefaultDef() Def {
	return Def{Damping: 0.1, Stretch: 0.9, Bend: 0.1}
}

// Rope is a chain of particles connected by a stretch constraint between
// every adjacent pair and a bending constraint between every adjacent
// triple, solved by Gauss-Seidel position projection (PBD) rather than
// an impulse solver: each Step integrates gravity and damping into a
// predicted position, then repeatedly projects that prediction onto the
// two constraint manifolds.
type Rope struct {
	ps, p0s, vs []math2.Vec2
	invMasses   []float32

	restLengths []float32 // rest distance between ps[i] and ps[i+1]
	restAngles  []float32 // rest bend angle at ps[i+1], between ps[i..i+2]

	gravity math2.Vec2
	damping float32
	k2      float32 // stretch stiffness
	k3      float32 // bend stiffness
}

// New builds a Rope from def, measuring every constraint's rest value
// from def.Vertices' initial pose.
func New(def Def) (*Rope, error) {
	n := len(def.Vertices)
	if n < 3 {
		return nil, ErrTooFewVertices
	}

	r := &Rope{
		ps:      append([]math2.Vec2(nil), def.Vertices...),
		p0s:     append([]math2.Vec2(nil), def.Vertices...),
		vs:      make([]math2.Vec2, n),
		gravity: def.Gravity,
		damping: def.Damping,
		k2:      def.Stretch,
		k3:      def.Bend,
	}

	r.invMasses = make([]float32, n)
	for i := 0; i < n; i++ {
		m := float32(0)
		if i < len(def.Masses) {
			m = def.Masses[i]
		}
		if m > 0 {
			r.invMasses[i] = 1 / m
		}
	}

	r.restLengths = make([]float32, n-1)
	for i := 0; i < n-1; i++ {
		r.restLengths[i] = r.ps[i].Distance(r.ps[i+1])
	}

	r.restAngles = make([]float32, n-2)
	for i := 0; i < n-2; i++ {
		r.restAngles[i] = bendAngle(r.ps[i], r.ps[i+1], r.ps[i+2])
	}

	return r, nil
}

// VertexCount returns the number of particles in the rope.
func (r *Rope) VertexCount() int { return len(r.ps) }

// Vertices returns the rope's current particle positions. The returned
// slice is shared with the Rope; callers must not mutate it.
func (r *Rope) Vertices() []math2.Vec2 { return r.ps }

// Vertex returns the current position of particle i.
func (r *Rope) Vertex(i int) math2.Vec2 { return r.ps[i] }

// SetAngle resets every bend constraint's rest angle to angle, letting a
// caller pose the rope into an arc or a straight line before the next
// Step re-enforces it.
func (r *Rope) SetAngle(angle float32) {
	for i := range r.restAngles {
		r.restAngles[i] = angle
	}
}

// Step integrates gravity and damping over h, then runs iterations
// rounds of stretch/bend position projection, following the original's
// SolveC2/SolveC3/SolveC2 ordering (bend sandwiched between two stretch
// passes so the chain stays taut while an interior joint straightens).
func (r *Rope) Step(h float32, iterations int) {
	if h == 0 {
		return
	}

	decay := float32(math.Exp(float64(-h * r.damping)))
	for i := range r.ps {
		r.p0s[i] = r.ps[i]
		if r.invMasses[i] > 0 {
			r.vs[i] = r.vs[i].Add(r.gravity.Mul(h))
		}
		r.vs[i] = r.vs[i].Mul(decay)
		r.ps[i] = r.ps[i].Add(r.vs[i].Mul(h))
	}

	for i := 0; i < iterations; i++ {
		r.solveStretch()
		r.solveBend()
		r.solveStretch()
	}

	invH := 1 / h
	for i := range r.ps {
		r.vs[i] = r.ps[i].Sub(r.p0s[i]).Mul(invH)
	}
}

// solveStretch projects every adjacent pair back toward its rest length,
// splitting the correction between the two particles in proportion to
// each one's own inverse mass so a pinned (zero inverse mass) particle
// doesn't move.
func (r *Rope) solveStretch() {
	for i := 0; i < len(r.ps)-1; i++ {
		p1, p2 := r.ps[i], r.ps[i+1]
		d := p2.Sub(p1)
		dir, length, ok := d.Normalize()
		if !ok {
			continue
		}

		im1, im2 := r.invMasses[i], r.invMasses[i+1]
		if im1+im2 == 0 {
			continue
		}
		s1 := im1 / (im1 + im2)
		s2 := im2 / (im1 + im2)

		correction := r.k2 * (r.restLengths[i] - length)
		p1 = p1.Sub(dir.Vec2().Mul(s1 * correction))
		p2 = p2.Add(dir.Vec2().Mul(s2 * correction))

		r.ps[i], r.ps[i+1] = p1, p2
	}
}

// solveBend projects every adjacent triple's included angle back toward
// its rest angle via a single Gauss-Seidel impulse, using the angle's
// gradient with respect to each of the three particles as the Jacobian.
func (r *Rope) solveBend() {
	for i := 0; i < len(r.ps)-2; i++ {
		p1, p2, p3 := r.ps[i], r.ps[i+1], r.ps[i+2]
		m1, m2, m3 := r.invMasses[i], r.invMasses[i+1], r.invMasses[i+2]

		d1 := p2.Sub(p1)
		d2 := p3.Sub(p2)
		l1sq := d1.LengthSquared()
		l2sq := d2.LengthSquared()
		if l1sq*l2sq == 0 {
			continue
		}

		angle := math2.Atan2(d1.Cross(d2), d1.Dot(d2))

		jd1 := d1.Perp().Mul(-1 / l1sq)
		jd2 := d2.Perp().Mul(1 / l2sq)

		j1 := jd1.Mul(-1)
		j2 := jd1.Sub(jd2)
		j3 := jd2

		mass := m1*j1.Dot(j1) + m2*j2.Dot(j2) + m3*j3.Dot(j3)
		if mass == 0 {
			continue
		}
		mass = 1 / mass

		c := wrapAngle(angle - r.restAngles[i])
		impulse := -r.k3 * mass * c

		r.ps[i] = p1.Add(j1.Mul(m1 * impulse))
		r.ps[i+1] = p2.Add(j2.Mul(m2 * impulse))
		r.ps[i+2] = p3.Add(j3.Mul(m3 * impulse))
	}
}

func bendAngle(p1, p2, p3 math2.Vec2) float32 {
	d1 := p2.Sub(p1)
	d2 := p3.Sub(p2)
	return math2.Atan2(d1.Cross(d2), d1.Dot(d2))
}

// wrapAngle brings c into (-pi, pi] so a bend constraint never fights
// itself across the +/-pi branch cut.
func wrapAngle(c float32) float32 {
	for c > math2.Pi {
		c -= 2 * math2.Pi
	}
	for c < -math2.Pi {
		c += 2 * math2.Pi
	}
	return c
}
