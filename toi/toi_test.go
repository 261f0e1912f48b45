// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package toi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

func circleProxy(r float32) shape.DistanceProxy {
	return shape.NewCircle(math2.Vec2Zero, r).Child(0)
}

func stationarySweep(p math2.Vec2) math2.Sweep {
	return math2.Sweep{C0: p, C: p, A0: 0, A: 0}
}

func linearSweep(from, to math2.Vec2) math2.Sweep {
	return math2.Sweep{C0: from, C: to, A0: 0, A: 0}
}

func TestTimeOfImpactReportsTouchingWhenProxiesMeetMidSweep(t *testing.T) {
	input := &Input{
		ProxyA: circleProxy(0.5),
		ProxyB: circleProxy(0.5),
		SweepA: stationarySweep(math2.Vec2Zero),
		SweepB: linearSweep(math2.Vec2{X: 5}, math2.Vec2Zero),
		TMax:   1,
	}

	out := TimeOfImpact(input, 1.0, 0.005)

	assert.Equal(t, StateTouching, out.State)
	assert.InDelta(t, 0.8, out.T, 0.01)
}

func TestTimeOfImpactReportsOverlappedWhenProxyCentersCoincide(t *testing.T) {
	// Distance is computed on the raw proxy geometry, never inflated by
	// radius (UseRadii is left false here), so for circle proxies — each a
	// single center vertex — only exactly coincident centers register as
	// already overlapped; the radii themselves are folded into target.
	input := &Input{
		ProxyA: circleProxy(0.5),
		ProxyB: circleProxy(0.5),
		SweepA: stationarySweep(math2.Vec2Zero),
		SweepB: stationarySweep(math2.Vec2Zero),
		TMax:   1,
	}

	out := TimeOfImpact(input, 1.0, 0.005)

	assert.Equal(t, StateOverlapped, out.State)
	assert.Equal(t, float32(0), out.T)
}

func TestTimeOfImpactReportsSeparatedWhenSweepNeverClosesGap(t *testing.T) {
	input := &Input{
		ProxyA: circleProxy(0.5),
		ProxyB: circleProxy(0.5),
		SweepA: stationarySweep(math2.Vec2Zero),
		SweepB: linearSweep(math2.Vec2{X: 10}, math2.Vec2{X: 8}),
		TMax:   1,
	}

	out := TimeOfImpact(input, 1.0, 0.005)

	assert.Equal(t, StateSeparated, out.State)
	assert.Equal(t, float32(1), out.T)
}

func TestTimeOfImpactRespectsSweepAlpha0AlreadyConsumed(t *testing.T) {
	// A prior sub-step already consumed half the frame (Alpha0 = 0.5) on
	// both bodies, as dynamics.computeTOI arranges before calling in; the
	// remaining [0.5, 1] window of travel should still be searched
	// correctly, converging to the same spatial closing point found in
	// TestTimeOfImpactReportsTouchingWhenProxiesMeetMidSweep, just reported
	// at a later fraction because only half as much sweep remains.
	input := &Input{
		ProxyA: circleProxy(0.5),
		ProxyB: circleProxy(0.5),
		SweepA: math2.Sweep{C0: math2.Vec2Zero, C: math2.Vec2Zero, Alpha0: 0.5},
		SweepB: math2.Sweep{C0: math2.Vec2{X: 5}, C: math2.Vec2Zero, Alpha0: 0.5},
		TMax:   1,
	}

	out := TimeOfImpact(input, 1.0, 0.005)

	assert.Equal(t, StateTouching, out.State)
	assert.Greater(t, out.T, float32(0.5))
	assert.InDelta(t, 0.9, out.T, 0.02)
}
