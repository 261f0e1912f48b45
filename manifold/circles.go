// Copyright 2016 The forge2d Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifold

import (
	"github.com/forgephys/forge2d/math2"
	"github.com/forgephys/forge2d/shape"
)

// CollideCircles produces at most one contact point between two circles,
// the simplest of the narrow-phase generators and the base case every
// other generator's point-vs-point logic specializes.
func CollideCircles(a *shape.Circle, xfA math2.Transform, b *shape.Circle, xfB math2.Transform) Manifold {
	var m Manifold

	pA := xfA.ToWorld(a.Center)
	pB := xfB.ToWorld(b.Center)
	d := pB.Sub(pA)
	distSq := d.LengthSquared()
	radius := a.Radius + b.Radius
	if distSq > radius*radius {
		return m
	}

	m.Kind = KindCircles
	m.LocalPoint = a.Center
	m.LocalNormal = math2.Vec2Zero
	m.PointCount = 1
	m.Points[0] = Point{
		LocalPoint: b.Center,
		ID:         ContactFeature{TypeA: FeatureVertex, TypeB: FeatureVertex},
	}
	return m
}
