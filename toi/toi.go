// Package toi computes the time of impact of two shapes translating with constant linear velocities.
// Pairs are dispatched in the same order as contacts: ball against ball, plane against a support map,
// support map against support map, then composites.
package toi

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/bvt"
	"go.viam.com/collide/gjk"
	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// Dispatcher resolves shape pairs to their time of impact algorithm.
type Dispatcher struct {
	Options gjk.Options
}

// NewDispatcher returns a dispatcher using the given tolerances.
func NewDispatcher(opts gjk.Options) *Dispatcher {
	return &Dispatcher{Options: opts}
}

var defaultDispatcher = NewDispatcher(gjk.DefaultOptions())

// AnyAgainstAny returns the first time the two moving shapes touch, with no horizon. Shapes already
// overlapping impact at zero. It reports false if they never do.
func AnyAgainstAny(
	pose1 spatialmath.Pose, vel1 r3.Vector, s1 shape.Shape,
	pose2 spatialmath.Pose, vel2 r3.Vector, s2 shape.Shape,
) (float64, bool, error) {
	return defaultDispatcher.AnyAgainstAny(pose1, vel1, s1, pose2, vel2, s2)
}

// AnyAgainstAnyWithHorizon returns the first time in [0, maxToi] the two moving shapes touch.
func AnyAgainstAnyWithHorizon(
	pose1 spatialmath.Pose, vel1 r3.Vector, s1 shape.Shape,
	pose2 spatialmath.Pose, vel2 r3.Vector, s2 shape.Shape,
	maxToi float64,
) (float64, bool, error) {
	return defaultDispatcher.AnyAgainstAnyWithHorizon(pose1, vel1, s1, pose2, vel2, s2, maxToi)
}

// AnyAgainstAny returns the first time the two moving shapes touch, with no horizon.
func (d *Dispatcher) AnyAgainstAny(
	pose1 spatialmath.Pose, vel1 r3.Vector, s1 shape.Shape,
	pose2 spatialmath.Pose, vel2 r3.Vector, s2 shape.Shape,
) (float64, bool, error) {
	return d.AnyAgainstAnyWithHorizon(pose1, vel1, s1, pose2, vel2, s2, math.Inf(1))
}

// AnyAgainstAnyWithHorizon returns the first time in [0, maxToi] the two moving shapes touch.
func (d *Dispatcher) AnyAgainstAnyWithHorizon(
	pose1 spatialmath.Pose, vel1 r3.Vector, s1 shape.Shape,
	pose2 spatialmath.Pose, vel2 r3.Vector, s2 shape.Shape,
	maxToi float64,
) (float64, bool, error) {
	if _, err := shape.Resolve(s1); err != nil {
		return 0, false, shape.NewNoAlgorithmError("time of impact", err, s1, s2)
	}
	if _, err := shape.Resolve(s2); err != nil {
		return 0, false, shape.NewNoAlgorithmError("time of impact", err, s1, s2)
	}

	b1, isBall1 := shape.AsBall(s1)
	b2, isBall2 := shape.AsBall(s2)
	if isBall1 && isBall2 {
		t, ok := ballBall(pose1.Point(), vel1, b1.BallRadius(), pose2.Point(), vel2, b2.BallRadius(), maxToi)
		return t, ok, nil
	}

	p1, isPlane1 := shape.AsPlane(s1)
	p2, isPlane2 := shape.AsPlane(s2)
	sm1, isSupport1 := shape.AsSupportMap(s1)
	sm2, isSupport2 := shape.AsSupportMap(s2)
	switch {
	case isPlane1 && isSupport2:
		t, ok := planeSupport(pose1, vel1, p1, pose2, vel2, sm2, maxToi)
		return t, ok, nil
	case isSupport1 && isPlane2:
		t, ok := planeSupport(pose2, vel2, p2, pose1, vel1, sm1, maxToi)
		return t, ok, nil
	case isSupport1 && isSupport2:
		t, ok := gjk.TimeOfImpact(d.Options, pose1, vel1, sm1, pose2, vel2, sm2, maxToi)
		return t, ok, nil
	}

	if c1, ok := shape.AsComposite(s1); ok {
		return d.compositeAny(pose1, vel1, c1, pose2, vel2, s2, maxToi)
	}
	if c2, ok := shape.AsComposite(s2); ok {
		return d.compositeAny(pose2, vel2, c2, pose1, vel1, s1, maxToi)
	}
	return 0, false, shape.NewNoAlgorithmError("time of impact", nil, s1, s2)
}

// ballBall solves |c + t v| = r for the relative center c and velocity v of the second ball.
func ballBall(c1, vel1 r3.Vector, r1 float64, c2, vel2 r3.Vector, r2, maxToi float64) (float64, bool) {
	c := c2.Sub(c1)
	v := vel2.Sub(vel1)
	r := r1 + r2

	cc := c.Norm2() - r*r
	if cc <= 0 {
		return 0, true
	}
	b := c.Dot(v)
	if b >= 0 {
		return 0, false
	}
	a := v.Norm2()
	disc := b*b - a*cc
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / a
	if t > maxToi {
		return 0, false
	}
	return t, true
}

// planeSupport tracks the support point of the convex shape against the plane normal.
func planeSupport(
	planePose spatialmath.Pose, planeVel r3.Vector, p shape.PlaneShape,
	pose spatialmath.Pose, vel r3.Vector, sm shape.SupportMap,
	maxToi float64,
) (float64, bool) {
	n := spatialmath.RotateVector(planePose, p.PlaneNormal())
	deepest := shape.SupportPoint(pose, sm, n.Mul(-1))
	sep := n.Dot(deepest.Sub(planePose.Point()))
	if sep <= 0 {
		return 0, true
	}
	approach := -n.Dot(vel.Sub(planeVel))
	if approach <= 0 {
		return 0, false
	}
	t := sep / approach
	if t > maxToi {
		return 0, false
	}
	return t, true
}

// compositeAny searches the composite's children best-first by the time the other shape's box,
// moving relative to the composite, first enters each bounding volume. Children move rigidly with
// the composite.
func (d *Dispatcher) compositeAny(
	pose spatialmath.Pose, vel r3.Vector, c shape.Composite,
	otherPose spatialmath.Pose, otherVel r3.Vector, other shape.Shape,
	maxToi float64,
) (float64, bool, error) {
	otherBox := other.AABB(spatialmath.PoseBetween(pose, otherPose))
	rel := spatialmath.InverseRotateVector(pose, otherVel.Sub(vel))
	// planes have no finite box to sweep
	unbounded := math.IsInf(otherBox.Min.Norm2()+otherBox.Max.Norm2(), 0)
	var firstErr error
	best := maxToi

	res, found := bvt.BestFirstSearch[float64](c.BVT(), bvt.BestFirstFuncs[float64]{
		Volume: func(vol spatialmath.AABB) (float64, bool) {
			if unbounded {
				return 0, true
			}
			return vol.SweepEntry(otherBox, rel, best)
		},
		Leaf: func(i int, _ spatialmath.AABB) (float64, float64, bool) {
			childPose, child := c.ChildAt(i)
			t, ok, err := d.AnyAgainstAnyWithHorizon(spatialmath.Compose(pose, childPose), vel, child, otherPose, otherVel, other, best)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return 0, 0, false
			}
			if !ok {
				return 0, 0, false
			}
			if t < best {
				best = t
			}
			return t, t, true
		},
	})
	if firstErr != nil {
		return 0, false, firstErr
	}
	if !found {
		return 0, false, nil
	}
	return res.Value, true, nil
}
