// Package contact generates contacts between pairs of posed shapes.
//
// A contact exists when the shapes are separated by no more than a prediction margin. Pairs are
// dispatched in a fixed order, the first match winning:
//
//  1. ball against ball, in closed form
//  2. capsule or segment against capsule or segment, in closed form unless the core segments cross
//  3. plane against a support map, or the mirror pair
//  4. support map against support map, with GJK and EPA
//  5. a composite against anything, recursing into the children the composite's BVT ranks as
//     candidates, or the mirror pair
//
// Pairs matching none of these return an error wrapping shape.ErrNoAlgorithm.
package contact

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/gjk"
	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// Contact is a contact between two shapes in world space. Normal is the unit direction from shape 1
// to shape 2. Depth is the signed separation along Normal between World1 on shape 1 and World2 on
// shape 2, negative when the shapes penetrate.
type Contact struct {
	World1 r3.Vector
	World2 r3.Vector
	Normal r3.Vector
	Depth  float64
}

// Flipped returns the same contact seen from shape 2.
func (c *Contact) Flipped() *Contact {
	if c == nil {
		return nil
	}
	return &Contact{World1: c.World2, World2: c.World1, Normal: c.Normal.Mul(-1), Depth: c.Depth}
}

// Dispatcher resolves shape pairs to their contact algorithm.
type Dispatcher struct {
	Options gjk.Options
}

// NewDispatcher returns a dispatcher using the given GJK and EPA tolerances.
func NewDispatcher(opts gjk.Options) *Dispatcher {
	return &Dispatcher{Options: opts}
}

var defaultDispatcher = NewDispatcher(gjk.DefaultOptions())

// AnyAgainstAny computes the contact between two posed shapes using the default tolerances. It
// returns nil without error when the shapes are further apart than margin.
func AnyAgainstAny(pose1 spatialmath.Pose, s1 shape.Shape, pose2 spatialmath.Pose, s2 shape.Shape, margin float64) (*Contact, error) {
	return defaultDispatcher.AnyAgainstAny(pose1, s1, pose2, s2, margin)
}

// AnyAgainstAny computes the contact between two posed shapes.
func (d *Dispatcher) AnyAgainstAny(pose1 spatialmath.Pose, s1 shape.Shape, pose2 spatialmath.Pose, s2 shape.Shape, margin float64) (*Contact, error) {
	if _, err := shape.Resolve(s1); err != nil {
		return nil, shape.NewNoAlgorithmError("contact", err, s1, s2)
	}
	if _, err := shape.Resolve(s2); err != nil {
		return nil, shape.NewNoAlgorithmError("contact", err, s1, s2)
	}

	b1, isBall1 := shape.AsBall(s1)
	b2, isBall2 := shape.AsBall(s2)
	if isBall1 && isBall2 {
		return ballBall(pose1.Point(), b1.BallRadius(), pose2.Point(), b2.BallRadius(), margin), nil
	}
	if a1, e1, r1, ok := worldCore(pose1, s1); ok {
		if a2, e2, r2, ok := worldCore(pose2, s2); ok {
			if c, ok := coreCore(a1, e1, r1, a2, e2, r2, margin); ok {
				return c, nil
			}
		}
	}

	p1, isPlane1 := shape.AsPlane(s1)
	p2, isPlane2 := shape.AsPlane(s2)
	sm1, isSupport1 := shape.AsSupportMap(s1)
	sm2, isSupport2 := shape.AsSupportMap(s2)
	switch {
	case isPlane1 && isSupport2:
		return planeSupport(pose1, p1, pose2, sm2, margin), nil
	case isSupport1 && isPlane2:
		return planeSupport(pose2, p2, pose1, sm1, margin).Flipped(), nil
	case isSupport1 && isSupport2:
		return d.supportSupport(pose1, sm1, pose2, sm2, margin), nil
	}

	if c1, ok := shape.AsComposite(s1); ok {
		return d.compositeAny(pose1, c1, pose2, s2, margin)
	}
	if c2, ok := shape.AsComposite(s2); ok {
		c, err := d.compositeAny(pose2, c2, pose1, s1, margin)
		return c.Flipped(), err
	}
	return nil, shape.NewNoAlgorithmError("contact", nil, s1, s2)
}

func ballBall(c1 r3.Vector, r1 float64, c2 r3.Vector, r2 float64, margin float64) *Contact {
	delta := c2.Sub(c1)
	dist := delta.Norm()
	sep := dist - r1 - r2
	if sep > margin {
		return nil
	}
	n, ok := spatialmath.NormalizeOrZero(delta)
	if !ok {
		n = r3.Vector{X: 1}
	}
	return &Contact{
		World1: c1.Add(n.Mul(r1)),
		World2: c2.Sub(n.Mul(r2)),
		Normal: n,
		Depth:  sep,
	}
}

// worldCore returns the world space core segment and radius of a capsule, or of a segment with
// radius zero.
func worldCore(pose spatialmath.Pose, s shape.Shape) (r3.Vector, r3.Vector, float64, bool) {
	var a, b r3.Vector
	var radius float64
	switch t := s.(type) {
	case *shape.Capsule:
		a, b = t.Segment()
		radius = t.Radius
	case *shape.Segment:
		a, b = t.A, t.B
	default:
		return r3.Vector{}, r3.Vector{}, 0, false
	}
	return spatialmath.TransformPoint(pose, a), spatialmath.TransformPoint(pose, b), radius, true
}

// coreCore is the contact between two swept spheres. It reports false when the core segments
// touch, leaving the pair without a defined normal to GJK and EPA.
func coreCore(a1, b1 r3.Vector, r1 float64, a2, b2 r3.Vector, r2, margin float64) (*Contact, bool) {
	p1, p2 := spatialmath.ClosestPointsSegmentSegment(a1, b1, a2, b2)
	if _, ok := spatialmath.NormalizeOrZero(p2.Sub(p1)); !ok {
		return nil, false
	}
	return ballBall(p1, r1, p2, r2, margin), true
}

// planeSupport measures the support point of the convex shape furthest below the plane.
func planeSupport(planePose spatialmath.Pose, p shape.PlaneShape, pose spatialmath.Pose, sm shape.SupportMap, margin float64) *Contact {
	n := spatialmath.RotateVector(planePose, p.PlaneNormal())
	deepest := shape.SupportPoint(pose, sm, n.Mul(-1))
	sep := n.Dot(deepest.Sub(planePose.Point()))
	if sep > margin {
		return nil
	}
	return &Contact{
		World1: deepest.Sub(n.Mul(sep)),
		World2: deepest,
		Normal: n,
		Depth:  sep,
	}
}

func (d *Dispatcher) supportSupport(pose1 spatialmath.Pose, sm1 shape.SupportMap, pose2 spatialmath.Pose, sm2 shape.SupportMap, margin float64) *Contact {
	res := gjk.ClosestPoints(d.Options, pose1, sm1, pose2, sm2, math.Max(margin, 0))
	switch res.Status {
	case gjk.Disjoint:
		return nil
	case gjk.WithinMargin:
		if res.Distance > margin {
			return nil
		}
		return &Contact{World1: res.Point1, World2: res.Point2, Normal: res.Normal(), Depth: res.Distance}
	}

	pen, ok := gjk.Penetration(d.Options, pose1, sm1, pose2, sm2)
	if !ok {
		// touching within GJK tolerance, with no measurable penetration
		if margin < 0 {
			return nil
		}
		n := r3.Vector{X: 1}
		if !spatialmath.PoseAlmostCoincident(pose1, pose2) {
			n, _ = spatialmath.NormalizeOrZero(pose2.Point().Sub(pose1.Point()))
		}
		pt := shape.SupportPoint(pose1, sm1, n)
		return &Contact{World1: pt, World2: pt, Normal: n}
	}
	if -pen.Depth > margin {
		return nil
	}
	return &Contact{World1: pen.Point1, World2: pen.Point2, Normal: pen.Normal, Depth: -pen.Depth}
}
