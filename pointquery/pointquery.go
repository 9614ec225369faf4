// Package pointquery projects points onto shapes and answers distance and containment queries.
// Every query has a local form, where the point is expressed in the shape's frame, and a
// WithPose form taking world space points.
package pointquery

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/bvt"
	"go.viam.com/collide/gjk"
	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// PointProjection is the projection of a point onto a shape. For hollow shapes IsInside means the
// point lies on the shape.
type PointProjection struct {
	Point    r3.Vector
	IsInside bool
}

// onShapeTolerance is how close a point must be to a hollow shape to count as lying on it.
const onShapeTolerance = 1e-9

// Dispatcher resolves shapes to their point query algorithm.
type Dispatcher struct {
	Options gjk.Options
}

// NewDispatcher returns a dispatcher using the given GJK tolerances.
func NewDispatcher(opts gjk.Options) *Dispatcher {
	return &Dispatcher{Options: opts}
}

var defaultDispatcher = NewDispatcher(gjk.DefaultOptions())

// ProjectPoint projects a point expressed in the shape's frame. If solid is true a point inside the
// shape projects onto itself, otherwise onto the nearest boundary point. Hollow shapes ignore solid.
func ProjectPoint(s shape.Shape, pt r3.Vector, solid bool) (PointProjection, error) {
	return defaultDispatcher.ProjectPoint(s, pt, solid)
}

// ProjectPointWithPose projects a world space point onto the shape placed by pose.
func ProjectPointWithPose(pose spatialmath.Pose, s shape.Shape, pt r3.Vector, solid bool) (PointProjection, error) {
	return defaultDispatcher.ProjectPointWithPose(pose, s, pt, solid)
}

// DistanceToPoint returns the distance from a local point to the shape, zero inside solids.
func DistanceToPoint(s shape.Shape, pt r3.Vector) (float64, error) {
	return defaultDispatcher.DistanceToPoint(s, pt)
}

// DistanceToPointWithPose returns the distance from a world point to the shape placed by pose.
func DistanceToPointWithPose(pose spatialmath.Pose, s shape.Shape, pt r3.Vector) (float64, error) {
	return defaultDispatcher.DistanceToPointWithPose(pose, s, pt)
}

// ContainsPoint reports whether a local point is inside the shape, or on it for hollow shapes.
func ContainsPoint(s shape.Shape, pt r3.Vector) (bool, error) {
	return defaultDispatcher.ContainsPoint(s, pt)
}

// ContainsPointWithPose reports whether a world point is inside the shape placed by pose.
func ContainsPointWithPose(pose spatialmath.Pose, s shape.Shape, pt r3.Vector) (bool, error) {
	return defaultDispatcher.ContainsPointWithPose(pose, s, pt)
}

// ProjectPoint projects a point expressed in the shape's frame.
func (d *Dispatcher) ProjectPoint(s shape.Shape, pt r3.Vector, solid bool) (PointProjection, error) {
	if _, err := shape.Resolve(s); err != nil {
		return PointProjection{}, shape.NewNoAlgorithmError("project point", err, s)
	}
	return d.project(s, pt, solid)
}

// ProjectPointWithPose maps the point into the shape's frame, projects it and maps the result back.
func (d *Dispatcher) ProjectPointWithPose(pose spatialmath.Pose, s shape.Shape, pt r3.Vector, solid bool) (PointProjection, error) {
	proj, err := d.ProjectPoint(s, spatialmath.InverseTransformPoint(pose, pt), solid)
	if err != nil {
		return PointProjection{}, err
	}
	proj.Point = spatialmath.TransformPoint(pose, proj.Point)
	return proj, nil
}

// DistanceToPoint returns the distance from a local point to the shape.
func (d *Dispatcher) DistanceToPoint(s shape.Shape, pt r3.Vector) (float64, error) {
	if seg, ok := s.(*shape.Segment); ok {
		return spatialmath.DistToLineSegment(seg.A, seg.B, pt), nil
	}
	proj, err := d.ProjectPoint(s, pt, true)
	if err != nil {
		return 0, err
	}
	if proj.IsInside && !shape.IsHollow(s) {
		return 0, nil
	}
	return proj.Point.Sub(pt).Norm(), nil
}

// DistanceToPointWithPose returns the distance from a world point to the shape placed by pose.
func (d *Dispatcher) DistanceToPointWithPose(pose spatialmath.Pose, s shape.Shape, pt r3.Vector) (float64, error) {
	return d.DistanceToPoint(s, spatialmath.InverseTransformPoint(pose, pt))
}

// ContainsPoint reports whether a local point is inside the shape. Composites stop at the first
// child containing the point.
func (d *Dispatcher) ContainsPoint(s shape.Shape, pt r3.Vector) (bool, error) {
	if _, err := shape.Resolve(s); err != nil {
		return false, shape.NewNoAlgorithmError("contains point", err, s)
	}
	if c, ok := shape.AsComposite(s); ok {
		return d.containedByComposite(c, pt)
	}
	proj, err := d.ProjectPoint(s, pt, true)
	if err != nil {
		return false, err
	}
	return proj.IsInside, nil
}

// ContainsPointWithPose reports whether a world point is inside the shape placed by pose.
func (d *Dispatcher) ContainsPointWithPose(pose spatialmath.Pose, s shape.Shape, pt r3.Vector) (bool, error) {
	return d.ContainsPoint(s, spatialmath.InverseTransformPoint(pose, pt))
}

func (d *Dispatcher) project(s shape.Shape, pt r3.Vector, solid bool) (PointProjection, error) {
	if b, ok := shape.AsBall(s); ok {
		return projectOnBall(b.BallRadius(), pt, solid), nil
	}
	if p, ok := shape.AsPlane(s); ok {
		return projectOnPlane(p.PlaneNormal(), pt, solid), nil
	}
	if sm, ok := shape.AsSupportMap(s); ok {
		switch t := sm.(type) {
		case *shape.Cuboid:
			return projectOnCuboid(t, pt, solid), nil
		case *shape.Capsule:
			return projectOnCapsule(t, pt, solid), nil
		case *shape.Segment:
			a, b := t.A, t.B
			return onHollow(spatialmath.ClosestPointSegmentPoint(a, b, pt), pt), nil
		case *shape.Triangle:
			closest, _ := t.ClosestPoint(pt)
			return onHollow(closest, pt), nil
		default:
			return d.projectOnSupportMap(sm, pt, solid), nil
		}
	}
	if c, ok := shape.AsComposite(s); ok {
		return d.projectOnComposite(c, pt, solid)
	}
	return PointProjection{}, shape.NewNoAlgorithmError("project point", nil, s)
}

func onHollow(closest, pt r3.Vector) PointProjection {
	return PointProjection{Point: closest, IsInside: closest.Sub(pt).Norm2() <= onShapeTolerance*onShapeTolerance}
}

func projectOnBall(radius float64, pt r3.Vector, solid bool) PointProjection {
	dist := pt.Norm()
	inside := dist <= radius
	if inside && solid {
		return PointProjection{Point: pt, IsInside: true}
	}
	dir, ok := spatialmath.NormalizeOrZero(pt)
	if !ok {
		dir = r3.Vector{X: 1}
	}
	return PointProjection{Point: dir.Mul(radius), IsInside: inside}
}

func projectOnPlane(normal, pt r3.Vector, solid bool) PointProjection {
	signed := normal.Dot(pt)
	inside := signed <= 0
	if inside && solid {
		return PointProjection{Point: pt, IsInside: true}
	}
	return PointProjection{Point: pt.Sub(normal.Mul(signed)), IsInside: inside}
}

func projectOnCuboid(c *shape.Cuboid, pt r3.Vector, solid bool) PointProjection {
	box := c.LocalAABB()
	if !box.ContainsPoint(pt) {
		return PointProjection{Point: box.ClosestPoint(pt)}
	}
	if solid {
		return PointProjection{Point: pt, IsInside: true}
	}
	// push out through the nearest face
	best := math.Inf(1)
	proj := pt
	for i := 0; i < 3; i++ {
		h := spatialmath.Component(c.HalfExtents, i)
		v := spatialmath.Component(pt, i)
		if d := h - v; d < best {
			best = d
			proj = spatialmath.SetComponent(pt, i, h)
		}
		if d := v + h; d < best {
			best = d
			proj = spatialmath.SetComponent(pt, i, -h)
		}
	}
	return PointProjection{Point: proj, IsInside: true}
}

func projectOnCapsule(c *shape.Capsule, pt r3.Vector, solid bool) PointProjection {
	a, b := c.Segment()
	core := spatialmath.ClosestPointSegmentPoint(a, b, pt)
	offset := pt.Sub(core)
	inside := offset.Norm() <= c.Radius
	if inside && solid {
		return PointProjection{Point: pt, IsInside: true}
	}
	dir, ok := spatialmath.NormalizeOrZero(offset)
	if !ok {
		dir = r3.Vector{X: 1}
	}
	return PointProjection{Point: core.Add(dir.Mul(c.Radius)), IsInside: inside}
}

func (d *Dispatcher) projectOnSupportMap(sm shape.SupportMap, pt r3.Vector, solid bool) PointProjection {
	identity := spatialmath.NewZeroPose()
	proj, inside := gjk.ProjectPoint(d.Options, identity, sm, pt)
	if !inside {
		return PointProjection{Point: proj}
	}
	if solid || shape.IsHollow(sm) {
		return PointProjection{Point: pt, IsInside: true}
	}
	pen, ok := gjk.Penetration(d.Options, identity, sm, spatialmath.NewPoseFromPoint(pt), &shape.Ball{})
	if !ok {
		return PointProjection{Point: pt, IsInside: true}
	}
	return PointProjection{Point: pt.Add(pen.Normal.Mul(pen.Depth)), IsInside: true}
}

func (d *Dispatcher) containedByComposite(c shape.Composite, pt r3.Vector) (bool, error) {
	var inside bool
	var firstErr error
	c.BVT().Visit(bvt.VisitorFuncs{
		Volume: func(vol spatialmath.AABB) bool {
			return vol.Loosened(onShapeTolerance).ContainsPoint(pt)
		},
		Leaf: func(i int, _ spatialmath.AABB) bool {
			childPose, child := c.ChildAt(i)
			ok, err := d.ContainsPointWithPose(childPose, child, pt)
			if err != nil {
				firstErr = err
				return false
			}
			inside = ok
			return !ok
		},
	})
	return inside, firstErr
}

type childProjection struct {
	proj PointProjection
	err  error
}

func (d *Dispatcher) projectOnComposite(c shape.Composite, pt r3.Vector, solid bool) (PointProjection, error) {
	var firstErr error
	best := math.Inf(1)
	polyline, isPolyline := c.(*shape.Polyline)

	res, found := bvt.BestFirstSearch[childProjection](c.BVT(), bvt.BestFirstFuncs[childProjection]{
		Volume: func(vol spatialmath.AABB) (float64, bool) {
			lower := vol.DistanceToPoint(pt)
			return lower, lower < best
		},
		Leaf: func(i int, _ spatialmath.AABB) (childProjection, float64, bool) {
			if isPolyline {
				center, radius := polyline.ElementAt(i).BoundingSphere(spatialmath.NewZeroPose())
				if center.Sub(pt).Norm()-radius >= best {
					return childProjection{}, 0, false
				}
			}
			childPose, child := c.ChildAt(i)
			proj, err := d.ProjectPointWithPose(childPose, child, pt, solid)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return childProjection{}, 0, false
			}
			cost := proj.Point.Sub(pt).Norm()
			if proj.IsInside && solid && !shape.IsHollow(child) {
				cost = 0
			}
			if cost < best {
				best = cost
			}
			return childProjection{proj: proj}, cost, true
		},
	})
	if firstErr != nil {
		return PointProjection{}, firstErr
	}
	if !found {
		return PointProjection{}, shape.NewNoAlgorithmError("project point", nil, c)
	}
	return res.Value.proj, nil
}
