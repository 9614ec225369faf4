package gjk

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// Status classifies the outcome of a closest points query.
type Status int

const (
	// Disjoint means the shapes are further apart than the query's maximum distance.
	Disjoint Status = iota
	// WithinMargin means the shapes are separated by at most the maximum distance.
	WithinMargin
	// Intersecting means the shapes touch or overlap.
	Intersecting
)

func (s Status) String() string {
	switch s {
	case Disjoint:
		return "disjoint"
	case WithinMargin:
		return "within_margin"
	case Intersecting:
		return "intersecting"
	default:
		return "unknown"
	}
}

// touchingDistance is the separation below which two shapes are considered touching.
const touchingDistance = 1e-10

// ClosestResult is the outcome of a closest points query. Points and Distance are only meaningful
// when Status is WithinMargin.
type ClosestResult struct {
	Status   Status
	Point1   r3.Vector
	Point2   r3.Vector
	Distance float64

	simplex simplex
}

// ClosestPoints runs GJK on two placed support maps. The search exits early with Disjoint once
// it proves the shapes are further apart than maxDist; pass math.Inf(1) for an exact distance.
func ClosestPoints(
	opts Options,
	pose1 spatialmath.Pose, s1 shape.SupportMap,
	pose2 spatialmath.Pose, s2 shape.SupportMap,
	maxDist float64,
) ClosestResult {
	return Closest(opts, Placed(pose1, s1), Placed(pose2, s2), pose1.Point().Sub(pose2.Point()), maxDist)
}

// Closest runs GJK on two support functions. seed is the initial search direction in the
// Minkowski difference A - B, typically the difference of the shapes' centers.
func Closest(opts Options, supA, supB Support, seed r3.Vector, maxDist float64) ClosestResult {
	opts = opts.withDefaults()
	d := seed
	if d.Norm2() < touchingDistance*touchingDistance {
		d = r3.Vector{X: 1}
	}

	s := simplex{}
	first := minkowskiSupport(supA, supB, d)
	s.verts = append(s.verts, first)
	s.weights = append(s.weights, 1)
	v := first.w

	for iter := 0; iter < opts.MaxIterations; iter++ {
		vv := v.Norm2()
		if vv < touchingDistance*touchingDistance {
			return ClosestResult{Status: Intersecting, simplex: s}
		}

		w := minkowskiSupport(supA, supB, v.Mul(-1))
		vw := v.Dot(w.w)
		// vw / |v| is a lower bound on the distance
		if vw > 0 && vw*vw > maxDist*maxDist*vv {
			return ClosestResult{Status: Disjoint, Distance: math.Sqrt(vv), simplex: s}
		}
		if vv-vw <= opts.Epsilon*vv || s.contains(w.w) {
			break
		}

		prev := s.clone()
		if s.add(w) {
			return ClosestResult{Status: Intersecting, simplex: s}
		}
		next := s.closest()
		if next.Norm2() >= vv {
			// no progress, the previous estimate is as good as it gets
			s = prev
			break
		}
		v = next
	}

	dist := v.Norm()
	if dist < touchingDistance {
		return ClosestResult{Status: Intersecting, simplex: s}
	}
	p1, p2 := s.witnesses()
	status := WithinMargin
	if dist > maxDist {
		status = Disjoint
	}
	return ClosestResult{Status: status, Point1: p1, Point2: p2, Distance: dist, simplex: s}
}

// Normal returns the unit direction from Point1 to Point2 of a WithinMargin result.
func (r ClosestResult) Normal() r3.Vector {
	n, _ := spatialmath.NormalizeOrZero(r.Point2.Sub(r.Point1))
	return n
}

// Distance returns the exact distance between two placed support maps, zero if they overlap.
func Distance(opts Options, pose1 spatialmath.Pose, s1 shape.SupportMap, pose2 spatialmath.Pose, s2 shape.SupportMap) float64 {
	res := ClosestPoints(opts, pose1, s1, pose2, s2, math.Inf(1))
	if res.Status == Intersecting {
		return 0
	}
	return res.Distance
}

// ProjectOrigin returns the point of the support function's set closest to the origin and whether
// the origin lies inside it.
func ProjectOrigin(opts Options, sup Support) (r3.Vector, bool) {
	res := Closest(opts, sup, PointSupport(r3.Vector{}), sup(r3.Vector{X: 1}), math.Inf(1))
	if res.Status == Intersecting {
		return r3.Vector{}, true
	}
	return res.Point1, false
}

// ProjectPoint returns the point of the placed support map closest to pt, and whether pt is inside.
// Points inside are returned unchanged.
func ProjectPoint(opts Options, pose spatialmath.Pose, sm shape.SupportMap, pt r3.Vector) (r3.Vector, bool) {
	proj, inside := ProjectOrigin(opts, Placed(pose, sm).Translated(pt.Mul(-1)))
	if inside {
		return pt, true
	}
	return proj.Add(pt), false
}
