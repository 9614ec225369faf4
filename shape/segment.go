package shape

import (
	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// Segment is the line segment between A and B. It has no interior.
type Segment struct {
	A r3.Vector
	B r3.Vector
}

// NewSegment returns the segment from a to b.
func NewSegment(a, b r3.Vector) *Segment {
	return &Segment{A: a, B: b}
}

// Kind returns KindSegment.
func (s *Segment) Kind() Kind { return KindSegment }

// IsHollow returns true.
func (s *Segment) IsHollow() bool { return true }

// AABB returns the box bounding the segment under pose.
func (s *Segment) AABB(pose spatialmath.Pose) spatialmath.AABB {
	return spatialmath.AABBFromPoints(spatialmath.TransformPoint(pose, s.A), spatialmath.TransformPoint(pose, s.B))
}

// LocalSupportPoint returns the end point furthest along dir.
func (s *Segment) LocalSupportPoint(dir r3.Vector) r3.Vector {
	if s.B.Dot(dir) > s.A.Dot(dir) {
		return s.B
	}
	return s.A
}

// BoundingSphere returns the center and radius of the smallest sphere containing the segment under pose.
func (s *Segment) BoundingSphere(pose spatialmath.Pose) (r3.Vector, float64) {
	center := spatialmath.TransformPoint(pose, s.A.Add(s.B).Mul(0.5))
	return center, s.B.Sub(s.A).Norm() / 2
}

// Length returns the length of the segment.
func (s *Segment) Length() float64 {
	return s.B.Sub(s.A).Norm()
}
