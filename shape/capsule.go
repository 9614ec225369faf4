package shape

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// Capsule is the set of points within Radius of the segment from (0, -HalfHeight, 0) to (0, HalfHeight, 0).
type Capsule struct {
	HalfHeight float64
	Radius     float64
}

// NewCapsule returns a capsule along the local Y axis.
func NewCapsule(halfHeight, radius float64) (*Capsule, error) {
	if halfHeight < 0 || radius < 0 || math.IsNaN(halfHeight+radius) {
		return nil, newBadShapeDimensionsError(KindCapsule, "half height %v, radius %v", halfHeight, radius)
	}
	return &Capsule{HalfHeight: halfHeight, Radius: radius}, nil
}

// Kind returns KindCapsule.
func (c *Capsule) Kind() Kind { return KindCapsule }

// Segment returns the two end points of the capsule's core segment.
func (c *Capsule) Segment() (r3.Vector, r3.Vector) {
	return r3.Vector{Y: -c.HalfHeight}, r3.Vector{Y: c.HalfHeight}
}

// AABB returns the box bounding the capsule under pose.
func (c *Capsule) AABB(pose spatialmath.Pose) spatialmath.AABB {
	a, b := c.Segment()
	return spatialmath.AABBFromPoints(spatialmath.TransformPoint(pose, a), spatialmath.TransformPoint(pose, b)).Loosened(c.Radius)
}

// LocalSupportPoint returns the point of the capsule furthest along dir.
func (c *Capsule) LocalSupportPoint(dir r3.Vector) r3.Vector {
	return r3.Vector{Y: math.Copysign(c.HalfHeight, signOrPositive(dir.Y))}.Add(unit(dir).Mul(c.Radius))
}
