package shape

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// Cone is a solid circular cone along the local Y axis with its apex at (0, HalfHeight, 0) and its
// base disk of the given radius at y = -HalfHeight.
type Cone struct {
	HalfHeight float64
	Radius     float64
}

// NewCone returns a cone along the local Y axis.
func NewCone(halfHeight, radius float64) (*Cone, error) {
	if halfHeight < 0 || radius < 0 || math.IsNaN(halfHeight+radius) {
		return nil, newBadShapeDimensionsError(KindCone, "half height %v, radius %v", halfHeight, radius)
	}
	return &Cone{HalfHeight: halfHeight, Radius: radius}, nil
}

// Kind returns KindCone.
func (c *Cone) Kind() Kind { return KindCone }

// AABB returns the box bounding the cone under pose.
func (c *Cone) AABB(pose spatialmath.Pose) spatialmath.AABB {
	return supportAABB(pose, c)
}

// LocalSupportPoint returns the apex or a point of the base rim, whichever is further along dir.
func (c *Cone) LocalSupportPoint(dir r3.Vector) r3.Vector {
	apex := r3.Vector{Y: c.HalfHeight}
	rim := radialSupport(dir, c.Radius).Add(r3.Vector{Y: -c.HalfHeight})
	if apex.Dot(dir) >= rim.Dot(dir) {
		return apex
	}
	return rim
}
