package shape

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// Cylinder is a solid circular cylinder along the local Y axis.
type Cylinder struct {
	HalfHeight float64
	Radius     float64
}

// NewCylinder returns a cylinder along the local Y axis.
func NewCylinder(halfHeight, radius float64) (*Cylinder, error) {
	if halfHeight < 0 || radius < 0 || math.IsNaN(halfHeight+radius) {
		return nil, newBadShapeDimensionsError(KindCylinder, "half height %v, radius %v", halfHeight, radius)
	}
	return &Cylinder{HalfHeight: halfHeight, Radius: radius}, nil
}

// Kind returns KindCylinder.
func (c *Cylinder) Kind() Kind { return KindCylinder }

// AABB returns the box bounding the cylinder under pose.
func (c *Cylinder) AABB(pose spatialmath.Pose) spatialmath.AABB {
	return supportAABB(pose, c)
}

// LocalSupportPoint returns the point of the cylinder furthest along dir.
func (c *Cylinder) LocalSupportPoint(dir r3.Vector) r3.Vector {
	return radialSupport(dir, c.Radius).Add(r3.Vector{Y: math.Copysign(c.HalfHeight, signOrPositive(dir.Y))})
}

// radialSupport returns the point of the radius r circle in the XZ plane furthest along dir.
func radialSupport(dir r3.Vector, r float64) r3.Vector {
	radial := r3.Vector{X: dir.X, Z: dir.Z}
	n, ok := spatialmath.NormalizeOrZero(radial)
	if !ok {
		return r3.Vector{}
	}
	return n.Mul(r)
}
