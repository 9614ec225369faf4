package shape

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// Plane is a half-space through its local origin. Its interior lies opposite Normal.
type Plane struct {
	Normal r3.Vector
}

// NewPlane returns the half-space bounded by the plane with the given normal, which is normalized.
func NewPlane(normal r3.Vector) (*Plane, error) {
	n, ok := spatialmath.NormalizeOrZero(normal)
	if !ok {
		return nil, newBadShapeDimensionsError(KindPlane, "zero normal")
	}
	return &Plane{Normal: n}, nil
}

// Kind returns KindPlane.
func (p *Plane) Kind() Kind { return KindPlane }

// PlaneNormal returns the outward unit normal.
func (p *Plane) PlaneNormal() r3.Vector { return p.Normal }

// AABB returns the box bounding the half-space, which is unbounded except along an axis-aligned normal.
func (p *Plane) AABB(pose spatialmath.Pose) spatialmath.AABB {
	inf := math.Inf(1)
	box := spatialmath.AABB{
		Min: r3.Vector{X: -inf, Y: -inf, Z: -inf},
		Max: r3.Vector{X: inf, Y: inf, Z: inf},
	}
	n := spatialmath.RotateVector(pose, p.Normal)
	for i := 0; i < 3; i++ {
		c := spatialmath.Component(n, i)
		if math.Abs(math.Abs(c)-1) > spatialmath.FloatEpsilon {
			continue
		}
		offset := spatialmath.Component(pose.Point(), i)
		if c > 0 {
			box.Max = spatialmath.SetComponent(box.Max, i, offset)
		} else {
			box.Min = spatialmath.SetComponent(box.Min, i, offset)
		}
	}
	return box
}
