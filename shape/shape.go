// Package shape defines the shapes understood by the query engines and the registry that maps
// every shape kind to the capabilities dispatch resolves it through. Shapes are described in
// their own local frame and placed in the world by a separate spatialmath.Pose.
package shape

import (
	"github.com/golang/geo/r3"

	"go.viam.com/collide/bvt"
	"go.viam.com/collide/spatialmath"
)

// Shape is anything that can take part in a query.
type Shape interface {
	Kind() Kind
	// AABB returns a box bounding the shape once placed by pose.
	AABB(pose spatialmath.Pose) spatialmath.AABB
}

// BallShape is a shape with a dedicated sphere algorithm; it is centered on its local origin.
type BallShape interface {
	Shape
	BallRadius() float64
}

// PlaneShape is a shape with a dedicated half-space algorithm. The plane passes through its local
// origin and its interior lies opposite the unit normal.
type PlaneShape interface {
	Shape
	PlaneNormal() r3.Vector
}

// SupportMap is a convex shape described by its support function.
type SupportMap interface {
	Shape
	// LocalSupportPoint returns a point of the shape, in its local frame, that is furthest along dir.
	LocalSupportPoint(dir r3.Vector) r3.Vector
}

// Composite is a shape made of children indexed by a bounding volume tree. The tree's volumes and
// the child poses are expressed in the composite's local frame.
type Composite interface {
	Shape
	Len() int
	ChildAt(i int) (spatialmath.Pose, Shape)
	BVT() *bvt.BVT
	BoundingVolumeOf(i int) spatialmath.AABB
}

// Hollow is implemented by shapes with no interior, such as surfaces and curves.
type Hollow interface {
	IsHollow() bool
}

// IsHollow reports whether the shape has no interior.
func IsHollow(s Shape) bool {
	h, ok := s.(Hollow)
	return ok && h.IsHollow()
}

// SupportPoint returns the support point of sm placed by pose along the world direction dir.
func SupportPoint(pose spatialmath.Pose, sm SupportMap, dir r3.Vector) r3.Vector {
	local := sm.LocalSupportPoint(spatialmath.InverseRotateVector(pose, dir))
	return spatialmath.TransformPoint(pose, local)
}

// supportAABB returns the exact box of a convex shape by querying its support along the six axis directions.
func supportAABB(pose spatialmath.Pose, sm SupportMap) spatialmath.AABB {
	axes := [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
	var lo, hi [3]float64
	for i, axis := range axes {
		hi[i] = SupportPoint(pose, sm, axis).Dot(axis)
		lo[i] = SupportPoint(pose, sm, axis.Mul(-1)).Dot(axis)
	}
	return spatialmath.AABB{
		Min: r3.Vector{X: lo[0], Y: lo[1], Z: lo[2]},
		Max: r3.Vector{X: hi[0], Y: hi[1], Z: hi[2]},
	}
}

// unit returns the normalized direction, or the X axis for vectors too short to have one.
func unit(dir r3.Vector) r3.Vector {
	if n, ok := spatialmath.NormalizeOrZero(dir); ok {
		return n
	}
	return r3.Vector{X: 1}
}
