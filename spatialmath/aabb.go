package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// AABB is an axis-aligned bounding box described by its two extreme corners.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// NewAABB returns the box spanning the two given corners, in any order.
func NewAABB(a, b r3.Vector) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// NewAABBFromCenter returns the box with the given center and half extents.
func NewAABBFromCenter(center, halfExtents r3.Vector) AABB {
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

// EmptyAABB returns an inverted box that contains nothing and is the identity of Merged.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: r3.Vector{X: inf, Y: inf, Z: inf},
		Max: r3.Vector{X: -inf, Y: -inf, Z: -inf},
	}
}

// AABBFromPoints returns the smallest box containing all the given points.
func AABBFromPoints(pts ...r3.Vector) AABB {
	box := EmptyAABB()
	for _, pt := range pts {
		box = box.MergedPoint(pt)
	}
	return box
}

func (b AABB) String() string {
	return fmt.Sprintf("AABB{min: (%.3f, %.3f, %.3f), max: (%.3f, %.3f, %.3f)}",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

// IsEmpty reports whether the box is inverted along any axis.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the center of the box.
func (b AABB) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfExtents returns half of the size of the box along each axis.
func (b AABB) HalfExtents() r3.Vector {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// LongestAxis returns the 0, 1, 2 index of the axis along which the box is the longest.
// Ties favor the lower index.
func (b AABB) LongestAxis() int {
	ext := b.Max.Sub(b.Min)
	axis := 0
	if ext.Y > ext.X {
		axis = 1
	}
	if ext.Z > Component(ext, axis) {
		axis = 2
	}
	return axis
}

// Merged returns the smallest box containing both boxes.
func (b AABB) Merged(other AABB) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y), Z: math.Min(b.Min.Z, other.Min.Z)},
		Max: r3.Vector{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y), Z: math.Max(b.Max.Z, other.Max.Z)},
	}
}

// MergedPoint returns the smallest box containing the box and the point.
func (b AABB) MergedPoint(pt r3.Vector) AABB {
	return b.Merged(AABB{Min: pt, Max: pt})
}

// Loosened returns the box grown by margin in every direction.
func (b AABB) Loosened(margin float64) AABB {
	m := r3.Vector{X: margin, Y: margin, Z: margin}
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Contains reports whether other lies entirely within the box. Boundaries count as inside.
func (b AABB) Contains(other AABB) bool {
	return b.Min.X <= other.Min.X && b.Min.Y <= other.Min.Y && b.Min.Z <= other.Min.Z &&
		b.Max.X >= other.Max.X && b.Max.Y >= other.Max.Y && b.Max.Z >= other.Max.Z
}

// ContainsPoint reports whether the point lies within the box. Boundaries count as inside.
func (b AABB) ContainsPoint(pt r3.Vector) bool {
	return b.Min.X <= pt.X && pt.X <= b.Max.X &&
		b.Min.Y <= pt.Y && pt.Y <= b.Max.Y &&
		b.Min.Z <= pt.Z && pt.Z <= b.Max.Z
}

// Intersects reports whether the two boxes overlap. Touching faces count as overlapping.
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// ClosestPoint returns the point of the box nearest to pt. Points inside the box are returned unchanged.
func (b AABB) ClosestPoint(pt r3.Vector) r3.Vector {
	return r3.Vector{
		X: math.Max(b.Min.X, math.Min(pt.X, b.Max.X)),
		Y: math.Max(b.Min.Y, math.Min(pt.Y, b.Max.Y)),
		Z: math.Max(b.Min.Z, math.Min(pt.Z, b.Max.Z)),
	}
}

// DistanceToPoint returns the distance from the point to the box, zero if it is inside.
func (b AABB) DistanceToPoint(pt r3.Vector) float64 {
	return pt.Sub(b.ClosestPoint(pt)).Norm()
}

// DistanceToAABB returns the gap between the two boxes, zero if they overlap.
func (b AABB) DistanceToAABB(other AABB) float64 {
	dx := math.Max(0, math.Max(other.Min.X-b.Max.X, b.Min.X-other.Max.X))
	dy := math.Max(0, math.Max(other.Min.Y-b.Max.Y, b.Min.Y-other.Max.Y))
	dz := math.Max(0, math.Max(other.Min.Z-b.Max.Z, b.Min.Z-other.Max.Z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// SeparationLowerBound bounds from below the signed separation of any two shapes the boxes contain.
// Disjoint boxes give their gap, overlapping boxes minus the shortest axis translation that separates them.
func (b AABB) SeparationLowerBound(other AABB) float64 {
	if !b.Intersects(other) {
		return b.DistanceToAABB(other)
	}
	shortest := math.Inf(1)
	for i := 0; i < 3; i++ {
		up := Component(b.Max, i) - Component(other.Min, i)
		down := Component(other.Max, i) - Component(b.Min, i)
		shortest = math.Min(shortest, math.Min(up, down))
	}
	return -shortest
}

// Transform returns the axis-aligned box bounding this box once moved by the pose.
func (b AABB) Transform(p Pose) AABB {
	if b.IsEmpty() {
		return b
	}
	rm := QuatToRotationMatrix(toPose(p).rot)
	center := TransformPoint(p, b.Center())
	half := b.HalfExtents()
	var ext [3]float64
	for i := 0; i < 3; i++ {
		row := rm.Row(i)
		ext[i] = math.Abs(row.X)*half.X + math.Abs(row.Y)*half.Y + math.Abs(row.Z)*half.Z
	}
	return NewAABBFromCenter(center, r3.Vector{X: ext[0], Y: ext[1], Z: ext[2]})
}

// RayEntry returns the first time in [0, maxToi] at which the ray is inside the box, using the slab method.
// A ray starting inside the box enters at zero.
func (b AABB) RayEntry(ray Ray, maxToi float64) (float64, bool) {
	tmin := 0.0
	tmax := maxToi
	for i := 0; i < 3; i++ {
		o := Component(ray.Origin, i)
		d := Component(ray.Dir, i)
		lo := Component(b.Min, i)
		hi := Component(b.Max, i)
		if math.Abs(d) < floatEpsilon {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (lo - o) * inv
		t2 := (hi - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// SweepEntry returns the first time in [0, maxToi] at which moving, translated by vel per unit time,
// touches the box. Overlapping boxes touch at zero.
func (b AABB) SweepEntry(moving AABB, vel r3.Vector, maxToi float64) (float64, bool) {
	grown := AABB{Min: b.Min.Sub(moving.HalfExtents()), Max: b.Max.Add(moving.HalfExtents())}
	return grown.RayEntry(Ray{Origin: moving.Center(), Dir: vel}, maxToi)
}
