package shape

import (
	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// Triangle is a flat triangle with vertices A, B, C. It has no interior; its normal follows the
// right hand rule on A, B, C.
type Triangle struct {
	A r3.Vector
	B r3.Vector
	C r3.Vector
}

// NewTriangle returns the triangle with the given vertices.
func NewTriangle(a, b, c r3.Vector) *Triangle {
	return &Triangle{A: a, B: b, C: c}
}

// Kind returns KindTriangle.
func (t *Triangle) Kind() Kind { return KindTriangle }

// IsHollow returns true.
func (t *Triangle) IsHollow() bool { return true }

// Points returns the three vertices.
func (t *Triangle) Points() [3]r3.Vector {
	return [3]r3.Vector{t.A, t.B, t.C}
}

// Normal returns the unit normal, or the zero vector for a degenerate triangle.
func (t *Triangle) Normal() r3.Vector {
	return spatialmath.PlaneNormal(t.A, t.B, t.C)
}

// AABB returns the box bounding the triangle under pose.
func (t *Triangle) AABB(pose spatialmath.Pose) spatialmath.AABB {
	return spatialmath.AABBFromPoints(
		spatialmath.TransformPoint(pose, t.A),
		spatialmath.TransformPoint(pose, t.B),
		spatialmath.TransformPoint(pose, t.C),
	)
}

// LocalSupportPoint returns the vertex furthest along dir.
func (t *Triangle) LocalSupportPoint(dir r3.Vector) r3.Vector {
	pts := t.Points()
	return maxDot(pts[:], dir)
}

// ClosestPoint returns the point of the triangle nearest to pt and its barycentric weights.
func (t *Triangle) ClosestPoint(pt r3.Vector) (r3.Vector, [3]float64) {
	return spatialmath.ClosestPointTrianglePoint(t.A, t.B, t.C, pt)
}
