package shape

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// Cuboid is a solid box centered on its local origin and aligned with its local axes.
type Cuboid struct {
	HalfExtents r3.Vector
}

// NewCuboid returns a box with the given half extents. Zero extents are allowed for flat boxes.
func NewCuboid(halfExtents r3.Vector) (*Cuboid, error) {
	if halfExtents.X < 0 || halfExtents.Y < 0 || halfExtents.Z < 0 || math.IsNaN(halfExtents.Norm2()) {
		return nil, newBadShapeDimensionsError(KindCuboid, "half extents %v", halfExtents)
	}
	return &Cuboid{HalfExtents: halfExtents}, nil
}

// Kind returns KindCuboid.
func (c *Cuboid) Kind() Kind { return KindCuboid }

// LocalAABB is the box in its own frame.
func (c *Cuboid) LocalAABB() spatialmath.AABB {
	return spatialmath.NewAABBFromCenter(r3.Vector{}, c.HalfExtents)
}

// AABB returns the box bounding the cuboid under pose.
func (c *Cuboid) AABB(pose spatialmath.Pose) spatialmath.AABB {
	return c.LocalAABB().Transform(pose)
}

// LocalSupportPoint returns the vertex furthest along dir.
func (c *Cuboid) LocalSupportPoint(dir r3.Vector) r3.Vector {
	return r3.Vector{
		X: math.Copysign(c.HalfExtents.X, signOrPositive(dir.X)),
		Y: math.Copysign(c.HalfExtents.Y, signOrPositive(dir.Y)),
		Z: math.Copysign(c.HalfExtents.Z, signOrPositive(dir.Z)),
	}
}

// Vertices returns the eight corners of the box in its local frame.
func (c *Cuboid) Vertices() []r3.Vector {
	verts := make([]r3.Vector, 0, 8)
	for _, v := range cuboidVertices {
		verts = append(verts, r3.Vector{X: v.X * c.HalfExtents.X, Y: v.Y * c.HalfExtents.Y, Z: v.Z * c.HalfExtents.Z})
	}
	return verts
}

// Ordered list of unit cuboid vertices.
var cuboidVertices = [8]r3.Vector{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: -1},
}

// signOrPositive maps zero, including negative zero, to 1 so that ties pick the positive side.
func signOrPositive(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
