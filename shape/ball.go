package shape

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// Ball is a solid sphere centered on its local origin. A zero radius ball is a point.
type Ball struct {
	Radius float64
}

// NewBall returns a ball of the given radius.
func NewBall(radius float64) (*Ball, error) {
	if radius < 0 || math.IsNaN(radius) {
		return nil, newBadShapeDimensionsError(KindBall, "radius %v", radius)
	}
	return &Ball{Radius: radius}, nil
}

// Kind returns KindBall.
func (b *Ball) Kind() Kind { return KindBall }

// BallRadius returns the radius.
func (b *Ball) BallRadius() float64 { return b.Radius }

// AABB returns the box bounding the ball under pose.
func (b *Ball) AABB(pose spatialmath.Pose) spatialmath.AABB {
	r := b.Radius
	return spatialmath.NewAABBFromCenter(pose.Point(), r3.Vector{X: r, Y: r, Z: r})
}

// LocalSupportPoint returns the point of the sphere along dir.
func (b *Ball) LocalSupportPoint(dir r3.Vector) r3.Vector {
	return unit(dir).Mul(b.Radius)
}
