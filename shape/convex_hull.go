package shape

import (
	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// ConvexHull is the solid convex hull of a point cloud. The points need not all be hull vertices.
type ConvexHull struct {
	points []r3.Vector
	local  spatialmath.AABB
}

// NewConvexHull returns the convex hull of the given points, which are copied.
func NewConvexHull(points []r3.Vector) (*ConvexHull, error) {
	if len(points) == 0 {
		return nil, newBadShapeDimensionsError(KindConvexHull, "no points")
	}
	pts := make([]r3.Vector, len(points))
	copy(pts, points)
	return &ConvexHull{points: pts, local: spatialmath.AABBFromPoints(pts...)}, nil
}

// Kind returns KindConvexHull.
func (h *ConvexHull) Kind() Kind { return KindConvexHull }

// Points returns the points the hull was built from.
func (h *ConvexHull) Points() []r3.Vector {
	return h.points
}

// AABB returns the box bounding the hull under pose.
func (h *ConvexHull) AABB(pose spatialmath.Pose) spatialmath.AABB {
	return supportAABB(pose, h)
}

// LocalSupportPoint returns the point furthest along dir. Ties keep the earliest point.
func (h *ConvexHull) LocalSupportPoint(dir r3.Vector) r3.Vector {
	return maxDot(h.points, dir)
}

func maxDot(pts []r3.Vector, dir r3.Vector) r3.Vector {
	best := pts[0]
	bestDot := best.Dot(dir)
	for _, pt := range pts[1:] {
		if d := pt.Dot(dir); d > bestDot {
			best, bestDot = pt, d
		}
	}
	return best
}
