package gjk

import (
	"github.com/golang/geo/r3"

	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// Support is a world space support function: it returns a point of a convex set furthest along dir.
type Support func(dir r3.Vector) r3.Vector

// Placed returns the support function of sm placed by pose.
func Placed(pose spatialmath.Pose, sm shape.SupportMap) Support {
	return func(dir r3.Vector) r3.Vector {
		return shape.SupportPoint(pose, sm, dir)
	}
}

// PointSupport returns the support function of a single point.
func PointSupport(pt r3.Vector) Support {
	return func(r3.Vector) r3.Vector { return pt }
}

// Translated returns s moved by offset.
func (s Support) Translated(offset r3.Vector) Support {
	return func(dir r3.Vector) r3.Vector { return s(dir).Add(offset) }
}

// vertex is a point of the Minkowski difference A - B together with the support points it came from.
type vertex struct {
	w r3.Vector
	a r3.Vector
	b r3.Vector
}

func minkowskiSupport(supA, supB Support, dir r3.Vector) vertex {
	a := supA(dir)
	b := supB(dir.Mul(-1))
	return vertex{w: a.Sub(b), a: a, b: b}
}
