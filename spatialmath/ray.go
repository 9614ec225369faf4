package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Ray is a half line starting at Origin and extending along Dir. Dir need not be unit length;
// times of impact are multiples of Dir.
type Ray struct {
	Origin r3.Vector
	Dir    r3.Vector
}

// NewRay returns a ray from origin along dir.
func NewRay(origin, dir r3.Vector) Ray {
	return Ray{Origin: origin, Dir: dir}
}

// PointAt returns the point reached by the ray at time t.
func (r Ray) PointAt(t float64) r3.Vector {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Transform maps a ray expressed in the local frame of p into the frame p is expressed in.
func (r Ray) Transform(p Pose) Ray {
	return Ray{Origin: TransformPoint(p, r.Origin), Dir: RotateVector(p, r.Dir)}
}

// InverseTransform maps a ray into the local frame of p. Times of impact are preserved since poses are rigid.
func (r Ray) InverseTransform(p Pose) Ray {
	return Ray{Origin: InverseTransformPoint(p, r.Origin), Dir: InverseRotateVector(p, r.Dir)}
}

// IsDegenerate reports whether the ray has no usable direction.
func (r Ray) IsDegenerate() bool {
	return r.Dir.Norm2() < floatEpsilon*floatEpsilon
}
