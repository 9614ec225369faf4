// Package spatialmath defines spatial mathematical operations: rigid poses, orientations,
// axis-aligned bounding boxes, rays and the closest-point helpers the query engines share.
package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a rigid transform: a rotation followed by a translation.
// Poses are immutable once constructed.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

type pose struct {
	point r3.Vector
	rot   quat.Number
}

// NewZeroPose returns a pose at (0,0,0) with no rotation, the identity transform.
func NewZeroPose() Pose {
	return &pose{rot: quat.Number{Real: 1}}
}

// NewPose returns a pose at the given point with the given orientation. A nil orientation means no rotation.
func NewPose(point r3.Vector, o Orientation) Pose {
	if o == nil {
		o = NewZeroOrientation()
	}
	return &pose{point: point, rot: Normalize(o.Quaternion())}
}

// NewPoseFromPoint returns a pose that only translates.
func NewPoseFromPoint(point r3.Vector) Pose {
	return NewPose(point, nil)
}

// NewPoseFromOrientation returns a pose that only rotates.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

func (p *pose) Point() r3.Vector {
	return p.point
}

func (p *pose) Orientation() Orientation {
	q := quaternion(p.rot)
	return &q
}

func (p *pose) String() string {
	aa := QuatToR4AA(p.rot)
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f th:%.3f axis:(%.3f %.3f %.3f)}",
		p.point.X, p.point.Y, p.point.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)
}

func toPose(p Pose) *pose {
	if internal, ok := p.(*pose); ok {
		return internal
	}
	return &pose{point: p.Point(), rot: Normalize(p.Orientation().Quaternion())}
}

// Compose returns the pose that applies b and then a, i.e. a*b in transform notation.
// Compose is associative and NewZeroPose is its identity.
func Compose(a, b Pose) Pose {
	pa, pb := toPose(a), toPose(b)
	return &pose{
		point: pa.point.Add(rotate(pa.rot, pb.point)),
		rot:   Normalize(quat.Mul(pa.rot, pb.rot)),
	}
}

// PoseInverse returns the pose that undoes p, so that Compose(p, PoseInverse(p)) is the identity.
func PoseInverse(p Pose) Pose {
	pp := toPose(p)
	inv := quat.Conj(pp.rot)
	return &pose{
		point: rotate(inv, pp.point).Mul(-1),
		rot:   inv,
	}
}

// PoseBetween returns the pose that takes a to b, i.e. Compose(a, PoseBetween(a, b)) equals b.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint maps a point from the local frame of p into the frame p is expressed in.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	pp := toPose(p)
	return pp.point.Add(rotate(pp.rot, pt))
}

// InverseTransformPoint maps a point into the local frame of p. It undoes TransformPoint.
func InverseTransformPoint(p Pose, pt r3.Vector) r3.Vector {
	pp := toPose(p)
	return rotate(quat.Conj(pp.rot), pt.Sub(pp.point))
}

// RotateVector applies only the rotation of p to a direction.
func RotateVector(p Pose, v r3.Vector) r3.Vector {
	return rotate(toPose(p).rot, v)
}

// InverseRotateVector applies the inverse rotation of p to a direction.
func InverseRotateVector(p Pose, v r3.Vector) r3.Vector {
	return rotate(quat.Conj(toPose(p).rot), v)
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same within the given epsilon.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) &&
		QuaternionAlmostEqual(a.Orientation().Quaternion(), b.Orientation().Quaternion(), epsilon)
}

// PoseAlmostCoincident will return a bool describing whether 2 poses approximately are at the same 3D coordinate location.
func PoseAlmostCoincident(a, b Pose) bool {
	return PoseAlmostCoincidentEps(a, b, 1e-8)
}

// PoseAlmostCoincidentEps will return a bool describing whether 2 poses approximately are at the same 3D coordinate location.
func PoseAlmostCoincidentEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon)
}
