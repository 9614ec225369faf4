package spatialmath

import (
	"gonum.org/v1/gonum/num/quat"
)

// Orientation is the rotation part of a pose. It can be given as an axis angle (R4AA), Euler angles
// or a rotation matrix; poses store the unit quaternion, so that is the only conversion required.
type Orientation interface {
	Quaternion() quat.Number
}

// NewZeroOrientation returns the identity rotation.
func NewZeroOrientation() Orientation {
	return &quaternion{Real: 1}
}
