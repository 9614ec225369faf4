package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// R4AA is a rotation of Theta radians about the axis (RX, RY, RZ). The axis need not be unit
// length; it is normalized when converted.
type R4AA struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

// Quaternion normalizes the axis in place and returns the unit quaternion of the rotation.
// A zero angle is the identity whatever the axis.
func (r4 *R4AA) Quaternion() quat.Number {
	if r4.Theta == 0 {
		return quat.Number{Real: 1}
	}
	r4.Normalize()
	sinA := math.Sin(r4.Theta / 2)
	return quat.Number{
		Real: math.Cos(r4.Theta / 2),
		Imag: r4.RX * sinA,
		Jmag: r4.RY * sinA,
		Kmag: r4.RZ * sinA,
	}
}

// Normalize scales the axis to unit length. A zero axis becomes +Z.
func (r4 *R4AA) Normalize() {
	norm := math.Sqrt(r4.RX*r4.RX + r4.RY*r4.RY + r4.RZ*r4.RZ)
	if norm == 0 {
		r4.RZ = 1
		return
	}
	r4.RX /= norm
	r4.RY /= norm
	r4.RZ /= norm
}
