package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// EulerAngles are Tait-Bryan angles in radians, applied in z-y'-x'' order.
type EulerAngles struct {
	Roll  float64 `json:"roll"`  // X
	Pitch float64 `json:"pitch"` // Y
	Yaw   float64 `json:"yaw"`   // Z
}

// Quaternion returns the unit quaternion of the rotation.
func (ea *EulerAngles) Quaternion() quat.Number {
	cy, sy := math.Cos(ea.Yaw*0.5), math.Sin(ea.Yaw*0.5)
	cp, sp := math.Cos(ea.Pitch*0.5), math.Sin(ea.Pitch*0.5)
	cr, sr := math.Cos(ea.Roll*0.5), math.Sin(ea.Roll*0.5)

	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}
