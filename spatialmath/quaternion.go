package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

type quaternion quat.Number

// Quaternion returns the orientation as a unit quaternion.
func (q *quaternion) Quaternion() quat.Number {
	return quat.Number(*q)
}

// QuatToR4AA converts a quaternion to an axis angle with the angle in [-pi, pi]. Rotations too
// small to have a reliable axis report +Z.
func QuatToR4AA(q quat.Number) R4AA {
	denom := imagNorm(q)

	angle := 2 * math.Atan2(denom, math.Abs(q.Real))
	if q.Real < 0 {
		angle *= -1
	}

	if denom < 1e-6 {
		return R4AA{Theta: angle, RX: 0, RY: 0, RZ: 1}
	}
	return R4AA{angle, q.Imag / denom, q.Jmag / denom, q.Kmag / denom}
}

// QuatToRotationMatrix converts a quat to a row-major 3x3 rotation matrix.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &RotationMatrix{[9]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	}}
}

// QuaternionAlmostEqual is an equality test for two quaternions. Since q and -q describe the same rotation
// both signs are accepted.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	same := Float64AlmostEqual(a.Real, b.Real, tol) &&
		Float64AlmostEqual(a.Imag, b.Imag, tol) &&
		Float64AlmostEqual(a.Jmag, b.Jmag, tol) &&
		Float64AlmostEqual(a.Kmag, b.Kmag, tol)
	if same {
		return true
	}
	return Float64AlmostEqual(a.Real, -b.Real, tol) &&
		Float64AlmostEqual(a.Imag, -b.Imag, tol) &&
		Float64AlmostEqual(a.Jmag, -b.Jmag, tol) &&
		Float64AlmostEqual(a.Kmag, -b.Kmag, tol)
}

// Normalize scales a quaternion to unit length. The zero quaternion normalizes to the identity.
func Normalize(q quat.Number) quat.Number {
	norm := quat.Abs(q)
	if norm == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/norm, q)
}

// rotate applies the rotation described by the unit quaternion q to the vector v.
func rotate(q quat.Number, v r3.Vector) r3.Vector {
	// q * (0, v) * q^-1, expanded to avoid two full quaternion products.
	u := r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	t := u.Cross(v).Mul(2)
	return v.Add(t.Mul(q.Real)).Add(u.Cross(t))
}

// imagNorm returns the norm of the imaginary part of the quaternion.
func imagNorm(q quat.Number) float64 {
	return math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}
