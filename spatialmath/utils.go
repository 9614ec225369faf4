package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats/scalar"
)

// floatEpsilon is the tolerance used for near-zero checks on lengths and denominators.
const floatEpsilon = 1e-10

// FloatEpsilon exposes the near-zero tolerance to the query packages.
const FloatEpsilon = floatEpsilon

// Float64AlmostEqual compares two floats within an absolute tolerance.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return scalar.EqualWithinAbs(a, b, epsilon)
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// NormalizeOrZero returns the unit vector in the direction of v, and false if v is too short to have a direction.
func NormalizeOrZero(v r3.Vector) (r3.Vector, bool) {
	n := v.Norm()
	if n < floatEpsilon {
		return r3.Vector{}, false
	}
	return v.Mul(1 / n), true
}

// Component returns the i'th coordinate of v, with 0, 1, 2 being X, Y, Z.
func Component(v r3.Vector, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// SetComponent returns a copy of v with its i'th coordinate replaced.
func SetComponent(v r3.Vector, i int, val float64) r3.Vector {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	default:
		v.Z = val
	}
	return v
}
