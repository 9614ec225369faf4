package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 rotation in row major order, m[3*r + c] being row r and column c.
type RotationMatrix struct {
	mat [9]float64
}

// NewOrientationFromMatrix builds an orientation from a rotation matrix.
func NewOrientationFromMatrix(m mgl64.Mat3) Orientation {
	mq := mgl64.Mat4ToQuat(m.Mat4())
	q := quaternion(Normalize(quat.Number{Real: mq.W, Imag: mq.V[0], Jmag: mq.V[1], Kmag: mq.V[2]}))
	return &q
}

// Quaternion converts the matrix through mathgl.
func (rm *RotationMatrix) Quaternion() quat.Number {
	return NewOrientationFromMatrix(rm.Mat3()).Quaternion()
}

// At returns the float corresponding to the element at the specified location.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[3*row+col]
}

// Row returns the vector corresponding to the specified row.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[3*row], Y: rm.mat[3*row+1], Z: rm.mat[3*row+2]}
}

// Col returns the vector corresponding to the specified column. Column i is the image of
// the i'th basis vector, which is the i'th axis of the rotated frame.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat[col], Y: rm.mat[3+col], Z: rm.mat[6+col]}
}

// Mat3 converts the matrix to its column major mathgl form.
func (rm *RotationMatrix) Mat3() mgl64.Mat3 {
	m := rm.mat
	return mgl64.Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}
