package contact

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// orientedBox is a cuboid in world space, used as an independent oracle for cuboid overlap.
type orientedBox struct {
	center r3.Vector
	axes   [3]r3.Vector
	half   r3.Vector
}

func newOrientedBox(pose spatialmath.Pose, half r3.Vector) orientedBox {
	rm := spatialmath.QuatToRotationMatrix(pose.Orientation().Quaternion())
	return orientedBox{pose.Point(), [3]r3.Vector{rm.Col(0), rm.Col(1), rm.Col(2)}, half}
}

// boxesOverlap runs the separating axis test over the 15 candidate axes of two boxes.
// reference: https://gamedev.stackexchange.com/questions/112883/simple-3d-obb-collision-directx9-c
func boxesOverlap(a, b orientedBox) bool {
	delta := a.center.Sub(b.center)
	candidates := make([]r3.Vector, 0, 15)
	candidates = append(candidates, a.axes[:]...)
	candidates = append(candidates, b.axes[:]...)
	for _, u := range a.axes {
		for _, v := range b.axes {
			candidates = append(candidates, u.Cross(v))
		}
	}
	for _, axis := range candidates {
		if separatingPlaneTest(delta, axis, a, b) {
			return false
		}
	}
	return true
}

func separatingPlaneTest(delta, plane r3.Vector, a, b orientedBox) bool {
	return math.Abs(delta.Dot(plane)) > (math.Abs(a.axes[0].Mul(a.half.X).Dot(plane)) +
		math.Abs(a.axes[1].Mul(a.half.Y).Dot(plane)) +
		math.Abs(a.axes[2].Mul(a.half.Z).Dot(plane)) +
		math.Abs(b.axes[0].Mul(b.half.X).Dot(plane)) +
		math.Abs(b.axes[1].Mul(b.half.Y).Dot(plane)) +
		math.Abs(b.axes[2].Mul(b.half.Z).Dot(plane)))
}

func randomPose(rng *rand.Rand, spread float64) spatialmath.Pose {
	pt := r3.Vector{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5, Z: rng.Float64() - 0.5}.Mul(spread)
	aa := &spatialmath.R4AA{Theta: rng.Float64() * math.Pi, RX: rng.Float64() - 0.5, RY: rng.Float64() - 0.5, RZ: rng.Float64() + 0.1}
	return spatialmath.NewPose(pt, aa)
}

func TestCuboidOverlapMatchesSeparatingAxes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	halfA := r3.Vector{X: 1, Y: 0.5, Z: 0.75}
	halfB := r3.Vector{X: 0.25, Y: 1.5, Z: 0.5}
	cubeA := &shape.Cuboid{HalfExtents: halfA}
	cubeB := &shape.Cuboid{HalfExtents: halfB}

	checked := 0
	for i := 0; i < 200; i++ {
		poseA := randomPose(rng, 1)
		poseB := randomPose(rng, 5)
		c, err := AnyAgainstAny(poseA, cubeA, poseB, cubeB, 0)
		test.That(t, err, test.ShouldBeNil)
		if c != nil && math.Abs(c.Depth) < 1e-6 {
			// grazing contacts are too close to call for either test
			continue
		}
		checked++
		test.That(t, c != nil, test.ShouldEqual, boxesOverlap(newOrientedBox(poseA, halfA), newOrientedBox(poseB, halfB)))
		if c != nil {
			test.That(t, c.Depth, test.ShouldBeLessThan, 0)
			test.That(t, c.Normal.Norm(), test.ShouldAlmostEqual, 1., 1e-9)
		}
	}
	test.That(t, checked, test.ShouldBeGreaterThan, 150)
}
