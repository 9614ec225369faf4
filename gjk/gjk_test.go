package gjk

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

func TestClosestPoints(t *testing.T) {
	opts := DefaultOptions()
	ball := &shape.Ball{Radius: 1}
	cube := &shape.Cuboid{HalfExtents: r3.Vector{X: 1, Y: 1, Z: 1}}

	t.Run("separated balls", func(t *testing.T) {
		res := ClosestPoints(opts, spatialmath.NewZeroPose(), ball, spatialmath.NewPoseFromPoint(r3.Vector{X: 3}), ball, math.Inf(1))
		test.That(t, res.Status, test.ShouldEqual, WithinMargin)
		test.That(t, res.Distance, test.ShouldAlmostEqual, 1., 1e-6)
		test.That(t, spatialmath.R3VectorAlmostEqual(res.Point1, r3.Vector{X: 1}, 1e-6), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(res.Point2, r3.Vector{X: 2}, 1e-6), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(res.Normal(), r3.Vector{X: 1}, 1e-6), test.ShouldBeTrue)
	})

	t.Run("early exit past max distance", func(t *testing.T) {
		res := ClosestPoints(opts, spatialmath.NewZeroPose(), ball, spatialmath.NewPoseFromPoint(r3.Vector{X: 3}), ball, 0.5)
		test.That(t, res.Status, test.ShouldEqual, Disjoint)
	})

	t.Run("cubes edge to face", func(t *testing.T) {
		rotated := spatialmath.NewPose(r3.Vector{X: 4}, &spatialmath.R4AA{Theta: math.Pi / 4, RZ: 1})
		res := ClosestPoints(opts, spatialmath.NewZeroPose(), cube, rotated, cube, math.Inf(1))
		test.That(t, res.Status, test.ShouldEqual, WithinMargin)
		test.That(t, res.Distance, test.ShouldAlmostEqual, 3-math.Sqrt2, 1e-9)
		test.That(t, res.Point1.X, test.ShouldAlmostEqual, 1., 1e-9)
		test.That(t, res.Point2.X, test.ShouldAlmostEqual, 4-math.Sqrt2, 1e-9)
	})

	t.Run("overlapping", func(t *testing.T) {
		res := ClosestPoints(opts, spatialmath.NewZeroPose(), cube, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5, Y: 0.2}), ball, math.Inf(1))
		test.That(t, res.Status, test.ShouldEqual, Intersecting)
		test.That(t, Distance(opts, spatialmath.NewZeroPose(), cube, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5}), ball), test.ShouldEqual, 0.)
	})

	t.Run("capsule and segment", func(t *testing.T) {
		capsule := &shape.Capsule{HalfHeight: 1, Radius: 0.5}
		seg := shape.NewSegment(r3.Vector{X: -1, Z: 3}, r3.Vector{X: 1, Z: 3})
		d := Distance(opts, spatialmath.NewZeroPose(), capsule, spatialmath.NewZeroPose(), seg)
		test.That(t, d, test.ShouldAlmostEqual, 2.5, 1e-6)
	})
}

func TestProjectPoint(t *testing.T) {
	opts := DefaultOptions()
	cube := &shape.Cuboid{HalfExtents: r3.Vector{X: 1, Y: 2, Z: 3}}
	pose := spatialmath.NewPoseFromPoint(r3.Vector{X: 10})

	proj, inside := ProjectPoint(opts, pose, cube, r3.Vector{X: 14, Y: 0.5})
	test.That(t, inside, test.ShouldBeFalse)
	test.That(t, spatialmath.R3VectorAlmostEqual(proj, r3.Vector{X: 11, Y: 0.5}, 1e-9), test.ShouldBeTrue)

	proj, inside = ProjectPoint(opts, pose, cube, r3.Vector{X: 10.5, Y: 1})
	test.That(t, inside, test.ShouldBeTrue)
	test.That(t, proj, test.ShouldResemble, r3.Vector{X: 10.5, Y: 1})

	cone := &shape.Cone{HalfHeight: 1, Radius: 1}
	proj, inside = ProjectPoint(opts, spatialmath.NewZeroPose(), cone, r3.Vector{Y: 3})
	test.That(t, inside, test.ShouldBeFalse)
	test.That(t, spatialmath.R3VectorAlmostEqual(proj, r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
}

func TestPenetration(t *testing.T) {
	opts := DefaultOptions()
	cube := &shape.Cuboid{HalfExtents: r3.Vector{X: 1, Y: 1, Z: 1}}
	ball := &shape.Ball{Radius: 1}

	t.Run("cubes", func(t *testing.T) {
		res, ok := Penetration(opts, spatialmath.NewZeroPose(), cube, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5, Y: 0.1, Z: -0.2}), cube)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, res.Depth, test.ShouldAlmostEqual, 0.5, 1e-6)
		test.That(t, spatialmath.R3VectorAlmostEqual(res.Normal, r3.Vector{X: 1}, 1e-6), test.ShouldBeTrue)
		test.That(t, res.Point1.X, test.ShouldAlmostEqual, 1., 1e-6)
		test.That(t, res.Point2.X, test.ShouldAlmostEqual, 0.5, 1e-6)
	})

	t.Run("ball into cube", func(t *testing.T) {
		res, ok := Penetration(opts, spatialmath.NewZeroPose(), cube, spatialmath.NewPoseFromPoint(r3.Vector{Z: 1.75}), ball)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, res.Depth, test.ShouldAlmostEqual, 0.25, 1e-4)
		test.That(t, spatialmath.R3VectorAlmostEqual(res.Normal, r3.Vector{Z: 1}, 1e-4), test.ShouldBeTrue)
	})

	t.Run("separated", func(t *testing.T) {
		_, ok := Penetration(opts, spatialmath.NewZeroPose(), cube, spatialmath.NewPoseFromPoint(r3.Vector{X: 5}), ball)
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestCastRay(t *testing.T) {
	opts := DefaultOptions()
	ball := &shape.Ball{Radius: 1}
	cube := &shape.Cuboid{HalfExtents: r3.Vector{X: 1, Y: 1, Z: 1}}
	ray := spatialmath.NewRay(r3.Vector{Z: -5}, r3.Vector{Z: 1})

	t.Run("ball from outside", func(t *testing.T) {
		hit, ok := CastRay(opts, spatialmath.NewZeroPose(), ball, ray, math.Inf(1), true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit.TOI, test.ShouldAlmostEqual, 4., 1e-6)
		test.That(t, spatialmath.R3VectorAlmostEqual(hit.Normal, r3.Vector{Z: -1}, 1e-6), test.ShouldBeTrue)
	})

	t.Run("cube off axis", func(t *testing.T) {
		hit, ok := CastRay(opts, spatialmath.NewPoseFromPoint(r3.Vector{X: 0.3, Y: 0.2}), cube, ray, math.Inf(1), true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit.TOI, test.ShouldAlmostEqual, 4., 1e-6)
		test.That(t, spatialmath.R3VectorAlmostEqual(hit.Normal, r3.Vector{Z: -1}, 1e-6), test.ShouldBeTrue)
	})

	t.Run("miss", func(t *testing.T) {
		_, ok := CastRay(opts, spatialmath.NewPoseFromPoint(r3.Vector{X: 3}), ball, ray, math.Inf(1), true)
		test.That(t, ok, test.ShouldBeFalse)
		_, ok = CastRay(opts, spatialmath.NewZeroPose(), ball, ray, 3, true)
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("inside", func(t *testing.T) {
		inner := spatialmath.NewRay(r3.Vector{}, r3.Vector{Z: 1})
		hit, ok := CastRay(opts, spatialmath.NewZeroPose(), cube, inner, math.Inf(1), true)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit.TOI, test.ShouldEqual, 0.)
		test.That(t, hit.Normal, test.ShouldResemble, r3.Vector{})

		hit, ok = CastRay(opts, spatialmath.NewZeroPose(), cube, inner, math.Inf(1), false)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit.TOI, test.ShouldAlmostEqual, 1., 1e-6)
		test.That(t, spatialmath.R3VectorAlmostEqual(hit.Normal, r3.Vector{Z: -1}, 1e-6), test.ShouldBeTrue)
	})
}

func TestTimeOfImpact(t *testing.T) {
	opts := DefaultOptions()
	ball := &shape.Ball{Radius: 1}
	cube := &shape.Cuboid{HalfExtents: r3.Vector{X: 1, Y: 1, Z: 1}}

	toi, ok := TimeOfImpact(opts,
		spatialmath.NewZeroPose(), r3.Vector{X: 1}, ball,
		spatialmath.NewPoseFromPoint(r3.Vector{X: 10}), r3.Vector{}, ball,
		math.Inf(1))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldAlmostEqual, 8., 1e-5)

	toi, ok = TimeOfImpact(opts,
		spatialmath.NewZeroPose(), r3.Vector{}, cube,
		spatialmath.NewPoseFromPoint(r3.Vector{Y: 6}), r3.Vector{Y: -2}, cube,
		math.Inf(1))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldAlmostEqual, 2., 1e-5)

	_, ok = TimeOfImpact(opts,
		spatialmath.NewZeroPose(), r3.Vector{}, cube,
		spatialmath.NewPoseFromPoint(r3.Vector{Y: 6}), r3.Vector{Y: -2}, cube,
		1.5)
	test.That(t, ok, test.ShouldBeFalse)

	_, ok = TimeOfImpact(opts,
		spatialmath.NewZeroPose(), r3.Vector{X: -1}, ball,
		spatialmath.NewPoseFromPoint(r3.Vector{X: 10}), r3.Vector{}, ball,
		math.Inf(1))
	test.That(t, ok, test.ShouldBeFalse)

	toi, ok = TimeOfImpact(opts,
		spatialmath.NewZeroPose(), r3.Vector{}, cube,
		spatialmath.NewPoseFromPoint(r3.Vector{X: 0.5}), r3.Vector{X: 5}, ball,
		math.Inf(1))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldEqual, 0.)
}
