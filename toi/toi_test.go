package toi

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

func TestBallBall(t *testing.T) {
	ball := &shape.Ball{Radius: 1}
	origin := spatialmath.NewZeroPose()
	far := spatialmath.NewPoseFromPoint(r3.Vector{X: 10})

	for _, tc := range []struct {
		name       string
		vel1, vel2 r3.Vector
		horizon    float64
		hit        bool
		toi        float64
	}{
		{"second approaching", r3.Vector{}, r3.Vector{X: -1}, 100, true, 8},
		{"both approaching", r3.Vector{X: 0.5}, r3.Vector{X: -0.5}, 100, true, 8},
		{"past horizon", r3.Vector{}, r3.Vector{X: -1}, 5, false, 0},
		{"separating", r3.Vector{}, r3.Vector{X: 1}, 100, false, 0},
		{"passing by", r3.Vector{}, r3.Vector{Y: 1}, 100, false, 0},
		{"at rest", r3.Vector{}, r3.Vector{}, 100, false, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			toi, ok, err := AnyAgainstAnyWithHorizon(origin, tc.vel1, ball, far, tc.vel2, ball, tc.horizon)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, ok, test.ShouldEqual, tc.hit)
			if tc.hit {
				test.That(t, toi, test.ShouldAlmostEqual, tc.toi)
			}
		})
	}

	toi, ok, err := AnyAgainstAny(origin, r3.Vector{}, ball, spatialmath.NewPoseFromPoint(r3.Vector{X: 1}), r3.Vector{X: 1}, ball)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldEqual, 0.)
}

func TestIdempotent(t *testing.T) {
	ball := &shape.Ball{Radius: 1}
	cube := &shape.Cuboid{HalfExtents: r3.Vector{X: 1, Y: 1, Z: 1}}
	pose := spatialmath.NewPoseFromPoint(r3.Vector{X: 10, Y: 0.5})
	first, ok1, err1 := AnyAgainstAny(spatialmath.NewZeroPose(), r3.Vector{}, cube, pose, r3.Vector{X: -2}, ball)
	second, ok2, err2 := AnyAgainstAny(spatialmath.NewZeroPose(), r3.Vector{}, cube, pose, r3.Vector{X: -2}, ball)
	test.That(t, err1, test.ShouldBeNil)
	test.That(t, err2, test.ShouldBeNil)
	test.That(t, ok1, test.ShouldBeTrue)
	test.That(t, ok2, test.ShouldBeTrue)
	test.That(t, first, test.ShouldEqual, second)
	test.That(t, first, test.ShouldAlmostEqual, 4., 1e-4)
}

func TestPlaneSupport(t *testing.T) {
	plane := &shape.Plane{Normal: r3.Vector{Z: 1}}
	ball := &shape.Ball{Radius: 1}
	high := spatialmath.NewPoseFromPoint(r3.Vector{Z: 5})

	toi, ok, err := AnyAgainstAny(spatialmath.NewZeroPose(), r3.Vector{}, plane, high, r3.Vector{X: 3, Z: -2}, ball)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldAlmostEqual, 2.)

	toi, ok, err = AnyAgainstAny(high, r3.Vector{Z: -2}, ball, spatialmath.NewZeroPose(), r3.Vector{Z: 2}, plane)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldAlmostEqual, 1.)

	_, ok, err = AnyAgainstAny(spatialmath.NewZeroPose(), r3.Vector{}, plane, high, r3.Vector{X: 1}, ball)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)

	toi, ok, err = AnyAgainstAny(spatialmath.NewZeroPose(), r3.Vector{}, plane, spatialmath.NewPoseFromPoint(r3.Vector{Z: -3}), r3.Vector{Z: -1}, ball)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldEqual, 0.)

	_, _, err = AnyAgainstAny(spatialmath.NewZeroPose(), r3.Vector{}, plane, high, r3.Vector{}, plane)
	test.That(t, errors.Is(err, shape.ErrNoAlgorithm), test.ShouldBeTrue)
}

func TestComposite(t *testing.T) {
	ball := &shape.Ball{Radius: 1}
	compound, err := shape.NewCompound([]shape.Child{
		{Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: -5}), Shape: ball},
		{Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 5}), Shape: ball},
	})
	test.That(t, err, test.ShouldBeNil)
	far := spatialmath.NewPoseFromPoint(r3.Vector{X: 20})

	toi, ok, err := AnyAgainstAny(spatialmath.NewZeroPose(), r3.Vector{}, compound, far, r3.Vector{X: -1}, ball)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldAlmostEqual, 13.)

	toi, ok, err = AnyAgainstAny(far, r3.Vector{X: -1}, ball, spatialmath.NewZeroPose(), r3.Vector{}, compound)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldAlmostEqual, 13.)

	// the children move with the compound
	toi, ok, err = AnyAgainstAny(spatialmath.NewZeroPose(), r3.Vector{X: 1}, compound, far, r3.Vector{}, ball)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldAlmostEqual, 13.)

	_, ok, err = AnyAgainstAnyWithHorizon(spatialmath.NewZeroPose(), r3.Vector{}, compound, far, r3.Vector{X: -1}, ball, 10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)

	ground, err := shape.NewTriMeshFromSlices(
		[]r3.Vector{{X: -5, Y: -5}, {X: 5, Y: -5}, {X: 5, Y: 5}, {X: -5, Y: 5}},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
	)
	test.That(t, err, test.ShouldBeNil)
	toi, ok, err = AnyAgainstAny(spatialmath.NewZeroPose(), r3.Vector{}, ground, spatialmath.NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 5}), r3.Vector{Z: -1}, ball)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, toi, test.ShouldAlmostEqual, 4., 1e-4)
}
