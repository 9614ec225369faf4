package pointquery

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

type unregistered struct{}

func (unregistered) Kind() shape.Kind { return shape.FirstUserKind + 500 }

func (unregistered) AABB(pose spatialmath.Pose) spatialmath.AABB {
	return spatialmath.NewAABBFromCenter(pose.Point(), r3.Vector{X: 1, Y: 1, Z: 1})
}

func vecEqual(t *testing.T, got, want r3.Vector) {
	t.Helper()
	test.That(t, spatialmath.R3VectorAlmostEqual(got, want, 1e-6), test.ShouldBeTrue)
}

func TestBall(t *testing.T) {
	ball := &shape.Ball{Radius: 2}

	proj, err := ProjectPoint(ball, r3.Vector{X: 5}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeFalse)
	vecEqual(t, proj.Point, r3.Vector{X: 2})

	proj, err = ProjectPoint(ball, r3.Vector{Y: 1}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeTrue)
	vecEqual(t, proj.Point, r3.Vector{Y: 1})

	proj, err = ProjectPoint(ball, r3.Vector{Y: 1}, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeTrue)
	vecEqual(t, proj.Point, r3.Vector{Y: 2})

	d, err := DistanceToPoint(ball, r3.Vector{Z: -7})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldAlmostEqual, 5.)

	d, err = DistanceToPoint(ball, r3.Vector{Z: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldEqual, 0.)

	for _, pt := range []r3.Vector{{X: 1.9}, {X: 2}, {X: 1, Y: 1, Z: 1}} {
		ok, err := ContainsPoint(ball, pt)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ok, test.ShouldBeTrue)
	}
	ok, err := ContainsPoint(ball, r3.Vector{X: 2.01})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestPlane(t *testing.T) {
	plane := &shape.Plane{Normal: r3.Vector{Z: 1}}

	proj, err := ProjectPoint(plane, r3.Vector{X: 1, Y: 2, Z: 3}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeFalse)
	vecEqual(t, proj.Point, r3.Vector{X: 1, Y: 2})

	proj, err = ProjectPoint(plane, r3.Vector{X: 1, Z: -3}, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeTrue)
	vecEqual(t, proj.Point, r3.Vector{X: 1})

	ok, err := ContainsPoint(plane, r3.Vector{Z: -100})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestCuboidAndCapsule(t *testing.T) {
	cube := &shape.Cuboid{HalfExtents: r3.Vector{X: 1, Y: 2, Z: 3}}

	proj, err := ProjectPoint(cube, r3.Vector{X: 4, Y: 4}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeFalse)
	vecEqual(t, proj.Point, r3.Vector{X: 1, Y: 2})

	proj, err = ProjectPoint(cube, r3.Vector{X: 0.5, Y: 0.1, Z: 0.1}, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeTrue)
	vecEqual(t, proj.Point, r3.Vector{X: 1, Y: 0.1, Z: 0.1})

	capsule := &shape.Capsule{HalfHeight: 1, Radius: 0.5}
	proj, err = ProjectPoint(capsule, r3.Vector{Y: 4}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeFalse)
	vecEqual(t, proj.Point, r3.Vector{Y: 1.5})

	proj, err = ProjectPoint(capsule, r3.Vector{X: 0.25}, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeTrue)
	vecEqual(t, proj.Point, r3.Vector{X: 0.5})
}

func TestHollowShapes(t *testing.T) {
	seg := shape.NewSegment(r3.Vector{X: -1}, r3.Vector{X: 1})
	proj, err := ProjectPoint(seg, r3.Vector{X: 3, Y: 1}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeFalse)
	vecEqual(t, proj.Point, r3.Vector{X: 1})

	ok, err := ContainsPoint(seg, r3.Vector{X: 0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)

	d, err := DistanceToPoint(seg, r3.Vector{X: 4, Y: 4})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldAlmostEqual, 5.)

	tri := shape.NewTriangle(r3.Vector{}, r3.Vector{X: 1}, r3.Vector{Y: 1})
	d, err = DistanceToPoint(tri, r3.Vector{X: 0.25, Y: 0.25, Z: 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldAlmostEqual, 2.)

	// a point in the plane of a triangle is on it, there is no interior
	ok, err = ContainsPoint(tri, r3.Vector{X: 0.25, Y: 0.25})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestGenericSupportMaps(t *testing.T) {
	cyl := &shape.Cylinder{HalfHeight: 2, Radius: 1}
	proj, err := ProjectPoint(cyl, r3.Vector{X: 3}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeFalse)
	vecEqual(t, proj.Point, r3.Vector{X: 1})

	ok, err := ContainsPoint(cyl, r3.Vector{Y: 1.5, Z: 0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)

	cube, err := shape.NewCuboid(r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, err, test.ShouldBeNil)
	hull, err := shape.NewConvexHull(cube.Vertices())
	test.That(t, err, test.ShouldBeNil)

	proj, err = ProjectPoint(hull, r3.Vector{X: 0.5}, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeTrue)
	vecEqual(t, proj.Point, r3.Vector{X: 1})

	proj, err = ProjectPoint(hull, r3.Vector{X: 0.5}, true)
	test.That(t, err, test.ShouldBeNil)
	vecEqual(t, proj.Point, r3.Vector{X: 0.5})
}

func TestComposites(t *testing.T) {
	ball := &shape.Ball{Radius: 1}
	compound, err := shape.NewCompound([]shape.Child{
		{Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: -5}), Shape: ball},
		{Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 5}), Shape: ball},
	})
	test.That(t, err, test.ShouldBeNil)

	ok, err := ContainsPoint(compound, r3.Vector{X: 4.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)

	d, err := DistanceToPoint(compound, r3.Vector{X: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldAlmostEqual, 3.)

	proj, err := ProjectPoint(compound, r3.Vector{X: -1}, true)
	test.That(t, err, test.ShouldBeNil)
	vecEqual(t, proj.Point, r3.Vector{X: -4})

	mesh, err := shape.NewTriMeshFromSlices(
		[]r3.Vector{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
	)
	test.That(t, err, test.ShouldBeNil)
	proj, err = ProjectPoint(mesh, r3.Vector{X: 0.25, Y: 0.75, Z: 2}, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, proj.IsInside, test.ShouldBeFalse)
	vecEqual(t, proj.Point, r3.Vector{X: 0.25, Y: 0.75})

	line, err := shape.NewPolylineFromPoints([]r3.Vector{{}, {X: 1}, {X: 1, Y: 1}})
	test.That(t, err, test.ShouldBeNil)
	d, err = DistanceToPoint(line, r3.Vector{X: 2, Y: 0.5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d, test.ShouldAlmostEqual, 1.)

	t.Run("containment", func(t *testing.T) {
		for _, c := range []struct {
			name   string
			s      shape.Shape
			pt     r3.Vector
			inside bool
		}{
			{"between compound children", compound, r3.Vector{}, false},
			{"in the second ball", compound, r3.Vector{X: 5.5, Y: 0.5}, true},
			{"on a mesh triangle", mesh, r3.Vector{X: 0.2, Y: 0.7}, true},
			{"above the mesh", mesh, r3.Vector{X: 0.2, Y: 0.7, Z: 0.1}, false},
			{"on a polyline segment", line, r3.Vector{X: 1, Y: 0.5}, true},
			{"off the polyline", line, r3.Vector{X: 0.5, Y: 0.5}, false},
		} {
			t.Run(c.name, func(t *testing.T) {
				ok, err := ContainsPoint(c.s, c.pt)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, ok, test.ShouldEqual, c.inside)
			})
		}

		outer, err := shape.NewCompound([]shape.Child{
			{Pose: spatialmath.NewPoseFromPoint(r3.Vector{Z: 10}), Shape: compound},
		})
		test.That(t, err, test.ShouldBeNil)
		ok, err := ContainsPoint(outer, r3.Vector{X: -5, Z: 10.5})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ok, test.ShouldBeTrue)
		ok, err = ContainsPoint(outer, r3.Vector{X: -5})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestWithPose(t *testing.T) {
	pose := spatialmath.NewPose(r3.Vector{X: 10, Y: -3}, &spatialmath.R4AA{Theta: math.Pi / 3, RX: 1, RY: 1})
	shapes := []shape.Shape{
		&shape.Ball{Radius: 1.5},
		&shape.Cuboid{HalfExtents: r3.Vector{X: 1, Y: 2, Z: 0.5}},
		&shape.Capsule{HalfHeight: 1, Radius: 0.25},
		&shape.Cone{HalfHeight: 1, Radius: 1},
	}
	local := r3.Vector{X: 2, Y: 3, Z: -1}
	world := spatialmath.TransformPoint(pose, local)
	for _, s := range shapes {
		t.Run(s.Kind().String(), func(t *testing.T) {
			want, err := ProjectPoint(s, local, true)
			test.That(t, err, test.ShouldBeNil)
			got, err := ProjectPointWithPose(pose, s, world, true)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got.IsInside, test.ShouldEqual, want.IsInside)
			vecEqual(t, got.Point, spatialmath.TransformPoint(pose, want.Point))

			dLocal, err := DistanceToPoint(s, local)
			test.That(t, err, test.ShouldBeNil)
			dWorld, err := DistanceToPointWithPose(pose, s, world)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, dWorld, test.ShouldAlmostEqual, dLocal, 1e-9)

			inside, err := ContainsPointWithPose(pose, s, pose.Point())
			test.That(t, err, test.ShouldBeNil)
			test.That(t, inside, test.ShouldBeTrue)
		})
	}
}

func TestUnsupported(t *testing.T) {
	_, err := ProjectPoint(unregistered{}, r3.Vector{}, true)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, shape.ErrNoAlgorithm), test.ShouldBeTrue)
	test.That(t, errors.Is(err, shape.ErrUnsupportedShape), test.ShouldBeTrue)

	_, err = ContainsPointWithPose(spatialmath.NewZeroPose(), unregistered{}, r3.Vector{})
	test.That(t, errors.Is(err, shape.ErrNoAlgorithm), test.ShouldBeTrue)
}
