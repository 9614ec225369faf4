// Package raycast computes the first time a ray hits a shape, together with the surface normal and,
// where the shape defines one, the surface uv parameterization at the hit.
package raycast

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"go.viam.com/collide/gjk"
	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// RayIntersection is a ray hit. TOI is in units of the ray direction. Normal is the outward unit
// normal at the hit, inward for exits from inside a shape, and zero when a solid shape is hit at
// the ray origin. UV is nil when the shape has no parameterization or it was not requested.
type RayIntersection struct {
	TOI    float64
	Normal r3.Vector
	UV     *r2.Point
}

// Dispatcher resolves shapes to their ray cast algorithm.
type Dispatcher struct {
	Options gjk.Options
}

// NewDispatcher returns a dispatcher using the given GJK tolerances.
func NewDispatcher(opts gjk.Options) *Dispatcher {
	return &Dispatcher{Options: opts}
}

var defaultDispatcher = NewDispatcher(gjk.DefaultOptions())

// TOIWithRay returns the first time in [0, maxToi] the ray, expressed in the shape's frame, hits the
// shape. A ray starting inside a solid shape hits at zero; otherwise it reports where it exits.
func TOIWithRay(s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool) (float64, bool, error) {
	return defaultDispatcher.TOIWithRay(s, ray, maxToi, solid)
}

// TOIWithRayWithPose casts a world space ray against the shape placed by pose.
func TOIWithRayWithPose(pose spatialmath.Pose, s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool) (float64, bool, error) {
	return defaultDispatcher.TOIWithRayWithPose(pose, s, ray, maxToi, solid)
}

// TOIAndNormalWithRay returns the first hit and its normal.
func TOIAndNormalWithRay(s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool) (RayIntersection, bool, error) {
	return defaultDispatcher.TOIAndNormalWithRay(s, ray, maxToi, solid)
}

// TOIAndNormalWithRayWithPose returns the first hit of a world space ray and its world normal.
func TOIAndNormalWithRayWithPose(
	pose spatialmath.Pose, s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool,
) (RayIntersection, bool, error) {
	return defaultDispatcher.TOIAndNormalWithRayWithPose(pose, s, ray, maxToi, solid)
}

// TOIAndNormalAndUVWithRay returns the first hit, its normal and its uv coordinates.
func TOIAndNormalAndUVWithRay(s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool) (RayIntersection, bool, error) {
	return defaultDispatcher.TOIAndNormalAndUVWithRay(s, ray, maxToi, solid)
}

// TOIAndNormalAndUVWithRayWithPose is TOIAndNormalAndUVWithRay for a world space ray.
func TOIAndNormalAndUVWithRayWithPose(
	pose spatialmath.Pose, s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool,
) (RayIntersection, bool, error) {
	return defaultDispatcher.TOIAndNormalAndUVWithRayWithPose(pose, s, ray, maxToi, solid)
}

// TOIWithRay returns the first time the local ray hits the shape.
func (d *Dispatcher) TOIWithRay(s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool) (float64, bool, error) {
	hit, ok, err := d.cast(s, ray, maxToi, solid, false)
	return hit.TOI, ok, err
}

// TOIWithRayWithPose returns the first time the world ray hits the shape placed by pose.
func (d *Dispatcher) TOIWithRayWithPose(
	pose spatialmath.Pose, s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool,
) (float64, bool, error) {
	return d.TOIWithRay(s, ray.InverseTransform(pose), maxToi, solid)
}

// TOIAndNormalWithRay returns the first hit of the local ray and its local normal.
func (d *Dispatcher) TOIAndNormalWithRay(s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool) (RayIntersection, bool, error) {
	return d.cast(s, ray, maxToi, solid, false)
}

// TOIAndNormalWithRayWithPose returns the first hit of the world ray and its world normal.
func (d *Dispatcher) TOIAndNormalWithRayWithPose(
	pose spatialmath.Pose, s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool,
) (RayIntersection, bool, error) {
	return d.castWithPose(pose, s, ray, maxToi, solid, false)
}

// TOIAndNormalAndUVWithRay returns the first hit of the local ray with its normal and uv.
func (d *Dispatcher) TOIAndNormalAndUVWithRay(s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool) (RayIntersection, bool, error) {
	return d.cast(s, ray, maxToi, solid, true)
}

// TOIAndNormalAndUVWithRayWithPose returns the first hit of the world ray with its world normal and uv.
func (d *Dispatcher) TOIAndNormalAndUVWithRayWithPose(
	pose spatialmath.Pose, s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool,
) (RayIntersection, bool, error) {
	return d.castWithPose(pose, s, ray, maxToi, solid, true)
}

func (d *Dispatcher) castWithPose(
	pose spatialmath.Pose, s shape.Shape, ray spatialmath.Ray, maxToi float64, solid, withUV bool,
) (RayIntersection, bool, error) {
	hit, ok, err := d.cast(s, ray.InverseTransform(pose), maxToi, solid, withUV)
	if err != nil || !ok {
		return RayIntersection{}, false, err
	}
	hit.Normal = spatialmath.RotateVector(pose, hit.Normal)
	return hit, true, nil
}

func (d *Dispatcher) cast(s shape.Shape, ray spatialmath.Ray, maxToi float64, solid, withUV bool) (RayIntersection, bool, error) {
	if _, err := shape.Resolve(s); err != nil {
		return RayIntersection{}, false, shape.NewNoAlgorithmError("ray cast", err, s)
	}
	hit, ok, err := d.dispatch(s, ray, maxToi, solid, withUV)
	if err != nil || !ok {
		return RayIntersection{}, false, err
	}
	if !withUV {
		hit.UV = nil
	}
	return hit, true, nil
}

func (d *Dispatcher) dispatch(s shape.Shape, ray spatialmath.Ray, maxToi float64, solid, withUV bool) (RayIntersection, bool, error) {
	if b, ok := shape.AsBall(s); ok {
		hit, ok := castBall(b.BallRadius(), ray, maxToi, solid)
		return hit, ok, nil
	}
	if p, ok := shape.AsPlane(s); ok {
		hit, ok := castPlane(p.PlaneNormal(), ray, maxToi, solid)
		return hit, ok, nil
	}
	if sm, ok := shape.AsSupportMap(s); ok {
		switch t := sm.(type) {
		case *shape.Cuboid:
			hit, ok := castCuboid(t.HalfExtents, ray, maxToi, solid)
			return hit, ok, nil
		case *shape.Triangle:
			hit, ok := castTriangle(t, ray, maxToi)
			return hit, ok, nil
		default:
			res, ok := gjk.CastRay(d.Options, spatialmath.NewZeroPose(), sm, ray, maxToi, solid)
			if !ok || (ray.IsDegenerate() && !(solid && res.TOI == 0)) {
				return RayIntersection{}, false, nil
			}
			return RayIntersection{TOI: res.TOI, Normal: res.Normal}, true, nil
		}
	}
	if c, ok := shape.AsComposite(s); ok {
		return d.castComposite(c, ray, maxToi, solid, withUV)
	}
	return RayIntersection{}, false, shape.NewNoAlgorithmError("ray cast", nil, s)
}

// castBall solves |o + t d|² = r² for a ball centered on the origin. A ball of zero radius is never hit.
func castBall(radius float64, ray spatialmath.Ray, maxToi float64, solid bool) (RayIntersection, bool) {
	if radius <= 0 {
		return RayIntersection{}, false
	}
	a := ray.Dir.Norm2()
	b := ray.Origin.Dot(ray.Dir)
	c := ray.Origin.Norm2() - radius*radius

	if c > 0 && b > 0 {
		return RayIntersection{}, false
	}
	if c <= 0 && solid {
		return RayIntersection{}, true
	}
	if a == 0 {
		return RayIntersection{}, false
	}
	delta := b*b - a*c
	if delta < 0 {
		return RayIntersection{}, false
	}
	sq := math.Sqrt(delta)
	inverted := false
	t := (-b - sq) / a
	if t <= 0 {
		// started inside, report the exit
		t = (-b + sq) / a
		inverted = true
	}
	if t > maxToi {
		return RayIntersection{}, false
	}
	n, ok := spatialmath.NormalizeOrZero(ray.PointAt(t))
	if !ok {
		return RayIntersection{}, false
	}
	uv := sphericalUV(n)
	if inverted {
		n = n.Mul(-1)
	}
	return RayIntersection{TOI: t, Normal: n, UV: &uv}, true
}

// sphericalUV maps an outward unit normal to longitude and latitude in [0, 1].
func sphericalUV(n r3.Vector) r2.Point {
	return r2.Point{
		X: 0.5 + math.Atan2(n.Z, n.X)/(2*math.Pi),
		Y: 0.5 - math.Asin(math.Max(-1, math.Min(1, n.Y)))/math.Pi,
	}
}

func castPlane(normal r3.Vector, ray spatialmath.Ray, maxToi float64, solid bool) (RayIntersection, bool) {
	dist := normal.Dot(ray.Origin)
	inside := dist <= 0
	if inside && solid {
		return RayIntersection{}, true
	}
	nd := normal.Dot(ray.Dir)
	if nd == 0 {
		return RayIntersection{}, false
	}
	t := -dist / nd
	if t < 0 || t > maxToi {
		return RayIntersection{}, false
	}
	if inside {
		return RayIntersection{TOI: t, Normal: normal.Mul(-1)}, true
	}
	return RayIntersection{TOI: t, Normal: normal}, true
}

// castCuboid is the slab test, tracking the axis of the entry and exit faces.
func castCuboid(half r3.Vector, ray spatialmath.Ray, maxToi float64, solid bool) (RayIntersection, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	var enter, exit r3.Vector
	for i := 0; i < 3; i++ {
		o := spatialmath.Component(ray.Origin, i)
		dir := spatialmath.Component(ray.Dir, i)
		h := spatialmath.Component(half, i)
		if dir == 0 {
			if o < -h || o > h {
				return RayIntersection{}, false
			}
			continue
		}
		t1, t2 := (-h-o)/dir, (h-o)/dir
		sign := 1.
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = -1
		}
		if t1 > tmin {
			tmin = t1
			enter = spatialmath.SetComponent(r3.Vector{}, i, -sign)
		}
		if t2 < tmax {
			tmax = t2
			exit = spatialmath.SetComponent(r3.Vector{}, i, sign)
		}
	}
	if tmin > tmax || tmax < 0 {
		return RayIntersection{}, false
	}
	if tmin <= 0 {
		// origin is inside or on the box
		if solid {
			return RayIntersection{}, true
		}
		if math.IsInf(tmax, 1) || tmax > maxToi {
			return RayIntersection{}, false
		}
		return RayIntersection{TOI: tmax, Normal: exit.Mul(-1)}, true
	}
	if tmin > maxToi {
		return RayIntersection{}, false
	}
	return RayIntersection{TOI: tmin, Normal: enter}, true
}

// castTriangle is the two sided Möller–Trumbore test. The uv of the hit are the weights of B and C.
func castTriangle(tri *shape.Triangle, ray spatialmath.Ray, maxToi float64) (RayIntersection, bool) {
	const eps = 1e-12
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	p := ray.Dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < eps {
		return RayIntersection{}, false
	}
	inv := 1 / det
	s := ray.Origin.Sub(tri.A)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return RayIntersection{}, false
	}
	q := s.Cross(e1)
	v := ray.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return RayIntersection{}, false
	}
	t := e2.Dot(q) * inv
	if t < 0 || t > maxToi {
		return RayIntersection{}, false
	}
	n := tri.Normal()
	if n.Dot(ray.Dir) > 0 {
		n = n.Mul(-1)
	}
	return RayIntersection{TOI: t, Normal: n, UV: &r2.Point{X: u, Y: v}}, true
}
