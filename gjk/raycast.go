package gjk

import (
	"github.com/golang/geo/r3"

	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// RayHit is the result of a ray cast against a support map. Normal is the outward unit normal at the
// hit point, or the inward one for exits reported from inside a shape. It is zero when the ray starts
// inside a solid shape.
type RayHit struct {
	TOI    float64
	Normal r3.Vector
}

// CastRay casts the ray against a placed support map and returns the first hit within maxToi. If the
// ray starts inside the shape a solid cast hits at zero, otherwise the cast reports where the ray exits.
func CastRay(opts Options, pose spatialmath.Pose, sm shape.SupportMap, ray spatialmath.Ray, maxToi float64, solid bool) (RayHit, bool) {
	sup := Placed(pose, sm)
	hit, ok := castSupport(opts, sup, ray, maxToi)
	if !ok || hit.TOI > 0 || solid || shape.IsHollow(sm) {
		return hit, ok
	}
	if ray.IsDegenerate() {
		return RayHit{}, false
	}

	// start beyond the far side of the shape and come back
	box := sm.AABB(pose)
	span := box.Max.Sub(box.Min).Norm() + box.DistanceToPoint(ray.Origin)
	back := span/ray.Dir.Norm() + 1
	reversed := spatialmath.NewRay(ray.PointAt(back), ray.Dir.Mul(-1))
	exit, ok := castSupport(opts, sup, reversed, back)
	if !ok {
		return RayHit{}, false
	}
	toi := back - exit.TOI
	if toi > maxToi {
		return RayHit{}, false
	}
	return RayHit{TOI: toi, Normal: exit.Normal.Mul(-1)}, true
}

// castSupport is the GJK ray cast. The ray hits at the first time its point enters the set; the
// normal is the last separating direction found.
func castSupport(opts Options, sup Support, ray spatialmath.Ray, maxToi float64) (RayHit, bool) {
	opts = opts.withDefaults()
	lambda := 0.0
	x := ray.Origin
	var normal r3.Vector

	// simplex vertices hold x - p in w and the support point p in a
	s := simplex{}
	p := sup(ray.Dir.Mul(-1))
	v := x.Sub(p)
	const eps = 1e-10

	for iter := 0; iter < opts.MaxIterations; iter++ {
		if v.Norm2() < eps*eps {
			break
		}
		p = sup(v)
		w := x.Sub(p)
		vw := v.Dot(w)
		if vw > 0 {
			vr := v.Dot(ray.Dir)
			if vr >= 0 {
				return RayHit{}, false
			}
			lambda -= vw / vr
			if lambda > maxToi {
				return RayHit{}, false
			}
			x = ray.PointAt(lambda)
			normal = v
		}

		// the set X - P moves with x, refresh the simplex points
		for i := range s.verts {
			s.verts[i].w = x.Sub(s.verts[i].a)
		}
		vert := vertex{w: x.Sub(p), a: p}
		if s.contains(vert.w) {
			break
		}
		if s.add(vert) {
			break
		}
		v = s.closest()
	}
	n, _ := spatialmath.NormalizeOrZero(normal)
	if lambda == 0 {
		n = r3.Vector{}
	}
	return RayHit{TOI: lambda, Normal: n}, true
}
