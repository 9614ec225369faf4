package gjk

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// TimeOfImpact returns the first time in [0, maxToi] at which two support maps, translating with
// constant linear velocities, come within the TOI tolerance of each other. Overlapping shapes impact
// at zero. It reports false if the shapes separate, the horizon is passed, or the iteration limit
// runs out first.
func TimeOfImpact(
	opts Options,
	pose1 spatialmath.Pose, vel1 r3.Vector, s1 shape.SupportMap,
	pose2 spatialmath.Pose, vel2 r3.Vector, s2 shape.SupportMap,
	maxToi float64,
) (float64, bool) {
	return TimeOfImpactSupport(opts, Placed(pose1, s1), vel1, Placed(pose2, s2), vel2, pose1.Point().Sub(pose2.Point()), maxToi)
}

// TimeOfImpactSupport is TimeOfImpact on support functions, with seed the initial GJK direction.
func TimeOfImpactSupport(opts Options, supA Support, vel1 r3.Vector, supB Support, vel2 r3.Vector, seed r3.Vector, maxToi float64) (float64, bool) {
	opts = opts.withDefaults()
	rel := vel2.Sub(vel1)
	t := 0.0
	for iter := 0; iter < opts.TOIMaxIterations; iter++ {
		res := Closest(opts, supA.Translated(vel1.Mul(t)), supB.Translated(vel2.Mul(t)), seed, math.Inf(1))
		if res.Status == Intersecting || res.Distance <= opts.TOITolerance {
			return t, true
		}
		// the separation along the normal is a lower bound on the distance and shrinks at the closing speed
		n := res.Normal()
		closing := -rel.Dot(n)
		if closing <= spatialmath.FloatEpsilon {
			return 0, false
		}
		t += (res.Distance - opts.TOITolerance/2) / closing
		if t > maxToi {
			return 0, false
		}
		seed = res.Point1.Sub(res.Point2)
	}
	return 0, false
}
