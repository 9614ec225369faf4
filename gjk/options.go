// Package gjk implements the support map algorithms the query engines delegate convex pairs to:
// GJK closest points, EPA penetration depth, GJK ray casting and conservative advancement time of impact.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
//   - Van den Bergen: "Ray Casting against General Convex Objects with Application to
//     Continuous Collision Detection" (2004)
package gjk

// Options are the iteration limits and tolerances of the GJK family of algorithms.
type Options struct {
	// MaxIterations bounds GJK and GJK ray cast iterations.
	MaxIterations int
	// Epsilon is the relative tolerance at which GJK considers the closest points converged.
	Epsilon float64
	// EPAMaxIterations bounds polytope expansions.
	EPAMaxIterations int
	// EPATolerance is the absolute depth improvement below which EPA stops expanding.
	EPATolerance float64
	// TOIMaxIterations bounds conservative advancement steps.
	TOIMaxIterations int
	// TOITolerance is the distance at which conservative advancement reports an impact.
	TOITolerance float64
}

// DefaultOptions returns the tolerances used by the package level query functions.
func DefaultOptions() Options {
	return Options{
		MaxIterations:    64,
		Epsilon:          1e-10,
		EPAMaxIterations: 64,
		EPATolerance:     1e-8,
		TOIMaxIterations: 64,
		TOITolerance:     1e-6,
	}
}

// withDefaults fills zero values with their defaults.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Epsilon <= 0 {
		o.Epsilon = d.Epsilon
	}
	if o.EPAMaxIterations <= 0 {
		o.EPAMaxIterations = d.EPAMaxIterations
	}
	if o.EPATolerance <= 0 {
		o.EPATolerance = d.EPATolerance
	}
	if o.TOIMaxIterations <= 0 {
		o.TOIMaxIterations = d.TOIMaxIterations
	}
	if o.TOITolerance <= 0 {
		o.TOITolerance = d.TOITolerance
	}
	return o
}
