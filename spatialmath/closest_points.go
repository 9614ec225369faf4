package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// PlaneNormal returns the unit normal of the plane through the three points, following the right hand rule.
// Collinear points return the zero vector.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n, _ := NormalizeOrZero(p1.Sub(p0).Cross(p2.Sub(p0)))
	return n
}

// ClosestPointSegmentPoint takes a line segment defined by two points, and a query point, and returns the
// point on the segment closest to the query.
func ClosestPointSegmentPoint(segA, segB, query r3.Vector) r3.Vector {
	pt, _ := ClosestPointSegmentPointParam(segA, segB, query)
	return pt
}

// ClosestPointSegmentPointParam is ClosestPointSegmentPoint which also returns the segment parameter in [0, 1]
// of the closest point, where 0 is segA.
func ClosestPointSegmentPointParam(segA, segB, query r3.Vector) (r3.Vector, float64) {
	ab := segB.Sub(segA)
	denom := ab.Norm2()
	if denom < floatEpsilon*floatEpsilon {
		return segA, 0
	}
	t := query.Sub(segA).Dot(ab) / denom
	t = math.Max(0, math.Min(1, t))
	return segA.Add(ab.Mul(t)), t
}

// DistToLineSegment takes a line segment defined by two points, and a query point, and returns their distance.
func DistToLineSegment(segA, segB, query r3.Vector) float64 {
	return query.Sub(ClosestPointSegmentPoint(segA, segB, query)).Norm()
}

// ClosestPointsSegmentSegment returns the closest pair of points between segments [a1, b1] and [a2, b2].
// Reference: Ericson, Real-Time Collision Detection, 5.1.9.
func ClosestPointsSegmentSegment(a1, b1, a2, b2 r3.Vector) (r3.Vector, r3.Vector) {
	d1 := b1.Sub(a1)
	d2 := b2.Sub(a2)
	r := a1.Sub(a2)
	a := d1.Norm2()
	e := d2.Norm2()
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a <= floatEpsilon && e <= floatEpsilon:
		return a1, a2
	case a <= floatEpsilon:
		t = clamp01(f / e)
	default:
		c := d1.Dot(r)
		if e <= floatEpsilon {
			s = clamp01(-c / a)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp01((b*f - c*e) / denom)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}
	return a1.Add(d1.Mul(s)), a2.Add(d2.Mul(t))
}

// ClosestPointTrianglePoint returns the point of triangle (a, b, c) closest to p, together with its
// barycentric weights (wa, wb, wc) summing to one.
// Reference: Ericson, Real-Time Collision Detection, 5.1.5.
func ClosestPointTrianglePoint(a, b, c, p r3.Vector) (r3.Vector, [3]float64) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, [3]float64{1, 0, 0}
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, [3]float64{0, 1, 0}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v)), [3]float64{1 - v, v, 0}
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, [3]float64{0, 0, 1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w)), [3]float64{1 - w, 0, w}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w)), [3]float64{0, 1 - w, w}
	}

	denom := va + vb + vc
	if math.Abs(denom) < floatEpsilon*floatEpsilon {
		// degenerate triangle, fall back to its longest edge
		return closestOnDegenerateTriangle(a, b, c, p)
	}
	v := vb / denom
	w := vc / denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w)), [3]float64{1 - v - w, v, w}
}

func closestOnDegenerateTriangle(a, b, c, p r3.Vector) (r3.Vector, [3]float64) {
	best, t := ClosestPointSegmentPointParam(a, b, p)
	weights := [3]float64{1 - t, t, 0}
	bestDist := best.Sub(p).Norm2()
	if pt, t := ClosestPointSegmentPointParam(b, c, p); pt.Sub(p).Norm2() < bestDist {
		best, bestDist = pt, pt.Sub(p).Norm2()
		weights = [3]float64{0, 1 - t, t}
	}
	if pt, t := ClosestPointSegmentPointParam(a, c, p); pt.Sub(p).Norm2() < bestDist {
		best = pt
		weights = [3]float64{1 - t, 0, t}
	}
	return best, weights
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
