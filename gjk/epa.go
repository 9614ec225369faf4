package gjk

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// PenetrationResult describes how two overlapping shapes penetrate. Normal is the unit direction from
// shape 1 to shape 2 along which shape 2 must move by Depth to separate them. Point1 and Point2 are
// the deepest points of each shape inside the other.
type PenetrationResult struct {
	Normal r3.Vector
	Depth  float64
	Point1 r3.Vector
	Point2 r3.Vector
}

// Penetration computes the penetration of two placed support maps. It runs GJK first and reports
// false if the shapes do not overlap.
func Penetration(
	opts Options,
	pose1 spatialmath.Pose, s1 shape.SupportMap,
	pose2 spatialmath.Pose, s2 shape.SupportMap,
) (PenetrationResult, bool) {
	supA, supB := Placed(pose1, s1), Placed(pose2, s2)
	seed := pose1.Point().Sub(pose2.Point())
	res := Closest(opts, supA, supB, seed, 0)
	if res.Status != Intersecting {
		return PenetrationResult{}, false
	}
	return EPA(opts, supA, supB, res.simplex, seed.Mul(-1)), true
}

type epaFace struct {
	idx    [3]int
	normal r3.Vector
	dist   float64
}

// EPA expands the GJK simplex enclosing the origin into the polytope face of the Minkowski difference
// closest to the origin. Degenerate simplices are first inflated to a tetrahedron; when that is not
// possible, as for flat Minkowski differences, the shapes are reported as touching along fallback.
func EPA(opts Options, supA, supB Support, s simplex, fallback r3.Vector) PenetrationResult {
	opts = opts.withDefaults()
	verts, ok := inflate(supA, supB, s.verts)
	if !ok {
		return degeneratePenetration(s, fallback)
	}

	faces := make([]epaFace, 0, 16)
	interior := verts[0].w.Add(verts[1].w).Add(verts[2].w).Add(verts[3].w).Mul(0.25)
	for _, f := range tetrahedronFaces {
		if face, ok := newEPAFace(verts, f[0], f[1], f[2], interior); ok {
			faces = append(faces, face)
		}
	}
	if len(faces) < 4 {
		return degeneratePenetration(s, fallback)
	}

	var best epaFace
	for iter := 0; iter < opts.EPAMaxIterations; iter++ {
		best = closestFace(faces)
		w := minkowskiSupport(supA, supB, best.normal)
		if w.w.Dot(best.normal)-best.dist < opts.EPATolerance {
			break
		}

		verts = append(verts, w)
		newIdx := len(verts) - 1
		faces = expand(verts, faces, newIdx, interior)
		if len(faces) == 0 {
			break
		}
	}
	if len(faces) > 0 {
		best = closestFace(faces)
	}
	return faceResult(verts, best)
}

func newEPAFace(verts []vertex, i, j, k int, interior r3.Vector) (epaFace, bool) {
	a, b, c := verts[i].w, verts[j].w, verts[k].w
	n, ok := spatialmath.NormalizeOrZero(b.Sub(a).Cross(c.Sub(a)))
	if !ok {
		return epaFace{}, false
	}
	if n.Dot(a.Sub(interior)) < 0 {
		n = n.Mul(-1)
		j, k = k, j
	}
	return epaFace{idx: [3]int{i, j, k}, normal: n, dist: n.Dot(a)}, true
}

func closestFace(faces []epaFace) epaFace {
	best := faces[0]
	for _, f := range faces[1:] {
		if f.dist < best.dist {
			best = f
		}
	}
	return best
}

type epaEdge struct{ a, b int }

// expand removes every face the new vertex sees and stitches the horizon to it.
func expand(verts []vertex, faces []epaFace, newIdx int, interior r3.Vector) []epaFace {
	p := verts[newIdx].w
	var horizon []epaEdge
	kept := faces[:0]
	for _, f := range faces {
		if f.normal.Dot(p.Sub(verts[f.idx[0]].w)) > spatialmath.FloatEpsilon {
			for e := 0; e < 3; e++ {
				edge := epaEdge{f.idx[e], f.idx[(e+1)%3]}
				horizon = toggleEdge(horizon, edge)
			}
			continue
		}
		kept = append(kept, f)
	}
	for _, e := range horizon {
		if face, ok := newEPAFace(verts, e.a, e.b, newIdx, interior); ok {
			kept = append(kept, face)
		}
	}
	return kept
}

// toggleEdge adds an edge to the horizon, or removes it if its reverse is already there since it is
// then shared by two removed faces.
func toggleEdge(edges []epaEdge, e epaEdge) []epaEdge {
	for i, existing := range edges {
		if existing.a == e.b && existing.b == e.a {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return append(edges, e)
}

func faceResult(verts []vertex, f epaFace) PenetrationResult {
	a, b, c := verts[f.idx[0]], verts[f.idx[1]], verts[f.idx[2]]
	projected := f.normal.Mul(f.dist)
	_, w := spatialmath.ClosestPointTrianglePoint(a.w, b.w, c.w, projected)
	p1 := a.a.Mul(w[0]).Add(b.a.Mul(w[1])).Add(c.a.Mul(w[2]))
	p2 := a.b.Mul(w[0]).Add(b.b.Mul(w[1])).Add(c.b.Mul(w[2]))
	return PenetrationResult{Normal: f.normal, Depth: math.Max(0, f.dist), Point1: p1, Point2: p2}
}

// inflate grows a simplex of one to three vertices into a tetrahedron with non zero volume by
// sampling the support function in directions off the current feature.
func inflate(supA, supB Support, in []vertex) ([]vertex, bool) {
	verts := append([]vertex(nil), in...)
	axes := []r3.Vector{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}

	if len(verts) == 1 {
		for _, dir := range axes {
			v := minkowskiSupport(supA, supB, dir)
			if v.w.Sub(verts[0].w).Norm2() > 1e-20 {
				verts = append(verts, v)
				break
			}
		}
		if len(verts) < 2 {
			return nil, false
		}
	}

	if len(verts) == 2 {
		axis := verts[1].w.Sub(verts[0].w)
		perp, _ := spatialmath.NormalizeOrZero(axis.Ortho())
		for _, dir := range []r3.Vector{perp, perp.Mul(-1), axis.Cross(perp), axis.Cross(perp).Mul(-1)} {
			v := minkowskiSupport(supA, supB, dir)
			if axis.Cross(v.w.Sub(verts[0].w)).Norm2() > 1e-20 {
				verts = append(verts, v)
				break
			}
		}
		if len(verts) < 3 {
			return nil, false
		}
	}

	if len(verts) == 3 {
		n := verts[1].w.Sub(verts[0].w).Cross(verts[2].w.Sub(verts[0].w))
		for _, dir := range []r3.Vector{n, n.Mul(-1)} {
			v := minkowskiSupport(supA, supB, dir)
			if math.Abs(n.Dot(v.w.Sub(verts[0].w))) > 1e-12*math.Max(1, n.Norm()) {
				verts = append(verts, v)
				break
			}
		}
		if len(verts) < 4 {
			return nil, false
		}
	}
	return verts, true
}

// degeneratePenetration reports a touching contact for overlaps EPA cannot expand.
func degeneratePenetration(s simplex, fallback r3.Vector) PenetrationResult {
	p1, p2 := s.witnesses()
	n, ok := spatialmath.NormalizeOrZero(fallback)
	if !ok {
		n = r3.Vector{X: 1}
	}
	return PenetrationResult{Normal: n, Depth: 0, Point1: p1, Point2: p2}
}
