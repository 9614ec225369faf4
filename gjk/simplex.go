package gjk

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// simplex is a set of 1 to 4 vertices with the barycentric weights of the point closest to the origin.
type simplex struct {
	verts   []vertex
	weights []float64
}

// closest returns the point of the simplex hull closest to the origin.
func (s *simplex) closest() r3.Vector {
	var v r3.Vector
	for i, vert := range s.verts {
		v = v.Add(vert.w.Mul(s.weights[i]))
	}
	return v
}

// witnesses returns the points on A and B matching the closest point.
func (s *simplex) witnesses() (r3.Vector, r3.Vector) {
	var a, b r3.Vector
	for i, vert := range s.verts {
		a = a.Add(vert.a.Mul(s.weights[i]))
		b = b.Add(vert.b.Mul(s.weights[i]))
	}
	return a, b
}

func (s *simplex) clone() simplex {
	return simplex{
		verts:   append([]vertex(nil), s.verts...),
		weights: append([]float64(nil), s.weights...),
	}
}

func (s *simplex) contains(w r3.Vector) bool {
	for _, v := range s.verts {
		if v.w.Sub(w).Norm2() < 1e-24 {
			return true
		}
	}
	return false
}

// add appends a vertex and reduces the simplex to the smallest feature holding the closest point to
// the origin. It reports whether the origin is enclosed by a tetrahedron.
func (s *simplex) add(v vertex) bool {
	s.verts = append(s.verts, v)
	switch len(s.verts) {
	case 1:
		s.weights = append(s.weights[:0], 1)
	case 2:
		s.reduceSegment()
	case 3:
		s.reduceTriangle(s.verts[0], s.verts[1], s.verts[2])
	case 4:
		return s.reduceTetrahedron()
	}
	return false
}

func (s *simplex) keep(verts []vertex, weights []float64) {
	s.verts = s.verts[:0]
	s.weights = s.weights[:0]
	for i, w := range weights {
		if w > 0 {
			s.verts = append(s.verts, verts[i])
			s.weights = append(s.weights, w)
		}
	}
	if len(s.verts) == 0 {
		// every weight underflowed, keep the first vertex
		s.verts = append(s.verts, verts[0])
		s.weights = append(s.weights, 1)
	}
}

func (s *simplex) reduceSegment() {
	a, b := s.verts[0], s.verts[1]
	_, t := spatialmath.ClosestPointSegmentPointParam(a.w, b.w, r3.Vector{})
	s.keep([]vertex{a, b}, []float64{1 - t, t})
}

func (s *simplex) reduceTriangle(a, b, c vertex) {
	_, w := spatialmath.ClosestPointTrianglePoint(a.w, b.w, c.w, r3.Vector{})
	s.keep([]vertex{a, b, c}, w[:])
}

// tetrahedronFaces lists each face of a tetrahedron with the vertex opposite it.
var tetrahedronFaces = [4][4]int{
	{0, 1, 2, 3},
	{0, 1, 3, 2},
	{0, 2, 3, 1},
	{1, 2, 3, 0},
}

func (s *simplex) reduceTetrahedron() bool {
	pts := [4]vertex{s.verts[0], s.verts[1], s.verts[2], s.verts[3]}
	if originInTetrahedron(pts) {
		s.weights = tetrahedronWeights(pts)
		return true
	}

	bestDist := math.Inf(1)
	var bestVerts []vertex
	var bestWeights [3]float64
	for _, f := range tetrahedronFaces {
		a, b, c := pts[f[0]], pts[f[1]], pts[f[2]]
		p, w := spatialmath.ClosestPointTrianglePoint(a.w, b.w, c.w, r3.Vector{})
		if d := p.Norm2(); d < bestDist {
			bestDist = d
			bestVerts = []vertex{a, b, c}
			bestWeights = w
		}
	}
	s.keep(bestVerts, bestWeights[:])
	return false
}

// originInTetrahedron checks whether the origin is inside the tetrahedron by verifying the origin is on
// the interior side of every face.
func originInTetrahedron(pts [4]vertex) bool {
	for _, f := range tetrahedronFaces {
		p0, p1, p2 := pts[f[0]].w, pts[f[1]].w, pts[f[2]].w
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		dOrigin := normal.Dot(p0.Mul(-1))
		dOpp := normal.Dot(pts[f[3]].w.Sub(p0))
		if dOrigin*dOpp < 0 {
			return false
		}
	}
	return true
}

// tetrahedronWeights returns the barycentric weights of the origin in a tetrahedron enclosing it.
func tetrahedronWeights(pts [4]vertex) []float64 {
	a, b, c, d := pts[0].w, pts[1].w, pts[2].w, pts[3].w
	vol := b.Sub(a).Dot(c.Sub(a).Cross(d.Sub(a)))
	if math.Abs(vol) < 1e-30 {
		return []float64{0.25, 0.25, 0.25, 0.25}
	}
	o := r3.Vector{}
	wb := o.Sub(a).Dot(c.Sub(a).Cross(d.Sub(a))) / vol
	wc := b.Sub(a).Dot(o.Sub(a).Cross(d.Sub(a))) / vol
	wd := b.Sub(a).Dot(c.Sub(a).Cross(o.Sub(a))) / vol
	return []float64{1 - wb - wc - wd, wb, wc, wd}
}
