package shape

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// Polyline is a set of segments over shared vertices. It is hollow.
type Polyline struct {
	*BaseMesh[[2]int]
}

// NewPolyline builds a polyline over shared buffers.
func NewPolyline(vertices Buffer[r3.Vector], indices Buffer[[2]int], attrs MeshAttributes) (*Polyline, error) {
	base, err := newBaseMesh(KindPolyline, vertices, indices, attrs)
	if err != nil {
		return nil, err
	}
	return &Polyline{BaseMesh: base}, nil
}

// NewPolylineFromPoints connects consecutive points into a strip of segments.
func NewPolylineFromPoints(points []r3.Vector) (*Polyline, error) {
	if len(points) < 2 {
		return nil, newBadShapeDimensionsError(KindPolyline, "%d points", len(points))
	}
	indices := make([][2]int, 0, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		indices = append(indices, [2]int{i, i + 1})
	}
	return NewPolyline(NewBuffer(points), NewBuffer(indices), MeshAttributes{})
}

// Kind returns KindPolyline.
func (p *Polyline) Kind() Kind { return KindPolyline }

// ElementAt builds the i'th segment.
func (p *Polyline) ElementAt(i int) *Segment {
	ids := p.indices.At(i)
	return NewSegment(p.vertices.At(ids[0]), p.vertices.At(ids[1]))
}

// ChildAt returns the i'th segment, which is expressed directly in the polyline frame.
func (p *Polyline) ChildAt(i int) (spatialmath.Pose, Shape) {
	return spatialmath.NewZeroPose(), p.ElementAt(i)
}

// InterpolateUV returns the texture coordinate at parameter t along segment i.
func (p *Polyline) InterpolateUV(i int, t float64) (r2.Point, bool) {
	return p.interpolateUV(i, []float64{1 - t, t})
}

// Clone returns a polyline sharing all buffers and the tree with p.
func (p *Polyline) Clone() *Polyline {
	base := *p.BaseMesh
	return &Polyline{BaseMesh: &base}
}
