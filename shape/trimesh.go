package shape

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"go.viam.com/collide/spatialmath"
)

// TriMesh is a triangle mesh. It is hollow: only its surface takes part in queries.
type TriMesh struct {
	*BaseMesh[[3]int]
}

// NewTriMesh builds a triangle mesh over shared buffers. It fails if an index is out of range or an
// attribute buffer does not hold exactly one entry per vertex.
func NewTriMesh(vertices Buffer[r3.Vector], indices Buffer[[3]int], attrs MeshAttributes) (*TriMesh, error) {
	base, err := newBaseMesh(KindTriMesh, vertices, indices, attrs)
	if err != nil {
		return nil, err
	}
	return &TriMesh{BaseMesh: base}, nil
}

// NewTriMeshFromSlices copies the slices into fresh buffers and builds a mesh with no attributes.
func NewTriMeshFromSlices(vertices []r3.Vector, indices [][3]int) (*TriMesh, error) {
	return NewTriMesh(NewBuffer(vertices), NewBuffer(indices), MeshAttributes{})
}

// Kind returns KindTriMesh.
func (m *TriMesh) Kind() Kind { return KindTriMesh }

// ElementAt builds the i'th triangle.
func (m *TriMesh) ElementAt(i int) *Triangle {
	ids := m.indices.At(i)
	return NewTriangle(m.vertices.At(ids[0]), m.vertices.At(ids[1]), m.vertices.At(ids[2]))
}

// ChildAt returns the i'th triangle, which is expressed directly in the mesh frame.
func (m *TriMesh) ChildAt(i int) (spatialmath.Pose, Shape) {
	return spatialmath.NewZeroPose(), m.ElementAt(i)
}

// InterpolateUV returns the texture coordinate at the given barycentric weights of triangle i.
func (m *TriMesh) InterpolateUV(i int, bary [3]float64) (r2.Point, bool) {
	return m.interpolateUV(i, bary[:])
}

// InterpolateNormal returns the normalized blend of the vertex normals of triangle i.
func (m *TriMesh) InterpolateNormal(i int, bary [3]float64) (r3.Vector, bool) {
	return m.interpolateNormal(i, bary[:])
}

// Clone returns a mesh sharing all buffers and the tree with m.
func (m *TriMesh) Clone() *TriMesh {
	base := *m.BaseMesh
	return &TriMesh{BaseMesh: &base}
}
