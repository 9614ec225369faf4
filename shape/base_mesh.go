package shape

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/collide/bvt"
	"go.viam.com/collide/spatialmath"
)

// meshElement is the vertex index tuple of one mesh element.
type meshElement interface {
	[2]int | [3]int
}

func elementIDs[E meshElement](e E) []int {
	switch v := any(e).(type) {
	case [2]int:
		return v[:]
	case [3]int:
		return v[:]
	}
	return nil
}

// MeshAttributes are the optional per-vertex buffers of a mesh.
type MeshAttributes struct {
	UVs     *Buffer[r2.Point]
	Normals *Buffer[r3.Vector]
}

// BaseMesh holds the shared buffers of an indexed mesh of elements: its vertices, element indices,
// optional per-vertex attributes, the identity pose volume of every element and a tree over them.
type BaseMesh[E meshElement] struct {
	vertices Buffer[r3.Vector]
	indices  Buffer[E]
	attrs    MeshAttributes
	volumes  []spatialmath.AABB
	tree     *bvt.BVT
}

func newBaseMesh[E meshElement](kind Kind, vertices Buffer[r3.Vector], indices Buffer[E], attrs MeshAttributes) (*BaseMesh[E], error) {
	if indices.Len() == 0 {
		return nil, newBadShapeDimensionsError(kind, "no elements")
	}
	var err error
	if attrs.UVs != nil && attrs.UVs.Len() != vertices.Len() {
		err = multierr.Append(err, newAttributeMismatchError("uv", attrs.UVs.Len(), vertices.Len()))
	}
	if attrs.Normals != nil && attrs.Normals.Len() != vertices.Len() {
		err = multierr.Append(err, newAttributeMismatchError("normal", attrs.Normals.Len(), vertices.Len()))
	}
	indices.Each(func(i int, e E) {
		for _, id := range elementIDs(e) {
			if id < 0 || id >= vertices.Len() {
				err = multierr.Append(err, errors.Wrapf(ErrBadDimensions, "%s element %d references vertex %d of %d", kind, i, id, vertices.Len()))
			}
		}
	})
	if err != nil {
		return nil, err
	}

	m := &BaseMesh[E]{vertices: vertices, indices: indices, attrs: attrs}
	m.volumes = make([]spatialmath.AABB, indices.Len())
	indices.Each(func(i int, e E) {
		m.volumes[i] = spatialmath.AABBFromPoints(m.elementPoints(e)...)
	})
	m.tree = bvt.BuildBalanced(lo.Map(m.volumes, func(vol spatialmath.AABB, i int) bvt.Leaf {
		return bvt.Leaf{Index: i, Volume: vol}
	}))
	return m, nil
}

func (m *BaseMesh[E]) elementPoints(e E) []r3.Vector {
	return lo.Map(elementIDs(e), func(id, _ int) r3.Vector { return m.vertices.At(id) })
}

// Vertices returns the shared vertex buffer.
func (m *BaseMesh[E]) Vertices() Buffer[r3.Vector] { return m.vertices }

// Indices returns the shared element index buffer.
func (m *BaseMesh[E]) Indices() Buffer[E] { return m.indices }

// UVs returns the per-vertex texture coordinates, if any.
func (m *BaseMesh[E]) UVs() (Buffer[r2.Point], bool) {
	if m.attrs.UVs == nil {
		return Buffer[r2.Point]{}, false
	}
	return *m.attrs.UVs, true
}

// Normals returns the per-vertex normals, if any.
func (m *BaseMesh[E]) Normals() (Buffer[r3.Vector], bool) {
	if m.attrs.Normals == nil {
		return Buffer[r3.Vector]{}, false
	}
	return *m.attrs.Normals, true
}

// Len returns the number of elements.
func (m *BaseMesh[E]) Len() int { return m.indices.Len() }

// BVT returns the tree over the elements.
func (m *BaseMesh[E]) BVT() *bvt.BVT { return m.tree }

// BoundingVolumeOf returns the volume of the i'th element in the mesh frame.
func (m *BaseMesh[E]) BoundingVolumeOf(i int) spatialmath.AABB { return m.volumes[i] }

// AABB returns a box bounding the mesh under pose.
func (m *BaseMesh[E]) AABB(pose spatialmath.Pose) spatialmath.AABB {
	root := m.tree.Root()
	if root == nil {
		return spatialmath.EmptyAABB()
	}
	return root.Volume.Transform(pose)
}

// IsHollow returns true, meshes have no interior.
func (m *BaseMesh[E]) IsHollow() bool { return true }

// interpolateUV blends the uvs of the element's vertices with the given weights.
func (m *BaseMesh[E]) interpolateUV(i int, weights []float64) (r2.Point, bool) {
	uvs, ok := m.UVs()
	if !ok {
		return r2.Point{}, false
	}
	var uv r2.Point
	for k, id := range elementIDs(m.indices.At(i)) {
		uv = uv.Add(uvs.At(id).Mul(weights[k]))
	}
	return uv, true
}

// interpolateNormal blends the normals of the element's vertices with the given weights and normalizes.
func (m *BaseMesh[E]) interpolateNormal(i int, weights []float64) (r3.Vector, bool) {
	normals, ok := m.Normals()
	if !ok {
		return r3.Vector{}, false
	}
	var n r3.Vector
	for k, id := range elementIDs(m.indices.At(i)) {
		n = n.Add(normals.At(id).Mul(weights[k]))
	}
	return spatialmath.NormalizeOrZero(n)
}
