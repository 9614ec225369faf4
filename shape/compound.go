package shape

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/collide/bvt"
	"go.viam.com/collide/spatialmath"
)

// Child is a shape placed inside a compound.
type Child struct {
	Pose  spatialmath.Pose
	Shape Shape
}

// Compound is a rigid assembly of posed shapes.
type Compound struct {
	children []Child
	volumes  []spatialmath.AABB
	tree     *bvt.BVT
}

// NewCompound builds a compound over the children, which must be non empty and bounded.
// A nil child pose means the identity.
func NewCompound(children []Child) (*Compound, error) {
	if len(children) == 0 {
		return nil, newBadShapeDimensionsError(KindCompound, "no children")
	}
	c := &Compound{children: make([]Child, len(children)), volumes: make([]spatialmath.AABB, len(children))}
	for i, child := range children {
		if child.Shape == nil {
			return nil, errors.Wrapf(ErrUnsupportedShape, "compound child %d is nil", i)
		}
		if child.Pose == nil {
			child.Pose = spatialmath.NewZeroPose()
		}
		vol := child.Shape.AABB(child.Pose)
		if isUnbounded(vol) {
			return nil, newBadShapeDimensionsError(KindCompound, "child %d (%s) is unbounded", i, child.Shape.Kind())
		}
		c.children[i] = child
		c.volumes[i] = vol
	}
	c.tree = bvt.BuildBalanced(lo.Map(c.volumes, func(vol spatialmath.AABB, i int) bvt.Leaf {
		return bvt.Leaf{Index: i, Volume: vol}
	}))
	return c, nil
}

func isUnbounded(b spatialmath.AABB) bool {
	for _, v := range []float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return true
		}
	}
	return false
}

// Kind returns KindCompound.
func (c *Compound) Kind() Kind { return KindCompound }

// Len returns the number of children.
func (c *Compound) Len() int { return len(c.children) }

// ChildAt returns the pose and shape of the i'th child.
func (c *Compound) ChildAt(i int) (spatialmath.Pose, Shape) {
	return c.children[i].Pose, c.children[i].Shape
}

// Children returns the children in construction order.
func (c *Compound) Children() []Child {
	return c.children
}

// BVT returns the tree over the children.
func (c *Compound) BVT() *bvt.BVT { return c.tree }

// BoundingVolumeOf returns the box of the i'th child in the compound frame.
func (c *Compound) BoundingVolumeOf(i int) spatialmath.AABB { return c.volumes[i] }

// AABB returns a box bounding the compound under pose.
func (c *Compound) AABB(pose spatialmath.Pose) spatialmath.AABB {
	return c.tree.Root().Volume.Transform(pose)
}
