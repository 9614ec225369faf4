package contact

import (
	"math"

	"go.viam.com/collide/bvt"
	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// compositeAny finds the deepest contact between a child of c and other. Children are searched
// best-first by the separation lower bound of their bounding volume against other's box expressed
// in the composite frame; volumes beyond the margin or the best contact so far are pruned.
func (d *Dispatcher) compositeAny(
	pose spatialmath.Pose, c shape.Composite,
	otherPose spatialmath.Pose, other shape.Shape,
	margin float64,
) (*Contact, error) {
	otherBox := other.AABB(spatialmath.PoseBetween(pose, otherPose))
	var firstErr error
	best := math.Inf(1)

	res, found := bvt.BestFirstSearch[*Contact](c.BVT(), bvt.BestFirstFuncs[*Contact]{
		Volume: func(vol spatialmath.AABB) (float64, bool) {
			lower := vol.SeparationLowerBound(otherBox)
			return lower, lower <= margin && lower < best
		},
		Leaf: func(i int, _ spatialmath.AABB) (*Contact, float64, bool) {
			childPose, child := c.ChildAt(i)
			contact, err := d.AnyAgainstAny(spatialmath.Compose(pose, childPose), child, otherPose, other, margin)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return nil, 0, false
			}
			if contact == nil {
				return nil, 0, false
			}
			if contact.Depth < best {
				best = contact.Depth
			}
			return contact, contact.Depth, true
		},
	})
	if firstErr != nil {
		return nil, firstErr
	}
	if !found {
		return nil, nil
	}
	return res.Value, nil
}
