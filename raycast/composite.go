package raycast

import (
	"go.viam.com/collide/bvt"
	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
)

// castComposite runs a best-first search over the composite's children ordered by ray entry time
// into their bounding volumes. A subtree is skipped once its entry time is past the best hit.
func (d *Dispatcher) castComposite(
	c shape.Composite, ray spatialmath.Ray, maxToi float64, solid, withUV bool,
) (RayIntersection, bool, error) {
	var firstErr error
	best := maxToi
	mesh, isMesh := c.(*shape.TriMesh)

	res, found := bvt.BestFirstSearch[RayIntersection](c.BVT(), bvt.BestFirstFuncs[RayIntersection]{
		Volume: func(vol spatialmath.AABB) (float64, bool) {
			return vol.RayEntry(ray, best)
		},
		Leaf: func(i int, _ spatialmath.AABB) (RayIntersection, float64, bool) {
			childPose, child := c.ChildAt(i)
			hit, ok, err := d.castWithPose(childPose, child, ray, best, solid, withUV || isMesh)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return RayIntersection{}, 0, false
			}
			if !ok {
				return RayIntersection{}, 0, false
			}
			if isMesh {
				hit = interpolateMeshHit(mesh, i, hit)
			}
			if hit.TOI < best {
				best = hit.TOI
			}
			return hit, hit.TOI, true
		},
	})
	if firstErr != nil {
		return RayIntersection{}, false, firstErr
	}
	if !found {
		return RayIntersection{}, false, nil
	}
	return res.Value, true, nil
}

// interpolateMeshHit replaces the triangle uv of a mesh hit with the mesh's per-vertex uvs and
// normals interpolated at the hit, when the mesh carries them.
func interpolateMeshHit(mesh *shape.TriMesh, i int, hit RayIntersection) RayIntersection {
	if hit.UV == nil {
		return hit
	}
	bary := [3]float64{1 - hit.UV.X - hit.UV.Y, hit.UV.X, hit.UV.Y}
	if n, ok := mesh.InterpolateNormal(i, bary); ok {
		if n.Dot(hit.Normal) < 0 {
			n = n.Mul(-1)
		}
		hit.Normal = n
	}
	if uv, ok := mesh.InterpolateUV(i, bary); ok {
		hit.UV = &uv
	}
	return hit
}
