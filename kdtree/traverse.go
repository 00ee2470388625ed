package kdtree

import (
	"math"

	"github.com/seanjames777/raytracer/types"
)

// A ray/triangle hit.
type Hit struct {
	// Parametric hit distance along the ray.
	Distance float32

	// Index of the hit triangle in the build input and its material reference.
	Triangle uint32
	Material uint32

	// Barycentric coordinates of the second and third triangle vertex.
	Beta, Gamma float32

	// Hit position and the geometric shading frame of the triangle.
	Position  types.Vec3
	Normal    types.Vec3
	Tangent   types.Vec3
	Bitangent types.Vec3
}

// A pending far child together with the ray interval that overlaps it.
type traversalEntry struct {
	node          uint32
	tEnter, tExit float32
}

type traversalStack struct {
	entries [maxTraversalDepth + 1]traversalEntry
	size    int
}

func (s *traversalStack) push(node uint32, tEnter, tExit float32) {
	s.entries[s.size] = traversalEntry{node, tEnter, tExit}
	s.size++
}

func (s *traversalStack) pop() (traversalEntry, bool) {
	if s.size == 0 {
		return traversalEntry{}, false
	}
	s.size--
	return s.entries[s.size], true
}

// Find the nearest triangle hit by the ray.
func (t *Tree) IntersectNearest(r types.Ray) (Hit, bool) {
	st, dist, beta, gamma := t.traverse(&r, math.MaxFloat32, false)
	if st == nil {
		return Hit{}, false
	}
	return newHit(st, &r, dist, beta, gamma), true
}

// Returns true if the ray hits any triangle at a distance in (0, maxDistance).
// Traversal stops at the first hit found.
func (t *Tree) IntersectAny(r types.Ray, maxDistance float32) bool {
	st, _, _, _ := t.traverse(&r, maxDistance, true)
	return st != nil
}

// Traverse the tree front-to-back. Returns the hit triangle or nil.
func (t *Tree) traverse(r *types.Ray, maxDistance float32, anyHit bool) (hitTri *SetupTriangle, best, bestBeta, bestGamma float32) {
	tEnter, tExit, ok := t.bounds.IntersectRay(*r)
	if !ok || !(tEnter < maxDistance) {
		return nil, 0, 0, 0
	}
	if tExit > maxDistance {
		tExit = maxDistance
	}

	best = maxDistance
	var stack traversalStack
	index := uint32(0)

	for {
		node := t.nodes[index]

		// Descend to the first leaf along the ray
		for !node.IsLeaf() {
			axis := node.Axis()
			split := node.SplitDist()
			near := node.Children()
			far := near + 1

			if r.Dir[axis] == 0 {
				// Parallel rays never cross the plane; visit the side
				// containing the origin (both if it lies on the plane).
				switch {
				case r.Origin[axis] < split:
				case r.Origin[axis] > split:
					near = far
				default:
					stack.push(far, tEnter, tExit)
				}
				node = t.nodes[near]
				index = near
				continue
			}

			if r.Dir[axis] < 0 {
				near, far = far, near
			}

			tSplit := (split - r.Origin[axis]) * r.InvDir[axis]
			switch {
			case tSplit > tExit:
				index = near
			case tSplit < tEnter:
				index = far
			default:
				stack.push(far, tSplit, tExit)
				tExit = tSplit
				index = near
			}
			node = t.nodes[index]
		}

		// Test leaf triangles
		first, count := node.Triangles()
		leafTris := t.triangles[first : first+count]
		for i := range leafTris {
			dist, beta, gamma, hit := leafTris[i].Intersect(r, best)
			if !hit {
				continue
			}
			if anyHit {
				return &leafTris[i], dist, beta, gamma
			}
			hitTri, best, bestBeta, bestGamma = &leafTris[i], dist, beta, gamma
		}

		// Hits inside the current cell cannot be beaten by cells further away
		if hitTri != nil && best <= tExit {
			return hitTri, best, bestBeta, bestGamma
		}

		entry, ok := stack.pop()
		if !ok || entry.tEnter > best {
			return hitTri, best, bestBeta, bestGamma
		}
		index, tEnter, tExit = entry.node, entry.tEnter, entry.tExit
	}
}

func newHit(st *SetupTriangle, r *types.Ray, dist, beta, gamma float32) Hit {
	return Hit{
		Distance:  dist,
		Triangle:  st.Index,
		Material:  st.Material,
		Beta:      beta,
		Gamma:     gamma,
		Position:  r.At(dist),
		Normal:    st.Normal,
		Tangent:   st.Tangent,
		Bitangent: st.Normal.Cross(st.Tangent),
	}
}
