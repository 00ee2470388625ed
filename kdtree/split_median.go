package kdtree

import "github.com/seanjames777/raytracer/types"

// The median splitter cuts nodes in half along the longest box axis (or
// cycles axes by depth in round-robin mode). Triangles lying in the split
// plane are placed in both children.
type medianSplitter struct {
	maxDepth     int
	minTriangles int
	roundRobin   bool
}

func (s *medianSplitter) decide(_ *workerContext, bounds types.AABB, refs []uint32, depth int) (splitDecision, bool) {
	if depth >= s.maxDepth || len(refs) < s.minTriangles || len(refs) == 0 {
		return splitDecision{}, false
	}

	axis := bounds.LongestAxis()
	if s.roundRobin {
		axis = types.Axis(depth % 3)
	}

	// Flat boxes cannot be split along this axis
	if !(bounds.Max[axis] > bounds.Min[axis]) {
		return splitDecision{}, false
	}

	return splitDecision{
		axis:   axis,
		dist:   0.5 * (bounds.Min[axis] + bounds.Max[axis]),
		planar: PlanarBoth,
	}, true
}
