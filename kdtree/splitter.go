package kdtree

import "github.com/seanjames777/raytracer/types"

// Where triangles lying in the split plane are placed.
type PlanarMode uint8

const (
	PlanarBoth PlanarMode = iota
	PlanarLeft
	PlanarRight
)

// A split decision returned by a splitter.
type splitDecision struct {
	axis   types.Axis
	dist   float32
	planar PlanarMode
}

// A splitter decides whether a node should be split and where. The set of
// implementations is closed; use newSplitter to obtain one for a Strategy.
type splitter interface {
	// Decide how to split the node with the given bounds containing the
	// triangles referenced by refs. Returns false if the node should
	// become a leaf.
	decide(ctx *workerContext, bounds types.AABB, refs []uint32, depth int) (splitDecision, bool)
}

func newSplitter(opts Options, triBoxes []types.AABB) splitter {
	switch opts.Strategy {
	case SurfaceAreaHeuristic:
		return &sahSplitter{
			triBoxes:      triBoxes,
			maxDepth:      opts.MaxDepth,
			minTriangles:  opts.MinTriangles,
			traverseCost:  opts.TraverseCost,
			intersectCost: opts.IntersectCost,
		}
	default:
		return &medianSplitter{
			maxDepth:     opts.MaxDepth,
			minTriangles: opts.MinTriangles,
			roundRobin:   opts.RoundRobin,
		}
	}
}

// Get the extent of a triangle box along axis after clipping it to the node
// bounds.
func clippedExtent(triBox, bounds types.AABB, axis types.Axis) (lo, hi float32) {
	lo, hi = triBox.Min[axis], triBox.Max[axis]
	if !(lo >= bounds.Min[axis]) {
		lo = bounds.Min[axis]
	}
	if !(hi <= bounds.Max[axis]) {
		hi = bounds.Max[axis]
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}
