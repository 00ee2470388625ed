package kdtree

import (
	"time"

	"github.com/pkg/errors"
	"github.com/seanjames777/raytracer/types"
)

// A Tree is an immutable kd-tree over a set of triangles. Nodes are stored in
// a flat arena with the root at index 0; child pairs are allocated
// contiguously and leaf triangles are stored by value in a second arena.
//
// Trees are never modified after construction so all query methods are safe
// for concurrent use.
type Tree struct {
	bounds    types.AABB
	nodes     []Node
	triangles []SetupTriangle
	buildTime time.Duration
}

// Information about a visited tree node.
type NodeInfo struct {
	Index  uint32
	Depth  int
	Bounds types.AABB
	Node   Node

	// The leaf triangles. Callers must not modify the returned slice.
	Triangles []SetupTriangle
}

// The tree contents in a form suitable for persistence.
type Archive struct {
	Bounds    types.AABB
	Nodes     []Node
	Triangles []SetupTriangle
}

// Get the root bounding box.
func (t *Tree) Bounds() types.AABB {
	return t.bounds
}

// Get the number of tree nodes.
func (t *Tree) NodeCount() int {
	return len(t.nodes)
}

// Get the number of triangle references stored in tree leafs.
func (t *Tree) TriangleRefCount() int {
	return len(t.triangles)
}

// Visit all nodes depth-first, left child before right. If fn returns false
// the children of the visited node are skipped.
func (t *Tree) Walk(fn func(info NodeInfo) bool) {
	t.walk(0, 0, t.bounds, fn)
}

func (t *Tree) walk(index uint32, depth int, bounds types.AABB, fn func(info NodeInfo) bool) {
	node := t.nodes[index]
	info := NodeInfo{
		Index:  index,
		Depth:  depth,
		Bounds: bounds,
		Node:   node,
	}
	if node.IsLeaf() {
		first, count := node.Triangles()
		info.Triangles = t.triangles[first : first+count : first+count]
	}

	if !fn(info) || node.IsLeaf() {
		return
	}

	left, right := bounds.Split(node.Axis(), node.SplitDist())
	children := node.Children()
	t.walk(children, depth+1, left, fn)
	t.walk(children+1, depth+1, right, fn)
}

// Export the tree contents. The returned archive shares no memory with the tree.
func (t *Tree) Archive() Archive {
	return Archive{Bounds: t.bounds, Nodes: t.nodes, Triangles: t.triangles}.clone()
}

// Re-create a tree from an archive. The archive contents are validated so
// that traversal of the returned tree can never index outside its arenas.
func NewFromArchive(a Archive) (*Tree, error) {
	if !a.Bounds.IsValid() {
		return nil, errors.Wrap(ErrCorruptArchive, "invalid root bounds")
	}
	if len(a.Nodes) == 0 {
		return nil, errors.Wrap(ErrCorruptArchive, "empty node list")
	}
	if uint64(len(a.Nodes)) > maxArenaIndex || uint64(len(a.Triangles)) > maxArenaIndex {
		return nil, ErrArenaExhausted
	}

	for index, st := range a.Triangles {
		if st.K > degenerateAxis {
			return nil, errors.Wrapf(ErrCorruptArchive, "triangle %d has invalid projection axis %d", index, st.K)
		}
	}

	// Child pairs always follow their parent so depths can be resolved in
	// a single forward pass.
	depth := make([]uint8, len(a.Nodes))
	numNodes := uint64(len(a.Nodes))
	for index, node := range a.Nodes {
		if node.IsLeaf() {
			first, count := node.Triangles()
			if uint64(first)+uint64(count) > uint64(len(a.Triangles)) {
				return nil, errors.Wrapf(ErrCorruptArchive, "leaf %d references triangles [%d, %d) out of %d", index, first, first+count, len(a.Triangles))
			}
			continue
		}

		children := uint64(node.Children())
		if children <= uint64(index) || children+1 >= numNodes {
			return nil, errors.Wrapf(ErrCorruptArchive, "node %d references invalid child pair %d", index, children)
		}
		if int(depth[index])+1 > maxTraversalDepth {
			return nil, errors.Wrapf(ErrCorruptArchive, "node %d exceeds the maximum depth of %d", index, maxTraversalDepth)
		}
		for _, child := range [2]uint64{children, children + 1} {
			if depth[child] < depth[index]+1 {
				depth[child] = depth[index] + 1
			}
		}
	}

	archive := a.clone()
	return &Tree{
		bounds:    archive.Bounds,
		nodes:     archive.Nodes,
		triangles: archive.Triangles,
	}, nil
}

func (a Archive) clone() Archive {
	return Archive{
		Bounds:    a.Bounds,
		Nodes:     append([]Node(nil), a.Nodes...),
		Triangles: append([]SetupTriangle(nil), a.Triangles...),
	}
}
