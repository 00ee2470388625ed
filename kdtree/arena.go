package kdtree

import "github.com/pkg/errors"

// A chunk is the local node/triangle arena of a subtree built by a single
// task. Slot 0 always holds the subtree root; every other node belongs to a
// child pair allocated by a node of the same chunk. Subtrees handed off to
// other tasks are recorded as links to the slot their root will occupy.
//
// Chunks are only written by the task that owns them and are merged into a
// single arena once all tasks have completed.
type chunk struct {
	nodes     []Node
	triangles []SetupTriangle
	links     []chunkLink
}

type chunkLink struct {
	slot  uint32
	child *chunk
}

func newChunk() *chunk {
	return &chunk{nodes: make([]Node, 1)}
}

// Allocate a contiguous pair of child nodes and return the index of the first.
func (c *chunk) allocPair() uint32 {
	index := uint32(len(c.nodes))
	c.nodes = append(c.nodes, Node{}, Node{})
	return index
}

// Flatten a chunk hierarchy into a single node and triangle arena holding at
// most limit entries each. Chunks are visited depth-first in link order so
// the output only depends on the chunk contents.
func mergeChunks(root *chunk, limit uint64) ([]Node, []SetupTriangle, error) {
	var numNodes, numTriangles uint64
	var count func(c *chunk)
	count = func(c *chunk) {
		// Each linked chunk root replaces a placeholder in its parent
		numNodes += uint64(len(c.nodes))
		numTriangles += uint64(len(c.triangles))
		for _, link := range c.links {
			numNodes--
			count(link.child)
		}
	}
	count(root)

	if numNodes > limit || numTriangles > limit {
		return nil, nil, errors.Wrapf(ErrArenaExhausted, "%d nodes and %d triangle refs exceed the limit of %d", numNodes, numTriangles, limit)
	}

	nodes := make([]Node, 1, numNodes)
	triangles := make([]SetupTriangle, 0, numTriangles)

	var appendChunk func(c *chunk, slot uint32)
	appendChunk = func(c *chunk, slot uint32) {
		// Chunk index i >= 1 lands at nodeBase + i
		nodeBase := uint32(len(nodes) - 1)
		triBase := uint32(len(triangles))

		root := c.nodes[0]
		root.relocate(nodeBase, triBase)
		nodes[slot] = root
		for _, node := range c.nodes[1:] {
			node.relocate(nodeBase, triBase)
			nodes = append(nodes, node)
		}
		triangles = append(triangles, c.triangles...)

		for _, link := range c.links {
			appendChunk(link.child, nodeBase+link.slot)
		}
	}
	appendChunk(root, 0)

	return nodes, triangles, nil
}
