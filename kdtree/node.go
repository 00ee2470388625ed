package kdtree

import (
	"math"

	"github.com/seanjames777/raytracer/types"
)

// The node type is stored in the low 2 bits of the node header.
type NodeType uint32

const (
	SplitX NodeType = iota
	SplitY
	SplitZ
	Leaf

	nodeTypeBits = 2
	nodeTypeMask = 1<<nodeTypeBits - 1

	// The largest child pair or triangle index that fits in a node header.
	maxArenaIndex = math.MaxUint32 >> nodeTypeBits
)

// Tree nodes are stored in a flat arena and are comprised of two multipurpose
// 32-bit fields whose meaning depends on the node type:
//
//   - For internal nodes, Header holds the split axis and the arena index of
//     the first child; the second child always follows it. Data holds the
//     bits of the split plane distance along the axis.
//   - For leafs, Header holds the index of the first SetupTriangle of the
//     leaf and Data holds the triangle count.
type Node struct {
	Header uint32
	Data   uint32
}

// Get the node type.
func (n Node) Type() NodeType {
	return NodeType(n.Header & nodeTypeMask)
}

// Returns true if this is a leaf node.
func (n Node) IsLeaf() bool {
	return n.Type() == Leaf
}

// Get the split axis of an internal node.
func (n Node) Axis() types.Axis {
	return types.Axis(n.Header & nodeTypeMask)
}

// Get the split plane distance of an internal node.
func (n Node) SplitDist() float32 {
	return math.Float32frombits(n.Data)
}

// Get the arena index of the first child of an internal node.
func (n Node) Children() uint32 {
	return n.Header >> nodeTypeBits
}

// Get the triangle range of a leaf node.
func (n Node) Triangles() (first, count uint32) {
	return n.Header >> nodeTypeBits, n.Data
}

// Setup an internal node.
func (n *Node) SetInternal(axis types.Axis, splitDist float32, firstChild uint32) {
	n.Header = firstChild<<nodeTypeBits | uint32(axis)
	n.Data = math.Float32bits(splitDist)
}

// Setup a leaf node.
func (n *Node) SetLeaf(firstTriangle, count uint32) {
	n.Header = firstTriangle<<nodeTypeBits | uint32(Leaf)
	n.Data = count
}

// Add offsets to the child or triangle index of the node.
func (n *Node) relocate(nodeOffset, triangleOffset uint32) {
	if n.IsLeaf() {
		first, count := n.Triangles()
		n.SetLeaf(first+triangleOffset, count)
		return
	}
	n.Header += nodeOffset << nodeTypeBits
}
