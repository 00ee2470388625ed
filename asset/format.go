package asset

import "github.com/seanjames777/raytracer/types"

// Version of the persisted tree layout. Bumped whenever Node or
// SetupTriangle records change.
const TreeFormatVersion uint32 = 1

// Names of the entries stored in a tree archive.
const (
	MetaFile      = "meta.bin"
	NodeFile      = "nodes.bin"
	TriangleFile  = "triangles.bin"
	DefaultSuffix = ".zip"
)

// Tree archive metadata. Node and triangle records are stored as raw
// little-endian fixed-size records in separate archive entries.
type TreeMeta struct {
	Version       uint32
	Bounds        types.AABB
	NodeCount     uint32
	TriangleCount uint32
}
