package kdtree

import (
	"math"

	"github.com/seanjames777/raytracer/types"
)

// A triangle supplied to the builder. Triangles are identified by their
// position in the input slice.
type Triangle struct {
	Vertices [3]types.Vec3

	// An opaque reference (typically a material index) that is reported
	// back with every hit.
	Material uint32
}

// Get the triangle AABB. Triangles with NaN or infinite vertices yield an
// invalid box.
func (t Triangle) BBox() types.AABB {
	for _, v := range t.Vertices {
		if v.IsInvalid() {
			nan := float32(math.NaN())
			return types.AABB{Min: types.XYZ(nan, nan, nan), Max: types.XYZ(nan, nan, nan)}
		}
	}
	return types.AABBFromPoints(t.Vertices[0], t.Vertices[1], t.Vertices[2])
}

// Get the bounding box enclosing all triangles. Triangles with invalid
// vertices are ignored and an empty list yields a degenerate box at the origin.
func BoundsOf(triangles []Triangle) types.AABB {
	if len(triangles) == 0 {
		return types.AABB{}
	}

	box := types.EmptyAABB()
	for _, tri := range triangles {
		box = box.Union(tri.BBox())
	}
	return box
}
