package kdtree

import (
	"math"

	"github.com/seanjames777/raytracer/types"
)

// Marks a triangle with zero area (or invalid vertices) that can never be hit.
const degenerateAxis = 3

// SetupTriangle stores a triangle in a form optimized for ray intersection
// tests. The triangle plane is normalized so that its component along the
// dominant normal axis K equals 1; hit points are then projected onto the
// two remaining axes where barycentric coordinates are evaluated with a pair
// of precomputed 2D edge equations.
//
// All fields are fixed size so that leaf arrays can be persisted as raw records.
type SetupTriangle struct {
	// Dominant normal axis or degenerateAxis.
	K uint32

	// Plane equation divided by the normal component along K.
	NU, NV, ND float32

	// First vertex projected onto the (U, V) plane.
	AU, AV float32

	// Edge equations producing the barycentric coordinates of the second
	// and third vertex.
	BetaU, BetaV   float32
	GammaU, GammaV float32

	// Unit geometric normal and tangent (along the first edge).
	Normal  types.Vec3
	Tangent types.Vec3

	// Index of the source triangle and its opaque material reference.
	Index    uint32
	Material uint32
}

// Precompute the intersection data for a triangle.
func NewSetupTriangle(tri Triangle, index uint32) SetupTriangle {
	st := SetupTriangle{
		K:        degenerateAxis,
		Index:    index,
		Material: tri.Material,
	}

	a := tri.Vertices[0]
	e1 := tri.Vertices[1].Sub(a)
	e2 := tri.Vertices[2].Sub(a)
	plane := types.PlaneFromPoints(tri.Vertices[0], tri.Vertices[1], tri.Vertices[2])
	n := plane.Normal

	// Project along the axis where the normal is largest so the 2D
	// triangle has the largest possible area.
	k := types.XAxis
	if abs(n[types.YAxis]) > abs(n[k]) {
		k = types.YAxis
	}
	if abs(n[types.ZAxis]) > abs(n[k]) {
		k = types.ZAxis
	}
	u, v := k.Others()

	// n[k] equals the signed area of the projected triangle. Comparisons
	// with NaN fail so invalid vertices also end up here.
	det := n[k]
	if !(abs(det) > 0) || math.IsInf(float64(det), 0) {
		return st
	}

	invDet := 1.0 / det
	st.K = uint32(k)
	st.NU = n[u] * invDet
	st.NV = n[v] * invDet
	st.ND = plane.Dist * invDet
	projA := a.Project(u, v)
	st.AU, st.AV = projA[0], projA[1]
	st.BetaU = e2[v] * invDet
	st.BetaV = -e2[u] * invDet
	st.GammaU = -e1[v] * invDet
	st.GammaV = e1[u] * invDet
	st.Normal = n.Normalize()
	st.Tangent = e1.Normalize()
	return st
}

// Returns true if the triangle can never be hit.
func (st *SetupTriangle) Degenerate() bool {
	return st.K == degenerateAxis
}

// Intersect the triangle with a ray. A hit is reported only for distances
// in the open interval (0, tMax). The barycentric coordinates of the second
// and third vertex are returned in beta and gamma.
func (st *SetupTriangle) Intersect(r *types.Ray, tMax float32) (t, beta, gamma float32, hit bool) {
	if st.Degenerate() {
		return 0, 0, 0, false
	}

	k := types.Axis(st.K)
	u, v := k.Others()

	denom := r.Dir[k] + st.NU*r.Dir[u] + st.NV*r.Dir[v]
	if denom == 0 {
		return 0, 0, 0, false
	}

	t = (st.ND - r.Origin[k] - st.NU*r.Origin[u] - st.NV*r.Origin[v]) / denom
	if !(t > 0 && t < tMax) {
		return 0, 0, 0, false
	}

	hu := r.Origin[u] + t*r.Dir[u] - st.AU
	hv := r.Origin[v] + t*r.Dir[v] - st.AV

	beta = hu*st.BetaU + hv*st.BetaV
	if beta < 0 {
		return 0, 0, 0, false
	}
	gamma = hu*st.GammaU + hv*st.GammaV
	if gamma < 0 || beta+gamma > 1 {
		return 0, 0, 0, false
	}

	return t, beta, gamma, true
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
