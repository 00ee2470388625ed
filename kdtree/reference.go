package kdtree

import (
	"math"

	"github.com/seanjames777/raytracer/types"
)

// Find the nearest hit by testing the ray against every triangle. This is
// the reference the tree traversal is checked against.
func IntersectBruteForce(triangles []Triangle, r types.Ray) (Hit, bool) {
	var (
		best                = float32(math.MaxFloat32)
		bestBeta, bestGamma float32
		bestTri             SetupTriangle
		found               bool
	)

	for index, tri := range triangles {
		st := NewSetupTriangle(tri, uint32(index))
		dist, beta, gamma, hit := st.Intersect(&r, best)
		if !hit {
			continue
		}
		best, bestBeta, bestGamma, bestTri, found = dist, beta, gamma, st, true
	}

	if !found {
		return Hit{}, false
	}
	return newHit(&bestTri, &r, best, bestBeta, bestGamma), true
}
