package kdtree

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/seanjames777/raytracer/types"
)

// Generate count random triangles inside the unit cube.
func randomTriangles(count int, size float32, rng *rand.Rand) []Triangle {
	triangles := make([]Triangle, count)
	for index := range triangles {
		anchor := types.XYZ(
			rng.Float32()*(1-size),
			rng.Float32()*(1-size),
			rng.Float32()*(1-size),
		)
		for v := 0; v < 3; v++ {
			triangles[index].Vertices[v] = anchor.Add(types.XYZ(rng.Float32()*size, rng.Float32()*size, rng.Float32()*size))
		}
		triangles[index].Material = uint32(index % 7)
	}
	return triangles
}

// Generate a flat grid of 2*res*res triangles covering the unit square at z = 0.
func gridTriangles(res int) []Triangle {
	step := 1.0 / float32(res)
	var triangles []Triangle
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			x0, y0 := float32(x)*step, float32(y)*step
			x1, y1 := x0+step, y0+step
			triangles = append(triangles,
				Triangle{Vertices: [3]types.Vec3{{x0, y0, 0}, {x1, y0, 0}, {x1, y1, 0}}},
				Triangle{Vertices: [3]types.Vec3{{x0, y0, 0}, {x1, y1, 0}, {x0, y1, 0}}},
			)
		}
	}
	return triangles
}

// Generate a ray starting outside the bounds and pointing to a random point
// inside them.
func randomRay(bounds types.AABB, rng *rand.Rand) types.Ray {
	center := bounds.Center()
	radius := bounds.Size().Len() + 1

	dir := types.XYZ(float32(rng.NormFloat64()), float32(rng.NormFloat64()), float32(rng.NormFloat64())).Normalize()
	origin := center.Add(dir.Mul(radius))

	size := bounds.Size()
	target := types.XYZ(
		bounds.Min[0]+rng.Float32()*size[0],
		bounds.Min[1]+rng.Float32()*size[1],
		bounds.Min[2]+rng.Float32()*size[2],
	)
	return types.NewRay(origin, target.Sub(origin).Normalize())
}

func testOptions(strategy Strategy) Options {
	opts := DefaultOptions()
	opts.Strategy = strategy
	return opts
}

func mustBuild(t testing.TB, triangles []Triangle, bounds types.AABB, opts Options) *Tree {
	tree, err := Build(triangles, bounds, opts)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return tree
}

// Get the number of leafs referencing each input triangle.
func leafRefCounts(tree *Tree, numTriangles int) []int {
	counts := make([]int, numTriangles)
	tree.Walk(func(info NodeInfo) bool {
		for _, st := range info.Triangles {
			counts[st.Index]++
		}
		return true
	})
	return counts
}

// Describe the tree structure in a layout independent way.
func treeSignature(tree *Tree) []string {
	var sig []string
	tree.Walk(func(info NodeInfo) bool {
		if !info.Node.IsLeaf() {
			sig = append(sig, fmt.Sprintf("%d: split %s at %x", info.Depth, info.Node.Axis(), math.Float32bits(info.Node.SplitDist())))
			return true
		}

		indices := make([]int, len(info.Triangles))
		for i, st := range info.Triangles {
			indices[i] = int(st.Index)
		}
		sort.Ints(indices)
		sig = append(sig, fmt.Sprintf("%d: leaf %v", info.Depth, indices))
		return true
	})
	return sig
}

// Compare nearest hits reported by the tree against brute-force intersection.
func compareWithBruteForce(t *testing.T, tree *Tree, triangles []Triangle, numRays int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	numHits := 0
	for i := 0; i < numRays; i++ {
		ray := randomRay(tree.Bounds(), rng)
		hit, ok := tree.IntersectNearest(ray)
		expHit, expOk := IntersectBruteForce(triangles, ray)
		if ok != expOk {
			t.Fatalf("[ray %d] expected hit to be %t; got %t (origin %v, dir %v)", i, expOk, ok, ray.Origin, ray.Dir)
		}
		if !ok {
			continue
		}
		numHits++
		if !approxEqual(hit.Distance, expHit.Distance) {
			t.Fatalf("[ray %d] expected hit distance %f (triangle %d); got %f (triangle %d)", i, expHit.Distance, expHit.Triangle, hit.Distance, hit.Triangle)
		}
	}

	if numHits == 0 {
		t.Fatal("expected at least one ray to hit the scene")
	}
}
