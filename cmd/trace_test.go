package cmd

import (
	"flag"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/seanjames777/raytracer/kdtree"
	"github.com/seanjames777/raytracer/types"
	"github.com/urfave/cli"
)

func TestBuildOptions(t *testing.T) {
	set := flag.NewFlagSet("build", flag.ContinueOnError)
	set.String("strategy", "median", "")
	set.Int("max-depth", 12, "")
	set.Int("min-triangles", 2, "")
	set.Bool("round-robin", true, "")
	set.Float64("traverse-cost", 1, "")
	set.Float64("intersect-cost", 2, "")
	set.Int("workers", 3, "")
	set.Int("parallel-min-triangles", 128, "")
	set.Int("parallel-max-depth", 4, "")

	opts, err := buildOptions(cli.NewContext(cli.NewApp(), set, nil))
	if err != nil {
		t.Fatal(err)
	}

	exp := kdtree.Options{
		Strategy:             kdtree.Median,
		MaxDepth:             12,
		MinTriangles:         2,
		RoundRobin:           true,
		TraverseCost:         1,
		IntersectCost:        2,
		Workers:              3,
		ParallelMinTriangles: 128,
		ParallelMaxDepth:     4,
	}
	if opts != exp {
		t.Fatalf("expected options %+v; got %+v", exp, opts)
	}

	if err = set.Set("strategy", "octree"); err != nil {
		t.Fatal(err)
	}
	if _, err = buildOptions(cli.NewContext(cli.NewApp(), set, nil)); errors.Cause(err) != kdtree.ErrInvalidOptions {
		t.Fatalf("expected error %v; got %v", kdtree.ErrInvalidOptions, err)
	}
}

func TestShadowRay(t *testing.T) {
	from := types.XYZ(0, 0, 0)
	light := types.XYZ(0, 0, 10)
	ray := shadowRay(from, light)

	if ray.Origin[2] <= 0 {
		t.Fatalf("expected shadow ray origin to be offset towards the light; got %v", ray.Origin)
	}
	if end := ray.At(1); !sameDistance(end[2], 10) {
		t.Fatalf("expected the light to be reached at t = 1; got %v", end)
	}
}

func TestFmtRate(t *testing.T) {
	type spec struct {
		rays    int
		elapsed time.Duration
		exp     string
	}
	specs := []spec{
		{2000000, time.Second, "2.00"},
		{500000, 2 * time.Second, "0.25"},
		{100, 0, "-"},
	}

	for index, s := range specs {
		if out := fmtRate(s.rays, s.elapsed); out != s.exp {
			t.Fatalf("[spec %d] expected %q; got %q", index, s.exp, out)
		}
	}
}

func TestMatchesReference(t *testing.T) {
	bounds := types.AABB{Min: types.XYZ(0, 0, 0), Max: types.XYZ(1, 1, 1)}
	inside := kdtree.Hit{Distance: 2, Position: types.XYZ(0.5, 0.5, 1)}
	outside := kdtree.Hit{Distance: 2, Position: types.XYZ(0.5, 0.5, 1.5)}
	farther := kdtree.Hit{Distance: 2.5, Position: types.XYZ(0.5, 0.5, 1)}

	type spec struct {
		descr  string
		hit    kdtree.Hit
		ok     bool
		expHit kdtree.Hit
		expOk  bool
		exp    bool
	}
	specs := []spec{
		{"both miss", kdtree.Hit{}, false, kdtree.Hit{}, false, true},
		{"same hit", inside, true, inside, true, true},
		{"tree miss", kdtree.Hit{}, false, inside, true, false},
		{"reference miss", inside, true, kdtree.Hit{}, false, false},
		{"distance mismatch", farther, true, inside, true, false},
		{"hit outside tree bounds", outside, true, outside, true, false},
	}

	for _, s := range specs {
		if out := matchesReference(bounds, s.hit, s.ok, s.expHit, s.expOk); out != s.exp {
			t.Fatalf("[%s] expected %t; got %t", s.descr, s.exp, out)
		}
	}
}

func TestTreeArchivePath(t *testing.T) {
	type spec struct {
		in  string
		exp string
	}
	specs := []spec{
		{"tree", "tree.zip"},
		{"out/tree", "out/tree.zip"},
		{"tree.zip", "tree.zip"},
		{"tree.kd", "tree.kd"},
	}

	for index, s := range specs {
		if out := treeArchivePath(s.in); out != s.exp {
			t.Fatalf("[spec %d] expected %q; got %q", index, s.exp, out)
		}
	}
}
