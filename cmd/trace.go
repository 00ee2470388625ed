package cmd

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/seanjames777/raytracer/asset/reader"
	"github.com/seanjames777/raytracer/kdtree"
	"github.com/seanjames777/raytracer/scene"
	"github.com/seanjames777/raytracer/types"
	"github.com/urfave/cli"
)

// Relative distance tolerance used when comparing tree hits against the
// brute-force reference.
const verifyTolerance = 1e-4

const shadowRayOffset = 1e-4

type traceStats struct {
	worker    int
	rays      int
	hits      int
	occluded  int
	traceTime time.Duration
}

// Trace random rays through a persisted tree and report throughput.
func TraceTree(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing tree zip file")
	}

	tree, err := reader.ReadTree(ctx.Args().First())
	if err != nil {
		return err
	}

	numRays := ctx.Int("rays")
	workers := ctx.Int("workers")
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	seed := ctx.Int64("seed")

	// Each worker traces its share of rays with a private RNG
	stats := make([]traceStats, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	start := time.Now()
	for w := 0; w < workers; w++ {
		count := numRays / workers
		if w < numRays%workers {
			count++
		}

		go func(wid, n int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(wid)))
			bounds := tree.Bounds()
			light := bounds.Max.Add(bounds.Size().Mul(0.5))
			st := &stats[wid]
			st.worker = wid
			workerStart := time.Now()
			for i := 0; i < n; i++ {
				ray := scene.RandomRay(bounds, rng)
				if hit, ok := tree.IntersectNearest(ray); ok {
					st.hits++
					if tree.IntersectAny(shadowRay(hit.Position, light), 1) {
						st.occluded++
					}
				}
				st.rays++
			}
			st.traceTime = time.Since(workerStart)
		}(w, count)
	}
	wg.Wait()
	displayTraceStats(stats, time.Since(start))

	if !ctx.Bool("verify") {
		return nil
	}
	return verifyTree(ctx, tree)
}

// Compare nearest hits against brute-force intersection of the regenerated scene.
func verifyTree(ctx *cli.Context, tree *kdtree.Tree) error {
	triangles, err := scene.Generate(ctx.String("scene"), ctx.Int("count"), ctx.Int64("seed"))
	if err != nil {
		return err
	}
	if bounds := kdtree.BoundsOf(triangles); bounds != tree.Bounds() {
		return errors.Errorf("verify: scene bounds %v do not match tree bounds %v", bounds, tree.Bounds())
	}

	numRays := ctx.Int("verify-rays")
	logger.Noticef("verifying %d rays against brute-force intersection of %d triangles", numRays, len(triangles))

	rng := rand.New(rand.NewSource(ctx.Int64("seed")))
	mismatches := 0
	for i := 0; i < numRays; i++ {
		ray := scene.RandomRay(tree.Bounds(), rng)
		hit, ok := tree.IntersectNearest(ray)
		expHit, expOk := kdtree.IntersectBruteForce(triangles, ray)
		if !matchesReference(tree.Bounds(), hit, ok, expHit, expOk) {
			mismatches++
			logger.Debugf("ray %d: tree hit (%t, %f, tri %d); brute-force hit (%t, %f, tri %d)", i, ok, hit.Distance, hit.Triangle, expOk, expHit.Distance, expHit.Triangle)
		}
	}

	if mismatches != 0 {
		return errors.Errorf("verify: %d of %d rays returned a different nearest hit", mismatches, numRays)
	}
	logger.Noticef("all %d rays match", numRays)
	return nil
}

// Compare a tree hit against the brute-force hit for the same ray. Tree hits
// must also lie inside the tree bounds.
func matchesReference(bounds types.AABB, hit kdtree.Hit, ok bool, expHit kdtree.Hit, expOk bool) bool {
	if ok != expOk {
		return false
	}
	if !ok {
		return true
	}
	eps := verifyTolerance * float32(math.Max(1, float64(bounds.Size().Len())))
	return sameDistance(hit.Distance, expHit.Distance) && bounds.Contains(hit.Position, eps)
}

// Create a ray from a surface point towards a light. The light is reached at
// t = 1; the origin is nudged towards the light to avoid self intersections.
func shadowRay(from, light types.Vec3) types.Ray {
	toLight := light.Sub(from)
	return types.NewRay(from.Add(toLight.Mul(shadowRayOffset)), toLight.Mul(1-shadowRayOffset))
}

func sameDistance(d1, d2 float32) bool {
	scale := math.Max(1, math.Abs(float64(d2)))
	return math.Abs(float64(d1-d2)) <= verifyTolerance*scale
}

func displayTraceStats(stats []traceStats, total time.Duration) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Rays", "Hits", "Shadowed", "Trace time", "Mrays/s"})

	var rays, hits, occluded int
	for _, st := range stats {
		rays += st.rays
		hits += st.hits
		occluded += st.occluded
		table.Append([]string{
			fmt.Sprintf("%d", st.worker),
			fmt.Sprintf("%d", st.rays),
			fmt.Sprintf("%d", st.hits),
			fmt.Sprintf("%d", st.occluded),
			st.traceTime.String(),
			fmtRate(st.rays, st.traceTime),
		})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", rays), fmt.Sprintf("%d", hits), fmt.Sprintf("%d", occluded), total.String(), fmtRate(rays, total)})

	table.Render()
	logger.Noticef("trace statistics\n%s", buf.String())
}

func fmtRate(rays int, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", float64(rays)/elapsed.Seconds()/1e6)
}
