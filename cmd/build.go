package cmd

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/seanjames777/raytracer/asset"
	"github.com/seanjames777/raytracer/asset/reader"
	"github.com/seanjames777/raytracer/asset/writer"
	"github.com/seanjames777/raytracer/kdtree"
	"github.com/seanjames777/raytracer/scene"
	"github.com/urfave/cli"
)

// Build a kd-tree for a synthetic scene and optionally persist it.
func BuildTree(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := buildOptions(ctx)
	if err != nil {
		return err
	}

	triangles, err := scene.Generate(ctx.String("scene"), ctx.Int("count"), ctx.Int64("seed"))
	if err != nil {
		return err
	}

	logger.Noticef("building kd-tree for %q scene (%d triangles)", ctx.String("scene"), len(triangles))
	tree, err := kdtree.Build(triangles, kdtree.BoundsOf(triangles), opts)
	if err != nil {
		return err
	}

	logger.Noticef("tree information:\n%s", tree.Stats())

	if out := ctx.String("out"); out != "" {
		return writer.WriteTree(tree, treeArchivePath(out))
	}
	return nil
}

// Append the default archive suffix to output paths without an extension.
func treeArchivePath(out string) string {
	if filepath.Ext(out) == "" {
		return out + asset.DefaultSuffix
	}
	return out
}

// Display information about a persisted tree.
func ShowTreeInfo(ctx *cli.Context) error {
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

	logger.Noticef("tree information:\n%s", tree.Stats())
	return nil
}

// Map command line flags to build options.
func buildOptions(ctx *cli.Context) (kdtree.Options, error) {
	opts := kdtree.DefaultOptions()

	strategy, err := kdtree.ParseStrategy(ctx.String("strategy"))
	if err != nil {
		return opts, err
	}

	opts.Strategy = strategy
	opts.MaxDepth = ctx.Int("max-depth")
	opts.MinTriangles = ctx.Int("min-triangles")
	opts.RoundRobin = ctx.Bool("round-robin")
	opts.TraverseCost = float32(ctx.Float64("traverse-cost"))
	opts.IntersectCost = float32(ctx.Float64("intersect-cost"))
	opts.Workers = ctx.Int("workers")
	opts.ParallelMinTriangles = ctx.Int("parallel-min-triangles")
	opts.ParallelMaxDepth = ctx.Int("parallel-max-depth")

	return opts, opts.Validate()
}
