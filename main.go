package main

import (
	"os"

	"github.com/seanjames777/raytracer/cmd"
	"github.com/seanjames777/raytracer/log"
	"github.com/seanjames777/raytracer/scene"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "scene",
			Value: scene.SoupScene,
			Usage: "synthetic scene to generate (soup, grid, sphere)",
		},
		cli.IntFlag{
			Name:  "count",
			Value: 100000,
			Usage: "approximate number of scene triangles",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "random seed for scene generation",
		},
	}

	app := cli.NewApp()
	app.Name = "kdtrace"
	app.Usage = "build and query kd-trees for ray/triangle intersection"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a kd-tree for a synthetic scene",
			Description: `
Generate a synthetic triangle set, partition it into a kd-tree using either
the median or the surface area heuristic split strategy and display tree
statistics.

The tree can optionally be written to a zip archive which can be supplied as
an argument to the info and trace commands.`,
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "strategy, s",
					Value: "sah",
					Usage: "split strategy (median, sah)",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: 25,
					Usage: "maximum tree depth",
				},
				cli.IntFlag{
					Name:  "min-triangles",
					Value: 4,
					Usage: "nodes with fewer triangles always become leafs",
				},
				cli.BoolFlag{
					Name:  "round-robin",
					Usage: "cycle median split axes by depth instead of using the longest axis",
				},
				cli.Float64Flag{
					Name:  "traverse-cost",
					Value: 1.0,
					Usage: "SAH node traversal cost",
				},
				cli.Float64Flag{
					Name:  "intersect-cost",
					Value: 1.5,
					Usage: "SAH triangle intersection cost",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Value: 0,
					Usage: "number of build workers (0 = all CPUs)",
				},
				cli.IntFlag{
					Name:  "parallel-min-triangles",
					Value: 4096,
					Usage: "minimum subtree size handed to a separate worker",
				},
				cli.IntFlag{
					Name:  "parallel-max-depth",
					Value: 8,
					Usage: "subtrees below this depth are always built inline",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "write the tree to this zip file",
				},
			}, sceneFlags...),
			Action: cmd.BuildTree,
		},
		{
			Name:      "info",
			Usage:     "display statistics for a persisted kd-tree",
			ArgsUsage: "tree.zip|url",
			Action:    cmd.ShowTreeInfo,
		},
		{
			Name:  "trace",
			Usage: "trace random rays through a persisted kd-tree",
			Description: `
Shoot random rays towards the tree bounds using a pool of workers and report
the tracing throughput. With --verify the scene used to build the tree is
regenerated and nearest hits are checked against a brute-force intersector.`,
			ArgsUsage: "tree.zip|url",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 1000000,
					Usage: "number of rays to trace",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Value: 0,
					Usage: "number of tracing workers (0 = all CPUs)",
				},
				cli.BoolFlag{
					Name:  "verify",
					Usage: "check nearest hits against brute-force intersection",
				},
				cli.IntFlag{
					Name:  "verify-rays",
					Value: 10000,
					Usage: "number of rays checked by --verify",
				},
			}, sceneFlags...),
			Action: cmd.TraceTree,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("kdtrace").Error(err.Error())
		os.Exit(1)
	}
}
