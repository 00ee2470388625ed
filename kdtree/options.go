package kdtree

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// The split strategy used by the builder.
type Strategy uint8

const (
	// Split at the midpoint of the longest node axis.
	Median Strategy = iota

	// Pick the split minimizing the surface area heuristic cost.
	SurfaceAreaHeuristic
)

const (
	// Traversal uses a fixed size stack so tree depth must be bounded.
	maxTraversalDepth = 60

	defaultMaxDepth             = 25
	defaultMinTriangles         = 4
	defaultTraverseCost         = 1.0
	defaultIntersectCost        = 1.5
	defaultParallelMinTriangles = 4096
	defaultParallelMaxDepth     = 8

	// Upper bound for Options.Workers as a multiple of the CPU count.
	maxWorkersPerCPU = 16
)

func (s Strategy) String() string {
	switch s {
	case Median:
		return "median"
	case SurfaceAreaHeuristic:
		return "sah"
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// Parse a strategy name as accepted by the command line tools.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "median":
		return Median, nil
	case "sah", "surface-area-heuristic":
		return SurfaceAreaHeuristic, nil
	}
	return Median, errors.Wrapf(ErrInvalidOptions, "unknown strategy %q", name)
}

// Options control the tree construction.
type Options struct {
	Strategy Strategy

	// Nodes at this depth always become leafs. The root has depth 0.
	MaxDepth int

	// Nodes with fewer triangles than this value always become leafs.
	MinTriangles int

	// If set, the median strategy cycles split axes by depth instead of
	// picking the longest box axis.
	RoundRobin bool

	// SAH cost model constants.
	TraverseCost  float32
	IntersectCost float32

	// The number of build workers. A zero value uses all available CPUs.
	// At most 16 workers per CPU are allowed.
	Workers int

	// Subtrees with at least ParallelMinTriangles triangles that are rooted
	// above ParallelMaxDepth are handed to the worker pool instead of being
	// built inline.
	ParallelMinTriangles int
	ParallelMaxDepth     int
}

// Get the default build options.
func DefaultOptions() Options {
	return Options{
		Strategy:             SurfaceAreaHeuristic,
		MaxDepth:             defaultMaxDepth,
		MinTriangles:         defaultMinTriangles,
		TraverseCost:         defaultTraverseCost,
		IntersectCost:        defaultIntersectCost,
		ParallelMinTriangles: defaultParallelMinTriangles,
		ParallelMaxDepth:     defaultParallelMaxDepth,
	}
}

// Validate option ranges.
func (o Options) Validate() error {
	switch {
	case o.Strategy != Median && o.Strategy != SurfaceAreaHeuristic:
		return errors.Wrapf(ErrInvalidOptions, "unknown strategy %d", o.Strategy)
	case o.MaxDepth < 0 || o.MaxDepth > maxTraversalDepth:
		return errors.Wrapf(ErrInvalidOptions, "max depth must be in [0, %d]; got %d", maxTraversalDepth, o.MaxDepth)
	case o.MinTriangles < 0:
		return errors.Wrapf(ErrInvalidOptions, "min triangles must be >= 0; got %d", o.MinTriangles)
	case o.Workers < 0:
		return errors.Wrapf(ErrInvalidOptions, "worker count must be >= 0; got %d", o.Workers)
	case o.Workers > maxWorkersPerCPU*runtime.NumCPU():
		return errors.Wrapf(ErrInvalidOptions, "worker count must be <= %d; got %d", maxWorkersPerCPU*runtime.NumCPU(), o.Workers)
	case o.ParallelMinTriangles < 0 || o.ParallelMaxDepth < 0:
		return errors.Wrap(ErrInvalidOptions, "parallel dispatch thresholds must be >= 0")
	}

	if o.Strategy == SurfaceAreaHeuristic && (!(o.TraverseCost > 0) || !(o.IntersectCost > 0)) {
		return errors.Wrapf(ErrInvalidOptions, "SAH costs must be positive; got traverse %f, intersect %f", o.TraverseCost, o.IntersectCost)
	}
	return nil
}
