package kdtree

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/seanjames777/raytracer/log"
	"github.com/seanjames777/raytracer/types"
)

type builder struct {
	logger log.Logger
	opts   Options

	// Per-triangle AABBs and intersection data, indexed by triangle index.
	triBoxes []types.AABB
	setup    []SetupTriangle

	splitter splitter
	pool     *workerPool

	// Max number of entries in the node and triangle arenas.
	arenaLimit uint64

	// The first error reported by a worker. Once set, pending tasks exit
	// without doing any work.
	failed  atomic.Bool
	errOnce sync.Once
	err     error
}

// Build a kd-tree for a set of triangles enclosed by rootBounds.
//
// The tree is built top-down. For each node the configured strategy decides
// whether to split it; split nodes partition their triangles into two child
// lists (triangles crossing the split plane are referenced by both children)
// and the child bounding boxes are obtained by clipping the parent box with
// the split plane. Large subtrees near the root are handed to a pool of
// workers; the resulting tree does not depend on the number of workers.
func Build(triangles []Triangle, rootBounds types.AABB, opts Options) (*Tree, error) {
	b, err := newBuilder(triangles, rootBounds, opts)
	if err != nil {
		return nil, err
	}
	return b.build(rootBounds)
}

// Validate the build input and precompute per-triangle data.
func newBuilder(triangles []Triangle, rootBounds types.AABB, opts Options) (*builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !rootBounds.IsValid() {
		return nil, errors.Wrapf(ErrInvalidBounds, "bounds %v", rootBounds)
	}
	if uint64(len(triangles)) > maxArenaIndex {
		return nil, errors.Wrapf(ErrArenaExhausted, "%d triangles exceed the addressable range", len(triangles))
	}

	b := &builder{
		logger:     log.New("kdtree builder"),
		opts:       opts,
		triBoxes:   make([]types.AABB, len(triangles)),
		setup:      make([]SetupTriangle, len(triangles)),
		arenaLimit: maxArenaIndex,
	}

	for index, tri := range triangles {
		box := tri.BBox()
		if !box.IsValid() {
			// Triangles with invalid vertices are pinned to the root box
			// corner so they end up in exactly one leaf.
			box = types.AABB{Min: rootBounds.Min, Max: rootBounds.Min}
		} else if !box.Overlaps(rootBounds, 0) {
			return nil, errors.Wrapf(ErrInvalidBounds, "triangle %d lies outside the root bounds", index)
		}
		b.triBoxes[index] = box
		b.setup[index] = NewSetupTriangle(tri, uint32(index))
	}

	b.splitter = newSplitter(opts, b.triBoxes)
	return b, nil
}

// Build the tree. On failure no partial tree is returned.
func (b *builder) build(rootBounds types.AABB) (*Tree, error) {
	start := time.Now()
	b.pool = newWorkerPool(b.opts.Workers)
	b.logger.Infof("building kd-tree (%d triangles, strategy: %s, workers: %d)", len(b.setup), b.opts.Strategy, b.pool.size)

	refs := make([]uint32, len(b.setup))
	for index := range refs {
		refs[index] = uint32(index)
	}

	root := newChunk()
	b.pool.submit(nil, b.subtreeTask(root, refs, rootBounds, 0))
	b.pool.wait()
	b.pool.close()

	if b.err != nil {
		return nil, b.err
	}

	nodes, setupTriangles, err := mergeChunks(root, b.arenaLimit)
	if err != nil {
		return nil, err
	}

	tree := &Tree{
		bounds:    rootBounds,
		nodes:     nodes,
		triangles: setupTriangles,
		buildTime: time.Since(start),
	}

	if b.opts.Strategy == SurfaceAreaHeuristic {
		b.logger.Debugf("SAH costs: traverse %.2f, intersect %.2f", b.opts.TraverseCost, b.opts.IntersectCost)
	}
	stats := tree.Stats()
	b.logger.Debugf(
		"kd-tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d, triangle refs: %d",
		stats.BuildTime.Nanoseconds()/1e6,
		stats.MaxDepth, stats.Nodes, stats.Leaves, stats.TriangleRefs,
	)
	return tree, nil
}

// Record a build failure. Only the first error is kept.
func (b *builder) fail(err error) {
	b.errOnce.Do(func() {
		b.err = err
		b.failed.Store(true)
	})
}

// Create a task that builds the subtree rooted at slot 0 of chunk c.
func (b *builder) subtreeTask(c *chunk, refs []uint32, bounds types.AABB, depth int) poolTask {
	return func(ctx *workerContext) {
		defer func() {
			if r := recover(); r != nil {
				b.fail(errors.Wrapf(ErrBuildFailed, "worker %d: %v", ctx.id, r))
			}
		}()

		if b.failed.Load() {
			return
		}
		b.buildNode(ctx, c, 0, refs, bounds, depth)
	}
}

// Build the node stored at slot of chunk c.
func (b *builder) buildNode(ctx *workerContext, c *chunk, slot uint32, refs []uint32, bounds types.AABB, depth int) {
	decision, split := b.splitter.decide(ctx, bounds, refs, depth)
	if !split {
		b.createLeaf(c, slot, refs)
		return
	}

	leftRefs, rightRefs := b.partition(refs, bounds, decision)
	leftBounds, rightBounds := bounds.Split(decision.axis, decision.dist)

	pair := c.allocPair()
	c.nodes[slot].SetInternal(decision.axis, decision.dist, pair)

	b.buildChild(ctx, c, pair, leftRefs, leftBounds, depth+1)
	b.buildChild(ctx, c, pair+1, rightRefs, rightBounds, depth+1)
}

// Build a child subtree either inline or, for large subtrees close to the
// root, as a separate pool task with its own chunk.
func (b *builder) buildChild(ctx *workerContext, c *chunk, slot uint32, refs []uint32, bounds types.AABB, depth int) {
	if len(refs) < b.opts.ParallelMinTriangles || depth >= b.opts.ParallelMaxDepth {
		b.buildNode(ctx, c, slot, refs, bounds, depth)
		return
	}

	sub := newChunk()
	c.links = append(c.links, chunkLink{slot: slot, child: sub})
	b.pool.submit(ctx, b.subtreeTask(sub, refs, bounds, depth))
}

// Setup the node at slot as a leaf containing copies of the setup data for
// all referenced triangles.
func (b *builder) createLeaf(c *chunk, slot uint32, refs []uint32) {
	first := uint32(len(c.triangles))
	for _, ref := range refs {
		c.triangles = append(c.triangles, b.setup[ref])
	}
	c.nodes[slot].SetLeaf(first, uint32(len(refs)))
}

// Split the triangle references of a node into the left and right child
// lists. Triangles crossing the split plane go to both lists; triangles lying
// in the plane are placed according to the planar mode of the decision.
func (b *builder) partition(refs []uint32, bounds types.AABB, decision splitDecision) (left, right []uint32) {
	left = make([]uint32, 0, len(refs)/2+1)
	right = make([]uint32, 0, len(refs)/2+1)

	for _, ref := range refs {
		lo, hi := clippedExtent(b.triBoxes[ref], bounds, decision.axis)
		switch {
		case lo == hi && lo == decision.dist:
			if decision.planar != PlanarRight {
				left = append(left, ref)
			}
			if decision.planar != PlanarLeft {
				right = append(right, ref)
			}
		case hi <= decision.dist:
			left = append(left, ref)
		case lo >= decision.dist:
			right = append(right, ref)
		default:
			left = append(left, ref)
			right = append(right, ref)
		}
	}

	return left, right
}
