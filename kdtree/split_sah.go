package kdtree

import (
	"sort"

	"github.com/seanjames777/raytracer/types"
)

// SAH event types. The numeric order defines the order of events sharing the
// same distance.
type sahEventType uint8

const (
	eventEnd sahEventType = iota
	eventPlanar
	eventBegin
)

type sahEvent struct {
	dist float32
	kind sahEventType
}

type sahEventList []sahEvent

func (l sahEventList) Len() int      { return len(l) }
func (l sahEventList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l sahEventList) Less(i, j int) bool {
	if l[i].dist != l[j].dist {
		return l[i].dist < l[j].dist
	}
	return l[i].kind < l[j].kind
}

// The SAH splitter sweeps the sorted triangle extent events along each axis
// and picks the split plane with the lowest estimated cost:
//
// cost = Kt + Ki * (leftArea/area * leftCount + rightArea/area * rightCount)
//
// Triangles lying in a candidate plane are costed on either side and the
// cheaper assignment is kept. If no candidate beats the cost of a leaf
// (Ki * count) the node is not split.
type sahSplitter struct {
	triBoxes      []types.AABB
	maxDepth      int
	minTriangles  int
	traverseCost  float32
	intersectCost float32
}

func (s *sahSplitter) decide(ctx *workerContext, bounds types.AABB, refs []uint32, depth int) (splitDecision, bool) {
	if depth >= s.maxDepth || len(refs) < s.minTriangles || len(refs) == 0 {
		return splitDecision{}, false
	}

	area := bounds.SurfaceArea()
	if !(area > 0) {
		return splitDecision{}, false
	}
	invArea := 1.0 / area

	bestCost := s.intersectCost * float32(len(refs))
	var best splitDecision
	found := false

	for axis := types.XAxis; axis <= types.ZAxis; axis++ {
		lo, hi := bounds.Min[axis], bounds.Max[axis]
		if !(hi > lo) {
			continue
		}

		events := s.generateEvents(ctx, bounds, refs, axis)

		// Sweep events keeping track of the triangles fully to the left of,
		// lying in, and fully to the right of the candidate plane.
		numLeft, numPlanar, numRight := 0, 0, len(refs)
		for i := 0; i < len(events); {
			dist := events[i].dist
			var numEnd, numInPlane, numBegin int
			for ; i < len(events) && events[i].dist == dist && events[i].kind == eventEnd; i++ {
				numEnd++
			}
			for ; i < len(events) && events[i].dist == dist && events[i].kind == eventPlanar; i++ {
				numInPlane++
			}
			for ; i < len(events) && events[i].dist == dist && events[i].kind == eventBegin; i++ {
				numBegin++
			}

			numPlanar = numInPlane
			numRight -= numInPlane + numEnd

			// Planes on the node boundary do not partition anything
			if dist > lo && dist < hi {
				leftBox, rightBox := bounds.Split(axis, dist)
				pLeft := leftBox.SurfaceArea() * invArea
				pRight := rightBox.SurfaceArea() * invArea

				cost, mode := s.cost(pLeft, pRight, numLeft, numPlanar, numRight)
				if cost < bestCost {
					bestCost = cost
					best = splitDecision{axis: axis, dist: dist, planar: mode}
					found = true
				}
			}

			numLeft += numBegin + numInPlane
			numPlanar = 0
		}
	}

	return best, found
}

// Evaluate the split cost with the planar triangles assigned to either side
// and return the cheapest option. Ties favor the left side.
func (s *sahSplitter) cost(pLeft, pRight float32, numLeft, numPlanar, numRight int) (float32, PlanarMode) {
	costLeft := s.traverseCost + s.intersectCost*(pLeft*float32(numLeft+numPlanar)+pRight*float32(numRight))
	costRight := s.traverseCost + s.intersectCost*(pLeft*float32(numLeft)+pRight*float32(numRight+numPlanar))
	if costRight < costLeft {
		return costRight, PlanarRight
	}
	return costLeft, PlanarLeft
}

// Fill the worker event buffer with the sorted events for axis.
func (s *sahSplitter) generateEvents(ctx *workerContext, bounds types.AABB, refs []uint32, axis types.Axis) []sahEvent {
	events := ctx.events[:0]
	for _, ref := range refs {
		lo, hi := clippedExtent(s.triBoxes[ref], bounds, axis)
		if lo == hi {
			events = append(events, sahEvent{dist: lo, kind: eventPlanar})
			continue
		}
		events = append(events,
			sahEvent{dist: lo, kind: eventBegin},
			sahEvent{dist: hi, kind: eventEnd},
		)
	}

	sort.Sort(sahEventList(events))

	// Keep the grown buffer for the next node processed by this worker
	ctx.events = events
	return events
}
