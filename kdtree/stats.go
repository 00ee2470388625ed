package kdtree

import (
	"bytes"
	"fmt"
	"reflect"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Tree statistics.
type Stats struct {
	Nodes       int
	Leaves      int
	EmptyLeaves int
	MaxDepth    int

	// Total number of triangle references stored in leafs. Triangles that
	// cross split planes are counted once for every leaf that holds them.
	TriangleRefs     int
	MaxLeafTriangles int

	// Average triangle count of non-empty leafs.
	AvgLeafTriangles float32

	// Memory used by the node and triangle arenas.
	NodeBytes     int
	TriangleBytes int

	BuildTime time.Duration
}

// Collect tree statistics.
func (t *Tree) Stats() Stats {
	stats := Stats{
		Nodes:         len(t.nodes),
		TriangleRefs:  len(t.triangles),
		NodeBytes:     len(t.nodes) * int(reflect.TypeOf(Node{}).Size()),
		TriangleBytes: len(t.triangles) * int(reflect.TypeOf(SetupTriangle{}).Size()),
		BuildTime:     t.buildTime,
	}

	t.Walk(func(info NodeInfo) bool {
		if info.Depth > stats.MaxDepth {
			stats.MaxDepth = info.Depth
		}
		if !info.Node.IsLeaf() {
			return true
		}

		stats.Leaves++
		count := len(info.Triangles)
		if count == 0 {
			stats.EmptyLeaves++
		}
		if count > stats.MaxLeafTriangles {
			stats.MaxLeafTriangles = count
		}
		return true
	})

	if filled := stats.Leaves - stats.EmptyLeaves; filled > 0 {
		stats.AvgLeafTriangles = float32(stats.TriangleRefs) / float32(filled)
	}
	return stats
}

// Build a tabular representation of the tree statistics.
func (s Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"Leafs", fmt.Sprintf("%d", s.Leaves)})
	table.Append([]string{"Empty leafs", fmt.Sprintf("%d", s.EmptyLeaves)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.Append([]string{"Triangle refs", fmt.Sprintf("%d", s.TriangleRefs)})
	table.Append([]string{"Max leaf triangles", fmt.Sprintf("%d", s.MaxLeafTriangles)})
	table.Append([]string{"Avg leaf triangles", fmt.Sprintf("%.2f", s.AvgLeafTriangles)})
	table.Append([]string{"Node arena", fmtSize(s.NodeBytes)})
	table.Append([]string{"Triangle arena", fmtSize(s.TriangleBytes)})
	if s.BuildTime > 0 {
		table.Append([]string{"Build time", s.BuildTime.String()})
	}
	table.SetFooter([]string{"Total", fmtSize(s.NodeBytes + s.TriangleBytes)})

	table.Render()
	return buf.String()
}

// Format a byte count with the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%d bytes", totalBytes)
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%.1f kb", float32(totalBytes)/1e3)
	}
	return fmt.Sprintf("%.1f mb", float32(totalBytes)/1e6)
}
