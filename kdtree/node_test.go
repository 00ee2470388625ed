package kdtree

import (
	"testing"

	"github.com/seanjames777/raytracer/types"
)

func TestNodePacking(t *testing.T) {
	type spec struct {
		axis       types.Axis
		split      float32
		firstChild uint32
		expType    NodeType
	}
	specs := []spec{
		{types.XAxis, 0, 1, SplitX},
		{types.YAxis, -1.5, 42, SplitY},
		{types.ZAxis, 1e6, maxArenaIndex, SplitZ},
	}

	for index, s := range specs {
		var n Node
		n.SetInternal(s.axis, s.split, s.firstChild)
		if n.Type() != s.expType || n.IsLeaf() {
			t.Fatalf("[spec %d] expected node type %d; got %d", index, s.expType, n.Type())
		}
		if n.Axis() != s.axis {
			t.Fatalf("[spec %d] expected axis %s; got %s", index, s.axis, n.Axis())
		}
		if n.SplitDist() != s.split {
			t.Fatalf("[spec %d] expected split distance %f; got %f", index, s.split, n.SplitDist())
		}
		if n.Children() != s.firstChild {
			t.Fatalf("[spec %d] expected first child %d; got %d", index, s.firstChild, n.Children())
		}
	}
}

func TestLeafPacking(t *testing.T) {
	var n Node
	n.SetLeaf(7, 3)
	if !n.IsLeaf() {
		t.Fatal("expected node to be a leaf")
	}
	if first, count := n.Triangles(); first != 7 || count != 3 {
		t.Fatalf("expected triangle range (7, 3); got (%d, %d)", first, count)
	}

	n.relocate(100, 10)
	if first, count := n.Triangles(); first != 17 || count != 3 {
		t.Fatalf("expected relocated triangle range (17, 3); got (%d, %d)", first, count)
	}
}

func TestInternalRelocation(t *testing.T) {
	var n Node
	n.SetInternal(types.ZAxis, 2.5, 3)
	n.relocate(10, 1000)
	if n.Children() != 13 || n.Axis() != types.ZAxis || n.SplitDist() != 2.5 {
		t.Fatalf("unexpected relocated node: children %d, axis %s, split %f", n.Children(), n.Axis(), n.SplitDist())
	}
}
