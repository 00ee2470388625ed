package reader

import (
	"archive/zip"
	"encoding/binary"
	"encoding/gob"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/seanjames777/raytracer/asset"
	"github.com/seanjames777/raytracer/asset/writer"
	"github.com/seanjames777/raytracer/kdtree"
	"github.com/seanjames777/raytracer/scene"
)

func TestZipTreeRoundTrip(t *testing.T) {
	triangles := scene.RandomSoup(2000, 0.05, rand.New(rand.NewSource(1)))
	tree, err := kdtree.Build(triangles, kdtree.BoundsOf(triangles), kdtree.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	treeFile := filepath.Join(t.TempDir(), "tree"+asset.DefaultSuffix)
	if err = writer.WriteTree(tree, treeFile); err != nil {
		t.Fatal(err)
	}

	restored, err := ReadTree(treeFile)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(restored.Archive(), tree.Archive()) {
		t.Fatal("expected restored tree to match the original")
	}

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		ray := scene.RandomRay(tree.Bounds(), rng)
		expHit, expOk := tree.IntersectNearest(ray)
		hit, ok := restored.IntersectNearest(ray)
		if ok != expOk || hit != expHit {
			t.Fatalf("[ray %d] expected restored tree to return the same hit", i)
		}
	}
}

func TestZipTreeEmpty(t *testing.T) {
	tree, err := kdtree.Build(nil, kdtree.BoundsOf(nil), kdtree.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	treeFile := filepath.Join(t.TempDir(), "empty"+asset.DefaultSuffix)
	if err = writer.WriteTree(tree, treeFile); err != nil {
		t.Fatal(err)
	}
	restored, err := ReadTree(treeFile)
	if err != nil {
		t.Fatal(err)
	}
	if restored.NodeCount() != 1 || restored.TriangleRefCount() != 0 {
		t.Fatalf("expected an empty single leaf tree; got %d nodes and %d triangle refs", restored.NodeCount(), restored.TriangleRefCount())
	}
}

func TestZipTreeErrors(t *testing.T) {
	valid := asset.TreeMeta{
		Version:   asset.TreeFormatVersion,
		Bounds:    kdtree.BoundsOf(nil),
		NodeCount: 1,
	}
	var leaf kdtree.Node
	leaf.SetLeaf(0, 0)
	var brokenLeaf kdtree.Node
	brokenLeaf.SetLeaf(0, 3)

	futureVersion := valid
	futureVersion.Version = asset.TreeFormatVersion + 1
	extraNodes := valid
	extraNodes.NodeCount = 4
	hugeTriangleCount := valid
	hugeTriangleCount.TriangleCount = 0xFFFFFFFF
	hugeNodeCount := valid
	hugeNodeCount.NodeCount = 0xFFFFFFFF

	type spec struct {
		descr  string
		meta   asset.TreeMeta
		nodes  []kdtree.Node
		skip   string
		expErr error
	}
	specs := []spec{
		{"missing meta", valid, []kdtree.Node{leaf}, asset.MetaFile, ErrMissingEntry},
		{"missing nodes", valid, []kdtree.Node{leaf}, asset.NodeFile, ErrMissingEntry},
		{"unsupported version", futureVersion, []kdtree.Node{leaf}, "", ErrUnsupportedVersion},
		{"corrupt leaf", valid, []kdtree.Node{brokenLeaf}, "", kdtree.ErrCorruptArchive},
		{"truncated node list", extraNodes, []kdtree.Node{leaf}, "", kdtree.ErrCorruptArchive},
		{"oversized triangle count", hugeTriangleCount, []kdtree.Node{leaf}, "", kdtree.ErrCorruptArchive},
		{"oversized node count", hugeNodeCount, []kdtree.Node{leaf}, "", kdtree.ErrCorruptArchive},
	}

	for _, s := range specs {
		treeFile := filepath.Join(t.TempDir(), "tree.zip")
		writeTestArchive(t, treeFile, s.meta, s.nodes, s.skip)

		if _, err := ReadTree(treeFile); errors.Cause(err) != s.expErr {
			t.Fatalf("[%s] expected error %v; got %v", s.descr, s.expErr, err)
		}
	}

	if _, err := ReadTree(filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Fatal("expected reading a missing file to fail")
	}
}

func writeTestArchive(t *testing.T, treeFile string, meta asset.TreeMeta, nodes []kdtree.Node, skip string) {
	f, err := os.Create(treeFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if skip != asset.MetaFile {
		w, err := zw.Create(asset.MetaFile)
		if err != nil {
			t.Fatal(err)
		}
		if err = gob.NewEncoder(w).Encode(meta); err != nil {
			t.Fatal(err)
		}
	}
	if skip != asset.NodeFile {
		w, err := zw.Create(asset.NodeFile)
		if err != nil {
			t.Fatal(err)
		}
		if err = binary.Write(w, binary.LittleEndian, nodes); err != nil {
			t.Fatal(err)
		}
	}
	if _, err = zw.Create(asset.TriangleFile); err != nil {
		t.Fatal(err)
	}
	if _, err = zw.Create("README.txt"); err != nil {
		t.Fatal(err)
	}
	if err = zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestZipTreeFromURL(t *testing.T) {
	triangles := scene.Grid(8)
	tree, err := kdtree.Build(triangles, kdtree.BoundsOf(triangles), kdtree.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err = writer.WriteTree(tree, filepath.Join(dir, "grid.zip")); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer server.Close()

	restored, err := ReadTree(server.URL + "/grid.zip")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(restored.Archive(), tree.Archive()) {
		t.Fatal("expected tree fetched over http to match the original")
	}

	if _, err = ReadTree(server.URL + "/missing.zip"); err == nil {
		t.Fatal("expected fetching a missing tree to fail")
	}
}

func TestZipTreeFromStream(t *testing.T) {
	if _, err := newZipTreeReader(asset.NewResourceFromStream("garbage", strings.NewReader("not a zip file"))).Read(); err == nil {
		t.Fatal("expected reading a non-zip stream to fail")
	}
}
