package writer

import "github.com/seanjames777/raytracer/kdtree"

// The Writer interface is implemented by all tree writers.
type Writer interface {
	// Write a tree.
	Write(*kdtree.Tree) error
}

// Write tree to a zip archive.
func WriteTree(tree *kdtree.Tree, filename string) error {
	writer := newZipTreeWriter(filename)
	return writer.Write(tree)
}
