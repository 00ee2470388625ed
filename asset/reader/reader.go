package reader

import (
	"errors"

	"github.com/seanjames777/raytracer/asset"
	"github.com/seanjames777/raytracer/kdtree"
)

var (
	ErrMissingEntry       = errors.New("reader: tree archive entry missing")
	ErrUnsupportedVersion = errors.New("reader: unsupported tree format version")
)

// The Reader interface is implemented by all tree readers.
type Reader interface {
	// Read a tree.
	Read() (*kdtree.Tree, error)
}

// Read tree from a zip archive stored in a local file or at a http/https URL.
func ReadTree(location string) (*kdtree.Tree, error) {
	res, err := asset.NewResource(location)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newZipTreeReader(res).Read()
}
