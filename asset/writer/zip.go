package writer

import (
	"archive/zip"
	"encoding/binary"
	"encoding/gob"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/seanjames777/raytracer/asset"
	"github.com/seanjames777/raytracer/kdtree"
	"github.com/seanjames777/raytracer/log"
)

type zipTreeWriter struct {
	logger   log.Logger
	treeFile string
}

// Create a new zip tree writer.
func newZipTreeWriter(treeFile string) *zipTreeWriter {
	return &zipTreeWriter{
		logger:   log.New("zip writer"),
		treeFile: treeFile,
	}
}

// Write tree to zip file.
func (w *zipTreeWriter) Write(tree *kdtree.Tree) (err error) {
	w.logger.Noticef(`writing kd-tree to "%s"`, w.treeFile)
	start := time.Now()

	zipFile, err := os.Create(w.treeFile)
	if err != nil {
		return errors.Wrap(err, "zipTreeWriter")
	}
	defer func() {
		if closeErr := zipFile.Close(); err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "zipTreeWriter")
		}
	}()

	archive := tree.Archive()
	zw := zip.NewWriter(zipFile)

	// Write metadata
	cw, err := zw.Create(asset.MetaFile)
	if err != nil {
		return errors.Wrapf(err, "zipTreeWriter: failed to create %s", asset.MetaFile)
	}
	err = gob.NewEncoder(cw).Encode(asset.TreeMeta{
		Version:       asset.TreeFormatVersion,
		Bounds:        archive.Bounds,
		NodeCount:     uint32(len(archive.Nodes)),
		TriangleCount: uint32(len(archive.Triangles)),
	})
	if err != nil {
		return errors.Wrapf(err, "zipTreeWriter: failed to write %s", asset.MetaFile)
	}

	// Write node and triangle records
	records := []struct {
		name string
		data interface{}
	}{
		{asset.NodeFile, archive.Nodes},
		{asset.TriangleFile, archive.Triangles},
	}
	for _, rec := range records {
		cw, err = zw.Create(rec.name)
		if err != nil {
			return errors.Wrapf(err, "zipTreeWriter: failed to create %s", rec.name)
		}
		if err = binary.Write(cw, binary.LittleEndian, rec.data); err != nil {
			return errors.Wrapf(err, "zipTreeWriter: failed to write %s", rec.name)
		}
	}

	if err = zw.Close(); err != nil {
		return errors.Wrap(err, "zipTreeWriter")
	}

	w.logger.Noticef("wrote kd-tree in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}
