package reader

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/seanjames777/raytracer/asset"
	"github.com/seanjames777/raytracer/kdtree"
	"github.com/seanjames777/raytracer/log"
)

type zipTreeReader struct {
	logger log.Logger
	res    *asset.Resource
}

// Create a new zip tree reader.
func newZipTreeReader(res *asset.Resource) *zipTreeReader {
	return &zipTreeReader{
		logger: log.New("zip reader"),
		res:    res,
	}
}

// Read tree from zip resource.
func (r *zipTreeReader) Read() (*kdtree.Tree, error) {
	r.logger.Noticef(`loading kd-tree from "%s"`, r.res.Path())
	start := time.Now()

	// Zip entries are indexed from the end of the archive so remote
	// streams are buffered in memory.
	if r.res.IsRemote() {
		r.logger.Infof("buffering remote tree archive %s", r.res.Path())
	}
	data, err := io.ReadAll(r.res)
	if err != nil {
		return nil, errors.Wrap(err, "zipTreeReader")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(err, "zipTreeReader")
	}

	entries := make(map[string]*zip.File)
	for _, f := range zr.File {
		switch f.Name {
		case asset.MetaFile, asset.NodeFile, asset.TriangleFile:
			entries[f.Name] = f
		default:
			r.logger.Warningf("unknown file %s in tree zip file; skipping", f.Name)
		}
	}

	var meta asset.TreeMeta
	if err = decodeEntry(entries, asset.MetaFile, func(f *zip.File) error {
		rc, err := f.Open()
		if err != nil {
			return err
		}
		defer rc.Close()
		return gob.NewDecoder(rc).Decode(&meta)
	}); err != nil {
		return nil, err
	}
	if meta.Version != asset.TreeFormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "got version %d; expected %d", meta.Version, asset.TreeFormatVersion)
	}

	// Record counts come from the archive; check them against the entry
	// sizes before allocating any record storage.
	for _, rec := range []struct {
		name   string
		count  uint32
		record interface{}
	}{
		{asset.NodeFile, meta.NodeCount, kdtree.Node{}},
		{asset.TriangleFile, meta.TriangleCount, kdtree.SetupTriangle{}},
	} {
		if err = checkRecordCount(entries, rec.name, rec.count, rec.record, len(data)); err != nil {
			return nil, err
		}
	}

	archive := kdtree.Archive{
		Bounds:    meta.Bounds,
		Nodes:     make([]kdtree.Node, meta.NodeCount),
		Triangles: make([]kdtree.SetupTriangle, meta.TriangleCount),
	}
	records := []struct {
		name string
		data interface{}
	}{
		{asset.NodeFile, archive.Nodes},
		{asset.TriangleFile, archive.Triangles},
	}
	for _, rec := range records {
		err = decodeEntry(entries, rec.name, func(f *zip.File) error {
			rc, err := f.Open()
			if err != nil {
				return err
			}
			defer rc.Close()
			return binary.Read(rc, binary.LittleEndian, rec.data)
		})
		if err != nil {
			return nil, err
		}
	}

	tree, err := kdtree.NewFromArchive(archive)
	if err != nil {
		return nil, err
	}

	r.logger.Noticef("loaded kd-tree in %d ms", time.Since(start).Nanoseconds()/1e6)
	return tree, nil
}

// Deflate cannot expand its input by more than ~1032:1.
const maxDeflateRatio = 1100

// Ensure that the named entry holds exactly count fixed-size records and that
// its declared size is plausible for an archive of archiveSize bytes.
func checkRecordCount(entries map[string]*zip.File, name string, count uint32, record interface{}, archiveSize int) error {
	f, ok := entries[name]
	if !ok {
		return errors.Wrap(ErrMissingEntry, name)
	}

	recordSize := uint64(binary.Size(record))
	if f.UncompressedSize64 != uint64(count)*recordSize {
		return errors.Wrapf(kdtree.ErrCorruptArchive, "%s holds %d bytes; expected %d records of %d bytes", name, f.UncompressedSize64, count, recordSize)
	}
	if f.CompressedSize64 > uint64(archiveSize) || f.UncompressedSize64 > (f.CompressedSize64+1)*maxDeflateRatio {
		return errors.Wrapf(kdtree.ErrCorruptArchive, "%s declares %d bytes from a %d byte payload", name, f.UncompressedSize64, f.CompressedSize64)
	}
	return nil
}

func decodeEntry(entries map[string]*zip.File, name string, decode func(*zip.File) error) error {
	f, ok := entries[name]
	if !ok {
		return errors.Wrap(ErrMissingEntry, name)
	}
	if err := decode(f); err != nil {
		return errors.Wrapf(err, "zipTreeReader: failed to load %s", name)
	}
	return nil
}
