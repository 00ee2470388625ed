package asset

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnsupportedScheme = errors.New("resource: unsupported scheme")

// A Resource is a tree archive stream opened from a local file or fetched
// over http/https.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Get the location this resource was opened from.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme == "http" || r.url.Scheme == "https"
}

// Open a resource. Locations without a scheme (or with the file scheme) are
// treated as local paths; http and https locations are fetched with a GET
// request. The caller must close the returned resource.
func NewResource(location string) (*Resource, error) {
	loc, err := url.Parse(strings.Replace(location, `\`, `/`, -1))
	if err != nil {
		return nil, errors.Wrapf(err, "resource: invalid location %q", location)
	}

	var reader io.ReadCloser
	switch loc.Scheme {
	case "", "file":
		reader, err = os.Open(filepath.Clean(loc.Path))
		if err != nil {
			return nil, errors.Wrap(err, "resource")
		}
	case "http", "https":
		resp, err := http.Get(loc.String())
		if err != nil {
			return nil, errors.Wrapf(err, "resource: could not fetch %q", loc.String())
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, errors.Errorf("resource: could not fetch %q: status %d", loc.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", loc.Scheme)
	}

	return &Resource{ReadCloser: reader, url: loc}, nil
}

// Wrap an in-memory stream as a resource.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	loc, err := url.Parse(name)
	if err != nil {
		loc = &url.URL{Path: name}
	}
	return &Resource{ReadCloser: io.NopCloser(source), url: loc}
}
