package asset

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestLocalResource(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tree.zip")
	if err := os.WriteFile(file, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, location := range []string{file, "file://" + file} {
		res, err := NewResource(location)
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(res)
		res.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "payload" {
			t.Fatalf("expected to read %q; got %q", "payload", data)
		}
		if res.IsRemote() {
			t.Fatalf("expected %q not to be a remote resource", location)
		}
	}

	if _, err := NewResource(filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Fatal("expected opening a missing file to fail")
	}
}

func TestHttpResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/trees/tree.zip" {
			w.Write([]byte("OK"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	res, err := NewResource(server.URL + "/trees/tree.zip")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	if !res.IsRemote() {
		t.Fatal("expected resource to be remote")
	}
	if data, _ := io.ReadAll(res); string(data) != "OK" {
		t.Fatalf("expected to read %q; got %q", "OK", data)
	}

	fetchURL := server.URL + "/trees/missing.zip"
	_, err = NewResource(fetchURL)
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected a 404 error for %s; got %v", fetchURL, err)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	_, err := NewResource("gopher://digging.zip")
	if errors.Cause(err) != ErrUnsupportedScheme {
		t.Fatalf("expected error %v; got %v", ErrUnsupportedScheme, err)
	}
}

func TestResourceFromStream(t *testing.T) {
	res := NewResourceFromStream("embedded", strings.NewReader("data"))
	defer res.Close()
	if res.Path() != "embedded" || res.IsRemote() {
		t.Fatalf("unexpected stream resource %q (remote: %t)", res.Path(), res.IsRemote())
	}
}
