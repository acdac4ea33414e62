package spa

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gaspardpetit/spahost/internal/assets"
)

var indexHTML = []byte("<!DOCTYPE html><html><body><div id=app></div></body></html>")

func loadTable(t *testing.T, fsys fstest.MapFS) *assets.Table {
	t.Helper()
	tbl, err := assets.Load(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return tbl
}

func bundle() fstest.MapFS {
	return fstest.MapFS{
		"index.html":          {Data: indexHTML},
		"assets/index.js":     {Data: []byte("console.log('app')")},
		"assets/index.css":    {Data: []byte("body{margin:0}")},
		"favicon.svg":         {Data: []byte("<svg/>")},
		"robots":              {Data: []byte("User-agent: *")},
		"docs/v1.2/notes.txt": {Data: []byte("notes")},
	}
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestServeAssets(t *testing.T) {
	fsys := bundle()
	h := New(loadTable(t, fsys), "")
	for name, f := range fsys {
		rr := get(h, "/"+name)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", name, rr.Code)
		}
		if !bytes.Equal(rr.Body.Bytes(), f.Data) {
			t.Fatalf("%s: body mismatch", name)
		}
	}
	rr := get(h, "/assets/index.css")
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Fatalf("css content type = %q", ct)
	}
	if cl := rr.Header().Get("Content-Length"); cl != "14" {
		t.Fatalf("content length = %q", cl)
	}
	rr = get(h, "/robots")
	if ct := rr.Header().Get("Content-Type"); ct != assets.DefaultContentType {
		t.Fatalf("extensionless asset content type = %q", ct)
	}
}

func TestIndexAndRoot(t *testing.T) {
	h := New(loadTable(t, bundle()), "index.html")
	root := get(h, "/")
	idx := get(h, "/index.html")
	if root.Code != http.StatusOK || idx.Code != http.StatusOK {
		t.Fatalf("status root=%d index=%d", root.Code, idx.Code)
	}
	if !bytes.Equal(root.Body.Bytes(), indexHTML) || !bytes.Equal(idx.Body.Bytes(), root.Body.Bytes()) {
		t.Fatalf("root and index bodies differ")
	}
	if ct := root.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("index content type = %q", ct)
	}
}

func TestClientRouteFallback(t *testing.T) {
	h := New(loadTable(t, bundle()), "")
	want := get(h, "/")
	for _, p := range []string{"/about", "/users/42/profile", "/assets", "/docs/v1"} {
		rr := get(h, p)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", p, rr.Code)
		}
		if !bytes.Equal(rr.Body.Bytes(), want.Body.Bytes()) {
			t.Fatalf("%s: expected index document", p)
		}
		if rr.Header().Get("Content-Type") != want.Header().Get("Content-Type") {
			t.Fatalf("%s: content type differs from index", p)
		}
	}
}

func TestMissingFileNotFound(t *testing.T) {
	h := New(loadTable(t, bundle()), "")
	// Dotted paths are treated as files, including dotted route segments.
	for _, p := range []string{"/missing.js", "/assets/gone.css", "/user/john.doe", "/docs/v1.2"} {
		rr := get(h, p)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: status %d", p, rr.Code)
		}
		if rr.Body.String() != NotFoundBody {
			t.Fatalf("%s: body %q", p, rr.Body.String())
		}
	}
}

func TestMissingIndex(t *testing.T) {
	h := New(loadTable(t, fstest.MapFS{"app.js": {Data: []byte("x")}}), "")
	for _, p := range []string{"/", "/index.html", "/dashboard"} {
		rr := get(h, p)
		if rr.Code != http.StatusNotFound || rr.Body.String() != NotFoundBody {
			t.Fatalf("%s: got %d %q", p, rr.Code, rr.Body.String())
		}
	}
	if rr := get(h, "/app.js"); rr.Code != http.StatusOK {
		t.Fatalf("asset still served without index: %d", rr.Code)
	}
}

func TestEmptyTable(t *testing.T) {
	h := New(nil, "")
	for _, p := range []string{"/", "/index.html", "/about", "/main.js"} {
		if rr := get(h, p); rr.Code != http.StatusNotFound {
			t.Fatalf("%s: status %d", p, rr.Code)
		}
	}
}

func TestCustomIndex(t *testing.T) {
	h := New(loadTable(t, fstest.MapFS{"app.html": {Data: []byte("app")}}), "/app.html")
	if rr := get(h, "/settings"); rr.Code != http.StatusOK || rr.Body.String() != "app" {
		t.Fatalf("fallback to custom index: %d %q", rr.Code, rr.Body.String())
	}
	if rr := get(h, "/app.html"); rr.Body.String() != "app" {
		t.Fatalf("custom index by name: %q", rr.Body.String())
	}
}

func TestAnyMethod(t *testing.T) {
	h := New(loadTable(t, bundle()), "")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/favicon.svg", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "<svg/>" {
		t.Fatalf("POST asset: %d %q", rr.Code, rr.Body.String())
	}
}

func TestEscapedPathIsDecoded(t *testing.T) {
	h := New(loadTable(t, fstest.MapFS{
		"index.html":    {Data: indexHTML},
		"assets/a b.js": {Data: []byte("spaced")},
	}), "")
	rr := get(h, "/assets/a%20b.js")
	if rr.Code != http.StatusOK || rr.Body.String() != "spaced" {
		t.Fatalf("escaped asset: %d %q", rr.Code, rr.Body.String())
	}
	if rr := get(h, "/assets/c%20d.js"); rr.Code != http.StatusNotFound {
		t.Fatalf("missing escaped asset: %d", rr.Code)
	}
}
