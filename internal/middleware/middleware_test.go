package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newAssetsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "css"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{margin:0}"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestAssetsWithCacheServesFileWithHeaders(t *testing.T) {
	h := AssetsWithCache("/assets", newAssetsDir(t))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != "body{margin:0}" {
		t.Fatalf("unexpected body %q", got)
	}
	if got := rr.Header().Get("Cache-Control"); got != AssetCacheControl {
		t.Fatalf("unexpected cache-control %q", got)
	}
	if rr.Header().Get("ETag") == "" {
		t.Fatal("expected etag")
	}
}

func TestAssetsWithCacheNotModified(t *testing.T) {
	h := AssetsWithCache("/assets", newAssetsDir(t))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil))
	etag := first.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/site.css", nil)
	req.Header.Set("If-None-Match", `"other", `+etag)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatal("304 must not carry a body")
	}
}

func TestAssetsWithCacheRejectsDirectoryListing(t *testing.T) {
	h := AssetsWithCache("/assets", newAssetsDir(t))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assets/css/", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAssetsWithCacheMissingFile(t *testing.T) {
	h := AssetsWithCache("/assets", newAssetsDir(t))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assets/js/none.js", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHTMX(t *testing.T) {
	var seen bool
	h := HTMX(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IsHTMX(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/productos", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if !seen {
		t.Fatal("expected htmx request to be detected")
	}
	if rr.Header().Get("Vary") != "HX-Request" {
		t.Fatalf("expected Vary header, got %q", rr.Header().Get("Vary"))
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/productos", nil))
	if seen {
		t.Fatal("plain request must not be flagged as htmx")
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing nosniff header")
	}
}
