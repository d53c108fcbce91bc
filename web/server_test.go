// ABOUTME: Tests for the preview server covering index rendering, file serving, JSON APIs, and cache refresh.
// ABOUTME: Drives the chi router directly through httptest without binding a socket.
package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/willf/snippets/site"
	"github.com/willf/snippets/store"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestServer(t *testing.T, dir string) *Server {
	t.Helper()
	s, err := NewServer(ServerConfig{Site: site.Config{Dir: dir}})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestServerRejectsMissingDirectory(t *testing.T) {
	_, err := NewServer(ServerConfig{Site: site.Config{Dir: filepath.Join(t.TempDir(), "nope")}})
	if err == nil {
		t.Fatal("expected error for missing snippet directory")
	}
}

func TestIndexRendersEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html",
		`<html><head><title>Alpha</title><meta name="description" content="First snippet"></head></html>`)
	s := newTestServer(t, dir)

	rec := get(t, s, "/")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<a href="a.html">Alpha</a>`) {
		t.Error("expected rendered entry link")
	}
	if !strings.Contains(body, "First snippet") {
		t.Error("expected entry description")
	}
}

func TestIndexReflectsDirectoryChanges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "<title>Alpha</title>")
	s := newTestServer(t, dir)

	if body := get(t, s, "/").Body.String(); strings.Contains(body, "b.html") {
		t.Fatal("unexpected b.html before creation")
	}

	writeFile(t, dir, "b.html", "<title>Beta</title>")

	// The fingerprint changes with the new file, so the cache re-renders
	// immediately regardless of TTL.
	if body := get(t, s, "/").Body.String(); !strings.Contains(body, `href="b.html"`) {
		t.Error("expected new snippet to appear without restart")
	}
}

func TestStaleOnDiskIndexNeverServed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "<title>Alpha</title>")
	writeFile(t, dir, "index.html", "<html><body>STALE</body></html>")
	s := newTestServer(t, dir)

	for _, path := range []string{"/", "/index.html"} {
		body := get(t, s, path).Body.String()
		if strings.Contains(body, "STALE") {
			t.Errorf("%s served the stale on-disk index", path)
		}
		if !strings.Contains(body, `href="a.html"`) {
			t.Errorf("%s missing live render", path)
		}
	}
}

func TestSnippetFilesServed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "<title>Alpha</title><body>alpha body</body>")
	s := newTestServer(t, dir)

	rec := get(t, s, "/a.html")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "alpha body") {
		t.Error("expected raw snippet content")
	}
}

func TestHealthEndpoint(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, dir)

	rec := get(t, s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAPISnippets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.html", "<title>Beta</title>")
	writeFile(t, dir, "a.html", "<title>Alpha</title>")
	s := newTestServer(t, dir)

	rec := get(t, s, "/api/snippets")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Count    int `json:"count"`
		Snippets []struct {
			Filename string `json:"filename"`
			Title    string `json:"title"`
		} `json:"snippets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if payload.Count != 2 || len(payload.Snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %+v", payload)
	}
	if payload.Snippets[0].Filename != "a.html" || payload.Snippets[1].Filename != "b.html" {
		t.Errorf("expected sorted order, got %+v", payload.Snippets)
	}
}

func TestAPIBuildsWithoutStore(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, dir)

	rec := get(t, s, "/api/builds")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a store, got %d", rec.Code)
	}
}

func TestAPIBuildsWithStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "<title>Alpha</title>")

	st, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	if err := st.RecordBuild(site.NewBuildID(), time.Now(), 1, "sha"); err != nil {
		t.Fatalf("record build: %v", err)
	}

	s, err := NewServer(ServerConfig{Site: site.Config{Dir: dir}, Store: st})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	rec := get(t, s, "/api/builds")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Builds []store.BuildRecord `json:"builds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Builds) != 1 || payload.Builds[0].SnippetCount != 1 {
		t.Errorf("unexpected builds payload: %+v", payload)
	}
}
