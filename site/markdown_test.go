// ABOUTME: Tests for markdown-to-snippet conversion covering title extraction, skip logic, and index integration.
// ABOUTME: Verifies converted pages are picked up by a subsequent scan.
package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newEngine(t *testing.T) *TemplateEngine {
	t.Helper()
	engine, err := NewTemplateEngine()
	if err != nil {
		t.Fatalf("new template engine: %v", err)
	}
	return engine
}

func TestConvertMarkdownWritesPage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# Quick Notes\n\nSome *useful* notes.\n")

	written, err := ConvertMarkdown(dir, newEngine(t))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if len(written) != 1 || written[0] != "notes.html" {
		t.Fatalf("expected notes.html written, got %v", written)
	}

	out, err := os.ReadFile(filepath.Join(dir, "notes.html"))
	if err != nil {
		t.Fatalf("read converted page: %v", err)
	}
	page := string(out)

	if !strings.Contains(page, "<title>Quick Notes</title>") {
		t.Error("expected title from first heading")
	}
	if !strings.Contains(page, "<em>useful</em>") {
		t.Error("expected rendered markdown body")
	}
}

func TestConvertMarkdownTitleFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "raw_dump.md", "just text, no heading\n")

	if _, err := ConvertMarkdown(dir, newEngine(t)); err != nil {
		t.Fatalf("convert: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "raw_dump.html"))
	if err != nil {
		t.Fatalf("read converted page: %v", err)
	}
	if !strings.Contains(string(out), "<title>Raw Dump</title>") {
		t.Error("expected filename-derived title fallback")
	}
}

func TestConvertMarkdownSkipsFreshTarget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# Notes\n")
	writeFile(t, dir, "notes.html", "<title>Hand Written</title>")

	// Make the HTML strictly newer than the markdown source.
	newer := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "notes.html"), newer, newer); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	written, err := ConvertMarkdown(dir, newEngine(t))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(written) != 0 {
		t.Errorf("expected no conversion over a fresh target, wrote %v", written)
	}

	out, err := os.ReadFile(filepath.Join(dir, "notes.html"))
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if !strings.Contains(string(out), "Hand Written") {
		t.Error("hand-written HTML was clobbered")
	}
}

func TestConvertMarkdownRewritesStaleTarget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.html", "<title>Old</title>")
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "notes.html"), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	writeFile(t, dir, "notes.md", "# Fresh Notes\n")

	written, err := ConvertMarkdown(dir, newEngine(t))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("expected stale target rewritten, wrote %v", written)
	}

	out, err := os.ReadFile(filepath.Join(dir, "notes.html"))
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if !strings.Contains(string(out), "Fresh Notes") {
		t.Error("expected regenerated page content")
	}
}

func TestGenerateWithMarkdownListsConvertedPage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "# Quick Notes\n\nA markdown snippet.\n")

	result, err := Generate(Config{Dir: dir, Markdown: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry from converted markdown, got %d", len(result.Entries))
	}
	if result.Entries[0].Filename != "notes.html" || result.Entries[0].Title != "Quick Notes" {
		t.Errorf("unexpected entry: %+v", result.Entries[0])
	}
	if result.Entries[0].Description != "A markdown snippet." {
		t.Errorf("expected first paragraph as description, got %q", result.Entries[0].Description)
	}
}
