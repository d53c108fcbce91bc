// ABOUTME: Orchestrates one index generation run: scan directory, render template, write output.
// ABOUTME: Optionally records builds and prunes stale cache rows through a BuildRecorder.
package site

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/willf/snippets/snippet"
)

// Defaults for generation when the caller leaves fields empty.
const (
	DefaultOutput  = "index.html"
	DefaultTitle   = "Code Snippets"
	DefaultTagline = "A collection of code snippets and small one-page apps"
)

// BuildRecorder persists generation runs and keeps the metadata cache in
// sync with the directory. *store.Store satisfies it; nil disables both.
type BuildRecorder interface {
	RecordBuild(buildID string, generatedAt time.Time, snippetCount int, outputSHA string) error
	PruneMissing(present []string) error
}

// Config holds everything one generation run needs.
type Config struct {
	Dir      string
	Output   string
	Title    string
	Tagline  string
	Excludes []string
	// Markdown converts *.md files to snippet pages before scanning.
	Markdown bool
	// Timestamp adds a generation time to the footer. Off by default so
	// unchanged input regenerates byte-identical output.
	Timestamp bool
	// Cache skips re-parsing unchanged files when non-nil.
	Cache snippet.MetadataCache
	// Recorder logs builds and prunes stale cache rows when non-nil.
	Recorder BuildRecorder
	// Now overrides the clock for tests.
	Now func() time.Time
}

// Result summarizes a completed generation run.
type Result struct {
	BuildID     string
	OutputPath  string
	OutputSHA   string
	Entries     []snippet.Entry
	GeneratedAt time.Time
}

// withDefaults fills empty Config fields.
func (cfg Config) withDefaults() Config {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.Tagline == "" {
		cfg.Tagline = DefaultTagline
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return cfg
}

// Render scans the snippet directory and renders the index page in memory.
// Used directly by serve mode, which never touches the output file.
func Render(cfg Config) ([]byte, []snippet.Entry, error) {
	cfg = cfg.withDefaults()

	engine, err := NewTemplateEngine()
	if err != nil {
		return nil, nil, err
	}

	if cfg.Markdown {
		if _, err := ConvertMarkdown(cfg.Dir, engine); err != nil {
			return nil, nil, err
		}
	}

	entries, err := snippet.Scan(cfg.Dir, snippet.ScanOptions{
		Output:   cfg.Output,
		Excludes: cfg.Excludes,
		Cache:    cfg.Cache,
	})
	if err != nil {
		return nil, nil, err
	}

	data := IndexData{
		Title:      cfg.Title,
		Tagline:    cfg.Tagline,
		CountLabel: countLabel(len(entries)),
		Entries:    entries,
	}
	if cfg.Timestamp {
		data.Timestamp = cfg.Now().Format("2006-01-02 15:04:05")
	}

	page, err := engine.RenderIndex(data)
	if err != nil {
		return nil, nil, err
	}
	return page, entries, nil
}

// Generate runs a full scan-render-write cycle and returns the run summary.
// The output file is fully overwritten; a write failure is fatal to the run.
func Generate(cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()

	page, entries, err := Render(cfg)
	if err != nil {
		return nil, err
	}

	outputPath := filepath.Join(cfg.Dir, cfg.Output)
	if err := os.WriteFile(outputPath, page, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", outputPath, err)
	}

	sum := sha256.Sum256(page)
	result := &Result{
		BuildID:     NewBuildID(),
		OutputPath:  outputPath,
		OutputSHA:   hex.EncodeToString(sum[:]),
		Entries:     entries,
		GeneratedAt: cfg.Now(),
	}

	// Store bookkeeping is best-effort: a broken cache database never fails
	// a run that already wrote its output.
	if cfg.Recorder != nil {
		present := make([]string, len(entries))
		for i, e := range entries {
			present[i] = e.Filename
		}
		if err := cfg.Recorder.PruneMissing(present); err != nil {
			log.Printf("warning: prune scan index: %v", err)
		}
		if err := cfg.Recorder.RecordBuild(result.BuildID, result.GeneratedAt, len(entries), result.OutputSHA); err != nil {
			log.Printf("warning: record build: %v", err)
		}
	}

	return result, nil
}

// NewBuildID generates a ULID build identifier using crypto/rand entropy.
// ULIDs sort lexicographically by creation time, so build history ordering
// falls out of the ID itself.
func NewBuildID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// countLabel formats the "Found N snippets" line shown above the listing.
func countLabel(n int) string {
	switch n {
	case 0:
		return "No snippets found"
	case 1:
		return "Found 1 snippet"
	default:
		return fmt.Sprintf("Found %d snippets", n)
	}
}
