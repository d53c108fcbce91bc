// ABOUTME: Polls a snippet directory for changes and runs a regenerate action after a debounce window.
// ABOUTME: Change detection hashes sorted name/size/mtime tuples of snippet source files.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"
)

// Options tunes the watcher behavior.
type Options struct {
	// Interval is the polling frequency. Default: 1s.
	Interval time.Duration
	// Debounce is the quiet period after a change is detected before the
	// action fires. Further changes inside the window reset the timer.
	// 0 means fire on the next tick.
	Debounce time.Duration
	// Exclude are filepath.Match patterns to ignore. The generated index
	// file must be listed here, or the action's own write would register
	// as a change and retrigger itself.
	Exclude []string
}

func (o *Options) defaults() {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
}

// Stats are point-in-time watcher counters.
type Stats struct {
	Checks  int64 `json:"checks"`
	Changes int64 `json:"changes"`
	Errors  int64 `json:"errors"`
	Runs    int64 `json:"runs"`
}

// Watcher polls a directory fingerprint and runs an action when it changes.
type Watcher struct {
	dir  string
	opts Options

	checks  atomic.Int64
	changes atomic.Int64
	errors  atomic.Int64
	runs    atomic.Int64
}

// New creates a Watcher for the given snippet directory.
func New(dir string, opts Options) *Watcher {
	opts.defaults()
	return &Watcher{dir: dir, opts: opts}
}

// Stats returns the current counters.
func (w *Watcher) Stats() Stats {
	return Stats{
		Checks:  w.checks.Load(),
		Changes: w.changes.Load(),
		Errors:  w.errors.Load(),
		Runs:    w.runs.Load(),
	}
}

// OnChange polls until ctx is done, running action after each detected
// change once the debounce window has been quiet. The first fingerprint is
// taken as the baseline; action does not fire for the initial state.
//
// Action errors are logged and counted, never fatal: the watcher keeps
// going so a transient failure does not end the session.
func (w *Watcher) OnChange(ctx context.Context, action func() error) error {
	last, err := Fingerprint(w.dir, w.opts.Exclude...)
	if err != nil {
		return fmt.Errorf("initial fingerprint: %w", err)
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	pending := false
	var quietSince time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		w.checks.Add(1)
		fp, err := Fingerprint(w.dir, w.opts.Exclude...)
		if err != nil {
			w.errors.Add(1)
			log.Printf("warning: fingerprint %s: %v", w.dir, err)
			continue
		}

		if fp != last {
			last = fp
			quietSince = time.Now()
			if !pending {
				pending = true
				w.changes.Add(1)
			}
			continue
		}

		if pending && time.Since(quietSince) >= w.opts.Debounce {
			pending = false
			w.runs.Add(1)
			if err := action(); err != nil {
				w.errors.Add(1)
				log.Printf("warning: regenerate after change: %v", err)
			}
		}
	}
}

// Fingerprint hashes the sorted name, size, and mtime of every snippet
// source file (*.html, *.md) in dir, skipping names that match any of the
// given filepath.Match patterns. Two equal fingerprints mean the directory
// has not changed in any way a regeneration would notice.
func Fingerprint(dir string, excludes ...string) (string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read directory %s: %w", dir, err)
	}

	var lines []string
	for _, d := range dirents {
		name := d.Name()
		if d.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(name, ".html") && !strings.HasSuffix(name, ".md") {
			continue
		}
		if matchesAny(name, excludes) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			// File vanished between ReadDir and Info; its absence is
			// itself part of the fingerprint.
			continue
		}
		lines = append(lines, fmt.Sprintf("%s|%d|%d", name, info.Size(), info.ModTime().UnixNano()))
	}
	sort.Strings(lines)

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:]), nil
}

// matchesAny reports whether name matches any of the filepath.Match patterns.
// Invalid patterns are treated as non-matching.
func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
