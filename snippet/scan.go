// ABOUTME: Scans a directory for HTML snippet files and builds sorted index entries.
// ABOUTME: Per-file failures degrade to filename-derived entries; only a missing directory is fatal.
package snippet

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MetadataCache looks up and stores extracted entries keyed by filename and
// content hash, letting rescans skip parsing for unchanged files. A cache is
// always optional: a nil cache means every file is parsed.
type MetadataCache interface {
	LookupEntry(filename, contentSHA string) (Entry, bool)
	SaveEntry(filename, contentSHA string, entry Entry) error
}

// ScanOptions controls which files a scan considers.
type ScanOptions struct {
	// Output is the index file name to exclude from the listing (the
	// generator must never list its own output).
	Output string
	// Excludes are filepath.Match patterns for additional files to skip.
	Excludes []string
	// Cache, when non-nil, is consulted before parsing each file.
	Cache MetadataCache
}

// Scan lists every *.html file in dir (excluding the output file, dotfiles,
// and excluded patterns), extracts metadata from each, and returns entries
// sorted case-insensitively by filename for reproducible output.
//
// A file that cannot be read is logged and listed with its filename-derived
// title and an empty description. Only a failure to read the directory
// itself is returned as an error.
func Scan(dir string, opts ScanOptions) ([]Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read snippet directory %s: %w", dir, err)
	}

	var names []string
	for _, d := range dirents {
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, ".html") {
			continue
		}
		if name == opts.Output || strings.HasPrefix(name, ".") {
			continue
		}
		if matchesAny(name, opts.Excludes) {
			continue
		}
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, loadEntry(dir, name, opts.Cache))
	}
	return entries, nil
}

// loadEntry reads one snippet file and extracts its entry, going through the
// cache when one is configured.
func loadEntry(dir, name string, cache MetadataCache) Entry {
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		log.Printf("warning: could not read %s: %v", name, err)
		return Entry{Filename: name, Title: TitleFromFilename(name)}
	}

	sum := sha256.Sum256(content)
	contentSHA := hex.EncodeToString(sum[:])

	if cache != nil {
		if entry, ok := cache.LookupEntry(name, contentSHA); ok {
			return entry
		}
	}

	entry := ExtractMeta(content, name)

	if cache != nil {
		if err := cache.SaveEntry(name, contentSHA, entry); err != nil {
			log.Printf("warning: could not cache metadata for %s: %v", name, err)
		}
	}
	return entry
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
