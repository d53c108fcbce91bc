// ABOUTME: Converts *.md files in the snippet directory into standalone HTML snippet pages via goldmark.
// ABOUTME: Skips targets newer than their markdown source; per-file failures warn and continue.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/willf/snippets/snippet"
)

// ConvertMarkdown renders every *.md file in dir to a sibling <stem>.html
// snippet page and returns the names of files it wrote. An existing target
// is only rewritten when the markdown source is newer, so hand-written HTML
// snippets are never clobbered by a stale markdown file.
//
// A single file that fails to convert is logged and skipped; only a failure
// to read the directory is returned as an error.
func ConvertMarkdown(dir string, engine *TemplateEngine) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read snippet directory %s: %w", dir, err)
	}

	var written []string
	for _, d := range dirents {
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			continue
		}

		target := strings.TrimSuffix(name, ".md") + ".html"
		if !sourceNewer(dir, name, target) {
			continue
		}

		if err := convertOne(dir, name, target, engine); err != nil {
			log.Printf("warning: could not convert %s: %v", name, err)
			continue
		}
		written = append(written, target)
	}
	return written, nil
}

// sourceNewer reports whether the markdown source is newer than the target
// HTML file (or the target does not exist yet).
func sourceNewer(dir, source, target string) bool {
	srcInfo, err := os.Stat(filepath.Join(dir, source))
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(filepath.Join(dir, target))
	if err != nil {
		return true
	}
	return srcInfo.ModTime().After(dstInfo.ModTime())
}

// convertOne renders a single markdown file into the snippet page template.
func convertOne(dir, source, target string, engine *TemplateEngine) error {
	raw, err := os.ReadFile(filepath.Join(dir, source))
	if err != nil {
		return err
	}

	var body bytes.Buffer
	if err := goldmark.New().Convert(raw, &body); err != nil {
		return fmt.Errorf("markdown convert: %w", err)
	}

	page, err := engine.RenderSnippetPage(PageData{
		Title: markdownTitle(raw, source),
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, target), page, 0o644)
}

// markdownTitle returns the first top-level heading, falling back to the
// filename-derived title.
func markdownTitle(raw []byte, filename string) string {
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			if title := strings.TrimSpace(rest); title != "" {
				return title
			}
		}
	}
	return snippet.TitleFromFilename(filename)
}
