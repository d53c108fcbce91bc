// ABOUTME: TemplateEngine loads embedded HTML templates and renders the index and snippet pages.
// ABOUTME: Templates are embedded at compile time via go:embed for zero runtime path issues.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/willf/snippets/snippet"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexData holds everything the index template needs for one render.
type IndexData struct {
	Title      string
	Tagline    string
	CountLabel string
	Entries    []snippet.Entry
	// Timestamp is the footer generation time. Empty means omitted, which
	// keeps regeneration byte-identical for unchanged input.
	Timestamp string
}

// PageData holds the data for a standalone snippet page (markdown wrapper).
type PageData struct {
	Title string
	Body  template.HTML
}

// TemplateEngine renders the embedded index and snippet page templates.
type TemplateEngine struct {
	index *template.Template
	page  *template.Template
}

// NewTemplateEngine parses all embedded templates and returns a ready-to-use
// engine.
func NewTemplateEngine() (*TemplateEngine, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	page, err := template.ParseFS(templateFS, "templates/snippet.html")
	if err != nil {
		return nil, fmt.Errorf("parse snippet template: %w", err)
	}

	return &TemplateEngine{index: index, page: page}, nil
}

// RenderIndex executes the index template and returns the rendered page.
func (e *TemplateEngine) RenderIndex(data IndexData) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.index.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSnippetPage executes the standalone snippet page template used to
// wrap converted markdown.
func (e *TemplateEngine) RenderSnippetPage(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render snippet page: %w", err)
	}
	return buf.Bytes(), nil
}
