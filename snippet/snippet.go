// ABOUTME: Extracts display metadata (title, description) from HTML snippet files.
// ABOUTME: Walks the parsed DOM for <title>, <h1>, <meta name="description">, and first <p>.
package snippet

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DescriptionLimit is the maximum description length in runes before truncation.
const DescriptionLimit = 150

// Entry is one snippet file as it appears on the index page. Entries are
// rebuilt from disk on every scan and never persisted as a source of truth.
type Entry struct {
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ExtractMeta parses HTML content and returns the snippet title and
// description. Title falls back from <title> to the first <h1> to a
// filename-derived title. Description prefers <meta name="description">
// over the first non-empty paragraph, and may be empty.
//
// Malformed HTML never fails: the parser is lenient, and anything it cannot
// find simply falls through to the next fallback.
func ExtractMeta(content []byte, filename string) Entry {
	entry := Entry{
		Filename: filename,
		Title:    TitleFromFilename(filename),
	}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return entry
	}

	if title := findFirstText(doc, atom.Title); title != "" {
		entry.Title = title
	} else if h1 := findFirstText(doc, atom.H1); h1 != "" {
		entry.Title = h1
	}

	if meta := findMetaDescription(doc); meta != "" {
		entry.Description = meta
	} else if p := findFirstText(doc, atom.P); p != "" {
		entry.Description = truncate(p, DescriptionLimit)
	}

	return entry
}

// TitleFromFilename derives a human-readable title from a snippet filename:
// extension stripped, underscores and hyphens replaced with spaces, each word
// title-cased. "rotating_cube.html" becomes "Rotating Cube".
func TitleFromFilename(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")

	words := strings.Fields(stem)
	if len(words) == 0 {
		// Separator-only stems like "_" or "--" leave nothing to title-case;
		// a title must never be empty, so keep the raw name.
		if stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)); stem != "" {
			return stem
		}
		return filepath.Base(filename)
	}
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// findFirstText returns the collapsed text content of the first element with
// the given tag, or "" if no such element has any text.
func findFirstText(n *html.Node, tag atom.Atom) string {
	if n.Type == html.ElementNode && n.DataAtom == tag {
		if text := collectText(n); text != "" {
			return text
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := findFirstText(c, tag); text != "" {
			return text
		}
	}
	return ""
}

// findMetaDescription returns the content attribute of the first
// <meta name="description"> element, or "".
func findMetaDescription(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Meta {
		var name, content string
		for _, a := range n.Attr {
			switch strings.ToLower(a.Key) {
			case "name":
				name = strings.ToLower(strings.TrimSpace(a.Val))
			case "content":
				content = a.Val
			}
		}
		if name == "description" {
			return strings.Join(strings.Fields(content), " ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := findMetaDescription(c); content != "" {
			return content
		}
	}
	return ""
}

// collectText gathers all text beneath a node, skipping script and style
// subtrees, with whitespace collapsed to single spaces.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			// Raw concatenation: inline markup like <em>word</em>. keeps
			// its punctuation attached. Whitespace collapses below.
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// truncate shortens s to at most limit runes, appending "..." when cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
