// ABOUTME: Tests for the CLI help output covering flag groups and examples.
// ABOUTME: Renders printHelp into a buffer and checks for key sections.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintHelpSections(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "1.2.3")
	out := buf.String()

	for _, want := range []string{
		"snippets 1.2.3",
		"USAGE:",
		"GENERATION:",
		"MODES:",
		"SCAN INDEX:",
		"EXAMPLES:",
		"-serve",
		"-markdown",
		"index.html",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}
