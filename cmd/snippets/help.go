// ABOUTME: Help display for the snippets CLI with grouped flags and usage examples.
// ABOUTME: Provides printHelp for formatted usage output.
package main

import (
	"fmt"
	"io"
)

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, and examples.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "snippets %s — static index generator for HTML snippet directories\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  snippets [flags] [directory]")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "GENERATION:")
	fmt.Fprintln(w, "  -dir <path>        Snippet directory to scan (default: current directory)")
	fmt.Fprintln(w, "  -out <name>        Index output filename (default: index.html)")
	fmt.Fprintln(w, "  -title <text>      Index page title")
	fmt.Fprintln(w, "  -tagline <text>    Index page tagline")
	fmt.Fprintln(w, "  -exclude <globs>   Comma-separated filename patterns to skip")
	fmt.Fprintln(w, "  -markdown          Convert *.md files to snippet pages first")
	fmt.Fprintln(w, "  -timestamp         Add a generation timestamp to the footer")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "MODES:")
	fmt.Fprintln(w, "  -list              Print entries without writing the index")
	fmt.Fprintln(w, "  -serve             Live preview server (with -port, default 8080)")
	fmt.Fprintln(w, "  -watch             Regenerate whenever the directory changes")
	fmt.Fprintln(w, "  -tui               Browse snippets in the terminal")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SCAN INDEX:")
	fmt.Fprintln(w, "  -store <path>      Scan index database path")
	fmt.Fprintln(w, "                     (default: $XDG_DATA_HOME/snippets/index.db)")
	fmt.Fprintln(w, "  -no-store          Disable the persistent scan index")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "OTHER:")
	fmt.Fprintln(w, "  -verbose           Verbose output")
	fmt.Fprintln(w, "  -version           Print version and exit")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  snippets                        Regenerate index.html in the current directory")
	fmt.Fprintln(w, "  snippets ./demos                Regenerate ./demos/index.html")
	fmt.Fprintln(w, "  snippets -serve -port 3000      Preview with live regeneration")
	fmt.Fprintln(w, "  snippets -watch -markdown       Convert markdown and rebuild on change")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration can also live in snippets.yaml next to the snippets")
	fmt.Fprintln(w, "or in $XDG_CONFIG_HOME/snippets/. Flags always win.")
}
