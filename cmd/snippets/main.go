// ABOUTME: CLI entrypoint for the snippets index generator with generate, list, serve, watch, and TUI modes.
// ABOUTME: Wires together scanning, the scan index store, the preview server, and signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/willf/snippets/site"
	"github.com/willf/snippets/snippet"
	"github.com/willf/snippets/store"
	"github.com/willf/snippets/tui"
	"github.com/willf/snippets/watch"
	"github.com/willf/snippets/web"
)

var version = "dev"

// config holds all CLI configuration parsed from flags and the config file.
type config struct {
	dir         string
	output      string
	title       string
	tagline     string
	exclude     string
	markdown    bool
	timestamp   bool
	noStore     bool
	storePath   string
	listOnly    bool
	serveMode   bool
	port        int
	watchMode   bool
	tuiMode     bool
	verbose     bool
	showVersion bool

	// flagsSet records which flags the user passed explicitly, so config
	// file values only fill the gaps.
	flagsSet map[string]bool
}

func main() {
	loadDotEnv(".env")

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("snippets %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("snippets", flag.ContinueOnError)
	fs.StringVar(&cfg.dir, "dir", ".", "Snippet directory to scan")
	fs.StringVar(&cfg.output, "out", site.DefaultOutput, "Index output filename")
	fs.StringVar(&cfg.title, "title", "", "Index page title")
	fs.StringVar(&cfg.tagline, "tagline", "", "Index page tagline")
	fs.StringVar(&cfg.exclude, "exclude", "", "Comma-separated filename patterns to skip")
	fs.BoolVar(&cfg.markdown, "markdown", false, "Convert *.md files to snippet pages first")
	fs.BoolVar(&cfg.timestamp, "timestamp", false, "Add a generation timestamp to the footer")
	fs.BoolVar(&cfg.noStore, "no-store", false, "Disable the persistent scan index")
	fs.StringVar(&cfg.storePath, "store", "", "Scan index database path (default: $XDG_DATA_HOME/snippets/index.db)")
	fs.BoolVar(&cfg.listOnly, "list", false, "Print entries without writing the index")
	fs.BoolVar(&cfg.serveMode, "serve", false, "Start the live preview server")
	fs.IntVar(&cfg.port, "port", 8080, "Preview server port")
	fs.BoolVar(&cfg.watchMode, "watch", false, "Regenerate whenever the directory changes")
	fs.BoolVar(&cfg.tuiMode, "tui", false, "Browse snippets in the terminal")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		// A bare positional argument is the snippet directory, matching
		// the no-flags invocation "snippets ./demos".
		cfg.dir = fs.Arg(0)
		cfg.flagsSet = map[string]bool{"dir": true}
	}
	if cfg.flagsSet == nil {
		cfg.flagsSet = map[string]bool{}
	}
	fs.Visit(func(f *flag.Flag) { cfg.flagsSet[f.Name] = true })

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if err := applyFileConfig(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	siteCfg := site.Config{
		Dir:       cfg.dir,
		Output:    cfg.output,
		Title:     cfg.title,
		Tagline:   cfg.tagline,
		Excludes:  splitPatterns(cfg.exclude),
		Markdown:  cfg.markdown,
		Timestamp: cfg.timestamp,
	}

	// The scan index is a nicety, not a requirement: any failure opening it
	// degrades to a storeless run.
	var st *store.Store
	if !cfg.noStore {
		path, err := resolveStorePath(cfg.storePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not resolve store path: %v\n", err)
		} else if st, err = store.Open(path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open scan index: %v\n", err)
			st = nil
		}
	}
	if st != nil {
		defer st.Close()
		siteCfg.Cache = st
		siteCfg.Recorder = st
	}

	switch {
	case cfg.listOnly:
		return runList(siteCfg)
	case cfg.tuiMode:
		return runTUI(siteCfg)
	case cfg.serveMode:
		return runServe(cfg, siteCfg, st)
	case cfg.watchMode:
		return runWatch(cfg, siteCfg)
	default:
		return runGenerate(cfg, siteCfg)
	}
}

// runGenerate performs a single scan-render-write cycle.
func runGenerate(cfg config, siteCfg site.Config) int {
	result, err := site.Generate(siteCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.verbose {
		for _, e := range result.Entries {
			fmt.Printf("  - %s: %s\n", e.Filename, e.Title)
		}
	}
	fmt.Printf("Generated %s with %d snippet(s)\n", result.OutputPath, len(result.Entries))
	return 0
}

// runList prints the entries a generation run would include, writing nothing.
func runList(siteCfg site.Config) int {
	entries, err := snippet.Scan(siteCfg.Dir, snippet.ScanOptions{
		Output:   outputName(siteCfg),
		Excludes: siteCfg.Excludes,
		Cache:    siteCfg.Cache,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	for _, e := range entries {
		if e.Description != "" {
			fmt.Printf("%s\t%s\t%s\n", e.Filename, e.Title, e.Description)
		} else {
			fmt.Printf("%s\t%s\n", e.Filename, e.Title)
		}
	}
	return 0
}

// runTUI opens the terminal snippet browser.
func runTUI(siteCfg site.Config) int {
	entries, err := snippet.Scan(siteCfg.Dir, snippet.ScanOptions{
		Output:   outputName(siteCfg),
		Excludes: siteCfg.Excludes,
		Cache:    siteCfg.Cache,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if err := tui.Run(entries); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runServe starts the live preview server.
func runServe(cfg config, siteCfg site.Config, st *store.Store) int {
	server, err := web.NewServer(web.ServerConfig{
		Addr:  fmt.Sprintf("127.0.0.1:%d", cfg.port),
		Site:  siteCfg,
		Store: st,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("Previewing %s at http://%s\n", cfg.dir, server.Addr())
	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runWatch generates once, then regenerates on every directory change until
// interrupted.
func runWatch(cfg config, siteCfg site.Config) int {
	if code := runGenerate(cfg, siteCfg); code != 0 {
		return code
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	fmt.Printf("Watching %s for changes (ctrl-c to stop)\n", cfg.dir)
	excludes := append([]string{outputName(siteCfg)}, siteCfg.Excludes...)
	w := watch.New(cfg.dir, watch.Options{Exclude: excludes})
	err := w.OnChange(ctx, func() error {
		result, genErr := site.Generate(siteCfg)
		if genErr != nil {
			return genErr
		}
		fmt.Printf("Regenerated %s with %d snippet(s)\n", result.OutputPath, len(result.Entries))
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// outputName returns the effective index filename for scan exclusion.
func outputName(siteCfg site.Config) string {
	if siteCfg.Output != "" {
		return siteCfg.Output
	}
	return site.DefaultOutput
}

// splitPatterns parses the comma-separated -exclude value.
func splitPatterns(s string) []string {
	if s == "" {
		return nil
	}
	var patterns []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
