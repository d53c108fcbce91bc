// ABOUTME: Live-preview HTTP server for a snippet directory behind a chi router.
// ABOUTME: Renders the index in memory through a fingerprint-keyed cache; never writes index.html to disk.
package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/willf/snippets/site"
	"github.com/willf/snippets/snippet"
	"github.com/willf/snippets/store"
	"github.com/willf/snippets/watch"
)

// ServerConfig holds the configuration for the preview server.
type ServerConfig struct {
	Addr string      // listen address (default: "127.0.0.1:8080")
	Site site.Config // generation settings; Site.Dir is the snippet directory
	// Store, when non-nil, backs /api/builds and the metadata cache.
	Store *store.Store
	// CacheTTL bounds how long a rendered index is reused even for an
	// unchanged fingerprint. Default: 30s.
	CacheTTL time.Duration
}

// Server serves the snippet directory with a freshly rendered index page.
type Server struct {
	cfg    ServerConfig
	router chi.Router
	cache  *site.RenderCache
}

// NewServer creates a preview server for the configured snippet directory.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}
	if cfg.Site.Dir == "" {
		cfg.Site.Dir = "."
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	if cfg.Store != nil {
		cfg.Site.Cache = cfg.Store
	}

	// Verify the directory is scannable up front so a bad path fails at
	// startup, not on the first request.
	if _, err := snippet.Scan(cfg.Site.Dir, snippet.ScanOptions{Output: cfg.Site.Output}); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg}
	s.cache = site.NewRenderCache(s.renderIndex, cfg.CacheTTL)
	s.router = s.buildRouter()
	return s, nil
}

// Router returns the HTTP handler for the server, usable directly in tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// ListenAndServe starts the HTTP server on the configured address with
// timeouts to prevent resource exhaustion from slow clients.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	return srv.ListenAndServe()
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snippets", s.handleAPISnippets)
		r.Get("/builds", s.handleAPIBuilds)
	})

	// Everything else is served straight from the snippet directory, with
	// the output file intercepted so a stale on-disk index never shadows
	// the live render.
	fileServer := http.FileServer(http.Dir(s.cfg.Site.Dir))
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/"+s.outputName() {
			s.handleIndex(w, req)
			return
		}
		fileServer.ServeHTTP(w, req)
	})

	return r
}

// outputName returns the configured index file name.
func (s *Server) outputName() string {
	if s.cfg.Site.Output != "" {
		return s.cfg.Site.Output
	}
	return site.DefaultOutput
}

// renderIndex is the RenderFunc behind the cache: a full in-memory
// scan-and-render of the snippet directory.
func (s *Server) renderIndex(ctx context.Context, fingerprint string) ([]byte, error) {
	page, _, err := site.Render(s.cfg.Site)
	return page, err
}

// handleIndex renders the index page for the current directory state.
func (s *Server) handleIndex(w http.ResponseWriter, req *http.Request) {
	excludes := append([]string{s.outputName()}, s.cfg.Site.Excludes...)
	fp, err := watch.Fingerprint(s.cfg.Site.Dir, excludes...)
	if err != nil {
		log.Printf("fingerprint %s: %v", s.cfg.Site.Dir, err)
		http.Error(w, "snippet directory unavailable", http.StatusInternalServerError)
		return
	}

	page, err := s.cache.Render(req.Context(), fp)
	if err != nil {
		log.Printf("render index: %v", err)
		http.Error(w, "index render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// handleHealth is a trivial liveness endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleAPISnippets returns the current entry list as JSON.
func (s *Server) handleAPISnippets(w http.ResponseWriter, _ *http.Request) {
	entries, err := snippet.Scan(s.cfg.Site.Dir, snippet.ScanOptions{
		Output:   s.outputName(),
		Excludes: s.cfg.Site.Excludes,
		Cache:    s.cfg.Site.Cache,
	})
	if err != nil {
		log.Printf("scan %s: %v", s.cfg.Site.Dir, err)
		http.Error(w, "scan failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"count":    len(entries),
		"snippets": entries,
	})
}

// handleAPIBuilds returns recent generation runs from the store.
func (s *Server) handleAPIBuilds(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.Store == nil {
		http.Error(w, "no scan index configured", http.StatusNotFound)
		return
	}
	builds, err := s.cfg.Store.ListBuilds(50)
	if err != nil {
		log.Printf("list builds: %v", err)
		http.Error(w, "build history unavailable", http.StatusInternalServerError)
		return
	}
	if builds == nil {
		builds = []store.BuildRecord{}
	}
	writeJSON(w, map[string]any{"builds": builds})
}

// writeJSON encodes v to the response with the JSON content type.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
