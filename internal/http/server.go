package http

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ListSource yields the shared post listing.
type ListSource interface {
	Get(ctx context.Context) (*interfaces.Listing, error)
}

// StyleSheet produces the CSS for highlighted code blocks. A nil result means
// highlighting is disabled.
type StyleSheet interface {
	CSS() ([]byte, error)
}

// Config lists the collaborators the router needs. PublicFS and StyleSheet
// are optional.
type Config struct {
	Listings   ListSource
	Loader     interfaces.PostLoader
	Renderer   interfaces.MarkdownRenderer
	StyleSheet StyleSheet
	PublicFS   fs.FS
	PostsDir   string
	Logger     interfaces.Logger
}

// Server holds the parsed views and the collaborators behind each route.
type Server struct {
	listings   ListSource
	loader     interfaces.PostLoader
	renderer   interfaces.MarkdownRenderer
	styleSheet StyleSheet
	publicFS   fs.FS
	postsDir   string
	logger     interfaces.Logger
	views      views
}

// NewServer validates cfg and parses the embedded templates.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Listings == nil || cfg.Loader == nil || cfg.Renderer == nil {
		return nil, errors.New("http: listings, loader and renderer are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	parsed, err := loadViews(hasStyleSheet(cfg.StyleSheet, logger))
	if err != nil {
		return nil, err
	}
	postsDir := strings.Trim(cfg.PostsDir, "/ ")
	if postsDir == "" {
		postsDir = "posts"
	}
	return &Server{
		listings:   cfg.Listings,
		loader:     cfg.Loader,
		renderer:   cfg.Renderer,
		styleSheet: cfg.StyleSheet,
		publicFS:   cfg.PublicFS,
		postsDir:   postsDir,
		logger:     logger,
		views:      parsed,
	}, nil
}

// Routes builds the chi router for every blog endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.listPage)
	r.Get("/post/{slug}", s.detailPage)
	r.Get("/assets/highlight.css", s.highlightCSS)
	r.Get("/healthz", healthz)

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/", s.listJSON)
		r.Get("/{slug}", s.postJSON)
	})

	if s.publicFS != nil {
		r.Handle("/"+s.postsDir+"/*", http.FileServerFS(s.publicFS))
	}

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(started).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func hasStyleSheet(sheet StyleSheet, logger interfaces.Logger) bool {
	if sheet == nil {
		return false
	}
	css, err := sheet.CSS()
	if err != nil {
		logger.Warn("http.stylesheet.failed", "error", err)
		return false
	}
	return len(css) > 0
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
