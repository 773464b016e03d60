// Package blog loads Markdown posts from a static posts folder, extracts
// their front matter and renders them as HTML.
package blog

import (
	"context"
	"errors"
	"net/http"

	postscmd "github.com/goliatone/go-blog/internal/commands/posts"
	"github.com/goliatone/go-blog/internal/di"
	bloghttp "github.com/goliatone/go-blog/internal/http"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

type (
	// Post is a single blog entry.
	Post = interfaces.Post
	// Metadata holds front matter key/value pairs.
	Metadata = interfaces.Metadata
	// Listing is the outcome of a list run.
	Listing = interfaces.Listing
	// FileResult records the outcome of loading one file.
	FileResult = interfaces.FileResult
	// RenderOptions tunes Markdown rendering.
	RenderOptions = interfaces.RenderOptions
	// Option overrides a container collaborator.
	Option = di.Option
)

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithPublicFS       = di.WithPublicFS
	WithHTTPClient     = di.WithHTTPClient
	WithRegistry       = di.WithRegistry
	WithCatalog        = di.WithCatalog
	WithFetcher        = di.WithFetcher
	WithLoader         = di.WithLoader
)

// ErrNilPost is returned by Render when no post is supplied.
var ErrNilPost = errors.New("blog: nil post")

// Module is the top level blog runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a blog module from cfg and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the process-wide listing, loading it on first use. Later
// calls return the same *Listing.
func (m *Module) Posts(ctx context.Context) (*Listing, error) {
	return m.container.ListCache().Get(ctx)
}

// Post fetches a single post by slug. It reports false when the post could
// not be loaded.
func (m *Module) Post(ctx context.Context, slug string) (*Post, bool) {
	return m.container.Loader().Get(ctx, slug)
}

// Render converts a post's Markdown body to HTML.
func (m *Module) Render(ctx context.Context, post *Post) ([]byte, error) {
	if post == nil {
		return nil, ErrNilPost
	}
	return m.container.Renderer().Render(ctx, post.Content, RenderOptions{})
}

// Warm starts loading the listing and waits for it through the warm command.
func (m *Module) Warm(ctx context.Context) error {
	return m.container.WarmPostsHandler().Execute(ctx, postscmd.WarmPostsCommand{})
}

// Handler returns the blog's HTTP routes.
func (m *Module) Handler() (http.Handler, error) {
	srv, err := bloghttp.NewServer(bloghttp.Config{
		Listings:   m.container.ListCache(),
		Loader:     m.container.Loader(),
		Renderer:   m.container.Renderer(),
		StyleSheet: m.container.Renderer(),
		PublicFS:   m.container.PublicFS(),
		PostsDir:   m.container.Config.PostsDir,
		Logger:     logging.HTTPLogger(m.container.LoggerProvider()),
	})
	if err != nil {
		return nil, err
	}
	return srv.Routes(), nil
}

// MetricsHandler serves the Prometheus metrics.
func (m *Module) MetricsHandler() http.Handler {
	return m.container.Metrics().Handler()
}
