package di

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-blog/internal/catalog"
	"github.com/goliatone/go-blog/internal/commands"
	postscmd "github.com/goliatone/go-blog/internal/commands/posts"
	"github.com/goliatone/go-blog/internal/fetch"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/metrics"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrCatalogUnavailable is returned when no catalog was injected and there
// is no public directory to list posts from.
var ErrCatalogUnavailable = errors.New("di: no post catalog available, set a public directory or inject one")

// Container wires the blog's services from a Config. Every collaborator can
// be replaced through an Option before the defaults are built.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	publicFS       fs.FS
	httpClient     *http.Client
	registry       *prometheus.Registry

	catalog  interfaces.PostCatalog
	fetcher  interfaces.PostFetcher
	metrics  *metrics.Collectors
	loader   interfaces.PostLoader
	cache    *posts.ListCache
	renderer *markdown.GoldmarkRenderer

	warmHandler   *postscmd.WarmPostsHandler
	renderHandler *postscmd.RenderPostHandler
}

// Option mutates the container before defaults are filled in.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithPublicFS replaces os.DirFS(Config.PublicDir).
func WithPublicFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.publicFS = fsys
	}
}

// WithHTTPClient sets the client used by the HTTP fetcher.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithRegistry registers metrics on registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithCatalog overrides the post catalog, e.g. with a catalog.Static list.
func WithCatalog(cat interfaces.PostCatalog) Option {
	return func(c *Container) {
		c.catalog = cat
	}
}

// WithFetcher overrides the post fetcher.
func WithFetcher(fetcher interfaces.PostFetcher) Option {
	return func(c *Container) {
		c.fetcher = fetcher
	}
}

// WithLoader overrides the post loader. The list cache wraps whatever loader
// ends up configured.
func WithLoader(loader interfaces.PostLoader) Option {
	return func(c *Container) {
		c.loader = loader
	}
}

// NewContainer validates cfg and builds the default services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configurePublicFS()
	c.configureMetrics()
	if err := c.configureFetcher(); err != nil {
		return nil, err
	}
	if err := c.configureCatalog(); err != nil {
		return nil, err
	}
	c.configureLoader()
	c.configureRenderer()
	c.configureCommands()

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	if strings.EqualFold(strings.TrimSpace(logCfg.Provider), runtimeconfig.LoggingProviderNone) {
		c.loggerProvider = noopProvider{}
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     logCfg.Level,
		Format:    logCfg.Format,
		AddSource: logCfg.AddSource,
		Focus:     logCfg.Focus,
	})
	if err != nil {
		return fmt.Errorf("di: logger provider: %w", err)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configurePublicFS() {
	if c.publicFS != nil {
		return
	}
	if dir := strings.TrimSpace(c.Config.PublicDir); dir != "" {
		c.publicFS = os.DirFS(dir)
	}
}

func (c *Container) configureMetrics() {
	c.metrics = metrics.New(c.registry)
}

func (c *Container) configureFetcher() error {
	if c.fetcher != nil {
		return nil
	}

	if strings.EqualFold(strings.TrimSpace(c.Config.Fetch.Mode), runtimeconfig.FetchModeHTTP) {
		client := c.httpClient
		if client == nil {
			client = &http.Client{Timeout: c.Config.Fetch.Timeout}
		}
		fetcher, err := fetch.NewHTTP(c.Config.PublicURL,
			fetch.WithHTTPClient(client),
			fetch.WithPostsPath(c.Config.PostsDir),
			fetch.WithRetry(uint(c.Config.Fetch.MaxRetries)+1, c.Config.Fetch.MaxElapsed),
			fetch.WithHTTPLogger(logging.FetchLogger(c.loggerProvider)),
			fetch.WithHTTPObserver(c.metrics),
		)
		if err != nil {
			return fmt.Errorf("di: http fetcher: %w", err)
		}
		c.fetcher = fetcher
		return nil
	}

	if c.publicFS == nil {
		return fmt.Errorf("di: filesystem fetcher: %w", runtimeconfig.ErrPublicDirRequired)
	}
	c.fetcher = fetch.NewFS(c.publicFS,
		fetch.WithDir(c.Config.PostsDir),
		fetch.WithFSObserver(c.metrics),
	)
	return nil
}

func (c *Container) configureCatalog() error {
	if c.catalog != nil {
		return nil
	}
	if c.publicFS == nil {
		return ErrCatalogUnavailable
	}
	c.catalog = catalog.NewFS(c.publicFS, c.Config.PostsDir)
	return nil
}

func (c *Container) configureLoader() {
	if c.loader == nil {
		c.loader = posts.NewLoader(c.catalog, c.fetcher,
			posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
			posts.WithConcurrency(c.Config.Fetch.Concurrency),
			posts.WithListObserver(c.metrics),
		)
	}
	c.cache = posts.NewListCache(c.loader, posts.WithCacheLogger(logging.PostsLogger(c.loggerProvider)))
}

func (c *Container) configureRenderer() {
	defaults := interfaces.RenderOptions{
		Extensions: c.Config.Markdown.Extensions,
		HardWraps:  c.Config.Markdown.HardWraps,
		SafeMode:   c.Config.Markdown.SafeMode,
	}
	opts := []markdown.RendererOption{
		markdown.WithRendererLogger(logging.MarkdownLogger(c.loggerProvider)),
	}
	if c.Config.Markdown.Highlight.Enabled {
		opts = append(opts, markdown.WithHighlighter(markdown.NewHighlighter(c.Config.Markdown.Highlight.Style)))
	}
	c.renderer = markdown.NewGoldmarkRenderer(defaults, opts...)
}

func (c *Container) configureCommands() {
	logger := commands.CommandLogger(c.loggerProvider, "posts")
	c.warmHandler = postscmd.NewWarmPostsHandler(c.cache, logger)
	c.renderHandler = postscmd.NewRenderPostHandler(c.loader, c.renderer, logger)
}

// LoggerProvider returns the configured provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// PublicFS returns the filesystem rooted at the public directory, or nil in
// pure HTTP mode.
func (c *Container) PublicFS() fs.FS { return c.publicFS }

// Catalog returns the post catalog.
func (c *Container) Catalog() interfaces.PostCatalog { return c.catalog }

// Fetcher returns the post fetcher.
func (c *Container) Fetcher() interfaces.PostFetcher { return c.fetcher }

// Loader returns the post loader.
func (c *Container) Loader() interfaces.PostLoader { return c.loader }

// ListCache returns the process-wide listing cache.
func (c *Container) ListCache() *posts.ListCache { return c.cache }

// Renderer returns the Markdown renderer.
func (c *Container) Renderer() *markdown.GoldmarkRenderer { return c.renderer }

// Metrics returns the Prometheus collectors.
func (c *Container) Metrics() *metrics.Collectors { return c.metrics }

// WarmPostsHandler returns the command that primes the listing cache.
func (c *Container) WarmPostsHandler() *postscmd.WarmPostsHandler { return c.warmHandler }

// RenderPostHandler returns the command that renders a single post.
func (c *Container) RenderPostHandler() *postscmd.RenderPostHandler { return c.renderHandler }

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }
