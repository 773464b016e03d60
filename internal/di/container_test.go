package di

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-blog/internal/catalog"
	postscmd "github.com/goliatone/go-blog/internal/commands/posts"
	"github.com/goliatone/go-blog/internal/fetch"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"posts/old.md": {Data: []byte("---\ntitle: Old\ndate: 2023-01-01\n---\nOld body")},
		"posts/new.md": {Data: []byte("---\ntitle: New\ndate: 2024-06-15\n---\n```go\nfmt.Println(1)\n```\n")},
	}
}

func quietConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = runtimeconfig.LoggingProviderNone
	return cfg
}

func TestNewContainerFilesystemMode(t *testing.T) {
	container, err := NewContainer(quietConfig(), WithPublicFS(testFS()), WithRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if _, ok := container.Fetcher().(*fetch.FS); !ok {
		t.Fatalf("expected filesystem fetcher, got %T", container.Fetcher())
	}

	listing, err := container.ListCache().Get(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listing.Posts) != 2 || listing.Posts[0].Slug != "new" {
		t.Fatalf("unexpected listing %+v", listing.Posts)
	}

	result := &postscmd.RenderResult{}
	if err := container.RenderPostHandler().Execute(context.Background(), postscmd.RenderPostCommand{Slug: "new", Result: result}); err != nil {
		t.Fatalf("render command: %v", err)
	}
	if len(result.HTML) == 0 {
		t.Fatalf("expected rendered html")
	}

	if err := container.WarmPostsHandler().Execute(context.Background(), postscmd.WarmPostsCommand{}); err != nil {
		t.Fatalf("warm command: %v", err)
	}
}

func TestNewContainerHTTPMode(t *testing.T) {
	server := httptest.NewServer(http.FileServerFS(testFS()))
	t.Cleanup(server.Close)

	cfg := quietConfig()
	cfg.Fetch.Mode = runtimeconfig.FetchModeHTTP
	cfg.PublicURL = server.URL
	cfg.PublicDir = ""

	container, err := NewContainer(cfg,
		WithHTTPClient(server.Client()),
		WithCatalog(catalog.Static{"old.md", "new.md", "gone.md"}),
		WithRegistry(prometheus.NewRegistry()),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.Fetcher().(*fetch.HTTP); !ok {
		t.Fatalf("expected http fetcher, got %T", container.Fetcher())
	}

	listing := container.Loader().List(context.Background())
	if len(listing.Posts) != 2 || len(listing.Failed()) != 1 {
		t.Fatalf("expected 2 posts and 1 failure, got %d/%d", len(listing.Posts), len(listing.Failed()))
	}
}

func TestNewContainerHTTPModeRequiresCatalog(t *testing.T) {
	cfg := quietConfig()
	cfg.Fetch.Mode = runtimeconfig.FetchModeHTTP
	cfg.PublicURL = "https://example.com"
	cfg.PublicDir = ""

	_, err := NewContainer(cfg, WithRegistry(prometheus.NewRegistry()))
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := quietConfig()
	cfg.Fetch.Mode = "carrier-pigeon"

	_, err := NewContainer(cfg)
	if !errors.Is(err, runtimeconfig.ErrFetchModeUnknown) {
		t.Fatalf("expected ErrFetchModeUnknown, got %v", err)
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = runtimeconfig.LoggingProviderGoLogger
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container, err := NewContainer(cfg, WithPublicFS(testFS()), WithRegistry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if logger := provider.GetLogger("blog.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}
