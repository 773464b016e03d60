package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ErrCatalog wraps failures to enumerate the posts directory.
var ErrCatalog = errors.New("posts: catalog unavailable")

const defaultConcurrency = 8

// ListObserver receives a summary of every completed list run.
type ListObserver interface {
	ObserveList(loaded, failed int, elapsed time.Duration)
}

// Loader builds post records from a catalog of filenames and a fetcher.
type Loader struct {
	catalog     interfaces.PostCatalog
	fetcher     interfaces.PostFetcher
	logger      interfaces.Logger
	observer    ListObserver
	concurrency int
	location    *time.Location
}

var _ interfaces.PostLoader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used to report per-file failures.
func WithLogger(logger interfaces.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithConcurrency bounds the number of fetches in flight during List.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLocation sets the zone used for dates without an explicit offset.
func WithLocation(loc *time.Location) Option {
	return func(l *Loader) {
		if loc != nil {
			l.location = loc
		}
	}
}

// WithListObserver reports list run totals to observer.
func WithListObserver(observer ListObserver) Option {
	return func(l *Loader) {
		l.observer = observer
	}
}

// NewLoader wires a loader over catalog and fetcher.
func NewLoader(catalog interfaces.PostCatalog, fetcher interfaces.PostFetcher, opts ...Option) *Loader {
	l := &Loader{
		catalog:     catalog,
		fetcher:     fetcher,
		logger:      logging.NoOp(),
		concurrency: defaultConcurrency,
		location:    time.UTC,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List fetches every catalogued file and returns the posts that loaded,
// sorted newest first. Files that fail are logged and recorded on the
// listing's results; they never fail the run. A catalog failure yields an
// empty listing.
func (l *Loader) List(ctx context.Context) *interfaces.Listing {
	started := time.Now()

	filenames, err := l.catalog.Filenames(ctx)
	if err != nil {
		l.logger.Error("posts.list.catalog_failed", "error", fmt.Errorf("%w: %w", ErrCatalog, err))
		l.observe(0, 0, started)
		return &interfaces.Listing{}
	}

	results := make([]interfaces.FileResult, len(filenames))

	var group errgroup.Group
	group.SetLimit(l.concurrency)
	for i, filename := range filenames {
		group.Go(func() error {
			results[i] = l.load(ctx, filename)
			return nil
		})
	}
	_ = group.Wait()

	posts := make([]interfaces.Post, 0, len(results))
	for _, result := range results {
		if !result.OK() {
			logging.WithPostContext(l.logger, "", result.Filename).
				Warn("posts.list.file_failed", "error", result.Err)
			continue
		}
		posts = append(posts, *result.Post)
	}
	SortByDate(posts, l.location)

	l.logger.Debug("posts.list.completed", "loaded", len(posts), "failed", len(results)-len(posts))
	l.observe(len(posts), len(results)-len(posts), started)

	return &interfaces.Listing{Posts: posts, Results: results}
}

// Get fetches {slug}.md and returns its post. Any failure is logged and
// reported as absent. Nothing is cached; every call fetches.
func (l *Loader) Get(ctx context.Context, slug string) (*interfaces.Post, bool) {
	if strings.TrimSpace(slug) == "" {
		return nil, false
	}
	filename := FilenameFromSlug(slug)

	content, err := l.fetcher.Fetch(ctx, filename)
	if err != nil {
		logging.WithPostContext(l.logger, slug, filename).Warn("posts.get.failed", "error", err)
		return nil, false
	}

	post := NewPost(filename, content)
	return &post, true
}

func (l *Loader) load(ctx context.Context, filename string) interfaces.FileResult {
	content, err := l.fetcher.Fetch(ctx, filename)
	if err != nil {
		return interfaces.FileResult{Filename: filename, Err: err}
	}
	post := NewPost(filename, content)
	return interfaces.FileResult{Filename: filename, Post: &post}
}

func (l *Loader) observe(loaded, failed int, started time.Time) {
	if l.observer != nil {
		l.observer.ObserveList(loaded, failed, time.Since(started))
	}
}
