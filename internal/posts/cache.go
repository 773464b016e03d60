package posts

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ListCache holds the process-wide post listing. The first call to Get or
// Start launches a single list run; callers arriving while it is in flight
// wait for the same run, and every later call returns the same *Listing.
// The listing is never refreshed.
//
// The run uses a context detached from the caller that started it, so a
// caller giving up does not abort the batch for everyone else.
type ListCache struct {
	loader interfaces.PostLoader
	logger interfaces.Logger

	once    sync.Once
	done    chan struct{}
	listing *interfaces.Listing
}

// CacheOption configures a ListCache.
type CacheOption func(*ListCache)

// WithCacheLogger sets the logger used to report a failed list run.
func WithCacheLogger(logger interfaces.Logger) CacheOption {
	return func(c *ListCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewListCache returns an unstarted cache over loader.
func NewListCache(loader interfaces.PostLoader, opts ...CacheOption) *ListCache {
	c := &ListCache{
		loader: loader,
		logger: logging.NoOp(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start launches the list run if it has not started yet and returns
// without waiting.
func (c *ListCache) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.once.Do(func() {
		runCtx := context.WithoutCancel(ctx)
		go c.run(runCtx)
	})
}

// Get returns the shared listing, starting the run when needed. If ctx ends
// before the listing resolves, Get returns ctx.Err() and the run continues.
func (c *ListCache) Get(ctx context.Context) (*interfaces.Listing, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.Start(ctx)

	select {
	case <-c.done:
		return c.listing, nil
	default:
	}

	select {
	case <-c.done:
		return c.listing, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Loaded reports whether the listing has resolved.
func (c *ListCache) Loaded() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// run always resolves the cache. A panicking loader leaves an empty listing.
func (c *ListCache) run(ctx context.Context) {
	defer close(c.done)
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("posts.list.panic", "error", fmt.Errorf("%v", r))
			c.listing = &interfaces.Listing{}
		}
	}()

	listing := c.loader.List(ctx)
	if listing == nil {
		listing = &interfaces.Listing{}
	}
	c.listing = listing
}
