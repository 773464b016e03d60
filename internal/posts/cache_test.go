package posts

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type gatedLoader struct {
	gate   chan struct{}
	calls  atomic.Int32
	ctxErr atomic.Value
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{gate: make(chan struct{})}
}

func (g *gatedLoader) List(ctx context.Context) *interfaces.Listing {
	g.calls.Add(1)
	<-g.gate
	if err := ctx.Err(); err != nil {
		g.ctxErr.Store(err)
	}
	return &interfaces.Listing{Posts: []interfaces.Post{{Slug: "only"}}}
}

func (g *gatedLoader) Get(context.Context, string) (*interfaces.Post, bool) {
	return nil, false
}

func TestListCacheReturnsIdenticalListing(t *testing.T) {
	fetcher := &mapFetcher{files: map[string]string{"a.md": postFile("A", "2024-01-01")}}
	cache := NewListCache(NewLoader(staticCatalog{names: []string{"a.md"}}, fetcher))

	first, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("second get: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical listing pointers")
	}
	if got := fetcher.calls.Load(); got != 1 {
		t.Fatalf("expected a single batch, got %d fetches", got)
	}
	if !cache.Loaded() {
		t.Fatalf("expected cache to report loaded")
	}
}

func TestListCacheConcurrentCallersShareBatch(t *testing.T) {
	loader := newGatedLoader()
	cache := NewListCache(loader)

	const callers = 8
	results := make([]*interfaces.Listing, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listing, err := cache.Get(context.Background())
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			results[i] = listing
		}()
	}

	close(loader.gate)
	wg.Wait()

	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("expected one list run, got %d", got)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d received a different listing", i)
		}
	}
}

func TestListCacheCancelledCallerDoesNotAbortBatch(t *testing.T) {
	loader := newGatedLoader()
	cache := NewListCache(loader)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx)
		errCh <- err
	}()

	waitFor(t, func() bool { return loader.calls.Load() == 1 })
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("cancelled caller did not return")
	}

	close(loader.gate)

	listing, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("get after cancel: %v", err)
	}
	if len(listing.Posts) != 1 {
		t.Fatalf("expected batch to complete, got %+v", listing)
	}
	if stored := loader.ctxErr.Load(); stored != nil {
		t.Fatalf("expected batch context to stay live, got %v", stored)
	}
	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("expected one list run, got %d", got)
	}
}

func TestListCacheStartDoesNotBlock(t *testing.T) {
	loader := newGatedLoader()
	cache := NewListCache(loader)

	cache.Start(context.Background())
	if cache.Loaded() {
		t.Fatalf("expected cache to still be loading")
	}

	close(loader.gate)
	if _, err := cache.Get(context.Background()); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("expected Start and Get to share the run, got %d", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

type panickingLoader struct{}

func (panickingLoader) List(context.Context) *interfaces.Listing {
	panic("catalog exploded")
}

func (panickingLoader) Get(context.Context, string) (*interfaces.Post, bool) {
	return nil, false
}

func TestListCacheRecoversFromLoaderPanic(t *testing.T) {
	logger := &recordingLogger{}
	cache := NewListCache(panickingLoader{}, WithCacheLogger(logger))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	listing, err := cache.Get(ctx)
	if err != nil {
		t.Fatalf("expected the run to resolve, got %v", err)
	}
	if listing == nil || len(listing.Posts) != 0 {
		t.Fatalf("expected an empty listing, got %+v", listing)
	}
	if !cache.Loaded() {
		t.Fatalf("expected cache to report loaded")
	}

	again, err := cache.Get(ctx)
	if err != nil || again != listing {
		t.Fatalf("expected the same empty listing on later calls")
	}
	if msgs := logger.messages("error"); len(msgs) != 1 || msgs[0] != "posts.list.panic" {
		t.Fatalf("expected panic to be logged, got %v", msgs)
	}
}
