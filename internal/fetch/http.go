package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	sourceHTTP = "http"

	defaultHTTPTimeout     = 10 * time.Second
	defaultMaxTries        = 3
	defaultMaxElapsedTime  = 30 * time.Second
	defaultInitialInterval = 200 * time.Millisecond
)

// HTTP fetches post files with GET {baseURL}/posts/{filename}. Transport
// errors, 429 and 5xx responses are retried with exponential backoff; 404 and
// other statuses fail immediately.
type HTTP struct {
	baseURL         *url.URL
	postsPath       string
	client          *http.Client
	maxTries        uint
	maxElapsed      time.Duration
	initialInterval time.Duration
	logger          interfaces.Logger
	observer        Observer
}

var _ interfaces.PostFetcher = (*HTTP)(nil)

// HTTPOption configures an HTTP fetcher.
type HTTPOption func(*HTTP)

// WithHTTPClient overrides the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// WithPostsPath overrides the path segment, relative to the base URL, that
// holds post files.
func WithPostsPath(segment string) HTTPOption {
	return func(h *HTTP) {
		if trimmed := strings.Trim(segment, "/ "); trimmed != "" {
			h.postsPath = trimmed
		}
	}
}

// WithRetry bounds retries by attempt count and total elapsed time. A
// maxTries of 1 disables retrying.
func WithRetry(maxTries uint, maxElapsed time.Duration) HTTPOption {
	return func(h *HTTP) {
		if maxTries > 0 {
			h.maxTries = maxTries
		}
		if maxElapsed > 0 {
			h.maxElapsed = maxElapsed
		}
	}
}

// WithInitialInterval sets the first backoff delay.
func WithInitialInterval(interval time.Duration) HTTPOption {
	return func(h *HTTP) {
		if interval > 0 {
			h.initialInterval = interval
		}
	}
}

// WithHTTPLogger injects the logger used for retry notifications.
func WithHTTPLogger(logger interfaces.Logger) HTTPOption {
	return func(h *HTTP) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithHTTPObserver reports every fetch outcome to observer.
func WithHTTPObserver(observer Observer) HTTPOption {
	return func(h *HTTP) {
		if observer != nil {
			h.observer = observer
		}
	}
}

// NewHTTP builds a fetcher rooted at baseURL, the public URL the blog is
// served from (for example "https://example.com/blog").
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("fetch: base url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("fetch: parse base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("fetch: base url %q must be absolute", baseURL)
	}

	h := &HTTP{
		baseURL:         parsed,
		postsPath:       PostsDir,
		client:          &http.Client{Timeout: defaultHTTPTimeout},
		maxTries:        defaultMaxTries,
		maxElapsed:      defaultMaxElapsedTime,
		initialInterval: defaultInitialInterval,
		logger:          logging.NoOp(),
		observer:        nopObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// URL returns the address a filename is fetched from.
func (h *HTTP) URL(filename string) string {
	return h.baseURL.JoinPath(h.postsPath, url.PathEscape(filename)).String()
}

// Fetch returns the raw text of filename.
func (h *HTTP) Fetch(ctx context.Context, filename string) (string, error) {
	if err := validateFilename(filename); err != nil {
		return "", fmt.Errorf("%w: %q", err, filename)
	}

	started := time.Now()
	target := h.URL(filename)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = h.initialInterval

	body, err := backoff.Retry(
		ctx,
		func() (string, error) { return h.get(ctx, target) },
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(h.maxTries),
		backoff.WithMaxElapsedTime(h.maxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			h.logger.Debug("fetch.http.retry", "url", target, "error", err, "next", next)
		}),
	)

	h.observer.ObserveFetch(sourceHTTP, outcomeOf(err), time.Since(started))
	if err != nil {
		return "", err
	}
	return body, nil
}

func (h *HTTP) get(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("fetch: build request %s: %w", target, err))
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	resp, err := h.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", backoff.Permanent(ctxErr)
		}
		return "", fmt.Errorf("fetch: get %s: %w", target, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", backoff.Permanent(fmt.Errorf("%w: %s", ErrNotFound, target))
	case resp.StatusCode == http.StatusTooManyRequests:
		if seconds, convErr := strconv.Atoi(resp.Header.Get("Retry-After")); convErr == nil && seconds > 0 {
			return "", backoff.RetryAfter(seconds)
		}
		return "", fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, target)
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, target)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return "", backoff.Permanent(fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, target))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch: read %s: %w", target, err)
	}
	return string(data), nil
}
