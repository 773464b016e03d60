package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrPostsDirRequired = errors.New("blog config: posts directory is required")
var ErrPublicDirRequired = errors.New("blog config: public directory is required for filesystem fetching")
var ErrPublicURLRequired = errors.New("blog config: public url is required for http fetching")
var ErrPublicURLInvalid = errors.New("blog config: public url must be an absolute http(s) url")
var ErrFetchModeUnknown = errors.New("blog config: fetch mode is invalid")
var ErrFetchConcurrencyInvalid = errors.New("blog config: fetch concurrency must be zero or positive")
var ErrFetchRetriesInvalid = errors.New("blog config: fetch retries must be zero or positive")
var ErrServerAddrRequired = errors.New("blog config: server address is required")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

// Fetch modes.
const (
	FetchModeFS   = "fs"
	FetchModeHTTP = "http"
)

// Logging providers.
const (
	LoggingProviderGoLogger = "gologger"
	LoggingProviderNone     = "none"
)

// Config aggregates everything needed to serve the blog.
type Config struct {
	// PublicURL is the base the static posts folder is served from. Used when
	// Fetch.Mode is "http".
	PublicURL string `yaml:"public_url"`
	// PublicDir is the local directory holding the posts folder. Used when
	// Fetch.Mode is "fs" and for serving the raw files.
	PublicDir string         `yaml:"public_dir"`
	PostsDir  string         `yaml:"posts_dir"`
	Fetch     FetchConfig    `yaml:"fetch"`
	Markdown  MarkdownConfig `yaml:"markdown"`
	Server    ServerConfig   `yaml:"server"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// FetchConfig controls how post files are retrieved.
type FetchConfig struct {
	Mode        string        `yaml:"mode"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
	MaxRetries  int           `yaml:"max_retries"`
	MaxElapsed  time.Duration `yaml:"max_elapsed"`
}

// MarkdownConfig mirrors interfaces.RenderOptions plus highlighting.
type MarkdownConfig struct {
	Extensions []string        `yaml:"extensions"`
	HardWraps  bool            `yaml:"hard_wraps"`
	SafeMode   bool            `yaml:"safe_mode"`
	Highlight  HighlightConfig `yaml:"highlight"`
}

// HighlightConfig selects the code highlighting style.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"`
}

// ServerConfig holds listener addresses. An empty MetricsAddr disables the
// metrics listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MetricsAddr     string        `yaml:"metrics_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig reads posts from ./public/posts on disk and renders them
// with raw HTML omitted.
func DefaultConfig() Config {
	return Config{
		PublicDir: "public",
		PostsDir:  "posts",
		Fetch: FetchConfig{
			Mode:        FetchModeFS,
			Timeout:     10 * time.Second,
			Concurrency: 8,
			MaxRetries:  3,
			MaxElapsed:  30 * time.Second,
		},
		Markdown: MarkdownConfig{
			SafeMode: true,
			Highlight: HighlightConfig{
				Enabled: true,
				Style:   "github",
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MetricsAddr:     ":9090",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: LoggingProviderGoLogger,
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.PostsDir) == "" {
		return ErrPostsDirRequired
	}

	switch mode := normalize(cfg.Fetch.Mode); mode {
	case FetchModeFS:
		if strings.TrimSpace(cfg.PublicDir) == "" {
			return ErrPublicDirRequired
		}
	case FetchModeHTTP:
		if strings.TrimSpace(cfg.PublicURL) == "" {
			return ErrPublicURLRequired
		}
		if !isAbsoluteHTTPURL(cfg.PublicURL) {
			return fmt.Errorf("%w: %s", ErrPublicURLInvalid, cfg.PublicURL)
		}
	default:
		return fmt.Errorf("%w: %q", ErrFetchModeUnknown, cfg.Fetch.Mode)
	}

	if cfg.Fetch.Concurrency < 0 {
		return fmt.Errorf("%w: %d", ErrFetchConcurrencyInvalid, cfg.Fetch.Concurrency)
	}
	if cfg.Fetch.MaxRetries < 0 {
		return fmt.Errorf("%w: %d", ErrFetchRetriesInvalid, cfg.Fetch.MaxRetries)
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == LoggingProviderGoLogger {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isAbsoluteHTTPURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case LoggingProviderGoLogger, LoggingProviderNone:
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
