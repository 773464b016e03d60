package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "BLOG_"

// LoadDotEnv copies variables from the given dotenv files into the process
// environment without overriding values that are already set. Missing files
// are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("blog config: load %s: %w", file, err)
		}
	}
	return nil
}

// Load starts from DefaultConfig, overlays the YAML file at path when path
// is not empty, then applies BLOG_* environment overrides and validates.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("blog config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("blog config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	env := envReader{lookup: lookup}

	env.string("PUBLIC_URL", &cfg.PublicURL)
	env.string("PUBLIC_DIR", &cfg.PublicDir)
	env.string("POSTS_DIR", &cfg.PostsDir)

	env.string("FETCH_MODE", &cfg.Fetch.Mode)
	env.duration("FETCH_TIMEOUT", &cfg.Fetch.Timeout)
	env.int("FETCH_CONCURRENCY", &cfg.Fetch.Concurrency)
	env.int("FETCH_MAX_RETRIES", &cfg.Fetch.MaxRetries)
	env.duration("FETCH_MAX_ELAPSED", &cfg.Fetch.MaxElapsed)

	env.list("MARKDOWN_EXTENSIONS", &cfg.Markdown.Extensions)
	env.bool("MARKDOWN_HARD_WRAPS", &cfg.Markdown.HardWraps)
	env.bool("MARKDOWN_SAFE_MODE", &cfg.Markdown.SafeMode)
	env.bool("HIGHLIGHT_ENABLED", &cfg.Markdown.Highlight.Enabled)
	env.string("HIGHLIGHT_STYLE", &cfg.Markdown.Highlight.Style)

	env.string("SERVER_ADDR", &cfg.Server.Addr)
	env.string("METRICS_ADDR", &cfg.Server.MetricsAddr)
	env.duration("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	env.string("LOG_PROVIDER", &cfg.Logging.Provider)
	env.string("LOG_LEVEL", &cfg.Logging.Level)
	env.string("LOG_FORMAT", &cfg.Logging.Format)
	env.bool("LOG_ADD_SOURCE", &cfg.Logging.AddSource)
	env.list("LOG_FOCUS", &cfg.Logging.Focus)

	return errors.Join(env.errs...)
}

type envReader struct {
	lookup lookupFunc
	errs   []error
}

func (e *envReader) get(key string) (string, string, bool) {
	name := EnvPrefix + key
	value, ok := e.lookup(name)
	if !ok {
		return name, "", false
	}
	return name, strings.TrimSpace(value), true
}

func (e *envReader) string(key string, dst *string) {
	if _, value, ok := e.get(key); ok {
		*dst = value
	}
}

func (e *envReader) list(key string, dst *[]string) {
	_, value, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*dst = out
}

func (e *envReader) bool(key string, dst *bool) {
	name, value, ok := e.get(key)
	if !ok || value == "" {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("blog config: %s: %w", name, err))
		return
	}
	*dst = parsed
}

func (e *envReader) int(key string, dst *int) {
	name, value, ok := e.get(key)
	if !ok || value == "" {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("blog config: %s: %w", name, err))
		return
	}
	*dst = parsed
}

func (e *envReader) duration(key string, dst *time.Duration) {
	name, value, ok := e.get(key)
	if !ok || value == "" {
		return
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("blog config: %s: %w", name, err))
		return
	}
	*dst = parsed
}
