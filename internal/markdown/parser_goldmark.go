package markdown

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// GoldmarkRenderer implements interfaces.MarkdownRenderer using the goldmark
// engine. It is stateless apart from its defaults, so a single instance can be
// shared across requests.
type GoldmarkRenderer struct {
	defaultOptions interfaces.RenderOptions
	highlighter    *Highlighter
	logger         interfaces.Logger
}

var _ interfaces.MarkdownRenderer = (*GoldmarkRenderer)(nil)

// RendererOption configures a GoldmarkRenderer.
type RendererOption func(*GoldmarkRenderer)

// WithHighlighter enables syntax highlighting of fenced code blocks.
func WithHighlighter(h *Highlighter) RendererOption {
	return func(r *GoldmarkRenderer) {
		r.highlighter = h
	}
}

// WithRendererLogger sets the logger used to report conversion failures.
func WithRendererLogger(logger interfaces.Logger) RendererOption {
	return func(r *GoldmarkRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewGoldmarkRenderer constructs a renderer with the supplied defaults (GFM,
// linkify and task lists when no extensions are named). Raw HTML is passed
// through only when SafeMode is false; callers building from DefaultConfig
// get SafeMode on.
func NewGoldmarkRenderer(defaults interfaces.RenderOptions, opts ...RendererOption) *GoldmarkRenderer {
	r := &GoldmarkRenderer{defaultOptions: defaults, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render strips the front matter block from content, trims it and renders the
// remaining Markdown into HTML. Per-call options are merged over the defaults.
func (r *GoldmarkRenderer) Render(ctx context.Context, content string, opts interfaces.RenderOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return r.RenderBody([]byte(StripFrontMatter(content)), mergeRenderOptions(r.defaultOptions, opts))
}

// RenderBody renders Markdown that has already had its front matter removed.
func (r *GoldmarkRenderer) RenderBody(body []byte, opts interfaces.RenderOptions) ([]byte, error) {
	engine := r.newEngine(opts)
	var buf bytes.Buffer
	if err := engine.Convert(body, &buf); err != nil {
		r.logger.Error("markdown.render.failed", "error", err)
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// CSS returns the stylesheet matching highlighted code blocks, or nil when
// highlighting is disabled.
func (r *GoldmarkRenderer) CSS() ([]byte, error) {
	if r.highlighter == nil {
		return nil, nil
	}
	return r.highlighter.CSS()
}

func (r *GoldmarkRenderer) newEngine(opts interfaces.RenderOptions) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}

	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	if r.highlighter != nil {
		rendererOptions = append(rendererOptions, renderer.WithNodeRenderers(
			util.Prioritized(r.highlighter, highlighterPriority),
		))
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	}
	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

func mergeRenderOptions(base, override interfaces.RenderOptions) interfaces.RenderOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}
