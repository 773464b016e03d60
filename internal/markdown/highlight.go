package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma"
	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// DefaultHighlightStyle matches the stylesheet the blog shipped with.
const DefaultHighlightStyle = "github"

const (
	defaultTabWidth     = 4
	highlighterPriority = 100
)

// Highlighter renders fenced code blocks through chroma. Output uses CSS
// classes; CSS returns the matching stylesheet.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

var _ renderer.NodeRenderer = (*Highlighter)(nil)

// NewHighlighter builds a highlighter for the named chroma style. Unknown
// styles fall back to chroma's default.
func NewHighlighter(styleName string) *Highlighter {
	name := strings.TrimSpace(styleName)
	if name == "" {
		name = DefaultHighlightStyle
	}
	return &Highlighter{
		style:     styles.Get(name),
		formatter: chromahtml.New(chromahtml.WithClasses(true), chromahtml.TabWidth(defaultTabWidth)),
	}
}

// RegisterFuncs satisfies renderer.NodeRenderer.
func (h *Highlighter) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, h.renderFencedCodeBlock)
}

func (h *Highlighter) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block, ok := node.(*ast.FencedCodeBlock)
	if !ok {
		return ast.WalkContinue, nil
	}

	var code bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(source))
	}

	if err := h.Highlight(w, string(block.Language(source)), code.String()); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

// Highlight writes source as highlighted HTML. The lexer is picked by
// language name, then by content analysis, then chroma's plain-text fallback.
func (h *Highlighter) Highlight(w io.Writer, lang, source string) error {
	lexer := lexers.Get(strings.TrimSpace(lang))
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("markdown highlight %q: %w", lang, err)
	}
	if err := h.formatter.Format(w, h.style, it); err != nil {
		return fmt.Errorf("markdown highlight %q: %w", lang, err)
	}
	return nil
}

// CSS returns the stylesheet for the configured style.
func (h *Highlighter) CSS() ([]byte, error) {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return nil, fmt.Errorf("markdown highlight css: %w", err)
	}
	return buf.Bytes(), nil
}
