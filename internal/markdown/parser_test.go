package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestGoldmarkRenderer_RenderStripsFrontMatter(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{})
	data := readFixture(t, "testdata/basic.md")

	html, err := renderer.Render(context.Background(), string(data), interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := string(html)
	if strings.Contains(got, "excerpt:") || strings.Contains(got, "date: 2024") {
		t.Fatalf("expected front matter to be stripped, got %q", got)
	}
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Sample Post</h1>") {
		t.Fatalf("expected rendered heading, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered emphasis, got %q", got)
	}
}

func TestGoldmarkRenderer_HardWraps(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{})

	html, err := renderer.Render(context.Background(), "line one\nline two", interfaces.RenderOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkRenderer_SafeModeOmitsRawHTML(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{SafeMode: true})

	html, err := renderer.Render(context.Background(), "<div class=\"x\">raw</div>", interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(html), "<div class=\"x\">") {
		t.Fatalf("expected raw HTML to be omitted, got %q", string(html))
	}
}

func TestGoldmarkRenderer_HighlightsFencedCode(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{}, WithHighlighter(NewHighlighter("")))
	data := readFixture(t, "testdata/basic.md")

	html, err := renderer.Render(context.Background(), string(data), interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), `class="chroma"`) {
		t.Fatalf("expected chroma markup, got %q", string(html))
	}

	css, err := renderer.CSS()
	if err != nil {
		t.Fatalf("CSS: %v", err)
	}
	if !strings.Contains(string(css), ".chroma") {
		t.Fatalf("expected chroma stylesheet, got %q", string(css))
	}
}

func TestGoldmarkRenderer_CSSWithoutHighlighter(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{})
	css, err := renderer.CSS()
	if err != nil || css != nil {
		t.Fatalf("expected no stylesheet, got %q (%v)", css, err)
	}
}

func TestGoldmarkRenderer_RespectsCancelledContext(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := renderer.Render(ctx, "# Title", interfaces.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
