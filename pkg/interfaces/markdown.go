package interfaces

import "context"

// MarkdownRenderer converts a post's raw content into HTML. Implementations
// strip the front matter block before rendering.
type MarkdownRenderer interface {
	Render(ctx context.Context, content string, opts RenderOptions) ([]byte, error)
}

// RenderOptions customises Markdown rendering, keeping option names readable
// for configuration unmarshalling and CLI flags.
type RenderOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}
