package postscmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	warmOperation   = "posts.warm"
	renderOperation = "posts.render"
)

// ErrPostNotFound is returned when the requested slug cannot be loaded.
var ErrPostNotFound = errors.New("posts command: post not found")

var (
	_ command.Commander[WarmPostsCommand]  = (*WarmPostsHandler)(nil)
	_ command.Commander[RenderPostCommand] = (*RenderPostHandler)(nil)
)

// ListSource yields the shared post listing. posts.ListCache satisfies it.
type ListSource interface {
	Get(ctx context.Context) (*interfaces.Listing, error)
}

// WarmPostsHandler resolves the shared listing and logs its totals.
type WarmPostsHandler struct {
	inner *commands.Handler[WarmPostsCommand]
}

// NewWarmPostsHandler binds the handler to source.
func NewWarmPostsHandler(source ListSource, logger interfaces.Logger, opts ...commands.HandlerOption[WarmPostsCommand]) *WarmPostsHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, _ WarmPostsCommand) error {
		listing, err := source.Get(ctx)
		if err != nil {
			return err
		}
		logging.WithFields(logger, map[string]any{
			"loaded": len(listing.Posts),
			"failed": len(listing.Failed()),
		}).Info("posts.command.warm.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[WarmPostsCommand]{
		commands.WithLogger[WarmPostsCommand](logger),
		commands.WithOperation[WarmPostsCommand](warmOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &WarmPostsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[WarmPostsCommand].
func (h *WarmPostsHandler) Execute(ctx context.Context, msg WarmPostsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderPostHandler loads one post and renders it.
type RenderPostHandler struct {
	inner *commands.Handler[RenderPostCommand]
}

// NewRenderPostHandler binds the handler to a loader and renderer.
func NewRenderPostHandler(loader interfaces.PostLoader, renderer interfaces.MarkdownRenderer, logger interfaces.Logger, opts ...commands.HandlerOption[RenderPostCommand]) *RenderPostHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RenderPostCommand) error {
		post, ok := loader.Get(ctx, msg.Slug)
		if !ok {
			return fmt.Errorf("%w: %s", ErrPostNotFound, msg.Slug)
		}

		var renderOpts interfaces.RenderOptions
		if msg.Options != nil {
			renderOpts = *msg.Options
		}
		html, err := renderer.Render(ctx, post.Content, renderOpts)
		if err != nil {
			return fmt.Errorf("posts command: render %s: %w", msg.Slug, err)
		}

		msg.Result.Post = post
		msg.Result.HTML = html
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderPostCommand]{
		commands.WithLogger[RenderPostCommand](logger),
		commands.WithOperation[RenderPostCommand](renderOperation),
		commands.WithMessageFields(func(msg RenderPostCommand) map[string]any {
			return map[string]any{"slug": msg.Slug}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderPostHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RenderPostCommand].
func (h *RenderPostHandler) Execute(ctx context.Context, msg RenderPostCommand) error {
	return h.inner.Execute(ctx, msg)
}
