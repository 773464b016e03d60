package postscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	warmPostsMessageType  = "blog.posts.warm"
	renderPostMessageType = "blog.posts.render"
)

// WarmPostsCommand primes the shared post listing so the first visitor does
// not wait for the fetch batch.
type WarmPostsCommand struct{}

// Type implements command.Message.
func (WarmPostsCommand) Type() string { return warmPostsMessageType }

// Validate implements command.Message.
func (WarmPostsCommand) Validate() error { return nil }

// RenderResult receives the output of a RenderPostCommand.
type RenderResult struct {
	Post *interfaces.Post
	HTML []byte
}

// RenderPostCommand loads a single post by slug and renders its body to HTML.
// The handler writes the outcome into Result.
type RenderPostCommand struct {
	// Slug names the post file without its extension.
	Slug string `json:"slug"`
	// Options overrides the renderer defaults when set.
	Options *interfaces.RenderOptions `json:"options,omitempty"`
	// Result is filled in on success.
	Result *RenderResult `json:"-"`
}

// Type implements command.Message.
func (RenderPostCommand) Type() string { return renderPostMessageType }

// Validate rejects empty slugs and slugs that could leave the posts folder.
func (cmd RenderPostCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slug, validation.Required, validation.By(validateSlug)),
		validation.Field(&cmd.Result, validation.NotNil),
	)
}

func validateSlug(value any) error {
	slug, _ := value.(string)
	trimmed := strings.TrimSpace(slug)
	switch {
	case trimmed == "":
		return validation.NewError("blog.posts.render.slug_required", "slug is required")
	case strings.ContainsAny(trimmed, `/\`):
		return validation.NewError("blog.posts.render.slug_separator", "slug must not contain path separators")
	case strings.Contains(trimmed, ".."):
		return validation.NewError("blog.posts.render.slug_traversal", "slug must not contain '..'")
	}
	return nil
}
