package posts

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Extension is appended to a slug to obtain the post filename.
const Extension = ".md"

const (
	metaTitle   = "title"
	metaDate    = "date"
	metaExcerpt = "excerpt"
)

// SlugFromFilename strips the final extension from filename.
func SlugFromFilename(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// FilenameFromSlug returns the post file that backs slug.
func FilenameFromSlug(slug string) string {
	return slug + Extension
}

// NewPost builds a post record from a filename and the raw file text. The
// slug and content are derived from the inputs and are never taken from the
// front matter, even when it declares keys with those names.
func NewPost(filename, content string) interfaces.Post {
	meta := markdown.ExtractMetadata(content)
	return interfaces.Post{
		Slug:     SlugFromFilename(filename),
		Title:    meta[metaTitle],
		Date:     meta[metaDate],
		Excerpt:  meta[metaExcerpt],
		Content:  content,
		Metadata: meta,
	}
}
