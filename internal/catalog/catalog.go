// Package catalog lists the post files available to the loader.
package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultPattern matches Markdown post files.
const DefaultPattern = "*.md"

// FS lists the files directly inside dir that match a glob pattern. Nested
// directories are not walked.
type FS struct {
	fsys    fs.FS
	dir     string
	pattern string
}

var _ interfaces.PostCatalog = (*FS)(nil)

// FSOption configures an FS catalog.
type FSOption func(*FS)

// WithPattern overrides the filename glob, e.g. "*.markdown".
func WithPattern(pattern string) FSOption {
	return func(c *FS) {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			c.pattern = trimmed
		}
	}
}

// NewFS returns a catalog over fsys/dir.
func NewFS(fsys fs.FS, dir string, opts ...FSOption) *FS {
	c := &FS{
		fsys:    fsys,
		dir:     path.Clean(strings.TrimSpace(dir)),
		pattern: DefaultPattern,
	}
	if c.dir == "" {
		c.dir = "."
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Filenames returns the matching names in lexical order.
func (c *FS) Filenames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(c.fsys, c.dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", c.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := path.Match(c.pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("catalog: pattern %q: %w", c.pattern, err)
		}
		if matched {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Static is a fixed list of filenames, typically produced at build time.
type Static []string

var _ interfaces.PostCatalog = Static(nil)

// Filenames returns a copy of the list in its declared order.
func (s Static) Filenames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone([]string(s)), nil
}
