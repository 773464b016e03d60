package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const sourceFS = "fs"

// FS reads post files from dir inside a filesystem, typically os.DirFS of
// the public directory or an embedded FS.
type FS struct {
	fsys     fs.FS
	dir      string
	observer Observer
}

var _ interfaces.PostFetcher = (*FS)(nil)

// FSOption configures an FS fetcher.
type FSOption func(*FS)

// WithDir overrides the posts directory inside the filesystem.
func WithDir(dir string) FSOption {
	return func(f *FS) {
		f.dir = path.Clean(dir)
	}
}

// WithFSObserver reports every fetch outcome to observer.
func WithFSObserver(observer Observer) FSOption {
	return func(f *FS) {
		if observer != nil {
			f.observer = observer
		}
	}
}

// NewFS returns a fetcher reading from fsys/posts.
func NewFS(fsys fs.FS, opts ...FSOption) *FS {
	f := &FS{
		fsys:     fsys,
		dir:      PostsDir,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the raw text of filename.
func (f *FS) Fetch(ctx context.Context, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validateFilename(filename); err != nil {
		return "", fmt.Errorf("%w: %q", err, filename)
	}

	started := time.Now()
	name := path.Join(f.dir, filename)

	data, err := fs.ReadFile(f.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("%w: %s", ErrNotFound, name)
	} else if err != nil {
		err = fmt.Errorf("fetch: read %s: %w", name, err)
	}

	f.observer.ObserveFetch(sourceFS, outcomeOf(err), time.Since(started))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
