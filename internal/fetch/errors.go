package fetch

import (
	"errors"
	"path"
	"strings"
	"time"
)

var (
	// ErrNotFound reports that the post file does not exist.
	ErrNotFound = errors.New("fetch: post not found")
	// ErrStatus reports a non-success HTTP status other than 404.
	ErrStatus = errors.New("fetch: unexpected status")
	// ErrInvalidFilename rejects names that are empty or try to leave the posts directory.
	ErrInvalidFilename = errors.New("fetch: invalid filename")
)

// PostsDir is the directory, relative to the public root, holding post files.
const PostsDir = "posts"

// Outcome labels reported to an Observer.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Observer receives one notification per completed fetch.
type Observer interface {
	ObserveFetch(source, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveFetch(string, string, time.Duration) {}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

func validateFilename(filename string) error {
	name := strings.TrimSpace(filename)
	if name == "" || name == "." || name == ".." {
		return ErrInvalidFilename
	}
	if strings.ContainsAny(name, `/\`) || path.Base(name) != name {
		return ErrInvalidFilename
	}
	return nil
}
