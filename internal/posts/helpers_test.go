package posts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
	fields  []map[string]any
}

func (r *recordingLogger) record(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level: level, msg: msg, args: args})
}

func (r *recordingLogger) Trace(msg string, args ...any) { r.record("trace", msg, args) }
func (r *recordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *recordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }
func (r *recordingLogger) Fatal(msg string, args ...any) { r.record("fatal", msg, args) }

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) messages(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, entry := range r.entries {
		if entry.level == level {
			out = append(out, entry.msg)
		}
	}
	return out
}

type staticCatalog struct {
	names []string
	err   error
}

func (s staticCatalog) Filenames(context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.names...), nil
}

var errMissing = errors.New("missing")

type mapFetcher struct {
	files map[string]string
	calls atomic.Int32
}

func (m *mapFetcher) Fetch(ctx context.Context, filename string) (string, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, ok := m.files[filename]
	if !ok {
		return "", fmt.Errorf("%w: %s", errMissing, filename)
	}
	return content, nil
}

func postFile(title, date string) string {
	return "---\ntitle: " + title + "\ndate: " + date + "\n---\n\n# " + title + "\n"
}

func slugs(posts []interfaces.Post) []string {
	out := make([]string, len(posts))
	for i, post := range posts {
		out[i] = post.Slug
	}
	return out
}
