package posts

import (
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type datedPost struct {
	post  interfaces.Post
	when  time.Time
	valid bool
}

// SortByDate orders posts by their date metadata, newest first. The sort is
// stable. Posts whose date is missing or cannot be parsed sort after every
// dated post and keep their relative order. A nil location means UTC.
func SortByDate(posts []interfaces.Post, loc *time.Location) {
	if len(posts) < 2 {
		return
	}
	if loc == nil {
		loc = time.UTC
	}

	dated := make([]datedPost, len(posts))
	for i, post := range posts {
		when, ok := ParseDate(post.Date, loc)
		dated[i] = datedPost{post: post, when: when, valid: ok}
	}

	slices.SortStableFunc(dated, compareDated)

	for i := range dated {
		posts[i] = dated[i].post
	}
}

// ParseDate interprets a front matter date. Accepted layouts are the ones
// dateparse recognises, e.g. "2024-06-15", "June 15, 2024" or RFC 3339.
// Slash dates are read month first, so "01/02/2024" is January 2.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	when, err := dateparse.ParseIn(trimmed, loc)
	if err != nil {
		return time.Time{}, false
	}
	return when, true
}

func compareDated(a, b datedPost) int {
	switch {
	case a.valid && b.valid:
		return b.when.Compare(a.when)
	case a.valid:
		return -1
	case b.valid:
		return 1
	default:
		return 0
	}
}
