// Package posts assembles blog post records from the raw files served in the
// public posts directory.
//
// Loader works in two modes. List fetches every file the catalog names,
// records a FileResult per file and returns the successful posts sorted by
// date, newest first. Get fetches a single post by slug and reports absence
// instead of an error when the file cannot be retrieved.
//
// ListCache wraps a loader so the list is computed at most once per process.
package posts
