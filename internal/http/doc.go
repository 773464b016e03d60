// Package http serves the blog over HTTP.
//
// Routes:
//   - GET /                       post list
//   - GET /post/{slug}            rendered post, or a 404 "post not found" page
//   - GET /posts/*                raw Markdown files from the public directory
//   - GET /assets/highlight.css   code highlighting stylesheet
//   - GET /api/posts              listing as JSON
//   - GET /api/posts/{slug}       single post with rendered HTML as JSON
//   - GET /healthz                liveness probe
package http
