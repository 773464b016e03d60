// Package markdown holds the Markdown concerns of the blog: extracting the
// lightweight front matter header from post files and rendering post bodies
// into HTML through goldmark.
package markdown
