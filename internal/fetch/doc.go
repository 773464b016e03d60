// Package fetch retrieves raw post files. HTTP reads them from the public
// base URL the blog is served from; FS reads them from any fs.FS.
package fetch
