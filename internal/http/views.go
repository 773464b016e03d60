package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	viewList     = "list"
	viewDetail   = "detail"
	viewNotFound = "notfound"
	layoutName   = "layout"
)

type views map[string]*template.Template

// loadViews parses every page with the layout. withStyles controls whether
// the layout links the highlight stylesheet.
func loadViews(withStyles bool) (views, error) {
	funcs := template.FuncMap{
		"stylesheet": func() bool { return withStyles },
	}
	out := views{}
	for _, name := range []string{viewList, viewDetail, viewNotFound} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("http: parse template %s: %w", name, err)
		}
		out[name] = tmpl
	}
	return out, nil
}

type listView struct {
	Posts []interfaces.Post
}

type detailView struct {
	Post *interfaces.Post
	Body template.HTML
}

// render buffers the output so a template error still yields a clean 500.
func (v views) render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := v[name]
	if !ok {
		return fmt.Errorf("http: unknown view %s", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutName, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
