package http

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type postSummary struct {
	Slug     string              `json:"slug"`
	Title    string              `json:"title,omitempty"`
	Date     string              `json:"date,omitempty"`
	Excerpt  string              `json:"excerpt,omitempty"`
	Metadata interfaces.Metadata `json:"metadata,omitempty"`
}

type listResponse struct {
	Posts  []postSummary `json:"posts"`
	Failed []string      `json:"failed,omitempty"`
}

type postResponse struct {
	interfaces.Post
	HTML string `json:"html"`
}

func (s *Server) listPage(w http.ResponseWriter, r *http.Request) {
	listing, err := s.listings.Get(r.Context())
	if err != nil {
		s.abandoned(w, r, err)
		return
	}
	if err := s.views.render(w, http.StatusOK, viewList, listView{Posts: listing.Posts}); err != nil {
		s.logger.Error("http.view.failed", "view", viewList, "error", err)
	}
}

func (s *Server) detailPage(w http.ResponseWriter, r *http.Request) {
	post, ok := s.loader.Get(r.Context(), chi.URLParam(r, "slug"))
	if !ok {
		if err := s.views.render(w, http.StatusNotFound, viewNotFound, nil); err != nil {
			s.logger.Error("http.view.failed", "view", viewNotFound, "error", err)
		}
		return
	}

	body, err := s.renderer.Render(r.Context(), post.Content, interfaces.RenderOptions{})
	if err != nil {
		s.logger.Error("http.render.failed", "slug", post.Slug, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	data := detailView{Post: post, Body: template.HTML(body)}
	if err := s.views.render(w, http.StatusOK, viewDetail, data); err != nil {
		s.logger.Error("http.view.failed", "view", viewDetail, "error", err)
	}
}

func (s *Server) listJSON(w http.ResponseWriter, r *http.Request) {
	listing, err := s.listings.Get(r.Context())
	if err != nil {
		s.abandoned(w, r, err)
		return
	}

	resp := listResponse{Posts: make([]postSummary, 0, len(listing.Posts))}
	for _, post := range listing.Posts {
		resp.Posts = append(resp.Posts, postSummary{
			Slug:     post.Slug,
			Title:    post.Title,
			Date:     post.Date,
			Excerpt:  post.Excerpt,
			Metadata: post.Metadata,
		})
	}
	for _, failed := range listing.Failed() {
		resp.Failed = append(resp.Failed, failed.Filename)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) postJSON(w http.ResponseWriter, r *http.Request) {
	post, ok := s.loader.Get(r.Context(), chi.URLParam(r, "slug"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "post not found")
		return
	}

	body, err := s.renderer.Render(r.Context(), post.Content, interfaces.RenderOptions{})
	if err != nil {
		s.logger.Error("http.render.failed", "slug", post.Slug, "error", err)
		writeError(w, http.StatusInternalServerError, "render_failed", "post could not be rendered")
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Post: *post, HTML: string(body)})
}

func (s *Server) highlightCSS(w http.ResponseWriter, r *http.Request) {
	if s.styleSheet == nil {
		http.NotFound(w, r)
		return
	}
	css, err := s.styleSheet.CSS()
	if err != nil {
		s.logger.Error("http.stylesheet.failed", "error", err)
		http.Error(w, "stylesheet unavailable", http.StatusInternalServerError)
		return
	}
	if css == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(css)
}

// abandoned handles a request whose context ended while waiting for the
// listing. The shared batch keeps running for other callers.
func (s *Server) abandoned(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Debug("http.listing.abandoned", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
}
