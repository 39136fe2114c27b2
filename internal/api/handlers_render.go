package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/contentgen/internal/blog"
	"github.com/dgallion1/contentgen/internal/cleaner"
	"github.com/dgallion1/contentgen/internal/doctree"
	"github.com/dgallion1/contentgen/internal/generate"
	"github.com/dgallion1/contentgen/internal/render"
)

// renderBlogRequest re-renders an extracted blog with user-supplied image
// URLs, usually the model returned by an earlier blog conversion.
type renderBlogRequest struct {
	Blog     blog.Blog     `json:"blog"`
	Images   render.Images `json:"images"`
	Markdown bool          `json:"markdown"`
}

type cleanRequest struct {
	HTML    string           `json:"html" validate:"required"`
	Options *cleaner.Options `json:"options,omitempty"`
}

func (s *Server) handleRenderBlog(w http.ResponseWriter, r *http.Request) {
	var req renderBlogRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if len(req.Blog.Blocks) == 0 && req.Blog.Title == "" {
		jsonError(w, "blog has no title or blocks", http.StatusBadRequest)
		return
	}

	res, err := s.orchestrator.Generator().RenderBlog(req.Blog, req.Images, req.Markdown, nil)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	var req cleanRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	res, err := s.orchestrator.Generator().Generate(generate.KindClean,
		&doctree.Source{HTML: req.HTML}, generate.Options{Clean: req.Options})
	if err != nil {
		jsonError(w, err.Error(), errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decodeJSON reads a size-limited JSON body into v and validates it. It
// writes the error response itself on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := s.validator.Validate(v); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
