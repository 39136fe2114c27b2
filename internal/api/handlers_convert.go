package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/contentgen/internal/cleaner"
	"github.com/dgallion1/contentgen/internal/generate"
	"github.com/dgallion1/contentgen/internal/parser"
	"github.com/dgallion1/contentgen/internal/pipeline"
	"github.com/dgallion1/contentgen/internal/render"
)

// upload is a parsed multipart conversion request.
type upload struct {
	filename string
	data     []byte
	opts     generate.Options
}

// handleConvert converts an upload synchronously and returns the result.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	kind, err := generate.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(kind, up.filename, up.data, up.opts)
	s.orchestrator.Run(r.Context(), job)
	if err := job.Err(); err != nil {
		jsonError(w, err.Error(), errorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"job":    job.Snapshot(),
		"result": job.Result(),
	})
}

// handleSubmitJob queues an upload for background conversion.
func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	kind, err := generate.ParseKind(r.FormValue("kind"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(kind, up.filename, up.data, up.opts)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":     job.ID,
		"status":     pipeline.StatusQueued,
		"poll_url":   fmt.Sprintf("/api/jobs/%s", job.ID),
		"result_url": fmt.Sprintf("/api/jobs/%s/result", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// handleJobResult returns the generated result. With ?section=<key> it
// returns that section alone as text/html.
func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
	case pipeline.StatusFailed:
		jsonError(w, strings.Join(snap.Errors, "; "), errorStatus(job.Err()))
		return
	default:
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return
	}

	res := job.Result()
	name := r.URL.Query().Get("section")
	if name == "" {
		writeJSON(w, http.StatusOK, res)
		return
	}
	body, ok := res.Sections[name]
	if !ok {
		jsonError(w, fmt.Sprintf("no section %q", name), http.StatusNotFound)
		return
	}
	ctype := "text/html; charset=utf-8"
	if name == generate.SectionMarkdown {
		ctype = "text/markdown; charset=utf-8"
	}
	w.Header().Set("Content-Type", ctype)
	io.WriteString(w, body)
}

// readUpload parses the multipart form: a "file" part plus optional title,
// markdown, image_url (repeatable), featured_url, featured_alt,
// featured_title and clean_options (JSON) fields. It writes the error
// response itself and reports whether the request may proceed.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusUnsupportedMediaType)
		return upload{}, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return upload{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return upload{}, false
	}

	opts := generate.Options{
		CourseTitle: strings.TrimSpace(r.FormValue("title")),
		Images: render.Images{
			FeaturedURL:   strings.TrimSpace(r.FormValue("featured_url")),
			FeaturedAlt:   r.FormValue("featured_alt"),
			FeaturedTitle: r.FormValue("featured_title"),
			URLs:          r.MultipartForm.Value["image_url"],
		},
	}
	if v := r.FormValue("markdown"); v != "" {
		md, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, "markdown must be a boolean", http.StatusBadRequest)
			return upload{}, false
		}
		opts.Markdown = md
	}
	if v := r.FormValue("clean_options"); v != "" {
		var co cleaner.Options
		if err := json.Unmarshal([]byte(v), &co); err != nil {
			jsonError(w, "invalid clean_options: "+err.Error(), http.StatusBadRequest)
			return upload{}, false
		}
		opts.Clean = &co
	}
	if err := s.validator.Validate(opts.Images); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return upload{}, false
	}

	return upload{filename: filename, data: data, opts: opts}, true
}

// errorStatus maps generation failures to HTTP status codes.
func errorStatus(err error) int {
	var verr *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, parser.ErrUnsupported):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, generate.ErrUnknownKind), errors.Is(err, generate.ErrMissingTitle), errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		// Empty or unreadable documents.
		return http.StatusUnprocessableEntity
	}
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
