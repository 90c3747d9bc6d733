package server

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/floorplan/pkg/buildinfo"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/dsl"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/pipeline"
	"github.com/matzehuels/floorplan/pkg/plan"
	"github.com/matzehuels/floorplan/pkg/session"
)

// =============================================================================
// Static resources and health
// =============================================================================

// handlePresets publishes the catalogue the engine is using, which is the
// built-in table when no catalogue could be loaded.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	cat := s.runner.Catalog.Get(r.Context())
	doc := cat.Document()
	if doc == nil {
		doc = catalog.FallbackDocument()
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("ETag", strconv.Quote(cat.Digest()))
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady waits for the catalogue so that the first generate call does
// not pay for the load.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	cat := s.runner.Catalog.Get(r.Context())
	if err := r.Context().Err(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ready",
		"catalog":         cat.Source(),
		"catalog_version": cat.Version(),
		"fallback":        cat.IsFallback(),
	})
}

// =============================================================================
// Stateless generation
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || format == pipeline.FormatJSON {
		res, err := s.runner.Generate(r.Context(), req, pipeline.Options{})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	opts, err := renderOptions(r, format)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := s.runner.Execute(r.Context(), req, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeArtifact(w, format, out.Artifacts[format])
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Validate(r.Context(), req))
}

// =============================================================================
// Sessions
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readRequest(w, r)
	if !ok {
		return
	}
	res, err := s.runner.Generate(r.Context(), req, pipeline.Options{})
	if err != nil {
		writeError(w, err)
		return
	}
	sess := session.New(req, res, s.ttl)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID, "rooms", len(res.Rooms))
	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePatchRoom(w http.ResponseWriter, r *http.Request) {
	var patch session.Patch
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&patch); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid patch body"))
		return
	}
	if patch.Empty() {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "patch must set at least one of x, y, w, h"))
		return
	}

	roomID := chi.URLParam(r, "roomID")
	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		_, err := sess.ApplyOverride(roomID, patch)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	gen := func(ctx context.Context, req plan.Request) (*plan.Result, error) {
		return s.runner.Generate(ctx, req, pipeline.Options{})
	}
	sess, err := s.sessions.Update(r.Context(), chi.URLParam(r, "id"), func(sess *session.Session) error {
		return sess.Regenerate(r.Context(), gen)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleRenderSession(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := renderOptions(r, format)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), sess.Result, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

// readRequest decodes, defaults and validates a generation request. On
// failure the error response has been written.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (plan.Request, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return plan.Request{}, false
	}
	req, err := dsl.Decode(data, bodyFormat(r))
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
		}
		writeError(w, err)
		return plan.Request{}, false
	}
	if s.defaults != nil {
		s.defaults(&req)
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return plan.Request{}, false
	}
	return req, true
}

func bodyFormat(r *http.Request) string {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "text/x-floorplan", "text/plain":
		return dsl.FormatPlan
	case "application/toml":
		return plan.FormatTOML
	case "application/yaml", "application/x-yaml", "text/yaml":
		return plan.FormatYAML
	}
	return plan.FormatJSON
}

// renderOptions reads scale, labels and doors from the query string.
func renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	if err := pipeline.ValidateFormat(format); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unsupported format %q", format)
	}
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:    []string{format},
		ShowLabels: queryBool(q.Get("labels"), true),
		ShowDoors:  queryBool(q.Get("doors"), true),
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale < 0 {
			return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "scale must be a non-negative number, got %q", v)
		}
		opts.Scale = scale
	}
	return opts, nil
}

func queryBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Write(data)
}

// errorBody is the JSON error payload.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch {
	case code.NotFound():
		return http.StatusNotFound
	case code.Invalid():
		return http.StatusBadRequest
	}
	switch code {
	case errors.ErrCodeOverlap:
		return http.StatusConflict
	case errors.ErrCodeOutOfBounds:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
