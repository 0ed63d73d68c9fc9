// Package server exposes the layout pipeline over HTTP.
//
// Endpoints:
//
//	GET  /healthz     liveness and build information
//	POST /v1/layout   pack items and return the layout plus the viewport state
//	POST /v1/visible  return only the viewport state for an offset or target
//	POST /v1/render   render artifacts; a single format is returned raw
//
// Every POST body is a JSON [pipeline.Options]. Fields left out fall back to
// the server's defaults, which come from the config file. An explicit
// "count": 0 or "inset": 0 is kept as sent.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowgrid/pkg/buildinfo"
	"github.com/matzehuels/flowgrid/pkg/cache"
	"github.com/matzehuels/flowgrid/pkg/errors"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	// Defaults fills request fields the client left out.
	Defaults pipeline.Options
	// RequestTimeout bounds each request. Zero disables the timeout.
	RequestTimeout time.Duration
}

// Server handles HTTP requests against a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
}

// New creates a server. The runner's cache is shared by all requests.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger, opts: opts}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/layout", s.handleLayout)
		r.Post("/visible", s.handleVisible)
		r.Post("/render", s.handleRender)
	})
	return r
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

type layoutResponse struct {
	RequestID  string         `json:"request_id"`
	LayoutHash string         `json:"layout_hash"`
	Cached     bool           `json:"cached"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Layout     any            `json:"layout"`
	View       pipeline.View  `json:"view"`
	Stats      map[string]int `json:"stats"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	layout, hit, err := s.runner.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := pipeline.ComputeView(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := pipeline.MarshalLayout(layout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	width, height := layout.Size()
	writeJSON(w, http.StatusOK, layoutResponse{
		RequestID:  RequestIDFrom(ctx),
		LayoutHash: cache.Hash(data),
		Cached:     hit,
		Width:      width,
		Height:     height,
		Layout:     json.RawMessage(data),
		View:       view,
		Stats: map[string]int{
			"items":       layout.Len(),
			"unplaceable": len(layout.Unplaceable()),
		},
	})
}

func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	view, err := pipeline.ComputeView(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type renderResponse struct {
	RequestID string            `json:"request_id"`
	Cached    bool              `json:"cached"`
	Artifacts map[string][]byte `json:"artifacts"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, ok := s.decode(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	layout, _, err := s.runner.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := pipeline.ComputeView(opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, hit, err := s.runner.RenderWithCacheInfo(ctx, layout, view, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if len(opts.Formats) == 1 {
		format := opts.Formats[0]
		w.Header().Set("Content-Type", contentTypes[format])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifacts[format])
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{
		RequestID: RequestIDFrom(ctx),
		Cached:    hit,
		Artifacts: artifacts,
	})
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// =============================================================================
// Request and Response Helpers
// =============================================================================

// decode reads the request options, fills server defaults and validates.
// On failure it has already written the error response.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (pipeline.Options, bool) {
	var opts pipeline.Options
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request"))
		return opts, false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return opts, false
	}
	var sent presentFields
	if err := json.Unmarshal(body, &sent); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return opts, false
	}

	opts = s.withDefaults(opts, sent)
	opts.Logger = s.logger.With("request_id", RequestIDFrom(r.Context()))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return opts, false
	}
	return opts, true
}

// presentFields records which fields whose zero value is meaningful were
// actually in the request body.
type presentFields struct {
	Count *int `json:"count"`
	Inset *int `json:"inset"`
}

func (s *Server) withDefaults(o pipeline.Options, sent presentFields) pipeline.Options {
	d := s.opts.Defaults
	if o.Tracks == 0 {
		o.Tracks = d.Tracks
	}
	if o.Orientation == "" {
		o.Orientation = d.Orientation
	}
	if sent.Inset == nil {
		o.Inset = d.Inset
	}
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if sent.Count == nil {
		o.Count = d.Count
	}
	if len(o.Sizes) == 0 && o.DefaultSize == nil {
		o.Policy = d.Policy
	}
	return o
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsClientError(err), errors.Is(err, errors.ErrCodeUnplaceable):
		status = http.StatusBadRequest
	case r.Context().Err() == context.DeadlineExceeded:
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
