package server

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/go-chi/chi/v5"

	errs "github.com/matzehuels/conceptree/pkg/errors"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
	"github.com/matzehuels/conceptree/pkg/io"
	"github.com/matzehuels/conceptree/pkg/layout"
	"github.com/matzehuels/conceptree/pkg/pipeline"
	"github.com/matzehuels/conceptree/pkg/viewstate"
)

// resolveRequest is a bundle plus the view to resolve it for. ViewID, when
// set, takes precedence over the bundle's inline config.
type resolveRequest struct {
	io.Bundle
	ViewID          string                   `json:"view_id,omitempty"`
	PreviousDisplay *hierarchy.DisplayConfig `json:"previous_display,omitempty"`
}

// layoutRequest is a bundle plus layout and render options.
type layoutRequest struct {
	io.Bundle
	MaxWidth     int     `json:"max_width,omitempty"`
	LayerSpacing float64 `json:"layer_spacing,omitempty"`
	NodeSpacing  float64 `json:"node_spacing,omitempty"`
	Detailed     bool    `json:"detailed,omitempty"`
	KeepLayers   bool    `json:"keep_layers,omitempty"`
}

type viewResponse struct {
	*viewstate.View
	Config hierarchy.Config `json:"config"`
}

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid JSON")
	}
	return nil
}

func input(b *io.Bundle) (pipeline.Input, error) {
	if len(b.Concepts) == 0 {
		return pipeline.Input{}, errs.New(errs.ErrCodeInvalidInput, "bundle has no concepts")
	}
	return pipeline.Input{
		Concepts:       b.Concepts,
		Edges:          b.Edges,
		Categories:     b.Categories(),
		HighlightPaths: b.HighlightPaths,
	}, nil
}

// GET /healthz
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /v1/resolve
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := input(&req.Bundle)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg := hierarchy.DefaultConfig()
	switch {
	case req.ViewID != "":
		if cfg, err = s.views.Config(r.Context(), req.ViewID); err != nil {
			s.writeError(w, r, err)
			return
		}
	case req.Config != nil:
		cfg = req.Config.Clone()
	}
	if cfg.MaxRows == 0 {
		cfg.MaxRows = s.Settings().Resolve.MaxRows
	}

	res, err := s.runner.Execute(r.Context(), in, pipeline.Options{
		Config:          cfg,
		PreviousDisplay: req.PreviousDisplay,
		SkipLayout:      true,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, io.Result{
		Rows:          res.Resolution.Rows,
		DisplayConfig: res.DisplayConfig,
		Config:        res.Config,
	})
}

// POST /v1/layout[?format=svg|png|dot|json]
//
// Without format the layout itself is returned; with format the drawing is
// returned raw with the matching content type.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" {
		if err := pipeline.ValidateFormat(format); err != nil {
			s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "format"))
			return
		}
	}

	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := input(&req.Bundle)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	settings := s.Settings().Layout
	opts := pipeline.Options{
		MaxWidth:     firstNonZero(req.MaxWidth, settings.MaxWidth),
		LayerSpacing: firstNonZero(req.LayerSpacing, settings.LayerSpacing),
		NodeSpacing:  firstNonZero(req.NodeSpacing, settings.NodeSpacing),
		Detailed:     req.Detailed,
		KeepLayers:   req.KeepLayers,
	}
	if format != "" {
		opts.Formats = []string{format}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "options"))
		return
	}

	l, _, err := s.runner.Layout(r.Context(), in, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if format == "" {
		writeJSON(w, http.StatusOK, l)
		return
	}
	s.writeArtifact(w, r, l, opts, format)
}

func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, l *layout.Layout, opts pipeline.Options, format string) {
	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// POST /v1/views
func (s *Server) createView(w http.ResponseWriter, r *http.Request) {
	var cfg hierarchy.Config
	if err := decode(w, r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.views.Create(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/views/"+v.ID)
	writeJSON(w, http.StatusCreated, viewResponse{View: v, Config: v.Config()})
}

// GET /v1/views/{id}
func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	v, err := s.views.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{View: v, Config: v.Config()})
}

// PUT /v1/views/{id}
func (s *Server) putView(w http.ResponseWriter, r *http.Request) {
	var cfg hierarchy.Config
	if err := decode(w, r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	v, err := s.views.Put(r.Context(), chi.URLParam(r, "id"), cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{View: v, Config: v.Config()})
}

// DELETE /v1/views/{id}
func (s *Server) deleteView(w http.ResponseWriter, r *http.Request) {
	if err := s.views.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func firstNonZero[T int | float64](vals ...T) T {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
