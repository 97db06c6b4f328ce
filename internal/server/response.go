package server

import (
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/conceptree/pkg/cache"
	errs "github.com/matzehuels/conceptree/pkg/errors"
	"github.com/matzehuels/conceptree/pkg/observability"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Code    errs.Code `json:"code,omitempty"`
	Message string    `json:"message"`
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error apiError `json:"error"`
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	if errors.Is(err, cache.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return http.StatusRequestEntityTooLarge
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errs.ErrCodeDuplicateConcept, errs.ErrCodeDanglingEdge, errs.ErrCodeInvalidEdge,
		errs.ErrCodeCycleDetected, errs.ErrCodeTooLarge:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	code := errs.GetCode(err)
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
		if code == "" {
			code = errs.ErrCodeInternal
		}
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: msg}})
}

// observe reports every request to the server hooks under its route pattern,
// so that path parameters do not explode metric cardinality.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.Server().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", d)
	})
}
