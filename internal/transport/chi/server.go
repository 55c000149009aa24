// Package chi implements the HTTP transport for the textdex API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/textdex/internal/domain"
	"github.com/kailas-cloud/textdex/internal/domain/query/filter"
	healthuc "github.com/kailas-cloud/textdex/internal/usecase/health"
	textuc "github.com/kailas-cloud/textdex/internal/usecase/text"
	"github.com/kailas-cloud/textdex/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the textdex API.
type Server struct {
	texts         *textuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(texts *textuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		texts:  texts,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrQueryNotUnderstood, http.StatusBadRequest, CodeQueryNotUnderstood),
	}
	return s
}

// Mount registers all API routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Route("/api/v1/strings", func(r chi.Router) {
		r.Post("/", s.CreateString)
		r.Get("/", s.ListStrings)
		r.Get("/search", s.SearchStrings)
		r.Get("/{value}", s.GetString)
		r.Delete("/{value}", s.DeleteString)
	})
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeRouteNotFound, "route not found")
	})
}

// CreateString handles POST /api/v1/strings.
func (s *Server) CreateString(w http.ResponseWriter, r *http.Request) {
	var req CreateStringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Value == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "value field is required")
		return
	}

	var value string
	if err := json.Unmarshal(*req.Value, &value); err != nil {
		writeError(w, http.StatusUnprocessableEntity, CodeInvalidValueType, "value must be a string")
		return
	}

	rec, err := s.texts.Create(r.Context(), value)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recordToResponse(&rec))
}

// GetString handles GET /api/v1/strings/{value}. The path segment is the
// URL-encoded original text; the digest is re-derived server side.
func (s *Server) GetString(w http.ResponseWriter, r *http.Request) {
	rec, err := s.texts.Get(r.Context(), pathValue(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordToResponse(&rec))
}

// DeleteString handles DELETE /api/v1/strings/{value}.
func (s *Server) DeleteString(w http.ResponseWriter, r *http.Request) {
	if err := s.texts.Delete(r.Context(), pathValue(r)); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListStrings handles GET /api/v1/strings with optional structured filters.
func (s *Server) ListStrings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := filter.Raw{
		IsPalindrome:      queryParam(q, "is_palindrome"),
		MinLength:         queryParam(q, "min_length"),
		MaxLength:         queryParam(q, "max_length"),
		WordCount:         queryParam(q, "word_count"),
		ContainsCharacter: queryParam(q, "contains_character"),
	}

	records, spec, err := s.texts.List(r.Context(), raw)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Data:           recordsToResponse(records),
		Count:          len(records),
		FiltersApplied: spec.Applied(),
	})
}

// SearchStrings handles GET /api/v1/strings/search?query=...
func (s *Server) SearchStrings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query parameter is required")
		return
	}

	records, cls, err := s.texts.Query(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Data:  recordsToResponse(records),
		Count: len(records),
		InterpretedQuery: InterpretedQuery{
			Original:      query,
			ParsedFilters: cls.Spec.Applied(),
		},
	})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// pathValue returns the {value} path segment. chi routes against the decoded
// URL path, so the value already arrives unescaped; decoding again would
// corrupt stored values that contain a literal percent-escape.
func pathValue(r *http.Request) string {
	return chi.URLParam(r, "value")
}

func queryParam(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// clientMessage returns a sentinel error message for the client without
// exposing internals.
func clientMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrQueryNotUnderstood,
		domain.ErrValidation,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler surfaces the field-specific message of a ValidationError.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeValidationFailed, ve.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := clientMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
