package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driving"
	"github.com/custodia-labs/quickfind/internal/logger"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest = "bad_request"
	codeNotFound   = "not_found"
	codeInternal   = "internal_error"
)

// maxLimit caps the per-category page size a client may request.
const maxLimit = 100

// Ports aggregates the driving ports required by the HTTP server.
type Ports struct {
	// Lookup answers one-shot category searches.
	Lookup driving.Lookup

	// Catalog reads stored items. Optional; counts and item routes are omitted without it.
	Catalog driving.Catalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Lookup == nil {
		return ErrMissingLookup
	}
	return nil
}

// Server is the quickfind HTTP API.
type Server struct {
	ports  *Ports
	router chi.Router
}

// NewServer builds the router. When registry is non-nil, request metrics are
// recorded on it and it is exposed at /metrics.
func NewServer(ports *Ports, registry *prometheus.Registry) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(jsonRecoverer)
	r.Use(requestLogger)
	if registry != nil {
		r.Use(newRequestMetrics(registry).middleware)
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Get("/search", s.handleSearch)
		r.Get("/items/{category}/{id}", s.handleItem)
	})

	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown: %v", err)
		}
	}()

	logger.Info("http server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CategoryResponse describes one searchable category.
type CategoryResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count *int   `json:"count,omitempty"`
}

// SearchResponse is the body of /api/v1/search.
type SearchResponse struct {
	Query      string            `json:"query"`
	Categories []SectionResponse `json:"categories"`
}

// SectionResponse is one category's share of a search.
type SectionResponse struct {
	Category string        `json:"category"`
	Status   string        `json:"status"`
	Items    []domain.Item `json:"items"`
	HasMore  bool          `json:"has_more"`
	Error    string        `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories := domain.Categories()
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CategoryResponse{ID: c.String(), Label: c.Label()}
		if s.ports.Catalog == nil {
			continue
		}
		n, err := s.ports.Catalog.Count(r.Context(), c)
		if err != nil {
			logger.Error("counting %s: %v", c, err)
			writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
			return
		}
		out[i].Count = &n
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := domain.NewSearchQuery(params.Get("q"), domain.CategoryAll, 0)
	if query.IsEmpty() {
		writeError(w, http.StatusBadRequest, codeBadRequest, "q is required")
		return
	}

	category, err := domain.ParseCategory(params.Get("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	limit, err := intParam(params.Get("limit"), 0, maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "limit: "+err.Error())
		return
	}
	offset, err := intParam(params.Get("offset"), 0, -1)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "offset: "+err.Error())
		return
	}

	query = domain.NewSearchQuery(query.Text, category, offset)
	state := s.ports.Lookup.Lookup(r.Context(), query, limit)

	resp := SearchResponse{Query: query.Normalized()}
	for _, st := range state.Ordered(domain.ViewCategories(category)) {
		section := SectionResponse{
			Category: st.Category.String(),
			Status:   st.Status.String(),
			Items:    st.Items,
			HasMore:  st.HasMore,
		}
		if section.Items == nil {
			section.Items = []domain.Item{}
		}
		if st.Err != nil {
			section.Error = st.Err.Error()
		}
		resp.Categories = append(resp.Categories, section)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	if s.ports.Catalog == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "item lookup unavailable")
		return
	}

	category := domain.Category(chi.URLParam(r, "category"))
	if !category.IsValid() {
		writeError(w, http.StatusBadRequest, codeBadRequest, domain.ErrUnknownCategory.Error())
		return
	}

	item, err := s.ports.Catalog.Get(r.Context(), category, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "item not found")
	case err != nil:
		logger.Error("getting item: %v", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	default:
		writeJSON(w, http.StatusOK, item)
	}
}

// intParam parses a non-negative integer query parameter. Empty means zero.
// A negative upper bound disables the cap.
func intParam(raw string, lower, upper int) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	if n < lower || (upper >= 0 && n > upper) {
		return 0, errors.New("out of range")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
