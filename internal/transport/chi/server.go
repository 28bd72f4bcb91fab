// Package chi is the HTTP serving layer over the analysis core.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/answer"
	"github.com/bayoudata/houston-intel/internal/repository/knowledge"
	analyzeuc "github.com/bayoudata/houston-intel/internal/usecase/analyze"
	healthuc "github.com/bayoudata/houston-intel/internal/usecase/health"
	searchuc "github.com/bayoudata/houston-intel/internal/usecase/search"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest      = "bad_request"
	codeUnknownDomain   = "unknown_domain"
	codeNoKnowledgeBase = "no_knowledge_base"
)

// ResponseCache is the optional synthesized-response cache.
type ResponseCache interface {
	Get(ctx context.Context, queryText string) (answer.Response, error)
	Set(ctx context.Context, queryText string, resp answer.Response) error
}

// Server holds the HTTP handlers.
type Server struct {
	analyzer *analyzeuc.Service
	searcher *searchuc.Service
	store    *knowledge.Store
	cache    ResponseCache
	health   *healthuc.Service
	logger   *zap.Logger
	maxTopK  int
	topK     int
}

// NewServer creates the HTTP API server. cache may be nil.
func NewServer(
	analyzer *analyzeuc.Service,
	searcher *searchuc.Service,
	store *knowledge.Store,
	cache ResponseCache,
	health *healthuc.Service,
	logger *zap.Logger,
	defaultTopK, maxTopK int,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		analyzer: analyzer,
		searcher: searcher,
		store:    store,
		cache:    cache,
		health:   health,
		logger:   logger,
		topK:     defaultTopK,
		maxTopK:  maxTopK,
	}
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Get("/search", s.handleSearch)
		r.Get("/domains", s.handleListDomains)
		r.Get("/domains/{domain}", s.handleDomainStatus)
		r.Post("/domains/{domain}/reload", s.handleReload)
	})
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	ID     string          `json:"id"`
	Cached bool            `json:"cached"`
	Result answer.Response `json:"result"`
}

// handleQuery runs the full analysis pipeline, serving from the response
// cache when possible. Low-confidence answers are still HTTP 200; the body
// carries the confidence.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query is required")
		return
	}

	ctx := r.Context()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, req.Query); err == nil {
			writeJSON(w, http.StatusOK, queryResponse{
				ID: uuid.NewString(), Cached: true, Result: cached,
			})
			return
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("response cache unavailable", zap.Error(err))
		}
	}

	result := s.analyzer.Analyze(ctx, req.Query)

	if s.cache != nil {
		if err := s.cache.Set(ctx, req.Query, result); err != nil {
			s.logger.Warn("response cache store failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, queryResponse{ID: uuid.NewString(), Cached: false, Result: result})
}

type searchHit struct {
	Domain   string   `json:"domain"`
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Location string   `json:"location,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Score    float64  `json:"score"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
	Total   int         `json:"total"`
}

// handleSearch serves ranked search plus the location and category
// filters: ?domain=&q= ranks, ?location= or ?category= filter instead.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	domainName := q.Get("domain")
	if domainName != "" && !domain.IsDomain(domainName) {
		writeError(w, http.StatusNotFound, codeUnknownDomain, "unknown domain "+domainName)
		return
	}

	topK := s.topK
	if raw := q.Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "top_k must be a non-negative integer")
			return
		}
		topK = n
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}

	ctx := r.Context()
	var results []searchuc.Result
	switch {
	case q.Get("location") != "":
		results = s.searcher.ByLocation(ctx, domainName, q.Get("location"), topK)
	case q.Get("category") != "":
		results = s.searcher.ByCategory(ctx, q.Get("category"), domainName, topK)
	case q.Get("q") != "":
		if domainName == "" {
			writeError(w, http.StatusBadRequest, codeBadRequest, "domain is required for ranked search")
			return
		}
		results = s.searcher.Search(ctx, domainName, q.Get("q"), topK)
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "one of q, location, category is required")
		return
	}

	hits := make([]searchHit, 0, len(results))
	for i := range results {
		rec := &results[i].Record
		hits = append(hits, searchHit{
			Domain:   results[i].Domain,
			ID:       rec.ID(),
			Title:    rec.Title(),
			Summary:  rec.Summary(),
			Location: rec.Location(),
			Category: rec.Category(),
			Tags:     rec.Tags(),
			Score:    results[i].Score,
		})
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: hits, Total: len(hits)})
}

type domainStatusItem struct {
	Domain    string `json:"domain"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	knowledge.Status
}

// handleListDomains reports the loaded state of every configured domain.
// Domains without a knowledge base are listed as unavailable rather than
// omitted, so callers can tell "no data yet" from "no matches".
func (s *Server) handleListDomains(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items := make([]domainStatusItem, 0, len(s.store.Domains()))
	for _, d := range s.store.Domains() {
		st, err := s.store.Status(ctx, d)
		item := domainStatusItem{Domain: d, Label: domain.DomainLabel(d), Available: err == nil, Status: st}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"domains": items})
}

func (s *Server) handleDomainStatus(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")
	st, err := s.store.Status(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err, name)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleReload forces a fresh load of one domain's knowledge base.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "domain")
	if !domain.IsDomain(name) {
		writeError(w, http.StatusNotFound, codeUnknownDomain, "unknown domain "+name)
		return
	}
	records := s.store.LoadDomain(r.Context(), name, true)
	writeJSON(w, http.StatusOK, map[string]any{"domain": name, "records": len(records)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error, name string) {
	switch {
	case errors.Is(err, domain.ErrDomainUnknown):
		writeError(w, http.StatusNotFound, codeUnknownDomain, "unknown domain "+name)
	case errors.Is(err, domain.ErrNoKnowledgeBase):
		writeError(w, http.StatusNotFound, codeNoKnowledgeBase, "no knowledge base loaded for "+name)
	default:
		s.logger.Error("unhandled domain error", zap.String("domain", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}
