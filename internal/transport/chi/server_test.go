package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/answer"
	"github.com/bayoudata/houston-intel/internal/repository/knowledge"
	analyzeuc "github.com/bayoudata/houston-intel/internal/usecase/analyze"
	healthuc "github.com/bayoudata/houston-intel/internal/usecase/health"
	searchuc "github.com/bayoudata/houston-intel/internal/usecase/search"
)

// --- Fixtures ---

type mockCache struct {
	stored map[string]answer.Response
	getErr error
	setErr error
}

func newMockCache() *mockCache {
	return &mockCache{stored: map[string]answer.Response{}}
}

func (m *mockCache) Get(_ context.Context, queryText string) (answer.Response, error) {
	if m.getErr != nil {
		return answer.Response{}, m.getErr
	}
	if resp, ok := m.stored[queryText]; ok {
		return resp, nil
	}
	return answer.Response{}, domain.ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, queryText string, resp answer.Response) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.stored[queryText] = resp
	return nil
}

func writeKnowledge(t *testing.T, base, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(base, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func newTestServer(t *testing.T, cache ResponseCache) http.Handler {
	t.Helper()

	base := t.TempDir()
	writeKnowledge(t, base, domain.MarketIntelligence, `[
		{"id": "m1", "title": "Sugar Land market report", "location": "Sugar Land",
		 "content": {"summary": "Demand in Sugar Land stayed strong.",
		             "metrics": {"yoy_growth": 6.2, "median_price": 425000}}}
	]`)
	writeKnowledge(t, base, domain.FinancialIntelligence, `[
		{"id": "f1", "title": "Lending conditions", "category": "financing",
		 "content": {"summary": "Construction lending tightened across the metro."}}
	]`)

	store := knowledge.New(knowledge.Config{BasePath: base}, nil)
	searcher := searchuc.New(store, nil)
	analyzer := analyzeuc.New(searcher, nil)
	health := healthuc.New(store, nil)

	srv := NewServer(analyzer, searcher, store, cache, health, nil, 5, 25)
	r := chi.NewRouter()
	srv.Mount(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

// --- Tests ---

func TestHandleQuery(t *testing.T) {
	h := newTestServer(t, nil)

	rec, body := doJSON(t, h, http.MethodPost, "/v1/query",
		`{"query": "What are the market trends in Sugar Land?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["cached"] != false {
		t.Errorf("cached = %v", body["cached"])
	}
	result, ok := body["result"].(map[string]any)
	if !ok {
		t.Fatalf("missing result: %v", body)
	}
	if result["intent"] != "market_analysis" {
		t.Errorf("intent = %v", result["intent"])
	}
	if result["location"] != "Sugar Land" {
		t.Errorf("location = %v", result["location"])
	}
	if _, ok := result["key_insights"].([]any); !ok {
		t.Errorf("key_insights missing or not an array: %v", result["key_insights"])
	}
}

func TestHandleQuery_BadRequests(t *testing.T) {
	h := newTestServer(t, nil)

	rec, body := doJSON(t, h, http.MethodPost, "/v1/query", `{"query": "  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank query status = %d", rec.Code)
	}
	if body["code"] != codeBadRequest {
		t.Errorf("code = %v", body["code"])
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/v1/query", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("broken body status = %d", rec.Code)
	}
}

func TestHandleQuery_CacheRoundTrip(t *testing.T) {
	cache := newMockCache()
	h := newTestServer(t, cache)

	query := `{"query": "What are the market trends in Sugar Land?"}`

	rec, body := doJSON(t, h, http.MethodPost, "/v1/query", query)
	if rec.Code != http.StatusOK || body["cached"] != false {
		t.Fatalf("first call: status %d, cached %v", rec.Code, body["cached"])
	}
	if len(cache.stored) != 1 {
		t.Fatalf("cache holds %d entries, want 1", len(cache.stored))
	}

	rec, body = doJSON(t, h, http.MethodPost, "/v1/query", query)
	if rec.Code != http.StatusOK {
		t.Fatalf("second call status = %d", rec.Code)
	}
	if body["cached"] != true {
		t.Errorf("second call cached = %v", body["cached"])
	}
}

func TestHandleQuery_CacheFailureIsNotFatal(t *testing.T) {
	cache := newMockCache()
	cache.getErr = domain.ErrCacheUnavailable
	cache.setErr = domain.ErrCacheUnavailable
	h := newTestServer(t, cache)

	rec, _ := doJSON(t, h, http.MethodPost, "/v1/query",
		`{"query": "What are the market trends in Sugar Land?"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, cache failure must not break queries", rec.Code)
	}
}

func TestHandleSearch_Ranked(t *testing.T) {
	h := newTestServer(t, nil)

	rec, body := doJSON(t, h, http.MethodGet,
		"/v1/search?domain=market_intelligence&q=sugar+land+demand", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	results, _ := body["results"].([]any)
	if len(results) == 0 {
		t.Fatal("expected search results")
	}
	top, _ := results[0].(map[string]any)
	if top["id"] != "m1" {
		t.Errorf("top hit = %v", top["id"])
	}
}

func TestHandleSearch_Location(t *testing.T) {
	h := newTestServer(t, nil)

	// No domain: the location filter spans every domain.
	rec, body := doJSON(t, h, http.MethodGet, "/v1/search?location=sugar+land", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	results, _ := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestHandleSearch_Category(t *testing.T) {
	h := newTestServer(t, nil)

	rec, body := doJSON(t, h, http.MethodGet, "/v1/search?category=financing", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	results, _ := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	top, _ := results[0].(map[string]any)
	if top["id"] != "f1" {
		t.Errorf("hit = %v", top["id"])
	}
}

func TestHandleSearch_Validation(t *testing.T) {
	h := newTestServer(t, nil)

	rec, _ := doJSON(t, h, http.MethodGet, "/v1/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no params status = %d", rec.Code)
	}

	rec, _ = doJSON(t, h, http.MethodGet, "/v1/search?q=prices", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ranked search without domain status = %d", rec.Code)
	}

	rec, body := doJSON(t, h, http.MethodGet, "/v1/search?domain=bogus&q=prices", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown domain status = %d", rec.Code)
	}
	if body["code"] != codeUnknownDomain {
		t.Errorf("code = %v", body["code"])
	}

	rec, _ = doJSON(t, h, http.MethodGet,
		"/v1/search?domain=market_intelligence&q=prices&top_k=nope", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad top_k status = %d", rec.Code)
	}
}

func TestHandleDomainStatus(t *testing.T) {
	h := newTestServer(t, nil)

	rec, body := doJSON(t, h, http.MethodGet, "/v1/domains/market_intelligence", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["records"] != float64(1) {
		t.Errorf("records = %v", body["records"])
	}
	if body["indexed"] != true {
		t.Errorf("indexed = %v", body["indexed"])
	}

	rec, body = doJSON(t, h, http.MethodGet, "/v1/domains/bogus", "")
	if rec.Code != http.StatusNotFound || body["code"] != codeUnknownDomain {
		t.Errorf("unknown domain: status %d, code %v", rec.Code, body["code"])
	}

	// Known domain, no files on disk.
	rec, body = doJSON(t, h, http.MethodGet, "/v1/domains/technology_intelligence", "")
	if rec.Code != http.StatusNotFound || body["code"] != codeNoKnowledgeBase {
		t.Errorf("empty domain: status %d, code %v", rec.Code, body["code"])
	}
}

func TestHandleListDomains(t *testing.T) {
	h := newTestServer(t, nil)

	rec, body := doJSON(t, h, http.MethodGet, "/v1/domains", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	domains, _ := body["domains"].([]any)
	if len(domains) != len(domain.AllDomains()) {
		t.Fatalf("got %d domains, want %d", len(domains), len(domain.AllDomains()))
	}

	available := 0
	for _, item := range domains {
		m, _ := item.(map[string]any)
		if m["available"] == true {
			available++
		}
	}
	if available != 2 {
		t.Errorf("available = %d, want 2", available)
	}
}

func TestHandleReload(t *testing.T) {
	h := newTestServer(t, nil)

	rec, body := doJSON(t, h, http.MethodPost, "/v1/domains/market_intelligence/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["records"] != float64(1) {
		t.Errorf("records = %v", body["records"])
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/v1/domains/bogus/reload", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown domain status = %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestServer(t, nil)

	rec, body := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
}
