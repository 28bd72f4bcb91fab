package search

import (
	"context"
	"testing"

	"github.com/bayoudata/houston-intel/internal/domain/record"
	"github.com/bayoudata/houston-intel/internal/index"
)

// --- Mocks ---

type mockStore struct {
	domains map[string][]record.Record
	indexed bool
}

func (m *mockStore) Snapshot(_ context.Context, name string, _ bool) ([]record.Record, *index.Index) {
	records, ok := m.domains[name]
	if !ok {
		return nil, nil
	}
	if !m.indexed {
		return records, nil
	}
	corpus := make([]string, len(records))
	for i := range records {
		corpus[i] = records[i].SearchText()
	}
	ix, err := index.Fit(corpus, index.Options{})
	if err != nil {
		return records, nil
	}
	return records, ix
}

func (m *mockStore) Domains() []string {
	out := make([]string, 0, len(m.domains))
	for _, d := range []string{"market_intelligence", "environmental_intelligence"} {
		if _, ok := m.domains[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

func makeRecord(t *testing.T, id, title, text, location string, scope []string) record.Record {
	t.Helper()
	return record.Reconstruct(id, title, text, "", nil, nil, nil, location, scope, nil)
}

func marketRecords(t *testing.T) []record.Record {
	t.Helper()
	return []record.Record{
		makeRecord(t, "m1", "Sugar Land median prices", "Median home prices in Sugar Land rose six percent.", "Sugar Land", nil),
		makeRecord(t, "m2", "Pearland inventory report", "Pearland active inventory keeps climbing.", "Pearland", nil),
		makeRecord(t, "m3", "Corridor land banking", "Investors keep banking raw land along the corridor.", "", []string{"Katy"}),
	}
}

// --- Tests ---

func TestSearch_VectorPath(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": marketRecords(t),
	}, indexed: true}, nil)

	results := svc.Search(context.Background(), "market_intelligence", "sugar land home prices", 5)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Record.ID() != "m1" {
		t.Errorf("top hit = %q, want m1", results[0].Record.ID())
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in descending order at %d", i)
		}
	}
	if results[0].Domain != "market_intelligence" {
		t.Errorf("domain tag = %q", results[0].Domain)
	}
}

func TestSearch_KeywordFallback(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": marketRecords(t),
	}, indexed: false}, nil)

	results := svc.Search(context.Background(), "market_intelligence", "pearland inventory", 5)
	if len(results) == 0 {
		t.Fatal("expected keyword results")
	}
	if results[0].Record.ID() != "m2" {
		t.Errorf("top hit = %q, want m2", results[0].Record.ID())
	}
	// Both query words appear in m2, so the overlap ratio is 1.
	if results[0].Score != 1 {
		t.Errorf("score = %v, want 1", results[0].Score)
	}
}

func TestSearch_TopKBound(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": marketRecords(t),
	}, indexed: false}, nil)

	results := svc.Search(context.Background(), "market_intelligence", "land prices inventory", 1)
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestSearch_EmptyInputs(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": marketRecords(t),
	}, indexed: true}, nil)

	if r := svc.Search(context.Background(), "market_intelligence", "", 5); r != nil {
		t.Errorf("empty query: got %v", r)
	}
	if r := svc.Search(context.Background(), "market_intelligence", "   ", 5); r != nil {
		t.Errorf("blank query: got %v", r)
	}
	if r := svc.Search(context.Background(), "market_intelligence", "prices", 0); r != nil {
		t.Errorf("topK 0: got %v", r)
	}
	if r := svc.Search(context.Background(), "unknown", "prices", 5); r != nil {
		t.Errorf("unknown domain: got %v", r)
	}
}

func TestSearch_MinRelevanceFloor(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": marketRecords(t),
	}, indexed: true}, nil).WithMinRelevance(0.99)

	// With a near-1 floor only an exact-text query survives.
	if r := svc.Search(context.Background(), "market_intelligence", "prices", 5); len(r) != 0 {
		t.Errorf("expected floor to drop weak matches, got %d", len(r))
	}
}

func TestByLocation(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": marketRecords(t),
	}, indexed: true}, nil)

	results := svc.ByLocation(context.Background(), "market_intelligence", "Sugar Land", 10)
	if len(results) != 1 || results[0].Record.ID() != "m1" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Score != LocationMatchScore {
		t.Errorf("score = %v, want %v", results[0].Score, LocationMatchScore)
	}
}

func TestByLocation_GeographicScope(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": marketRecords(t),
	}, indexed: true}, nil)

	// m3 has no location field; it matches through its geographic scope.
	results := svc.ByLocation(context.Background(), "market_intelligence", "katy", 10)
	if len(results) != 1 || results[0].Record.ID() != "m3" {
		t.Fatalf("results = %+v", results)
	}
}

func TestByLocation_AllDomains(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": marketRecords(t),
		"environmental_intelligence": {
			makeRecord(t, "e1", "Katy prairie drainage", "Detention capacity on the Katy prairie.", "Katy", nil),
		},
	}, indexed: true}, nil)

	results := svc.ByLocation(context.Background(), "", "katy", 10)
	if len(results) != 2 {
		t.Fatalf("got %d results, want hits from both domains", len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		seen[r.Domain] = true
	}
	if !seen["market_intelligence"] || !seen["environmental_intelligence"] {
		t.Errorf("domains = %v", seen)
	}
}

func TestByLocation_Limit(t *testing.T) {
	records := make([]record.Record, 5)
	for i := range records {
		records[i] = makeRecord(t, "", "Downtown tower", "", "Downtown", nil)
	}
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": records,
	}}, nil)

	if r := svc.ByLocation(context.Background(), "market_intelligence", "downtown", 3); len(r) != 3 {
		t.Errorf("got %d results, want 3", len(r))
	}
}

func TestByLocation_Empty(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{}}, nil)
	if r := svc.ByLocation(context.Background(), "", "  ", 10); r != nil {
		t.Errorf("blank location: got %v", r)
	}
}

func TestByCategory(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": {
			makeRecord(t, "p1", "Expedited permit program", "The city expanded its expedited permit lane.", "", nil),
			makeRecord(t, "p2", "Lot price index", "Lot price growth by quarter.", "", nil),
		},
	}}, nil)

	results := svc.ByCategory(context.Background(), "permits", "market_intelligence", 10)
	if len(results) != 1 || results[0].Record.ID() != "p1" {
		t.Fatalf("results = %+v", results)
	}
}

func TestByCategory_UnknownLabelFallsBackToKeyword(t *testing.T) {
	svc := New(&mockStore{domains: map[string][]record.Record{
		"market_intelligence": {
			makeRecord(t, "s1", "Solar adoption in new builds", "Rooftop solar adoption doubled.", "", nil),
		},
	}}, nil)

	results := svc.ByCategory(context.Background(), "solar", "market_intelligence", 10)
	if len(results) != 1 || results[0].Record.ID() != "s1" {
		t.Fatalf("results = %+v", results)
	}
}
