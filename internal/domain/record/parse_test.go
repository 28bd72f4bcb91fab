package record

import (
	"encoding/json"
	"strings"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	return v
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Shape
	}{
		{"record list", `[{"title": "a"}]`, ShapeRecordList},
		{"insights wrapper", `{"insights": ["growth is up"]}`, ShapeWrapper},
		{"records wrapper", `{"records": [{"title": "a"}]}`, ShapeWrapper},
		{"single record", `{"title": "a", "content": "text"}`, ShapeSingle},
		{"metadata", `{"agent_name": "market", "categories": ["permits"]}`, ShapeMetadata},
		{"fan-out", `{"heights": {"summary": "dense"}, "katy": {"summary": "suburban"}}`, ShapeFanOut},
		{"scalar", `42`, ShapeUnknown},
		{"empty object", `{}`, ShapeUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(decode(t, tc.raw)); got != tc.want {
				t.Errorf("Classify = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParse_RecordList(t *testing.T) {
	raw := `[
		{"id": "r1", "title": "Permit surge", "content": "Permits are up."},
		{"id": "r2", "title": "Rate watch", "content": "Rates held steady."}
	]`

	records, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID() != "r1" || records[1].ID() != "r2" {
		t.Errorf("ids = %q, %q", records[0].ID(), records[1].ID())
	}
	if records[0].Text() != "Permits are up." {
		t.Errorf("text = %q", records[0].Text())
	}
}

func TestParse_StructuredContent(t *testing.T) {
	raw := `{
		"id": "m1",
		"title": "Sugar Land market",
		"location": "Sugar Land",
		"content": {
			"summary": "Strong demand in Sugar Land.",
			"key_findings": ["Inventory is tight", "Prices rose"],
			"recommendations": ["Buy early"],
			"metrics": {"median_price": 425000, "yoy_growth": 6.2}
		}
	}`

	records, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.Summary() != "Strong demand in Sugar Land." {
		t.Errorf("summary = %q", r.Summary())
	}
	if len(r.KeyFindings()) != 2 || r.KeyFindings()[0] != "Inventory is tight" {
		t.Errorf("key findings = %v", r.KeyFindings())
	}
	if len(r.Recommendations()) != 1 {
		t.Errorf("recommendations = %v", r.Recommendations())
	}

	// Metrics come back sorted by name.
	metrics := r.Metrics()
	if len(metrics) != 2 {
		t.Fatalf("got %d metrics, want 2", len(metrics))
	}
	if metrics[0].Name != "median_price" || metrics[1].Name != "yoy_growth" {
		t.Errorf("metric order = %q, %q", metrics[0].Name, metrics[1].Name)
	}
	if metrics[1].Value != 6.2 {
		t.Errorf("yoy_growth = %v", metrics[1].Value)
	}
}

func TestParse_InsightStrings(t *testing.T) {
	raw := `{"insights": ["Flood plains expanded in 2024", {"title": "Detention rules", "summary": "New detention requirements."}]}`

	records, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Insight() != "Flood plains expanded in 2024" {
		t.Errorf("insight = %q", records[0].Insight())
	}
	if records[1].Title() != "Detention rules" {
		t.Errorf("title = %q", records[1].Title())
	}
}

func TestParse_FanOutTitleFallback(t *testing.T) {
	raw := `{
		"east_end": {"summary": "Transit-oriented growth."},
		"heights": {"title": "The Heights", "summary": "Historic district pressure."}
	}`

	records, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Keys are visited in sorted order; a missing title falls back to the key.
	if records[0].Title() != "east_end" {
		t.Errorf("title = %q, want key fallback", records[0].Title())
	}
	if records[1].Title() != "The Heights" {
		t.Errorf("title = %q, want explicit title kept", records[1].Title())
	}
}

func TestParse_MetadataYieldsNothing(t *testing.T) {
	raw := `{"agent_name": "market-intelligence", "categories": ["permits", "pricing"], "total_insights": 42}`

	records, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from metadata, want 0", len(records))
	}
}

func TestParse_BrokenJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"title": `)); err == nil {
		t.Fatal("expected error for broken JSON")
	}
}

func TestFromMap_LocationList(t *testing.T) {
	m := map[string]any{
		"title":    "Corridor study",
		"location": []any{"Katy", "Cypress", "Tomball"},
	}

	r := FromMap(m)
	if r.Location() != "Katy" {
		t.Errorf("location = %q, want first entry", r.Location())
	}
	scope := r.GeographicScope()
	if len(scope) != 2 || scope[0] != "Cypress" || scope[1] != "Tomball" {
		t.Errorf("geographic scope = %v", scope)
	}
}

func TestKey(t *testing.T) {
	withID := Reconstruct("abc", "t", "", "", nil, nil, nil, "", nil, nil)
	if withID.Key() != "abc" {
		t.Errorf("Key = %q, want source id", withID.Key())
	}

	a := Reconstruct("", "Same title", "same text", "", nil, nil, nil, "", nil, nil)
	b := Reconstruct("", "Same title", "same text", "", nil, nil, nil, "", nil, nil)
	if a.Key() != b.Key() {
		t.Error("identical records should share a key")
	}

	c := Reconstruct("", "Other title", "same text", "", nil, nil, nil, "", nil, nil)
	if a.Key() == c.Key() {
		t.Error("different titles should not share a key")
	}
}

func TestSearchText(t *testing.T) {
	r := Reconstruct(
		"r1", "Sugar Land market", "", "Strong demand.",
		[]string{"Inventory is tight"}, nil,
		[]Metric{{Name: "median_price", Value: 425000.0}},
		"Sugar Land", []string{"Fort Bend"}, []string{"residential"},
	)

	text := r.SearchText()
	for _, want := range []string{"Sugar Land market", "Strong demand.", "Inventory is tight", "median_price 425000", "Fort Bend", "residential"} {
		if !strings.Contains(text, want) {
			t.Errorf("SearchText missing %q in %q", want, text)
		}
	}
}
