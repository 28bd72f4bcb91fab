// Package record models one atomic knowledge-base entry and the
// shape-tolerant parsing of the on-disk JSON that produces it.
package record

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Metric is a named figure attached to a record. Value holds whatever the
// source JSON carried (float64 for numbers, string otherwise).
type Metric struct {
	Name  string
	Value any
}

// Record is an immutable knowledge-base entry. A record belongs to exactly
// one domain: the domain whose files it was loaded from.
type Record struct {
	id              string
	title           string
	text            string // plain-string content
	summary         string
	insight         string
	keyFindings     []string
	recommendations []string
	metrics         []Metric // sorted by name
	location        string
	neighborhood    string
	geographicScope []string
	category        string
	subcategory     string
	domain          string
	tags            []string
}

// Reconstruct creates a Record from already-validated parts (tests, fixtures).
func Reconstruct(
	id, title, text, summary string,
	keyFindings, recommendations []string,
	metrics []Metric,
	location string, geographicScope, tags []string,
) Record {
	return Record{
		id: id, title: title, text: text, summary: summary,
		keyFindings: keyFindings, recommendations: recommendations,
		metrics:  metrics,
		location: location, geographicScope: geographicScope, tags: tags,
	}
}

// ID returns the source identifier, empty when the file carried none.
func (r *Record) ID() string { return r.id }

// Title returns the record title.
func (r *Record) Title() string { return r.title }

// Text returns the plain-string content, empty for structured records.
func (r *Record) Text() string { return r.text }

// Summary returns the structured-content summary.
func (r *Record) Summary() string { return r.summary }

// Insight returns the standalone insight field some sources carry.
func (r *Record) Insight() string { return r.insight }

// KeyFindings returns the ordered key findings.
func (r *Record) KeyFindings() []string { return r.keyFindings }

// Recommendations returns the ordered recommendations.
func (r *Record) Recommendations() []string { return r.recommendations }

// Metrics returns the record metrics sorted by name.
func (r *Record) Metrics() []Metric { return r.metrics }

// Location returns the primary location field.
func (r *Record) Location() string { return r.location }

// Neighborhood returns the neighborhood field.
func (r *Record) Neighborhood() string { return r.neighborhood }

// GeographicScope returns the list of places the record covers.
func (r *Record) GeographicScope() []string { return r.geographicScope }

// Category returns the record category.
func (r *Record) Category() string { return r.category }

// Subcategory returns the record subcategory.
func (r *Record) Subcategory() string { return r.subcategory }

// Domain returns the domain field embedded in the source JSON, which may
// differ from the partition the record was loaded under.
func (r *Record) Domain() string { return r.domain }

// Tags returns the record tags.
func (r *Record) Tags() []string { return r.tags }

// Key identifies the record for deduplication: the source id when present,
// otherwise a hash of the derived title/content string.
func (r *Record) Key() string {
	if r.id != "" {
		return r.id
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(r.title))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(r.text))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(r.summary))
	return fmt.Sprintf("%x", h.Sum64())
}

// SearchText assembles the searchable-text projection the indexer and the
// keyword fallback both rank against. Missing fields contribute nothing.
func (r *Record) SearchText() string {
	parts := make([]string, 0, 16)
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}

	add(r.title)
	add(r.summary)
	for _, f := range r.keyFindings {
		add(f)
	}
	for _, rec := range r.recommendations {
		add(rec)
	}
	for _, m := range r.metrics {
		add(fmt.Sprintf("%s %v", m.Name, m.Value))
	}
	add(r.text)
	add(r.insight)
	add(r.domain)
	add(r.category)
	add(r.subcategory)
	add(r.location)
	add(r.neighborhood)
	for _, g := range r.geographicScope {
		add(g)
	}
	for _, t := range r.tags {
		add(t)
	}

	return strings.Join(parts, " ")
}
