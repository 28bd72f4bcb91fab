package search

import (
	"context"
	"strings"

	"github.com/bayoudata/houston-intel/internal/domain/record"
)

// LocationMatchScore is the fixed relevance assigned to location-filter
// hits: they are exact-ish matches, not similarity-ranked.
const LocationMatchScore = 0.5

// DefaultFilterLimit bounds filter results when the caller passes no limit.
const DefaultFilterLimit = 10

// categoryKeywords maps a category label to the keyword set that defines
// it. Unknown labels fall back to the label itself.
var categoryKeywords = map[string][]string{
	"permits":        {"permit", "building", "construction", "approval", "zoning", "expedited"},
	"market":         {"market", "price", "trend", "inventory", "sales", "appreciation"},
	"financing":      {"financing", "loan", "lending", "interest", "capital", "mortgage"},
	"environmental":  {"flood", "environmental", "drainage", "contamination", "air quality"},
	"neighborhoods":  {"neighborhood", "community", "district", "school", "demographics"},
	"infrastructure": {"infrastructure", "road", "transit", "utility", "drainage"},
	"technology":     {"technology", "proptech", "smart", "innovation", "digital"},
}

// ByLocation returns records mentioning the location, matched
// case-insensitively against location, geographic scope, domain, title and
// summary. An empty domainName searches every domain, tagging each hit
// with its source.
func (s *Service) ByLocation(ctx context.Context, domainName, location string, limit int) []Result {
	location = strings.ToLower(strings.TrimSpace(location))
	if location == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultFilterLimit
	}

	out := make([]Result, 0, limit)
	for _, d := range s.scope(domainName) {
		records, _ := s.store.Snapshot(ctx, d, false)
		for i := range records {
			if len(out) >= limit {
				return out
			}
			if matchesLocation(&records[i], location) {
				out = append(out, Result{Domain: d, Record: records[i], Score: LocationMatchScore})
			}
		}
	}
	return out
}

// ByCategory returns records whose searchable text contains any keyword of
// the category. Unknown category labels are used as the sole keyword.
func (s *Service) ByCategory(ctx context.Context, category, domainName string, limit int) []Result {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultFilterLimit
	}

	keywords, ok := categoryKeywords[category]
	if !ok {
		keywords = []string{category}
	}

	out := make([]Result, 0, limit)
	for _, d := range s.scope(domainName) {
		records, _ := s.store.Snapshot(ctx, d, false)
		for i := range records {
			if len(out) >= limit {
				return out
			}
			text := strings.ToLower(records[i].SearchText())
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					out = append(out, Result{Domain: d, Record: records[i], Score: LocationMatchScore})
					break
				}
			}
		}
	}
	return out
}

func (s *Service) scope(domainName string) []string {
	if domainName == "" {
		return s.store.Domains()
	}
	return []string{domainName}
}

func matchesLocation(r *record.Record, location string) bool {
	if strings.Contains(strings.ToLower(r.Location()), location) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Neighborhood()), location) {
		return true
	}
	for _, g := range r.GeographicScope() {
		if strings.Contains(strings.ToLower(g), location) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(r.Domain()), location) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title()), location) {
		return true
	}
	return strings.Contains(strings.ToLower(r.Summary()), location)
}
