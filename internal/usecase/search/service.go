// Package search ranks a domain's records against a free-text query:
// cosine similarity over the fitted TF-IDF index when the domain has one,
// keyword-overlap scoring otherwise. A search call never fails; worst case
// is an empty result.
package search

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/bayoudata/houston-intel/internal/domain/record"
	"github.com/bayoudata/houston-intel/internal/metrics"
)

// DefaultMinRelevance is the floor below which vector matches are noise.
const DefaultMinRelevance = 0.05

// DefaultTopK is the result count used when a caller passes no preference.
const DefaultTopK = 5

// Result is one ranked hit, tagged with its source domain.
type Result struct {
	Domain string
	Record record.Record
	Score  float64
}

// Service executes searches and filters over the record store.
type Service struct {
	store        Snapshotter
	minRelevance float64
	logger       *zap.Logger
}

// New creates a search service.
func New(store Snapshotter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, minRelevance: DefaultMinRelevance, logger: log}
}

// WithMinRelevance overrides the vector-score floor.
func (s *Service) WithMinRelevance(floor float64) *Service {
	if floor > 0 {
		s.minRelevance = floor
	}
	return s
}

// Search ranks a domain's records against the query, best first, at most
// topK results. Empty query, unknown domain, empty domain, and topK <= 0
// all yield an empty result.
func (s *Service) Search(ctx context.Context, domainName, query string, topK int) []Result {
	if topK <= 0 || strings.TrimSpace(query) == "" {
		return nil
	}

	records, ix := s.store.Snapshot(ctx, domainName, false)
	if len(records) == 0 {
		return nil
	}

	if ix != nil && ix.Len() == len(records) {
		metrics.SearchesTotal.WithLabelValues(domainName, "vector").Inc()
		return s.vectorSearch(domainName, records, ix.Scores(query), topK)
	}

	metrics.SearchesTotal.WithLabelValues(domainName, "keyword").Inc()
	return s.keywordSearch(domainName, records, query, topK)
}

func (s *Service) vectorSearch(domainName string, records []record.Record, scores []float64, topK int) []Result {
	out := make([]Result, 0, topK)
	for i, score := range scores {
		if score >= s.minRelevance {
			out = append(out, Result{Domain: domainName, Record: records[i], Score: score})
		}
	}
	sortResults(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// keywordSearch scores each record as |query words ∩ record words| / |query words|.
func (s *Service) keywordSearch(domainName string, records []record.Record, query string, topK int) []Result {
	queryWords := wordSet(query)
	if len(queryWords) == 0 {
		return nil
	}

	out := make([]Result, 0, topK)
	for i := range records {
		recordWords := wordSet(records[i].SearchText())
		overlap := 0
		for w := range queryWords {
			if _, ok := recordWords[w]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		out = append(out, Result{
			Domain: domainName,
			Record: records[i],
			Score:  float64(overlap) / float64(len(queryWords)),
		})
	}
	sortResults(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out
}

// sortResults orders by descending score; ties keep record order so
// repeated searches stay deterministic.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
