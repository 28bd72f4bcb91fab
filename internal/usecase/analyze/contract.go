package analyze

import (
	"context"

	"github.com/bayoudata/houston-intel/internal/domain/answer"
	"github.com/bayoudata/houston-intel/internal/domain/query"
	"github.com/bayoudata/houston-intel/internal/usecase/search"
)

// Searcher ranks and filters records for one domain.
type Searcher interface {
	Search(ctx context.Context, domainName, queryText string, topK int) []search.Result
	ByLocation(ctx context.Context, domainName, location string, limit int) []search.Result
}

// Enrichment is the optional extra material a plugin contributes into the
// synthesis merge step.
type Enrichment struct {
	Insights   []string
	DataPoints []answer.DataPoint
}

// Enricher is an optional external data source (an AI API, open data).
// The core produces a complete response with zero enrichers registered;
// an enricher failure is logged and skipped.
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, queryText string, intent query.Intent) (Enrichment, error)
}
