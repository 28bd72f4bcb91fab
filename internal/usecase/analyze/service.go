// Package analyze is the multi-agent query engine: it classifies a query's
// intent, routes it to the relevant knowledge domains, searches each one,
// and synthesizes the per-domain findings into a single response. Analysis
// never fails; a domain that errors is omitted and the worst case is a
// low-confidence response that says so.
package analyze

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/answer"
	"github.com/bayoudata/houston-intel/internal/domain/query"
	"github.com/bayoudata/houston-intel/internal/usecase/search"
)

// Response-level bounds.
const (
	maxKeyInsights    = 10
	maxDataPoints     = 12
	maxTemplatedItems = 5
	summaryCharBudget = 500
)

// noDataConfidence is the documented default when nothing contributed.
const noDataConfidence = 0.5

// Service is the analysis engine.
type Service struct {
	searcher  Searcher
	enrichers []Enricher
	topK      int
	logger    *zap.Logger
}

// New creates an analysis service.
func New(searcher Searcher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{searcher: searcher, topK: search.DefaultTopK, logger: log}
}

// WithTopK overrides the per-domain candidate count.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// WithEnrichers registers optional enrichment plugins.
func (s *Service) WithEnrichers(enrichers ...Enricher) *Service {
	s.enrichers = append(s.enrichers, enrichers...)
	return s
}

// Analyze classifies the query, routes it, and synthesizes the answer.
func (s *Service) Analyze(ctx context.Context, text string) answer.Response {
	qctx := query.ExtractContext(text)
	domains := Route(qctx.Intent, text)
	return s.Synthesize(ctx, domains, text, qctx)
}

// Synthesize runs the search for every routed domain and merges the
// results. It returns a complete, well-formed response for any input,
// including an empty domain list.
func (s *Service) Synthesize(
	ctx context.Context, domains []string, text string, qctx query.Context,
) answer.Response {
	findings := map[string]answer.DomainFindings{}
	for _, d := range domains {
		f, ok := s.collectDomainSafe(ctx, d, text, qctx)
		if ok {
			findings[d] = f
		}
	}

	crossInsights, crossOpportunities := crossDomainInsights(findings)

	resp := answer.Response{
		Query:               text,
		Intent:              string(qctx.Intent),
		Location:            qctx.Location,
		KeyInsights:         []string{},
		DataPoints:          []answer.DataPoint{},
		CrossDomainInsights: crossInsights,
		Recommendations:     []string{},
		RiskFactors:         []string{},
		Opportunities:       []string{},
		NextSteps:           []string{},
		Sources:             []string{},
		Domains:             findings,
	}
	if resp.CrossDomainInsights == nil {
		resp.CrossDomainInsights = []string{}
	}

	for _, d := range domains {
		resp.Sources = append(resp.Sources, domain.DomainLabel(d))
	}

	s.mergeInsights(&resp, domains, findings, crossInsights)
	s.applyEnrichers(ctx, &resp, text, qctx.Intent)
	templateDerivedSections(&resp, qctx)
	resp.Opportunities = appendCapped(resp.Opportunities, crossOpportunities, maxTemplatedItems)

	resp.Confidence = overallConfidence(findings)
	resp.Summary = buildSummary(&resp, qctx, len(findings) > 0)
	return resp
}

// collectDomainSafe contains any failure inside one domain's processing:
// the domain is dropped from the response, logged, never surfaced.
func (s *Service) collectDomainSafe(
	ctx context.Context, domainName, text string, qctx query.Context,
) (f answer.DomainFindings, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("domain synthesis failed",
				zap.String("domain", domainName),
				zap.Any("panic", r),
			)
			f, ok = answer.DomainFindings{}, false
		}
	}()
	return s.collectDomain(ctx, domainName, text, qctx)
}

// mergeInsights fills key insights (prefixed with their source label,
// deduplicated, capped) and the aggregate data-point list.
func (s *Service) mergeInsights(
	resp *answer.Response, domains []string,
	findings map[string]answer.DomainFindings, crossInsights []string,
) {
	seen := map[string]struct{}{}
	seenMetrics := map[string]struct{}{}

	for _, d := range domains {
		f, ok := findings[d]
		if !ok {
			continue
		}
		for _, ins := range f.Insights {
			if len(resp.KeyInsights) >= maxKeyInsights {
				break
			}
			if _, dup := seen[ins]; dup {
				continue
			}
			seen[ins] = struct{}{}
			resp.KeyInsights = append(resp.KeyInsights, fmt.Sprintf("[%s] %s", f.Label, ins))
		}
		for _, dp := range f.DataPoints {
			if len(resp.DataPoints) >= maxDataPoints {
				break
			}
			if _, dup := seenMetrics[dp.Metric]; dup {
				continue
			}
			seenMetrics[dp.Metric] = struct{}{}
			resp.DataPoints = append(resp.DataPoints, dp)
		}
	}

	for _, ins := range crossInsights {
		if len(resp.KeyInsights) >= maxKeyInsights {
			break
		}
		if _, dup := seen[ins]; dup {
			continue
		}
		seen[ins] = struct{}{}
		resp.KeyInsights = append(resp.KeyInsights, "[Cross-Domain] "+ins)
	}
}

// applyEnrichers lets each registered plugin contribute extra insights and
// data points. Plugin failures are logged and skipped.
func (s *Service) applyEnrichers(ctx context.Context, resp *answer.Response, text string, intent query.Intent) {
	for _, e := range s.enrichers {
		enr, err := e.Enrich(ctx, text, intent)
		if err != nil {
			s.logger.Warn("enrichment skipped", zap.String("provider", e.Name()), zap.Error(err))
			continue
		}
		for _, ins := range enr.Insights {
			if len(resp.KeyInsights) >= maxKeyInsights {
				break
			}
			resp.KeyInsights = append(resp.KeyInsights, fmt.Sprintf("[%s] %s", e.Name(), ins))
		}
		for _, dp := range enr.DataPoints {
			if len(resp.DataPoints) >= maxDataPoints {
				break
			}
			resp.DataPoints = append(resp.DataPoints, dp)
		}
	}
}

// Keyword triggers for the derived sections. These are heuristic pattern
// matches over the insight strings, not a separate data source.
var (
	riskTriggers           = []string{"risk", "flood", "hazard", "concern", "decline", "exposure", "contamination"}
	opportunityTriggers    = []string{"opportunity", "growth", "emerging", "undervalued", "expansion", "demand"}
	recommendationTriggers = []string{"recommend", "should", "consider", "focus", "prioritize"}
)

func templateDerivedSections(resp *answer.Response, qctx query.Context) {
	for _, prefixed := range resp.KeyInsights {
		// Strip the "[Label] " prefix for matching and display.
		ins := prefixed
		if i := strings.Index(ins, "] "); i >= 0 {
			ins = ins[i+2:]
		}
		lower := strings.ToLower(ins)

		if containsAnyKey(lower, riskTriggers) && len(resp.RiskFactors) < maxTemplatedItems {
			resp.RiskFactors = append(resp.RiskFactors, ins)
		}
		if containsAnyKey(lower, opportunityTriggers) && len(resp.Opportunities) < maxTemplatedItems {
			resp.Opportunities = append(resp.Opportunities, ins)
		}
		if containsAnyKey(lower, recommendationTriggers) && len(resp.Recommendations) < maxTemplatedItems {
			resp.Recommendations = append(resp.Recommendations, ins)
		}
	}

	if len(resp.Recommendations) == 0 && len(resp.KeyInsights) > 0 {
		resp.Recommendations = append(resp.Recommendations,
			"Validate the findings above against current listings and recent comparable transactions.")
	}

	resp.NextSteps = nextSteps(qctx, len(resp.KeyInsights) > 0)
}

func nextSteps(qctx query.Context, hasData bool) []string {
	if !hasData {
		return []string{
			"Broaden the query or name a specific Houston-area neighborhood.",
			"Check back after the knowledge bases have been refreshed.",
		}
	}
	steps := []string{"Review the detailed findings of each consulted domain."}
	if qctx.Location != "" {
		steps = append(steps, fmt.Sprintf("Commission a site-level assessment in %s.", qctx.Location))
	}
	if qctx.ActionType == "investment" {
		steps = append(steps, "Model projected returns under current financing assumptions.")
	}
	steps = append(steps, "Refine the query with a property type or time frame for deeper results.")
	return steps
}

func overallConfidence(findings map[string]answer.DomainFindings) float64 {
	if len(findings) == 0 {
		return noDataConfidence
	}
	var sum float64
	for _, f := range findings {
		sum += f.Confidence
	}
	return sum / float64(len(findings))
}

// buildSummary assembles the executive summary inside the character
// budget. When no domain produced anything it states that data was
// limited instead of fabricating content.
func buildSummary(resp *answer.Response, qctx query.Context, hasData bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s for %q", qctx.Intent.Label(), resp.Query)
	if qctx.Location != "" {
		fmt.Fprintf(&b, " (focus: %s)", qctx.Location)
	}
	b.WriteString(". ")

	if !hasData {
		b.WriteString("The available knowledge bases returned little or no data for this query; " +
			"this response carries low confidence and should not be relied on alone.")
		return truncate(b.String(), summaryCharBudget)
	}

	leads := resp.CrossDomainInsights
	if len(leads) == 0 {
		leads = resp.KeyInsights
	}
	for i, ins := range leads {
		if i >= 2 {
			break
		}
		if j := strings.Index(ins, "] "); j >= 0 {
			ins = ins[j+2:]
		}
		b.WriteString(ins)
		if !strings.HasSuffix(ins, ".") {
			b.WriteString(".")
		}
		b.WriteString(" ")
	}

	if len(resp.DataPoints) > 0 {
		pairs := make([]string, 0, 3)
		for i, dp := range resp.DataPoints {
			if i >= 3 {
				break
			}
			pairs = append(pairs, dp.Metric+": "+dp.Value)
		}
		b.WriteString("Key metrics: " + strings.Join(pairs, ", ") + ".")
	}

	return truncate(strings.TrimSpace(b.String()), summaryCharBudget)
}

func appendCapped(dst, src []string, limit int) []string {
	for _, s := range src {
		if len(dst) >= limit {
			break
		}
		dst = append(dst, s)
	}
	return dst
}
