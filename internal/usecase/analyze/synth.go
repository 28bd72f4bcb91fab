package analyze

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/answer"
	"github.com/bayoudata/houston-intel/internal/domain/query"
	"github.com/bayoudata/houston-intel/internal/domain/record"
	"github.com/bayoudata/houston-intel/internal/usecase/search"
)

// Per-domain response bounds.
const (
	maxInsightsPerDomain   = 5
	maxDataPointsPerDomain = 8
	plainTextInsightLimit  = 200
)

// Confidence shape: bounded, increasing in relevance, capped below 1.
// The exact constants are tunable, not load-bearing.
const (
	confidenceBase  = 0.6
	confidenceSpan  = 0.35
	confidenceFloor = 0.5
	confidenceCap   = 0.95
)

// intentVocabulary enriches the search query with intent-typical terms.
var intentVocabulary = map[query.Intent]string{
	query.MarketAnalysis:          "market trends analysis competition",
	query.NeighborhoodAssessment:  "neighborhood community amenities schools",
	query.InvestmentOpportunity:   "investment return roi opportunity",
	query.RegulatoryCompliance:    "zoning permits regulations requirements",
	query.RiskAssessment:          "risk exposure mitigation flood",
	query.DevelopmentFeasibility:  "development construction feasibility costs",
	query.CompetitiveIntelligence: "competitors developers projects pipeline",
	query.ComprehensiveAnalysis:   "houston development analysis overview",
}

// enhanceQuery widens the raw query with the extracted location, property
// and action types, and the intent vocabulary.
func enhanceQuery(text string, qctx query.Context) string {
	parts := []string{text}
	if qctx.Location != "" {
		parts = append(parts, qctx.Location)
	}
	parts = append(parts, qctx.PropertyTypes...)
	if qctx.ActionType != "" {
		parts = append(parts, qctx.ActionType)
	}
	if vocab := intentVocabulary[qctx.Intent]; vocab != "" {
		parts = append(parts, vocab)
	}
	return strings.Join(parts, " ")
}

// collectDomain gathers one domain's candidates and turns them into
// findings. ok is false when the domain contributed nothing and must be
// omitted from the response.
func (s *Service) collectDomain(
	ctx context.Context, domainName, text string, qctx query.Context,
) (answer.DomainFindings, bool) {
	candidates := s.searcher.Search(ctx, domainName, enhanceQuery(text, qctx), s.topK)

	// Location hits widen recall: records naming the place stay in the
	// pool even with zero keyword overlap, at a fixed moderate score.
	if qctx.Location != "" {
		candidates = mergeCandidates(candidates, s.searcher.ByLocation(ctx, domainName, qctx.Location, s.topK))
	}

	// One retry with the raw query before giving up on the domain.
	if len(candidates) == 0 {
		candidates = s.searcher.Search(ctx, domainName, text, s.topK)
	}
	if len(candidates) == 0 {
		return answer.DomainFindings{}, false
	}

	f := answer.DomainFindings{
		Domain:     domainName,
		Label:      domain.DomainLabel(domainName),
		Confidence: domainConfidence(candidates),
	}

	seenInsights := map[string]struct{}{}
	for _, c := range candidates {
		for _, ins := range candidateInsights(&c.Record) {
			if len(f.Insights) >= maxInsightsPerDomain {
				break
			}
			if _, dup := seenInsights[ins]; dup {
				continue
			}
			seenInsights[ins] = struct{}{}
			f.Insights = append(f.Insights, ins)
		}
		for _, m := range c.Record.Metrics() {
			if len(f.DataPoints) >= maxDataPointsPerDomain {
				break
			}
			f.DataPoints = append(f.DataPoints, answer.DataPoint{
				Metric: prettyMetricName(m.Name),
				Value:  formatMetricValue(m.Name, m.Value),
			})
		}
		if title := c.Record.Title(); title != "" {
			f.Sources = append(f.Sources, title)
		}
	}

	return f, true
}

// mergeCandidates appends extra hits not already present, deduplicating by
// the record's title/content key. Extras keep their own (fixed) score.
func mergeCandidates(base, extra []search.Result) []search.Result {
	seen := make(map[string]struct{}, len(base))
	for i := range base {
		seen[base[i].Record.Key()] = struct{}{}
	}
	for i := range extra {
		k := extra[i].Record.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		base = append(base, extra[i])
	}
	return base
}

// domainConfidence derives confidence from the top-3 relevance scores.
func domainConfidence(candidates []search.Result) float64 {
	n := len(candidates)
	if n > 3 {
		n = 3
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += candidates[i].Score
	}
	c := confidenceBase + confidenceSpan*(sum/float64(n))
	if c < confidenceFloor {
		c = confidenceFloor
	}
	if c > confidenceCap {
		c = confidenceCap
	}
	return c
}

// candidateInsights extracts the insight strings one record contributes:
// its summary, up to two key findings, a truncated prefix of plain text
// content, or the standalone insight field.
func candidateInsights(r *record.Record) []string {
	var out []string
	if s := r.Summary(); s != "" {
		out = append(out, s)
	}
	for i, kf := range r.KeyFindings() {
		if i >= 2 {
			break
		}
		out = append(out, kf)
	}
	if len(out) == 0 {
		if t := r.Text(); t != "" {
			out = append(out, truncate(t, plainTextInsightLimit))
		} else if ins := r.Insight(); ins != "" {
			out = append(out, ins)
		}
	}
	return out
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if i := strings.LastIndexByte(cut, ' '); i > limit/2 {
		cut = cut[:i]
	}
	return cut + "..."
}

// prettyMetricName renders "yoy_growth" as "Yoy Growth".
func prettyMetricName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// percentKeys and currencyKeys drive display formatting of metric values.
var (
	percentKeys  = []string{"rate", "percent", "pct", "growth", "yield"}
	currencyKeys = []string{"price", "cost", "value"}
)

// formatMetricValue renders a metric for display: large price/cost/value
// figures get a currency sign and thousands separators, rate-like keys get
// a percent suffix, everything else is printed as-is.
func formatMetricValue(name string, value any) string {
	lower := strings.ToLower(name)

	num, isNum := asFloat(value)
	if isNum {
		if containsAnyKey(lower, currencyKeys) && num > 1000 {
			return "$" + groupThousands(num)
		}
		if containsAnyKey(lower, percentKeys) {
			return formatFloat(num) + "%"
		}
		return formatFloat(num)
	}
	return fmt.Sprintf("%v", value)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func containsAnyKey(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// groupThousands renders 1234567.5 as "1,234,567.5".
func groupThousands(f float64) string {
	s := formatFloat(f)
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if hasFrac {
		out += "." + fracPart
	}
	return out
}
