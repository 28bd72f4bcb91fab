// Package query classifies free-text queries: intent, mentioned location,
// and lightweight context flags. Classification is a pure function of the
// declarative pattern tables in this package.
package query

import "regexp"

// Intent is the classified purpose of a user query.
type Intent string

// Intent constants. ClassifyIntent evaluates them in this order, so the
// ordering is part of the classification contract.
const (
	MarketAnalysis          Intent = "market_analysis"
	NeighborhoodAssessment  Intent = "neighborhood_assessment"
	InvestmentOpportunity   Intent = "investment_opportunity"
	RegulatoryCompliance    Intent = "regulatory_compliance"
	RiskAssessment          Intent = "risk_assessment"
	DevelopmentFeasibility  Intent = "development_feasibility"
	CompetitiveIntelligence Intent = "competitive_intelligence"
	ComprehensiveAnalysis   Intent = "comprehensive_analysis"
)

// IsValid checks if the intent is one of the supported values.
func (i Intent) IsValid() bool {
	for _, e := range intentOrder {
		if i == e {
			return true
		}
	}
	return i == ComprehensiveAnalysis
}

// Label returns a human-readable form of the intent.
func (i Intent) Label() string {
	switch i {
	case MarketAnalysis:
		return "Market Analysis"
	case NeighborhoodAssessment:
		return "Neighborhood Assessment"
	case InvestmentOpportunity:
		return "Investment Opportunity"
	case RegulatoryCompliance:
		return "Regulatory Compliance"
	case RiskAssessment:
		return "Risk Assessment"
	case DevelopmentFeasibility:
		return "Development Feasibility"
	case CompetitiveIntelligence:
		return "Competitive Intelligence"
	default:
		return "Comprehensive Analysis"
	}
}

// intentOrder fixes the evaluation (and tie-break) order of the pattern table.
var intentOrder = []Intent{
	MarketAnalysis,
	NeighborhoodAssessment,
	InvestmentOpportunity,
	RegulatoryCompliance,
	RiskAssessment,
	DevelopmentFeasibility,
	CompetitiveIntelligence,
}

// intentPatterns is the declarative classification table. Patterns are
// matched case-insensitively against the raw query; the first hit wins.
var intentPatterns = map[Intent][]*regexp.Regexp{
	MarketAnalysis: compileAll(
		`market (trend|condition|analysis|outlook|report)`,
		`(home|house|property) (price|value)s?`,
		`(median|average) price`,
		`(inventory|supply|demand|absorption)`,
		`how('?s| is) the .*market`,
	),
	NeighborhoodAssessment: compileAll(
		`(neighborhood|area|district|suburb)s? (profile|assessment|overview|quality)`,
		`(best|top|good|safest) (neighborhood|area|place)s?`,
		`(school|crime|walkab|amenit)`,
		`(living|live) in`,
		`what('?s| is) .* like`,
	),
	InvestmentOpportunity: compileAll(
		`invest(ment|ing|or)?s?\b`,
		`\broi\b|cap rate|cash flow|yield`,
		`(rental|passive) income`,
		`(buy|purchase|acquire) .*(property|land|lot)`,
		`opportunit(y|ies)`,
	),
	RegulatoryCompliance: compileAll(
		`(zoning|permit|ordinance|regulation|code|variance)s?\b`,
		`(approval|entitlement|platting) process`,
		`(setback|easement|deed restriction)s?`,
		`(comply|compliance|legal requirement)`,
	),
	RiskAssessment: compileAll(
		`\brisks?\b`,
		`(flood|floodplain|hurricane|storm surge|subsidence)`,
		`(environmental|contamination|superfund) (risk|concern|issue)s?`,
		`(danger|hazard|exposure)s?\b`,
		`how (safe|risky)`,
	),
	DevelopmentFeasibility: compileAll(
		`(develop|build|construct)(ing|ment)?\b`,
		`feasib(le|ility)`,
		`(site|land) (selection|analysis|suitability)`,
		`(construction|hard|soft) costs?`,
		`highest and best use`,
	),
	CompetitiveIntelligence: compileAll(
		`(competitor|competition|competitive)s?\b`,
		`(other|rival) (developer|builder|investor)s?`,
		`market share`,
		`who (else|is) (building|developing|buying)`,
	),
}

// ClassifyIntent maps a query to one intent, defaulting to
// ComprehensiveAnalysis when nothing in the table matches.
func ClassifyIntent(text string) Intent {
	for _, intent := range intentOrder {
		for _, p := range intentPatterns[intent] {
			if p.MatchString(text) {
				return intent
			}
		}
	}
	return ComprehensiveAnalysis
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}
