package analyze

import (
	"strings"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/query"
)

// routingTable maps every intent to the domains it consults, in
// consultation order. The table is total; Route never returns empty.
var routingTable = map[query.Intent][]string{
	query.MarketAnalysis: {
		domain.MarketIntelligence, domain.FinancialIntelligence,
	},
	query.NeighborhoodAssessment: {
		domain.NeighborhoodIntelligence, domain.MarketIntelligence,
	},
	query.InvestmentOpportunity: {
		domain.FinancialIntelligence, domain.MarketIntelligence, domain.NeighborhoodIntelligence,
	},
	query.RegulatoryCompliance: {
		domain.RegulatoryIntelligence, domain.EnvironmentalIntelligence,
	},
	query.RiskAssessment: {
		domain.EnvironmentalIntelligence, domain.FinancialIntelligence, domain.RegulatoryIntelligence,
	},
	query.DevelopmentFeasibility: {
		domain.MarketIntelligence, domain.RegulatoryIntelligence,
		domain.EnvironmentalIntelligence, domain.FinancialIntelligence,
	},
	query.CompetitiveIntelligence: {
		domain.MarketIntelligence, domain.TechnologyIntelligence,
	},
	query.ComprehensiveAnalysis: domain.AllDomains(),
}

// technologyKeywords pull the technology domain into any route.
var technologyKeywords = []string{
	"technology", "proptech", "smart", "innovation", "digital", "automation", " ai ",
}

// Route returns the domains to consult for an intent. Queries mentioning
// technology additionally get the technology domain appended.
func Route(intent query.Intent, queryText string) []string {
	routed, ok := routingTable[intent]
	if !ok {
		routed = routingTable[query.ComprehensiveAnalysis]
	}
	out := make([]string, len(routed))
	copy(out, routed)

	lower := " " + strings.ToLower(queryText) + " "
	for _, kw := range technologyKeywords {
		if strings.Contains(lower, kw) {
			return appendMissing(out, domain.TechnologyIntelligence)
		}
	}
	return out
}

func appendMissing(domains []string, name string) []string {
	for _, d := range domains {
		if d == name {
			return domains
		}
	}
	return append(domains, name)
}
