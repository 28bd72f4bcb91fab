package domain

// Canonical knowledge domains ("specialized agents"). The set is fixed;
// records belong to exactly one of them.
const (
	MarketIntelligence        = "market_intelligence"
	NeighborhoodIntelligence  = "neighborhood_intelligence"
	FinancialIntelligence     = "financial_intelligence"
	EnvironmentalIntelligence = "environmental_intelligence"
	RegulatoryIntelligence    = "regulatory_intelligence"
	TechnologyIntelligence    = "technology_intelligence"
)

// AllDomains returns the canonical domain names in their fixed order.
func AllDomains() []string {
	return []string{
		MarketIntelligence,
		NeighborhoodIntelligence,
		FinancialIntelligence,
		EnvironmentalIntelligence,
		RegulatoryIntelligence,
		TechnologyIntelligence,
	}
}

// IsDomain reports whether name is a canonical domain.
func IsDomain(name string) bool {
	for _, d := range AllDomains() {
		if d == name {
			return true
		}
	}
	return false
}

// DomainLabel returns the human-readable label for a domain name.
func DomainLabel(name string) string {
	switch name {
	case MarketIntelligence:
		return "Market Intelligence"
	case NeighborhoodIntelligence:
		return "Neighborhood Intelligence"
	case FinancialIntelligence:
		return "Financial Intelligence"
	case EnvironmentalIntelligence:
		return "Environmental Intelligence"
	case RegulatoryIntelligence:
		return "Regulatory Intelligence"
	case TechnologyIntelligence:
		return "Technology Intelligence"
	default:
		return name
	}
}
