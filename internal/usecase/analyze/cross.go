package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/answer"
)

// maxCrossDomainInsights caps the cross-domain section of a response.
const maxCrossDomainInsights = 3

// topicWordMinLen is the minimum length of a word counted as a topic.
const topicWordMinLen = 6

// pairInsight is one curated domain-pair relationship. When both domains
// contributed findings, its insight and opportunity are emitted regardless
// of actual topic overlap.
type pairInsight struct {
	a, b        string
	insight     string
	opportunity string
}

var curatedPairs = []pairInsight{
	{
		a: domain.MarketIntelligence, b: domain.FinancialIntelligence,
		insight:     "Market momentum and financing conditions are moving together, which typically amplifies both upside and downside scenarios.",
		opportunity: "Align acquisition timing with lending-rate windows flagged in the financial data.",
	},
	{
		a: domain.EnvironmentalIntelligence, b: domain.RegulatoryIntelligence,
		insight:     "Environmental constraints in this area feed directly into permitting requirements; floodplain status drives the regulatory path.",
		opportunity: "Early environmental screening can shorten the permitting timeline and avoid redesign costs.",
	},
	{
		a: domain.NeighborhoodIntelligence, b: domain.TechnologyIntelligence,
		insight:     "Neighborhood growth patterns correlate with technology-sector employment and smart-infrastructure investment.",
		opportunity: "Target neighborhoods adjacent to announced technology corridors before pricing adjusts.",
	},
}

// crossDomainInsights derives observations spanning two domains: curated
// pair relationships first, then generic topic-overlap correlations,
// capped at maxCrossDomainInsights. Returned opportunities feed the
// response's opportunity list.
func crossDomainInsights(findings map[string]answer.DomainFindings) (insights, opportunities []string) {
	for _, p := range curatedPairs {
		if len(insights) >= maxCrossDomainInsights {
			return insights, opportunities
		}
		if _, okA := findings[p.a]; !okA {
			continue
		}
		if _, okB := findings[p.b]; !okB {
			continue
		}
		insights = append(insights, p.insight)
		opportunities = append(opportunities, p.opportunity)
	}

	names := make([]string, 0, len(findings))
	for name := range findings {
		names = append(names, name)
	}
	sort.Strings(names)

	for i := 0; i < len(names) && len(insights) < maxCrossDomainInsights; i++ {
		for j := i + 1; j < len(names) && len(insights) < maxCrossDomainInsights; j++ {
			if isCuratedPair(names[i], names[j]) {
				continue
			}
			shared := sharedTopics(findings[names[i]].Insights, findings[names[j]].Insights)
			if len(shared) == 0 {
				continue
			}
			if len(shared) > 3 {
				shared = shared[:3]
			}
			insights = append(insights, fmt.Sprintf(
				"%s and %s findings reference shared topics: %s.",
				findings[names[i]].Label, findings[names[j]].Label,
				strings.Join(shared, ", "),
			))
		}
	}

	return insights, opportunities
}

func isCuratedPair(a, b string) bool {
	for _, p := range curatedPairs {
		if (p.a == a && p.b == b) || (p.a == b && p.b == a) {
			return true
		}
	}
	return false
}

// sharedTopics intersects the topic-word sets of two insight lists,
// returning the shared words sorted.
func sharedTopics(a, b []string) []string {
	setA := topicWords(a)
	setB := topicWords(b)
	var shared []string
	for w := range setA {
		if _, ok := setB[w]; ok {
			shared = append(shared, w)
		}
	}
	sort.Strings(shared)
	return shared
}

func topicWords(insights []string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, ins := range insights {
		for _, w := range strings.Fields(strings.ToLower(ins)) {
			w = strings.Trim(w, ".,;:!?()\"'")
			if len(w) >= topicWordMinLen {
				set[w] = struct{}{}
			}
		}
	}
	return set
}
