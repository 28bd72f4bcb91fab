package analyze

import (
	"strings"
	"testing"

	"github.com/bayoudata/houston-intel/internal/domain"
	"github.com/bayoudata/houston-intel/internal/domain/answer"
)

func findingsFor(domains ...string) map[string]answer.DomainFindings {
	out := map[string]answer.DomainFindings{}
	for _, d := range domains {
		out[d] = answer.DomainFindings{
			Domain: d,
			Label:  domain.DomainLabel(d),
		}
	}
	return out
}

func TestCrossDomainInsights_CuratedPair(t *testing.T) {
	findings := findingsFor(domain.MarketIntelligence, domain.FinancialIntelligence)

	insights, opportunities := crossDomainInsights(findings)
	if len(insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(insights))
	}
	if !strings.Contains(insights[0], "financing") {
		t.Errorf("insight = %q", insights[0])
	}
	if len(opportunities) != 1 {
		t.Errorf("got %d opportunities, want 1", len(opportunities))
	}
}

func TestCrossDomainInsights_SingleDomainNothing(t *testing.T) {
	insights, opportunities := crossDomainInsights(findingsFor(domain.MarketIntelligence))
	if len(insights) != 0 || len(opportunities) != 0 {
		t.Errorf("single domain produced %v / %v", insights, opportunities)
	}
}

func TestCrossDomainInsights_TopicOverlap(t *testing.T) {
	findings := map[string]answer.DomainFindings{
		domain.MarketIntelligence: {
			Label:    "Market Intelligence",
			Insights: []string{"Townhome absorption near the floodplain slowed."},
		},
		domain.EnvironmentalIntelligence: {
			Label:    "Environmental Intelligence",
			Insights: []string{"The floodplain remap expanded west of the reservoir."},
		},
	}

	insights, _ := crossDomainInsights(findings)
	if len(insights) != 1 {
		t.Fatalf("got %d insights, want 1", len(insights))
	}
	if !strings.Contains(insights[0], "floodplain") {
		t.Errorf("insight = %q, want shared topic named", insights[0])
	}
}

func TestCrossDomainInsights_Cap(t *testing.T) {
	// All six domains with the curated pairs present plus heavy topic
	// overlap everywhere still caps at three insights.
	findings := map[string]answer.DomainFindings{}
	for _, d := range domain.AllDomains() {
		findings[d] = answer.DomainFindings{
			Domain:   d,
			Label:    domain.DomainLabel(d),
			Insights: []string{"Infrastructure spending accelerated across corridors."},
		}
	}

	insights, _ := crossDomainInsights(findings)
	if len(insights) != maxCrossDomainInsights {
		t.Errorf("got %d insights, want %d", len(insights), maxCrossDomainInsights)
	}
}

func TestSharedTopics_IgnoresShortWords(t *testing.T) {
	shared := sharedTopics(
		[]string{"the rates rose fast"},
		[]string{"the rates fell fast"},
	)
	if len(shared) != 0 {
		t.Errorf("short words counted as topics: %v", shared)
	}
}
