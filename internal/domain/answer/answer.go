// Package answer defines the synthesized response returned per query.
// Everything here is plain structs of primitives so any serving layer can
// emit a Response verbatim as JSON.
package answer

// DataPoint is one named metric in a response, with its value already
// rendered for display ("$1,250,000", "6.2%").
type DataPoint struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// DomainFindings is the contribution of one consulted domain.
type DomainFindings struct {
	Domain     string      `json:"domain"`
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Insights   []string    `json:"insights"`
	DataPoints []DataPoint `json:"data_points"`
	Sources    []string    `json:"sources"`
}

// Response is the final, fully assembled answer. Built fresh per query,
// never persisted by the core.
type Response struct {
	Query               string                    `json:"query"`
	Intent              string                    `json:"intent"`
	Location            string                    `json:"location,omitempty"`
	Summary             string                    `json:"executive_summary"`
	KeyInsights         []string                  `json:"key_insights"`
	DataPoints          []DataPoint               `json:"data_points"`
	CrossDomainInsights []string                  `json:"cross_domain_insights"`
	Recommendations     []string                  `json:"recommendations"`
	RiskFactors         []string                  `json:"risk_factors"`
	Opportunities       []string                  `json:"opportunities"`
	NextSteps           []string                  `json:"next_steps"`
	Sources             []string                  `json:"sources"`
	Confidence          float64                   `json:"confidence"`
	Domains             map[string]DomainFindings `json:"domains"`
}
