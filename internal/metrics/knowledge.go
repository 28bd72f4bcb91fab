package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// DomainLoadsTotal counts knowledge-base loads per domain and outcome.
	DomainLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "houstonintel",
			Name:      "domain_loads_total",
			Help:      "Knowledge-base domain loads",
		},
		[]string{"domain", "result"},
	)

	// DomainRecords tracks the record count currently loaded per domain.
	DomainRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "houstonintel",
			Name:      "domain_records",
			Help:      "Records currently loaded per domain",
		},
		[]string{"domain"},
	)

	// SearchesTotal counts searches per domain and ranking path.
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "houstonintel",
			Name:      "searches_total",
			Help:      "Searches executed, labeled by ranking path (vector or keyword)",
		},
		[]string{"domain", "path"},
	)

	// IndexFallbacksTotal counts domains left without a fitted index.
	IndexFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "houstonintel",
			Name:      "index_fallbacks_total",
			Help:      "Index fit failures causing keyword-search fallback",
		},
		[]string{"domain"},
	)

	// ResponseCacheTotal counts response-cache lookups by outcome.
	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "houstonintel",
			Name:      "response_cache_total",
			Help:      "Synthesized-response cache lookups",
		},
		[]string{"result"},
	)

	// EnrichmentRequestsTotal counts enrichment plugin calls by provider and outcome.
	EnrichmentRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "houstonintel",
			Name:      "enrichment_requests_total",
			Help:      "Enrichment plugin requests",
		},
		[]string{"provider", "result"},
	)
)

// RegisterKnowledgeMetrics registers the knowledge-base collectors.
// Called explicitly from the composition root (no init side effects).
func RegisterKnowledgeMetrics() {
	prometheus.MustRegister(DomainLoadsTotal)
	prometheus.MustRegister(DomainRecords)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(IndexFallbacksTotal)
	prometheus.MustRegister(ResponseCacheTotal)
	prometheus.MustRegister(EnrichmentRequestsTotal)
}
