package query

import "strings"

// TimeFrame is the coarse temporal focus of a query.
type TimeFrame string

// Time frame constants.
const (
	TimeCurrent    TimeFrame = "current"
	TimeFuture     TimeFrame = "future"
	TimeHistorical TimeFrame = "historical"
)

// Context is the ephemeral, per-query extraction result. Zero values mean
// "not mentioned"; extraction never fails.
type Context struct {
	Intent          Intent    `json:"intent"`
	Location        string    `json:"location,omitempty"`
	PropertyTypes   []string  `json:"property_types,omitempty"`
	ActionType      string    `json:"action_type,omitempty"`
	TimeFrame       TimeFrame `json:"time_frame,omitempty"`
	WantsRanking    bool      `json:"wants_ranking,omitempty"`
	WantsComparison bool      `json:"wants_comparison,omitempty"`
}

var propertyTypeKeywords = map[string][]string{
	"residential": {"residential", "single-family", "single family", "home", "house", "townhome"},
	"commercial":  {"commercial", "office", "retail", "shopping", "warehouse"},
	"multifamily": {"multifamily", "multi-family", "apartment", "duplex", "condo"},
	"mixed-use":   {"mixed-use", "mixed use"},
	"industrial":  {"industrial", "manufacturing", "logistics", "distribution"},
}

// propertyTypeOrder keeps extraction output deterministic.
var propertyTypeOrder = []string{"residential", "commercial", "multifamily", "mixed-use", "industrial"}

var actionTypeKeywords = map[string][]string{
	"investment":  {"invest", "buy", "purchase", "acquire", "roi", "return"},
	"development": {"develop", "build", "construct", "redevelop"},
	"rental":      {"rent", "lease", "tenant", "landlord"},
}

var actionTypeOrder = []string{"investment", "development", "rental"}

var rankingKeywords = []string{"best", "top", "highest", "most", "ranked", "ranking"}

var comparisonKeywords = []string{"compare", "versus", " vs ", " vs.", "difference between", "better than"}

var futureKeywords = []string{"will", "forecast", "projected", "future", "upcoming", "next year", "2030"}

var historicalKeywords = []string{"historical", "history", "past", "last year", "previously", "trend over"}

// ExtractContext derives the query context: intent, location, property and
// action types, ranking/comparison flags, and time frame.
func ExtractContext(text string) Context {
	lower := strings.ToLower(text)

	ctx := Context{
		Intent:          ClassifyIntent(text),
		Location:        ExtractLocation(text),
		TimeFrame:       extractTimeFrame(lower),
		WantsRanking:    containsAny(lower, rankingKeywords),
		WantsComparison: containsAny(lower, comparisonKeywords),
	}

	for _, pt := range propertyTypeOrder {
		if containsAny(lower, propertyTypeKeywords[pt]) {
			ctx.PropertyTypes = append(ctx.PropertyTypes, pt)
		}
	}

	for _, at := range actionTypeOrder {
		if containsAny(lower, actionTypeKeywords[at]) {
			ctx.ActionType = at
			break
		}
	}

	return ctx
}

func extractTimeFrame(lower string) TimeFrame {
	if containsAny(lower, historicalKeywords) {
		return TimeHistorical
	}
	if containsAny(lower, futureKeywords) {
		return TimeFuture
	}
	return TimeCurrent
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
