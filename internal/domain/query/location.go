package query

import "strings"

// gazetteer lists the Houston-area places the extractor recognizes.
// Matching is substring, case-insensitive; multi-word names come first so
// they win over their single-word prefixes.
var gazetteer = []string{
	"sugar land",
	"the woodlands",
	"the heights",
	"river oaks",
	"west university",
	"memorial city",
	"energy corridor",
	"medical center",
	"texas city",
	"missouri city",
	"league city",
	"clear lake",
	"east end",
	"third ward",
	"midtown",
	"montrose",
	"katy",
	"pearland",
	"cypress",
	"spring",
	"tomball",
	"conroe",
	"humble",
	"kingwood",
	"bellaire",
	"pasadena",
	"baytown",
	"galveston",
	"richmond",
	"rosenberg",
	"fulshear",
	"friendswood",
	"webster",
	"downtown",
	"uptown",
	"galleria",
	"heights",
	"eado",
	"houston",
}

// ExtractLocation returns the first recognized Houston-area place mentioned
// in the query, title-cased, or "" when none is found.
func ExtractLocation(text string) string {
	lower := strings.ToLower(text)
	for _, place := range gazetteer {
		if strings.Contains(lower, place) {
			return titleCase(place)
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
