package query

import "testing"

func TestExtractLocation(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"What are home prices in Sugar Land?", "Sugar Land"},
		{"is SUGAR LAND a good investment", "Sugar Land"},
		{"Is The Heights walkable?", "The Heights"},
		{"development along the energy corridor", "Energy Corridor"},
		{"katy townhome construction", "Katy"},
		{"anything happening in houston lately", "Houston"},
		{"What are the market trends?", ""},
	}

	for _, tc := range cases {
		if got := ExtractLocation(tc.query); got != tc.want {
			t.Errorf("ExtractLocation(%q) = %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestExtractLocation_MultiWordBeatsPrefix(t *testing.T) {
	// "the heights" must win over the bare "heights" entry.
	if got := ExtractLocation("new builds in the heights area"); got != "The Heights" {
		t.Errorf("got %q, want %q", got, "The Heights")
	}
}
