package respcache

import (
	"strings"
	"testing"
)

func TestCacheKey_Normalization(t *testing.T) {
	a := cacheKey("What are the market trends?")
	b := cacheKey("  what ARE the   market trends?  ")
	if a != b {
		t.Errorf("normalized variants hash differently: %q vs %q", a, b)
	}

	c := cacheKey("what are the rental yields?")
	if a == c {
		t.Error("different queries share a key")
	}
}

func TestCacheKey_Shape(t *testing.T) {
	key := cacheKey(strings.Repeat("very long query ", 100))
	if !strings.HasPrefix(key, keyPrefix) {
		t.Errorf("key %q missing prefix", key)
	}
	// sha256 hex digest keeps arbitrary queries at a fixed key length.
	if len(key) != len(keyPrefix)+64 {
		t.Errorf("key length = %d", len(key))
	}
}
