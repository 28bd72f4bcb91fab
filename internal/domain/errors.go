// Package domain holds the shared error taxonomy of the intelligence core.
package domain

import "errors"

var (
	// ErrNoKnowledgeBase signals that a domain has never been loaded and has
	// no files on disk. Serving layers use it to distinguish "no data yet"
	// from "query had no matches".
	ErrNoKnowledgeBase = errors.New("no knowledge base")
	// ErrDomainUnknown signals a domain name outside the configured set.
	ErrDomainUnknown = errors.New("unknown domain")
	// ErrCacheUnavailable signals that the response cache cannot be reached.
	ErrCacheUnavailable = errors.New("response cache unavailable")
	// ErrCacheMiss signals an absent response-cache entry.
	ErrCacheMiss = errors.New("response cache miss")
	// ErrEnrichmentProviderError signals an enrichment provider failure.
	ErrEnrichmentProviderError = errors.New("enrichment provider error")
)
