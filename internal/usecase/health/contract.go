package health

import "context"

// KnowledgePinger checks that the knowledge base path is reachable.
type KnowledgePinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks response-cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
