package search

import (
	"context"

	"github.com/bayoudata/houston-intel/internal/domain/record"
	"github.com/bayoudata/houston-intel/internal/index"
)

// Snapshotter provides a consistent records+index pair per domain.
type Snapshotter interface {
	Snapshot(ctx context.Context, name string, force bool) ([]record.Record, *index.Index)
	Domains() []string
}
