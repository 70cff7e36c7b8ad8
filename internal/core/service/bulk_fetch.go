package service

import (
	"context"

	"github.com/ecolatam/gateway/internal/pkg/metrics"
)

// DefaultBulkPageSize is the page size FetchAll uses when none is given.
const DefaultBulkPageSize = 1000

// PageFetcher fetches one page of at most limit items starting at offset.
type PageFetcher[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// FetchAll drains a paginated listing by walking offsets 0, P, 2P… until a
// page comes back shorter than P, and returns every item in order. The first
// failing page aborts the walk and its error is returned.
func FetchAll[T any](ctx context.Context, pageSize int, fetch PageFetcher[T]) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultBulkPageSize
	}

	all := []T{}
	for offset := 0; ; offset += pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		metrics.BulkFetchPagesTotal.Inc()
		page, err := fetch(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)

		if len(page) < pageSize {
			return all, nil
		}
	}
}
