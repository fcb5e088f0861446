// Package page builds paginated results from a repository and a spec.
package page

import (
	"context"

	"github.com/webshop-go/storefront/internal/store/spec"
)

// Result is one page of items plus the total count of everything the filter
// matched, ignoring the paging window.
type Result[T any] struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
	Count     int `json:"count"`
	Data      []T `json:"data"`
}

// Lister is the slice of the repository surface the builder needs; satisfied
// by *store.Repository[T].
type Lister[T any] interface {
	Count(ctx context.Context, s spec.Spec[T]) (int, error)
	ListWithSpec(ctx context.Context, s spec.Spec[T]) ([]T, error)
}

// Build counts with a filter-only evaluation, then fetches the requested page
// as an independent evaluation of the same criteria. pageIndex is 1-based.
func Build[T any](ctx context.Context, l Lister[T], s spec.Spec[T], pageIndex, pageSize int) (Result[T], error) {
	return BuildMapped(ctx, l, s, pageIndex, pageSize, func(v T) T { return v })
}

// BuildMapped is Build with a shape-mapping function applied to each item of
// the fetched page.
func BuildMapped[T, R any](ctx context.Context, l Lister[T], s spec.Spec[T], pageIndex, pageSize int, mapFn func(T) R) (Result[R], error) {
	if pageIndex < 1 {
		pageIndex = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	count, err := l.Count(ctx, s)
	if err != nil {
		return Result[R]{}, err
	}

	items, err := l.ListWithSpec(ctx, s.WithPaging((pageIndex-1)*pageSize, pageSize))
	if err != nil {
		return Result[R]{}, err
	}

	data := make([]R, 0, len(items))
	for _, v := range items {
		data = append(data, mapFn(v))
	}

	return Result[R]{
		PageIndex: pageIndex,
		PageSize:  pageSize,
		Count:     count,
		Data:      data,
	}, nil
}
