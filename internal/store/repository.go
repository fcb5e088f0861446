package store

import (
	"context"

	"github.com/webshop-go/storefront/internal/store/spec"
	"github.com/webshop-go/storefront/pkg/apperr"
)

// Repository executes specifications against one entity type and queues
// mutations on its unit of work. Obtain instances through Repo; the unit of
// work caches one per type.
type Repository[T Entity] struct {
	uow *UnitOfWork
	tbl *Table[T]
}

// Add queues v for insertion. The id is assigned at Complete.
func (r *Repository[T]) Add(v T) {
	r.uow.enqueue(&insertMutation[T]{tbl: r.tbl, row: v})
}

// Update queues a full-row replacement. The entity must already have an id;
// callers check Exists first.
func (r *Repository[T]) Update(v T) {
	r.uow.enqueue(&updateMutation[T]{tbl: r.tbl, row: v})
}

// Remove queues v for deletion.
func (r *Repository[T]) Remove(v T) {
	r.uow.enqueue(&deleteMutation[T]{tbl: r.tbl, row: v})
}

// GetByID is a point lookup; a missing id is (zero, false, nil), not an error.
func (r *Repository[T]) GetByID(ctx context.Context, id int) (T, bool, error) {
	v, ok, err := r.tbl.ByID(ctx, r.uow.querier(), id)
	if err != nil {
		var zero T
		return zero, false, apperr.Store(r.tbl.Name+".get", err)
	}
	return v, ok, nil
}

func (r *Repository[T]) Exists(ctx context.Context, id int) (bool, error) {
	ok, err := r.tbl.Exists(ctx, r.uow.querier(), id)
	if err != nil {
		return false, apperr.Store(r.tbl.Name+".exists", err)
	}
	return ok, nil
}

// Count evaluates only the spec's filter; the paging window never changes it.
func (r *Repository[T]) Count(ctx context.Context, s spec.Spec[T]) (int, error) {
	base, err := r.tbl.All(ctx, r.uow.querier())
	if err != nil {
		return 0, apperr.Store(r.tbl.Name+".count", err)
	}
	return spec.Count(base, s), nil
}

// GetWithSpec returns the first match under the spec's ordering, or an
// arbitrary match when unordered.
func (r *Repository[T]) GetWithSpec(ctx context.Context, s spec.Spec[T]) (T, bool, error) {
	rows, err := r.ListWithSpec(ctx, s.WithPaging(0, 1))
	if err != nil {
		var zero T
		return zero, false, err
	}
	if len(rows) == 0 {
		var zero T
		return zero, false, nil
	}
	return rows[0], true, nil
}

// ListWithSpec evaluates the spec and attaches any included relations.
func (r *Repository[T]) ListWithSpec(ctx context.Context, s spec.Spec[T]) ([]T, error) {
	q := r.uow.querier()
	base, err := r.tbl.All(ctx, q)
	if err != nil {
		return nil, apperr.Store(r.tbl.Name+".list", err)
	}
	rows := spec.Evaluate(base, s)
	if err := r.tbl.loadIncludes(ctx, q, rows, s.Includes()); err != nil {
		return nil, apperr.Store(r.tbl.Name+".include", err)
	}
	return rows, nil
}

// ListProjected evaluates a projected spec. Includes resolve before the
// selector runs so projections may read attached relations.
func ListProjected[T Entity, R comparable](ctx context.Context, r *Repository[T], p spec.Projected[T, R]) ([]R, error) {
	rows, err := r.ListWithSpec(ctx, p.Spec)
	if err != nil {
		return nil, err
	}
	return spec.ProjectRows(rows, p), nil
}
