package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the read surface shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// IncludeFn attaches one named relation to a batch of loaded rows.
type IncludeFn[T Entity] func(ctx context.Context, q Querier, rows []T) error

// Table binds one entity type to its SQL. SelectSQL has no WHERE clause; the
// repository appends lookups. InsertSQL must end in RETURNING id.
type Table[T Entity] struct {
	Name       string
	SelectSQL  string
	InsertSQL  string
	InsertArgs func(T) []any
	UpdateSQL  string
	UpdateArgs func(T) []any
	// AfterInsert persists child rows in the same transaction, after the
	// parent id is assigned.
	AfterInsert func(ctx context.Context, tx pgx.Tx, v T) error
	Includes    map[string]IncludeFn[T]
	RowTo       pgx.RowToFunc[T]
}

func (t *Table[T]) All(ctx context.Context, q Querier) ([]T, error) {
	rows, err := q.Query(ctx, t.SelectSQL)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, t.RowTo)
}

func (t *Table[T]) ByID(ctx context.Context, q Querier, id int) (T, bool, error) {
	var zero T
	rows, err := q.Query(ctx, t.SelectSQL+" WHERE id = $1", id)
	if err != nil {
		return zero, false, err
	}
	v, err := pgx.CollectOneRow(rows, t.RowTo)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

func (t *Table[T]) Exists(ctx context.Context, q Querier, id int) (bool, error) {
	var ok bool
	sql := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", t.Name)
	if err := q.QueryRow(ctx, sql, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (t *Table[T]) loadIncludes(ctx context.Context, q Querier, rows []T, relations []string) error {
	if len(rows) == 0 {
		return nil
	}
	for _, rel := range relations {
		fn, ok := t.Includes[rel]
		if !ok {
			return fmt.Errorf("table %s: unknown include %q", t.Name, rel)
		}
		if err := fn(ctx, q, rows); err != nil {
			return err
		}
	}
	return nil
}
