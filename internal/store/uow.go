package store

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webshop-go/storefront/pkg/apperr"
	"github.com/webshop-go/storefront/pkg/outbox"
)

// Registry maps entity types to their table bindings. Built once at startup
// and shared read-only by every unit of work.
type Registry struct {
	tables map[reflect.Type]any
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[reflect.Type]any)}
}

func Bind[T Entity](reg *Registry, tbl *Table[T]) {
	reg.tables[reflect.TypeFor[T]()] = tbl
}

func tableFor[T Entity](reg *Registry) *Table[T] {
	t := reflect.TypeFor[T]()
	tbl, ok := reg.tables[t]
	if !ok {
		panic(fmt.Sprintf("store: no table bound for %s", t))
	}
	return tbl.(*Table[T])
}

type mutation interface {
	apply(ctx context.Context, tx pgx.Tx) (int64, error)
}

// UnitOfWork scopes repositories and pending mutations to one request. Not
// safe for use from concurrent requests; create one per request.
type UnitOfWork struct {
	pool    *pgxpool.Pool
	reg     *Registry
	repos   map[reflect.Type]any
	pending []mutation
}

func NewUnitOfWork(pool *pgxpool.Pool, reg *Registry) *UnitOfWork {
	return &UnitOfWork{
		pool:  pool,
		reg:   reg,
		repos: make(map[reflect.Type]any),
	}
}

// Repo returns the unit of work's repository for T, creating it on first use.
// Repeated calls for the same type return the same instance, so pending
// mutations are visible across call sites.
func Repo[T Entity](u *UnitOfWork) *Repository[T] {
	t := reflect.TypeFor[T]()
	if r, ok := u.repos[t]; ok {
		return r.(*Repository[T])
	}
	r := &Repository[T]{uow: u, tbl: tableFor[T](u.reg)}
	u.repos[t] = r
	return r
}

func (u *UnitOfWork) querier() Querier { return u.pool }

func (u *UnitOfWork) enqueue(m mutation) {
	u.pending = append(u.pending, m)
}

// EnqueueEvent queues an outbox row in the same commit as the mutations it
// describes. The builder runs inside the transaction, after earlier
// mutations, so it sees ids assigned by inserts.
func (u *UnitOfWork) EnqueueEvent(build func() outbox.Event) {
	u.enqueue(&eventMutation{build: build})
}

// Complete applies all pending mutations in one transaction and reports
// whether any row was affected. False with a nil error means there was
// nothing to do; callers treat false from a mutating operation as failure.
func (u *UnitOfWork) Complete(ctx context.Context) (bool, error) {
	if len(u.pending) == 0 {
		return false, nil
	}
	pending := u.pending
	u.pending = nil

	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, apperr.Store("uow.begin", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var affected int64
	for _, m := range pending {
		n, err := m.apply(ctx, tx)
		if err != nil {
			return false, apperr.Store("uow.apply", err)
		}
		affected += n
	}

	if err := tx.Commit(ctx); err != nil {
		return false, apperr.Store("uow.commit", err)
	}
	return affected > 0, nil
}

type insertMutation[T Entity] struct {
	tbl *Table[T]
	row T
}

func (m *insertMutation[T]) apply(ctx context.Context, tx pgx.Tx) (int64, error) {
	var id int
	if err := tx.QueryRow(ctx, m.tbl.InsertSQL, m.tbl.InsertArgs(m.row)...).Scan(&id); err != nil {
		return 0, err
	}
	m.row.SetID(id)
	if m.tbl.AfterInsert != nil {
		if err := m.tbl.AfterInsert(ctx, tx, m.row); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

type updateMutation[T Entity] struct {
	tbl *Table[T]
	row T
}

func (m *updateMutation[T]) apply(ctx context.Context, tx pgx.Tx) (int64, error) {
	ct, err := tx.Exec(ctx, m.tbl.UpdateSQL, m.tbl.UpdateArgs(m.row)...)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

type deleteMutation[T Entity] struct {
	tbl *Table[T]
	row T
}

func (m *deleteMutation[T]) apply(ctx context.Context, tx pgx.Tx) (int64, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE id = $1", m.tbl.Name)
	ct, err := tx.Exec(ctx, sql, m.row.GetID())
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

type eventMutation struct {
	build func() outbox.Event
}

func (m *eventMutation) apply(ctx context.Context, tx pgx.Tx) (int64, error) {
	ev := m.build()
	_, err := tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1,$2,$3,$4,$5,$6,'pending')`,
		ev.AggregateType, ev.AggregateID, ev.Type, ev.Payload, ev.Headers, ev.Traceparent)
	if err != nil {
		return 0, err
	}
	return 1, nil
}
