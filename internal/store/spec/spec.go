// Package spec describes queries as immutable values: a filter predicate,
// ordering clauses, a paging window, related-data includes and an optional
// projection. Evaluation lives in evaluator.go and is independent of any
// backing store.
package spec

import "cmp"

// Clause is one ordering key with direction, expressed as a three-way compare.
type Clause[T any] struct {
	compare func(a, b T) int
}

func (c Clause[T]) Compare(a, b T) int { return c.compare(a, b) }

// Asc orders by an extracted key, smallest first.
func Asc[T any, K cmp.Ordered](key func(T) K) Clause[T] {
	return Clause[T]{compare: func(a, b T) int { return cmp.Compare(key(a), key(b)) }}
}

// Desc orders by an extracted key, largest first.
func Desc[T any, K cmp.Ordered](key func(T) K) Clause[T] {
	return Clause[T]{compare: func(a, b T) int { return cmp.Compare(key(b), key(a)) }}
}

// Compare wraps an arbitrary three-way comparison, for keys that are not
// cmp.Ordered (timestamps and the like).
func Compare[T any](fn func(a, b T) int) Clause[T] {
	return Clause[T]{compare: fn}
}

// Spec is a declarative query over T. Construct with New; the zero value
// matches everything.
type Spec[T any] struct {
	filter   func(T) bool
	orders   []Clause[T]
	skip     int
	take     int
	paged    bool
	includes []string
}

type Option[T any] func(*Spec[T])

// Where sets the filter predicate. At most one predicate per spec; compose
// conditions inside the function.
func Where[T any](pred func(T) bool) Option[T] {
	return func(s *Spec[T]) { s.filter = pred }
}

// OrderBy declares ordering clauses, primary first; later clauses break ties.
func OrderBy[T any](clauses ...Clause[T]) Option[T] {
	return func(s *Spec[T]) { s.orders = clauses }
}

// Page enables the paging window: skip rows, then take at most take rows.
func Page[T any](skip, take int) Option[T] {
	return func(s *Spec[T]) { s.skip, s.take, s.paged = skip, take, true }
}

// Include names related data to attach before results are returned. The
// repository resolves names against its registered loaders.
func Include[T any](relations ...string) Option[T] {
	return func(s *Spec[T]) { s.includes = append(s.includes, relations...) }
}

func New[T any](opts ...Option[T]) Spec[T] {
	var s Spec[T]
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Match reports whether v satisfies the filter. A spec without a filter
// matches everything.
func (s Spec[T]) Match(v T) bool {
	if s.filter == nil {
		return true
	}
	return s.filter(v)
}

func (s Spec[T]) Orders() []Clause[T] { return s.orders }

func (s Spec[T]) Includes() []string { return s.includes }

// Paging returns the window and whether paging is enabled.
func (s Spec[T]) Paging() (skip, take int, ok bool) {
	return s.skip, s.take, s.paged
}

// WithPaging returns a copy of the spec with the paging window replaced.
func (s Spec[T]) WithPaging(skip, take int) Spec[T] {
	s.skip, s.take, s.paged = skip, take, true
	return s
}

// Projected is a Spec that additionally maps each result to R. R is
// constrained to comparable so the distinct flag can dedupe results.
type Projected[T any, R comparable] struct {
	Spec[T]
	selector func(T) R
	distinct bool
}

func NewProjected[T any, R comparable](base Spec[T], selector func(T) R) Projected[T, R] {
	return Projected[T, R]{Spec: base, selector: selector}
}

// WithDistinct returns a copy that drops duplicate projected values.
func (p Projected[T, R]) WithDistinct() Projected[T, R] {
	p.distinct = true
	return p
}

func (p Projected[T, R]) Select(v T) R { return p.selector(v) }

func (p Projected[T, R]) Distinct() bool { return p.distinct }
