package spec

import "slices"

// Evaluate applies a spec to a base collection: filter, then ordering, then
// the paging window. The base slice is never mutated. With paging enabled and
// no ordering clause the result order is whatever the store returned, which
// is unspecified.
func Evaluate[T any](base []T, s Spec[T]) []T {
	out := filter(base, s)

	if orders := s.Orders(); len(orders) > 0 {
		slices.SortStableFunc(out, func(a, b T) int {
			for _, c := range orders {
				if r := c.Compare(a, b); r != 0 {
					return r
				}
			}
			return 0
		})
	}

	if skip, take, ok := s.Paging(); ok {
		out = window(out, skip, take)
	}
	return out
}

// Count is the number of base elements satisfying the filter. Paging and
// projection never affect it.
func Count[T any](base []T, s Spec[T]) int {
	n := 0
	for _, v := range base {
		if s.Match(v) {
			n++
		}
	}
	return n
}

// EvaluateProjected runs Evaluate and then applies the selector to the
// surviving rows, so rows discarded by the paging window are never projected.
// Distinct dedupe keeps the first occurrence in result order.
func EvaluateProjected[T any, R comparable](base []T, p Projected[T, R]) []R {
	return ProjectRows(Evaluate(base, p.Spec), p)
}

// ProjectRows applies only the projection step to already-evaluated rows.
func ProjectRows[T any, R comparable](rows []T, p Projected[T, R]) []R {
	out := make([]R, 0, len(rows))
	if !p.Distinct() {
		for _, v := range rows {
			out = append(out, p.Select(v))
		}
		return out
	}

	seen := make(map[R]struct{}, len(rows))
	for _, v := range rows {
		r := p.Select(v)
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func filter[T any](base []T, s Spec[T]) []T {
	out := make([]T, 0, len(base))
	for _, v := range base {
		if s.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

func window[T any](rows []T, skip, take int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(rows) || take <= 0 {
		return nil
	}
	end := skip + take
	if end > len(rows) {
		end = len(rows)
	}
	return rows[skip:end]
}
