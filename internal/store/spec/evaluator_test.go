package spec_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webshop-go/storefront/internal/store/spec"
)

type widget struct {
	ID    int
	Name  string
	Price int64
	Brand string
}

func widgets(n int) []widget {
	out := make([]widget, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, widget{
			ID:    i,
			Name:  fmt.Sprintf("widget-%02d", i),
			Price: int64(i * 100),
			Brand: []string{"acme", "globex"}[i%2],
		})
	}
	return out
}

func byID() spec.Clause[widget] {
	return spec.Asc(func(w widget) int { return w.ID })
}

func TestEvaluateFiltersBeforePaging(t *testing.T) {
	base := widgets(10)

	s := spec.New(
		spec.Where(func(w widget) bool { return w.Brand == "acme" }),
		spec.OrderBy(byID()),
		spec.Page[widget](2, 2),
	)

	got := spec.Evaluate(base, s)
	require.Len(t, got, 2)
	// acme widgets are the even ids; page 2 of size 2 starts at the third.
	assert.Equal(t, 6, got[0].ID)
	assert.Equal(t, 8, got[1].ID)
}

func TestCountIgnoresPaging(t *testing.T) {
	base := widgets(10)

	s := spec.New(
		spec.Where(func(w widget) bool { return w.Price >= 500 }),
		spec.Page[widget](0, 2),
	)

	assert.Equal(t, 6, spec.Count(base, s))
	assert.Len(t, spec.Evaluate(base, s), 2)
}

func TestEvaluateOrderingWithTieBreak(t *testing.T) {
	base := []widget{
		{ID: 1, Brand: "globex", Price: 300},
		{ID: 2, Brand: "acme", Price: 300},
		{ID: 3, Brand: "acme", Price: 100},
	}

	s := spec.New(spec.OrderBy(
		spec.Asc(func(w widget) int64 { return w.Price }),
		spec.Asc(func(w widget) string { return w.Brand }),
	))

	got := spec.Evaluate(base, s)
	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestEvaluateIsDeterministicWhenOrdered(t *testing.T) {
	base := widgets(25)

	s := spec.New(
		spec.Where(func(w widget) bool { return w.ID%3 != 0 }),
		spec.OrderBy(spec.Desc(func(w widget) int64 { return w.Price }), byID()),
		spec.Page[widget](3, 5),
	)

	first := spec.Evaluate(base, s)
	second := spec.Evaluate(base, s)
	assert.Equal(t, first, second)
}

func TestEvaluateDoesNotMutateBase(t *testing.T) {
	base := []widget{{ID: 3}, {ID: 1}, {ID: 2}}

	_ = spec.Evaluate(base, spec.New(spec.OrderBy(byID())))

	assert.Equal(t, []int{3, 1, 2}, []int{base[0].ID, base[1].ID, base[2].ID})
}

func TestPageCardinality(t *testing.T) {
	base := widgets(7)

	for pageIndex := 1; pageIndex <= 5; pageIndex++ {
		for pageSize := 1; pageSize <= 4; pageSize++ {
			s := spec.New(spec.OrderBy(byID())).WithPaging((pageIndex-1)*pageSize, pageSize)

			got := spec.Evaluate(base, s)

			want := len(base) - (pageIndex-1)*pageSize
			if want < 0 {
				want = 0
			}
			if want > pageSize {
				want = pageSize
			}
			assert.Len(t, got, want, "pageIndex=%d pageSize=%d", pageIndex, pageSize)
		}
	}
}

func TestPageBeyondEndIsEmptyNotError(t *testing.T) {
	base := widgets(3)

	got := spec.Evaluate(base, spec.New(spec.OrderBy(byID())).WithPaging(10, 5))
	assert.Empty(t, got)
}

func TestUnorderedPagingOnlyGuaranteesLength(t *testing.T) {
	base := widgets(9)

	got := spec.Evaluate(base, spec.New[widget]().WithPaging(3, 4))
	assert.Len(t, got, 4)
}

func TestWithPagingCopies(t *testing.T) {
	s := spec.New(spec.OrderBy(byID()))
	paged := s.WithPaging(0, 2)

	_, _, ok := s.Paging()
	assert.False(t, ok)

	skip, take, ok := paged.Paging()
	require.True(t, ok)
	assert.Equal(t, 0, skip)
	assert.Equal(t, 2, take)
}

func TestEvaluateProjectedDistinct(t *testing.T) {
	base := widgets(10)

	p := spec.NewProjected(
		spec.New(spec.OrderBy(spec.Asc(func(w widget) string { return w.Brand }), byID())),
		func(w widget) string { return w.Brand },
	).WithDistinct()

	got := spec.EvaluateProjected(base, p)
	assert.Equal(t, []string{"acme", "globex"}, got)
}

func TestEvaluateProjectedAfterPaging(t *testing.T) {
	base := widgets(10)

	p := spec.NewProjected(
		spec.New(spec.OrderBy(byID()), spec.Page[widget](2, 3)),
		func(w widget) string { return w.Name },
	)

	got := spec.EvaluateProjected(base, p)
	assert.Equal(t, []string{"widget-03", "widget-04", "widget-05"}, got)
}
