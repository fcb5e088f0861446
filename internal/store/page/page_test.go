package page_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webshop-go/storefront/internal/store/page"
	"github.com/webshop-go/storefront/internal/store/spec"
)

type row struct {
	ID   int
	Name string
}

type sliceLister struct {
	rows   []row
	countN int
	listN  int
	failOn string
}

func (l *sliceLister) Count(_ context.Context, s spec.Spec[row]) (int, error) {
	if l.failOn == "count" {
		return 0, errors.New("count failed")
	}
	l.countN++
	return spec.Count(l.rows, s), nil
}

func (l *sliceLister) ListWithSpec(_ context.Context, s spec.Spec[row]) ([]row, error) {
	if l.failOn == "list" {
		return nil, errors.New("list failed")
	}
	l.listN++
	return spec.Evaluate(l.rows, s), nil
}

func seven() []row {
	return []row{
		{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}, {5, "e"}, {6, "f"}, {7, "g"},
	}
}

func ordered() spec.Spec[row] {
	return spec.New(spec.OrderBy(spec.Asc(func(r row) int { return r.ID })))
}

func TestBuildSecondPage(t *testing.T) {
	l := &sliceLister{rows: seven()}

	got, err := page.Build(context.Background(), l, ordered(), 2, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, got.PageIndex)
	assert.Equal(t, 3, got.PageSize)
	assert.Equal(t, 7, got.Count)
	require.Len(t, got.Data, 3)
	assert.Equal(t, []int{4, 5, 6}, []int{got.Data[0].ID, got.Data[1].ID, got.Data[2].ID})
}

func TestBuildLastPartialPage(t *testing.T) {
	l := &sliceLister{rows: seven()}

	got, err := page.Build(context.Background(), l, ordered(), 3, 3)
	require.NoError(t, err)

	assert.Equal(t, 7, got.Count)
	require.Len(t, got.Data, 1)
	assert.Equal(t, 7, got.Data[0].ID)
}

func TestBuildPastTheEnd(t *testing.T) {
	l := &sliceLister{rows: seven()}

	got, err := page.Build(context.Background(), l, ordered(), 9, 3)
	require.NoError(t, err)

	assert.Equal(t, 7, got.Count)
	assert.Empty(t, got.Data)
}

func TestBuildCountUsesFilterNotWindow(t *testing.T) {
	l := &sliceLister{rows: seven()}
	s := spec.New(
		spec.Where(func(r row) bool { return r.ID > 2 }),
		spec.OrderBy(spec.Asc(func(r row) int { return r.ID })),
	)

	got, err := page.Build(context.Background(), l, s, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, got.Count)
	assert.Len(t, got.Data, 2)
	assert.Equal(t, 1, l.countN)
	assert.Equal(t, 1, l.listN)
}

func TestBuildClampsBadPageParams(t *testing.T) {
	l := &sliceLister{rows: seven()}

	got, err := page.Build(context.Background(), l, ordered(), 0, -5)
	require.NoError(t, err)

	assert.Equal(t, 1, got.PageIndex)
	assert.Equal(t, 1, got.PageSize)
	require.Len(t, got.Data, 1)
	assert.Equal(t, 1, got.Data[0].ID)
}

func TestBuildMapped(t *testing.T) {
	l := &sliceLister{rows: seven()}

	got, err := page.BuildMapped(context.Background(), l, ordered(), 1, 2, func(r row) string { return r.Name })
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got.Data)
}

func TestBuildPropagatesErrors(t *testing.T) {
	_, err := page.Build(context.Background(), &sliceLister{rows: seven(), failOn: "count"}, ordered(), 1, 3)
	assert.Error(t, err)

	_, err = page.Build(context.Background(), &sliceLister{rows: seven(), failOn: "list"}, ordered(), 1, 3)
	assert.Error(t, err)
}
