package domain

import (
	"slices"
	"strings"

	"github.com/webshop-go/storefront/internal/store/spec"
)

const (
	SortName      = "name"
	SortPriceAsc  = "priceAsc"
	SortPriceDesc = "priceDesc"
)

// SearchParams are the normalized product listing parameters.
type SearchParams struct {
	Brands    []string
	Types     []string
	Search    string
	Sort      string
	PageIndex int
	PageSize  int
}

// Search builds the product listing spec: brand/type membership and a
// case-insensitive name match, ordered per the sort key with id as tie-break.
// Paging is applied by the page builder, not here.
func Search(p SearchParams) spec.Spec[*Product] {
	search := strings.ToLower(p.Search)

	filter := func(pr *Product) bool {
		if len(p.Brands) > 0 && !slices.Contains(p.Brands, pr.Brand) {
			return false
		}
		if len(p.Types) > 0 && !slices.Contains(p.Types, pr.Type) {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(pr.Name), search) {
			return false
		}
		return true
	}

	var primary spec.Clause[*Product]
	switch p.Sort {
	case SortPriceAsc:
		primary = spec.Asc(func(pr *Product) int64 { return pr.PriceCents })
	case SortPriceDesc:
		primary = spec.Desc(func(pr *Product) int64 { return pr.PriceCents })
	default:
		primary = spec.Asc(func(pr *Product) string { return pr.Name })
	}

	return spec.New(
		spec.Where(filter),
		spec.OrderBy(primary, spec.Asc(func(pr *Product) int { return pr.ID })),
	)
}

// ByIDSpec matches a single product; exercised by callers that also need
// includes or projections on a point lookup.
func ByIDSpec(id int) spec.Spec[*Product] {
	return spec.New(spec.Where(func(pr *Product) bool { return pr.ID == id }))
}

// BrandList projects the catalog to its distinct brand names, sorted.
func BrandList() spec.Projected[*Product, string] {
	base := spec.New(spec.OrderBy(spec.Asc(func(pr *Product) string { return pr.Brand })))
	return spec.NewProjected(base, func(pr *Product) string { return pr.Brand }).WithDistinct()
}

// TypeList projects the catalog to its distinct type names, sorted.
func TypeList() spec.Projected[*Product, string] {
	base := spec.New(spec.OrderBy(spec.Asc(func(pr *Product) string { return pr.Type })))
	return spec.NewProjected(base, func(pr *Product) string { return pr.Type }).WithDistinct()
}

// DeliveryMethodsByPrice lists delivery options cheapest first.
func DeliveryMethodsByPrice() spec.Spec[*DeliveryMethod] {
	return spec.New(spec.OrderBy(
		spec.Asc(func(d *DeliveryMethod) int64 { return d.PriceCents }),
		spec.Asc(func(d *DeliveryMethod) int { return d.ID }),
	))
}
