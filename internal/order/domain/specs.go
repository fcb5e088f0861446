package domain

import (
	"github.com/webshop-go/storefront/internal/store/spec"
)

const (
	IncludeItems          = "items"
	IncludeDeliveryMethod = "deliveryMethod"
)

func newestFirst() spec.Clause[*Order] {
	return spec.Compare(func(a, b *Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func withRelations() spec.Option[*Order] {
	return spec.Include[*Order](IncludeItems, IncludeDeliveryMethod)
}

// ForBuyer lists a buyer's orders newest first, with line items and delivery
// method attached.
func ForBuyer(email string) spec.Spec[*Order] {
	return spec.New(
		spec.Where(func(o *Order) bool { return o.BuyerEmail == email }),
		spec.OrderBy(newestFirst(), spec.Desc(func(o *Order) int { return o.ID })),
		withRelations(),
	)
}

// ByIDForBuyer scopes a point lookup to the order's owner.
func ByIDForBuyer(id int, email string) spec.Spec[*Order] {
	return spec.New(
		spec.Where(func(o *Order) bool { return o.ID == id && o.BuyerEmail == email }),
		withRelations(),
	)
}

func ByID(id int) spec.Spec[*Order] {
	return spec.New(
		spec.Where(func(o *Order) bool { return o.ID == id }),
		withRelations(),
	)
}

func ByPaymentIntent(intentID string) spec.Spec[*Order] {
	return spec.New(
		spec.Where(func(o *Order) bool { return o.PaymentIntentID == intentID }),
		withRelations(),
	)
}

// AdminSearch lists all orders newest first, optionally narrowed to one
// status.
func AdminSearch(status Status) spec.Spec[*Order] {
	return spec.New(
		spec.Where(func(o *Order) bool { return status == "" || o.Status == status }),
		spec.OrderBy(newestFirst(), spec.Desc(func(o *Order) int { return o.ID })),
		withRelations(),
	)
}
