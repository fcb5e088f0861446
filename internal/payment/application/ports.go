package application

import (
	"context"
	"time"

	cart "github.com/webshop-go/storefront/internal/cart/domain"
	catalog "github.com/webshop-go/storefront/internal/catalog/domain"
	order "github.com/webshop-go/storefront/internal/order/domain"
)

type CartStore interface {
	Get(ctx context.Context, id string) (*cart.ShoppingCart, error)
	Set(ctx context.Context, c *cart.ShoppingCart) (*cart.ShoppingCart, error)
}

// Catalog resolves authoritative prices during reconciliation.
type Catalog interface {
	Product(ctx context.Context, id int) (*catalog.Product, bool, error)
	DeliveryMethod(ctx context.Context, id int) (*catalog.DeliveryMethod, bool, error)
}

// Orders is the slice of the order service the refund path needs.
type Orders interface {
	Get(ctx context.Context, id int) (*order.Order, error)
	SetStatus(ctx context.Context, o *order.Order, status order.Status) (bool, error)
}

type Intent struct {
	ID           string
	ClientSecret string
}

// Coupon carries at most one kind of discount; AmountOffCents wins when both
// are set.
type Coupon struct {
	AmountOffCents int64
	PercentOff     float64
}

// Gateway is the narrow payment-provider contract. Refund returns the
// provider's status string.
type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (Intent, error)
	UpdateIntent(ctx context.Context, id string, amountCents int64) error
	Refund(ctx context.Context, intentID string) (string, error)
	Coupon(ctx context.Context, id string) (Coupon, error)
}

// Locker serializes reconciliation per cart id.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}
