package application

import (
	"context"

	cart "github.com/webshop-go/storefront/internal/cart/domain"
)

// CartReader is the slice of the cart store checkout needs.
type CartReader interface {
	Get(ctx context.Context, id string) (*cart.ShoppingCart, error)
	Delete(ctx context.Context, id string) error
}
