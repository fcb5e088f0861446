package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	cart "github.com/webshop-go/storefront/internal/cart/domain"
	order "github.com/webshop-go/storefront/internal/order/domain"
	"github.com/webshop-go/storefront/pkg/apperr"
)

const lockTTL = 10 * time.Second

// Service reconciles cart totals with the payment gateway and runs refunds.
type Service struct {
	log      *slog.Logger
	carts    CartStore
	catalog  Catalog
	orders   Orders
	gateway  Gateway
	locks    Locker
	currency string
}

func NewService(log *slog.Logger, carts CartStore, cat Catalog, orders Orders, gw Gateway, locks Locker, currency string) *Service {
	return &Service{
		log:      log,
		carts:    carts,
		catalog:  cat,
		orders:   orders,
		gateway:  gw,
		locks:    locks,
		currency: currency,
	}
}

// Reconcile recomputes the cart's chargeable total and syncs it to the
// gateway intent, creating one on first call and updating the same intent on
// every call after that. Safe to re-run: with unchanged inputs the second run
// updates the existing intent to the same amount. A failed gateway call
// leaves the cart's stored intent id untouched.
func (s *Service) Reconcile(ctx context.Context, cartID string) (*cart.ShoppingCart, error) {
	lockKey := "cart-lock:" + cartID
	ok, err := s.locks.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, apperr.Store("payment.reconcile", err)
	}
	if !ok {
		return nil, apperr.InvalidState("payment.reconcile", "cart is being reconciled by another request")
	}
	defer func() {
		if err := s.locks.Unlock(ctx, lockKey); err != nil {
			s.log.Warn("cart lock release failed", "cart_id", cartID, "err", err)
		}
	}()

	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("payment.reconcile", "cart not found")
	}

	shipping, err := s.shippingPrice(ctx, c)
	if err != nil {
		return nil, err
	}

	if err := s.refreshItemPrices(ctx, c); err != nil {
		return nil, err
	}

	subtotal := subtotalCents(c)

	if c.Coupon != nil {
		coupon, err := s.gateway.Coupon(ctx, c.Coupon.CouponID)
		if err != nil {
			return nil, apperr.Gateway("payment.reconcile", err)
		}
		subtotal = applyDiscount(coupon, subtotal)
	}

	total := subtotal + shipping

	if err := s.createOrUpdateIntent(ctx, c, total); err != nil {
		return nil, err
	}

	return s.carts.Set(ctx, c)
}

func (s *Service) shippingPrice(ctx context.Context, c *cart.ShoppingCart) (int64, error) {
	if c.DeliveryMethodID == nil {
		return 0, nil
	}
	method, ok, err := s.catalog.DeliveryMethod(ctx, *c.DeliveryMethodID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, apperr.NotFound("payment.reconcile", "delivery method not found")
	}
	return method.PriceCents, nil
}

// refreshItemPrices overwrites stale snapshot prices with the catalog's
// current price so the customer is charged what the catalog says today.
func (s *Service) refreshItemPrices(ctx context.Context, c *cart.ShoppingCart) error {
	for _, it := range c.Items {
		p, ok, err := s.catalog.Product(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("payment.reconcile", "product no longer in catalog")
		}
		if it.PriceCents != p.PriceCents {
			it.PriceCents = p.PriceCents
		}
	}
	return nil
}

func subtotalCents(c *cart.ShoppingCart) int64 {
	var sum int64
	for _, it := range c.Items {
		sum += int64(it.Quantity) * it.PriceCents
	}
	return sum
}

// applyDiscount applies a single coupon. Flat amounts subtract directly,
// floored at zero. Percent discounts truncate toward zero so repeated
// reconciliations never drift the charge upward.
func applyDiscount(coupon Coupon, amountCents int64) int64 {
	switch {
	case coupon.AmountOffCents > 0:
		amountCents -= coupon.AmountOffCents
		if amountCents < 0 {
			amountCents = 0
		}
	case coupon.PercentOff > 0:
		discount := decimal.NewFromInt(amountCents).
			Mul(decimal.NewFromFloat(coupon.PercentOff)).
			Div(decimal.NewFromInt(100)).
			Truncate(0).
			IntPart()
		amountCents -= discount
	}
	return amountCents
}

func (s *Service) createOrUpdateIntent(ctx context.Context, c *cart.ShoppingCart, totalCents int64) error {
	if c.PaymentIntentID == "" {
		intent, err := s.gateway.CreateIntent(ctx, totalCents, s.currency)
		if err != nil {
			return apperr.Gateway("payment.reconcile", err)
		}
		c.PaymentIntentID = intent.ID
		c.ClientSecret = intent.ClientSecret
		return nil
	}

	if err := s.gateway.UpdateIntent(ctx, c.PaymentIntentID, totalCents); err != nil {
		return apperr.Gateway("payment.reconcile", err)
	}
	return nil
}

// Refund reverses a paid order's charge. The order transitions to refunded
// only on a succeeded gateway status; on anything else its state is left
// untouched and the failure is reported.
func (s *Service) Refund(ctx context.Context, orderID int) (*order.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusPaid {
		return nil, apperr.InvalidState("payment.refund", "payment not received for this order")
	}

	status, err := s.gateway.Refund(ctx, o.PaymentIntentID)
	if err != nil {
		return nil, apperr.Gateway("payment.refund", err)
	}
	if status != order.PaymentStatusSucceeded {
		return nil, apperr.Gatewayf("payment.refund", "refund rejected with status %q", status)
	}

	done, err := s.orders.SetStatus(ctx, o, order.StatusRefunded)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, apperr.Storef("payment.refund", "order status not updated")
	}
	return o, nil
}
