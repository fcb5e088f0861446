package application

import (
	"context"
	"encoding/json"
	"log/slog"

	catalog "github.com/webshop-go/storefront/internal/catalog/domain"
	"github.com/webshop-go/storefront/internal/order/domain"
	"github.com/webshop-go/storefront/internal/store"
	"github.com/webshop-go/storefront/internal/store/page"
	"github.com/webshop-go/storefront/pkg/apperr"
	"github.com/webshop-go/storefront/pkg/outbox"
	"github.com/webshop-go/storefront/pkg/tracing"
)

// CreateOrderInput carries the checkout request.
type CreateOrderInput struct {
	CartID           string                 `json:"cartId"`
	BuyerEmail       string                 `json:"-"`
	DeliveryMethodID int                    `json:"deliveryMethodId"`
	ShipTo           domain.ShippingAddress `json:"shipTo"`
	Payment          domain.PaymentSummary  `json:"payment"`
}

// AdminParams narrows and pages the admin order listing.
type AdminParams struct {
	Status    domain.Status
	PageIndex int
	PageSize  int
}

type Service struct {
	log   *slog.Logger
	uow   func() *store.UnitOfWork
	carts CartReader
}

func NewService(log *slog.Logger, uow func() *store.UnitOfWork, carts CartReader) *Service {
	return &Service{log: log, uow: uow, carts: carts}
}

// Create builds the order from the cart snapshot: line items capture current
// catalog name, picture and price; the subtotal is fixed here. The order row,
// its items and the OrderCreated outbox event commit together.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	c, err := s.carts.Get(ctx, in.CartID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("order.create", "cart not found")
	}
	if c.PaymentIntentID == "" {
		return nil, apperr.InvalidState("order.create", "cart has no payment intent")
	}

	u := s.uow()
	products := store.Repo[*catalog.Product](u)

	items := make([]*domain.OrderItem, 0, len(c.Items))
	for _, it := range c.Items {
		p, ok, err := products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.NotFound("order.create", "product no longer in catalog")
		}
		items = append(items, &domain.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			PictureURL:  p.PictureURL,
			PriceCents:  p.PriceCents,
			Quantity:    it.Quantity,
		})
	}
	if len(items) == 0 {
		return nil, apperr.InvalidState("order.create", "cart is empty")
	}

	method, ok, err := store.Repo[*catalog.DeliveryMethod](u).GetByID(ctx, in.DeliveryMethodID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("order.create", "delivery method not found")
	}

	o := domain.NewOrder(in.BuyerEmail, items, method, in.ShipTo, in.Payment, c.PaymentIntentID)
	store.Repo[*domain.Order](u).Add(o)

	traceparent := tracing.Traceparent(ctx)
	u.EnqueueEvent(func() outbox.Event {
		ev := domain.OrderCreated{
			OrderID:         o.ID,
			BuyerEmail:      o.BuyerEmail,
			TotalCents:      o.TotalCents(),
			PaymentIntentID: o.PaymentIntentID,
		}
		for _, it := range o.Items {
			ev.Items = append(ev.Items, domain.OrderItemEvent{
				ProductID:  it.ProductID,
				Quantity:   it.Quantity,
				PriceCents: it.PriceCents,
			})
		}
		payload, _ := json.Marshal(ev)
		return outbox.Event{
			AggregateType: "order",
			AggregateID:   in.CartID,
			Type:          "OrderCreated",
			Payload:       payload,
			Traceparent:   traceparent,
		}
	})

	done, err := u.Complete(ctx)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, apperr.Storef("order.create", "order not persisted")
	}

	if err := s.carts.Delete(ctx, in.CartID); err != nil {
		s.log.Warn("cart cleanup after checkout failed", "cart_id", in.CartID, "err", err)
	}
	return o, nil
}

func (s *Service) ListForBuyer(ctx context.Context, email string) ([]OrderDto, error) {
	repo := store.Repo[*domain.Order](s.uow())
	orders, err := repo.ListWithSpec(ctx, domain.ForBuyer(email))
	if err != nil {
		return nil, err
	}

	dtos := make([]OrderDto, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, ToDto(o))
	}
	return dtos, nil
}

func (s *Service) GetForBuyer(ctx context.Context, id int, email string) (OrderDto, error) {
	repo := store.Repo[*domain.Order](s.uow())
	o, ok, err := repo.GetWithSpec(ctx, domain.ByIDForBuyer(id, email))
	if err != nil {
		return OrderDto{}, err
	}
	if !ok {
		return OrderDto{}, apperr.NotFound("order.get", "order not found")
	}
	return ToDto(o), nil
}

// Get is the admin point lookup, unscoped by buyer.
func (s *Service) Get(ctx context.Context, id int) (*domain.Order, error) {
	repo := store.Repo[*domain.Order](s.uow())
	o, ok, err := repo.GetWithSpec(ctx, domain.ByID(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("order.get", "order not found")
	}
	return o, nil
}

func (s *Service) ListAdmin(ctx context.Context, p AdminParams) (page.Result[OrderDto], error) {
	repo := store.Repo[*domain.Order](s.uow())
	return page.BuildMapped(ctx, repo, domain.AdminSearch(p.Status), p.PageIndex, p.PageSize, ToDto)
}

// SetStatus transitions an already-loaded order and commits. The caller is
// responsible for having validated the transition.
func (s *Service) SetStatus(ctx context.Context, o *domain.Order, status domain.Status) (bool, error) {
	u := s.uow()
	o.Status = status
	store.Repo[*domain.Order](u).Update(o)
	return u.Complete(ctx)
}

// MarkByPaymentIntent records a settled payment against the matching order.
func (s *Service) MarkByPaymentIntent(ctx context.Context, intentID string, status domain.Status) error {
	u := s.uow()
	repo := store.Repo[*domain.Order](u)

	o, ok, err := repo.GetWithSpec(ctx, domain.ByPaymentIntent(intentID))
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("order.mark", "no order for payment intent")
	}
	if o.Status != domain.StatusPending {
		s.log.Info("payment event ignored, order already settled",
			"order_id", o.ID, "status", string(o.Status))
		return nil
	}

	o.Status = status
	repo.Update(o)

	done, err := u.Complete(ctx)
	if err != nil {
		return err
	}
	if !done {
		return apperr.Storef("order.mark", "order status not updated")
	}
	return nil
}
