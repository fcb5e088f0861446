package application

import (
	"time"

	"github.com/webshop-go/storefront/internal/order/domain"
)

// OrderDto is the caller-facing shape of an order.
type OrderDto struct {
	ID              int                    `json:"id"`
	BuyerEmail      string                 `json:"buyerEmail"`
	CreatedAt       time.Time              `json:"createdAt"`
	ShipTo          domain.ShippingAddress `json:"shipTo"`
	DeliveryMethod  string                 `json:"deliveryMethod"`
	ShippingCents   int64                  `json:"shippingCents"`
	Items           []*domain.OrderItem    `json:"items"`
	SubtotalCents   int64                  `json:"subtotalCents"`
	TotalCents      int64                  `json:"totalCents"`
	Payment         domain.PaymentSummary  `json:"payment"`
	PaymentIntentID string                 `json:"paymentIntentId"`
	Status          string                 `json:"status"`
}

func ToDto(o *domain.Order) OrderDto {
	dto := OrderDto{
		ID:              o.ID,
		BuyerEmail:      o.BuyerEmail,
		CreatedAt:       o.CreatedAt,
		ShipTo:          o.ShipTo,
		ShippingCents:   o.ShippingCents,
		Items:           o.Items,
		SubtotalCents:   o.SubtotalCents,
		TotalCents:      o.TotalCents(),
		Payment:         o.Payment,
		PaymentIntentID: o.PaymentIntentID,
		Status:          string(o.Status),
	}
	if o.DeliveryMethod != nil {
		dto.DeliveryMethod = o.DeliveryMethod.ShortName
	}
	return dto
}
