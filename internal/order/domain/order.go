package domain

import (
	"time"

	catalog "github.com/webshop-go/storefront/internal/catalog/domain"
)

type Status string

const (
	StatusPending       Status = "pending"
	StatusPaid          Status = "paid"
	StatusPaymentFailed Status = "payment_failed"
	StatusRefunded      Status = "refunded"
)

type ShippingAddress struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type PaymentSummary struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"expMonth"`
	ExpYear  int    `json:"expYear"`
}

// OrderItem captures product name, picture and price as of checkout time,
// decoupled from the live catalog row.
type OrderItem struct {
	ID          int    `json:"id"`
	OrderID     int    `json:"-"`
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	PictureURL  string `json:"pictureUrl"`
	PriceCents  int64  `json:"priceCents"`
	Quantity    int    `json:"quantity"`
}

// Order is built once from a cart snapshot at checkout. SubtotalCents is
// computed at creation and never recomputed from live prices.
type Order struct {
	ID               int
	BuyerEmail       string
	CreatedAt        time.Time
	ShipTo           ShippingAddress
	DeliveryMethodID int
	DeliveryMethod   *catalog.DeliveryMethod
	Items            []*OrderItem
	SubtotalCents    int64
	ShippingCents    int64
	Payment          PaymentSummary
	PaymentIntentID  string
	Status           Status
}

func (o *Order) GetID() int   { return o.ID }
func (o *Order) SetID(id int) { o.ID = id }

func (o *Order) TotalCents() int64 { return o.SubtotalCents + o.ShippingCents }

func NewOrder(buyerEmail string, items []*OrderItem, method *catalog.DeliveryMethod, ship ShippingAddress, pay PaymentSummary, intentID string) *Order {
	var subtotal int64
	for _, it := range items {
		subtotal += it.PriceCents * int64(it.Quantity)
	}
	return &Order{
		BuyerEmail:       buyerEmail,
		CreatedAt:        time.Now().UTC(),
		ShipTo:           ship,
		DeliveryMethodID: method.ID,
		DeliveryMethod:   method,
		Items:            items,
		SubtotalCents:    subtotal,
		ShippingCents:    method.PriceCents,
		Payment:          pay,
		PaymentIntentID:  intentID,
		Status:           StatusPending,
	}
}
