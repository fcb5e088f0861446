package domain

type OrderCreated struct {
	OrderID         int              `json:"orderId"`
	BuyerEmail      string           `json:"buyerEmail"`
	TotalCents      int64            `json:"totalCents"`
	PaymentIntentID string           `json:"paymentIntentId"`
	Items           []OrderItemEvent `json:"items"`
}

type OrderItemEvent struct {
	ProductID  int   `json:"productId"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"priceCents"`
}

// PaymentEvent is published onto the payment topic when an intent settles.
type PaymentEvent struct {
	PaymentIntentID string `json:"paymentIntentId"`
	Status          string `json:"status"`
}

const (
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)
