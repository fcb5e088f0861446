package domain

// CartItem snapshots a product at the moment it entered the cart. The price
// is refreshed against the catalog before any chargeable total is computed.
type CartItem struct {
	ProductID  int    `json:"productId"`
	ProductName string `json:"productName"`
	PriceCents int64  `json:"priceCents"`
	Quantity   int    `json:"quantity"`
	PictureURL string `json:"pictureUrl"`
	Brand      string `json:"brand"`
	Type       string `json:"type"`
}

type Coupon struct {
	CouponID string `json:"couponId"`
	Name     string `json:"name"`
}

// ShoppingCart lives in the cart store under an opaque id chosen by the
// client; the store owns its TTL.
type ShoppingCart struct {
	ID               string     `json:"id"`
	Items            []*CartItem `json:"items"`
	DeliveryMethodID *int       `json:"deliveryMethodId,omitempty"`
	Coupon           *Coupon    `json:"coupon,omitempty"`
	PaymentIntentID  string     `json:"paymentIntentId,omitempty"`
	ClientSecret     string     `json:"clientSecret,omitempty"`
}

func New(id string) *ShoppingCart {
	return &ShoppingCart{ID: id, Items: []*CartItem{}}
}
