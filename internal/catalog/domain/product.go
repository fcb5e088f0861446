package domain

// Product is a catalog entry. Prices are minor units (cents).
type Product struct {
	ID              int    `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	Description     string `db:"description" json:"description"`
	PriceCents      int64  `db:"price_cents" json:"priceCents"`
	PictureURL      string `db:"picture_url" json:"pictureUrl"`
	Type            string `db:"type" json:"type"`
	Brand           string `db:"brand" json:"brand"`
	QuantityInStock int    `db:"quantity_in_stock" json:"quantityInStock"`
}

func (p *Product) GetID() int   { return p.ID }
func (p *Product) SetID(id int) { p.ID = id }

type DeliveryMethod struct {
	ID           int    `db:"id" json:"id"`
	ShortName    string `db:"short_name" json:"shortName"`
	DeliveryTime string `db:"delivery_time" json:"deliveryTime"`
	Description  string `db:"description" json:"description"`
	PriceCents   int64  `db:"price_cents" json:"priceCents"`
}

func (d *DeliveryMethod) GetID() int   { return d.ID }
func (d *DeliveryMethod) SetID(id int) { d.ID = id }
