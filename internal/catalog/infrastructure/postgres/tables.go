// Package postgres binds catalog entities to their tables.
package postgres

import (
	"github.com/jackc/pgx/v5"

	"github.com/webshop-go/storefront/internal/catalog/domain"
	"github.com/webshop-go/storefront/internal/store"
)

func BindTables(reg *store.Registry) {
	store.Bind(reg, productTable())
	store.Bind(reg, deliveryMethodTable())
}

func productTable() *store.Table[*domain.Product] {
	return &store.Table[*domain.Product]{
		Name: "products",
		SelectSQL: `SELECT id, name, description, price_cents, picture_url, type, brand, quantity_in_stock
			FROM products`,
		InsertSQL: `INSERT INTO products (name, description, price_cents, picture_url, type, brand, quantity_in_stock)
			VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		InsertArgs: func(p *domain.Product) []any {
			return []any{p.Name, p.Description, p.PriceCents, p.PictureURL, p.Type, p.Brand, p.QuantityInStock}
		},
		UpdateSQL: `UPDATE products SET name=$1, description=$2, price_cents=$3, picture_url=$4, type=$5, brand=$6, quantity_in_stock=$7
			WHERE id=$8`,
		UpdateArgs: func(p *domain.Product) []any {
			return []any{p.Name, p.Description, p.PriceCents, p.PictureURL, p.Type, p.Brand, p.QuantityInStock, p.ID}
		},
		RowTo: pgx.RowToAddrOfStructByNameLax[domain.Product],
	}
}

func deliveryMethodTable() *store.Table[*domain.DeliveryMethod] {
	return &store.Table[*domain.DeliveryMethod]{
		Name:      "delivery_methods",
		SelectSQL: `SELECT id, short_name, delivery_time, description, price_cents FROM delivery_methods`,
		InsertSQL: `INSERT INTO delivery_methods (short_name, delivery_time, description, price_cents)
			VALUES ($1,$2,$3,$4) RETURNING id`,
		InsertArgs: func(d *domain.DeliveryMethod) []any {
			return []any{d.ShortName, d.DeliveryTime, d.Description, d.PriceCents}
		},
		UpdateSQL: `UPDATE delivery_methods SET short_name=$1, delivery_time=$2, description=$3, price_cents=$4 WHERE id=$5`,
		UpdateArgs: func(d *domain.DeliveryMethod) []any {
			return []any{d.ShortName, d.DeliveryTime, d.Description, d.PriceCents, d.ID}
		},
		RowTo: pgx.RowToAddrOfStructByNameLax[domain.DeliveryMethod],
	}
}
