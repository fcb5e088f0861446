// Package postgres binds the order aggregate to its tables: the orders row,
// its child order_items and the delivery method include.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	catalog "github.com/webshop-go/storefront/internal/catalog/domain"
	"github.com/webshop-go/storefront/internal/order/domain"
	"github.com/webshop-go/storefront/internal/store"
)

func BindTables(reg *store.Registry) {
	store.Bind(reg, orderTable())
}

func orderTable() *store.Table[*domain.Order] {
	return &store.Table[*domain.Order]{
		Name: "orders",
		SelectSQL: `SELECT id, buyer_email, created_at,
			ship_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country,
			delivery_method_id, subtotal_cents, shipping_cents,
			card_brand, card_last4, card_exp_month, card_exp_year,
			payment_intent_id, status
			FROM orders`,
		InsertSQL: `INSERT INTO orders (buyer_email, created_at,
			ship_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country,
			delivery_method_id, subtotal_cents, shipping_cents,
			card_brand, card_last4, card_exp_month, card_exp_year,
			payment_intent_id, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18) RETURNING id`,
		InsertArgs: func(o *domain.Order) []any {
			return []any{o.BuyerEmail, o.CreatedAt,
				o.ShipTo.Name, o.ShipTo.Line1, o.ShipTo.Line2, o.ShipTo.City, o.ShipTo.State, o.ShipTo.PostalCode, o.ShipTo.Country,
				o.DeliveryMethodID, o.SubtotalCents, o.ShippingCents,
				o.Payment.Brand, o.Payment.Last4, o.Payment.ExpMonth, o.Payment.ExpYear,
				o.PaymentIntentID, string(o.Status)}
		},
		UpdateSQL: `UPDATE orders SET status=$1 WHERE id=$2`,
		UpdateArgs: func(o *domain.Order) []any {
			return []any{string(o.Status), o.ID}
		},
		AfterInsert: insertItems,
		Includes: map[string]store.IncludeFn[*domain.Order]{
			domain.IncludeItems:          loadItems,
			domain.IncludeDeliveryMethod: loadDeliveryMethods,
		},
		RowTo: rowToOrder,
	}
}

func rowToOrder(row pgx.CollectableRow) (*domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(&o.ID, &o.BuyerEmail, &o.CreatedAt,
		&o.ShipTo.Name, &o.ShipTo.Line1, &o.ShipTo.Line2, &o.ShipTo.City, &o.ShipTo.State, &o.ShipTo.PostalCode, &o.ShipTo.Country,
		&o.DeliveryMethodID, &o.SubtotalCents, &o.ShippingCents,
		&o.Payment.Brand, &o.Payment.Last4, &o.Payment.ExpMonth, &o.Payment.ExpYear,
		&o.PaymentIntentID, &status)
	if err != nil {
		return nil, err
	}
	o.Status = domain.Status(status)
	return &o, nil
}

func insertItems(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	batch := &pgx.Batch{}
	for _, it := range o.Items {
		it.OrderID = o.ID
		batch.Queue(`INSERT INTO order_items (order_id, product_id, product_name, picture_url, price_cents, quantity)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			it.OrderID, it.ProductID, it.ProductName, it.PictureURL, it.PriceCents, it.Quantity)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func loadItems(ctx context.Context, q store.Querier, orders []*domain.Order) error {
	ids := make([]int, 0, len(orders))
	byID := make(map[int]*domain.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.Items = nil
	}

	rows, err := q.Query(ctx, `SELECT id, order_id, product_id, product_name, picture_url, price_cents, quantity
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.PictureURL, &it.PriceCents, &it.Quantity); err != nil {
			return err
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, &it)
		}
	}
	return rows.Err()
}

func loadDeliveryMethods(ctx context.Context, q store.Querier, orders []*domain.Order) error {
	ids := make([]int, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.DeliveryMethodID)
	}

	rows, err := q.Query(ctx, `SELECT id, short_name, delivery_time, description, price_cents
		FROM delivery_methods WHERE id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	methods, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[catalog.DeliveryMethod])
	if err != nil {
		return err
	}

	byID := make(map[int]*catalog.DeliveryMethod, len(methods))
	for _, m := range methods {
		byID[m.ID] = m
	}
	for _, o := range orders {
		o.DeliveryMethod = byID[o.DeliveryMethodID]
	}
	return nil
}
