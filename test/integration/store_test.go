package integration

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/webshop-go/storefront/internal/cart/domain"
	"github.com/webshop-go/storefront/internal/cart/infrastructure/redisstore"
	catalogapp "github.com/webshop-go/storefront/internal/catalog/application"
	catalogdomain "github.com/webshop-go/storefront/internal/catalog/domain"
	catalogpg "github.com/webshop-go/storefront/internal/catalog/infrastructure/postgres"
	orderapp "github.com/webshop-go/storefront/internal/order/application"
	orderdomain "github.com/webshop-go/storefront/internal/order/domain"
	orderpg "github.com/webshop-go/storefront/internal/order/infrastructure/postgres"
	"github.com/webshop-go/storefront/internal/store"
	"github.com/webshop-go/storefront/pkg/idempotency"
)

var env *Env

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	env, err = Setup(ctx)
	if err != nil {
		log.Fatalf("integration env: %v", err)
	}
	code := m.Run()
	env.Teardown(ctx)
	os.Exit(code)
}

type harness struct {
	pool       *pgxpool.Pool
	rdb        *redis.Client
	uow        func() *store.UnitOfWork
	catalogSvc *catalogapp.Service
	orderSvc   *orderapp.Service
	carts      *redisstore.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	if env == nil {
		t.Skip("integration environment disabled with -short")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, env.PGURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, store.EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE products, delivery_methods, orders, order_items, outbox RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: env.RedisAddr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.FlushAll(ctx).Err())

	reg := store.NewRegistry()
	catalogpg.BindTables(reg)
	orderpg.BindTables(reg)
	uow := func() *store.UnitOfWork { return store.NewUnitOfWork(pool, reg) }

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	carts := redisstore.NewStore(rdb, time.Hour)

	return &harness{
		pool:       pool,
		rdb:        rdb,
		uow:        uow,
		catalogSvc: catalogapp.NewService(logger, uow),
		orderSvc:   orderapp.NewService(logger, uow, carts),
		carts:      carts,
	}
}

func (h *harness) seedProduct(t *testing.T, name, brand, ptype string, priceCents int64) *catalogdomain.Product {
	t.Helper()
	p := &catalogdomain.Product{Name: name, Brand: brand, Type: ptype, PriceCents: priceCents, QuantityInStock: 10}
	require.NoError(t, h.catalogSvc.Create(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func (h *harness) seedDeliveryMethod(t *testing.T, priceCents int64) *catalogdomain.DeliveryMethod {
	t.Helper()
	u := h.uow()
	m := &catalogdomain.DeliveryMethod{ShortName: "standard", DeliveryTime: "2-5 days", PriceCents: priceCents}
	store.Repo[*catalogdomain.DeliveryMethod](u).Add(m)
	done, err := u.Complete(context.Background())
	require.NoError(t, err)
	require.True(t, done)
	return m
}

func TestProductCrudRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.seedProduct(t, "Core Board", "react", "boards", 12000)

	got, err := h.catalogSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Core Board", got.Name)
	assert.Equal(t, int64(12000), got.PriceCents)

	got.PriceCents = 9900
	require.NoError(t, h.catalogSvc.Update(ctx, got))

	again, err := h.catalogSvc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9900), again.PriceCents)

	require.NoError(t, h.catalogSvc.Delete(ctx, p.ID))
	_, err = h.catalogSvc.Get(ctx, p.ID)
	assert.Error(t, err)
}

func TestUpdateMissingProductRejected(t *testing.T) {
	h := newHarness(t)

	err := h.catalogSvc.Update(context.Background(), &catalogdomain.Product{ID: 424242, Name: "ghost", PriceCents: 100})
	assert.Error(t, err)
}

func TestProductSearchPaging(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		brand := "react"
		if i%2 == 0 {
			brand = "vue"
		}
		h.seedProduct(t, fmt.Sprintf("Board %02d", i), brand, "boards", int64(1000*i))
	}

	res, err := h.catalogSvc.List(ctx, catalogdomain.SearchParams{
		Sort:      catalogdomain.SortPriceAsc,
		PageIndex: 2,
		PageSize:  3,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, res.Count)
	require.Len(t, res.Data, 3)
	assert.Equal(t, "Board 04", res.Data[0].Name)
	assert.Equal(t, "Board 06", res.Data[2].Name)

	brands, err := h.catalogSvc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"react", "vue"}, brands)
}

func (h *harness) seedCheckout(t *testing.T) (*cartdomain.ShoppingCart, *catalogdomain.Product, *catalogdomain.DeliveryMethod) {
	t.Helper()
	ctx := context.Background()

	p := h.seedProduct(t, "Core Board", "react", "boards", 12000)
	m := h.seedDeliveryMethod(t, 500)

	c := cartdomain.New("cart-it-1")
	c.Items = append(c.Items, &cartdomain.CartItem{
		ProductID: p.ID, ProductName: p.Name, PriceCents: p.PriceCents, Quantity: 2,
	})
	c.PaymentIntentID = "pi_it_1"
	_, err := h.carts.Set(ctx, c)
	require.NoError(t, err)
	return c, p, m
}

func TestCheckoutPersistsOrderItemsAndOutboxRow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c, p, m := h.seedCheckout(t)

	o, err := h.orderSvc.Create(ctx, orderapp.CreateOrderInput{
		CartID:           c.ID,
		BuyerEmail:       "jo@example.com",
		DeliveryMethodID: m.ID,
		ShipTo:           orderdomain.ShippingAddress{Name: "Jo", Line1: "1 Main St", City: "Berlin", Country: "DE"},
	})
	require.NoError(t, err)
	require.NotZero(t, o.ID)
	assert.Equal(t, int64(24000), o.SubtotalCents)
	assert.Equal(t, int64(24500), o.TotalCents())

	dto, err := h.orderSvc.GetForBuyer(ctx, o.ID, "jo@example.com")
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, p.ID, dto.Items[0].ProductID)
	assert.Equal(t, 2, dto.Items[0].Quantity)

	var pendingEvents int
	require.NoError(t, h.pool.QueryRow(ctx,
		`SELECT count(*) FROM outbox WHERE status='pending' AND type='OrderCreated'`).Scan(&pendingEvents))
	assert.Equal(t, 1, pendingEvents)

	gone, err := h.carts.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMarkByPaymentIntentIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c, _, m := h.seedCheckout(t)
	o, err := h.orderSvc.Create(ctx, orderapp.CreateOrderInput{
		CartID: c.ID, BuyerEmail: "jo@example.com", DeliveryMethodID: m.ID,
	})
	require.NoError(t, err)

	require.NoError(t, h.orderSvc.MarkByPaymentIntent(ctx, "pi_it_1", orderdomain.StatusPaid))

	paid, err := h.orderSvc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusPaid, paid.Status)

	// a late duplicate must not flip a settled order
	require.NoError(t, h.orderSvc.MarkByPaymentIntent(ctx, "pi_it_1", orderdomain.StatusPaymentFailed))

	still, err := h.orderSvc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, orderdomain.StatusPaid, still.Status)
}

func TestOutboxLockBatchLeasesRows(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	c, _, m := h.seedCheckout(t)
	_, err := h.orderSvc.Create(ctx, orderapp.CreateOrderInput{
		CartID: c.ID, BuyerEmail: "jo@example.com", DeliveryMethodID: m.ID,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	obs := store.NewOutboxStore(logger, h.pool)

	events, err := obs.LockBatch(ctx, "relay-a", 10, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "OrderCreated", events[0].Type)
	assert.Equal(t, c.ID, events[0].AggregateID)

	// the lease keeps a second relay from picking the same rows up
	again, err := obs.LockBatch(ctx, "relay-b", 10, 5*time.Second)
	require.NoError(t, err)
	assert.Empty(t, again)

	require.NoError(t, obs.MarkSent(ctx, []int64{events[0].ID}))

	var status string
	require.NoError(t, h.pool.QueryRow(ctx, `SELECT status FROM outbox WHERE id=$1`, events[0].ID).Scan(&status))
	assert.Equal(t, "sent", status)
}

func TestCartStoreRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	missing, err := h.carts.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	c := cartdomain.New("cart-rt")
	c.Items = append(c.Items, &cartdomain.CartItem{ProductID: 1, ProductName: "board", PriceCents: 1000, Quantity: 1})
	_, err = h.carts.Set(ctx, c)
	require.NoError(t, err)

	got, err := h.carts.Get(ctx, "cart-rt")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1000), got.Items[0].PriceCents)

	require.NoError(t, h.carts.Delete(ctx, "cart-rt"))
	gone, err := h.carts.Get(ctx, "cart-rt")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestIdempotencyStore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	idem := idempotency.NewStore(h.rdb, time.Minute)
	key := idem.Key("payment.events", 0, 42)

	seen, err := idem.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = idem.Seen(ctx, key)
	require.NoError(t, err)
	assert.True(t, seen)

	ok, err := idem.TryLock(ctx, "cart-lock:x", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = idem.TryLock(ctx, "cart-lock:x", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, idem.Unlock(ctx, "cart-lock:x"))
	ok, err = idem.TryLock(ctx, "cart-lock:x", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
