package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/webshop-go/storefront/pkg/config"
	"github.com/webshop-go/storefront/pkg/idempotency"
	"github.com/webshop-go/storefront/pkg/logging"
	"github.com/webshop-go/storefront/pkg/outbox"
	"github.com/webshop-go/storefront/pkg/shutdown"
	"github.com/webshop-go/storefront/pkg/tracing"

	carthttp "github.com/webshop-go/storefront/internal/cart/infrastructure/http"
	cartredis "github.com/webshop-go/storefront/internal/cart/infrastructure/redisstore"
	catalogapp "github.com/webshop-go/storefront/internal/catalog/application"
	cataloghttp "github.com/webshop-go/storefront/internal/catalog/infrastructure/http"
	catalogpg "github.com/webshop-go/storefront/internal/catalog/infrastructure/postgres"
	orderapp "github.com/webshop-go/storefront/internal/order/application"
	orderhttp "github.com/webshop-go/storefront/internal/order/infrastructure/http"
	orderkafka "github.com/webshop-go/storefront/internal/order/infrastructure/kafka"
	orderpg "github.com/webshop-go/storefront/internal/order/infrastructure/postgres"
	paymentapp "github.com/webshop-go/storefront/internal/payment/application"
	"github.com/webshop-go/storefront/internal/payment/infrastructure/gateway"
	paymenthttp "github.com/webshop-go/storefront/internal/payment/infrastructure/http"
	"github.com/webshop-go/storefront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "storefront", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	// Postgres
	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := store.EnsureSchema(ctx, pool); err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	// Table bindings, shared by every request-scoped unit of work
	reg := store.NewRegistry()
	catalogpg.BindTables(reg)
	orderpg.BindTables(reg)
	uow := func() *store.UnitOfWork { return store.NewUnitOfWork(pool, reg) }

	// Kafka producer + outbox relay
	writer := orderkafka.NewWriter(cfg.KafkaAddr)
	defer writer.Close()

	outboxStore := store.NewOutboxStore(log, pool)
	dispatch := outbox.NewDispatcher(log, writer, cfg.OrderTopic)
	relay := outbox.NewRelay(log, outboxStore, dispatch, "storefront-relay-"+uuid.NewString())

	// Stores and services
	carts := cartredis.NewStore(rdb, cfg.CartTTL)
	idem := idempotency.NewStore(rdb, 24*time.Hour)

	catalogSvc := catalogapp.NewService(log, uow)
	orderSvc := orderapp.NewService(log, uow, carts)
	gw := gateway.NewClient(cfg.GatewayURL, cfg.GatewayKey)
	paymentSvc := paymentapp.NewService(log, carts, catalogSvc, orderSvc, gw, idem, cfg.Currency)

	consumer := orderkafka.NewConsumer(log, cfg.KafkaAddr, cfg.PaymentTopic, cfg.PaymentGroup, orderSvc, idem)

	// HTTP surface
	r := chi.NewRouter()
	cataloghttp.NewHandler(log, catalogSvc).Register(r)
	carthttp.NewHandler(log, carts).Register(r)
	orderhttp.NewHandler(log, orderSvc, paymentSvc).Register(r)
	paymenthttp.NewHandler(log, paymentSvc).Register(r)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := relay.Run(ctx); err != nil {
			log.Error("outbox relay stopped with error", "err", err)
		}
	}()

	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("payment events consumer stopped with error", "err", err)
			cancel()
		}
	}()

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("storefront shutdown complete")
}
