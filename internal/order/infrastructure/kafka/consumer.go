// Package kafka consumes gateway payment events and settles pending orders.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/webshop-go/storefront/internal/order/application"
	"github.com/webshop-go/storefront/internal/order/domain"
	"github.com/webshop-go/storefront/pkg/idempotency"
	"github.com/webshop-go/storefront/pkg/tracing"
)

type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	svc    *application.Service
	idem   *idempotency.Store
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, svc *application.Service, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		svc:    svc,
		idem:   idem,
		tracer: otel.Tracer("payment-events-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
		seen, err := c.idem.Seen(ctx, key)
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			continue
		}
		if seen {
			c.log.Info("duplicate payment event skipped", "key", key)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ConsumePaymentEvent")
		c.handle(msgCtx, msg.Value)
		span.End()

		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, payload []byte) {
	var ev domain.PaymentEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		c.log.Error("payment event unmarshal failed", "err", err)
		return
	}

	status := domain.StatusPaymentFailed
	if ev.Status == domain.PaymentStatusSucceeded {
		status = domain.StatusPaid
	}

	if err := c.svc.MarkByPaymentIntent(ctx, ev.PaymentIntentID, status); err != nil {
		c.log.Error("order settle failed", "payment_intent_id", ev.PaymentIntentID, "err", err)
		return
	}
	c.log.Info("order settled", "payment_intent_id", ev.PaymentIntentID, "status", string(status))
}
