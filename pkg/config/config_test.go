package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, []string{"localhost:9092"}, c.KafkaAddr)
	assert.Equal(t, "order.events", c.OrderTopic)
	assert.Equal(t, "payment.events", c.PaymentTopic)
	assert.Equal(t, "usd", c.Currency)
	assert.Equal(t, 720*time.Hour, c.CartTTL)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("KAFKA_ADDR", "k1:9092,k2:9092")
	t.Setenv("CART_TTL", "48h")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaAddr)
	assert.Equal(t, 48*time.Hour, c.CartTTL)
}
