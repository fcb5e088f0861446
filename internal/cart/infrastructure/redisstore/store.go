// Package redisstore keeps shopping carts in redis as JSON values with a
// per-entry TTL.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/webshop-go/storefront/internal/cart/domain"
	"github.com/webshop-go/storefront/pkg/apperr"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id string) string { return "cart:" + id }

// Get returns (nil, nil) when no cart exists under id.
func (s *Store) Get(ctx context.Context, id string) (*domain.ShoppingCart, error) {
	raw, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Store("cart.get", err)
	}

	var c domain.ShoppingCart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, apperr.Store("cart.get", err)
	}
	return &c, nil
}

// Set writes the cart and resets its TTL.
func (s *Store) Set(ctx context.Context, c *domain.ShoppingCart) (*domain.ShoppingCart, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, apperr.Store("cart.set", err)
	}
	if err := s.rdb.Set(ctx, key(c.ID), raw, s.ttl).Err(); err != nil {
		return nil, apperr.Store("cart.set", err)
	}
	return c, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, key(id)).Err(); err != nil {
		return apperr.Store("cart.delete", err)
	}
	return nil
}
