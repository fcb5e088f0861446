// Package gateway is the JSON-over-HTTP client for the payment provider. The
// surface is deliberately narrow: create/update intents, refunds, coupons.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/webshop-go/storefront/internal/payment/application"
)

type Client struct {
	base   string
	apiKey string
	hc     *http.Client
}

func NewClient(base, apiKey string) *Client {
	return &Client{
		base:   base,
		apiKey: apiKey,
		hc:     &http.Client{Timeout: 15 * time.Second},
	}
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

func (c *Client) CreateIntent(ctx context.Context, amountCents int64, currency string) (application.Intent, error) {
	body := map[string]any{"amount": amountCents, "currency": currency}

	var res intentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", body, &res); err != nil {
		return application.Intent{}, err
	}
	return application.Intent{ID: res.ID, ClientSecret: res.ClientSecret}, nil
}

func (c *Client) UpdateIntent(ctx context.Context, id string, amountCents int64) error {
	body := map[string]any{"amount": amountCents}
	return c.do(ctx, http.MethodPost, "/v1/payment_intents/"+id, body, nil)
}

func (c *Client) Refund(ctx context.Context, intentID string) (string, error) {
	body := map[string]any{"payment_intent": intentID}

	var res struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/refunds", body, &res); err != nil {
		return "", err
	}
	return res.Status, nil
}

func (c *Client) Coupon(ctx context.Context, id string) (application.Coupon, error) {
	var res struct {
		AmountOff  int64   `json:"amount_off"`
		PercentOff float64 `json:"percent_off"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/coupons/"+id, nil, &res); err != nil {
		return application.Coupon{}, err
	}
	return application.Coupon{AmountOffCents: res.AmountOff, PercentOff: res.PercentOff}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway %s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
