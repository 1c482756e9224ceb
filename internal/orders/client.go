package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-paygate/internal/purchase"
	"github.com/noah-isme/backend-paygate/internal/resilience"
)

// Order intents accepted by the provider.
const (
	IntentCapture   = "CAPTURE"
	IntentAuthorize = "AUTHORIZE"
)

var clientNopLogger = zerolog.Nop()

// CreateOrderRequest is the body posted to /v2/checkout/orders.
type CreateOrderRequest struct {
	Intent        string                 `json:"intent"`
	PurchaseUnits []purchase.UnitPayload `json:"purchase_units"`
}

// Link is a HATEOAS link returned by the provider.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Order is the provider's representation of a created order.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links,omitempty"`
}

// APIError captures a non-2xx provider response.
type APIError struct {
	StatusCode int
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("provider api error %d %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("provider api error %d", e.StatusCode)
}

// Client talks to the provider orders API. All outbound calls go through the
// retrying circuit-breaker wrapper.
type Client struct {
	BaseURL string
	Tokens  *TokenSource
	HTTP    resilience.HTTPClient
	Log     *zerolog.Logger
}

// CreateOrder posts the sanitized purchase units and returns the created
// order. The requestID, when non-empty, is forwarded for provider-side
// idempotency.
func (c *Client) CreateOrder(ctx context.Context, requestID string, body CreateOrderRequest) (Order, error) {
	if body.Intent == "" {
		body.Intent = IntentCapture
	}
	if len(body.PurchaseUnits) == 0 {
		return Order{}, fmt.Errorf("create order: at least one purchase unit required")
	}

	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("acquire token: %w", err)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return Order{}, fmt.Errorf("encode order request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.BaseURL, "/")+"/v2/checkout/orders",
		bytes.NewReader(encoded))
	if err != nil {
		return Order{}, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}

	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		c.Tokens.Invalidate(ctx)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(data, apiErr)
		c.logger().Warn().
			Int("status", resp.StatusCode).
			Str("name", apiErr.Name).
			Msg("provider_order_create_failed")
		return Order{}, apiErr
	}

	var created Order
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Order{}, fmt.Errorf("decode order response: %w", err)
	}
	if created.ID == "" {
		return Order{}, fmt.Errorf("provider returned order without id")
	}
	c.logger().Info().
		Str("order_id", created.ID).
		Str("status", created.Status).
		Msg("provider_order_created")
	return created, nil
}

func (c *Client) logger() *zerolog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return &clientNopLogger
}
