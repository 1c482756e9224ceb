package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-paygate/internal/common"
	"github.com/noah-isme/backend-paygate/internal/store"
)

// SignatureHeader carries the hex encoded HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Provider-Signature"

// ErrBadSignature is returned when the webhook signature does not match.
var ErrBadSignature = errors.New("webhook: signature mismatch")

var webhookNopLogger = zerolog.Nop()

// Event is the provider webhook envelope.
type Event struct {
	ID           string `json:"id"`
	EventType    string `json:"event_type"`
	CreateTime   string `json:"create_time"`
	ResourceType string `json:"resource_type"`
	Resource     struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"resource"`
}

// orderStatusForEvent maps provider event types onto local order transitions.
// Unmapped events are stored but change nothing.
func orderStatusForEvent(eventType string) (string, bool) {
	switch eventType {
	case "CHECKOUT.ORDER.APPROVED":
		return store.OrderStatusApproved, true
	case "PAYMENT.CAPTURE.COMPLETED":
		return store.OrderStatusCompleted, true
	case "CHECKOUT.ORDER.VOIDED", "PAYMENT.CAPTURE.REFUNDED":
		return store.OrderStatusVoided, true
	default:
		return "", false
	}
}

// EventStore persists deliveries and applies order transitions.
type EventStore interface {
	InsertWebhookEvent(ctx context.Context, rec store.WebhookEventRecord) (bool, error)
	UpdateOrderStatus(ctx context.Context, providerOrderID, status string) error
}

// Processor verifies, deduplicates and applies provider webhooks.
type Processor struct {
	Secret    []byte
	Redis     *redis.Client
	Store     EventStore
	ReplayTTL time.Duration
	Log       *zerolog.Logger
}

// VerifySignature checks the HMAC of the raw body against the header value.
func (p *Processor) VerifySignature(signature string, body []byte) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ErrBadSignature
	}
	expected := common.HmacSha256Hex(p.Secret, body)
	if !common.HmacEqual(expected, strings.ToLower(signature)) {
		return ErrBadSignature
	}
	return nil
}

// Process handles one verified delivery. Replays are detected first through a
// short lived Redis key, then through the unique event id constraint, and are
// acknowledged without reapplying the transition.
func (p *Processor) Process(ctx context.Context, body []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if event.ID == "" || event.EventType == "" {
		return Event{}, errors.New("webhook: event missing id or type")
	}

	if p.Redis != nil {
		key := "paygate:webhook:" + common.Sha256Hex(event.ID)
		fresh, err := p.Redis.SetNX(ctx, key, "seen", p.replayTTL()).Result()
		if err != nil {
			p.logger().Warn().Err(err).Msg("webhook_replay_cache_failed")
		} else if !fresh {
			p.logger().Info().Str("event_id", event.ID).Msg("webhook_replay_skipped")
			return event, nil
		}
	}

	inserted, err := p.Store.InsertWebhookEvent(ctx, store.WebhookEventRecord{
		EventID:         event.ID,
		EventType:       event.EventType,
		ProviderOrderID: event.Resource.ID,
		Payload:         body,
	})
	if err != nil {
		return event, fmt.Errorf("store event: %w", err)
	}
	if !inserted {
		p.logger().Info().Str("event_id", event.ID).Msg("webhook_replay_skipped")
		return event, nil
	}

	status, mapped := orderStatusForEvent(event.EventType)
	if !mapped || event.Resource.ID == "" {
		p.logger().Info().
			Str("event_id", event.ID).
			Str("event_type", event.EventType).
			Msg("webhook_event_unmapped")
		return event, nil
	}
	if err := p.Store.UpdateOrderStatus(ctx, event.Resource.ID, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			p.logger().Warn().
				Str("event_id", event.ID).
				Str("provider_order_id", event.Resource.ID).
				Msg("webhook_order_unknown")
			return event, nil
		}
		return event, fmt.Errorf("apply transition: %w", err)
	}

	p.logger().Info().
		Str("event_id", event.ID).
		Str("provider_order_id", event.Resource.ID).
		Str("status", status).
		Msg("webhook_order_transitioned")
	return event, nil
}

func (p *Processor) replayTTL() time.Duration {
	if p.ReplayTTL > 0 {
		return p.ReplayTTL
	}
	return 24 * time.Hour
}

func (p *Processor) logger() *zerolog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return &webhookNopLogger
}
