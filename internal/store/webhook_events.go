package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	dbgen "github.com/noah-isme/backend-paygate/internal/db/gen"
)

// WebhookEventRecord mirrors the webhook_events table. Events are keyed on the
// provider assigned event id so redeliveries collapse into a single row.
type WebhookEventRecord struct {
	ID              uuid.UUID
	EventID         string
	EventType       string
	ProviderOrderID string
	Payload         []byte
	ReceivedAt      time.Time
}

// InsertWebhookEvent stores a verified webhook delivery. The returned bool is
// false when the event id was already recorded.
func (s *Store) InsertWebhookEvent(ctx context.Context, rec WebhookEventRecord) (bool, error) {
	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	rows, err := s.Q.InsertWebhookEvent(ctx, dbgen.InsertWebhookEventParams{
		ID:              id,
		EventID:         rec.EventID,
		EventType:       rec.EventType,
		ProviderOrderID: rec.ProviderOrderID,
		Payload:         rec.Payload,
	})
	if err != nil {
		return false, fmt.Errorf("insert webhook event: %w", err)
	}
	return rows > 0, nil
}
