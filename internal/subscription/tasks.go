package subscription

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TypeRenewal is the asynq task type for subscription renewal charges.
const TypeRenewal = "subscription:renew"

// QueueRenewals is the asynq queue renewal tasks are enqueued on.
const QueueRenewals = "renewals"

// RenewalPayload is the task body for one renewal attempt.
type RenewalPayload struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
}

// NewRenewalTask builds the asynq task for a subscription.
func NewRenewalTask(subscriptionID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(RenewalPayload{SubscriptionID: subscriptionID})
	if err != nil {
		return nil, fmt.Errorf("encode renewal payload: %w", err)
	}
	return asynq.NewTask(TypeRenewal, payload), nil
}

// ParseRenewalPayload decodes a renewal task body.
func ParseRenewalPayload(data []byte) (RenewalPayload, error) {
	var payload RenewalPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return RenewalPayload{}, fmt.Errorf("decode renewal payload: %w", err)
	}
	if payload.SubscriptionID == uuid.Nil {
		return RenewalPayload{}, fmt.Errorf("renewal payload missing subscription id")
	}
	return payload, nil
}
