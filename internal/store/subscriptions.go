package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dbgen "github.com/noah-isme/backend-paygate/internal/db/gen"
)

// Subscription status values.
const (
	SubscriptionStatusActive   = "ACTIVE"
	SubscriptionStatusPastDue  = "PAST_DUE"
	SubscriptionStatusCanceled = "CANCELED"
)

// SubscriptionRecord mirrors the subscriptions table.
type SubscriptionRecord struct {
	ID            uuid.UUID
	MerchantID    string
	PlanName      string
	CurrencyCode  string
	AmountValue   string
	Status        string
	NextRenewalAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InsertSubscription creates a subscription row.
func (s *Store) InsertSubscription(ctx context.Context, rec SubscriptionRecord) (uuid.UUID, error) {
	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	err := s.Q.InsertSubscription(ctx, dbgen.InsertSubscriptionParams{
		ID:            id,
		MerchantID:    rec.MerchantID,
		PlanName:      rec.PlanName,
		CurrencyCode:  rec.CurrencyCode,
		AmountValue:   rec.AmountValue,
		Status:        rec.Status,
		NextRenewalAt: rec.NextRenewalAt,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert subscription: %w", err)
	}
	return id, nil
}

// GetSubscription fetches a subscription by id.
func (s *Store) GetSubscription(ctx context.Context, id uuid.UUID) (SubscriptionRecord, error) {
	row, err := s.Q.GetSubscription(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return SubscriptionRecord{}, ErrNotFound
	}
	if err != nil {
		return SubscriptionRecord{}, fmt.Errorf("get subscription: %w", err)
	}
	return subscriptionRecord(row), nil
}

// DueSubscriptions lists active subscriptions whose renewal is due before the
// given cutoff.
func (s *Store) DueSubscriptions(ctx context.Context, before time.Time, limit int) ([]SubscriptionRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.Q.DueSubscriptions(ctx, dbgen.DueSubscriptionsParams{
		Status:        SubscriptionStatusActive,
		NextRenewalAt: before,
		Limit:         int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list due subscriptions: %w", err)
	}
	out := make([]SubscriptionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, subscriptionRecord(row))
	}
	return out, nil
}

// MarkRenewed advances the next renewal timestamp after a successful charge.
func (s *Store) MarkRenewed(ctx context.Context, id uuid.UUID, nextRenewalAt time.Time) error {
	rows, err := s.Q.MarkRenewed(ctx, dbgen.MarkRenewedParams{
		ID:            id,
		Status:        SubscriptionStatusActive,
		NextRenewalAt: nextRenewalAt,
	})
	if err != nil {
		return fmt.Errorf("mark renewed: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPastDue flags a subscription whose renewal charge failed.
func (s *Store) MarkPastDue(ctx context.Context, id uuid.UUID) error {
	rows, err := s.Q.MarkPastDue(ctx, dbgen.MarkPastDueParams{
		ID:     id,
		Status: SubscriptionStatusPastDue,
	})
	if err != nil {
		return fmt.Errorf("mark past due: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func subscriptionRecord(row dbgen.Subscription) SubscriptionRecord {
	return SubscriptionRecord{
		ID:            row.ID,
		MerchantID:    row.MerchantID,
		PlanName:      row.PlanName,
		CurrencyCode:  row.CurrencyCode,
		AmountValue:   row.AmountValue,
		Status:        row.Status,
		NextRenewalAt: row.NextRenewalAt,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
