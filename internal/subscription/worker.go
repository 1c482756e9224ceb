package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-paygate/internal/money"
	"github.com/noah-isme/backend-paygate/internal/obs"
	"github.com/noah-isme/backend-paygate/internal/orders"
	"github.com/noah-isme/backend-paygate/internal/purchase"
	"github.com/noah-isme/backend-paygate/internal/store"
)

const defaultRenewalPeriod = 30 * 24 * time.Hour

var workerNopLogger = zerolog.Nop()

// RenewalStore is the persistence surface the worker needs.
type RenewalStore interface {
	GetSubscription(ctx context.Context, id uuid.UUID) (store.SubscriptionRecord, error)
	InsertOrder(ctx context.Context, rec store.OrderRecord) (uuid.UUID, error)
	MarkRenewed(ctx context.Context, id uuid.UUID, nextRenewalAt time.Time) error
	MarkPastDue(ctx context.Context, id uuid.UUID) error
}

// OrderCreator creates the renewal charge at the provider.
type OrderCreator interface {
	CreateOrder(ctx context.Context, requestID string, body orders.CreateOrderRequest) (orders.Order, error)
}

// Worker processes renewal tasks: it builds a single line purchase unit for
// the plan charge, creates the provider order and advances the renewal clock.
type Worker struct {
	Store  RenewalStore
	Orders OrderCreator
	Period time.Duration
	Log    *zerolog.Logger
}

// HandleRenewal is the asynq handler for TypeRenewal tasks.
func (w *Worker) HandleRenewal(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRenewalPayload(task.Payload())
	if err != nil {
		obs.ObserveRenewal("invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	sub, err := w.Store.GetSubscription(ctx, payload.SubscriptionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			obs.ObserveRenewal("missing")
			return fmt.Errorf("subscription %s not found: %w", payload.SubscriptionID, asynq.SkipRetry)
		}
		obs.ObserveRenewal("error")
		return err
	}
	if sub.Status != store.SubscriptionStatusActive {
		obs.ObserveRenewal("skipped")
		return nil
	}

	unit, err := w.renewalUnit(sub)
	if err != nil {
		obs.ObserveRenewal("invalid")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	unitPayload, _ := purchase.Sanitizer{Log: w.logger()}.Sanitize(unit)

	requestID := "renew-" + sub.ID.String() + "-" + sub.NextRenewalAt.UTC().Format("20060102")
	created, err := w.Orders.CreateOrder(ctx, requestID, orders.CreateOrderRequest{
		Intent:        orders.IntentCapture,
		PurchaseUnits: []purchase.UnitPayload{unitPayload},
	})
	if err != nil {
		var apiErr *orders.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests {
			// the provider rejected the charge outright; retrying the same
			// payload cannot succeed
			if markErr := w.Store.MarkPastDue(ctx, sub.ID); markErr != nil {
				w.logger().Error().Err(markErr).Str("subscription_id", sub.ID.String()).Msg("renewal_mark_past_due_failed")
			}
			obs.ObserveRenewal("rejected")
			return fmt.Errorf("renewal rejected: %v: %w", apiErr, asynq.SkipRetry)
		}
		obs.ObserveRenewal("error")
		return fmt.Errorf("renewal charge: %w", err)
	}

	serialized, _ := json.Marshal(unitPayload)
	if _, err := w.Store.InsertOrder(ctx, store.OrderRecord{
		MerchantID:      sub.MerchantID,
		ProviderOrderID: created.ID,
		ReferenceID:     unitPayload.ReferenceID,
		InvoiceID:       unitPayload.InvoiceID,
		CurrencyCode:    unitPayload.Amount.CurrencyCode,
		TotalValue:      unitPayload.Amount.Value,
		Status:          store.OrderStatusCreated,
		Payload:         serialized,
	}); err != nil {
		return fmt.Errorf("persist renewal order: %w", err)
	}

	next := sub.NextRenewalAt.Add(w.period())
	if err := w.Store.MarkRenewed(ctx, sub.ID, next); err != nil {
		return fmt.Errorf("advance renewal clock: %w", err)
	}

	obs.ObserveRenewal("ok")
	w.logger().Info().
		Str("subscription_id", sub.ID.String()).
		Str("provider_order_id", created.ID).
		Time("next_renewal_at", next).
		Msg("subscription_renewed")
	return nil
}

func (w *Worker) renewalUnit(sub store.SubscriptionRecord) (purchase.Unit, error) {
	amount, err := strconv.ParseFloat(sub.AmountValue, 64)
	if err != nil {
		return purchase.Unit{}, fmt.Errorf("subscription %s has invalid amount %q", sub.ID, sub.AmountValue)
	}
	charge := money.New(amount, sub.CurrencyCode)
	unit := purchase.Unit{
		ReferenceID: "sub-" + sub.ID.String(),
		Description: sub.PlanName,
		Amount: purchase.Amount{
			Total: charge,
			Breakdown: &purchase.Breakdown{
				ItemTotal: &charge,
			},
		},
		Items: []purchase.Item{
			purchase.NewItem(sub.PlanName, charge, 1).WithCategory(purchase.CategoryDigitalGoods),
		},
	}
	return unit, nil
}

func (w *Worker) period() time.Duration {
	if w.Period > 0 {
		return w.Period
	}
	return defaultRenewalPeriod
}

func (w *Worker) logger() *zerolog.Logger {
	if w.Log != nil {
		return w.Log
	}
	return &workerNopLogger
}
