package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/noah-isme/backend-paygate/internal/orders"
	"github.com/noah-isme/backend-paygate/internal/store"
)

type fakeRenewalStore struct {
	sub       store.SubscriptionRecord
	subErr    error
	renewedAt *time.Time
	pastDue   bool
	orders    int
}

func (f *fakeRenewalStore) GetSubscription(_ context.Context, id uuid.UUID) (store.SubscriptionRecord, error) {
	if f.subErr != nil {
		return store.SubscriptionRecord{}, f.subErr
	}
	if f.sub.ID != id {
		return store.SubscriptionRecord{}, store.ErrNotFound
	}
	return f.sub, nil
}

func (f *fakeRenewalStore) InsertOrder(_ context.Context, _ store.OrderRecord) (uuid.UUID, error) {
	f.orders++
	return uuid.New(), nil
}

func (f *fakeRenewalStore) MarkRenewed(_ context.Context, _ uuid.UUID, next time.Time) error {
	f.renewedAt = &next
	return nil
}

func (f *fakeRenewalStore) MarkPastDue(_ context.Context, _ uuid.UUID) error {
	f.pastDue = true
	return nil
}

type fakeCharger struct {
	err   error
	calls int
}

func (f *fakeCharger) CreateOrder(_ context.Context, _ string, body orders.CreateOrderRequest) (orders.Order, error) {
	f.calls++
	if f.err != nil {
		return orders.Order{}, f.err
	}
	return orders.Order{ID: "PROV-R1", Status: "CREATED"}, nil
}

func activeSub() store.SubscriptionRecord {
	return store.SubscriptionRecord{
		ID:            uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		MerchantID:    "merchant-1",
		PlanName:      "Pro Plan",
		CurrencyCode:  "USD",
		AmountValue:   "29.99",
		Status:        store.SubscriptionStatusActive,
		NextRenewalAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func renewalTask(t *testing.T, id uuid.UUID) *asynq.Task {
	t.Helper()
	task, err := NewRenewalTask(id)
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	return task
}

func TestHandleRenewalSuccess(t *testing.T) {
	st := &fakeRenewalStore{sub: activeSub()}
	charger := &fakeCharger{}
	w := &Worker{Store: st, Orders: charger, Period: 30 * 24 * time.Hour}

	if err := w.HandleRenewal(context.Background(), renewalTask(t, st.sub.ID)); err != nil {
		t.Fatalf("renewal: %v", err)
	}
	if charger.calls != 1 || st.orders != 1 {
		t.Fatalf("expected one charge and one order, got calls=%d orders=%d", charger.calls, st.orders)
	}
	if st.renewedAt == nil {
		t.Fatal("expected renewal clock to advance")
	}
	want := st.sub.NextRenewalAt.Add(30 * 24 * time.Hour)
	if !st.renewedAt.Equal(want) {
		t.Fatalf("expected next renewal %v, got %v", want, *st.renewedAt)
	}
}

func TestHandleRenewalSkipsInactive(t *testing.T) {
	sub := activeSub()
	sub.Status = store.SubscriptionStatusCanceled
	st := &fakeRenewalStore{sub: sub}
	charger := &fakeCharger{}
	w := &Worker{Store: st, Orders: charger}

	if err := w.HandleRenewal(context.Background(), renewalTask(t, sub.ID)); err != nil {
		t.Fatalf("renewal: %v", err)
	}
	if charger.calls != 0 {
		t.Fatalf("expected no charge for canceled subscription, got %d", charger.calls)
	}
}

func TestHandleRenewalRejectedChargeGoesPastDue(t *testing.T) {
	st := &fakeRenewalStore{sub: activeSub()}
	charger := &fakeCharger{err: &orders.APIError{StatusCode: 422, Name: "UNPROCESSABLE_ENTITY"}}
	w := &Worker{Store: st, Orders: charger}

	err := w.HandleRenewal(context.Background(), renewalTask(t, st.sub.ID))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for rejected charge, got %v", err)
	}
	if !st.pastDue {
		t.Fatal("expected subscription marked past due")
	}
}

func TestHandleRenewalTransientErrorRetries(t *testing.T) {
	st := &fakeRenewalStore{sub: activeSub()}
	charger := &fakeCharger{err: errors.New("connection reset")}
	w := &Worker{Store: st, Orders: charger}

	err := w.HandleRenewal(context.Background(), renewalTask(t, st.sub.ID))
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected retryable error, got %v", err)
	}
	if st.pastDue {
		t.Fatal("transient failure must not mark past due")
	}
}

func TestHandleRenewalMissingSubscription(t *testing.T) {
	st := &fakeRenewalStore{sub: activeSub()}
	w := &Worker{Store: st, Orders: &fakeCharger{}}

	err := w.HandleRenewal(context.Background(), renewalTask(t, uuid.New()))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry for missing subscription, got %v", err)
	}
}

func TestRenewalPayloadRoundTrip(t *testing.T) {
	id := uuid.New()
	task := renewalTask(t, id)
	payload, err := ParseRenewalPayload(task.Payload())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if payload.SubscriptionID != id {
		t.Fatalf("expected %s, got %s", id, payload.SubscriptionID)
	}
	if _, err := ParseRenewalPayload([]byte(`{}`)); err == nil {
		t.Fatal("expected error for missing subscription id")
	}
}
