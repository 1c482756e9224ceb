package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dbgen "github.com/noah-isme/backend-paygate/internal/db/gen"
	"github.com/noah-isme/backend-paygate/internal/store"
)

type querierStub struct {
	insertOrderParams  dbgen.InsertOrderParams
	listOrdersParams   dbgen.ListOrdersByMerchantParams
	dueParams          dbgen.DueSubscriptionsParams
	webhookParams      dbgen.InsertWebhookEventParams
	getOrderErr        error
	getSubErr          error
	updateOrderRows    int64
	markRenewedRows    int64
	markPastDueRows    int64
	webhookRows        int64
	orders             []dbgen.Order
	subscriptions      []dbgen.Subscription
}

func (q *querierStub) InsertOrder(_ context.Context, arg dbgen.InsertOrderParams) error {
	q.insertOrderParams = arg
	return nil
}

func (q *querierStub) GetOrderByProviderID(_ context.Context, providerOrderID string) (dbgen.Order, error) {
	if q.getOrderErr != nil {
		return dbgen.Order{}, q.getOrderErr
	}
	return dbgen.Order{ProviderOrderID: providerOrderID, Status: "CREATED"}, nil
}

func (q *querierStub) UpdateOrderStatus(_ context.Context, _ dbgen.UpdateOrderStatusParams) (int64, error) {
	return q.updateOrderRows, nil
}

func (q *querierStub) ListOrdersByMerchant(_ context.Context, arg dbgen.ListOrdersByMerchantParams) ([]dbgen.Order, error) {
	q.listOrdersParams = arg
	return q.orders, nil
}

func (q *querierStub) InsertWebhookEvent(_ context.Context, arg dbgen.InsertWebhookEventParams) (int64, error) {
	q.webhookParams = arg
	return q.webhookRows, nil
}

func (q *querierStub) InsertSubscription(_ context.Context, _ dbgen.InsertSubscriptionParams) error {
	return nil
}

func (q *querierStub) GetSubscription(_ context.Context, id uuid.UUID) (dbgen.Subscription, error) {
	if q.getSubErr != nil {
		return dbgen.Subscription{}, q.getSubErr
	}
	return dbgen.Subscription{ID: id, Status: store.SubscriptionStatusActive}, nil
}

func (q *querierStub) DueSubscriptions(_ context.Context, arg dbgen.DueSubscriptionsParams) ([]dbgen.Subscription, error) {
	q.dueParams = arg
	return q.subscriptions, nil
}

func (q *querierStub) MarkRenewed(_ context.Context, _ dbgen.MarkRenewedParams) (int64, error) {
	return q.markRenewedRows, nil
}

func (q *querierStub) MarkPastDue(_ context.Context, _ dbgen.MarkPastDueParams) (int64, error) {
	return q.markPastDueRows, nil
}

func TestInsertOrderAssignsID(t *testing.T) {
	stub := &querierStub{}
	st := &store.Store{Q: stub}

	id, err := st.InsertOrder(context.Background(), store.OrderRecord{
		MerchantID:      "merchant-1",
		ProviderOrderID: "PROV-1",
		Status:          store.OrderStatusCreated,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected a generated id")
	}
	if stub.insertOrderParams.ID != id {
		t.Fatalf("id mismatch: returned %s, sent %s", id, stub.insertOrderParams.ID)
	}
	if stub.insertOrderParams.MerchantID != "merchant-1" {
		t.Fatalf("unexpected params: %+v", stub.insertOrderParams)
	}
}

func TestGetOrderMapsNoRowsToNotFound(t *testing.T) {
	stub := &querierStub{getOrderErr: pgx.ErrNoRows}
	st := &store.Store{Q: stub}

	if _, err := st.GetOrderByProviderID(context.Background(), "PROV-X"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateOrderStatusNotFoundOnZeroRows(t *testing.T) {
	stub := &querierStub{updateOrderRows: 0}
	st := &store.Store{Q: stub}

	if err := st.UpdateOrderStatus(context.Background(), "PROV-X", store.OrderStatusApproved); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	stub.updateOrderRows = 1
	if err := st.UpdateOrderStatus(context.Background(), "PROV-X", store.OrderStatusApproved); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestListOrdersClampsLimit(t *testing.T) {
	stub := &querierStub{orders: []dbgen.Order{{ProviderOrderID: "PROV-1"}}}
	st := &store.Store{Q: stub}

	recs, err := st.ListOrdersByMerchant(context.Background(), "merchant-1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if stub.listOrdersParams.Limit != 50 {
		t.Fatalf("expected default limit 50, got %d", stub.listOrdersParams.Limit)
	}
	if len(recs) != 1 || recs[0].ProviderOrderID != "PROV-1" {
		t.Fatalf("unexpected records: %+v", recs)
	}

	if _, err := st.ListOrdersByMerchant(context.Background(), "merchant-1", 1000); err != nil {
		t.Fatalf("list: %v", err)
	}
	if stub.listOrdersParams.Limit != 50 {
		t.Fatalf("expected oversized limit clamped to 50, got %d", stub.listOrdersParams.Limit)
	}
}

func TestInsertWebhookEventReportsDuplicates(t *testing.T) {
	stub := &querierStub{webhookRows: 1}
	st := &store.Store{Q: stub}

	inserted, err := st.InsertWebhookEvent(context.Background(), store.WebhookEventRecord{EventID: "WH-1"})
	if err != nil || !inserted {
		t.Fatalf("expected first insert to report true, got %v %v", inserted, err)
	}
	if stub.webhookParams.ID == uuid.Nil {
		t.Fatal("expected a generated event row id")
	}

	stub.webhookRows = 0
	inserted, err = st.InsertWebhookEvent(context.Background(), store.WebhookEventRecord{EventID: "WH-1"})
	if err != nil || inserted {
		t.Fatalf("expected conflicting insert to report false, got %v %v", inserted, err)
	}
}

func TestDueSubscriptionsQueriesActiveWindow(t *testing.T) {
	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	stub := &querierStub{subscriptions: []dbgen.Subscription{{PlanName: "Pro Plan"}}}
	st := &store.Store{Q: stub}

	recs, err := st.DueSubscriptions(context.Background(), cutoff, 5000)
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if stub.dueParams.Status != store.SubscriptionStatusActive {
		t.Fatalf("expected active filter, got %q", stub.dueParams.Status)
	}
	if !stub.dueParams.NextRenewalAt.Equal(cutoff) {
		t.Fatalf("unexpected cutoff: %v", stub.dueParams.NextRenewalAt)
	}
	if stub.dueParams.Limit != 100 {
		t.Fatalf("expected oversized limit clamped to 100, got %d", stub.dueParams.Limit)
	}
	if len(recs) != 1 || recs[0].PlanName != "Pro Plan" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestMarkRenewedNotFoundOnZeroRows(t *testing.T) {
	stub := &querierStub{markRenewedRows: 0}
	st := &store.Store{Q: stub}

	err := st.MarkRenewed(context.Background(), uuid.New(), time.Now())
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	stub.markPastDueRows = 1
	if err := st.MarkPastDue(context.Background(), uuid.New()); err != nil {
		t.Fatalf("mark past due: %v", err)
	}
}

func TestGetSubscriptionMapsNoRowsToNotFound(t *testing.T) {
	stub := &querierStub{getSubErr: pgx.ErrNoRows}
	st := &store.Store{Q: stub}

	if _, err := st.GetSubscription(context.Background(), uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
