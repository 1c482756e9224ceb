package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-paygate/internal/common"
	"github.com/noah-isme/backend-paygate/internal/store"
)

type fakeEventStore struct {
	events      []store.WebhookEventRecord
	transitions map[string]string
	missing     bool
}

func (f *fakeEventStore) InsertWebhookEvent(_ context.Context, rec store.WebhookEventRecord) (bool, error) {
	for _, existing := range f.events {
		if existing.EventID == rec.EventID {
			return false, nil
		}
	}
	f.events = append(f.events, rec)
	return true, nil
}

func (f *fakeEventStore) UpdateOrderStatus(_ context.Context, providerOrderID, status string) error {
	if f.missing {
		return store.ErrNotFound
	}
	if f.transitions == nil {
		f.transitions = map[string]string{}
	}
	f.transitions[providerOrderID] = status
	return nil
}

func newTestProcessor(t *testing.T, st EventStore) *Processor {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &Processor{
		Secret:    []byte("webhook-secret"),
		Redis:     rdb,
		Store:     st,
		ReplayTTL: time.Minute,
	}
}

func eventBody(t *testing.T, id, eventType, orderID string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":         id,
		"event_type": eventType,
		"resource":   map[string]string{"id": orderID, "status": ""},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return body
}

func TestProcessAppliesTransition(t *testing.T) {
	st := &fakeEventStore{}
	p := newTestProcessor(t, st)

	body := eventBody(t, "WH-1", "PAYMENT.CAPTURE.COMPLETED", "PROV-9")
	if _, err := p.Process(context.Background(), body); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(st.events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(st.events))
	}
	if st.transitions["PROV-9"] != store.OrderStatusCompleted {
		t.Fatalf("expected COMPLETED transition, got %+v", st.transitions)
	}
}

func TestProcessSkipsReplay(t *testing.T) {
	st := &fakeEventStore{}
	p := newTestProcessor(t, st)

	body := eventBody(t, "WH-1", "CHECKOUT.ORDER.APPROVED", "PROV-9")
	for i := 0; i < 3; i++ {
		if _, err := p.Process(context.Background(), body); err != nil {
			t.Fatalf("process %d: %v", i, err)
		}
	}
	if len(st.events) != 1 {
		t.Fatalf("expected a single stored event, got %d", len(st.events))
	}
}

func TestProcessIgnoresUnmappedEvent(t *testing.T) {
	st := &fakeEventStore{}
	p := newTestProcessor(t, st)

	body := eventBody(t, "WH-2", "CUSTOMER.DISPUTE.CREATED", "PROV-9")
	if _, err := p.Process(context.Background(), body); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(st.events) != 1 || len(st.transitions) != 0 {
		t.Fatalf("expected stored but unapplied event, got events=%d transitions=%+v", len(st.events), st.transitions)
	}
}

func TestProcessToleratesUnknownOrder(t *testing.T) {
	p := newTestProcessor(t, &fakeEventStore{missing: true})
	body := eventBody(t, "WH-3", "CHECKOUT.ORDER.APPROVED", "PROV-404")
	if _, err := p.Process(context.Background(), body); err != nil {
		t.Fatalf("unknown order must not error: %v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	p := &Processor{Secret: []byte("webhook-secret")}
	body := []byte(`{"id":"WH-1"}`)
	good := common.HmacSha256Hex([]byte("webhook-secret"), body)

	if err := p.VerifySignature(good, body); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := p.VerifySignature(strings.ToUpper(good), body); err != nil {
		t.Fatalf("case-insensitive hex rejected: %v", err)
	}
	if err := p.VerifySignature("deadbeef", body); err == nil {
		t.Fatal("expected rejection for wrong signature")
	}
	if err := p.VerifySignature("", body); err == nil {
		t.Fatal("expected rejection for missing signature")
	}
}

func TestHandlerReceive(t *testing.T) {
	st := &fakeEventStore{}
	p := newTestProcessor(t, st)
	h := &Handler{Processor: p}

	body := eventBody(t, "WH-5", "CHECKOUT.ORDER.APPROVED", "PROV-5")
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/provider", strings.NewReader(string(body)))
	req.Header.Set(SignatureHeader, common.HmacSha256Hex([]byte("webhook-secret"), body))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/webhooks/provider", strings.NewReader(string(body)))
	req.Header.Set(SignatureHeader, "deadbeef")
	rec = httptest.NewRecorder()
	h.Receive(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad signature, got %d", rec.Code)
	}
}
