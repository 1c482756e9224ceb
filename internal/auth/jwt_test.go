package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/noah-isme/backend-paygate/internal/common"
)

func testService() *Service {
	return &Service{
		Secret:    []byte("test-secret-test-secret-test-key"),
		Issuer:    "paygate",
		Audience:  "merchants",
		TTL:       time.Hour,
		ClockSkew: time.Minute,
	}
}

func TestIssueAndParseMerchantToken(t *testing.T) {
	svc := testService()
	token, err := svc.IssueMerchantToken("merchant-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	merchantID, err := svc.ParseMerchantToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if merchantID != "merchant-42" {
		t.Fatalf("expected merchant-42, got %q", merchantID)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := testService()
	svc.Now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	token, err := svc.IssueMerchantToken("merchant-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	svc.Now = nil

	_, err = svc.ParseMerchantToken(token)
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("expected 401 AppError, got %v", err)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := testService().IssueMerchantToken("merchant-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := testService()
	other.Secret = []byte("another-secret-another-secret-ok")
	if _, err := other.ParseMerchantToken(token); err == nil {
		t.Fatal("expected parse failure for wrong secret")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := testService()
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.ParseMerchantToken(tok); err == nil {
			t.Fatalf("expected failure for %q", tok)
		}
	}
}

func TestRequireMerchantMiddleware(t *testing.T) {
	svc := testService()
	token, err := svc.IssueMerchantToken("merchant-7")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var seen string
	handler := Middleware{Service: svc}.RequireMerchant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = MerchantID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen != "merchant-7" {
		t.Fatalf("expected authenticated pass, got code=%d merchant=%q", rec.Code, seen)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/checkout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestAdminKeyRequire(t *testing.T) {
	hash, err := argon2id.CreateHash("super-secret-key", argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	handler := AdminKey{Hash: hash}.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/subscriptions", nil)
	req.Header.Set("X-Admin-Api-Key", "super-secret-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for valid key, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/subscriptions", nil)
	req.Header.Set("X-Admin-Api-Key", "wrong")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong key, got %d", rec.Code)
	}
}
