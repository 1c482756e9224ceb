package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-paygate/internal/auth"
)

func newTokenHandler() *Handler {
	return &Handler{
		Auth: &auth.Service{
			Secret:   []byte("test-secret-test-secret-test-key"),
			Issuer:   "paygate",
			Audience: "merchants",
			TTL:      time.Hour,
		},
		Validate: validator.New(),
		Currency: "USD",
	}
}

func TestCreateTokenMintsUsableToken(t *testing.T) {
	h := newTokenHandler()

	req := httptest.NewRequest(http.MethodPost, "/admin/tokens", strings.NewReader(`{"merchantId":"merchant-9"}`))
	rec := httptest.NewRecorder()
	h.CreateToken(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			MerchantID string `json:"merchantId"`
			Token      string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "merchant-9", resp.Data.MerchantID)

	merchantID, err := h.Auth.ParseMerchantToken(resp.Data.Token)
	require.NoError(t, err)
	require.Equal(t, "merchant-9", merchantID)
}

func TestCreateTokenRejectsBadPayload(t *testing.T) {
	h := newTokenHandler()

	req := httptest.NewRequest(http.MethodPost, "/admin/tokens", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	h.CreateToken(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/tokens", strings.NewReader(`{"merchantId":""}`))
	rec = httptest.NewRecorder()
	h.CreateToken(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
