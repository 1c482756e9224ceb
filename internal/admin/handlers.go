package admin

import (
	"encoding/json"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-paygate/internal/auth"
	"github.com/noah-isme/backend-paygate/internal/common"
	"github.com/noah-isme/backend-paygate/internal/money"
	"github.com/noah-isme/backend-paygate/internal/store"
)

// Handler bundles the operator-only endpoints: merchant token minting and
// subscription management.
type Handler struct {
	Auth     *auth.Service
	Store    *store.Store
	Validate *validator.Validate
	Currency string
}

type tokenRequest struct {
	MerchantID string `json:"merchantId" validate:"required,max=128"`
}

// CreateToken handles POST /admin/tokens.
func (h *Handler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid token request", nil)
		return
	}
	token, err := h.Auth.IssueMerchantToken(req.MerchantID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "token issuance failed", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]string{"merchantId": req.MerchantID, "token": token},
	})
}

type subscriptionRequest struct {
	MerchantID    string  `json:"merchantId" validate:"required,max=128"`
	PlanName      string  `json:"planName" validate:"required,max=127"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	CurrencyCode  string  `json:"currencyCode" validate:"omitempty,len=3"`
	FirstRenewal  string  `json:"firstRenewal" validate:"required"`
}

// CreateSubscription handles POST /admin/subscriptions.
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid subscription request", nil)
		return
	}
	firstRenewal, err := time.Parse(time.RFC3339, req.FirstRenewal)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "firstRenewal must be RFC3339", nil)
		return
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = h.Currency
	}
	id, err := h.Store.InsertSubscription(r.Context(), store.SubscriptionRecord{
		MerchantID:    req.MerchantID,
		PlanName:      req.PlanName,
		CurrencyCode:  currency,
		AmountValue:   money.New(req.Amount, currency).FormatValue(),
		Status:        store.SubscriptionStatusActive,
		NextRenewalAt: firstRenewal,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "create subscription failed", nil)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]string{"subscriptionId": id.String()},
	})
}
