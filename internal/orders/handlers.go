package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-paygate/internal/auth"
	"github.com/noah-isme/backend-paygate/internal/common"
	"github.com/noah-isme/backend-paygate/internal/store"
)

// Handler exposes the merchant's view of locally tracked orders.
type Handler struct {
	Store *store.Store
}

type orderView struct {
	ID              string          `json:"id"`
	ProviderOrderID string          `json:"providerOrderId"`
	ReferenceID     string          `json:"referenceId,omitempty"`
	InvoiceID       string          `json:"invoiceId,omitempty"`
	CurrencyCode    string          `json:"currencyCode"`
	TotalValue      string          `json:"totalValue"`
	Status          string          `json:"status"`
	PurchaseUnit    json.RawMessage `json:"purchaseUnit,omitempty"`
	CreatedAt       string          `json:"createdAt"`
}

func viewOf(rec store.OrderRecord, includePayload bool) orderView {
	view := orderView{
		ID:              rec.ID.String(),
		ProviderOrderID: rec.ProviderOrderID,
		ReferenceID:     rec.ReferenceID,
		InvoiceID:       rec.InvoiceID,
		CurrencyCode:    rec.CurrencyCode,
		TotalValue:      rec.TotalValue,
		Status:          rec.Status,
		CreatedAt:       rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if includePayload {
		view.PurchaseUnit = json.RawMessage(rec.Payload)
	}
	return view
}

// List handles GET /v1/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := auth.MerchantID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.Store.ListOrdersByMerchant(r.Context(), merchantID, limit)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "list orders failed", nil)
		return
	}
	views := make([]orderView, 0, len(records))
	for _, rec := range records {
		views = append(views, viewOf(rec, false))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// Get handles GET /v1/orders/{providerOrderID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := auth.MerchantID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	rec, err := h.Store.GetOrderByProviderID(r.Context(), chi.URLParam(r, "providerOrderID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "get order failed", nil)
		return
	}
	if rec.MerchantID != merchantID {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": viewOf(rec, true)})
}
