package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-paygate/internal/auth"
	"github.com/noah-isme/backend-paygate/internal/common"
	"github.com/noah-isme/backend-paygate/internal/orders"
)

// Handler exposes checkout over HTTP.
type Handler struct {
	Svc *Service
}

// Create handles POST /v1/checkout.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	merchantID, ok := auth.MerchantID(r.Context())
	if !ok || merchantID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var snapshot CartSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.Create(r.Context(), merchantID, snapshot)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		details := appErr.Details
		var verrs validator.ValidationErrors
		if errors.As(appErr.Err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace())
			}
			details = map[string]any{"fields": fields}
		}
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, details)
		return
	}
	var apiErr *orders.APIError
	if errors.As(err, &apiErr) {
		common.JSONError(w, http.StatusBadGateway, "PROVIDER_ERROR", apiErr.Message, map[string]any{
			"provider_status": apiErr.StatusCode,
			"name":            apiErr.Name,
		})
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout failed", nil)
}
