package webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/noah-isme/backend-paygate/internal/common"
	"github.com/noah-isme/backend-paygate/internal/obs"
)

const maxBodyBytes = 1 << 20

// Handler exposes the provider webhook endpoint.
type Handler struct {
	Processor *Processor
}

// Receive handles POST /v1/webhooks/provider. Invalid signatures are rejected;
// everything else is acknowledged so the provider stops redelivering.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	if h.Processor == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "webhook processor not configured", nil)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		obs.ObserveProviderWebhook("read_error")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unreadable body", nil)
		return
	}
	if err := h.Processor.VerifySignature(r.Header.Get(SignatureHeader), body); err != nil {
		obs.ObserveProviderWebhook("bad_signature")
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "signature verification failed", nil)
		return
	}

	event, err := h.Processor.Process(r.Context(), body)
	if err != nil {
		if errors.Is(err, ErrBadSignature) {
			obs.ObserveProviderWebhook("bad_signature")
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "signature verification failed", nil)
			return
		}
		obs.ObserveProviderWebhook("error")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "webhook processing failed", nil)
		return
	}
	obs.ObserveProviderWebhook("ok")
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]string{
			"event_id": event.ID,
			"status":   "received",
		},
	})
}
