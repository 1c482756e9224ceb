package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-paygate/internal/common"
	"github.com/noah-isme/backend-paygate/internal/obs"
	"github.com/noah-isme/backend-paygate/internal/orders"
	"github.com/noah-isme/backend-paygate/internal/purchase"
	"github.com/noah-isme/backend-paygate/internal/store"
)

// OrderCreator creates an order at the provider.
type OrderCreator interface {
	CreateOrder(ctx context.Context, requestID string, body orders.CreateOrderRequest) (orders.Order, error)
}

// OrderSaver persists the local order record.
type OrderSaver interface {
	InsertOrder(ctx context.Context, rec store.OrderRecord) (uuid.UUID, error)
}

var serviceNopLogger = zerolog.Nop()

// Output is the response returned to the merchant after a successful checkout.
type Output struct {
	OrderID         string               `json:"orderId"`
	ProviderOrderID string               `json:"providerOrderId"`
	Status          string               `json:"status"`
	PurchaseUnit    purchase.UnitPayload `json:"purchaseUnit"`
	ApproveLink     string               `json:"approveLink,omitempty"`
}

// Service validates a cart snapshot, reconciles its amounts and creates the
// provider order.
type Service struct {
	Validate *validator.Validate
	Orders   OrderCreator
	Store    OrderSaver
	Intent   string
	Log      *zerolog.Logger
}

// Create runs one checkout attempt end to end. The merchant supplied cart is
// never rejected for internally inconsistent amounts; the sanitizer degrades
// the payload instead.
func (s *Service) Create(ctx context.Context, merchantID string, snapshot CartSnapshot) (Output, error) {
	if s.Validate != nil {
		if err := s.Validate.Struct(snapshot); err != nil {
			return Output{}, common.NewAppError("VALIDATION", "invalid checkout payload", http.StatusUnprocessableEntity, err)
		}
	}

	unit := snapshot.PurchaseUnit()
	payload, res := purchase.Sanitizer{Log: s.logger()}.Sanitize(unit)
	recordCorrections(res, unit)

	requestID := uuid.NewString()
	created, err := s.Orders.CreateOrder(ctx, requestID, orders.CreateOrderRequest{
		Intent:        s.intent(),
		PurchaseUnits: []purchase.UnitPayload{payload},
	})
	if err != nil {
		obs.ObserveOrderCreate("error")
		return Output{}, fmt.Errorf("create provider order: %w", err)
	}
	obs.ObserveOrderCreate("ok")

	encoded, err := json.Marshal(payload)
	if err != nil {
		return Output{}, fmt.Errorf("encode purchase unit: %w", err)
	}
	localID, err := s.Store.InsertOrder(ctx, store.OrderRecord{
		MerchantID:      merchantID,
		ProviderOrderID: created.ID,
		ReferenceID:     payload.ReferenceID,
		InvoiceID:       payload.InvoiceID,
		CurrencyCode:    payload.Amount.CurrencyCode,
		TotalValue:      payload.Amount.Value,
		Status:          store.OrderStatusCreated,
		Payload:         encoded,
	})
	if err != nil {
		// the provider order exists; surface the persistence failure rather
		// than pretending the checkout failed outright
		return Output{}, fmt.Errorf("persist order %s: %w", created.ID, err)
	}

	s.logger().Info().
		Str("merchant_id", merchantID).
		Str("order_id", localID.String()).
		Str("provider_order_id", created.ID).
		Str("total", payload.Amount.Value).
		Msg("checkout_completed")

	return Output{
		OrderID:         localID.String(),
		ProviderOrderID: created.ID,
		Status:          created.Status,
		PurchaseUnit:    payload,
		ApproveLink:     approveLink(created),
	}, nil
}

func (s *Service) intent() string {
	if s.Intent != "" {
		return s.Intent
	}
	return orders.IntentCapture
}

func (s *Service) logger() *zerolog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return &serviceNopLogger
}

func recordCorrections(res purchase.Resolution, unit purchase.Unit) {
	if res.FloorItemAmounts {
		obs.ObserveSanitizerCorrection("item_amounts_floored")
	}
	if res.RoundingLine != nil {
		obs.ObserveSanitizerCorrection("rounding_line_added")
	}
	if res.TaxStripped(unit) {
		obs.ObserveSanitizerCorrection("item_tax_stripped")
	}
	if res.ItemsDitched(unit) {
		obs.ObserveSanitizerCorrection("items_ditched")
	}
	if res.BreakdownDitched(unit) {
		obs.ObserveSanitizerCorrection("breakdown_ditched")
	}
}

func approveLink(order orders.Order) string {
	for _, link := range order.Links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}
