package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	dbgen "github.com/noah-isme/backend-paygate/internal/db/gen"
)

// Order status values tracked by the gateway.
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusApproved  = "APPROVED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusVoided    = "VOIDED"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// OrderRecord mirrors the orders table.
type OrderRecord struct {
	ID              uuid.UUID
	MerchantID      string
	ProviderOrderID string
	ReferenceID     string
	InvoiceID       string
	CurrencyCode    string
	TotalValue      string
	Status          string
	Payload         []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InsertOrder persists a freshly created provider order together with the
// serialized purchase unit payload that was sent upstream.
func (s *Store) InsertOrder(ctx context.Context, rec OrderRecord) (uuid.UUID, error) {
	id := rec.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	err := s.Q.InsertOrder(ctx, dbgen.InsertOrderParams{
		ID:              id,
		MerchantID:      rec.MerchantID,
		ProviderOrderID: rec.ProviderOrderID,
		ReferenceID:     rec.ReferenceID,
		InvoiceID:       rec.InvoiceID,
		CurrencyCode:    rec.CurrencyCode,
		TotalValue:      rec.TotalValue,
		Status:          rec.Status,
		Payload:         rec.Payload,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

// GetOrderByProviderID fetches an order by the identifier assigned upstream.
func (s *Store) GetOrderByProviderID(ctx context.Context, providerOrderID string) (OrderRecord, error) {
	row, err := s.Q.GetOrderByProviderID(ctx, providerOrderID)
	if errors.Is(err, pgx.ErrNoRows) {
		return OrderRecord{}, ErrNotFound
	}
	if err != nil {
		return OrderRecord{}, fmt.Errorf("get order: %w", err)
	}
	return orderRecord(row), nil
}

// UpdateOrderStatus transitions an order identified by its provider id.
func (s *Store) UpdateOrderStatus(ctx context.Context, providerOrderID, status string) error {
	rows, err := s.Q.UpdateOrderStatus(ctx, dbgen.UpdateOrderStatusParams{
		ProviderOrderID: providerOrderID,
		Status:          status,
	})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListOrdersByMerchant returns the most recent orders for a merchant.
func (s *Store) ListOrdersByMerchant(ctx context.Context, merchantID string, limit int) ([]OrderRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := s.Q.ListOrdersByMerchant(ctx, dbgen.ListOrdersByMerchantParams{
		MerchantID: merchantID,
		Limit:      int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]OrderRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, orderRecord(row))
	}
	return out, nil
}

func orderRecord(row dbgen.Order) OrderRecord {
	return OrderRecord{
		ID:              row.ID,
		MerchantID:      row.MerchantID,
		ProviderOrderID: row.ProviderOrderID,
		ReferenceID:     row.ReferenceID,
		InvoiceID:       row.InvoiceID,
		CurrencyCode:    row.CurrencyCode,
		TotalValue:      row.TotalValue,
		Status:          row.Status,
		Payload:         row.Payload,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
