package purchase

import "github.com/noah-isme/backend-paygate/internal/money"

// Breakdown itemises the composition of a total. Every component is optional;
// a nil component contributes zero to reconciliation and is omitted from the
// serialized form entirely.
type Breakdown struct {
	ItemTotal        *money.Money
	TaxTotal         *money.Money
	Shipping         *money.Money
	Handling         *money.Money
	Insurance        *money.Money
	ShippingDiscount *money.Money
	Discount         *money.Money
}

// TotalMinorUnits sums the components in minor units: item_total, tax_total,
// shipping, handling and insurance add; discount and shipping_discount
// subtract.
func (b *Breakdown) TotalMinorUnits() int64 {
	if b == nil {
		return 0
	}
	var total int64
	total += minorOrZero(b.ItemTotal)
	total += minorOrZero(b.TaxTotal)
	total += minorOrZero(b.Shipping)
	total += minorOrZero(b.Handling)
	total += minorOrZero(b.Insurance)
	total -= minorOrZero(b.Discount)
	total -= minorOrZero(b.ShippingDiscount)
	return total
}

func minorOrZero(m *money.Money) int64 {
	if m == nil {
		return 0
	}
	return m.MinorUnits()
}

// Payload serializes the breakdown, omitting absent components.
func (b *Breakdown) Payload() *BreakdownPayload {
	if b == nil {
		return nil
	}
	return &BreakdownPayload{
		ItemTotal:        optMoneyPayload(b.ItemTotal),
		TaxTotal:         optMoneyPayload(b.TaxTotal),
		Shipping:         optMoneyPayload(b.Shipping),
		Handling:         optMoneyPayload(b.Handling),
		Insurance:        optMoneyPayload(b.Insurance),
		ShippingDiscount: optMoneyPayload(b.ShippingDiscount),
		Discount:         optMoneyPayload(b.Discount),
	}
}

// Amount is the authoritative grand total the customer is charged, together
// with its optional itemised breakdown.
type Amount struct {
	Total     money.Money
	Breakdown *Breakdown
}

// CurrencyCode returns the currency of the total.
func (a Amount) CurrencyCode() string { return a.Total.CurrencyCode() }

// Payload serializes the amount. includeBreakdown controls whether a present
// breakdown is emitted.
func (a Amount) Payload(includeBreakdown bool) AmountPayload {
	p := AmountPayload{
		CurrencyCode: a.Total.CurrencyCode(),
		Value:        a.Total.FormatValue(),
	}
	if includeBreakdown {
		p.Breakdown = a.Breakdown.Payload()
	}
	return p
}
