package purchase

import (
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-paygate/internal/money"
)

// roundingItemName is the synthetic line appended when the item sum falls
// short of item_total by a representable amount.
const roundingItemName = "Roundings"

var sanitizerNopLogger = zerolog.Nop()

// Resolution captures the corrective decisions for one unit. Serialization
// happens exactly once, after all three passes have settled these flags, so
// no value is ever formatted and re-parsed.
type Resolution struct {
	// IncludeItems keeps the items key in the payload.
	IncludeItems bool
	// IncludeBreakdown keeps the amount.breakdown key in the payload.
	IncludeBreakdown bool
	// IncludeItemTax keeps per-item tax fields on serialized items.
	IncludeItemTax bool
	// FloorItemAmounts formats item monetary fields truncated downward.
	FloorItemAmounts bool
	// RoundingLine, when set, is appended as a quantity-1 synthetic item.
	RoundingLine *money.Money
}

// ItemsDitched reports whether the unit had items that were dropped.
func (r Resolution) ItemsDitched(u Unit) bool {
	return len(u.Items) > 0 && !r.IncludeItems
}

// BreakdownDitched reports whether the unit had a breakdown that was dropped.
func (r Resolution) BreakdownDitched(u Unit) bool {
	return u.Amount.Breakdown != nil && !r.IncludeBreakdown
}

// TaxStripped reports whether declared item taxes were removed.
func (r Resolution) TaxStripped(u Unit) bool {
	return r.IncludeItems && !r.IncludeItemTax && anyItemTax(u.Items)
}

// Sanitizer reconciles the three numeric views of a purchase unit (total,
// breakdown, line items) before transmission. Inconsistencies are resolved by
// correction or omission, never by failing the checkout: a smaller
// self-consistent payload beats one the provider would reject outright.
type Sanitizer struct {
	// Log receives one event per corrective decision. Nil disables logging.
	Log *zerolog.Logger
}

// Sanitize resolves the corrective flags for the unit and serializes it. It
// is a pure function of the unit: no I/O, no errors, and idempotent. On an
// already-sanitized unit every pass finds zero mismatch because absent parts
// contribute zero to the mismatch formulas.
func (s Sanitizer) Sanitize(u Unit) (UnitPayload, Resolution) {
	res := s.Resolve(u)
	return serializeUnit(u, res), res
}

// Resolve runs the three corrective passes in their fixed order and returns
// the resulting flags without serializing.
func (s Sanitizer) Resolve(u Unit) Resolution {
	res := Resolution{
		IncludeItems:     len(u.Items) > 0,
		IncludeBreakdown: u.Amount.Breakdown != nil,
		IncludeItemTax:   true,
	}
	res = s.correctItemAmounts(u, res)
	res = s.correctItemTax(u, res)
	res = s.correctBreakdownTotal(u, res)
	return res
}

// correctItemAmounts is the item-amount pass. When the serialized item sum
// disagrees with breakdown.item_total it first reformats items with floor
// rounding (which can only shrink the sum), then appends a synthetic rounding
// line for any remaining shortfall, and ditches the items key if a mismatch
// still survives.
func (s Sanitizer) correctItemAmounts(u Unit, res Resolution) Resolution {
	bd := u.Amount.Breakdown
	if !res.IncludeItems || bd == nil || bd.ItemTotal == nil {
		return res
	}
	target := bd.ItemTotal.MinorUnits()
	if target == 0 {
		return res
	}
	currency := u.Amount.CurrencyCode()

	mismatch := target - itemAmountSum(u.Items, false)
	if mismatch < 0 {
		res.FloorItemAmounts = true
		mismatch = target - itemAmountSum(u.Items, true)
		s.logger().Debug().
			Str("reference_id", u.ReferenceID).
			Int64("mismatch_minor_units", mismatch).
			Msg("item amounts reformatted with floor rounding")
	}
	if mismatch > 0 {
		line := money.FromMinorUnits(mismatch, currency)
		res.RoundingLine = &line
		s.logger().Info().
			Str("reference_id", u.ReferenceID).
			Str("amount", line.FormatValue()).
			Msg("rounding line appended to items")
		mismatch = target - itemAmountSum(u.Items, res.FloorItemAmounts) - line.MinorUnits()
	}
	if mismatch != 0 {
		res.IncludeItems = false
		res.FloorItemAmounts = false
		res.RoundingLine = nil
		s.logger().Warn().
			Str("reference_id", u.ReferenceID).
			Int64("mismatch_minor_units", mismatch).
			Msg("items ditched: sum cannot be reconciled with item_total")
	}
	return res
}

// correctItemTax is the item-tax pass. It only applies when the surviving
// item list declares tax; a mismatch against breakdown.tax_total strips the
// tax fields from every item but keeps the items themselves.
func (s Sanitizer) correctItemTax(u Unit, res Resolution) Resolution {
	if !res.IncludeItems || !anyItemTax(u.Items) {
		return res
	}
	var target int64
	if bd := u.Amount.Breakdown; bd != nil && bd.TaxTotal != nil {
		target = bd.TaxTotal.MinorUnits()
	}
	if target != itemTaxSum(u.Items, res.FloorItemAmounts) {
		res.IncludeItemTax = false
		s.logger().Warn().
			Str("reference_id", u.ReferenceID).
			Msg("item tax stripped: sum does not match tax_total")
	}
	return res
}

// correctBreakdownTotal is the breakdown-total pass. It runs last and takes
// precedence: when the breakdown components do not sum to the grand total,
// both the items and the breakdown are ditched regardless of earlier
// corrections.
func (s Sanitizer) correctBreakdownTotal(u Unit, res Resolution) Resolution {
	bd := u.Amount.Breakdown
	if bd == nil {
		return res
	}
	if bd.TotalMinorUnits() == u.Amount.Total.MinorUnits() {
		return res
	}
	res.IncludeItems = false
	res.IncludeBreakdown = false
	res.FloorItemAmounts = false
	res.RoundingLine = nil
	s.logger().Warn().
		Str("reference_id", u.ReferenceID).
		Str("total", u.Amount.Total.FormatValue()).
		Int64("breakdown_minor_units", bd.TotalMinorUnits()).
		Msg("items and breakdown ditched: breakdown does not sum to total")
	return res
}

func (s Sanitizer) logger() *zerolog.Logger {
	if s.Log == nil {
		return &sanitizerNopLogger
	}
	return s.Log
}

// itemAmountSum totals unit_amount × quantity in minor units, using the same
// rounding the serialization will use so the payload validates against its
// own numbers.
func itemAmountSum(items []Item, floor bool) int64 {
	var sum int64
	for _, it := range items {
		sum += money.ToMinorUnits(it.UnitAmount.Value(), it.UnitAmount.CurrencyCode(), floor) * it.Quantity
	}
	return sum
}

// itemTaxSum totals tax × quantity in minor units over items declaring tax.
func itemTaxSum(items []Item, floor bool) int64 {
	var sum int64
	for _, it := range items {
		if it.Tax == nil {
			continue
		}
		sum += money.ToMinorUnits(it.Tax.Value(), it.Tax.CurrencyCode(), floor) * it.Quantity
	}
	return sum
}

func anyItemTax(items []Item) bool {
	for _, it := range items {
		if it.Tax != nil {
			return true
		}
	}
	return false
}

func serializeUnit(u Unit, res Resolution) UnitPayload {
	payload := UnitPayload{
		ReferenceID:    u.ReferenceID,
		Amount:         u.Amount.Payload(res.IncludeBreakdown),
		Description:    u.Description,
		CustomID:       u.CustomID,
		InvoiceID:      u.InvoiceID,
		SoftDescriptor: u.SoftDescriptor,
		Shipping:       u.Shipping.payload(),
		Payee:          u.Payee.payload(),
	}
	if !res.IncludeItems {
		return payload
	}
	items := make([]ItemPayload, 0, len(u.Items)+1)
	for _, it := range u.Items {
		items = append(items, it.Payload(res.FloorItemAmounts, res.IncludeItemTax))
	}
	if res.RoundingLine != nil {
		items = append(items, NewItem(roundingItemName, *res.RoundingLine, 1).Payload(false, false))
	}
	payload.Items = items
	return payload
}
