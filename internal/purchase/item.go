package purchase

import (
	"regexp"
	"strings"

	"github.com/noah-isme/backend-paygate/internal/money"
)

// Category identifies the kind of goods a line item represents.
type Category string

const (
	// CategoryPhysicalGoods marks items that require shipping.
	CategoryPhysicalGoods Category = "PHYSICAL_GOODS"
	// CategoryDigitalGoods marks items delivered electronically.
	CategoryDigitalGoods Category = "DIGITAL_GOODS"
)

// maxDescriptionLen is the provider-side limit for item descriptions.
const maxDescriptionLen = 127

var (
	markupPattern    = regexp.MustCompile(`<[^>]*>`)
	shortcodePattern = regexp.MustCompile(`\[[^\]]*\]`)
)

// Item is one purchase line. Items are built once from upstream order data
// and never mutated; the sanitizer may synthesise an extra one (see
// roundingItemName).
type Item struct {
	Name        string
	UnitAmount  money.Money
	Quantity    int64
	Description string
	Tax         *money.Money
	SKU         string
	Category    Category
}

// NewItem constructs an item with a cleaned description. Quantity is clamped
// to a minimum of 1.
func NewItem(name string, unitAmount money.Money, quantity int64) Item {
	if quantity < 1 {
		quantity = 1
	}
	return Item{
		Name:       name,
		UnitAmount: unitAmount,
		Quantity:   quantity,
		Category:   CategoryPhysicalGoods,
	}
}

// WithDescription returns a copy carrying the cleaned, truncated description.
func (i Item) WithDescription(description string) Item {
	i.Description = CleanDescription(description)
	return i
}

// WithTax returns a copy carrying a per-unit tax amount.
func (i Item) WithTax(tax money.Money) Item {
	i.Tax = &tax
	return i
}

// WithSKU returns a copy carrying the SKU.
func (i Item) WithSKU(sku string) Item {
	i.SKU = sku
	return i
}

// WithCategory returns a copy carrying the category.
func (i Item) WithCategory(category Category) Item {
	i.Category = category
	return i
}

// CleanDescription strips markup and shortcodes and truncates the result to
// the provider limit. A blank result collapses to the empty string.
func CleanDescription(description string) string {
	cleaned := markupPattern.ReplaceAllString(description, "")
	cleaned = shortcodePattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return ""
	}
	runes := []rune(cleaned)
	if len(runes) > maxDescriptionLen {
		cleaned = strings.TrimSpace(string(runes[:maxDescriptionLen]))
	}
	return cleaned
}

// Payload serializes the item. roundToFloor selects floor formatting for the
// monetary fields; includeTax controls whether a declared tax is emitted.
func (i Item) Payload(roundToFloor, includeTax bool) ItemPayload {
	p := ItemPayload{
		Name:        i.Name,
		UnitAmount:  moneyPayload(i.UnitAmount, roundToFloor),
		Quantity:    i.Quantity,
		Description: i.Description,
		SKU:         i.SKU,
		Category:    string(i.Category),
	}
	if includeTax && i.Tax != nil {
		tax := moneyPayload(*i.Tax, roundToFloor)
		p.Tax = &tax
	}
	return p
}
