package purchase

import "github.com/noah-isme/backend-paygate/internal/money"

// MoneyPayload is the wire form of a monetary value.
type MoneyPayload struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

func moneyPayload(m money.Money, roundToFloor bool) MoneyPayload {
	value := m.FormatValue()
	if roundToFloor {
		value = m.FormatFloor()
	}
	return MoneyPayload{CurrencyCode: m.CurrencyCode(), Value: value}
}

func optMoneyPayload(m *money.Money) *MoneyPayload {
	if m == nil {
		return nil
	}
	p := moneyPayload(*m, false)
	return &p
}

// ItemPayload is the wire form of a purchase line.
type ItemPayload struct {
	Name        string        `json:"name"`
	UnitAmount  MoneyPayload  `json:"unit_amount"`
	Quantity    int64         `json:"quantity"`
	Description string        `json:"description,omitempty"`
	SKU         string        `json:"sku,omitempty"`
	Category    string        `json:"category"`
	Tax         *MoneyPayload `json:"tax,omitempty"`
}

// BreakdownPayload is the wire form of an amount breakdown. Absent components
// produce no key at all.
type BreakdownPayload struct {
	ItemTotal        *MoneyPayload `json:"item_total,omitempty"`
	TaxTotal         *MoneyPayload `json:"tax_total,omitempty"`
	Shipping         *MoneyPayload `json:"shipping,omitempty"`
	Handling         *MoneyPayload `json:"handling,omitempty"`
	Insurance        *MoneyPayload `json:"insurance,omitempty"`
	ShippingDiscount *MoneyPayload `json:"shipping_discount,omitempty"`
	Discount         *MoneyPayload `json:"discount,omitempty"`
}

// AmountPayload is the wire form of a purchase-unit amount.
type AmountPayload struct {
	CurrencyCode string            `json:"currency_code"`
	Value        string            `json:"value"`
	Breakdown    *BreakdownPayload `json:"breakdown,omitempty"`
}

// AddressPayload is the wire form of a postal address.
type AddressPayload struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	AdminArea1   string `json:"admin_area_1,omitempty"`
	AdminArea2   string `json:"admin_area_2,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	CountryCode  string `json:"country_code"`
}

// ShippingPayload is the wire form of the shipping block.
type ShippingPayload struct {
	Name struct {
		FullName string `json:"full_name"`
	} `json:"name"`
	Address AddressPayload `json:"address"`
}

// PayeePayload identifies the merchant receiving the funds.
type PayeePayload struct {
	EmailAddress string `json:"email_address,omitempty"`
	MerchantID   string `json:"merchant_id,omitempty"`
}

// UnitPayload is the outbound purchase-unit body handed to the order client.
// reference_id, amount, description, custom_id, invoice_id and
// soft_descriptor are always present; the rest depends on the sanitizer
// resolution and on whether the optional blocks were set.
type UnitPayload struct {
	ReferenceID    string           `json:"reference_id"`
	Amount         AmountPayload    `json:"amount"`
	Description    string           `json:"description"`
	CustomID       string           `json:"custom_id"`
	InvoiceID      string           `json:"invoice_id"`
	SoftDescriptor string           `json:"soft_descriptor"`
	Items          []ItemPayload    `json:"items,omitempty"`
	Shipping       *ShippingPayload `json:"shipping,omitempty"`
	Payee          *PayeePayload    `json:"payee,omitempty"`
}
