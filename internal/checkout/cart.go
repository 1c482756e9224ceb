package checkout

import (
	"github.com/noah-isme/backend-paygate/internal/money"
	"github.com/noah-isme/backend-paygate/internal/purchase"
)

// CartItem is one line of a merchant supplied cart.
type CartItem struct {
	Name        string   `json:"name" validate:"required,max=127"`
	UnitValue   float64  `json:"unitValue" validate:"gte=0"`
	Quantity    int      `json:"quantity" validate:"gte=1"`
	TaxValue    *float64 `json:"taxValue,omitempty" validate:"omitempty,gte=0"`
	SKU         string   `json:"sku,omitempty" validate:"max=127"`
	Description string   `json:"description,omitempty"`
	Digital     bool     `json:"digital,omitempty"`
}

// CartTotals carries the merchant computed breakdown components. Nil fields
// are omitted from the provider payload.
type CartTotals struct {
	ItemTotal        *float64 `json:"itemTotal,omitempty" validate:"omitempty,gte=0"`
	TaxTotal         *float64 `json:"taxTotal,omitempty" validate:"omitempty,gte=0"`
	Shipping         *float64 `json:"shipping,omitempty" validate:"omitempty,gte=0"`
	Handling         *float64 `json:"handling,omitempty" validate:"omitempty,gte=0"`
	Insurance        *float64 `json:"insurance,omitempty" validate:"omitempty,gte=0"`
	ShippingDiscount *float64 `json:"shippingDiscount,omitempty" validate:"omitempty,gte=0"`
	Discount         *float64 `json:"discount,omitempty" validate:"omitempty,gte=0"`
}

// CartAddress is the optional shipping destination.
type CartAddress struct {
	FullName     string `json:"fullName,omitempty"`
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	AdminArea2   string `json:"city,omitempty"`
	AdminArea1   string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	CountryCode  string `json:"countryCode,omitempty" validate:"omitempty,len=2"`
}

// CartSnapshot is the full checkout request body.
type CartSnapshot struct {
	ReferenceID    string       `json:"referenceId,omitempty" validate:"max=256"`
	CurrencyCode   string       `json:"currencyCode" validate:"required,len=3"`
	Total          float64      `json:"total" validate:"gt=0"`
	Items          []CartItem   `json:"items,omitempty" validate:"dive"`
	Totals         *CartTotals  `json:"totals,omitempty"`
	Shipping       *CartAddress `json:"shipping,omitempty"`
	Description    string       `json:"description,omitempty" validate:"max=127"`
	CustomID       string       `json:"customId,omitempty" validate:"max=127"`
	InvoiceID      string       `json:"invoiceId,omitempty" validate:"max=127"`
	SoftDescriptor string       `json:"softDescriptor,omitempty" validate:"max=22"`
	PayeeEmail     string       `json:"payeeEmail,omitempty" validate:"omitempty,email"`
	PayeeMerchant  string       `json:"payeeMerchantId,omitempty"`
}

// PurchaseUnit converts the snapshot into the reconciliation model. Merchant
// totals are taken verbatim; the sanitizer decides afterwards which optional
// parts survive serialization.
func (c CartSnapshot) PurchaseUnit() purchase.Unit {
	currency := c.CurrencyCode
	unit := purchase.Unit{
		ReferenceID:    c.ReferenceID,
		Description:    c.Description,
		CustomID:       c.CustomID,
		InvoiceID:      c.InvoiceID,
		SoftDescriptor: c.SoftDescriptor,
		Amount: purchase.Amount{
			Total: money.New(c.Total, currency),
		},
	}

	for _, line := range c.Items {
		item := purchase.NewItem(line.Name, money.New(line.UnitValue, currency), int64(line.Quantity)).
			WithDescription(line.Description).
			WithSKU(line.SKU)
		if line.Digital {
			item = item.WithCategory(purchase.CategoryDigitalGoods)
		}
		if line.TaxValue != nil {
			item = item.WithTax(money.New(*line.TaxValue, currency))
		}
		unit.Items = append(unit.Items, item)
	}

	if c.Totals != nil {
		bd := &purchase.Breakdown{}
		assign := func(dst **money.Money, src *float64) {
			if src != nil {
				m := money.New(*src, currency)
				*dst = &m
			}
		}
		assign(&bd.ItemTotal, c.Totals.ItemTotal)
		assign(&bd.TaxTotal, c.Totals.TaxTotal)
		assign(&bd.Shipping, c.Totals.Shipping)
		assign(&bd.Handling, c.Totals.Handling)
		assign(&bd.Insurance, c.Totals.Insurance)
		assign(&bd.ShippingDiscount, c.Totals.ShippingDiscount)
		assign(&bd.Discount, c.Totals.Discount)
		unit.Amount.Breakdown = bd
	}

	if c.Shipping != nil {
		unit.Shipping = &purchase.Shipping{
			FullName:     c.Shipping.FullName,
			AddressLine1: c.Shipping.AddressLine1,
			AddressLine2: c.Shipping.AddressLine2,
			AdminArea2:   c.Shipping.AdminArea2,
			AdminArea1:   c.Shipping.AdminArea1,
			PostalCode:   c.Shipping.PostalCode,
			CountryCode:  c.Shipping.CountryCode,
		}
	}
	if c.PayeeEmail != "" || c.PayeeMerchant != "" {
		unit.Payee = &purchase.Payee{
			EmailAddress: c.PayeeEmail,
			MerchantID:   c.PayeeMerchant,
		}
	}
	return unit
}
