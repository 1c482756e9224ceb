package purchase

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUnitPayloadJSONShape(t *testing.T) {
	unit := unitWith(&Breakdown{ItemTotal: usdPtr(20), TaxTotal: usdPtr(6)}, 26, twoOfTenWithTax())
	unit.ReferenceID = "ref-1"
	unit.InvoiceID = "INV-100"
	payload, _ := Sanitizer{}.Sanitize(unit)

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body := string(raw)

	for _, key := range []string{
		`"reference_id":"ref-1"`,
		`"invoice_id":"INV-100"`,
		`"currency_code":"USD"`,
		`"value":"26.00"`,
		`"item_total":{"currency_code":"USD","value":"20.00"}`,
		`"tax_total":{"currency_code":"USD","value":"6.00"}`,
		`"quantity":2`,
	} {
		if !strings.Contains(body, key) {
			t.Fatalf("payload JSON missing %s: %s", key, body)
		}
	}
	// Absent breakdown components, shipping and payee must produce no key.
	for _, key := range []string{`"shipping"`, `"payee"`, `"discount"`, `"handling"`, `"insurance"`} {
		if strings.Contains(body, key) {
			t.Fatalf("payload JSON should omit %s: %s", key, body)
		}
	}
	// Always-present metadata keys serialize even when empty.
	for _, key := range []string{`"description"`, `"custom_id"`, `"soft_descriptor"`} {
		if !strings.Contains(body, key) {
			t.Fatalf("payload JSON missing required key %s: %s", key, body)
		}
	}
}

func TestUnitPayloadDitchedKeysAbsent(t *testing.T) {
	unit := unitWith(&Breakdown{ItemTotal: usdPtr(20), TaxTotal: usdPtr(6)}, 260, twoOfTenWithTax())
	payload, _ := Sanitizer{}.Sanitize(unit)

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, `"items"`) {
		t.Fatalf("ditched items key still serialized: %s", body)
	}
	if strings.Contains(body, `"breakdown"`) {
		t.Fatalf("ditched breakdown key still serialized: %s", body)
	}
	if !strings.Contains(body, `"value":"260.00"`) {
		t.Fatalf("total must survive a ditch: %s", body)
	}
}

func TestUnitPayloadIncludesShippingAndPayee(t *testing.T) {
	unit := unitWith(nil, 26, NewItem("Widget", usd(13), 2))
	unit.Shipping = &Shipping{FullName: "Jane Doe", AddressLine1: "1 Main St", PostalCode: "12345", CountryCode: "US"}
	unit.Payee = &Payee{MerchantID: "M-1"}
	payload, _ := Sanitizer{}.Sanitize(unit)

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, `"full_name":"Jane Doe"`) || !strings.Contains(body, `"country_code":"US"`) {
		t.Fatalf("shipping block not serialized: %s", body)
	}
	if !strings.Contains(body, `"merchant_id":"M-1"`) {
		t.Fatalf("payee block not serialized: %s", body)
	}
}

func TestBreakdownTotalMinorUnits(t *testing.T) {
	bd := &Breakdown{
		ItemTotal:        usdPtr(20),
		TaxTotal:         usdPtr(6),
		Shipping:         usdPtr(5),
		Handling:         usdPtr(1),
		Insurance:        usdPtr(0.50),
		Discount:         usdPtr(3),
		ShippingDiscount: usdPtr(2.50),
	}
	if got := bd.TotalMinorUnits(); got != 2700 {
		t.Fatalf("expected 2700 minor units, got %d", got)
	}
	var nilBd *Breakdown
	if nilBd.TotalMinorUnits() != 0 {
		t.Fatal("nil breakdown must contribute zero")
	}
}
