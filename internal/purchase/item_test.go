package purchase

import (
	"strings"
	"testing"

	"github.com/noah-isme/backend-paygate/internal/money"
)

func TestCleanDescription(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "A blue mug", "A blue mug"},
		{"strips markup", "A <strong>blue</strong> mug", "A blue mug"},
		{"strips shortcodes", "Mug [gallery id=1] with print", "Mug  with print"},
		{"blank collapses", "  <p></p> ", ""},
		{"truncates to limit", strings.Repeat("x", 200), strings.Repeat("x", 127)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanDescription(tc.in); got != tc.want {
				t.Fatalf("CleanDescription(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNewItemClampsQuantity(t *testing.T) {
	item := NewItem("Widget", money.New(1, "USD"), 0)
	if item.Quantity != 1 {
		t.Fatalf("expected quantity clamped to 1, got %d", item.Quantity)
	}
	if item.Category != CategoryPhysicalGoods {
		t.Fatalf("expected default physical goods category, got %s", item.Category)
	}
}

func TestItemPayloadTaxHandling(t *testing.T) {
	item := NewItem("Widget", money.New(10, "USD"), 2).WithTax(money.New(1.999, "USD"))

	withTax := item.Payload(false, true)
	if withTax.Tax == nil || withTax.Tax.Value != "2.00" {
		t.Fatalf("expected rounded tax 2.00, got %+v", withTax.Tax)
	}

	floored := item.Payload(true, true)
	if floored.Tax == nil || floored.Tax.Value != "1.99" {
		t.Fatalf("expected floored tax 1.99, got %+v", floored.Tax)
	}

	stripped := item.Payload(false, false)
	if stripped.Tax != nil {
		t.Fatal("expected tax omitted when excluded")
	}

	noTax := NewItem("Widget", money.New(10, "USD"), 2).Payload(false, true)
	if noTax.Tax != nil {
		t.Fatal("expected no tax key for untaxed item")
	}
}
