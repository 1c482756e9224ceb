package money

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		name     string
		value    float64
		currency string
		floor    bool
		want     string
	}{
		{"usd two decimals", 1.10, "USD", false, "1.10"},
		{"usd rounds half up", 1.995, "USD", false, "2.00"},
		{"usd pads zero cents", 5, "USD", false, "5.00"},
		{"jpy integer", 1, "JPY", false, "1"},
		{"jpy rounds", 1.6, "JPY", false, "2"},
		{"huf integer", 250.4, "HUF", false, "250"},
		{"twd integer", 33, "TWD", false, "33"},
		{"floor never rounds up", 1.999, "USD", true, "1.99"},
		{"floor keeps exact value", 8.20, "USD", true, "8.20"},
		{"floor on zero-decimal", 1.9, "JPY", true, "1"},
		{"floor exact integer cents", 3.00, "USD", true, "3.00"},
		{"negative value", -1.5, "USD", false, "-1.50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Format(tc.value, tc.currency, tc.floor)
			if got != tc.want {
				t.Fatalf("Format(%v, %q, %v) = %q, want %q", tc.value, tc.currency, tc.floor, got, tc.want)
			}
		})
	}
}

func TestToMinorUnits(t *testing.T) {
	if got := ToMinorUnits(10.00, "USD", false); got != 1000 {
		t.Fatalf("expected 1000 minor units, got %d", got)
	}
	if got := ToMinorUnits(1.999, "USD", true); got != 199 {
		t.Fatalf("expected floored 199 minor units, got %d", got)
	}
	if got := ToMinorUnits(8.20, "USD", true); got != 820 {
		t.Fatalf("float artifact should not truncate a representable value, got %d", got)
	}
	if got := ToMinorUnits(123, "JPY", false); got != 123 {
		t.Fatalf("expected 123 minor units for JPY, got %d", got)
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	m := FromMinorUnits(199, "USD")
	if m.FormatValue() != "1.99" {
		t.Fatalf("expected 1.99, got %s", m.FormatValue())
	}
	if m.MinorUnits() != 199 {
		t.Fatalf("expected 199, got %d", m.MinorUnits())
	}
	if !FromMinorUnits(0, "EUR").IsZero() {
		t.Fatal("expected zero money")
	}
}

func TestFormatValueMatchesFormat(t *testing.T) {
	m := New(1.10, "usd")
	if m.CurrencyCode() != "USD" {
		t.Fatalf("expected normalised currency, got %s", m.CurrencyCode())
	}
	if m.FormatValue() != Format(1.10, "USD", false) {
		t.Fatal("FormatValue should equal Format in normal mode")
	}
	if m.FormatFloor() != Format(1.10, "USD", true) {
		t.Fatal("FormatFloor should equal Format in floor mode")
	}
}
