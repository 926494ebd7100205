package normalize

import (
	"testing"

	"card-arbitrage/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"£1,234.50", 1234.50, true},
		{"12,000円", 12000, true},
		{"$ 45.99", 45.99, true},
		{"980円", 980, true},
		{"GBP 25", 25, true},
		{"sold out", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePrice(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePrice(%q) = (%.2f, %v); want (%.2f, %v)",
				tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizeConvertsCurrency(t *testing.T) {
	raw := models.RawListing{Title: "リザードン【SAR】{201/165}", RawPrice: "12,000円"}
	band := Band{Min: 0.67, Max: 335}

	priced, reason := Normalize(raw, "JPY", "USD", 0.0067, band)
	if priced == nil {
		t.Fatalf("expected a priced listing, got rejection %q", reason)
	}
	if priced.Price != 12000 {
		t.Errorf("source price: got %.2f, want 12000", priced.Price)
	}
	if priced.ConvertedPrice != 80.4 {
		t.Errorf("converted price: got %.4f, want 80.4", priced.ConvertedPrice)
	}
	if priced.Currency != "JPY" || priced.TargetCurrency != "USD" {
		t.Errorf("currencies: got %s→%s, want JPY→USD", priced.Currency, priced.TargetCurrency)
	}
}

func TestNormalizeRejections(t *testing.T) {
	band := Band{Min: 0.67, Max: 335}

	tests := []struct {
		name string
		raw  string
		rate float64
		want RejectReason
	}{
		{"no digits", "ask in store", 0.0067, RejectNoDigits},
		{"below band", "50円", 0.0067, RejectBelowBand},
		{"above band", "9,999,999円", 0.0067, RejectAboveBand},
	}

	for _, tt := range tests {
		priced, reason := Normalize(models.RawListing{RawPrice: tt.raw}, "JPY", "USD", tt.rate, band)
		if priced != nil {
			t.Errorf("%s: expected rejection, got listing at %.2f", tt.name, priced.ConvertedPrice)
			continue
		}
		if reason != tt.want {
			t.Errorf("%s: reason = %q; want %q", tt.name, reason, tt.want)
		}
	}
}

func TestBandContains(t *testing.T) {
	band := Band{Min: 1, Max: 1000}

	tests := []struct {
		v    float64
		want bool
	}{
		{1, true},
		{1000, true},
		{0.99, false},
		{1000.01, false},
	}

	for _, tt := range tests {
		if got := band.Contains(tt.v); got != tt.want {
			t.Errorf("Contains(%.2f) = %v; want %v", tt.v, got, tt.want)
		}
	}
}
