package ebay

import (
	"strings"
	"testing"
)

func TestSoldAuctionURL(t *testing.T) {
	u := SoldAuctionURL("Gardevoir ex 245/193")

	if !strings.HasPrefix(u, "https://www.ebay.co.uk/sch/i.html?") {
		t.Fatalf("unexpected host: %s", u)
	}
	for _, param := range []string{
		"_nkw=Gardevoir+ex+245%2F193",
		"Graded=No",
		"_dcat=183454",
		"LH_PrefLoc=1",
		"LH_Sold=1",
		"LH_Complete=1",
		"LH_Auction=1",
		"_ipg=50",
		"_sop=13",
	} {
		if !strings.Contains(u, param) {
			t.Errorf("missing parameter %q in %s", param, u)
		}
	}
}

func TestSoldSearchURL(t *testing.T) {
	u := SoldSearchURL("Charizard 201/165")

	if !strings.HasPrefix(u, "https://www.ebay.com/sch/i.html?") {
		t.Fatalf("unexpected host: %s", u)
	}
	if !strings.Contains(u, "_nkw=Charizard+201%2F165") {
		t.Errorf("missing search term in %s", u)
	}
	if !strings.Contains(u, "LH_Sold=1") {
		t.Errorf("missing sold filter in %s", u)
	}
}

func TestIsGradedTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Charizard ex PSA 10 Gem Mint", true},
		{"Pikachu BGS 9.5", true},
		{"Gardevoir CGC 10 Pristine", true},
		{"Charizard ex 234/197 raw NM", false},
		{"Iono SAR near mint", false},
	}

	for _, tt := range tests {
		if got := isGradedTitle(tt.title); got != tt.want {
			t.Errorf("isGradedTitle(%q) = %v; want %v", tt.title, got, tt.want)
		}
	}
}
