package pricing

import (
	"encoding/json"
	"testing"
)

func TestQueryVariants(t *testing.T) {
	variants := queryVariants("Gardevoir ex 245/193")

	if variants[0] != "Gardevoir ex 245/193" {
		t.Errorf("first variant should be the full name, got %q", variants[0])
	}
	found := map[string]bool{}
	for _, v := range variants {
		found[v] = true
	}
	if !found["Gardevoir 245/193"] {
		t.Errorf("expected an ex-stripped variant, got %v", variants)
	}
	if !found["Gardevoir"] {
		t.Errorf("expected a first-word variant, got %v", variants)
	}
}

func TestBestMatchRequiresEnoughTerms(t *testing.T) {
	candidates := []apiCard{
		{Name: "Gardevoir", TCGID: "sv2-86"},
		{Name: "Gardevoir ex", TCGID: "sv2-245"},
	}

	// A three-term query needs two matches; plain "Gardevoir" only has one.
	match := bestMatch("Gardevoir ex 245/193", candidates)
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Name != "Gardevoir ex" {
		t.Errorf("matched %q; want Gardevoir ex", match.Name)
	}
}

func TestBestMatchNoCandidates(t *testing.T) {
	candidates := []apiCard{
		{Name: "Pikachu", TCGID: "svp-27"},
	}
	if match := bestMatch("Charizard ex 234/197", candidates); match != nil {
		t.Errorf("expected no match, got %q", match.Name)
	}
}

func TestBuildCardPriceSelection(t *testing.T) {
	var a apiCard
	a.Name = "Iono"
	a.CardNumber = json.Number("269")
	a.Prices.TCGPlayer.MarketPrice = 32.50
	a.Prices.CardMarket.Avg30 = 28.00
	a.Prices.CardMarket.Avg7 = 41.00

	card := buildCard(&a)
	if card.MarketPriceEUR != 32.50 {
		t.Errorf("market price should prefer TCGPlayer market: got %.2f", card.MarketPriceEUR)
	}
	if card.HighPriceEUR != 41.00 {
		t.Errorf("high price should be the max across blocks: got %.2f", card.HighPriceEUR)
	}
	if card.Estimated {
		t.Error("card with real prices should not be flagged as estimated")
	}
}

func TestBuildCardFallsBackToCardMarket(t *testing.T) {
	var a apiCard
	a.Prices.CardMarket.Avg30 = 12.00

	card := buildCard(&a)
	if card.MarketPriceEUR != 12.00 {
		t.Errorf("market price should fall back to CardMarket 30d: got %.2f", card.MarketPriceEUR)
	}
}

func TestBuildCardRarityEstimate(t *testing.T) {
	var a apiCard
	a.Rarity = "Ultra Rare"

	card := buildCard(&a)
	if !card.Estimated {
		t.Fatal("card without prices should be estimated from rarity")
	}
	if card.MarketPriceEUR != 20.00 {
		t.Errorf("ultra rare estimate: got %.2f, want 20.00", card.MarketPriceEUR)
	}
}

func TestEstimateFromRarityOrder(t *testing.T) {
	// "rare holo ex" must win over the bare "rare" substring.
	est, ok := estimateFromRarity("Rare Holo ex")
	if !ok || est != 15.00 {
		t.Errorf("rare holo ex: got (%.2f, %v), want (15.00, true)", est, ok)
	}
}
