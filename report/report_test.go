package report

import (
	"path/filepath"
	"regexp"
	"testing"

	"card-arbitrage/models"
	"card-arbitrage/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestTimestampedPath(t *testing.T) {
	path := TimestampedPath("./output", "bulk_arbitrage", "csv")

	if filepath.Dir(path) != "output" {
		t.Errorf("dir: got %q, want output", filepath.Dir(path))
	}
	base := filepath.Base(path)
	matched, _ := regexp.MatchString(`^bulk_arbitrage_\d{8}_\d{6}\.csv$`, base)
	if !matched {
		t.Errorf("filename %q does not match <type>_<YYYYMMDD_HHMMSS>.csv", base)
	}
}

func TestDedupePreservesFirst(t *testing.T) {
	opps := []*models.ArbitrageOpportunity{
		{JapaneseName: "リザードン", CardNumber: "201/165", BuyPriceUSD: 80},
		{JapaneseName: "ピカチュウ", CardNumber: "160/159", BuyPriceUSD: 30},
		{JapaneseName: "リザードン", CardNumber: "201/165", BuyPriceUSD: 95},
	}

	out := Dedupe(opps, func(o *models.ArbitrageOpportunity) string { return o.Key() }, newTestLogger())

	if len(out) != 2 {
		t.Fatalf("expected 2 opportunities, got %d", len(out))
	}
	if out[0].BuyPriceUSD != 80 {
		t.Errorf("first occurrence should win: got buy price %.0f, want 80", out[0].BuyPriceUSD)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	opps := []*models.ArbitrageOpportunity{
		{JapaneseName: "イーブイ", CardNumber: "101/100"},
		{JapaneseName: "ルギア", CardNumber: "102/100"},
	}

	once := Dedupe(opps, func(o *models.ArbitrageOpportunity) string { return o.Key() }, newTestLogger())
	twice := Dedupe(once, func(o *models.ArbitrageOpportunity) string { return o.Key() }, newTestLogger())

	if len(twice) != len(once) {
		t.Errorf("second dedupe changed length: %d -> %d", len(once), len(twice))
	}
}

func TestSortDescStable(t *testing.T) {
	opps := []*models.ArbitrageOpportunity{
		{JapaneseName: "a", MarginPercent: 30},
		{JapaneseName: "b", MarginPercent: 80},
		{JapaneseName: "c", MarginPercent: 50},
		{JapaneseName: "d", MarginPercent: 50},
	}

	SortDesc(opps, func(o *models.ArbitrageOpportunity) float64 { return o.MarginPercent })

	wantOrder := []string{"b", "c", "d", "a"}
	for i, want := range wantOrder {
		if opps[i].JapaneseName != want {
			t.Errorf("position %d: got %s, want %s", i, opps[i].JapaneseName, want)
		}
	}
}
