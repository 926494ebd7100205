package scorer

import (
	"math"
	"testing"

	"card-arbitrage/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.05
}

func TestScoreResale(t *testing.T) {
	tests := []struct {
		buy        float64
		sell       float64
		wantProfit float64
		wantMargin float64
	}{
		{10, 15, 5, 50},
		{100, 120, 20, 20},
		{50, 40, -10, -20},
		{0, 25, 25, 0},
	}

	for _, tt := range tests {
		profit, margin := ScoreResale(tt.buy, tt.sell)
		if !almostEqual(profit, tt.wantProfit) || !almostEqual(margin, tt.wantMargin) {
			t.Errorf("ScoreResale(%.0f, %.0f) = (%.2f, %.2f); want (%.2f, %.2f)",
				tt.buy, tt.sell, profit, margin, tt.wantProfit, tt.wantMargin)
		}
	}
}

func TestMarginGateStrict(t *testing.T) {
	gate := MarginGate{MinMarginPercent: 20}

	if gate.Pass(20) {
		t.Error("margin exactly at threshold should not pass")
	}
	if !gate.Pass(20.1) {
		t.Error("margin above threshold should pass")
	}
}

func TestScoreGradingProfitableCard(t *testing.T) {
	gate := GradingGate{MinROIPercent: 100, MinReturnMultiple: 3.0}

	a := ScoreGrading("ACE", 35, 165, 25, 8, gate)

	if !almostEqual(a.TotalInvestment, 68) {
		t.Errorf("total investment: got %.2f, want 68", a.TotalInvestment)
	}
	if !almostEqual(a.GrossProfit, 130) {
		t.Errorf("gross profit: got %.2f, want 130", a.GrossProfit)
	}
	if !almostEqual(a.NetProfit, 97) {
		t.Errorf("net profit: got %.2f, want 97", a.NetProfit)
	}
	if !almostEqual(a.ROIPercent, 142.65) {
		t.Errorf("ROI: got %.2f, want 142.65", a.ROIPercent)
	}
	if !almostEqual(a.ReturnMultiple, 4.71) {
		t.Errorf("return multiple: got %.2f, want 4.71", a.ReturnMultiple)
	}
	if !a.MeetsCriteria {
		t.Error("card should meet the 3x/100% criteria")
	}
}

func TestScoreGradingBelowCriteria(t *testing.T) {
	gate := GradingGate{MinROIPercent: 100, MinReturnMultiple: 3.0}

	// 2.6x return fails the multiple even though ROI would be fine.
	a := ScoreGrading("PSA", 50, 130, 20, 8, gate)
	if a.MeetsCriteria {
		t.Errorf("2.6x return should not meet criteria (multiple %.2f, roi %.2f)",
			a.ReturnMultiple, a.ROIPercent)
	}
}

func TestScoreGradingZeroRawPrice(t *testing.T) {
	gate := GradingGate{MinROIPercent: 100, MinReturnMultiple: 3.0}

	a := ScoreGrading("ACE", 0, 100, 25, 8, gate)
	if a.ReturnMultiple != 0 {
		t.Errorf("return multiple with zero raw price: got %.2f, want 0", a.ReturnMultiple)
	}
}

func TestRecommendPicksBestNetProfit(t *testing.T) {
	gate := GradingGate{MinROIPercent: 100, MinReturnMultiple: 3.0}

	ace := ScoreGrading("ACE", 42, 185, 25, 8, gate)
	psa := ScoreGrading("PSA", 42, 220, 20, 8, gate)

	_, best := Recommend([]models.GradingAnalysis{ace, psa})
	if best == nil {
		t.Fatal("expected a recommendation")
	}
	if best.Service != "PSA" {
		t.Errorf("best service: got %s, want PSA", best.Service)
	}
	if !almostEqual(best.NetProfit, 150) {
		t.Errorf("best net profit: got %.2f, want 150", best.NetProfit)
	}
}

func TestRecommendTieKeepsFirst(t *testing.T) {
	analyses := []models.GradingAnalysis{
		{Service: "ACE", NetProfit: 100, MeetsCriteria: true},
		{Service: "PSA", NetProfit: 100, MeetsCriteria: true},
	}

	_, best := Recommend(analyses)
	if best == nil || best.Service != "ACE" {
		t.Errorf("tie on net profit should keep the first service, got %v", best)
	}
}

func TestRecommendSkipWhenNonePass(t *testing.T) {
	analyses := []models.GradingAnalysis{
		{Service: "ACE", NetProfit: 10, MeetsCriteria: false},
		{Service: "PSA", NetProfit: 15, MeetsCriteria: false},
	}

	rec, best := Recommend(analyses)
	if best != nil {
		t.Errorf("expected no best analysis, got %s", best.Service)
	}
	if rec == "" {
		t.Error("skip recommendation should carry an explanation")
	}
}

func TestUndervaluation(t *testing.T) {
	tests := []struct {
		current    float64
		high       float64
		wantDrop   float64
		wantUpside float64
	}{
		{45, 60, 25, 33.33},
		{50, 50, 0, 0},
		{60, 50, 0, 0},
		{0, 50, 0, 0},
	}

	for _, tt := range tests {
		drop, upside := Undervaluation(tt.current, tt.high)
		if !almostEqual(drop, tt.wantDrop) || !almostEqual(upside, tt.wantUpside) {
			t.Errorf("Undervaluation(%.0f, %.0f) = (%.2f, %.2f); want (%.2f, %.2f)",
				tt.current, tt.high, drop, upside, tt.wantDrop, tt.wantUpside)
		}
	}
}

func TestTrendBuckets(t *testing.T) {
	tests := []struct {
		drop float64
		want string
	}{
		{0, "up"},
		{9.9, "up"},
		{10, "stable"},
		{24.9, "stable"},
		{25, "down"},
		{60, "down"},
	}

	for _, tt := range tests {
		if got := Trend(tt.drop); got != tt.want {
			t.Errorf("Trend(%.1f) = %q; want %q", tt.drop, got, tt.want)
		}
	}
}
