package scorer

import (
	"fmt"

	"card-arbitrage/models"
)

// MarginGate is the profitability predicate for the simple buy/resell case.
// The threshold is configuration; the scorer only computes the fields.
type MarginGate struct {
	MinMarginPercent float64
}

// Pass reports whether the scored margin clears the gate.
func (g MarginGate) Pass(marginPercent float64) bool {
	return marginPercent > g.MinMarginPercent
}

// GradingGate is the profitability predicate for grading arbitrage. Both
// thresholds must be met simultaneously.
type GradingGate struct {
	MinROIPercent     float64
	MinReturnMultiple float64
}

// Pass reports whether a grading analysis clears the gate.
func (g GradingGate) Pass(a models.GradingAnalysis) bool {
	return a.ReturnMultiple >= g.MinReturnMultiple && a.ROIPercent >= g.MinROIPercent
}

// ScoreResale computes profit and margin for buying at buyPrice and
// reselling at sellPrice. Margin is 0 when buyPrice is 0.
func ScoreResale(buyPrice, sellPrice float64) (profit, marginPercent float64) {
	profit = sellPrice - buyPrice
	if buyPrice > 0 {
		marginPercent = profit / buyPrice * 100
	}
	return profit, marginPercent
}

// ScoreGrading computes the full profit arithmetic for sending one raw card
// to one grading service. ReturnMultiple is defined as 0 when rawPrice is 0
// rather than an error.
func ScoreGrading(service string, rawPrice, gradedPrice, gradingCost, shippingCost float64, gate GradingGate) models.GradingAnalysis {
	totalInvestment := rawPrice + gradingCost + shippingCost

	a := models.GradingAnalysis{
		Service:         service,
		RawPrice:        rawPrice,
		GradedPrice:     gradedPrice,
		GradingCost:     gradingCost,
		ShippingCost:    shippingCost,
		TotalInvestment: totalInvestment,
		GrossProfit:     gradedPrice - rawPrice,
		NetProfit:       gradedPrice - totalInvestment,
	}
	if totalInvestment > 0 {
		a.ROIPercent = a.NetProfit / totalInvestment * 100
	}
	if rawPrice > 0 {
		a.ReturnMultiple = gradedPrice / rawPrice
	}
	a.MeetsCriteria = gate.Pass(a)
	return a
}

// Recommend ranks the analyses for one card and picks the service with the
// greatest net profit among those that pass the gate. When none passes, the
// recommendation is a skip with no price advice. When two passing services
// tie on net profit the earlier one is kept; only a strictly greater net
// profit displaces it.
func Recommend(analyses []models.GradingAnalysis) (recommendation string, best *models.GradingAnalysis) {
	for i := range analyses {
		a := &analyses[i]
		if !a.MeetsCriteria {
			continue
		}
		if best == nil || a.NetProfit > best.NetProfit {
			best = a
		}
	}

	if best == nil {
		return "SKIP - no service meets the return/ROI criteria", nil
	}
	return fmt.Sprintf("%s - £%.0f net profit, %.0f%% ROI, %.1fx return",
		best.Service, best.NetProfit, best.ROIPercent, best.ReturnMultiple), best
}

// Undervaluation computes how far currentPrice has fallen from its
// historical high and the upside of returning there. Both are 0 when the
// high is not above the current price.
func Undervaluation(currentPrice, historicalHigh float64) (dropPercent, upsidePercent float64) {
	if historicalHigh <= 0 || currentPrice <= 0 || historicalHigh <= currentPrice {
		return 0, 0
	}
	dropPercent = (historicalHigh - currentPrice) / historicalHigh * 100
	upsidePercent = (historicalHigh - currentPrice) / currentPrice * 100
	return dropPercent, upsidePercent
}

// Trend buckets a price drop into the market trend labels used by the ETB
// report.
func Trend(dropPercent float64) string {
	switch {
	case dropPercent < 10:
		return "up"
	case dropPercent < 25:
		return "stable"
	default:
		return "down"
	}
}
