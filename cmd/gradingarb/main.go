// Command gradingarb analyzes grading arbitrage for English cards: for each
// selected expansion it scores every candidate card against ACE and PSA
// grading costs and reports the cards whose graded resale clears the
// return-multiple and ROI thresholds.
package main

import (
	"fmt"
	"os"

	"card-arbitrage/config"
	"card-arbitrage/input"
	"card-arbitrage/models"
	"card-arbitrage/progress"
	"card-arbitrage/report"
	"card-arbitrage/scorer"
	"card-arbitrage/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== English Card Grading Arbitrage Analyzer ===")
	logger.Info("Budget: £0-50 raw | Target: %.0fx return, %.0f%%+ ROI | Services: ACE vs PSA",
		cfg.MinReturnMultiple, cfg.MinROIPercent)
	logger.Info("Cost structure: ACE £%.0f + £%.0f shipping, PSA £%.0f + £%.0f shipping",
		cfg.AceGradingCost, cfg.ShippingCost, cfg.PsaGradingCost, cfg.ShippingCost)

	sink, err := progress.NewSink(cfg.ProgressLog)
	if err != nil {
		logger.Error("Failed to open progress log: %v", err)
		os.Exit(1)
	}
	defer sink.Close()

	selected, usedFallback := input.SelectedSets("SELECTED_SETS", "selected_sets.json", []string{"Paldea Evolved"})
	if usedFallback {
		logger.Warn("No set selection provided, using demo set: Paldea Evolved")
	}

	var sets []SetInfo
	for _, name := range selected {
		info, ok := availableSets[name]
		if !ok {
			logger.Warn("Unknown set %q, skipping", name)
			continue
		}
		logger.Info("Selected: %s (%s, %s)", name, info.Code, info.Release)
		sets = append(sets, info)
	}
	if len(sets) == 0 {
		logger.Warn("No valid sets selected, falling back to Paldea Evolved")
		sets = append(sets, availableSets["Paldea Evolved"])
	}

	gate := scorer.GradingGate{
		MinROIPercent:     cfg.MinROIPercent,
		MinReturnMultiple: cfg.MinReturnMultiple,
	}

	var all []*models.GradingOpportunity
	for _, set := range sets {
		sink.Emit("analysis", fmt.Sprintf("Analyzing %s...", set.Name))
		opps := analyzeSet(logger, cfg, set, gate)
		if len(opps) == 0 {
			logger.Warn("No grading opportunities found for %s", set.Name)
			continue
		}
		all = append(all, opps...)
	}

	if len(all) == 0 {
		logger.Warn("No grading opportunities found")
		sink.Emit("analysis", "Analysis complete - no opportunities")
		return
	}

	all = report.Dedupe(all, func(o *models.GradingOpportunity) string { return o.Key() }, logger)
	report.SortDesc(all, func(o *models.GradingOpportunity) float64 { return o.BestNetProfit })

	printSummary(logger, all)

	path := report.TimestampedPath(cfg.OutputDir, "grading_arbitrage", "csv")
	if err := report.WriteGradingOpportunities(path, all); err != nil {
		logger.Error("[gradingarb] CSV write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("[gradingarb] Analysis complete, %d cards evaluated, results saved to %s", len(all), path)
	sink.Emit("analysis", fmt.Sprintf("Analysis complete - %d opportunities saved", len(all)))
}

func analyzeSet(logger *utils.Logger, cfg *config.Config, set SetInfo, gate scorer.GradingGate) []*models.GradingOpportunity {
	candidates := loadCandidates(set.Name)
	logger.Info("[gradingarb] %s: evaluating %d candidate cards", set.Name, len(candidates))

	var opps []*models.GradingOpportunity
	for i, card := range candidates {
		logger.Info("--- Card %d: %s (%s, %s) raw £%.0f ---",
			i+1, card.Name, card.CardNumber, card.CardType, card.RawPrice)

		ace := scorer.ScoreGrading("ACE", card.RawPrice, card.Ace10Price, cfg.AceGradingCost, cfg.ShippingCost, gate)
		psa := scorer.ScoreGrading("PSA", card.RawPrice, card.Psa10Price, cfg.PsaGradingCost, cfg.ShippingCost, gate)
		logAnalysis(logger, ace)
		logAnalysis(logger, psa)

		analyses := []models.GradingAnalysis{ace, psa}
		recommendation, best := scorer.Recommend(analyses)
		logger.Info("Recommendation: %s", recommendation)

		opp := &models.GradingOpportunity{
			CardName:       card.Name,
			CardNumber:     card.CardNumber,
			CardType:       card.CardType,
			SetName:        set.Name,
			Analyses:       analyses,
			Recommendation: recommendation,
		}
		if best != nil {
			opp.BestNetProfit = best.NetProfit
			opp.MeetsCriteria = true
		}
		opps = append(opps, opp)
	}
	return opps
}

func logAnalysis(logger *utils.Logger, a models.GradingAnalysis) {
	logger.Info("%s 10: graded £%.0f, investment £%.0f, net £%.0f, ROI %.1f%%, %.1fx",
		a.Service, a.GradedPrice, a.TotalInvestment, a.NetProfit, a.ROIPercent, a.ReturnMultiple)
}

func printSummary(logger *utils.Logger, opps []*models.GradingOpportunity) {
	profitable := 0
	for _, o := range opps {
		if o.MeetsCriteria {
			profitable++
		}
	}
	logger.Info("=== Summary: %d/%d cards meet the criteria ===", profitable, len(opps))

	shown := 0
	for _, o := range opps {
		if !o.MeetsCriteria || shown == 3 {
			continue
		}
		shown++
		logger.Info("%d. %s (%s): best net profit £%.0f", shown, o.CardName, o.SetName, o.BestNetProfit)
	}
}
