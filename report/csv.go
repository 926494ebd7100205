package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"card-arbitrage/models"
)

// writeCSV creates path (and intermediate directories), writes the header
// and rows, and closes the file. Every row is self-describing: it carries
// all fields needed to reconstruct the record without the run's memory.
func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteOpportunities serializes bulk arbitrage opportunities. The caller is
// expected to have deduplicated and sorted them already.
func WriteOpportunities(path string, opps []*models.ArbitrageOpportunity) error {
	header := []string{
		"english_name", "japanese_name", "card_number", "card_type",
		"buy_price_jpy", "buy_price_usd", "sell_price_usd", "profit_usd",
		"profit_margin_percent", "cardrush_url", "source_page_url", "ebay_search_url",
	}

	rows := make([][]string, 0, len(opps))
	for _, o := range opps {
		rows = append(rows, []string{
			o.EnglishName,
			o.JapaneseName,
			o.CardNumber,
			o.CardType,
			strconv.FormatFloat(o.BuyPriceJPY, 'f', 0, 64),
			strconv.FormatFloat(o.BuyPriceUSD, 'f', 2, 64),
			strconv.FormatFloat(o.SellPriceUSD, 'f', 2, 64),
			strconv.FormatFloat(o.ProfitUSD, 'f', 2, 64),
			strconv.FormatFloat(o.MarginPercent, 'f', 1, 64),
			o.CardURL,
			o.SourcePageURL,
			o.EbaySearchURL,
		})
	}
	return writeCSV(path, header, rows)
}

// WriteGradingOpportunities serializes grading arbitrage results, one row
// per card with both service analyses side by side.
func WriteGradingOpportunities(path string, opps []*models.GradingOpportunity) error {
	header := []string{
		"card_name", "card_number", "card_type", "set_name", "raw_price_gbp",
		"ace_graded_price", "ace_net_profit", "ace_roi", "ace_multiple",
		"psa_graded_price", "psa_net_profit", "psa_roi", "psa_multiple",
		"recommendation", "meets_criteria",
	}

	rows := make([][]string, 0, len(opps))
	for _, o := range opps {
		ace := findAnalysis(o.Analyses, "ACE")
		psa := findAnalysis(o.Analyses, "PSA")

		meets := "NO"
		if o.MeetsCriteria {
			meets = "YES"
		}

		rows = append(rows, []string{
			o.CardName,
			o.CardNumber,
			o.CardType,
			o.SetName,
			strconv.FormatFloat(ace.RawPrice, 'f', 2, 64),
			strconv.FormatFloat(ace.GradedPrice, 'f', 2, 64),
			strconv.FormatFloat(ace.NetProfit, 'f', 2, 64),
			strconv.FormatFloat(ace.ROIPercent, 'f', 1, 64),
			strconv.FormatFloat(ace.ReturnMultiple, 'f', 1, 64),
			strconv.FormatFloat(psa.GradedPrice, 'f', 2, 64),
			strconv.FormatFloat(psa.NetProfit, 'f', 2, 64),
			strconv.FormatFloat(psa.ROIPercent, 'f', 1, 64),
			strconv.FormatFloat(psa.ReturnMultiple, 'f', 1, 64),
			o.Recommendation,
			meets,
		})
	}
	return writeCSV(path, header, rows)
}

func findAnalysis(analyses []models.GradingAnalysis, service string) models.GradingAnalysis {
	for _, a := range analyses {
		if a.Service == service {
			return a
		}
	}
	return models.GradingAnalysis{Service: service}
}
