// Command etbtrends scans the Elite Trainer Box market: it pulls a current
// price for each tracked ETB, validates it against eBay sold listings,
// compares against the historical high and reports trending and undervalued
// boxes as a JSON artifact.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"card-arbitrage/config"
	"card-arbitrage/fetch"
	"card-arbitrage/models"
	"card-arbitrage/normalize"
	"card-arbitrage/pricing"
	"card-arbitrage/progress"
	"card-arbitrage/rates"
	"card-arbitrage/report"
	"card-arbitrage/scorer"
	"card-arbitrage/scraper/ebay"
	"card-arbitrage/utils"
)

// trackedETB is one Elite Trainer Box the scanner follows, with baseline
// prices used when no live source produces data.
type trackedETB struct {
	Name           string
	ReleaseYear    int
	BaselinePrice  float64
	HistoricalHigh float64
}

var trackedETBs = []trackedETB{
	{"Scarlet Violet Base Set Elite Trainer Box", 2023, 45.99, 55.99},
	{"Lost Origin Elite Trainer Box", 2022, 52.99, 65.99},
	{"Fusion Strike Elite Trainer Box", 2021, 38.99, 65.99},
	{"Brilliant Stars Elite Trainer Box", 2022, 42.99, 58.99},
	{"Astral Radiance Elite Trainer Box", 2022, 44.99, 59.99},
	{"Pokemon Go Elite Trainer Box", 2022, 48.99, 75.99},
	{"Silver Tempest Elite Trainer Box", 2022, 41.99, 56.99},
	{"Paldea Evolved Elite Trainer Box", 2023, 43.99, 54.99},
	{"Obsidian Flames Elite Trainer Box", 2023, 44.99, 53.99},
	{"151 Elite Trainer Box", 2023, 65.99, 89.99},
	{"Paradox Rift Elite Trainer Box", 2023, 46.99, 55.99},
	{"Paldean Fates Elite Trainer Box", 2024, 55.99, 79.99},
}

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== ETB Market Trend Scanner ===")
	logger.Info("Tracking %d Elite Trainer Boxes", len(trackedETBs))

	sink, err := progress.NewSink(cfg.ProgressLog)
	if err != nil {
		logger.Error("Failed to open progress log: %v", err)
		os.Exit(1)
	}
	defer sink.Close()

	ctx := context.Background()

	// Every ETB source is a plain HTTP fetch; no browser allocator needed.
	fetcher := fetch.New(nil)

	rateClient := rates.NewClient(logger)
	eurGBP := rateClient.Get(ctx, "EUR", "GBP", cfg.FallbackEURGBP)

	apiClient := pricing.NewClient(cfg.PricingAPIHost, cfg.PricingAPIKey, logger)
	ebayScraper := ebay.New(cfg, fetcher, logger)
	band := normalize.Band{Min: cfg.MinSellPrice, Max: cfg.MaxSellPrice}

	var records []models.ETBRecord
	for i, etb := range trackedETBs {
		sink.Emit("etb", fmt.Sprintf("Analyzing %s (%d/%d)", etb.Name, i+1, len(trackedETBs)))
		records = append(records, analyzeETB(ctx, logger, apiClient, ebayScraper, band, eurGBP.Value, etb))
		time.Sleep(time.Duration(cfg.RateLimitMs) * time.Millisecond)
	}

	result := buildReport(sink.RunID(), records)
	logger.Info("Trending: %d, undervalued: %d of %d ETBs",
		result.Summary.TrendingCount, result.Summary.UndervaluedCount, result.Summary.TotalETBs)
	for i, r := range result.Undervalued {
		if i == 3 {
			break
		}
		logger.Info("%d. %s: £%.2f now vs £%.2f high (drop %.1f%%, upside +%.1f%%)",
			i+1, r.Name, r.CurrentPrice, r.HistoricalHigh, r.PriceDropPct, r.PotentialUpside)
	}

	path := report.TimestampedPath(cfg.OutputDir, "etb_market_report", "json")
	if err := report.WriteJSON(path, result); err != nil {
		logger.Error("[etbtrends] JSON write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("[etbtrends] Report saved to %s", path)
	sink.Emit("etb", "Market scan complete")
}

// analyzeETB resolves a current price for one box. Source order: pricing API
// market price, then the eBay sold average, then the baseline. The
// historical high only ever moves up from the baseline.
func analyzeETB(ctx context.Context, logger *utils.Logger, apiClient *pricing.Client, ebayScraper *ebay.Scraper, band normalize.Band, eurGBPRate float64, etb trackedETB) models.ETBRecord {
	rec := models.ETBRecord{
		Name:           etb.Name,
		ReleaseYear:    etb.ReleaseYear,
		CurrentPrice:   etb.BaselinePrice,
		HistoricalHigh: etb.HistoricalHigh,
		SearchURL:      ebay.SoldSearchURL(etb.Name + " pokemon"),
	}

	if card, err := apiClient.Lookup(ctx, etb.Name); err != nil {
		logger.Warn("[etbtrends] API lookup failed for %s: %v", etb.Name, err)
	} else if card != nil && card.MarketPriceEUR > 0 && !card.Estimated {
		rec.CurrentPrice = card.MarketPriceEUR * eurGBPRate
		if high := card.HighPriceEUR * eurGBPRate; high > rec.HistoricalHigh {
			rec.HistoricalHigh = high
		}
	}

	if avg, _, err := ebayScraper.SoldAverage(ctx, []string{etb.Name + " pokemon sealed"}, band); err == nil {
		rec.EbayAverage = round2(avg)
		// Sold listings are the better signal for out-of-print boxes.
		if rec.CurrentPrice == etb.BaselinePrice {
			rec.CurrentPrice = rec.EbayAverage
		}
	} else {
		logger.Debug("[etbtrends] No eBay sold data for %s: %v", etb.Name, err)
	}

	rec.CurrentPrice = round2(rec.CurrentPrice)
	rec.HistoricalHigh = round2(rec.HistoricalHigh)

	drop, upside := scorer.Undervaluation(rec.CurrentPrice, rec.HistoricalHigh)
	rec.PriceDropPct = round1(drop)
	rec.PotentialUpside = round1(upside)
	rec.Trend = scorer.Trend(drop)
	rec.Undervalued = drop > 20

	logger.Info("[etbtrends] %s: £%.2f (high £%.2f, drop %.1f%%, trend %s)",
		rec.Name, rec.CurrentPrice, rec.HistoricalHigh, rec.PriceDropPct, rec.Trend)
	return rec
}

func buildReport(runID string, records []models.ETBRecord) *models.ETBReport {
	result := &models.ETBReport{RunID: runID, All: records}

	var total, min, max float64
	for _, r := range records {
		total += r.CurrentPrice
		if min == 0 || r.CurrentPrice < min {
			min = r.CurrentPrice
		}
		if r.CurrentPrice > max {
			max = r.CurrentPrice
		}
		if r.Trend == "up" {
			result.Trending = append(result.Trending, r)
		}
		if r.Undervalued {
			result.Undervalued = append(result.Undervalued, r)
		}
	}

	report.SortDesc(result.Trending, func(r models.ETBRecord) float64 { return r.CurrentPrice })
	report.SortDesc(result.Undervalued, func(r models.ETBRecord) float64 { return r.PotentialUpside })

	result.Summary = models.ETBSummary{
		TotalETBs:        len(records),
		TrendingCount:    len(result.Trending),
		UndervaluedCount: len(result.Undervalued),
		MinPrice:         min,
		MaxPrice:         max,
		LastUpdated:      time.Now(),
	}
	if len(records) > 0 {
		result.Summary.AveragePrice = round2(total / float64(len(records)))
	}
	return result
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
