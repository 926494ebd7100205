// Command bulkarb runs the bulk CardRush → eBay arbitrage analysis: it
// scrapes card listings from each CardRush URL in the input file, converts
// JPY buy prices to USD, looks up eBay sold averages as the sell side, and
// reports every opportunity clearing the margin threshold.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"card-arbitrage/cards"
	"card-arbitrage/config"
	"card-arbitrage/fetch"
	"card-arbitrage/input"
	"card-arbitrage/models"
	"card-arbitrage/normalize"
	"card-arbitrage/progress"
	"card-arbitrage/rates"
	"card-arbitrage/report"
	"card-arbitrage/scorer"
	"card-arbitrage/scraper/cardrush"
	"card-arbitrage/scraper/ebay"
	"card-arbitrage/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Bulk Card Arbitrage Finder starting ===")
	logger.Info("Config: margin threshold: %.0f%% | max cards/URL: %d | rate: %dms",
		cfg.MinMarginPercent, cfg.MaxCardsPerURL, cfg.RateLimitMs)

	sink, err := progress.NewSink(cfg.ProgressLog)
	if err != nil {
		logger.Error("Failed to open progress log: %v", err)
		os.Exit(1)
	}
	defer sink.Close()

	urls, err := input.ReadURLs(cfg.InputCSVPath)
	if err != nil {
		logger.Error("Failed to read input file: %v", err)
		os.Exit(1)
	}
	if len(urls) == 0 {
		logger.Error("No URLs found in %s. Exiting.", cfg.InputCSVPath)
		os.Exit(1)
	}

	sink.Emit("start", fmt.Sprintf("Starting analysis of %d URLs", len(urls)))

	allocCtx, cancelAlloc := fetch.NewBrowserAllocator(cfg.ChromeBin)
	defer cancelAlloc()

	ctx := context.Background()
	fetcher := fetch.New(allocCtx)

	// Exchange rate is fetched once before dispatch and read-only after.
	rate := rates.NewClient(logger).Get(ctx, "JPY", "USD", cfg.FallbackJPYUSD)
	if rate.Fallback {
		sink.Emit("rates", fmt.Sprintf("Exchange service unreachable, using fallback JPY→USD %.4f", rate.Value))
	}

	crScraper := cardrush.New(cfg, fetcher, logger)
	ebayScraper := ebay.New(cfg, fetcher, logger)

	buyBand := normalize.Band{Min: cfg.MinSanePrice, Max: cfg.MaxSanePrice}
	sellBand := normalize.Band{Min: cfg.MinSellPrice, Max: cfg.MaxSellPrice}
	gate := scorer.MarginGate{MinMarginPercent: cfg.MinMarginPercent}

	var opportunities []*models.ArbitrageOpportunity
	totalCards := 0

	// Category pages overlap; a card URL already analyzed once is skipped.
	seen := utils.NewSeenSet()

	// Items run strictly sequentially: one URL's full cycle completes
	// before the next, out of respect for marketplace rate limits.
	for i, pageURL := range urls {
		sink.Emit("scrape", fmt.Sprintf("Processing URL %d/%d", i+1, len(urls)))
		logger.Info("[bulk] URL %d/%d: %s", i+1, len(urls), pageURL)

		listings, err := crScraper.Scrape(ctx, pageURL)
		if err != nil {
			logger.Error("[bulk] Scrape failed, skipping source: %v", err)
			sink.Emit("scrape", fmt.Sprintf("Fetch failed for %s, skipped", pageURL))
			continue
		}
		totalCards += len(listings)

		analyzed := 0
		for _, raw := range listings {
			if analyzed >= cfg.MaxCardsPerURL {
				break
			}
			if raw.URL != "" && !seen.Add(raw.URL) {
				logger.Debug("[bulk] Already analyzed %s", raw.URL)
				continue
			}

			priced, reject := normalize.Normalize(raw, "JPY", "USD", rate.Value, buyBand)
			if priced == nil {
				logger.Debug("[bulk] Dropped %q (%s)", raw.Title, reject)
				continue
			}
			analyzed++

			opp := evaluateCard(ctx, ebayScraper, priced, sellBand, gate, logger, sink)
			if opp != nil {
				opportunities = append(opportunities, opp)
			}

			time.Sleep(time.Duration(cfg.RateLimitMs) * time.Millisecond)
		}

		if cfg.PartialSaveEvery > 0 && (i+1)%cfg.PartialSaveEvery == 0 {
			savePartial(cfg, opportunities, logger, sink)
		}
	}

	sink.Emit("report", fmt.Sprintf("Analysis complete: %d cards, %d opportunities",
		totalCards, len(opportunities)))
	logger.Info("[bulk] Total cards found: %d | opportunities: %d", totalCards, len(opportunities))

	if len(opportunities) == 0 {
		logger.Warn("[bulk] No profitable opportunities found")
		return
	}

	writeFinal(cfg, sink.RunID(), opportunities, logger, sink)
}

// evaluateCard looks up the eBay sell side for one priced CardRush listing
// and scores the margin. A card with no usable sell price is reported as a
// no-recommendation result, never an abort.
func evaluateCard(ctx context.Context, ebayScraper *ebay.Scraper, priced *models.PricedListing,
	sellBand normalize.Band, gate scorer.MarginGate, logger *utils.Logger, sink *progress.Sink) *models.ArbitrageOpportunity {

	name := priced.Raw.Title
	englishName := cards.EnglishName(name)
	number := cards.Number(name)
	cardType := cards.Type(name)

	searchTerms := buildSearchTerms(englishName, number, cardType)
	sellPrice, searchURL, err := ebayScraper.SoldAverage(ctx, searchTerms, sellBand)
	if err != nil {
		logger.Warn("[bulk] No market price for %s: %v", name, err)
		sink.Emit("ebay", fmt.Sprintf("No market price found for %s", englishName))
		return nil
	}

	profit, margin := scorer.ScoreResale(priced.ConvertedPrice, sellPrice)
	logger.Info("[bulk] %s: buy ¥%.0f ($%.2f) | sell $%.2f | profit $%.2f (%.1f%%)",
		englishName, priced.Price, priced.ConvertedPrice, sellPrice, profit, margin)

	if !gate.Pass(margin) {
		logger.Info("[bulk] Not profitable enough: %s", englishName)
		return nil
	}

	sink.Emit("score", fmt.Sprintf("Opportunity found: %s (%.1f%% margin)", englishName, margin))
	return &models.ArbitrageOpportunity{
		JapaneseName:  name,
		EnglishName:   englishName,
		CardNumber:    number,
		CardType:      cardType,
		BuyPriceJPY:   priced.Price,
		BuyPriceUSD:   priced.ConvertedPrice,
		SellPriceUSD:  sellPrice,
		ProfitUSD:     profit,
		MarginPercent: margin,
		Profitable:    true,
		CardURL:       priced.Raw.URL,
		SourcePageURL: priced.Raw.SourceURL,
		EbaySearchURL: searchURL,
	}
}

func buildSearchTerms(englishName, number, cardType string) []string {
	name := englishName
	if number != "" {
		return []string{
			fmt.Sprintf("pokemon %s %s", name, number),
			fmt.Sprintf("%s %s %s", name, cardType, number),
			fmt.Sprintf("pokemon card %s", number),
		}
	}
	return []string{
		fmt.Sprintf("pokemon %s %s", name, cardType),
		fmt.Sprintf("%s pokemon card", name),
	}
}

func savePartial(cfg *config.Config, opps []*models.ArbitrageOpportunity,
	logger *utils.Logger, sink *progress.Sink) {

	deduped := report.Dedupe(opps, (*models.ArbitrageOpportunity).Key, logger)
	report.SortDesc(deduped, func(o *models.ArbitrageOpportunity) float64 { return o.MarginPercent })

	path := report.TimestampedPath(cfg.OutputDir, "bulk_opportunities_partial", "csv")
	if err := report.WriteOpportunities(path, deduped); err != nil {
		logger.Error("[bulk] Partial save failed: %v", err)
		return
	}
	sink.Emit("report", fmt.Sprintf("Saved %d opportunities to %s", len(deduped), path))
}

func writeFinal(cfg *config.Config, runID string, opps []*models.ArbitrageOpportunity,
	logger *utils.Logger, sink *progress.Sink) {

	deduped := report.Dedupe(opps, (*models.ArbitrageOpportunity).Key, logger)
	report.SortDesc(deduped, func(o *models.ArbitrageOpportunity) float64 { return o.MarginPercent })

	top := deduped
	if len(top) > 10 {
		top = top[:10]
	}
	logger.Info("[bulk] Top opportunities:")
	var totalProfit float64
	for i, o := range top {
		logger.Info("  %d. %s (%s): buy ¥%.0f ($%.2f), sell $%.2f, profit $%.2f (%.1f%%)",
			i+1, o.EnglishName, o.CardNumber, o.BuyPriceJPY, o.BuyPriceUSD,
			o.SellPriceUSD, o.ProfitUSD, o.MarginPercent)
	}
	for _, o := range deduped {
		totalProfit += o.ProfitUSD
	}
	logger.Info("[bulk] Total potential profit: $%.2f", totalProfit)

	path := report.TimestampedPath(cfg.OutputDir, "bulk_opportunities", "csv")
	if err := report.WriteOpportunities(path, deduped); err != nil {
		logger.Error("[bulk] CSV write failed: %v", err)
		os.Exit(1)
	}
	sink.Emit("report", fmt.Sprintf("%d unique opportunities exported to %s", len(deduped), path))
	logger.Info("[bulk] Report written to %s", path)

	if cfg.PostgresEnabled {
		pg, err := report.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("[bulk] PostgreSQL connect failed, skipping DB sink: %v", err)
			return
		}
		defer pg.Close()
		if err := pg.Write(runID, deduped); err != nil {
			logger.Error("[bulk] PostgreSQL write failed: %v", err)
		} else {
			logger.Info("[bulk] Opportunities stored in PostgreSQL (table: opportunities)")
		}
	}
}
