// Command whattopay analyzes what to pay for a single raw card: it queries
// eBay UK sold auctions, Price Charting and the card-pricing API in
// parallel, averages whatever came back, and recommends a buy range at
// 80–90% of the market average.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"card-arbitrage/config"
	"card-arbitrage/fetch"
	"card-arbitrage/models"
	"card-arbitrage/pricing"
	"card-arbitrage/progress"
	"card-arbitrage/rates"
	"card-arbitrage/report"
	"card-arbitrage/scraper/ebay"
	"card-arbitrage/scraper/pricecharting"
	"card-arbitrage/utils"
)

const ebayMaxResults = 4

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	cardName := resolveCardName()
	if cardName == "" {
		logger.Error("No card name provided")
		os.Exit(1)
	}

	logger.Info("=== What To Pay Analyzer: %s ===", cardName)
	logger.Info("Raw cards only: sold auction data, graded listings excluded")

	sink, err := progress.NewSink(cfg.ProgressLog)
	if err != nil {
		logger.Error("Failed to open progress log: %v", err)
		os.Exit(1)
	}
	defer sink.Close()

	allocCtx, cancelAlloc := fetch.NewBrowserAllocator(cfg.ChromeBin)
	defer cancelAlloc()

	ctx := context.Background()
	fetcher := fetch.New(allocCtx)

	rateClient := rates.NewClient(logger)
	usdGBP := rateClient.Get(ctx, "USD", "GBP", cfg.FallbackUSDGBP)
	eurGBP := rateClient.Get(ctx, "EUR", "GBP", cfg.FallbackEURGBP)
	if usdGBP.Fallback || eurGBP.Fallback {
		sink.Emit("rates", "Exchange service unreachable, using fallback rates")
	}

	ebayScraper := ebay.New(cfg, fetcher, logger)
	pcScraper := pricecharting.New(fetcher, logger)
	apiClient := pricing.NewClient(cfg.PricingAPIHost, cfg.PricingAPIKey, logger)

	sink.Emit("analysis", "Starting price analysis...")
	start := time.Now()

	// The three sell-side sources run concurrently on the pool; each task
	// writes only its own result slot and the caller joins before scoring.
	var (
		ebayPrices []models.SourcePrice
		pcPrice    *models.SourcePrice
		apiPrice   *models.SourcePrice
	)

	pool := utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs)
	pool.Submit(func() {
		sink.Emit("ebay", "Searching recent sold auctions...")
		prices, err := ebayScraper.SearchSoldUK(ctx, cardName, ebayMaxResults)
		if err != nil {
			logger.Warn("[whattopay] eBay search failed: %v", err)
			sink.Emit("ebay", "eBay search failed")
			return
		}
		ebayPrices = prices
		sink.Emit("ebay", fmt.Sprintf("Found %d auction results", len(prices)))
	})
	pool.Submit(func() {
		sink.Emit("price_charting", "Searching for card pricing data...")
		sp, err := pcScraper.UngradedPrice(ctx, cardName)
		if err != nil {
			logger.Warn("[whattopay] Price Charting lookup failed: %v", err)
			sink.Emit("price_charting", "Search failed")
			return
		}
		if sp != nil {
			// Price Charting quotes USD; the report is GBP.
			sp.Price = round2(sp.Price * usdGBP.Value)
			pcPrice = sp
			sink.Emit("price_charting", fmt.Sprintf("Found price data: £%.2f", sp.Price))
		}
	})
	pool.Submit(func() {
		sink.Emit("pricing_api", "Searching for card data...")
		card, err := apiClient.Lookup(ctx, cardName)
		if err != nil {
			logger.Warn("[whattopay] Pricing API lookup failed: %v", err)
			sink.Emit("pricing_api", "API search failed")
			return
		}
		if card != nil && card.MarketPriceEUR > 0 {
			apiPrice = card.AsSourcePrice(eurGBP.Value)
			sink.Emit("pricing_api", fmt.Sprintf("Found card data: £%.2f", apiPrice.Price))
		}
	})
	pool.Wait()

	logger.Info("[whattopay] All searches completed in %.1fs", time.Since(start).Seconds())

	result := buildResult(cardName, ebayPrices, pcPrice, apiPrice)
	printAnalysis(logger, result)
	sink.Emit("analysis", "Analysis complete: "+result.Recommendation)

	path := report.TimestampedPath(cfg.OutputDir, "what_to_pay_analysis", "json")
	if err := report.WriteJSON(path, result); err != nil {
		logger.Error("[whattopay] JSON write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("[whattopay] Results saved to %s", path)
	fmt.Println(path) // for an external capture process
}

func resolveCardName() string {
	if len(os.Args) > 1 {
		return strings.TrimSpace(strings.Join(os.Args[1:], " "))
	}
	if term := os.Getenv("SEARCH_TERM"); term != "" {
		return strings.TrimSpace(term)
	}
	fmt.Print("Enter card name to analyze: ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// buildResult averages every source that produced a price. When none did,
// the verdict is "insufficient data" rather than an error.
func buildResult(cardName string, ebayPrices []models.SourcePrice, pc, api *models.SourcePrice) *models.WhatToPayResult {
	result := &models.WhatToPayResult{
		CardName:      cardName,
		Timestamp:     time.Now(),
		EbayPrices:    ebayPrices,
		PriceCharting: pc,
		PricingAPI:    api,
	}

	var allPrices []float64
	if len(ebayPrices) > 0 {
		var total float64
		for _, p := range ebayPrices {
			total += p.Price
		}
		result.EbayAverage = round2(total / float64(len(ebayPrices)))
		allPrices = append(allPrices, result.EbayAverage)
	}
	if pc != nil {
		allPrices = append(allPrices, pc.Price)
	}
	if api != nil {
		allPrices = append(allPrices, api.Price)
	}

	if len(allPrices) == 0 {
		result.Recommendation = "Insufficient data"
		return result
	}

	var total float64
	result.PriceRangeLow = allPrices[0]
	result.PriceRangeHigh = allPrices[0]
	for _, p := range allPrices {
		total += p
		if p < result.PriceRangeLow {
			result.PriceRangeLow = p
		}
		if p > result.PriceRangeHigh {
			result.PriceRangeHigh = p
		}
	}
	result.MarketAverage = round2(total / float64(len(allPrices)))
	result.RecommendLow = round2(result.MarketAverage * 0.8)
	result.RecommendHigh = round2(result.MarketAverage * 0.9)
	result.Recommendation = fmt.Sprintf("£%.2f - £%.2f", result.RecommendLow, result.RecommendHigh)
	return result
}

func printAnalysis(logger *utils.Logger, r *models.WhatToPayResult) {
	if r.EbayAverage > 0 {
		logger.Info("eBay UK average (last %d): £%.2f", len(r.EbayPrices), r.EbayAverage)
	} else {
		logger.Info("eBay UK average: no data found")
	}
	if r.PriceCharting != nil {
		logger.Info("Price Charting: £%.2f", r.PriceCharting.Price)
	} else {
		logger.Info("Price Charting: no data found")
	}
	if r.PricingAPI != nil {
		logger.Info("Pricing API: £%.2f", r.PricingAPI.Price)
	} else {
		logger.Info("Pricing API: no data found")
	}

	if r.Recommendation == "Insufficient data" {
		logger.Warn("Insufficient data to make a recommendation")
		return
	}
	logger.Info("Price range: £%.2f - £%.2f", r.PriceRangeLow, r.PriceRangeHigh)
	logger.Info("Market average: £%.2f", r.MarketAverage)
	logger.Info("Recommended to pay: %s (80-90%% of market average)", r.Recommendation)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
