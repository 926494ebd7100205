// Package cardrush scrapes card listings from CardRush category pages.
// CardRush prices are in JPY with the 円 suffix and titles follow the
// 【rarity】{number/total} convention.
package cardrush

import (
	"context"
	"regexp"
	"time"

	"card-arbitrage/config"
	"card-arbitrage/extract"
	"card-arbitrage/fetch"
	"card-arbitrage/models"
	"card-arbitrage/utils"
)

const baseURL = "https://www.cardrush-pokemon.jp"

// titlePattern matches a card title carrying one of the rarity markers,
// e.g. "リザードン【SAR】{201/165}".
var titlePattern = regexp.MustCompile(`[^【\n]*【(?:AR|CHR|SAR|SR|ex|V|VMAX|VSTAR|GX)】[^】\n]*`)

// nodeStrategies are tried in order; CardRush has renamed its item classes
// before, so a couple of fallbacks are kept.
var nodeStrategies = []extract.Strategy{
	{Name: "item-class", Selector: `div[class*="item"]`},
	{Name: "product-class", Selector: `div[class*="product"]`},
	{Name: "list-entry", Selector: `li[class*="item"]`},
}

// Scraper extracts CardRush listings through the shared fetch/extract
// pipeline. Pages are rendered in the browser; the listing markup is built
// by script.
type Scraper struct {
	cfg     *config.Config
	fetcher *fetch.Fetcher
	logger  *utils.Logger
	retry   *utils.RetryConfig
}

// New creates a CardRush Scraper using the given fetcher.
func New(cfg *config.Config, fetcher *fetch.Fetcher, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Scrape fetches one category page and returns its raw listings. A page
// with no recognizable items yields an empty slice, not an error. Rendered
// fetches flake under load, so they are retried.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) ([]models.RawListing, error) {
	var doc *models.SourceDocument
	err := s.retry.Do("cardrush fetch", func() error {
		var ferr error
		doc, ferr = s.fetcher.Fetch(ctx, pageURL, models.KindBrowser)
		return ferr
	})
	if err != nil {
		return nil, err
	}

	listings, rejections := extract.Extract(doc, extract.Options{
		Strategies:     nodeStrategies,
		TitlePattern:   titlePattern,
		LinkSelector:   "a",
		BaseURL:        baseURL,
		MaxListings:    s.cfg.MaxListingsPerSource,
		MinTitleLength: 10,
	})

	for _, r := range rejections {
		s.logger.Debug("[cardrush] Skipped node (%s): %s", r.Reason, r.Title)
	}

	if len(listings) == 0 {
		s.logger.Warn("[cardrush] No listings found on %s", pageURL)
	} else {
		s.logger.Info("[cardrush] Extracted %d listings from %s", len(listings), pageURL)
	}
	return listings, nil
}
