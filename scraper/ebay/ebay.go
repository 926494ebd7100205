// Package ebay scrapes eBay sold-listing search results. Two variants are
// used: the UK sold-auction search (rendered, raw cards only) feeding the
// what-to-pay analysis, and the US sold search (plain HTTP) feeding the
// bulk arbitrage margin calculation.
package ebay

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"card-arbitrage/config"
	"card-arbitrage/extract"
	"card-arbitrage/fetch"
	"card-arbitrage/models"
	"card-arbitrage/normalize"
	"card-arbitrage/utils"
)

// gradedTerms are an extra safety net on top of eBay's Graded=No filter:
// titles naming an explicit grade are still skipped.
var gradedTerms = []string{"psa 10", "psa 9", "bgs 10", "bgs 9", "cgc 10", "cgc 9"}

var nodeStrategies = []extract.Strategy{
	{Name: "s-item", Selector: ".s-item"},
	{Name: "item-card", Selector: `[data-testid="item-card"]`},
	{Name: "srp-item", Selector: ".srp-results .s-item"},
}

var titleSelectors = []string{
	".s-item__title",
	`[data-testid="item-title"]`,
	`span[role="heading"]`,
	"h3",
}

var priceSelectors = []string{
	".s-item__price",
	`[data-testid="item-price"]`,
	".notranslate",
}

// Scraper queries eBay sold listings.
type Scraper struct {
	cfg     *config.Config
	fetcher *fetch.Fetcher
	logger  *utils.Logger
}

// New creates an eBay Scraper.
func New(cfg *config.Config, fetcher *fetch.Fetcher, logger *utils.Logger) *Scraper {
	return &Scraper{cfg: cfg, fetcher: fetcher, logger: logger}
}

// SoldAuctionURL builds the UK search URL for recently sold, non-graded,
// auction-only listings of a card.
func SoldAuctionURL(cardName string) string {
	return "https://www.ebay.co.uk/sch/i.html?_nkw=" + url.QueryEscape(cardName) +
		"&_sacat=0&_from=R40&Graded=No&_dcat=183454&LH_PrefLoc=1&LH_Sold=1&LH_Complete=1" +
		"&rt=nc&LH_Auction=1&_ipg=50&_sop=13"
}

// SoldSearchURL builds the US sold-listing search URL for a term.
func SoldSearchURL(term string) string {
	return "https://www.ebay.com/sch/i.html?_nkw=" + url.QueryEscape(term) +
		"&_sacat=0&LH_Sold=1&rt=nc&_ipg=50"
}

// SearchSoldUK returns up to maxResults recently sold raw-card auction
// prices for cardName. Zero results is a valid outcome.
func (s *Scraper) SearchSoldUK(ctx context.Context, cardName string, maxResults int) ([]models.SourcePrice, error) {
	searchURL := SoldAuctionURL(cardName)
	s.logger.Info("[ebay] Searching sold auctions: %s", cardName)

	doc, err := s.fetcher.Fetch(ctx, searchURL, models.KindBrowser)
	if err != nil {
		return nil, err
	}

	// Over-fetch so graded listings can still be filtered out afterwards.
	listings, rejections := extract.Extract(doc, extract.Options{
		Strategies:     nodeStrategies,
		TitleSelectors: titleSelectors,
		PriceSelectors: priceSelectors,
		LinkSelector:   `a[href*="/itm/"]`,
		BaseURL:        "https://www.ebay.co.uk",
		MaxListings:    maxResults * 3,
		MinTitleLength: s.cfg.MinTitleLength,
	})
	for _, r := range rejections {
		s.logger.Debug("[ebay] Skipped node (%s): %s", r.Reason, r.Title)
	}

	var prices []models.SourcePrice
	for _, l := range listings {
		if len(prices) >= maxResults {
			break
		}
		if isGradedTitle(l.Title) {
			s.logger.Debug("[ebay] Skipped graded card: %s", l.Title)
			continue
		}
		value, ok := normalize.ParsePrice(l.RawPrice)
		if !ok || value <= 0 {
			continue
		}
		prices = append(prices, models.SourcePrice{
			Source: "eBay UK Sold Auction",
			Title:  l.Title,
			Price:  value,
			URL:    l.URL,
		})
	}

	s.logger.Info("[ebay] Found %d sold auction prices for %s", len(prices), cardName)
	return prices, nil
}

// SoldAverage tries each search term in order against the US sold-listing
// search and returns the average of the most recent sales whose prices fall
// inside band, plus the search URL that produced it. It needs at least
// three in-band prices to trust a term; otherwise the next term is tried.
func (s *Scraper) SoldAverage(ctx context.Context, searchTerms []string, band normalize.Band) (avg float64, searchURL string, err error) {
	for _, term := range searchTerms {
		u := SoldSearchURL(term)
		s.logger.Debug("[ebay] Trying search term: %s", term)

		doc, ferr := s.fetcher.Fetch(ctx, u, models.KindHTTP)
		if ferr != nil {
			s.logger.Warn("[ebay] Search failed for %q: %v", term, ferr)
			continue
		}

		listings, _ := extract.Extract(doc, extract.Options{
			Strategies:     nodeStrategies,
			TitleSelectors: titleSelectors,
			PriceSelectors: priceSelectors,
			MaxListings:    s.cfg.MaxListingsPerSource,
			MinTitleLength: s.cfg.MinTitleLength,
		})

		var prices []float64
		for _, l := range listings {
			if isGradedTitle(l.Title) {
				continue
			}
			if v, ok := normalize.ParsePrice(l.RawPrice); ok && band.Contains(v) {
				prices = append(prices, v)
			}
		}

		if len(prices) < 3 {
			continue
		}

		recent := prices[len(prices)-3:]
		var total float64
		for _, p := range recent {
			total += p
		}
		avg = total / float64(len(recent))
		s.logger.Info("[ebay] Average of last %d sales: $%.2f", len(recent), avg)
		return avg, u, nil
	}

	return 0, "", fmt.Errorf("ebay: no usable sold prices for any search term")
}

func isGradedTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, term := range gradedTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
