// Package pricecharting looks up the ungraded market price of a card on
// pricecharting.com: search page → best-matching product link → "Ungraded"
// row of the pricing table.
package pricecharting

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"card-arbitrage/fetch"
	"card-arbitrage/models"
	"card-arbitrage/normalize"
	"card-arbitrage/utils"
)

const baseURL = "https://www.pricecharting.com"

// Scraper resolves ungraded prices from Price Charting. Prices on the site
// are USD; the caller converts.
type Scraper struct {
	fetcher *fetch.Fetcher
	logger  *utils.Logger
}

// New creates a Price Charting Scraper.
func New(fetcher *fetch.Fetcher, logger *utils.Logger) *Scraper {
	return &Scraper{fetcher: fetcher, logger: logger}
}

// UngradedPrice searches for cardName and returns its ungraded USD price
// together with the product page URL. A nil result with nil error means no
// matching product or no ungraded row was found, a valid outcome.
func (s *Scraper) UngradedPrice(ctx context.Context, cardName string) (*models.SourcePrice, error) {
	productURL, err := s.findProductLink(ctx, cardName)
	if err != nil {
		return nil, err
	}
	if productURL == "" {
		s.logger.Warn("[pricecharting] No product page found for %s", cardName)
		return nil, nil
	}

	doc, err := s.fetcher.Fetch(ctx, productURL, models.KindBrowser)
	if err != nil {
		return nil, err
	}

	price, ok := findUngradedPrice(doc.Body)
	if !ok {
		s.logger.Warn("[pricecharting] No ungraded price on %s", productURL)
		return nil, nil
	}

	s.logger.Info("[pricecharting] %s ungraded: $%.2f", cardName, price)
	return &models.SourcePrice{
		Source: "Price Charting",
		Title:  cardName + " (Price Charting)",
		Price:  price,
		URL:    productURL,
	}, nil
}

// findProductLink loads the search page and picks the first /game/ link
// whose text shares a word with the card name.
func (s *Scraper) findProductLink(ctx context.Context, cardName string) (string, error) {
	searchURL := baseURL + "/search-products?q=" + url.QueryEscape(cardName) + "&type=prices"

	doc, err := s.fetcher.Fetch(ctx, searchURL, models.KindBrowser)
	if err != nil {
		return "", err
	}

	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Body))
	if err != nil {
		return "", nil
	}

	words := searchWords(cardName)
	var productURL string
	gq.Find(`a[href*="/game/"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, ok := link.Attr("href")
		if !ok || !strings.Contains(strings.ToLower(href), "pokemon") {
			return true
		}
		text := strings.ToLower(link.Text())
		for _, w := range words {
			if strings.Contains(text, w) {
				if strings.HasPrefix(href, "/") {
					productURL = baseURL + href
				} else {
					productURL = href
				}
				return false
			}
		}
		return true
	})

	return productURL, nil
}

// findUngradedPrice scans pricing-table rows for the cell labelled
// "Ungraded" and parses the adjacent price. A text-level scan is the
// fallback when the table structure is not recognized.
func findUngradedPrice(body []byte) (float64, bool) {
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, false
	}

	var price float64
	var found bool
	gq.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		if !strings.EqualFold(strings.TrimSpace(cells.Eq(0).Text()), "ungraded") {
			return true
		}
		if v, ok := normalize.ParsePrice(cells.Eq(1).Text()); ok && v > 0.50 {
			price = v
			found = true
			return false
		}
		return true
	})
	if found {
		return price, true
	}

	// Fallback: look for a price within two lines of the word "ungraded".
	lines := strings.Split(gq.Text(), "\n")
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "ungraded") {
			continue
		}
		end := i + 3
		if end > len(lines) {
			end = len(lines)
		}
		for _, candidate := range lines[i:end] {
			if v, ok := normalize.ParsePrice(candidate); ok && v > 0.50 {
				return v, true
			}
		}
	}
	return 0, false
}

func searchWords(cardName string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(cardName)) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}
