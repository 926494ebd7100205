// Package pricing is the client for the card-pricing lookup API. The API
// is keyed (X-RapidAPI headers) and returns TCGPlayer and CardMarket price
// blocks per card, quoted in EUR.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"card-arbitrage/fetch"
	"card-arbitrage/models"
	"card-arbitrage/utils"
)

// rarityEstimatesEUR is the last-resort price estimate when the API returns
// a card without any pricing block.
var rarityEstimatesEUR = []struct {
	rarity string
	price  float64
}{
	{"rare holo ex", 15.00},
	{"ultra rare", 20.00},
	{"rare holo", 8.00},
	{"uncommon", 1.00},
	{"common", 0.50},
	{"rare", 3.00},
}

// Card is the pricing view of one card returned by the API.
type Card struct {
	Name           string
	SetName        string
	Number         string
	Rarity         string
	ImageURL       string
	ProductURL     string
	MarketPriceEUR float64
	HighPriceEUR   float64
	Estimated      bool
}

// Client queries the card-pricing API. It is constructed with its own
// fetcher so the API key header never leaks into marketplace fetches.
type Client struct {
	host    string
	fetcher *fetch.Fetcher
	logger  *utils.Logger
}

// NewClient creates a pricing Client. The API key is attached to every
// request as a header.
func NewClient(host, apiKey string, logger *utils.Logger) *Client {
	f := fetch.New(nil)
	f.SetHeader("X-RapidAPI-Key", apiKey)
	f.SetHeader("X-RapidAPI-Host", host)
	return &Client{host: host, fetcher: f, logger: logger}
}

type apiResponse struct {
	Data []apiCard `json:"data"`
}

type apiCard struct {
	Name       string      `json:"name"`
	TCGID      string      `json:"tcgid"`
	CardNumber json.Number `json:"card_number"`
	Rarity     string      `json:"rarity"`
	Image      string      `json:"image"`
	TcggoURL   string      `json:"tcggo_url"`
	Episode    struct {
		Name string `json:"name"`
	} `json:"episode"`
	Prices struct {
		TCGPlayer struct {
			MarketPrice float64 `json:"market_price"`
			MidPrice    float64 `json:"mid_price"`
		} `json:"tcg_player"`
		CardMarket struct {
			Avg30          float64 `json:"30d_average"`
			Avg7           float64 `json:"7d_average"`
			LowestNearMint float64 `json:"lowest_near_mint"`
		} `json:"cardmarket"`
	} `json:"prices"`
}

// Lookup searches the API for cardName, trying progressively looser query
// variants, and returns the best match. A nil Card with nil error means the
// API holds no matching card, a valid outcome rather than a failure.
func (c *Client) Lookup(ctx context.Context, cardName string) (*Card, error) {
	for _, query := range queryVariants(cardName) {
		c.logger.Debug("[pricing] Trying search query: %s", query)

		endpoint := fmt.Sprintf("https://%s/cards?search=%s&pageSize=10", c.host, url.QueryEscape(query))
		doc, err := c.fetcher.Fetch(ctx, endpoint, models.KindHTTP)
		if err != nil {
			c.logger.Warn("[pricing] API request failed for %q: %v", query, err)
			continue
		}

		var payload apiResponse
		if err := json.Unmarshal(doc.Body, &payload); err != nil {
			c.logger.Warn("[pricing] Bad API payload for %q: %v", query, err)
			continue
		}

		if match := bestMatch(cardName, payload.Data); match != nil {
			card := buildCard(match)
			c.logger.Info("[pricing] Matched %s (%s): €%.2f", card.Name, card.SetName, card.MarketPriceEUR)
			return card, nil
		}
	}

	c.logger.Warn("[pricing] No matching card for %s", cardName)
	return nil, nil
}

// AsSourcePrice converts the card's EUR market price to the target currency
// using rate (EUR→target).
func (card *Card) AsSourcePrice(rate float64) *models.SourcePrice {
	return &models.SourcePrice{
		Source: "Pricing API",
		Title:  card.Name + " (Pricing API)",
		Price:  round2(card.MarketPriceEUR * rate),
		URL:    card.ProductURL,
	}
}

func queryVariants(cardName string) []string {
	variants := []string{cardName}
	for _, marker := range []string{" ex ", " EX ", " v ", " V "} {
		if strings.Contains(cardName, marker) {
			variants = append(variants, strings.ReplaceAll(cardName, marker, " "))
		}
	}
	if fields := strings.Fields(cardName); len(fields) > 1 {
		variants = append(variants, fields[0])
	}
	return variants
}

// bestMatch scores each returned card by how many significant terms of the
// query appear in its name or TCG id, requiring more matches for longer
// queries.
func bestMatch(cardName string, candidates []apiCard) *apiCard {
	lower := strings.ToLower(cardName)
	var keyTerms []string
	for _, term := range strings.Fields(lower) {
		if len(term) > 2 || term == "v" || term == "x" || term == "ex" {
			keyTerms = append(keyTerms, term)
		}
	}
	required := 1
	if len(keyTerms) > 2 {
		required = 2
	}

	for i := range candidates {
		cand := &candidates[i]
		name := strings.ToLower(cand.Name)
		id := strings.ToLower(cand.TCGID)

		matches := 0
		for _, term := range keyTerms {
			if strings.Contains(name, term) {
				matches++
			}
			if strings.Contains(id, term) {
				matches++
			}
		}
		if matches >= required {
			return cand
		}
	}
	return nil
}

func buildCard(a *apiCard) *Card {
	card := &Card{
		Name:       a.Name,
		SetName:    a.Episode.Name,
		Number:     a.CardNumber.String(),
		Rarity:     a.Rarity,
		ImageURL:   a.Image,
		ProductURL: a.TcggoURL,
	}

	// Current price: TCGPlayer market first, CardMarket 30d average second.
	prices := []float64{
		a.Prices.TCGPlayer.MarketPrice,
		a.Prices.TCGPlayer.MidPrice,
		a.Prices.CardMarket.Avg30,
		a.Prices.CardMarket.Avg7,
		a.Prices.CardMarket.LowestNearMint,
	}
	switch {
	case a.Prices.TCGPlayer.MarketPrice > 0:
		card.MarketPriceEUR = a.Prices.TCGPlayer.MarketPrice
	case a.Prices.CardMarket.Avg30 > 0:
		card.MarketPriceEUR = a.Prices.CardMarket.Avg30
	}

	// The highest observed price stands in for the historical peak.
	for _, p := range prices {
		if p > card.HighPriceEUR {
			card.HighPriceEUR = p
		}
	}

	if card.MarketPriceEUR == 0 {
		if est, ok := estimateFromRarity(a.Rarity); ok {
			card.MarketPriceEUR = est
			card.HighPriceEUR = est
			card.Estimated = true
		}
	}
	return card
}

func estimateFromRarity(rarity string) (float64, bool) {
	lower := strings.ToLower(rarity)
	for _, e := range rarityEstimatesEUR {
		if strings.Contains(lower, e.rarity) {
			return e.price, true
		}
	}
	return 0, false
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
