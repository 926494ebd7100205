package models

import "time"

// ArbitrageOpportunity is one scored buy/sell pair from the bulk CardRush
// analysis. Identity for deduplication is (JapaneseName, CardNumber).
// Never mutated after creation.
type ArbitrageOpportunity struct {
	JapaneseName  string
	EnglishName   string
	CardNumber    string
	CardType      string
	BuyPriceJPY   float64
	BuyPriceUSD   float64
	SellPriceUSD  float64
	ProfitUSD     float64
	MarginPercent float64
	Profitable    bool
	CardURL       string
	SourcePageURL string
	EbaySearchURL string
}

// Key returns the deduplication key for an opportunity.
func (o *ArbitrageOpportunity) Key() string {
	return o.JapaneseName + "|" + o.CardNumber
}

// GradingAnalysis holds the profit arithmetic for sending one raw card to
// one grading service.
type GradingAnalysis struct {
	Service         string
	RawPrice        float64
	GradedPrice     float64
	GradingCost     float64
	ShippingCost    float64
	TotalInvestment float64
	GrossProfit     float64
	NetProfit       float64
	ROIPercent      float64
	ReturnMultiple  float64
	MeetsCriteria   bool
}

// GradingOpportunity is one card evaluated against every configured grading
// service, with the resulting recommendation.
type GradingOpportunity struct {
	CardName       string
	CardNumber     string
	CardType       string
	SetName        string
	Analyses       []GradingAnalysis
	Recommendation string
	BestNetProfit  float64
	MeetsCriteria  bool
}

// Key returns the deduplication key for a grading opportunity.
func (g *GradingOpportunity) Key() string {
	return g.CardName + "|" + g.CardNumber
}

// SourcePrice is one sell-side reference price tagged with where it came
// from (eBay sold average, Price Charting ungraded, pricing API market).
type SourcePrice struct {
	Source string  `json:"source"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	URL    string  `json:"url,omitempty"`
}

// WhatToPayResult is the full outcome of a single-card market analysis:
// every source price that came back plus the derived recommendation.
type WhatToPayResult struct {
	CardName       string        `json:"card_name"`
	Timestamp      time.Time     `json:"timestamp"`
	EbayPrices     []SourcePrice `json:"ebay_prices"`
	PriceCharting  *SourcePrice  `json:"price_charting"`
	PricingAPI     *SourcePrice  `json:"pricing_api"`
	EbayAverage    float64       `json:"ebay_average"`
	MarketAverage  float64       `json:"market_average"`
	PriceRangeLow  float64       `json:"price_range_low"`
	PriceRangeHigh float64       `json:"price_range_high"`
	RecommendLow   float64       `json:"recommend_low"`
	RecommendHigh  float64       `json:"recommend_high"`
	Recommendation string        `json:"recommendation"`
}

// ETBRecord is one Elite Trainer Box with current market price, historical
// peak and the derived undervaluation metrics.
type ETBRecord struct {
	Name            string  `json:"name"`
	ReleaseYear     int     `json:"release_year"`
	CurrentPrice    float64 `json:"current_price"`
	HistoricalHigh  float64 `json:"historical_high"`
	EbayAverage     float64 `json:"ebay_average"`
	PriceDropPct    float64 `json:"price_drop_percent"`
	Trend           string  `json:"trend"`
	Undervalued     bool    `json:"is_undervalued"`
	PotentialUpside float64 `json:"potential_upside"`
	SearchURL       string  `json:"search_url,omitempty"`
}

// ETBSummary is the summary block of the ETB market report.
type ETBSummary struct {
	TotalETBs        int       `json:"total_etbs"`
	TrendingCount    int       `json:"trending_count"`
	UndervaluedCount int       `json:"undervalued_count"`
	AveragePrice     float64   `json:"avg_current_price"`
	MinPrice         float64   `json:"min_price"`
	MaxPrice         float64   `json:"max_price"`
	LastUpdated      time.Time `json:"last_updated"`
}

// ETBReport is the JSON artifact of the ETB market scan.
type ETBReport struct {
	RunID       string      `json:"run_id"`
	Summary     ETBSummary  `json:"summary"`
	Trending    []ETBRecord `json:"trending_etbs"`
	Undervalued []ETBRecord `json:"undervalued_etbs"`
	All         []ETBRecord `json:"all_etbs"`
}
