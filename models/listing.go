package models

import "time"

// DocumentKind tells the fetcher how a source must be retrieved.
type DocumentKind string

const (
	// KindHTTP is a plain GET against static HTML or a JSON API.
	KindHTTP DocumentKind = "http"
	// KindBrowser renders the page in headless Chrome before reading it.
	KindBrowser DocumentKind = "browser"
)

// SourceDocument is the raw payload of one fetch. Immutable once created,
// discarded after extraction.
type SourceDocument struct {
	URL         string
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}

// RawListing holds unprocessed item-level data straight off a marketplace
// page: display title, the price string exactly as it appeared, and where it
// came from. Consumed once by the normalizer; never persisted.
type RawListing struct {
	Title     string
	RawPrice  string
	URL       string
	SourceURL string
	ScrapedAt time.Time
}

// PricedListing is a RawListing whose price parsed cleanly and survived the
// sanity band: a numeric amount in its source currency plus the converted
// amount in the target currency. ConvertedPrice is always >= 0 and inside
// the configured band. Out-of-band listings are dropped, never kept.
type PricedListing struct {
	Raw            RawListing
	Price          float64
	Currency       string
	ConvertedPrice float64
	TargetCurrency string
}
