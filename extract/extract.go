package extract

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"card-arbitrage/models"
)

// currencyPatterns are tried in order against a candidate node's text until
// one matches. The matched substring (symbol included) becomes RawPrice.
var currencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`£\s*[\d,]+(?:\.\d+)?`),
	regexp.MustCompile(`\$\s*[\d,]+(?:\.\d+)?`),
	regexp.MustCompile(`€\s*[\d,]+(?:\.\d+)?`),
	regexp.MustCompile(`[\d,]+(?:\.\d+)?\s*円`),
	regexp.MustCompile(`GBP\s*[\d,]+(?:\.\d+)?`),
}

// defaultStoplist phrases mark a node as a non-listing (ad, header, search
// widget). Matching is case-insensitive substring.
var defaultStoplist = []string{
	"shop on ebay",
	"advertisement",
	"save this search",
	"more like this",
}

// Strategy is one way of locating candidate item nodes in a document.
// Strategies are tried in priority order; the first that yields at least
// one node wins.
type Strategy struct {
	Name     string
	Selector string
}

// RejectReason classifies why a candidate node was skipped. Rejections are
// tagged results, not errors. The pipeline continues past every one.
type RejectReason string

const (
	RejectEmptyTitle RejectReason = "empty_title"
	RejectShortTitle RejectReason = "short_title"
	RejectStoplisted RejectReason = "stoplisted"
	RejectNoPrice    RejectReason = "no_price"
)

// Rejection records one skipped node for the progress log.
type Rejection struct {
	Reason RejectReason
	Title  string
}

// Options configures one extraction pass.
type Options struct {
	Strategies     []Strategy
	TitleSelectors []string
	// TitlePattern, when set, overrides TitleSelectors: the title is the
	// first pattern match in the node's text. Used for marketplaces whose
	// titles follow a textual convention rather than a DOM structure.
	TitlePattern   *regexp.Regexp
	PriceSelectors []string
	LinkSelector   string
	BaseURL        string
	MaxListings    int
	MinTitleLength int
	Stoplist       []string
}

// Extract locates candidate item nodes in doc via the fallback strategy
// chain and pulls a title and price string from each. Zero listings is a
// valid outcome, not a failure: an unparseable or empty document yields an
// empty slice. Scanning stops once MaxListings have been accepted.
func Extract(doc *models.SourceDocument, opts Options) ([]models.RawListing, []Rejection) {
	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, nil
	}

	stoplist := opts.Stoplist
	if stoplist == nil {
		stoplist = defaultStoplist
	}

	var nodes *goquery.Selection
	for _, st := range opts.Strategies {
		sel := gq.Find(st.Selector)
		if sel.Length() > 0 {
			nodes = sel
			break
		}
	}
	if nodes == nil {
		return nil, nil
	}

	var listings []models.RawListing
	var rejections []Rejection

	nodes.EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if opts.MaxListings > 0 && len(listings) >= opts.MaxListings {
			return false
		}

		var title string
		if opts.TitlePattern != nil {
			title = collapseSpace(strings.TrimSpace(opts.TitlePattern.FindString(node.Text())))
		} else {
			title = extractTitle(node, opts.TitleSelectors)
		}
		if reason, ok := rejectTitle(title, opts.MinTitleLength, stoplist); !ok {
			rejections = append(rejections, Rejection{Reason: reason, Title: title})
			return true
		}

		rawPrice := extractPrice(node, opts.PriceSelectors)
		if rawPrice == "" {
			rejections = append(rejections, Rejection{Reason: RejectNoPrice, Title: title})
			return true
		}

		listings = append(listings, models.RawListing{
			Title:     title,
			RawPrice:  rawPrice,
			URL:       extractLink(node, opts.LinkSelector, opts.BaseURL),
			SourceURL: doc.URL,
			ScrapedAt: time.Now(),
		})
		return true
	})

	return listings, rejections
}

func extractTitle(node *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(node.Find(sel).First().Text()); t != "" {
			return collapseSpace(t)
		}
	}
	// Fallback: first non-empty line of the node's own text.
	for _, line := range strings.Split(node.Text(), "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return collapseSpace(t)
		}
	}
	return ""
}

func rejectTitle(title string, minLen int, stoplist []string) (RejectReason, bool) {
	if title == "" {
		return RejectEmptyTitle, false
	}
	if minLen > 0 && len(title) < minLen {
		return RejectShortTitle, false
	}
	lower := strings.ToLower(title)
	for _, phrase := range stoplist {
		if strings.Contains(lower, phrase) {
			return RejectStoplisted, false
		}
	}
	return "", true
}

func extractPrice(node *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		text := node.Find(sel).First().Text()
		if m := matchPrice(text); m != "" {
			return m
		}
	}
	return matchPrice(node.Text())
}

func matchPrice(text string) string {
	for _, re := range currencyPatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func extractLink(node *goquery.Selection, selector, baseURL string) string {
	sel := selector
	if sel == "" {
		sel = "a"
	}
	href, ok := node.Find(sel).First().Attr("href")
	if !ok {
		return ""
	}
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "/") && baseURL != "" {
		return strings.TrimRight(baseURL, "/") + href
	}
	return href
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
