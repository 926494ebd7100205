package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"card-arbitrage/models"
)

var digitsPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// RejectReason classifies why a listing price was dropped.
type RejectReason string

const (
	RejectNoDigits  RejectReason = "no_digits"
	RejectBelowBand RejectReason = "below_band"
	RejectAboveBand RejectReason = "above_band"
)

// Band is the [Min, Max] sanity range for converted prices. Values outside
// it signal a parsing error rather than a real listing and are dropped.
// Bounds come from configuration, never from constants in this package.
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether v lies inside the band.
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// ParsePrice parses a localized price string (currency symbol, thousands
// separators, optional decimal point) into a float. okay is false when the
// string holds no digits.
func ParsePrice(priceText string) (value float64, ok bool) {
	cleaned := strings.ReplaceAll(priceText, ",", "")
	match := digitsPattern.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Normalize parses raw's price text, converts it to the target currency by
// multiplying with rate (source→target) and checks the converted value
// against the sanity band. A rejected listing carries the reason with it;
// it is dropped, never returned with an out-of-band value.
func Normalize(raw models.RawListing, sourceCurrency, targetCurrency string, rate float64, band Band) (*models.PricedListing, RejectReason) {
	value, ok := ParsePrice(raw.RawPrice)
	if !ok {
		return nil, RejectNoDigits
	}

	converted := value * rate
	if converted < band.Min {
		return nil, RejectBelowBand
	}
	if converted > band.Max {
		return nil, RejectAboveBand
	}

	return &models.PricedListing{
		Raw:            raw,
		Price:          value,
		Currency:       sourceCurrency,
		ConvertedPrice: converted,
		TargetCurrency: targetCurrency,
	}, ""
}
