package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"card-arbitrage/utils"
)

// TimestampedPath builds an artifact path of the form
// <dir>/<reportType>_<YYYYMMDD_HHMMSS>.<ext> so repeated runs never collide.
func TimestampedPath(dir, reportType, ext string) string {
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", reportType, stamp, ext))
}

// Dedupe removes later duplicates by key, preserving the first-seen
// occurrence, and logs each discard. Running it over an already
// deduplicated sequence removes nothing.
func Dedupe[T any](items []T, key func(T) string, logger *utils.Logger) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, dup := seen[k]; dup {
			logger.Debug("[report] Removed duplicate: %s", k)
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	if dropped := len(items) - len(out); dropped > 0 {
		logger.Info("[report] Removed %d duplicates", dropped)
	}
	return out
}

// SortDesc sorts items in place, descending by metric. The sort is stable:
// ties keep their original relative order.
func SortDesc[T any](items []T, metric func(T) float64) {
	sort.SliceStable(items, func(i, j int) bool {
		return metric(items[i]) > metric(items[j])
	})
}
