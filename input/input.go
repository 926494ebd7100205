// Package input reads batch inputs: the URL list driving a bulk run and the
// JSON-encoded set selection for the grading analyzer.
package input

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ReadURLs loads source URLs from a tabular file: first column is the URL,
// the header row is skipped, blank rows are ignored.
func ReadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("input: parse %q: %w", path, err)
	}

	var urls []string
	for i, row := range records {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 {
			continue
		}
		if u := strings.TrimSpace(row[0]); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// SelectedSets resolves the set selection for a grading run: the SELECTED_SETS
// environment variable takes priority, then the sibling JSON file, then the
// supplied fallback. The bool reports whether the fallback was used.
func SelectedSets(envVar, filePath string, fallback []string) ([]string, bool) {
	if raw := os.Getenv(envVar); raw != "" {
		if sets, err := parseSets(raw); err == nil && len(sets) > 0 {
			return sets, false
		}
	}

	if data, err := os.ReadFile(filePath); err == nil {
		if sets, err := parseSets(string(data)); err == nil && len(sets) > 0 {
			return sets, false
		}
	}

	return fallback, true
}

func parseSets(raw string) ([]string, error) {
	var sets []string
	if err := json.Unmarshal([]byte(raw), &sets); err != nil {
		return nil, err
	}
	return sets, nil
}
