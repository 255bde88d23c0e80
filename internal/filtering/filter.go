// Package filtering applies a FilterSpec to a set of analyzed items. Every
// aggregator consumes this engine, so all dashboard views narrow their data
// identically.
package filtering

import (
	"strings"
	"time"

	"github.com/brandpulse/social-insights/internal/models"
)

// Apply returns the items matching spec, preserving input order. It is a pure
// function: the same inputs always yield the same ordered output, and the
// input slice is never mutated. A zero spec returns the input unchanged.
func Apply(items []models.AnalyzedItem, spec models.FilterSpec) []models.AnalyzedItem {
	if spec.IsZero() {
		return items
	}

	platforms := lowerSet(spec.Platforms)
	urls := exactSet(spec.PostURLs)
	keywords := lowerSet(spec.Keywords)

	matched := make([]models.AnalyzedItem, 0, len(items))
	for _, item := range items {
		if !matchDate(item.PublishedAt, spec.DateStart, spec.DateEnd) {
			continue
		}
		if len(platforms) > 0 && !platforms[strings.ToLower(string(item.Platform))] {
			continue
		}
		if len(urls) > 0 && !urls[item.PostURL] {
			continue
		}
		if len(keywords) > 0 && !matchKeywords(item.KeywordsMatched, keywords) {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

// matchDate checks the inclusive date window. An item published exactly at
// the end bound is included.
func matchDate(published time.Time, start, end *time.Time) bool {
	if start != nil && published.Before(*start) {
		return false
	}
	if end != nil && published.After(*end) {
		return false
	}
	return true
}

// matchKeywords reports whether any of the item's matched keywords intersects
// the requested set. Comparison is case-insensitive. An item with zero
// keywords never matches a non-empty request.
func matchKeywords(itemKeywords []string, requested map[string]bool) bool {
	for _, kw := range itemKeywords {
		if requested[strings.ToLower(kw)] {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			set[strings.ToLower(trimmed)] = true
		}
	}
	return set
}

// exactSet builds a case-sensitive set; post URLs match exactly, not by
// substring.
func exactSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			set[trimmed] = true
		}
	}
	return set
}
