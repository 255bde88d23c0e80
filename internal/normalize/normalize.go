// Package normalize converts raw classified platform records into the
// canonical AnalyzedItem shape. Platform exports disagree about field names
// and about which optional blocks are present; everything downstream of this
// package sees exactly one shape.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/models"
)

// SchemaError reports a raw record that cannot be normalized because a
// required field is missing or malformed. The record is skipped; a schema
// error never aborts a batch.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error on field %q: %s", e.Field, e.Reason)
}

// timeLayouts are tried in order when parsing published_at. Platform exports
// are inconsistent about timestamp formats.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Record normalizes one raw record. Required fields are post_url (or a
// platform-specific alias), platform and sentiment.label. Optional blocks
// (emotions, demographics, engagement) are left empty rather than failing,
// and numeric fields default to 0, never null.
func Record(rec models.PlatformRecord) (models.AnalyzedItem, error) {
	postURL := firstNonEmpty(rec.PostURL, rec.WebVideoURL, rec.Permalink)
	if postURL == "" {
		return models.AnalyzedItem{}, &SchemaError{Field: "post_url", Reason: "missing"}
	}

	platform, ok := models.ParsePlatform(rec.Platform)
	if !ok {
		if rec.Platform == "" {
			return models.AnalyzedItem{}, &SchemaError{Field: "platform", Reason: "missing"}
		}
		return models.AnalyzedItem{}, &SchemaError{Field: "platform", Reason: fmt.Sprintf("unknown platform %q", rec.Platform)}
	}

	if rec.Sentiment == nil {
		return models.AnalyzedItem{}, &SchemaError{Field: "sentiment.label", Reason: "missing"}
	}
	label, ok := models.ParseSentimentLabel(rec.Sentiment.Label)
	if !ok {
		return models.AnalyzedItem{}, &SchemaError{Field: "sentiment.label", Reason: fmt.Sprintf("unknown label %q", rec.Sentiment.Label)}
	}

	item := models.AnalyzedItem{
		ID:       rec.ID,
		Platform: platform,
		PostURL:  postURL,
		Sentiment: models.Sentiment{
			Label: label,
			Score: clamp(rec.Sentiment.Score, -1, 1),
		},
		Topics:          cleanStrings(rec.Topics),
		Emotions:        cleanEmotions(rec.Emotions),
		Demographics:    cleanDemographics(rec.Demographics),
		KeywordsMatched: cleanStrings(rec.KeywordsMatched),
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if rec.Engagement != nil {
		item.Engagement = models.Engagement{
			Likes:    maxInt(rec.Engagement.Likes, 0),
			Comments: maxInt(rec.Engagement.Comments, 0),
			Shares:   maxInt(rec.Engagement.Shares, 0),
			Views:    maxInt(rec.Engagement.Views, 0),
		}
	}

	item.PublishedAt = parseTime(rec.PublishedAt)

	return item, nil
}

// Batch normalizes a run's records, skipping malformed ones. Items are deduped
// by post URL within the run so the run key (post_url, analysis_run_id) stays
// unique; the first occurrence wins. Returns the items and the count skipped.
func Batch(records []models.PlatformRecord, runID string, refs []models.EntityRef, now time.Time) ([]models.AnalyzedItem, int) {
	items := make([]models.AnalyzedItem, 0, len(records))
	seen := make(map[string]bool, len(records))
	skipped := 0

	for _, rec := range records {
		item, err := Record(rec)
		if err != nil {
			skipped++
			logrus.Warnf("Skipping record during normalization: %v", err)
			continue
		}
		if seen[item.PostURL] {
			continue
		}
		seen[item.PostURL] = true

		item.AnalysisRunID = runID
		item.AnalyzedAt = now
		item.EntityRefs = append(item.EntityRefs, refs...)
		if item.PublishedAt.IsZero() {
			// No usable timestamp in the export; bucket it under the analysis
			// time instead of inventing a date.
			item.PublishedAt = now
		}
		items = append(items, item)
	}

	return items, skipped
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func cleanStrings(in []string) []string {
	var out []string
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// cleanEmotions keeps only the nine known emotions and floors negative
// weights at zero.
func cleanEmotions(in map[string]float64) map[string]float64 {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]float64)
	for name, weight := range in {
		name = strings.ToLower(strings.TrimSpace(name))
		if !models.KnownEmotion(name) {
			continue
		}
		if weight < 0 {
			weight = 0
		}
		out[name] = weight
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanDemographics(d *models.Demographics) *models.Demographics {
	if d == nil {
		return nil
	}
	cleaned := models.Demographics{
		AgeGroup: normalizeValue(d.AgeGroup),
		Gender:   normalizeValue(d.Gender),
		Location: normalizeValue(d.Location),
	}
	if cleaned == (models.Demographics{}) {
		return nil
	}
	return &cleaned
}

// normalizeValue treats classifier placeholders as absent.
func normalizeValue(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "unknown") || strings.EqualFold(s, "n/a") {
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
