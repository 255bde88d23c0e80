package aggregate

import (
	"time"

	"github.com/brandpulse/social-insights/internal/models"
)

// post builds a minimal analyzed item for aggregation tests.
func post(url string, platform models.Platform, label string, eng models.Engagement) models.AnalyzedItem {
	return models.AnalyzedItem{
		ID:          url,
		Platform:    platform,
		PostURL:     url,
		PublishedAt: ts("2025-03-01T12:00:00Z"),
		Sentiment:   models.Sentiment{Label: label},
		Engagement:  eng,
	}
}

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func testProv() Provenance {
	return NewProvenance(ts("2025-06-01T00:00:00Z"), models.FilterSpec{})
}
