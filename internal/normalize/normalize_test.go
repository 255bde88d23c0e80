package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/social-insights/internal/models"
)

func validRecord() models.PlatformRecord {
	return models.PlatformRecord{
		PostURL:     "https://tiktok.com/@user/video/1",
		Platform:    "tiktok",
		PublishedAt: "2025-03-01T12:00:00Z",
		Sentiment:   &models.Sentiment{Label: "positive", Score: 0.8},
	}
}

func TestRecord_Valid(t *testing.T) {
	item, err := Record(validRecord())

	require.NoError(t, err)
	assert.Equal(t, "https://tiktok.com/@user/video/1", item.PostURL)
	assert.Equal(t, models.PlatformTikTok, item.Platform)
	assert.Equal(t, models.SentimentPositive, item.Sentiment.Label)
	assert.Equal(t, 0.8, item.Sentiment.Score)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), item.PublishedAt)
}

func TestRecord_RequiredFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.PlatformRecord)
		field  string
	}{
		{
			name:   "missing post url",
			mutate: func(r *models.PlatformRecord) { r.PostURL = "" },
			field:  "post_url",
		},
		{
			name:   "missing platform",
			mutate: func(r *models.PlatformRecord) { r.Platform = "" },
			field:  "platform",
		},
		{
			name:   "unknown platform",
			mutate: func(r *models.PlatformRecord) { r.Platform = "myspace" },
			field:  "platform",
		},
		{
			name:   "missing sentiment",
			mutate: func(r *models.PlatformRecord) { r.Sentiment = nil },
			field:  "sentiment.label",
		},
		{
			name:   "unknown sentiment label",
			mutate: func(r *models.PlatformRecord) { r.Sentiment = &models.Sentiment{Label: "ecstatic"} },
			field:  "sentiment.label",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)

			_, err := Record(rec)

			require.Error(t, err)
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.field, schemaErr.Field)
		})
	}
}

func TestRecord_URLAliases(t *testing.T) {
	rec := validRecord()
	rec.PostURL = ""
	rec.WebVideoURL = "https://tiktok.com/@user/video/2"

	item, err := Record(rec)

	require.NoError(t, err)
	assert.Equal(t, "https://tiktok.com/@user/video/2", item.PostURL)

	rec = validRecord()
	rec.PostURL = ""
	rec.Permalink = "https://reddit.com/r/sub/comments/abc"
	rec.Platform = "reddit"

	item, err = Record(rec)

	require.NoError(t, err)
	assert.Equal(t, "https://reddit.com/r/sub/comments/abc", item.PostURL)
}

func TestRecord_ClampsSentimentScore(t *testing.T) {
	rec := validRecord()
	rec.Sentiment.Score = 3.2

	item, err := Record(rec)

	require.NoError(t, err)
	assert.Equal(t, 1.0, item.Sentiment.Score)

	rec.Sentiment.Score = -7
	item, err = Record(rec)

	require.NoError(t, err)
	assert.Equal(t, -1.0, item.Sentiment.Score)
}

func TestRecord_OptionalBlocksDefault(t *testing.T) {
	rec := validRecord()
	// No engagement, emotions or demographics in the export

	item, err := Record(rec)

	require.NoError(t, err)
	assert.Equal(t, models.Engagement{}, item.Engagement)
	assert.Nil(t, item.Emotions)
	assert.Nil(t, item.Demographics)
}

func TestRecord_DropsUnknownEmotionsAndFloorsNegatives(t *testing.T) {
	rec := validRecord()
	rec.Emotions = map[string]float64{
		"Joy":       0.6,
		"nostalgia": 0.9, // not in the tracked set
		"anger":     -0.1,
	}

	item, err := Record(rec)

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"joy": 0.6, "anger": 0}, item.Emotions)
}

func TestRecord_TreatsPlaceholderDemographicsAsAbsent(t *testing.T) {
	rec := validRecord()
	rec.Demographics = &models.Demographics{AgeGroup: "unknown", Gender: "N/A", Location: "Berlin"}

	item, err := Record(rec)

	require.NoError(t, err)
	require.NotNil(t, item.Demographics)
	assert.Empty(t, item.Demographics.AgeGroup)
	assert.Empty(t, item.Demographics.Gender)
	assert.Equal(t, "Berlin", item.Demographics.Location)
}

func TestRecord_NegativeEngagementFloorsAtZero(t *testing.T) {
	rec := validRecord()
	rec.Engagement = &models.Engagement{Likes: -5, Comments: 3}

	item, err := Record(rec)

	require.NoError(t, err)
	assert.Equal(t, 0, item.Engagement.Likes)
	assert.Equal(t, 3, item.Engagement.Comments)
}

func TestRecord_TimestampFormats(t *testing.T) {
	formats := []string{
		"2025-03-01T12:00:00Z",
		"2025-03-01T12:00:00",
		"2025-03-01 12:00:00",
		"2025-03-01",
	}

	for _, f := range formats {
		rec := validRecord()
		rec.PublishedAt = f

		item, err := Record(rec)

		require.NoError(t, err, "format %q", f)
		assert.Equal(t, 2025, item.PublishedAt.Year(), "format %q", f)
	}
}

func TestBatch_SkipsMalformedAndDedupes(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	refs := []models.EntityRef{{BrandName: "Acme"}}

	broken := validRecord()
	broken.Sentiment = nil

	duplicate := validRecord() // same post URL as the first valid record

	records := []models.PlatformRecord{validRecord(), broken, duplicate}
	items, skipped := Batch(records, "run-1", refs, now)

	assert.Equal(t, 1, skipped)
	require.Len(t, items, 1)
	assert.Equal(t, "run-1", items[0].AnalysisRunID)
	assert.Equal(t, now, items[0].AnalyzedAt)
	assert.Equal(t, refs, items[0].EntityRefs)
}

func TestBatch_FallsBackToAnalysisTimeWithoutTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rec := validRecord()
	rec.PublishedAt = "not a timestamp"

	items, skipped := Batch([]models.PlatformRecord{rec}, "run-1", nil, now)

	assert.Equal(t, 0, skipped)
	require.Len(t, items, 1)
	assert.Equal(t, now, items[0].PublishedAt)
}
