package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/social-insights/internal/models"
)

func TestSummarize_TwoItems(t *testing.T) {
	items := []models.AnalyzedItem{
		post("a", models.PlatformTikTok, models.SentimentPositive, models.Engagement{Likes: 10, Comments: 3, Shares: 1, Views: 500}),
		post("b", models.PlatformInstagram, models.SentimentNegative, models.Engagement{Likes: 5}),
	}

	snapshot := Summarize(items, nil, 5, testProv())

	assert.Equal(t, 2, snapshot.TotalPosts)
	// Views never count toward engagement
	assert.Equal(t, 19, snapshot.TotalEngagement)
	assert.Equal(t, 9.5, snapshot.AvgEngagementPerPost)
	assert.Equal(t, 1, snapshot.SentimentDistribution[models.SentimentPositive])
	assert.Equal(t, 1, snapshot.SentimentDistribution[models.SentimentNegative])
	assert.Equal(t, 0, snapshot.SentimentDistribution[models.SentimentNeutral])
	assert.Equal(t, 50.0, snapshot.SentimentPercentage[models.SentimentPositive])
	assert.Equal(t, 50.0, snapshot.SentimentPercentage[models.SentimentNegative])
	assert.Equal(t, 0.0, snapshot.SentimentPercentage[models.SentimentNeutral])
	assert.Equal(t, map[string]int{"tiktok": 1, "instagram": 1}, snapshot.PlatformBreakdown)
}

func TestSummarize_EmptyInput(t *testing.T) {
	snapshot := Summarize(nil, nil, 5, testProv())

	assert.Equal(t, 0, snapshot.TotalPosts)
	assert.Equal(t, 0, snapshot.TotalEngagement)
	assert.Equal(t, 0.0, snapshot.AvgEngagementPerPost)
	// Every label must be present and zero, never missing or NaN
	for _, label := range models.SentimentLabels {
		assert.Contains(t, snapshot.SentimentDistribution, label)
		assert.Contains(t, snapshot.SentimentPercentage, label)
		assert.Equal(t, 0.0, snapshot.SentimentPercentage[label])
	}
	assert.Empty(t, snapshot.TrendingTopics)
	assert.NotNil(t, snapshot.TrendingTopics)
	assert.Nil(t, snapshot.EngagementTrend)
}

func TestSummarize_SentimentPercentagesSumToHundred(t *testing.T) {
	items := []models.AnalyzedItem{
		post("a", models.PlatformTikTok, models.SentimentPositive, models.Engagement{}),
		post("b", models.PlatformTikTok, models.SentimentPositive, models.Engagement{}),
		post("c", models.PlatformTikTok, models.SentimentNegative, models.Engagement{}),
		post("d", models.PlatformTikTok, models.SentimentNeutral, models.Engagement{}),
		post("e", models.PlatformTikTok, models.SentimentNeutral, models.Engagement{}),
		post("f", models.PlatformTikTok, models.SentimentNeutral, models.Engagement{}),
	}

	snapshot := Summarize(items, nil, 5, testProv())

	sum := 0.0
	for _, label := range models.SentimentLabels {
		sum += snapshot.SentimentPercentage[label]
	}
	assert.InDelta(t, 100.0, sum, 0.3)
}

func TestSummarize_EngagementTrendAgainstPreviousWindow(t *testing.T) {
	current := []models.AnalyzedItem{
		post("a", models.PlatformTikTok, models.SentimentPositive, models.Engagement{Likes: 120}),
	}
	previous := []models.AnalyzedItem{
		post("b", models.PlatformTikTok, models.SentimentPositive, models.Engagement{Likes: 100}),
	}

	snapshot := Summarize(current, previous, 5, testProv())

	require.NotNil(t, snapshot.EngagementTrend)
	assert.Equal(t, 20.0, *snapshot.EngagementTrend)
}

func TestSummarize_TrendIsNullForNewGrowth(t *testing.T) {
	current := []models.AnalyzedItem{
		post("a", models.PlatformTikTok, models.SentimentPositive, models.Engagement{Likes: 50}),
	}

	// Non-nil empty previous window: the comparison applies but found nothing
	snapshot := Summarize(current, []models.AnalyzedItem{}, 5, testProv())

	assert.Nil(t, snapshot.EngagementTrend)
}

func TestSummarize_TopicLimitBoundsEmbeddedList(t *testing.T) {
	items := []models.AnalyzedItem{
		{ID: "a", Platform: models.PlatformTikTok, PostURL: "a", PublishedAt: ts("2025-03-01T00:00:00Z"),
			Sentiment: models.Sentiment{Label: models.SentimentNeutral},
			Topics:    []string{"one", "two", "three", "four"}},
	}

	snapshot := Summarize(items, nil, 2, testProv())

	assert.Len(t, snapshot.TrendingTopics, 2)
}

func TestSummarize_Idempotent(t *testing.T) {
	items := []models.AnalyzedItem{
		post("a", models.PlatformTikTok, models.SentimentPositive, models.Engagement{Likes: 7, Comments: 2}),
		post("b", models.PlatformReddit, models.SentimentNeutral, models.Engagement{Comments: 11}),
	}

	first := Summarize(items, nil, 5, testProv())
	second := Summarize(items, nil, 5, testProv())

	assert.Equal(t, first, second)
}
