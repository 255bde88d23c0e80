package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/social-insights/internal/models"
)

func topicItem(url string, label string, engagement int, topics ...string) models.AnalyzedItem {
	return models.AnalyzedItem{
		ID:          url,
		Platform:    models.PlatformTikTok,
		PostURL:     url,
		PublishedAt: ts("2025-03-01T00:00:00Z"),
		Sentiment:   models.Sentiment{Label: label},
		Topics:      topics,
		Engagement:  models.Engagement{Likes: engagement},
	}
}

func TestTrendingTopics_RanksByCountThenEngagementThenName(t *testing.T) {
	items := []models.AnalyzedItem{
		topicItem("a", models.SentimentPositive, 10, "sneakers", "running"),
		topicItem("b", models.SentimentPositive, 5, "sneakers"),
		topicItem("c", models.SentimentNegative, 50, "running"),
		topicItem("d", models.SentimentNeutral, 50, "basketball"),
	}

	snapshot := TrendingTopics(items, 10, testProv())

	require.Len(t, snapshot.TrendingTopics, 3)
	// sneakers and running both appear twice; running carries more engagement
	assert.Equal(t, "running", snapshot.TrendingTopics[0].Topic)
	assert.Equal(t, "sneakers", snapshot.TrendingTopics[1].Topic)
	assert.Equal(t, "basketball", snapshot.TrendingTopics[2].Topic)
}

func TestTrendingTopics_LexicographicTieBreak(t *testing.T) {
	items := []models.AnalyzedItem{
		topicItem("a", models.SentimentNeutral, 0, "zebra", "apple"),
	}

	snapshot := TrendingTopics(items, 10, testProv())

	require.Len(t, snapshot.TrendingTopics, 2)
	assert.Equal(t, "apple", snapshot.TrendingTopics[0].Topic)
	assert.Equal(t, "zebra", snapshot.TrendingTopics[1].Topic)
}

func TestTrendingTopics_FoldsCaseKeepingFirstSeenCasing(t *testing.T) {
	items := []models.AnalyzedItem{
		topicItem("a", models.SentimentPositive, 0, "Sneakers"),
		topicItem("b", models.SentimentPositive, 0, "sneakers"),
		topicItem("c", models.SentimentPositive, 0, "SNEAKERS"),
	}

	snapshot := TrendingTopics(items, 10, testProv())

	require.Len(t, snapshot.TrendingTopics, 1)
	assert.Equal(t, "Sneakers", snapshot.TrendingTopics[0].Topic)
	assert.Equal(t, 3, snapshot.TrendingTopics[0].Count)
}

func TestTrendingTopics_SentimentCountsAndScore(t *testing.T) {
	items := []models.AnalyzedItem{
		topicItem("a", models.SentimentPositive, 0, "launch"),
		topicItem("b", models.SentimentPositive, 0, "launch"),
		topicItem("c", models.SentimentNegative, 0, "launch"),
		topicItem("d", models.SentimentNeutral, 0, "launch"),
	}

	snapshot := TrendingTopics(items, 10, testProv())

	require.Len(t, snapshot.TrendingTopics, 1)
	rank := snapshot.TrendingTopics[0]
	assert.Equal(t, 2, rank.Positive)
	assert.Equal(t, 1, rank.Negative)
	assert.Equal(t, 1, rank.Neutral)
	// (2 - 1) / 4
	assert.Equal(t, 0.25, rank.SentimentScore)
}

func TestTrendingTopics_LimitTruncates(t *testing.T) {
	items := []models.AnalyzedItem{
		topicItem("a", models.SentimentNeutral, 0, "one", "two", "three", "four", "five"),
	}

	snapshot := TrendingTopics(items, 3, testProv())

	assert.Len(t, snapshot.TrendingTopics, 3)
	assert.Equal(t, 1, snapshot.TotalAnalyzed)
}

func TestTrendingTopics_EmptyInput(t *testing.T) {
	snapshot := TrendingTopics(nil, 10, testProv())

	assert.Equal(t, 0, snapshot.TotalAnalyzed)
	assert.Empty(t, snapshot.TrendingTopics)
	assert.NotNil(t, snapshot.TrendingTopics)
}
