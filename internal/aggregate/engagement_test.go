package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/social-insights/internal/models"
)

func TestPerformance_TotalsAndAverages(t *testing.T) {
	items := []models.AnalyzedItem{
		post("a", models.PlatformTikTok, models.SentimentPositive, models.Engagement{Likes: 100, Comments: 20, Shares: 10, Views: 5000}),
		post("b", models.PlatformInstagram, models.SentimentNeutral, models.Engagement{Likes: 50, Comments: 10, Shares: 0, Views: 1000}),
	}

	snapshot := Performance(items, 5, testProv())

	assert.Equal(t, 2, snapshot.TotalPosts)
	assert.Equal(t, 150, snapshot.TotalLikes)
	assert.Equal(t, 30, snapshot.TotalComments)
	assert.Equal(t, 10, snapshot.TotalShares)
	assert.Equal(t, 6000, snapshot.TotalViews)
	assert.Equal(t, 190, snapshot.TotalEngagement)
	assert.Equal(t, 75.0, snapshot.AvgLikesPerPost)
	assert.Equal(t, 95.0, snapshot.AvgEngagementPerPost)
	// 190 / 6000 * 100
	assert.InDelta(t, 3.17, snapshot.EngagementRate, 0.001)
	assert.Equal(t, 6000, snapshot.EstimatedReach)
}

func TestPerformance_ReachFallsBackToMultiplierWithoutViews(t *testing.T) {
	items := []models.AnalyzedItem{
		post("a", models.PlatformTwitter, models.SentimentNeutral, models.Engagement{Likes: 10, Comments: 5, Shares: 5}),
	}

	snapshot := Performance(items, 5, testProv())

	assert.Equal(t, 0, snapshot.TotalViews)
	assert.Equal(t, 100, snapshot.EstimatedReach) // 20 engagement * 5
}

func TestPerformance_PlatformBreakdown(t *testing.T) {
	items := []models.AnalyzedItem{
		post("a", models.PlatformTikTok, models.SentimentPositive, models.Engagement{Likes: 10, Views: 100}),
		post("b", models.PlatformTikTok, models.SentimentNeutral, models.Engagement{Likes: 20, Views: 300}),
		post("c", models.PlatformReddit, models.SentimentNeutral, models.Engagement{Comments: 40}),
	}

	snapshot := Performance(items, 5, testProv())

	require.Contains(t, snapshot.PlatformBreakdown, "tiktok")
	require.Contains(t, snapshot.PlatformBreakdown, "reddit")

	tiktok := snapshot.PlatformBreakdown["tiktok"]
	assert.Equal(t, 2, tiktok.Posts)
	assert.Equal(t, 30, tiktok.Engagement)
	assert.Equal(t, 15.0, tiktok.AvgEngagementPerPost)
	// 30 / 400 * 100
	assert.Equal(t, 7.5, tiktok.EngagementRate)

	reddit := snapshot.PlatformBreakdown["reddit"]
	assert.Equal(t, 1, reddit.Posts)
	// No views reported, denominator floors at 1
	assert.Equal(t, 4000.0, reddit.EngagementRate)
}

func TestPerformance_EmptyInput(t *testing.T) {
	snapshot := Performance(nil, 5, testProv())

	assert.Equal(t, 0, snapshot.TotalPosts)
	assert.Equal(t, 0.0, snapshot.EngagementRate)
	assert.Equal(t, 0, snapshot.EstimatedReach)
	assert.NotNil(t, snapshot.PlatformBreakdown)
}

func TestEngagementPatterns_PeakHoursRankedByAvgEngagement(t *testing.T) {
	items := []models.AnalyzedItem{
		{ID: "a", Platform: models.PlatformTikTok, PostURL: "a", PublishedAt: ts("2025-03-03T09:00:00Z"),
			Sentiment: models.Sentiment{Label: models.SentimentNeutral}, Engagement: models.Engagement{Likes: 10}},
		{ID: "b", Platform: models.PlatformTikTok, PostURL: "b", PublishedAt: ts("2025-03-03T18:00:00Z"),
			Sentiment: models.Sentiment{Label: models.SentimentNeutral}, Engagement: models.Engagement{Likes: 100}},
		{ID: "c", Platform: models.PlatformTikTok, PostURL: "c", PublishedAt: ts("2025-03-04T18:30:00Z"),
			Sentiment: models.Sentiment{Label: models.SentimentNeutral}, Engagement: models.Engagement{Likes: 60}},
	}

	snapshot := EngagementPatterns(items, testProv())

	require.NotEmpty(t, snapshot.PeakHours)
	assert.Equal(t, 18, snapshot.PeakHours[0].Hour)
	assert.Equal(t, 2, snapshot.PeakHours[0].Posts)
	assert.Equal(t, 80.0, snapshot.PeakHours[0].AvgEngagement)
}

func TestEngagementPatterns_ActiveDaysRankedByPosts(t *testing.T) {
	items := []models.AnalyzedItem{
		// Two Mondays, one Tuesday
		{ID: "a", Platform: models.PlatformTikTok, PostURL: "a", PublishedAt: ts("2025-03-03T09:00:00Z"),
			Sentiment: models.Sentiment{Label: models.SentimentNeutral}},
		{ID: "b", Platform: models.PlatformTikTok, PostURL: "b", PublishedAt: ts("2025-03-10T09:00:00Z"),
			Sentiment: models.Sentiment{Label: models.SentimentNeutral}},
		{ID: "c", Platform: models.PlatformTikTok, PostURL: "c", PublishedAt: ts("2025-03-04T09:00:00Z"),
			Sentiment: models.Sentiment{Label: models.SentimentNeutral}},
	}

	snapshot := EngagementPatterns(items, testProv())

	require.NotEmpty(t, snapshot.ActiveDays)
	assert.Equal(t, "Monday", snapshot.ActiveDays[0].Day)
	assert.Equal(t, 2, snapshot.ActiveDays[0].Posts)
}

func TestEngagementPatterns_EmptyInput(t *testing.T) {
	snapshot := EngagementPatterns(nil, testProv())

	assert.Equal(t, 0, snapshot.TotalPosts)
	assert.NotNil(t, snapshot.PeakHours)
	assert.Empty(t, snapshot.PeakHours)
	assert.NotNil(t, snapshot.ActiveDays)
	assert.Empty(t, snapshot.ActiveDays)
	assert.Equal(t, 0.0, snapshot.AvgEngagementRate)
}
