package aggregate

import (
	"github.com/brandpulse/social-insights/internal/models"
)

// Summarize computes the headline view over an already-filtered item set.
//
// previousItems is the equivalent set for the preceding window and feeds the
// engagement trend; pass nil when no comparison window applies. topicLimit
// bounds the embedded trending topic list.
//
// Contract for empty input: total_posts, total_engagement and
// avg_engagement_per_post are 0 and every sentiment percentage is 0.0. The
// dashboard renders percentages unconditionally, so none of these may ever be
// NaN or missing.
func Summarize(items, previousItems []models.AnalyzedItem, topicLimit int, prov Provenance) SummarySnapshot {
	snapshot := SummarySnapshot{
		SentimentDistribution: map[string]int{
			models.SentimentPositive: 0,
			models.SentimentNegative: 0,
			models.SentimentNeutral:  0,
		},
		SentimentPercentage: map[string]float64{
			models.SentimentPositive: 0,
			models.SentimentNegative: 0,
			models.SentimentNeutral:  0,
		},
		PlatformBreakdown: make(map[string]int),
		TrendingTopics:    []TopicRank{},
		Provenance:        prov,
	}

	totalEngagement := 0
	for _, item := range items {
		totalEngagement += item.Engagement.Total()
		snapshot.SentimentDistribution[item.Sentiment.Label]++
		snapshot.PlatformBreakdown[string(item.Platform)]++
	}

	snapshot.TotalPosts = len(items)
	snapshot.TotalEngagement = totalEngagement

	if snapshot.TotalPosts > 0 {
		snapshot.AvgEngagementPerPost = round2(float64(totalEngagement) / float64(snapshot.TotalPosts))
		for _, label := range models.SentimentLabels {
			count := snapshot.SentimentDistribution[label]
			snapshot.SentimentPercentage[label] = round1(float64(count) / float64(snapshot.TotalPosts) * 100)
		}
	}

	ranks := rankTopics(items)
	if topicLimit > 0 && len(ranks) > topicLimit {
		ranks = ranks[:topicLimit]
	}
	snapshot.TrendingTopics = ranks

	if previousItems != nil {
		previousEngagement := 0
		for _, item := range previousItems {
			previousEngagement += item.Engagement.Total()
		}
		snapshot.EngagementTrend = Trend(float64(totalEngagement), float64(previousEngagement))
	}

	return snapshot
}
