package aggregate

import (
	"github.com/brandpulse/social-insights/internal/models"
)

// Competitive positions a brand against the configured industry benchmarks.
// Brand-only: campaigns and contents have no meaningful industry baseline.
func Competitive(items []models.AnalyzedItem, bench Benchmarks, reachMultiplier int, prov Provenance) CompetitiveSnapshot {
	totalEngagement := 0
	sentimentCounts := map[string]int{
		models.SentimentPositive: 0,
		models.SentimentNegative: 0,
		models.SentimentNeutral:  0,
	}
	totalViews := 0

	for _, item := range items {
		totalEngagement += item.Engagement.Total()
		totalViews += item.Engagement.Views
		sentimentCounts[item.Sentiment.Label]++
	}

	totalPosts := len(items)

	avgEngagementPerPost := 0.0
	if totalPosts > 0 {
		avgEngagementPerPost = round2(float64(totalEngagement) / float64(totalPosts))
	}

	estimatedReach := totalViews
	if estimatedReach == 0 {
		estimatedReach = totalEngagement * reachMultiplier
	}
	engagementRate := safeRate(totalEngagement, estimatedReach)

	sentimentScore := 0.0
	if totalPosts > 0 {
		sentimentScore = round3(float64(sentimentCounts[models.SentimentPositive]-sentimentCounts[models.SentimentNegative]) / float64(totalPosts))
	}

	position := "average"
	switch {
	case engagementRate > bench.TopPerformersEngagement:
		position = "leader"
	case engagementRate > bench.AvgEngagementRate:
		position = "above_average"
	case engagementRate < bench.AvgEngagementRate*0.7:
		position = "below_average"
	}

	insights := []BenchmarkInsight{
		{
			Metric:          "engagement_rate",
			BrandValue:      engagementRate,
			IndustryAverage: bench.AvgEngagementRate,
			Difference:      round2(engagementRate - bench.AvgEngagementRate),
			Performance:     aboveBelow(engagementRate - bench.AvgEngagementRate),
		},
		{
			Metric:          "sentiment_score",
			BrandValue:      sentimentScore,
			IndustryAverage: bench.AvgSentimentScore,
			Difference:      round3(sentimentScore - bench.AvgSentimentScore),
			Performance:     aboveBelow(sentimentScore - bench.AvgSentimentScore),
		},
	}

	recommendations := []string{}
	if float64(totalPosts) < bench.AvgPostsPerMonth {
		recommendations = append(recommendations, "Increase posting frequency")
	}
	if engagementRate < bench.AvgEngagementRate {
		recommendations = append(recommendations, "Focus on engagement optimization")
	}
	if sentimentScore < bench.AvgSentimentScore {
		recommendations = append(recommendations, "Improve sentiment through better content")
	}

	return CompetitiveSnapshot{
		CompetitivePosition: position,
		BrandMetrics: CompetitiveBrandMetrics{
			TotalPosts:           totalPosts,
			TotalEngagement:      totalEngagement,
			AvgEngagementPerPost: avgEngagementPerPost,
			EngagementRate:       engagementRate,
			SentimentScore:       sentimentScore,
			SentimentBreakdown:   sentimentCounts,
		},
		IndustryBenchmarks: bench,
		Insights:           insights,
		Recommendations:    recommendations,
		Provenance:         prov,
	}
}

func aboveBelow(diff float64) string {
	switch {
	case diff > 0:
		return "above_average"
	case diff < 0:
		return "below_average"
	}
	return "at_average"
}
