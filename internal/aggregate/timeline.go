package aggregate

import (
	"sort"

	"github.com/brandpulse/social-insights/internal/models"
)

// Timeline buckets items by the UTC calendar date of published_at. Days with
// no items are not synthesized; the output contains only observed dates,
// sorted ascending. Out-of-order input produces the same sorted output.
func Timeline(items []models.AnalyzedItem, prov Provenance) TimelineSnapshot {
	type accum struct {
		bucket TimelineBucket
		views  int
	}

	buckets := make(map[string]*accum)
	for _, item := range items {
		date := item.PublishedAt.UTC().Format("2006-01-02")
		a, ok := buckets[date]
		if !ok {
			a = &accum{bucket: TimelineBucket{
				Date:                 date,
				PlatformDistribution: make(map[string]int),
				TopicDistribution:    make(map[string]int),
			}}
			buckets[date] = a
		}

		a.bucket.TotalPosts++
		a.bucket.TotalLikes += item.Engagement.Likes
		a.bucket.TotalComments += item.Engagement.Comments
		a.bucket.TotalShares += item.Engagement.Shares
		a.views += item.Engagement.Views
		a.bucket.PlatformDistribution[string(item.Platform)]++
		for _, topic := range item.Topics {
			a.bucket.TopicDistribution[topic]++
		}

		switch item.Sentiment.Label {
		case models.SentimentPositive:
			a.bucket.Positive++
		case models.SentimentNegative:
			a.bucket.Negative++
		default:
			a.bucket.Neutral++
		}
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	timeline := make([]TimelineBucket, 0, len(dates))
	for _, date := range dates {
		a := buckets[date]
		engagement := a.bucket.TotalLikes + a.bucket.TotalComments + a.bucket.TotalShares
		a.bucket.EngagementRate = safeRate(engagement, a.views)
		timeline = append(timeline, a.bucket)
	}

	snapshot := TimelineSnapshot{
		Timeline:   timeline,
		Provenance: prov,
	}

	if len(timeline) >= 2 {
		last := timeline[len(timeline)-1]
		prev := timeline[len(timeline)-2]
		snapshot.EngagementTrend = Trend(
			float64(last.TotalLikes+last.TotalComments+last.TotalShares),
			float64(prev.TotalLikes+prev.TotalComments+prev.TotalShares),
		)
	}

	return snapshot
}
