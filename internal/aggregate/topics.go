package aggregate

import (
	"sort"
	"strings"

	"github.com/brandpulse/social-insights/internal/models"
)

// rankTopics groups items by topic and orders them by occurrence count
// descending, then by total engagement of the items carrying the topic
// descending, then lexicographically by topic string. The tie-break chain is
// deterministic so snapshots compare stably.
//
// Topic labels that differ only in case are folded together; the first
// observed casing is kept for display.
func rankTopics(items []models.AnalyzedItem) []TopicRank {
	type bucket struct {
		display    string
		count      int
		engagement int
		positive   int
		negative   int
		neutral    int
	}

	buckets := make(map[string]*bucket)
	for _, item := range items {
		engagement := item.Engagement.Total()
		for _, topic := range item.Topics {
			key := strings.ToLower(topic)
			b, ok := buckets[key]
			if !ok {
				b = &bucket{display: topic}
				buckets[key] = b
			}
			b.count++
			b.engagement += engagement
			switch item.Sentiment.Label {
			case models.SentimentPositive:
				b.positive++
			case models.SentimentNegative:
				b.negative++
			default:
				b.neutral++
			}
		}
	}

	ranks := make([]TopicRank, 0, len(buckets))
	for _, b := range buckets {
		score := 0.0
		if total := b.positive + b.negative + b.neutral; total > 0 {
			score = round2(float64(b.positive-b.negative) / float64(total))
		}
		ranks = append(ranks, TopicRank{
			Topic:          b.display,
			Count:          b.count,
			Engagement:     b.engagement,
			Positive:       b.positive,
			Negative:       b.negative,
			Neutral:        b.neutral,
			SentimentScore: score,
		})
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Count != ranks[j].Count {
			return ranks[i].Count > ranks[j].Count
		}
		if ranks[i].Engagement != ranks[j].Engagement {
			return ranks[i].Engagement > ranks[j].Engagement
		}
		return ranks[i].Topic < ranks[j].Topic
	})

	return ranks
}

// TrendingTopics produces the ranked topic list view, truncated to limit.
func TrendingTopics(items []models.AnalyzedItem, limit int, prov Provenance) TopicsSnapshot {
	ranks := rankTopics(items)
	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return TopicsSnapshot{
		TotalAnalyzed:  len(items),
		TrendingTopics: ranks,
		Provenance:     prov,
	}
}
