package aggregate

import (
	"sort"

	"github.com/brandpulse/social-insights/internal/models"
)

// Emotions computes the per-emotion prevalence table.
//
// total_analyzed counts only items that report at least one emotion weight.
// For each of the nine emotions, count is the number of reporting items where
// the emotion's weight is positive, percentage is that count over
// total_analyzed, and avg_intensity is the mean of the emotion's share of
// each reporting item's total weight, expressed 0-100. The nine values are
// each independently meaningful; they do not sum to 100 because emotions
// co-occur within one item.
func Emotions(items []models.AnalyzedItem, prov Provenance) EmotionsSnapshot {
	counts := make(map[string]int)
	intensitySums := make(map[string]float64)
	totalAnalyzed := 0

	for _, item := range items {
		if len(item.Emotions) == 0 {
			continue
		}
		itemTotal := 0.0
		for _, weight := range item.Emotions {
			itemTotal += weight
		}
		if itemTotal <= 0 {
			continue
		}
		totalAnalyzed++
		for name, weight := range item.Emotions {
			if weight <= 0 {
				continue
			}
			counts[name]++
			intensitySums[name] += weight / itemTotal * 100
		}
	}

	stats := make([]EmotionStat, 0, len(counts))
	for name, count := range counts {
		stat := EmotionStat{
			Emotion:      name,
			Count:        count,
			Percentage:   round2(float64(count) / float64(totalAnalyzed) * 100),
			AvgIntensity: round2(intensitySums[name] / float64(count)),
		}
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Emotion < stats[j].Emotion
	})

	snapshot := EmotionsSnapshot{
		TotalAnalyzed: totalAnalyzed,
		Emotions:      stats,
		Provenance:    prov,
	}
	if len(stats) > 0 {
		snapshot.DominantEmotion = stats[0].Emotion
	}
	if snapshot.Emotions == nil {
		snapshot.Emotions = []EmotionStat{}
	}
	return snapshot
}
