package aggregate

import (
	"sort"
	"strings"

	"github.com/brandpulse/social-insights/internal/models"
)

const topLocationLimit = 10

// Demographics breaks the audience down by age group, gender and location.
// Each dimension's percentages use that dimension's own denominator (the
// count of items carrying a value for it), so posts without demographic
// inference never distort a breakdown.
func Demographics(items []models.AnalyzedItem, prov Provenance) DemographicsSnapshot {
	ages := newDimension()
	genders := newDimension()
	locations := newDimension()
	withDemographics := 0

	for _, item := range items {
		if item.Demographics == nil {
			continue
		}
		withDemographics++
		ages.add(item.Demographics.AgeGroup)
		genders.add(item.Demographics.Gender)
		locations.add(item.Demographics.Location)
	}

	snapshot := DemographicsSnapshot{
		TotalAnalyzed: withDemographics,
		AgeGroups:     ages.stats(0),
		Genders:       genders.stats(0),
		TopLocations:  locations.stats(topLocationLimit),
		Provenance:    prov,
	}
	return snapshot
}

// dimension accumulates one demographic axis. Values differing only in case
// are folded together; the first observed casing is displayed.
type dimension struct {
	counts  map[string]int
	display map[string]string
	total   int
}

func newDimension() *dimension {
	return &dimension{
		counts:  make(map[string]int),
		display: make(map[string]string),
	}
}

func (d *dimension) add(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	key := strings.ToLower(value)
	if _, ok := d.display[key]; !ok {
		d.display[key] = value
	}
	d.counts[key]++
	d.total++
}

func (d *dimension) stats(limit int) []DemographicStat {
	stats := make([]DemographicStat, 0, len(d.counts))
	for key, count := range d.counts {
		stats = append(stats, DemographicStat{
			Value:      d.display[key],
			Count:      count,
			Percentage: round2(float64(count) / float64(d.total) * 100),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Value < stats[j].Value
	})
	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}
