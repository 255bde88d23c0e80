package aggregate

import (
	"sort"
	"time"

	"github.com/brandpulse/social-insights/internal/models"
)

const peakSlots = 3

// Performance computes totals, rates and reach for the performance tab.
//
// engagement_rate = total_engagement / max(1, total_views) * 100, so a zero
// view count can never divide by zero. estimated_reach is the observed view
// count when any views were reported, otherwise total_engagement *
// reachMultiplier.
func Performance(items []models.AnalyzedItem, reachMultiplier int, prov Provenance) PerformanceSnapshot {
	snapshot := PerformanceSnapshot{
		PlatformBreakdown: make(map[string]PlatformPerformance),
		Provenance:        prov,
	}

	for _, item := range items {
		snapshot.TotalLikes += item.Engagement.Likes
		snapshot.TotalComments += item.Engagement.Comments
		snapshot.TotalShares += item.Engagement.Shares
		snapshot.TotalViews += item.Engagement.Views

		p := snapshot.PlatformBreakdown[string(item.Platform)]
		p.Posts++
		p.Likes += item.Engagement.Likes
		p.Comments += item.Engagement.Comments
		p.Shares += item.Engagement.Shares
		p.Views += item.Engagement.Views
		p.Engagement += item.Engagement.Total()
		snapshot.PlatformBreakdown[string(item.Platform)] = p
	}

	snapshot.TotalPosts = len(items)
	snapshot.TotalEngagement = snapshot.TotalLikes + snapshot.TotalComments + snapshot.TotalShares
	snapshot.EngagementRate = safeRate(snapshot.TotalEngagement, snapshot.TotalViews)

	if snapshot.TotalViews > 0 {
		snapshot.EstimatedReach = snapshot.TotalViews
	} else {
		snapshot.EstimatedReach = snapshot.TotalEngagement * reachMultiplier
	}

	if snapshot.TotalPosts > 0 {
		posts := float64(snapshot.TotalPosts)
		snapshot.AvgLikesPerPost = round2(float64(snapshot.TotalLikes) / posts)
		snapshot.AvgCommentsPerPost = round2(float64(snapshot.TotalComments) / posts)
		snapshot.AvgSharesPerPost = round2(float64(snapshot.TotalShares) / posts)
		snapshot.AvgEngagementPerPost = round2(float64(snapshot.TotalEngagement) / posts)
	}

	for name, p := range snapshot.PlatformBreakdown {
		p.EngagementRate = safeRate(p.Engagement, p.Views)
		if p.Posts > 0 {
			p.AvgEngagementPerPost = round2(float64(p.Engagement) / float64(p.Posts))
		}
		snapshot.PlatformBreakdown[name] = p
	}

	return snapshot
}

// EngagementPatterns reports when the audience engages: the hours of day with
// the highest mean engagement (ties broken by the earlier hour) and the days
// of week with the most posts (ties broken by weekday order).
func EngagementPatterns(items []models.AnalyzedItem, prov Provenance) EngagementPatternsSnapshot {
	var hourPosts, hourEngagement [24]int
	dayPosts := make(map[time.Weekday]int)
	dayEngagement := make(map[time.Weekday]int)
	totalEngagement := 0
	totalViews := 0

	for _, item := range items {
		ts := item.PublishedAt.UTC()
		engagement := item.Engagement.Total()

		hourPosts[ts.Hour()]++
		hourEngagement[ts.Hour()] += engagement
		dayPosts[ts.Weekday()]++
		dayEngagement[ts.Weekday()] += engagement
		totalEngagement += engagement
		totalViews += item.Engagement.Views
	}

	var hours []HourStat
	for hour := 0; hour < 24; hour++ {
		if hourPosts[hour] == 0 {
			continue
		}
		hours = append(hours, HourStat{
			Hour:          hour,
			Posts:         hourPosts[hour],
			AvgEngagement: round2(float64(hourEngagement[hour]) / float64(hourPosts[hour])),
		})
	}
	sort.SliceStable(hours, func(i, j int) bool {
		if hours[i].AvgEngagement != hours[j].AvgEngagement {
			return hours[i].AvgEngagement > hours[j].AvgEngagement
		}
		return hours[i].Hour < hours[j].Hour
	})
	if len(hours) > peakSlots {
		hours = hours[:peakSlots]
	}

	var days []DayStat
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if dayPosts[wd] == 0 {
			continue
		}
		days = append(days, DayStat{
			Day:           wd.String(),
			Posts:         dayPosts[wd],
			AvgEngagement: round2(float64(dayEngagement[wd]) / float64(dayPosts[wd])),
		})
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Posts > days[j].Posts
	})
	if len(days) > peakSlots {
		days = days[:peakSlots]
	}

	snapshot := EngagementPatternsSnapshot{
		TotalPosts:        len(items),
		PeakHours:         hours,
		ActiveDays:        days,
		AvgEngagementRate: safeRate(totalEngagement, totalViews),
		Provenance:        prov,
	}
	if snapshot.PeakHours == nil {
		snapshot.PeakHours = []HourStat{}
	}
	if snapshot.ActiveDays == nil {
		snapshot.ActiveDays = []DayStat{}
	}
	return snapshot
}
