// Package aggregate turns a filtered set of analyzed items into the derived
// views the dashboard renders. Every aggregator is a pure function over its
// input slice: no I/O, no shared state, bit-identical output for identical
// input. Zero-item inputs produce well-formed zero-valued snapshots, never
// errors, so the dashboard does not have to distinguish "no data yet" from
// failure.
package aggregate

import (
	"math"
	"time"

	"github.com/brandpulse/social-insights/internal/models"
)

// Provenance is attached to every snapshot so the dashboard can show when a
// view was computed and which filters produced it.
type Provenance struct {
	ComputedAt     time.Time             `json:"computed_at"`
	FiltersApplied models.FiltersApplied `json:"filters_applied"`
}

// NewProvenance builds the provenance block for a snapshot.
func NewProvenance(computedAt time.Time, spec models.FilterSpec) Provenance {
	return Provenance{
		ComputedAt:     computedAt.UTC(),
		FiltersApplied: spec.Applied(),
	}
}

// TopicRank is one entry of a ranked topic list.
type TopicRank struct {
	Topic          string  `json:"topic"`
	Count          int     `json:"count"`
	Engagement     int     `json:"engagement"`
	Positive       int     `json:"positive"`
	Negative       int     `json:"negative"`
	Neutral        int     `json:"neutral"`
	SentimentScore float64 `json:"sentiment_score"`
}

// SummarySnapshot is the headline view for an entity.
type SummarySnapshot struct {
	TotalPosts            int                `json:"total_posts"`
	TotalEngagement       int                `json:"total_engagement"`
	AvgEngagementPerPost  float64            `json:"avg_engagement_per_post"`
	SentimentDistribution map[string]int     `json:"sentiment_distribution"`
	SentimentPercentage   map[string]float64 `json:"sentiment_percentage"`
	PlatformBreakdown     map[string]int     `json:"platform_breakdown"`
	TrendingTopics        []TopicRank        `json:"trending_topics"`
	// EngagementTrend is the period-over-period engagement change in percent.
	// null means the previous window had no engagement to compare against.
	EngagementTrend *float64 `json:"engagement_trend"`
	Provenance
}

// TopicsSnapshot is the full ranked topic list.
type TopicsSnapshot struct {
	TotalAnalyzed  int         `json:"total_analyzed"`
	TrendingTopics []TopicRank `json:"trending_topics"`
	Provenance
}

// TimelineBucket is one calendar day (UTC) of activity. Only non-empty days
// are emitted; the dashboard is responsible for gap-filling.
type TimelineBucket struct {
	Date                 string         `json:"date"`
	Positive             int            `json:"Positive"`
	Negative             int            `json:"Negative"`
	Neutral              int            `json:"Neutral"`
	TotalPosts           int            `json:"total_posts"`
	TotalLikes           int            `json:"total_likes"`
	TotalComments        int            `json:"total_comments"`
	TotalShares          int            `json:"total_shares"`
	EngagementRate       float64        `json:"engagement_rate"`
	PlatformDistribution map[string]int `json:"platform_distribution"`
	TopicDistribution    map[string]int `json:"topic_distribution"`
}

// TimelineSnapshot is the per-day sentiment and engagement series, sorted
// ascending by date. The ordering is a correctness contract.
type TimelineSnapshot struct {
	Timeline []TimelineBucket `json:"timeline"`
	// EngagementTrend compares the two most recent buckets; null when there
	// is nothing to compare against.
	EngagementTrend *float64 `json:"engagement_trend"`
	Provenance
}

// EmotionStat is the prevalence of one emotion. Percentages are independently
// meaningful per emotion (multiple emotions co-occur in one item); they are
// not a distribution that sums to 100.
type EmotionStat struct {
	Emotion      string  `json:"emotion"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
	AvgIntensity float64 `json:"avg_intensity"`
}

// EmotionsSnapshot is the emotion prevalence table.
type EmotionsSnapshot struct {
	TotalAnalyzed   int           `json:"total_analyzed"`
	Emotions        []EmotionStat `json:"emotions"`
	DominantEmotion string        `json:"dominant_emotion,omitempty"`
	Provenance
}

// DemographicStat is one group within a demographic dimension.
type DemographicStat struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DemographicsSnapshot breaks the audience down by age, gender and location.
// Each dimension uses its own denominator: only items that actually carry a
// value for that dimension count, so items lacking demographic inference do
// not distort the percentages.
type DemographicsSnapshot struct {
	TotalAnalyzed int               `json:"total_analyzed"`
	AgeGroups     []DemographicStat `json:"age_groups"`
	Genders       []DemographicStat `json:"genders"`
	TopLocations  []DemographicStat `json:"top_locations"`
	Provenance
}

// PlatformPerformance is one platform's slice of the performance view.
type PlatformPerformance struct {
	Posts                int     `json:"posts"`
	Likes                int     `json:"likes"`
	Comments             int     `json:"comments"`
	Shares               int     `json:"shares"`
	Views                int     `json:"views"`
	Engagement           int     `json:"engagement"`
	EngagementRate       float64 `json:"engagement_rate"`
	AvgEngagementPerPost float64 `json:"avg_engagement_per_post"`
}

// PerformanceSnapshot is the engagement/reach view for the performance tab.
type PerformanceSnapshot struct {
	TotalPosts           int                            `json:"total_posts"`
	TotalLikes           int                            `json:"total_likes"`
	TotalComments        int                            `json:"total_comments"`
	TotalShares          int                            `json:"total_shares"`
	TotalViews           int                            `json:"total_views"`
	TotalEngagement      int                            `json:"total_engagement"`
	AvgLikesPerPost      float64                        `json:"avg_likes_per_post"`
	AvgCommentsPerPost   float64                        `json:"avg_comments_per_post"`
	AvgSharesPerPost     float64                        `json:"avg_shares_per_post"`
	AvgEngagementPerPost float64                        `json:"avg_engagement_per_post"`
	EngagementRate       float64                        `json:"engagement_rate"`
	EstimatedReach       int                            `json:"estimated_reach"`
	PlatformBreakdown    map[string]PlatformPerformance `json:"platform_breakdown"`
	Provenance
}

// HourStat is engagement at one hour of day (0-23, UTC).
type HourStat struct {
	Hour          int     `json:"hour"`
	Posts         int     `json:"posts"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// DayStat is activity on one day of week.
type DayStat struct {
	Day           string  `json:"day"`
	Posts         int     `json:"posts"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// EngagementPatternsSnapshot reports when an entity's audience is active.
type EngagementPatternsSnapshot struct {
	TotalPosts        int        `json:"total_posts"`
	PeakHours         []HourStat `json:"peak_hours"`
	ActiveDays        []DayStat  `json:"active_days"`
	AvgEngagementRate float64    `json:"avg_engagement_rate"`
	Provenance
}

// Benchmarks are the industry reference values competitive analysis compares
// against.
type Benchmarks struct {
	AvgEngagementRate       float64 `json:"avg_engagement_rate"`
	AvgSentimentScore       float64 `json:"avg_sentiment_score"`
	AvgPostsPerMonth        float64 `json:"avg_posts_per_month"`
	TopPerformersEngagement float64 `json:"top_performers_engagement"`
}

// BenchmarkInsight compares one brand metric against its benchmark.
type BenchmarkInsight struct {
	Metric          string  `json:"metric"`
	BrandValue      float64 `json:"brand_value"`
	IndustryAverage float64 `json:"industry_average"`
	Difference      float64 `json:"difference"`
	Performance     string  `json:"performance"`
}

// CompetitiveBrandMetrics summarizes the brand side of a benchmark
// comparison.
type CompetitiveBrandMetrics struct {
	TotalPosts           int            `json:"total_posts"`
	TotalEngagement      int            `json:"total_engagement"`
	AvgEngagementPerPost float64        `json:"avg_engagement_per_post"`
	EngagementRate       float64        `json:"engagement_rate"`
	SentimentScore       float64        `json:"sentiment_score"`
	SentimentBreakdown   map[string]int `json:"sentiment_breakdown"`
}

// CompetitiveSnapshot positions a brand against industry benchmarks.
type CompetitiveSnapshot struct {
	CompetitivePosition string                  `json:"competitive_position"`
	BrandMetrics        CompetitiveBrandMetrics `json:"brand_metrics"`
	IndustryBenchmarks  Benchmarks              `json:"industry_benchmarks"`
	Insights            []BenchmarkInsight      `json:"insights"`
	Recommendations     []string                `json:"recommendations"`
	Provenance
}

// round1 and round2 fix percentage precision so snapshots compare
// bit-identically across runs.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// safeRate guards the engagement-rate division: engagement / max(1, views)
// expressed in percent. Never panics or returns NaN regardless of input.
func safeRate(engagement, views int) float64 {
	denom := views
	if denom < 1 {
		denom = 1
	}
	return round2(float64(engagement) / float64(denom) * 100)
}
