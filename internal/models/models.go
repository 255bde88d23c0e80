package models

import (
	"strings"
	"time"
)

// Platform identifies the social network a post or comment came from.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformYouTube   Platform = "youtube"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
	PlatformReddit    Platform = "reddit"
)

// AllPlatforms lists every supported platform.
var AllPlatforms = []Platform{
	PlatformTikTok,
	PlatformInstagram,
	PlatformTwitter,
	PlatformYouTube,
	PlatformLinkedIn,
	PlatformFacebook,
	PlatformReddit,
}

// ParsePlatform parses a platform name case-insensitively.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllPlatforms {
		if p == known {
			return known, true
		}
	}
	return "", false
}

// Sentiment labels as stored on analyzed items.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// SentimentLabels in canonical order.
var SentimentLabels = []string{SentimentPositive, SentimentNegative, SentimentNeutral}

// ParseSentimentLabel normalizes a classifier label ("positive", "POSITIVE")
// to the canonical form.
func ParseSentimentLabel(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return SentimentPositive, true
	case "negative":
		return SentimentNegative, true
	case "neutral":
		return SentimentNeutral, true
	}
	return "", false
}

// EmotionNames is the fixed set of emotions the classifier reports.
var EmotionNames = []string{
	"joy", "sadness", "anger", "fear", "surprise",
	"disgust", "anticipation", "trust", "neutral",
}

// KnownEmotion reports whether name is one of the nine tracked emotions.
func KnownEmotion(name string) bool {
	for _, e := range EmotionNames {
		if e == name {
			return true
		}
	}
	return false
}

// Sentiment is one classification result: a label plus a continuous score
// in [-1, 1].
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Engagement holds per-post engagement counters. Missing values default to 0
// so downstream arithmetic never sees null.
type Engagement struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
	Views    int `json:"views"`
}

// Total is likes + comments + shares. Views are excluded from engagement and
// only contribute to reach.
func (e Engagement) Total() int {
	return e.Likes + e.Comments + e.Shares
}

// Demographics is optional inferred author metadata.
type Demographics struct {
	AgeGroup string `json:"age_group,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Location string `json:"location,omitempty"`
}

// EntityRef ties an analyzed item to the entities that track it. An item may
// carry zero or more refs.
type EntityRef struct {
	BrandName  string `json:"brand_name,omitempty"`
	CampaignID string `json:"campaign_id,omitempty"`
	ContentID  string `json:"content_id,omitempty"`
}

// AnalyzedItem is the canonical, immutable record of one classified post or
// comment. Re-analysis writes a new item keyed by (post_url, analysis_run_id)
// rather than mutating an existing one, so timeline history stays intact.
type AnalyzedItem struct {
	ID              string             `json:"id"`
	AnalysisRunID   string             `json:"analysis_run_id"`
	EntityRefs      []EntityRef        `json:"entity_refs,omitempty"`
	Platform        Platform           `json:"platform"`
	PostURL         string             `json:"post_url"`
	PublishedAt     time.Time          `json:"published_at"`
	AnalyzedAt      time.Time          `json:"analyzed_at"`
	Sentiment       Sentiment          `json:"sentiment"`
	Topics          []string           `json:"topics,omitempty"`
	Emotions        map[string]float64 `json:"emotions,omitempty"`
	Engagement      Engagement         `json:"engagement"`
	Demographics    *Demographics      `json:"demographics,omitempty"`
	KeywordsMatched []string           `json:"keywords_matched,omitempty"`
}

// HasBrandRef reports whether the item is tagged to the given brand name.
// Brand names match case-sensitively against the canonical stored name.
func (a AnalyzedItem) HasBrandRef(brandName string) bool {
	for _, ref := range a.EntityRefs {
		if ref.BrandName == brandName {
			return true
		}
	}
	return false
}

// HasCampaignRef reports whether the item is tagged to the given campaign id.
func (a AnalyzedItem) HasCampaignRef(campaignID string) bool {
	for _, ref := range a.EntityRefs {
		if ref.CampaignID == campaignID {
			return true
		}
	}
	return false
}

// PlatformRecord is a raw classified record as delivered by the ingestion
// collaborator. Field shapes vary per platform export, so everything beyond
// the required minimum is optional.
type PlatformRecord struct {
	ID          string `json:"id,omitempty"`
	PostURL     string `json:"post_url,omitempty"`
	WebVideoURL string `json:"webVideoUrl,omitempty"` // TikTok exports
	Permalink   string `json:"permalink,omitempty"`   // Reddit/Instagram exports
	Platform    string `json:"platform,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`

	Sentiment *Sentiment `json:"sentiment,omitempty"`

	Topics          []string           `json:"topics,omitempty"`
	Emotions        map[string]float64 `json:"emotions,omitempty"`
	Engagement      *Engagement        `json:"engagement,omitempty"`
	Demographics    *Demographics      `json:"demographics,omitempty"`
	KeywordsMatched []string           `json:"keywords_matched,omitempty"`
}

// FilterSpec narrows an item set. An empty or unset field means "no
// restriction on that dimension", never "match nothing". Dimensions are ANDed
// together; values within one dimension are ORed.
type FilterSpec struct {
	DateStart *time.Time `json:"date_start,omitempty"`
	DateEnd   *time.Time `json:"date_end,omitempty"`
	Platforms []string   `json:"platforms,omitempty"`
	PostURLs  []string   `json:"post_urls,omitempty"`
	Keywords  []string   `json:"keywords,omitempty"`
}

// IsZero reports whether no dimension is restricted.
func (f FilterSpec) IsZero() bool {
	return f.DateStart == nil && f.DateEnd == nil &&
		len(f.Platforms) == 0 && len(f.PostURLs) == 0 && len(f.Keywords) == 0
}

// Applied converts the filter into the provenance echo attached to every
// aggregate snapshot.
func (f FilterSpec) Applied() FiltersApplied {
	applied := FiltersApplied{
		Platforms: f.Platforms,
		PostURLs:  f.PostURLs,
		Keywords:  f.Keywords,
	}
	if f.DateStart != nil {
		applied.StartDate = f.DateStart.UTC().Format("2006-01-02")
	}
	if f.DateEnd != nil {
		applied.EndDate = f.DateEnd.UTC().Format("2006-01-02")
	}
	return applied
}

// FiltersApplied records which filters produced a snapshot, so the dashboard
// can show provenance.
type FiltersApplied struct {
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	PostURLs  []string `json:"post_urls,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
}
