package models

import "time"

// EntityType distinguishes the three reporting scopes.
type EntityType string

const (
	EntityBrand    EntityType = "brand"
	EntityCampaign EntityType = "campaign"
	EntityContent  EntityType = "content"
)

// ParseEntityType accepts both singular and the plural forms used in URLs.
func ParseEntityType(s string) (EntityType, bool) {
	switch s {
	case "brand", "brands":
		return EntityBrand, true
	case "campaign", "campaigns":
		return EntityCampaign, true
	case "content", "contents":
		return EntityContent, true
	}
	return "", false
}

// Brand is a tracked brand. Deleting a brand does not delete the analyzed
// items that reference it; ownership is soft.
type Brand struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
	Platforms   []Platform `json:"platforms,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Campaign scopes items either by its tracked post URLs or by tagged
// association, whichever matches.
type Campaign struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	BrandName string     `json:"brand_name,omitempty"`
	Keywords  []string   `json:"keywords,omitempty"`
	Platforms []Platform `json:"platforms,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	PostURLs  []string   `json:"post_urls,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Content tracks a single post or thread identified by its URL.
type Content struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Platform  Platform  `json:"platform,omitempty"`
	PostURL   string    `json:"post_url"`
	Keywords  []string  `json:"keywords,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// AnalysisRun records one ingestion pass for an entity. Items produced by the
// run are stored under its id, keyed by (post_url, analysis_run_id).
type AnalysisRun struct {
	ID                    string         `json:"id"`
	EntityType            EntityType     `json:"entity_type"`
	EntityID              string         `json:"entity_id"`
	EntityName            string         `json:"entity_name,omitempty"`
	Platforms             []Platform     `json:"platforms,omitempty"`
	Status                RunStatus      `json:"status"`
	Progress              float64        `json:"progress"`
	TotalProcessed        int            `json:"total_processed"`
	SentimentDistribution map[string]int `json:"sentiment_distribution,omitempty"`
	TopicsFound           []string       `json:"topics_found,omitempty"`
	Error                 string         `json:"error,omitempty"`
	StartedAt             time.Time      `json:"started_at"`
	CompletedAt           *time.Time     `json:"completed_at,omitempty"`
}
