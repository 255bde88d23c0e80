package notifications

import "github.com/brandpulse/social-insights/internal/models"

// Notifier delivers analysis-run completion reports.
type Notifier interface {
	SendRunReport(run *models.AnalysisRun) error
}
