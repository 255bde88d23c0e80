// Package ingest runs the classification ingestion path: it pulls classified
// records from the external classifier service, normalizes them into
// AnalyzedItems and stores them as an immutable run batch. This is the only
// concurrent part of the system; aggregation reads are stateless and need no
// coordination.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/config"
	"github.com/brandpulse/social-insights/internal/models"
	"github.com/brandpulse/social-insights/internal/normalize"
	"github.com/brandpulse/social-insights/internal/notifications"
	"github.com/brandpulse/social-insights/internal/resolver"
	"github.com/brandpulse/social-insights/internal/storage"
)

// Metrics holds ingestion counters for the /metrics endpoint.
type Metrics struct {
	TotalRuns          int            `json:"total_runs"`
	TotalItems         int            `json:"total_items"`
	SkippedRecords     int            `json:"skipped_records"`
	LastRun            time.Time      `json:"last_run"`
	LastRunDuration    string         `json:"last_run_duration"`
	PlatformMetrics    map[string]int `json:"platform_metrics"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	ErrorCount         int            `json:"error_count"`
}

// Service orchestrates analysis runs.
type Service struct {
	cfg      *config.Config
	repo     *storage.Repository
	res      *resolver.Resolver
	client   *ClassifierClient
	notifier notifications.Notifier
	metrics  *Metrics
	mu       sync.RWMutex
}

// NewService creates the ingestion service.
func NewService(cfg *config.Config, repo *storage.Repository, res *resolver.Resolver, client *ClassifierClient, notifier notifications.Notifier) *Service {
	return &Service{
		cfg:      cfg,
		repo:     repo,
		res:      res,
		client:   client,
		notifier: notifier,
		metrics: &Metrics{
			PlatformMetrics:    make(map[string]int),
			SentimentBreakdown: make(map[string]int),
		},
	}
}

// StartRun registers a new analysis run for the entity and processes it in
// the background. The returned run is already persisted in pending state, so
// callers can poll it immediately.
func (s *Service) StartRun(ctx context.Context, entityType models.EntityType, entityID string) (*models.AnalysisRun, error) {
	if !s.client.Enabled() {
		return nil, fmt.Errorf("analysis trigger unavailable: no classifier service configured")
	}

	entity, err := s.res.ResolveEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}

	platforms := entity.Platforms()
	if len(platforms) == 0 {
		platforms = models.AllPlatforms
	}

	run := &models.AnalysisRun{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entity.ID,
		EntityName: entity.Name,
		Platforms:  platforms,
		Status:     models.RunPending,
		StartedAt:  time.Now().UTC(),
	}
	if err := s.repo.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to register run: %w", err)
	}

	go func() {
		// Detached from the request context; the run outlives the trigger call
		runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := s.process(runCtx, run, entity); err != nil {
			logrus.Errorf("Analysis run %s failed: %v", run.ID, err)
		}
	}()

	return run, nil
}

// process executes one run: concurrent per-platform fetch, normalization,
// storage, bookkeeping, notification.
func (s *Service) process(ctx context.Context, run *models.AnalysisRun, entity resolver.Entity) error {
	start := time.Now()
	logrus.Infof("Starting analysis run %s for %s %q", run.ID, run.EntityType, run.EntityName)

	run.Status = models.RunRunning
	if err := s.repo.SaveRun(ctx, run); err != nil {
		return err
	}

	var wg sync.WaitGroup
	recordsChan := make(chan []models.PlatformRecord, len(run.Platforms))
	errorsChan := make(chan error, len(run.Platforms))

	for _, platform := range run.Platforms {
		wg.Add(1)
		go func(p models.Platform) {
			defer wg.Done()

			records, err := s.client.FetchClassified(ctx, p, entity.Keywords())
			if err != nil {
				logrus.Errorf("Error fetching %s records: %v", p, err)
				errorsChan <- err
				return
			}
			recordsChan <- records
		}(platform)
	}

	go func() {
		wg.Wait()
		close(recordsChan)
		close(errorsChan)
	}()

	var allRecords []models.PlatformRecord
	for records := range recordsChan {
		allRecords = append(allRecords, records...)
	}

	errorCount := 0
	for range errorsChan {
		errorCount++
	}

	logrus.Infof("Collected %d classified records for run %s", len(allRecords), run.ID)

	refs := entityRefs(entity)
	items, skipped := normalize.Batch(allRecords, run.ID, refs, time.Now().UTC())

	if err := s.repo.SaveItems(ctx, run.ID, items); err != nil {
		run.Status = models.RunFailed
		run.Error = err.Error()
		_ = s.repo.SaveRun(ctx, run)
		return fmt.Errorf("failed to store items: %w", err)
	}

	completed := time.Now().UTC()
	run.Status = models.RunCompleted
	run.Progress = 1.0
	run.TotalProcessed = len(items)
	run.SentimentDistribution = sentimentDistribution(items)
	run.TopicsFound = topicsFound(items)
	run.CompletedAt = &completed
	if errorCount > 0 {
		run.Error = fmt.Sprintf("%d platform fetches failed", errorCount)
	}
	if err := s.repo.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("failed to finalize run: %w", err)
	}

	s.updateMetrics(items, skipped, time.Since(start), errorCount)

	if err := s.notifier.SendRunReport(run); err != nil {
		logrus.Errorf("Failed to send run report: %v", err)
	}

	logrus.Infof("Analysis run %s completed in %v with %d items (%d records skipped)",
		run.ID, time.Since(start), len(items), skipped)
	return nil
}

func entityRefs(entity resolver.Entity) []models.EntityRef {
	switch entity.Type {
	case models.EntityBrand:
		return []models.EntityRef{{BrandName: entity.Name}}
	case models.EntityCampaign:
		refs := []models.EntityRef{{CampaignID: entity.ID}}
		if entity.Campaign.BrandName != "" {
			refs = append(refs, models.EntityRef{BrandName: entity.Campaign.BrandName})
		}
		return refs
	default:
		return []models.EntityRef{{ContentID: entity.ID}}
	}
}

func sentimentDistribution(items []models.AnalyzedItem) map[string]int {
	dist := map[string]int{
		models.SentimentPositive: 0,
		models.SentimentNegative: 0,
		models.SentimentNeutral:  0,
	}
	for _, item := range items {
		dist[item.Sentiment.Label]++
	}
	return dist
}

func topicsFound(items []models.AnalyzedItem) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, item := range items {
		for _, topic := range item.Topics {
			if !seen[topic] {
				seen[topic] = true
				topics = append(topics, topic)
			}
		}
	}
	sort.Strings(topics)
	return topics
}

func (s *Service) updateMetrics(items []models.AnalyzedItem, skipped int, duration time.Duration, errorCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalRuns++
	s.metrics.TotalItems += len(items)
	s.metrics.SkippedRecords += skipped
	s.metrics.LastRun = time.Now().UTC()
	s.metrics.LastRunDuration = duration.String()
	s.metrics.ErrorCount += errorCount

	for _, item := range items {
		s.metrics.PlatformMetrics[string(item.Platform)]++
		s.metrics.SentimentBreakdown[item.Sentiment.Label]++
	}
}

// GetMetrics returns current ingestion metrics as JSON.
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
