package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/config"
	"github.com/brandpulse/social-insights/internal/ingest"
	"github.com/brandpulse/social-insights/internal/models"
	"github.com/brandpulse/social-insights/internal/storage"
)

// Service re-runs the analysis pipeline for active campaigns on a fixed
// schedule so dashboards stay fresh without manual triggers.
type Service struct {
	config *config.Config
	repo   *storage.Repository
	ingest *ingest.Service
	cron   *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(cfg *config.Config, repo *storage.Repository, ingestService *ingest.Service) *Service {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logrus.Warnf("Unknown timezone %q, falling back to UTC", cfg.TimeZone)
		loc = time.UTC
	}
	return &Service{
		config: cfg,
		repo:   repo,
		ingest: ingestService,
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
	}
}

// Start begins the scheduled analysis runs.
func (s *Service) Start() error {
	var cronExpression string

	switch s.config.AnalysisSchedule {
	case "hourly":
		// Run at the top of every hour
		cronExpression = "0 0 * * * *"
	default:
		// Run daily at 6 AM, before analysts start their day
		cronExpression = "0 0 6 * * *"
	}

	_, err := s.cron.AddFunc(cronExpression, func() {
		logrus.Info("Starting scheduled analysis of active campaigns")
		if err := s.runActiveCampaigns(); err != nil {
			logrus.Errorf("Scheduled analysis failed: %v", err)
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule", s.config.AnalysisSchedule)
	return nil
}

// Stop stops the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}

// runActiveCampaigns triggers one analysis run per active campaign. Individual
// failures are logged and skipped; one broken campaign must not starve the
// rest of the schedule.
func (s *Service) runActiveCampaigns() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	campaigns, err := s.repo.ListCampaigns(ctx)
	if err != nil {
		return err
	}

	started := 0
	for _, campaign := range campaigns {
		if !campaign.Active {
			continue
		}
		run, err := s.ingest.StartRun(ctx, models.EntityCampaign, campaign.ID)
		if err != nil {
			logrus.Errorf("Failed to start scheduled run for campaign %s: %v", campaign.ID, err)
			continue
		}
		logrus.Infof("Started scheduled run %s for campaign %q", run.ID, campaign.Name)
		started++
	}

	logrus.Infof("Scheduled analysis triggered %d run(s) across %d campaign(s)", started, len(campaigns))
	return nil
}
