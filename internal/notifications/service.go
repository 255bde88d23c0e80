// Package notifications delivers run-completion reports to analysts over a
// webhook and/or email. Both channels are optional; an unconfigured service
// is a no-op.
package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/brandpulse/social-insights/internal/config"
	"github.com/brandpulse/social-insights/internal/models"
)

// Service sends notifications via the configured channels.
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements Notifier
var _ Notifier = (*Service)(nil)

// webhookMessage is the JSON body posted to the report webhook.
type webhookMessage struct {
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	RunID    string         `json:"run_id"`
	Entity   string         `json:"entity"`
	Status   string         `json:"status"`
	Items    int            `json:"items"`
	Topics   []string       `json:"topics,omitempty"`
	Segments map[string]int `json:"sentiment,omitempty"`
}

// NewService creates a notification service.
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendRunReport sends the run summary to every configured channel. Channel
// failures are collected so one broken channel does not hide the other.
func (s *Service) SendRunReport(run *models.AnalysisRun) error {
	var errors []string

	if s.config.ReportWebhookURL != "" {
		if err := s.sendToWebhook(run); err != nil {
			logrus.Errorf("Failed to send webhook notification: %v", err)
			errors = append(errors, fmt.Sprintf("webhook: %v", err))
		} else {
			logrus.Info("Successfully sent run report to webhook")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(run); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("email: %v", err))
		} else {
			logrus.Info("Successfully sent run report via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToWebhook(run *models.AnalysisRun) error {
	message := &webhookMessage{
		Title:    fmt.Sprintf("Analysis completed: %s", run.EntityName),
		Text:     fmt.Sprintf("Analyzed %d posts for %s %q", run.TotalProcessed, run.EntityType, run.EntityName),
		RunID:    run.ID,
		Entity:   fmt.Sprintf("%s/%s", run.EntityType, run.EntityID),
		Status:   string(run.Status),
		Items:    run.TotalProcessed,
		Topics:   run.TopicsFound,
		Segments: run.SentimentDistribution,
	}

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.ReportWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to post webhook message: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) sendEmail(run *models.AnalysisRun) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", fmt.Sprintf("Social Insights: analysis for %s finished (%s)", run.EntityName, run.Status))
	m.SetBody("text/html", s.buildEmailBody(run))

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *Service) buildEmailBody(run *models.AnalysisRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Analysis run %s</h2>", run.ID)
	fmt.Fprintf(&b, "<p><b>%s:</b> %s</p>", run.EntityType, run.EntityName)
	fmt.Fprintf(&b, "<p><b>Status:</b> %s</p>", run.Status)
	fmt.Fprintf(&b, "<p><b>Posts analyzed:</b> %d</p>", run.TotalProcessed)
	if len(run.SentimentDistribution) > 0 {
		fmt.Fprintf(&b, "<p><b>Sentiment:</b> %d positive / %d negative / %d neutral</p>",
			run.SentimentDistribution[models.SentimentPositive],
			run.SentimentDistribution[models.SentimentNegative],
			run.SentimentDistribution[models.SentimentNeutral])
	}
	if len(run.TopicsFound) > 0 {
		fmt.Fprintf(&b, "<p><b>Topics:</b> %s</p>", strings.Join(run.TopicsFound, ", "))
	}
	if run.Error != "" {
		fmt.Fprintf(&b, "<p><b>Warnings:</b> %s</p>", run.Error)
	}
	return b.String()
}
