package notifications

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandpulse/social-insights/internal/config"
	"github.com/brandpulse/social-insights/internal/models"
)

func testRun() *models.AnalysisRun {
	return &models.AnalysisRun{
		ID:             "run-1",
		EntityType:     models.EntityBrand,
		EntityID:       "b1",
		EntityName:     "Acme",
		Status:         models.RunCompleted,
		TotalProcessed: 12,
		SentimentDistribution: map[string]int{
			models.SentimentPositive: 8,
			models.SentimentNegative: 1,
			models.SentimentNeutral:  3,
		},
		TopicsFound: []string{"sneakers", "running"},
	}
}

func TestSendRunReport_NoChannelsConfiguredIsNoop(t *testing.T) {
	svc := NewService(&config.Config{})

	assert.NoError(t, svc.SendRunReport(testRun()))
}

func TestSendRunReport_PostsToWebhook(t *testing.T) {
	var received webhookMessage
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer stub.Close()

	svc := NewService(&config.Config{ReportWebhookURL: stub.URL})

	require.NoError(t, svc.SendRunReport(testRun()))
	assert.Equal(t, "run-1", received.RunID)
	assert.Equal(t, "brand/b1", received.Entity)
	assert.Equal(t, 12, received.Items)
	assert.Equal(t, []string{"sneakers", "running"}, received.Topics)
}

func TestSendRunReport_WebhookErrorStatusFails(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer stub.Close()

	svc := NewService(&config.Config{ReportWebhookURL: stub.URL})

	err := svc.SendRunReport(testRun())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook")
}

func TestBuildEmailBody(t *testing.T) {
	svc := NewService(&config.Config{})

	body := svc.buildEmailBody(testRun())

	assert.Contains(t, body, "Acme")
	assert.Contains(t, body, "8 positive / 1 negative / 3 neutral")
	assert.Contains(t, body, "sneakers, running")
}
