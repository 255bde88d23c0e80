package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/models"
)

// ClassifierClient talks to the external scrape-and-classify service. The
// service owns scraping resilience and the LLM classification; this client
// only fetches its finished records.
type ClassifierClient struct {
	client  *resty.Client
	baseURL string
}

type classifiedResponse struct {
	Records []models.PlatformRecord `json:"records"`
	Total   int                     `json:"total"`
}

// NewClassifierClient creates a client for the classifier service.
func NewClassifierClient(baseURL string, timeout time.Duration) *ClassifierClient {
	return &ClassifierClient{
		client:  resty.New().SetTimeout(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Enabled reports whether a classifier endpoint is configured.
func (c *ClassifierClient) Enabled() bool {
	return c.baseURL != ""
}

// FetchClassified retrieves the classified records for one platform and
// keyword set.
func (c *ClassifierClient) FetchClassified(ctx context.Context, platform models.Platform, keywords []string) ([]models.PlatformRecord, error) {
	if !c.Enabled() {
		logrus.Debug("Classifier client disabled - missing CLASSIFIER_API_URL")
		return nil, nil
	}

	var result classifiedResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("platform", string(platform)).
		SetQueryParam("keywords", strings.Join(keywords, ",")).
		SetResult(&result).
		Get(c.baseURL + "/classified-posts")

	if err != nil {
		return nil, fmt.Errorf("classifier request for %s failed: %w", platform, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("classifier returned status %d for %s: %s", resp.StatusCode(), platform, string(resp.Body()))
	}

	logrus.Infof("Fetched %d classified records for %s", len(result.Records), platform)
	return result.Records, nil
}
