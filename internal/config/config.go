package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application. The aggregation core
// never reads the environment itself; everything flows in through this struct.
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Storage configuration
	StorageBackend   string // "azure", "minio" or "memory"
	StorageAccount   string
	StorageContainer string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioBucket      string
	MinioUseSSL      bool

	// Classifier service (external collaborator that scrapes and classifies)
	ClassifierAPIURL  string
	ClassifierTimeout int // seconds

	// Aggregation tuning
	ReachMultiplier   int // estimated reach = engagement * multiplier when views are absent
	TrendingLimit     int
	SummaryTopicLimit int

	// Industry benchmarks for competitive analysis
	BenchmarkEngagementRate float64
	BenchmarkSentimentScore float64
	BenchmarkPostsPerMonth  float64
	BenchmarkTopEngagement  float64

	// Schedule configuration
	AnalysisSchedule string // "daily" or "hourly"
	TimeZone         string

	// CORS configuration for the dashboard
	CORSOrigins []string

	// Notification configuration
	ReportWebhookURL  string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		StorageBackend:   getEnv("STORAGE_BACKEND", "azure"),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "insights"),
		MinioEndpoint:    getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:   getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:   getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:      getEnv("MINIO_BUCKET", "insights"),
		MinioUseSSL:      getBoolEnv("MINIO_USE_SSL", false),

		ClassifierAPIURL:  getEnv("CLASSIFIER_API_URL", ""),
		ClassifierTimeout: getIntEnv("CLASSIFIER_TIMEOUT_SECONDS", 120),

		ReachMultiplier:   getIntEnv("REACH_MULTIPLIER", 5),
		TrendingLimit:     getIntEnv("TRENDING_LIMIT", 10),
		SummaryTopicLimit: getIntEnv("SUMMARY_TOPIC_LIMIT", 5),

		BenchmarkEngagementRate: getFloatEnv("BENCHMARK_ENGAGEMENT_RATE", 3.5),
		BenchmarkSentimentScore: getFloatEnv("BENCHMARK_SENTIMENT_SCORE", 0.15),
		BenchmarkPostsPerMonth:  getFloatEnv("BENCHMARK_POSTS_PER_MONTH", 25),
		BenchmarkTopEngagement:  getFloatEnv("BENCHMARK_TOP_ENGAGEMENT", 8.2),

		AnalysisSchedule: getEnv("ANALYSIS_SCHEDULE", "daily"),
		TimeZone:         getEnv("TIMEZONE", "UTC"),

		CORSOrigins: getSliceEnv("CORS_ORIGINS", []string{"*"}),

		ReportWebhookURL:  getEnv("REPORT_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case "azure":
		if c.StorageAccount == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required when STORAGE_BACKEND is 'azure'")
		}
	case "minio":
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" {
			return fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when STORAGE_BACKEND is 'minio'")
		}
	case "memory":
		// nothing to validate, data is not persisted
	default:
		return fmt.Errorf("STORAGE_BACKEND must be 'azure', 'minio' or 'memory'")
	}

	if c.AnalysisSchedule != "daily" && c.AnalysisSchedule != "hourly" {
		return fmt.Errorf("ANALYSIS_SCHEDULE must be 'daily' or 'hourly'")
	}

	if c.ReachMultiplier <= 0 {
		return fmt.Errorf("REACH_MULTIPLIER must be positive")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
