// Package cms is the write path for manually-entered aggregate snapshots.
// Analysts use it to publish numbers for entities that have no automated
// pipeline run yet. Payloads are validated against the exact schema the
// corresponding aggregator produces, so the dashboard cannot tell the two
// sources apart.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/aggregate"
	"github.com/brandpulse/social-insights/internal/models"
	"github.com/brandpulse/social-insights/internal/resolver"
	"github.com/brandpulse/social-insights/internal/storage"
)

// Snapshot type names, matching the API resource names.
const (
	SnapshotSummary      = "summary"
	SnapshotTimeline     = "sentiment-timeline"
	SnapshotTopics       = "trending-topics"
	SnapshotEmotions     = "emotions"
	SnapshotDemographics = "demographics"
	SnapshotPerformance  = "performance"
	SnapshotPatterns     = "engagement-patterns"
	SnapshotCompetitive  = "competitive"
)

// ValidationError reports a payload that does not match the aggregator
// schema, naming the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid snapshot payload, field %q: %s", e.Field, e.Reason)
}

// Service validates and upserts snapshots.
type Service struct {
	repo *storage.Repository
	res  *resolver.Resolver
	now  func() time.Time
}

// NewService creates the CMS write service.
func NewService(repo *storage.Repository, res *resolver.Resolver) *Service {
	return &Service{repo: repo, res: res, now: time.Now}
}

// Upsert validates payload against the schema of snapshotType and stores it
// for (entityType, entityID, snapshotType), replacing any prior value. No
// history is kept for manual snapshots; the one exception is the timeline,
// where entries merge by date: an entry for an existing date replaces that
// date's entry and a new date is appended, keeping the sequence sorted.
//
// Returns the stored document.
func (s *Service) Upsert(ctx context.Context, entityType models.EntityType, entityID, snapshotType string, payload []byte) ([]byte, error) {
	if _, err := s.res.ResolveEntity(ctx, entityType, entityID); err != nil {
		return nil, err
	}

	// Competitive analysis is only served for brands; a campaign or content
	// snapshot would be unreachable.
	if snapshotType == SnapshotCompetitive && entityType != models.EntityBrand {
		return nil, &ValidationError{Field: "snapshot_type", Reason: "competitive snapshots are only supported for brands"}
	}

	validated, err := s.validate(snapshotType, payload)
	if err != nil {
		return nil, err
	}

	if snapshotType == SnapshotTimeline {
		validated, err = s.mergeTimeline(ctx, entityType, entityID, validated)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveSnapshot(ctx, entityType, entityID, snapshotType, validated); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	logrus.Infof("Stored %s snapshot for %s %s", snapshotType, entityType, entityID)
	return validated, nil
}

// validate decodes payload into the aggregator's snapshot struct, rejecting
// unknown fields, then re-marshals the canonical form with computed_at set.
func (s *Service) validate(snapshotType string, payload []byte) ([]byte, error) {
	switch snapshotType {
	case SnapshotSummary:
		var snap aggregate.SummarySnapshot
		if err := strictDecode(payload, &snap); err != nil {
			return nil, err
		}
		if err := checkSummary(&snap); err != nil {
			return nil, err
		}
		snap.ComputedAt = s.now().UTC()
		return json.Marshal(snap)
	case SnapshotTimeline:
		var snap aggregate.TimelineSnapshot
		if err := strictDecode(payload, &snap); err != nil {
			return nil, err
		}
		if err := checkTimeline(&snap); err != nil {
			return nil, err
		}
		snap.ComputedAt = s.now().UTC()
		return json.Marshal(snap)
	case SnapshotTopics:
		var snap aggregate.TopicsSnapshot
		if err := strictDecode(payload, &snap); err != nil {
			return nil, err
		}
		for i, rank := range snap.TrendingTopics {
			if rank.Topic == "" {
				return nil, &ValidationError{Field: fmt.Sprintf("trending_topics[%d].topic", i), Reason: "must not be empty"}
			}
		}
		snap.ComputedAt = s.now().UTC()
		return json.Marshal(snap)
	case SnapshotEmotions:
		var snap aggregate.EmotionsSnapshot
		if err := strictDecode(payload, &snap); err != nil {
			return nil, err
		}
		for i, stat := range snap.Emotions {
			if !models.KnownEmotion(stat.Emotion) {
				return nil, &ValidationError{Field: fmt.Sprintf("emotions[%d].emotion", i), Reason: fmt.Sprintf("unknown emotion %q", stat.Emotion)}
			}
		}
		snap.ComputedAt = s.now().UTC()
		return json.Marshal(snap)
	case SnapshotDemographics:
		var snap aggregate.DemographicsSnapshot
		if err := strictDecode(payload, &snap); err != nil {
			return nil, err
		}
		snap.ComputedAt = s.now().UTC()
		return json.Marshal(snap)
	case SnapshotPerformance:
		var snap aggregate.PerformanceSnapshot
		if err := strictDecode(payload, &snap); err != nil {
			return nil, err
		}
		snap.ComputedAt = s.now().UTC()
		return json.Marshal(snap)
	case SnapshotPatterns:
		var snap aggregate.EngagementPatternsSnapshot
		if err := strictDecode(payload, &snap); err != nil {
			return nil, err
		}
		for i, hour := range snap.PeakHours {
			if hour.Hour < 0 || hour.Hour > 23 {
				return nil, &ValidationError{Field: fmt.Sprintf("peak_hours[%d].hour", i), Reason: "must be between 0 and 23"}
			}
		}
		snap.ComputedAt = s.now().UTC()
		return json.Marshal(snap)
	case SnapshotCompetitive:
		var snap aggregate.CompetitiveSnapshot
		if err := strictDecode(payload, &snap); err != nil {
			return nil, err
		}
		snap.ComputedAt = s.now().UTC()
		return json.Marshal(snap)
	}
	return nil, &ValidationError{Field: "snapshot_type", Reason: fmt.Sprintf("unknown snapshot type %q", snapshotType)}
}

func checkSummary(snap *aggregate.SummarySnapshot) error {
	if snap.TotalPosts < 0 {
		return &ValidationError{Field: "total_posts", Reason: "must not be negative"}
	}
	for _, label := range models.SentimentLabels {
		if _, ok := snap.SentimentPercentage[label]; !ok {
			return &ValidationError{Field: "sentiment_percentage." + label, Reason: "missing sentiment label"}
		}
	}
	return nil
}

func checkTimeline(snap *aggregate.TimelineSnapshot) error {
	for i, bucket := range snap.Timeline {
		if _, err := time.Parse("2006-01-02", bucket.Date); err != nil {
			return &ValidationError{Field: fmt.Sprintf("timeline[%d].date", i), Reason: "must be YYYY-MM-DD"}
		}
	}
	return nil
}

// mergeTimeline folds the validated payload into the stored timeline:
// upsert-by-date, result sorted ascending. The final sequence never holds two
// entries for the same date.
func (s *Service) mergeTimeline(ctx context.Context, entityType models.EntityType, entityID string, validated []byte) ([]byte, error) {
	var incoming aggregate.TimelineSnapshot
	if err := json.Unmarshal(validated, &incoming); err != nil {
		return nil, fmt.Errorf("failed to reload validated timeline: %w", err)
	}

	existing, err := s.repo.GetSnapshot(ctx, entityType, entityID, SnapshotTimeline)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load existing timeline: %w", err)
	}

	merged := incoming
	if existing != nil {
		var current aggregate.TimelineSnapshot
		if err := json.Unmarshal(existing, &current); err != nil {
			logrus.Warnf("Discarding unreadable stored timeline for %s %s: %v", entityType, entityID, err)
		} else {
			byDate := make(map[string]int, len(current.Timeline))
			for i, bucket := range current.Timeline {
				byDate[bucket.Date] = i
			}
			buckets := current.Timeline
			for _, bucket := range incoming.Timeline {
				if i, ok := byDate[bucket.Date]; ok {
					buckets[i] = bucket
				} else {
					buckets = append(buckets, bucket)
				}
			}
			merged.Timeline = buckets
		}
	}

	sort.Slice(merged.Timeline, func(i, j int) bool {
		return merged.Timeline[i].Date < merged.Timeline[j].Date
	})

	return json.Marshal(merged)
}

// strictDecode decodes JSON rejecting unknown fields, translating decoder
// errors into ValidationError with the offending field where the error names
// one.
func strictDecode(payload []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return &ValidationError{Field: offendingField(err), Reason: err.Error()}
	}
	// Trailing garbage after the document is also a shape mismatch
	if dec.More() {
		return &ValidationError{Field: "payload", Reason: "unexpected trailing data"}
	}
	return nil
}

// offendingField extracts a field name from a json decoding error.
func offendingField(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, `unknown field "`); idx >= 0 {
		rest := msg[idx+len(`unknown field "`):]
		if end := strings.Index(rest, `"`); end > 0 {
			return rest[:end]
		}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field
	}
	return "payload"
}
