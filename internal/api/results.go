package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/aggregate"
	"github.com/brandpulse/social-insights/internal/cms"
	"github.com/brandpulse/social-insights/internal/filtering"
	"github.com/brandpulse/social-insights/internal/models"
	"github.com/brandpulse/social-insights/internal/resolver"
	"github.com/brandpulse/social-insights/internal/storage"
)

const maxSnapshotPayload = 1 << 20 // 1 MiB

// scope is the common front half of every results GET: the resolved entity,
// its filtered item set and the parsed filters.
type scope struct {
	entity resolver.Entity
	items  []models.AnalyzedItem
	scoped []models.AnalyzedItem // entity scope before query filters, for trend windows
	spec   models.FilterSpec
	prov   aggregate.Provenance
}

// resolveScope parses path and query, resolves the entity and applies the
// filters. On failure the error response is already written and ok is false.
func (s *Server) resolveScope(w http.ResponseWriter, r *http.Request) (scope, bool) {
	vars := mux.Vars(r)

	entityType, ok := models.ParseEntityType(vars["entityType"])
	if !ok {
		writeError(w, http.StatusBadRequest, "entity type must be brand, campaign or content")
		return scope{}, false
	}

	spec, err := s.parseFilters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return scope{}, false
	}

	entity, scoped, err := s.res.Resolve(r.Context(), entityType, vars["id"])
	if err != nil {
		respondError(w, err)
		return scope{}, false
	}

	return scope{
		entity: entity,
		items:  filtering.Apply(scoped, spec),
		scoped: scoped,
		spec:   spec,
		prov:   aggregate.NewProvenance(s.now(), spec),
	}, true
}

// serveSnapshot writes the computed snapshot, unless the entity has no
// automated items at all and an analyst has published a manual snapshot for
// this view, in which case the stored document wins. The fallback keys off
// the candidate set, not the filtered one: when filters narrow real data to
// nothing the caller still gets the zero-valued computed payload, with the
// request's own filters echoed.
func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request, sc scope, snapshotType string, computed any) {
	if len(sc.scoped) == 0 {
		stored, err := s.repo.GetSnapshot(r.Context(), sc.entity.Type, sc.entity.ID, snapshotType)
		if err == nil {
			logrus.Debugf("Serving stored %s snapshot for %s %s", snapshotType, sc.entity.Type, sc.entity.ID)
			writeRaw(w, http.StatusOK, stored)
			return
		}
		if !errors.Is(err, storage.ErrNotFound) {
			respondError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, computed)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.resolveScope(w, r)
	if !ok {
		return
	}

	// The trend compares against the window immediately before the requested
	// one. Without a start date there is no window to shift, so no trend.
	var previous []models.AnalyzedItem
	if prevSpec, ok := previousWindow(sc.spec, s.now().UTC()); ok {
		previous = filtering.Apply(sc.scoped, prevSpec)
	}

	snapshot := aggregate.Summarize(sc.items, previous, s.cfg.SummaryTopicLimit, sc.prov)
	s.serveSnapshot(w, r, sc, cms.SnapshotSummary, snapshot)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.resolveScope(w, r)
	if !ok {
		return
	}
	s.serveSnapshot(w, r, sc, cms.SnapshotTimeline, aggregate.Timeline(sc.items, sc.prov))
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.resolveScope(w, r)
	if !ok {
		return
	}

	limit := s.cfg.TrendingLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	s.serveSnapshot(w, r, sc, cms.SnapshotTopics, aggregate.TrendingTopics(sc.items, limit, sc.prov))
}

func (s *Server) handleEmotions(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.resolveScope(w, r)
	if !ok {
		return
	}
	s.serveSnapshot(w, r, sc, cms.SnapshotEmotions, aggregate.Emotions(sc.items, sc.prov))
}

func (s *Server) handleDemographics(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.resolveScope(w, r)
	if !ok {
		return
	}
	s.serveSnapshot(w, r, sc, cms.SnapshotDemographics, aggregate.Demographics(sc.items, sc.prov))
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.resolveScope(w, r)
	if !ok {
		return
	}
	s.serveSnapshot(w, r, sc, cms.SnapshotPerformance, aggregate.Performance(sc.items, s.cfg.ReachMultiplier, sc.prov))
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.resolveScope(w, r)
	if !ok {
		return
	}
	s.serveSnapshot(w, r, sc, cms.SnapshotPatterns, aggregate.EngagementPatterns(sc.items, sc.prov))
}

func (s *Server) handleCompetitive(w http.ResponseWriter, r *http.Request) {
	if entityType, _ := models.ParseEntityType(mux.Vars(r)["entityType"]); entityType != models.EntityBrand {
		writeError(w, http.StatusBadRequest, "competitive analysis is only available for brands")
		return
	}

	sc, ok := s.resolveScope(w, r)
	if !ok {
		return
	}

	bench := aggregate.Benchmarks{
		AvgEngagementRate:       s.cfg.BenchmarkEngagementRate,
		AvgSentimentScore:       s.cfg.BenchmarkSentimentScore,
		AvgPostsPerMonth:        s.cfg.BenchmarkPostsPerMonth,
		TopPerformersEngagement: s.cfg.BenchmarkTopEngagement,
	}
	s.serveSnapshot(w, r, sc, cms.SnapshotCompetitive, aggregate.Competitive(sc.items, bench, s.cfg.ReachMultiplier, sc.prov))
}

// handleSnapshotUpsert is the CMS write path: analysts publish or correct a
// snapshot for an entity, validated against the schema the aggregator for
// that view produces.
func (s *Server) handleSnapshotUpsert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entityType, ok := models.ParseEntityType(vars["entityType"])
	if !ok {
		writeError(w, http.StatusBadRequest, "entity type must be brand, campaign or content")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotPayload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	stored, err := s.cms.Upsert(r.Context(), entityType, vars["id"], vars["snapshotType"], payload)
	if err != nil {
		respondError(w, err)
		return
	}

	writeRaw(w, http.StatusOK, stored)
}

func (s *Server) handleTriggerAnalysis(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entityType, ok := models.ParseEntityType(vars["entityType"])
	if !ok {
		writeError(w, http.StatusBadRequest, "entity type must be brand, campaign or content")
		return
	}

	run, err := s.ingest.StartRun(r.Context(), entityType, vars["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, run)
}

// previousWindow shifts the requested date window back by its own length.
// Returns false when the request carries no start date.
func previousWindow(spec models.FilterSpec, now time.Time) (models.FilterSpec, bool) {
	if spec.DateStart == nil {
		return models.FilterSpec{}, false
	}

	end := now
	if spec.DateEnd != nil {
		end = *spec.DateEnd
	}
	length := end.Sub(*spec.DateStart)
	if length <= 0 {
		return models.FilterSpec{}, false
	}

	prevEnd := spec.DateStart.Add(-time.Nanosecond)
	prevStart := prevEnd.Add(-length)

	prev := spec
	prev.DateStart = &prevStart
	prev.DateEnd = &prevEnd
	return prev, true
}
