// Package api exposes the aggregation service over REST. Handlers are thin:
// they parse the request into a FilterSpec, delegate to the resolver and the
// pure aggregators, and write the snapshot back out. All state lives behind
// the repository.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/cms"
	"github.com/brandpulse/social-insights/internal/config"
	"github.com/brandpulse/social-insights/internal/ingest"
	"github.com/brandpulse/social-insights/internal/resolver"
	"github.com/brandpulse/social-insights/internal/storage"
)

// Server wires the HTTP surface to the service layer.
type Server struct {
	cfg    *config.Config
	repo   *storage.Repository
	res    *resolver.Resolver
	cms    *cms.Service
	ingest *ingest.Service
	now    func() time.Time
}

// NewServer creates the API server.
func NewServer(cfg *config.Config, repo *storage.Repository, res *resolver.Resolver, cmsService *cms.Service, ingestService *ingest.Service) *Server {
	return &Server{
		cfg:    cfg,
		repo:   repo,
		res:    res,
		cms:    cmsService,
		ingest: ingestService,
		now:    time.Now,
	}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.corsMiddleware, loggingMiddleware)

	// Preflight requests must reach the CORS middleware even though no
	// resource route declares the OPTIONS method
	router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health and metrics
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/metrics", s.handleMetrics).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	// Aggregated results per entity: computed on GET, CMS-managed on PUT
	results := api.PathPrefix("/results/{entityType}/{id}").Subrouter()
	results.HandleFunc("/summary", s.handleSummary).Methods("GET")
	results.HandleFunc("/sentiment-timeline", s.handleTimeline).Methods("GET")
	results.HandleFunc("/trending-topics", s.handleTopics).Methods("GET")
	results.HandleFunc("/emotions", s.handleEmotions).Methods("GET")
	results.HandleFunc("/demographics", s.handleDemographics).Methods("GET")
	results.HandleFunc("/performance", s.handlePerformance).Methods("GET")
	results.HandleFunc("/engagement-patterns", s.handlePatterns).Methods("GET")
	results.HandleFunc("/competitive", s.handleCompetitive).Methods("GET")
	results.HandleFunc("/{snapshotType}", s.handleSnapshotUpsert).Methods("PUT")
	results.HandleFunc("/trigger-analysis", s.handleTriggerAnalysis).Methods("POST")

	// Entity management
	api.HandleFunc("/brands", s.handleListBrands).Methods("GET")
	api.HandleFunc("/brands", s.handleCreateBrand).Methods("POST")
	api.HandleFunc("/brands/{id}", s.handleGetBrand).Methods("GET")
	api.HandleFunc("/brands/{id}", s.handleUpdateBrand).Methods("PUT")
	api.HandleFunc("/brands/{id}", s.handleDeleteBrand).Methods("DELETE")

	api.HandleFunc("/campaigns", s.handleListCampaigns).Methods("GET")
	api.HandleFunc("/campaigns", s.handleCreateCampaign).Methods("POST")
	api.HandleFunc("/campaigns/{id}", s.handleGetCampaign).Methods("GET")
	api.HandleFunc("/campaigns/{id}", s.handleUpdateCampaign).Methods("PUT")
	api.HandleFunc("/campaigns/{id}", s.handleDeleteCampaign).Methods("DELETE")

	api.HandleFunc("/contents", s.handleListContents).Methods("GET")
	api.HandleFunc("/contents", s.handleCreateContent).Methods("POST")
	api.HandleFunc("/contents/{id}", s.handleGetContent).Methods("GET")
	api.HandleFunc("/contents/{id}", s.handleUpdateContent).Methods("PUT")
	api.HandleFunc("/contents/{id}", s.handleDeleteContent).Methods("DELETE")

	// Run history
	api.HandleFunc("/runs", s.handleListRuns).Methods("GET")
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods("GET")

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.ingest.GetMetrics()))
}

// corsMiddleware answers the dashboard's cross-origin requests. Origins come
// from configuration; "*" allows any origin.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(s.cfg.CORSOrigins))
	for _, origin := range s.cfg.CORSOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		logrus.Debugf("%s %s -> %d (%v)", r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
