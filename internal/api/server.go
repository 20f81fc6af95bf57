package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/fern/internal/config"
	"github.com/dgallion1/fern/internal/metrics"
	"github.com/dgallion1/fern/internal/model"
	"github.com/dgallion1/fern/internal/pipeline"
	"github.com/dgallion1/fern/internal/summarize"
	"github.com/dgallion1/fern/internal/vision"
)

// TextSummarizer is the part of summarize.Summarizer the handlers use.
type TextSummarizer interface {
	Summarize(ctx context.Context, text, label string) (*summarize.Result, error)
	ChunkSize() int
}

// JobQueue is the part of pipeline.Orchestrator the handlers use.
type JobQueue interface {
	Submit(job *pipeline.Job) error
	GetJob(id string) *pipeline.Job
	QueueDepth() int
}

// Services are the collaborators built at startup. Vision, Jobs, Stats and
// Metrics may be nil; their routes then report the feature as unavailable.
type Services struct {
	Summarizer TextSummarizer
	Vision     vision.Analyzer
	Jobs       JobQueue
	ModelName  string
	Stats      *model.Stats
	Metrics    *metrics.Metrics
}

// Server is the HTTP API server for fern.
type Server struct {
	router chi.Router
	svc    Services
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(svc Services, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		svc: svc,
		log: log,
		cfg: cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	if s.svc.Metrics != nil {
		r.Use(s.svc.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	if s.svc.Metrics != nil {
		r.Handle("/metrics", s.svc.Metrics.Handler())
	}

	r.Post("/api/summarize", s.handleSummarize)
	r.Post("/api/summarize-pdf", s.handleSummarizePDF)
	r.Post("/api/analyze-image", s.handleAnalyzeImage)
	r.Post("/api/chunks", s.handleChunks)

	// Protected when API_KEY is set.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/jobs", s.handleSubmitJob)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/stats/model", s.handleModelStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"model":  s.svc.ModelName,
		"vision": s.svc.Vision != nil,
	}
	if s.svc.Jobs != nil {
		resp["queue_depth"] = s.svc.Jobs.QueueDepth()
	}
	writeJSON(w, http.StatusOK, resp)
}
