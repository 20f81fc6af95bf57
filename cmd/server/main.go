package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/fern/internal/api"
	"github.com/dgallion1/fern/internal/config"
	"github.com/dgallion1/fern/internal/metrics"
	"github.com/dgallion1/fern/internal/model"
	"github.com/dgallion1/fern/internal/pipeline"
	"github.com/dgallion1/fern/internal/summarize"
	"github.com/dgallion1/fern/internal/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	base, err := model.New(ctx, cfg)
	if err != nil {
		log.Error("model init failed", "backend", cfg.ModelBackend, "error", err)
		os.Exit(1)
	}
	met := metrics.New()
	stats := model.NewStats(base.Name(), time.Hour)
	m := model.Instrument(base, stats, met.ObserveModelCall)

	summarizer := summarize.New(m, summarize.Options{
		ChunkSize:     cfg.ChunkSize,
		Timeout:       cfg.ModelTimeout,
		MaxConcurrent: cfg.MaxConcurrentSummaries,
		CacheSize:     cfg.SummaryCacheSize,
		CacheTTL:      cfg.SummaryCacheTTL,
	}, log)

	// Image analysis is optional; without credentials the route reports it
	// as not configured.
	var analyzer vision.Analyzer
	gv, err := vision.NewGoogle(ctx, cfg.VisionCredentialsFile)
	if err != nil {
		log.Warn("vision disabled", "error", err)
	} else {
		analyzer = gv
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, summarizer, log, met.ObserveJob)
	orch.Start(ctx)
	met.RegisterQueueDepth(orch.QueueDepth)

	// Initialize HTTP server.
	srv := api.NewServer(api.Services{
		Summarizer: summarizer,
		Vision:     analyzer,
		Jobs:       orch,
		ModelName:  m.Name(),
		Stats:      stats,
		Metrics:    met,
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}

		orch.Stop()

		if gv != nil {
			gv.Close()
		}
		if c, ok := base.(interface{ Close() }); ok {
			c.Close()
		}
	}()

	log.Info("starting fern", "port", cfg.Port, "model", m.Name(), "vision", analyzer != nil)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}
