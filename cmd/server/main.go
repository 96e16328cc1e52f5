package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/mistakeflash/internal/api"
	"github.com/vytor/mistakeflash/internal/config"
	"github.com/vytor/mistakeflash/internal/db"
	"github.com/vytor/mistakeflash/internal/jobs"
	"github.com/vytor/mistakeflash/internal/logger"
	"github.com/vytor/mistakeflash/internal/repository/sqlstore"
	"github.com/vytor/mistakeflash/internal/services"
	"github.com/vytor/mistakeflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("mistakeflash server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_driver=%s", cfg.DBDriver)
	log.Debug("quiz_default_limit=%d quiz_max_limit=%d", cfg.QuizDefaultLimit, cfg.QuizMaxLimit)
	log.Debug("stats_refresh_interval=%s", cfg.StatsRefreshInterval)
	log.Debug("worker_count=%d worker_queue_size=%d", cfg.WorkerCount, cfg.WorkerQueueSize)
	log.Debug("review_rate_limit=%.2f review_rate_burst=%d", cfg.ReviewRateLimit, cfg.ReviewRateBurst)

	database, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	cards := sqlstore.NewCardRepository(database.DB)
	reviews := sqlstore.NewReviewLogRepository(database.DB)
	statsRepo := sqlstore.NewStatsRepository(database.DB)

	mistakeService := services.NewMistakeService(cards, reviews,
		services.WithLimits(services.Limits{Default: cfg.QuizDefaultLimit, Max: cfg.QuizMaxLimit}),
	)
	statsService := services.NewStatsService(cards, statsRepo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	pool.Start(ctx)

	scheduler := jobs.NewStatsScheduler(statsService, jobs.NewWorkerQueue(pool, statsService), cfg.StatsRefreshInterval)
	if err := scheduler.Start(); err != nil {
		log.Error("failed to start stats scheduler: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		Mistakes: mistakeService,
		Stats:    statsService,
		Storage:  database,
		Limiter:  api.NewRateLimiter(cfg.ReviewRateLimit, cfg.ReviewRateBurst),
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	scheduler.Stop()
	log.Debug("stopping worker pool")
	pool.Stop()
	cancel()

	log.Info("mistakeflash server stopped")
}
