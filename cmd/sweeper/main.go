package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"postsweeper/internal/config"
	"postsweeper/internal/database"
	"postsweeper/internal/database/migration"
	"postsweeper/internal/logger"
	"postsweeper/internal/metrics"
	"postsweeper/internal/model"
	"postsweeper/internal/otel"
	"postsweeper/internal/repository/postgres"
	"postsweeper/internal/scheduler"
	"postsweeper/internal/service"
	"postsweeper/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, lg)
	if err != nil {
		lg.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			lg.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	// Store clients are created once and reused by every sweep for the process lifetime
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, lg, cfg.Database.Host); err != nil {
			lg.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		lg.Fatal("failed to initialize object storage", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sweepMetrics, err := metrics.NewSweepMetrics(reg)
	if err != nil {
		lg.Fatal("failed to register metrics", zap.Error(err))
	}
	pusher := metrics.NewPusher(cfg.Metrics.PushgatewayURL, cfg.Metrics.JobName, reg)

	postRepo := postgres.NewPostPostgres(db)
	sweeper := service.NewSweepService(postRepo, objStore, lg, service.WithMetrics(sweepMetrics))

	sched := scheduler.New(sweeper, lg,
		scheduler.WithResultHook(func(_ context.Context, _ model.SweepResult) {
			if err := pusher.Push(); err != nil {
				lg.Warn("failed to push metrics", zap.Error(err))
			}
		}),
	)

	if cfg.RunOnStart {
		sched.RunNow(ctx)
	}

	if err := sched.Start(ctx); err != nil {
		lg.Fatal("failed to start scheduler", zap.Error(err))
	}

	<-ctx.Done()
	lg.Info("shutdown signal received, waiting for in-flight sweep")
	sched.Stop()
}
