// cmd/worker-manager/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	awsclient "scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/camunda"
	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/database"
	"scholarship-workers/internal/common/health"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/common/observability"
	"scholarship-workers/internal/matching"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/notification"
	"scholarship-workers/internal/repository"
	"scholarship-workers/pkg/registry"

	amr "scholarship-workers/internal/workers/scholarship/apply-match-ranking"
	cms "scholarship-workers/internal/workers/scholarship/calculate-match-score"
	ce "scholarship-workers/internal/workers/scholarship/check-eligibility"
	ms "scholarship-workers/internal/workers/scholarship/match-scholarships"
)

var connectRetry = &camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("listingSource", cfg.Matching.ListingSource),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL ---
	db, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	err = camunda.Retry(ctx, connectRetry, log, "PostgreSQL connection", func(ctx context.Context) error {
		return database.PingPostgres(ctx, db)
	})
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Redis ---
	rdb := database.NewRedis(cfg.Database.Redis)
	err = camunda.Retry(ctx, connectRetry, log, "Redis connection", func(ctx context.Context) error {
		return database.PingRedis(ctx, rdb)
	})
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("Redis connected successfully")

	checks := map[string]health.Check{
		"zeebe":    zeebe.HealthCheck,
		"postgres": func(ctx context.Context) error { return database.PingPostgres(ctx, db) },
		"redis":    func(ctx context.Context) error { return database.PingRedis(ctx, rdb) },
	}

	listings, err := newListingRepository(ctx, cfg, db, log, checks)
	if err != nil {
		zapLog.Fatal("listing source init failed", zap.Error(err))
	}

	notifier, err := newNotifier(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("notifier init failed", zap.Error(err))
	}

	ttl := cfg.Matching.CacheTTLDuration()
	profiles := repository.NewCachedProfileRepository(repository.NewPostgresProfileRepository(db), rdb, ttl, log)
	engine := matching.NewEngine(log, matching.Options{
		MaxResults:     cfg.Matching.MaxResults,
		SummaryTopN:    cfg.Matching.SummaryTopN,
		IncludeExpired: cfg.Matching.IncludeExpired,
	})

	// --- Workers ---
	var jobWorkers []worker.JobWorker
	start := func(taskType string, handler worker.JobHandler) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if w := camunda.StartWorker(zeebe.GetClient(), taskType, wcfg, handler, log); w != nil {
			jobWorkers = append(jobWorkers, w)
		}
	}
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	start(ce.TaskType, ce.NewHandler(&ce.Config{Timeout: timeout(ce.TaskType)}, log).Handle)

	start(cms.TaskType, cms.NewHandler(&cms.Config{Timeout: timeout(cms.TaskType)}, profiles, log).Handle)

	start(amr.TaskType, amr.NewHandler(&amr.Config{
		MaxItems:    cfg.Matching.MaxResults,
		SummaryTopN: cfg.Matching.SummaryTopN,
		Timeout:     timeout(amr.TaskType),
	}, log).Handle)

	start(ms.TaskType, ms.NewHandler(&ms.Config{
		Timeout:       timeout(ms.TaskType),
		ListingSource: cfg.Matching.ListingSource,
		UseCache:      ttl > 0,
	}, ms.Dependencies{
		Engine:        engine,
		Listings:      listings,
		Profiles:      profiles,
		Store:         repository.NewPostgresMatchStore(db),
		Cache:         repository.NewRedisMatchCache(rdb, ttl),
		Notifier:      notifier,
		Observability: obs,
	}, log).Handle)

	zapLog.Info("Workers registered", zap.Int("count", len(jobWorkers)))

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           health.NewRouter(checks, 5*time.Second),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range jobWorkers {
		w.Close()
		w.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		zapLog.Error("Error closing Redis client", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		zapLog.Error("Error closing PostgreSQL pool", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

// newListingRepository builds the configured listing source. A postgres
// source with a seed path is seeded on startup.
func newListingRepository(ctx context.Context, cfg *config.Config, db *sql.DB, log logger.Logger, checks map[string]health.Check) (repository.ListingRepository, error) {
	switch models.ListingSource(cfg.Matching.ListingSource) {
	case models.ListingSourcePostgres:
		repo := repository.NewPostgresListingRepository(db)
		if cfg.Matching.SeedPath != "" {
			seed, err := registry.LoadListings(cfg.Matching.SeedPath)
			if err != nil {
				return nil, err
			}
			if err := repo.UpsertListings(ctx, seed); err != nil {
				return nil, fmt.Errorf("seed scholarships: %w", err)
			}
			log.Info("Seeded scholarship listings", map[string]interface{}{"count": len(seed)})
		}
		return repo, nil

	case models.ListingSourceElasticsearch:
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return nil, err
		}
		err = camunda.Retry(ctx, connectRetry, log, "Elasticsearch connection", func(ctx context.Context) error {
			return database.PingElasticsearch(ctx, es)
		})
		if err != nil {
			return nil, err
		}
		checks["elasticsearch"] = func(ctx context.Context) error { return database.PingElasticsearch(ctx, es) }
		return repository.NewElasticsearchListingRepository(es, cfg.Database.Elasticsearch.ListingIndex), nil

	default:
		repo, err := repository.LoadStaticListingRepository(cfg.Matching.SeedPath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
}

func newNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (notification.Notifier, error) {
	snsCfg := cfg.Notifications.SNS
	if !snsCfg.Enabled {
		return notification.NoopNotifier{}, nil
	}
	client, err := awsclient.NewSNSClient(ctx, snsCfg.Region)
	if err != nil {
		return nil, err
	}
	return notification.NewSNSNotifier(client, snsCfg.TopicARN, log), nil
}
