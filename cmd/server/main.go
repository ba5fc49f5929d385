package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-doc-verifier/internal/config"
	"github.com/MKhiriev/go-doc-verifier/internal/handler"
	"github.com/MKhiriev/go-doc-verifier/internal/handler/http"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/metrics"
	"github.com/MKhiriev/go-doc-verifier/internal/ratelimit"
	"github.com/MKhiriev/go-doc-verifier/internal/server"
	"github.com/MKhiriev/go-doc-verifier/internal/service"
	"github.com/MKhiriev/go-doc-verifier/internal/store"
	"github.com/MKhiriev/go-doc-verifier/internal/workers"
	"github.com/MKhiriev/go-doc-verifier/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("doc-verifier-server").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("doc-verifier-server", cfg.App.LogLevel)
	log.Debug().
		Any("server", cfg.Server).
		Any("ocr", cfg.OCR).
		Int("view_quota", cfg.App.ViewQuota).
		Bool("fail_open_encryption", cfg.App.FailOpenEncryption).
		Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	m := metrics.New()

	services, err := service.NewServices(storages, *cfg, m, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	authLimiter, uploadLimiter, closeLimiters, err := newRateLimiters(ctx, cfg.RateLimit, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating rate limiters")
	}
	defer closeLimiters()

	handlers, err := handler.NewHandlers(services, cfg.Server, storages, log,
		http.WithRateLimiters(authLimiter, uploadLimiter),
		http.WithMetrics(m),
		http.WithMaxUploadSize(cfg.App.MaxUploadSize),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	workers.NewWorkers(
		workers.NewStatsWorker(storages.DocumentRepository, m, cfg.Workers.StatsInterval, log),
	).Run(ctx)

	srv.RunServer()
}

// newRateLimiters builds the auth and upload limiters. Counters live in
// redis when a URL is configured, in process memory otherwise.
func newRateLimiters(ctx context.Context, cfg config.RateLimit, log *logger.Logger) (auth, upload ratelimit.Limiter, closeFn func(), err error) {
	authRule := ratelimit.Rule{Limit: cfg.AuthLimit, Window: cfg.AuthWindow}
	uploadRule := ratelimit.Rule{Limit: cfg.UploadLimit, Window: cfg.UploadWindow}
	closeFn = func() {}

	if cfg.RedisURL == "" {
		log.Info().Msg("rate limits are kept in memory")
		if auth, err = ratelimit.NewMemoryLimiter(authRule); err != nil {
			return nil, nil, closeFn, err
		}
		if upload, err = ratelimit.NewMemoryLimiter(uploadRule); err != nil {
			return nil, nil, closeFn, err
		}
		return auth, upload, closeFn, nil
	}

	var client *redis.Client
	if client, err = ratelimit.NewRedisClient(ctx, cfg.RedisURL); err != nil {
		return nil, nil, closeFn, err
	}
	closeFn = func() { client.Close() }

	if auth, err = ratelimit.NewRedisLimiter(client, "auth", authRule, log); err != nil {
		closeFn()
		return nil, nil, func() {}, err
	}
	if upload, err = ratelimit.NewRedisLimiter(client, "upload", uploadRule, log); err != nil {
		closeFn()
		return nil, nil, func() {}, err
	}
	log.Info().Msg("rate limits are shared through redis")
	return auth, upload, closeFn, nil
}
