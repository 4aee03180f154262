package bootstrap

import (
	"context"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/config"
	httpserver "idempotency-guard/internal/infrastructure/http"
	"idempotency-guard/internal/infrastructure/logx"
	"idempotency-guard/internal/infrastructure/metrics"
	"idempotency-guard/internal/infrastructure/worker"

	"go.uber.org/zap"
)

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ProvideMetrics() *metrics.Metrics { return metrics.New() }

func ProvideStores(ctx context.Context, cfg config.Config, log *zap.Logger) (Stores, func(), error) {
	return BuildStores(ctx, cfg, log)
}

func ProvideGuard(s Stores, m *metrics.Metrics, log *zap.Logger) *application.IdempotencyGuard {
	return application.NewIdempotencyGuard(s.Records,
		application.WithLogger(log.With(zap.String("component", "guard"))),
		application.WithObserver(m),
	)
}

func ProvideServer(guard *application.IdempotencyGuard, cfg config.Config, m *metrics.Metrics) *httpserver.Server {
	return httpserver.NewServer(guard,
		httpserver.WithMaxBodyBytes(cfg.MaxBodyBytes),
		httpserver.WithRequestTimeout(cfg.RequestTimeout),
		httpserver.WithMetricsHandler(m.Handler()),
	)
}

// ProvideSweeper returns the retention worker for stores without native expiry.
func ProvideSweeper(s Stores, cfg config.Config, log *zap.Logger) (application.Worker, error) {
	if s.Expirer == nil {
		return nil, ErrNoExpirer
	}
	if cfg.RecordTTL <= 0 {
		return nil, ErrNoTTL
	}
	return &worker.Sweeper{
		Store:      s.Expirer,
		TTL:        cfg.RecordTTL,
		PollEvery:  cfg.SweepEvery,
		BatchLimit: cfg.SweepBatch,
		Log:        log.With(zap.String("component", "sweeper")),
	}, nil
}

type API struct {
	Server *httpserver.Server
	// Background is set when retention runs inside the API process,
	// which is only meaningful for the in-memory store.
	Background application.Worker
}

func ProvideAPI(srv *httpserver.Server, s Stores, cfg config.Config, log *zap.Logger) API {
	api := API{Server: srv}
	if cfg.StoreBackend != config.BackendMemory || cfg.RecordTTL <= 0 {
		return api
	}
	w, err := ProvideSweeper(s, cfg, log)
	if err != nil {
		log.Warn("in-process sweeper disabled", zap.Error(err))
		return api
	}
	api.Background = w
	return api
}
