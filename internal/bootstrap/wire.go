//go:build wireinject

package bootstrap

import (
	"context"

	"idempotency-guard/internal/application"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideStores,
)

// API injector: builds the HTTP server (+ in-process sweeper) + Cleanup
func InitAPI(ctx context.Context) (API, func(), error) {
	wire.Build(
		infraSet,
		ProvideMetrics,
		ProvideGuard,
		ProvideServer,
		ProvideAPI,
	)
	return API{}, nil, nil
}

// Worker injector: builds the retention worker + Cleanup
func InitWorker(ctx context.Context) (application.Worker, func(), error) {
	wire.Build(
		infraSet,
		ProvideSweeper,
	)
	return nil, nil, nil
}
