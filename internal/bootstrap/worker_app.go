package bootstrap

import (
	"context"
	"fmt"
)

type WorkerApp func(ctx context.Context) error

// InitWorkerApp wraps the retention worker in a runner for cmd/worker.
func InitWorkerApp(ctx context.Context) (WorkerApp, func(), error) {
	w, cleanup, err := InitWorker(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init sweeper: %w", err)
	}
	runner := func(ctx context.Context) error {
		w.Start(ctx)
		return nil
	}
	return runner, cleanup, nil
}
