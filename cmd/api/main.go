package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"idempotency-guard/internal/bootstrap"
	"idempotency-guard/internal/config"
	infraconfig "idempotency-guard/internal/infrastructure/config"
	httpserver "idempotency-guard/internal/infrastructure/http"
	"idempotency-guard/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	addr := ":" + config.Load().Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The store handle is built once and shared by every request.
	app, cleanup, err := bootstrap.InitAPI(ctx)
	if err != nil {
		logger.Fatal("bootstrap api", zap.Error(err))
	}
	defer cleanup()

	if app.Background != nil {
		go app.Background.Start(ctx)
	}

	server := &http.Server{
		Addr:    addr,
		Handler: httpserver.NewRouter(app.Server),
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cancel()
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
