package bootstrap

import (
	"context"
	"testing"
	"time"

	"idempotency-guard/internal/config"
	"idempotency-guard/internal/infrastructure/metrics"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() config.Config {
	return config.Config{
		StoreBackend: config.BackendMemory,
		TableName:    "idempotency",
		MaxBodyBytes: 1024,
	}
}

func TestBuildStores_Memory(t *testing.T) {
	s, cleanup, err := BuildStores(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, s.Records)
	require.NotNil(t, s.Expirer)
}

func TestBuildStores_Redis(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreBackend = config.BackendRedis
	cfg.RedisAddr = "localhost:0"
	s, cleanup, err := BuildStores(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, s.Records)
	require.Nil(t, s.Expirer)
}

func TestBuildStores_Errors(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreBackend = config.BackendPostgres
	_, cleanup, err := BuildStores(context.Background(), cfg, zap.NewNop())
	require.ErrorIs(t, err, ErrMissingDBURL)
	require.NotNil(t, cleanup)

	cfg.StoreBackend = "cassandra"
	_, _, err = BuildStores(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "unsupported STORE_BACKEND")
}

func TestProvideSweeper(t *testing.T) {
	cfg := memoryConfig()
	s, _, err := BuildStores(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	_, err = ProvideSweeper(s, cfg, zap.NewNop())
	require.ErrorIs(t, err, ErrNoTTL)

	cfg.RecordTTL = time.Hour
	w, err := ProvideSweeper(s, cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, w)

	_, err = ProvideSweeper(Stores{Records: s.Records}, cfg, zap.NewNop())
	require.ErrorIs(t, err, ErrNoExpirer)
}

func TestProvideAPI_InProcessSweeper(t *testing.T) {
	cfg := memoryConfig()
	cfg.RecordTTL = time.Hour
	s, _, err := BuildStores(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	m := metrics.New()
	srv := ProvideServer(ProvideGuard(s, m, zap.NewNop()), cfg, m)

	api := ProvideAPI(srv, s, cfg, zap.NewNop())
	require.NotNil(t, api.Server)
	require.NotNil(t, api.Background)

	cfg.RecordTTL = 0
	require.Nil(t, ProvideAPI(srv, s, cfg, zap.NewNop()).Background)
}
