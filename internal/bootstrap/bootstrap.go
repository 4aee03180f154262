package bootstrap

import (
	"context"
	"fmt"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/config"
	"idempotency-guard/internal/infrastructure/dynamostore"
	"idempotency-guard/internal/infrastructure/memstore"
	"idempotency-guard/internal/infrastructure/pg"
	redisstore "idempotency-guard/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores is the record store selected by STORE_BACKEND. Expirer is nil for
// backends that expire records natively.
type Stores struct {
	Records application.RecordStore
	Expirer application.RecordExpirer
}

// BuildStores connects to the configured backend. The returned cleanup is never nil.
func BuildStores(ctx context.Context, cfg config.Config, log *zap.Logger) (Stores, func(), error) {
	log = log.With(zap.String("backend", cfg.StoreBackend), zap.String("namespace", cfg.TableName))
	switch cfg.StoreBackend {
	case config.BackendMemory:
		s := memstore.New()
		log.Info("store.ready")
		return Stores{Records: s, Expirer: s}, func() {}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cleanup := func() {
			log.Info("closing redis")
			_ = client.Close()
		}
		log.Info("store.ready", zap.String("addr", cfg.RedisAddr))
		return Stores{Records: redisstore.New(client, cfg.TableName, cfg.RecordTTL)}, cleanup, nil

	case config.BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Stores{}, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Stores{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Stores{}, func() {}, err
		}
		repo := pg.NewRecordRepo(db, cfg.TableName)
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		log.Info("store.ready")
		return Stores{Records: repo, Expirer: repo}, cleanup, nil

	case config.BackendDynamoDB:
		client, err := dynamostore.NewClient(ctx, cfg.AWSRegion, cfg.DynamoEndpoint)
		if err != nil {
			return Stores{}, func() {}, err
		}
		log.Info("store.ready", zap.String("region", cfg.AWSRegion))
		return Stores{Records: dynamostore.New(client, cfg.TableName, cfg.RecordTTL)}, func() {}, nil

	default:
		return Stores{}, func() {}, fmt.Errorf("unsupported STORE_BACKEND=%q", cfg.StoreBackend)
	}
}
