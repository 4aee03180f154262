package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "pg"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port           string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	// Store
	StoreBackend string
	TableName    string
	RecordTTL    time.Duration
	// Postgres
	DatabaseURL string
	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// DynamoDB
	AWSRegion      string
	DynamoEndpoint string
	// Retention worker
	SweepEvery time.Duration
	SweepBatch int
	// Client
	GuardURL string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func durMS(key string, defMS int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(defMS)), defMS)) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:            getEnv("ENV", "local"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8080"),
		MaxBodyBytes:   int64(atoiDef(getEnv("MAX_BODY_BYTES", "1048576"), 1<<20)),
		RequestTimeout: durMS("REQUEST_TIMEOUT_MS", 3000),
		StoreBackend:   getEnv("STORE_BACKEND", BackendMemory),
		TableName:      getEnv("TABLE_NAME", ""),
		RecordTTL:      durMS("IDEMPOTENCY_TTL_MS", 0),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        atoiDef(getEnv("REDIS_DB", "0"), 0),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		DynamoEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		SweepEvery:     durMS("SWEEP_EVERY_MS", 60000),
		SweepBatch:     atoiDef(getEnv("SWEEP_BATCH_LIMIT", "500"), 500),
		GuardURL:       getEnv("GUARD_URL", "http://localhost:8080"),
	}
}

// Validate checks the settings the API process cannot start without.
func (c Config) Validate() error {
	if c.TableName == "" {
		return errors.New("TABLE_NAME must be set")
	}
	switch c.StoreBackend {
	case BackendMemory, BackendRedis, BackendDynamoDB:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for STORE_BACKEND=pg")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND=%q", c.StoreBackend)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.RecordTTL < 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_MS must not be negative")
	}
	return nil
}
