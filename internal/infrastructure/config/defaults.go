package config

import "time"

const (
	DefaultShutdownTimeout = 10 * time.Second
	DefaultSweepEvery      = time.Minute
	DefaultSweepBatch      = 500
	DefaultPGMaxConns      = 10
	DefaultPGMinConns      = 1
	DefaultClientTimeout   = 5 * time.Second
)
