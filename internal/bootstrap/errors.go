package bootstrap

import "errors"

var (
	ErrMissingDBURL = errors.New("DATABASE_URL is required for STORE_BACKEND=pg")
	ErrNoExpirer    = errors.New("store backend expires records natively; nothing to sweep")
	ErrNoTTL        = errors.New("IDEMPOTENCY_TTL_MS must be positive to run the sweeper")
)
