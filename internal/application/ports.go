package application

import (
	"context"
	"time"

	"idempotency-guard/internal/domain"
)

// RecordStore persists idempotency records keyed by token.
type RecordStore interface {
	// GetByToken returns the record and true, or false when none exists.
	GetByToken(ctx context.Context, token string) (domain.IdempotencyRecord, bool, error)
	// PutIfNew creates the record only if the token is absent.
	// It returns ErrRecordExists when another record already holds the token.
	PutIfNew(ctx context.Context, rec domain.IdempotencyRecord) error
}

// RecordExpirer is implemented by stores without native expiry.
type RecordExpirer interface {
	DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error)
}

// Pinger is implemented by stores that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Observer receives guard results, e.g. for metrics.
type Observer interface {
	ObserveOutcome(kind domain.OutcomeKind, elapsed time.Duration)
	ObserveStoreError(op string)
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type nopObserver struct{}

func (nopObserver) ObserveOutcome(domain.OutcomeKind, time.Duration) {}
func (nopObserver) ObserveStoreError(string)                         {}
