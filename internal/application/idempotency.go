package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"idempotency-guard/internal/domain"

	"go.uber.org/zap"
)

// IdempotencyGuard decides whether a (token, payload) pair is a first attempt,
// a safe replay or a conflicting reuse of the token.
type IdempotencyGuard struct {
	store    RecordStore
	clock    Clock
	log      *zap.Logger
	observer Observer
}

type Option func(*IdempotencyGuard)

func WithClock(c Clock) Option        { return func(g *IdempotencyGuard) { g.clock = c } }
func WithLogger(l *zap.Logger) Option { return func(g *IdempotencyGuard) { g.log = l } }
func WithObserver(o Observer) Option  { return func(g *IdempotencyGuard) { g.observer = o } }

func NewIdempotencyGuard(store RecordStore, opts ...Option) *IdempotencyGuard {
	g := &IdempotencyGuard{store: store}
	for _, opt := range opts {
		opt(g)
	}
	if g.clock == nil {
		g.clock = realClock{}
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.observer == nil {
		g.observer = nopObserver{}
	}
	return g
}

// Evaluate checks token and payload against the store. A nil token disables
// deduplication and touches nothing. Store failures come back as *StoreError.
func (g *IdempotencyGuard) Evaluate(ctx context.Context, token *string, payload []byte) (domain.Outcome, error) {
	start := time.Now()
	out, err := g.evaluate(ctx, token, payload)
	if err != nil {
		return domain.Outcome{}, err
	}
	g.observer.ObserveOutcome(out.Kind, time.Since(start))
	return out, nil
}

func (g *IdempotencyGuard) evaluate(ctx context.Context, token *string, payload []byte) (domain.Outcome, error) {
	if token == nil {
		g.log.Debug("guard.no_token")
		return domain.Outcome{Kind: domain.OutcomeNoToken}, nil
	}
	tok, err := domain.NormalizeToken(*token)
	if err != nil {
		g.log.Info("guard.invalid_token", zap.Error(err))
		return domain.Outcome{}, err
	}
	digest := domain.ComputeDigest(payload)
	log := g.log.With(zap.String("token", tok), zap.Stringer("digest", digest))

	existing, found, err := g.store.GetByToken(ctx, tok)
	if err != nil {
		return domain.Outcome{}, g.fail(log, "get", err)
	}
	if found {
		return g.compare(log, existing, digest), nil
	}

	rec := domain.IdempotencyRecord{Token: tok, Digest: digest, CreatedAt: g.clock.Now()}
	err = g.store.PutIfNew(ctx, rec)
	switch {
	case err == nil:
		log.Info("guard.accepted")
		return domain.Outcome{Kind: domain.OutcomeAccepted, Token: tok, Digest: digest}, nil
	case errors.Is(err, ErrRecordExists):
		// Another first attempt created the record between our read and write.
		log.Info("guard.put_lost_race")
		winner, found, err := g.store.GetByToken(ctx, tok)
		if err != nil {
			return domain.Outcome{}, g.fail(log, "get", err)
		}
		if !found {
			return domain.Outcome{}, g.fail(log, "get", fmt.Errorf("record for token %q vanished after conditional put", tok))
		}
		return g.compare(log, winner, digest), nil
	default:
		return domain.Outcome{}, g.fail(log, "put", err)
	}
}

func (g *IdempotencyGuard) compare(log *zap.Logger, rec domain.IdempotencyRecord, digest domain.Digest) domain.Outcome {
	if rec.Matches(digest) {
		log.Info("guard.duplicate_confirmed")
		return domain.Outcome{Kind: domain.OutcomeDuplicateConfirmed, Token: rec.Token, Digest: digest}
	}
	log.Warn("guard.conflict", zap.Stringer("stored_digest", rec.Digest))
	return domain.Outcome{Kind: domain.OutcomeConflict, Token: rec.Token, Digest: digest}
}

func (g *IdempotencyGuard) fail(log *zap.Logger, op string, err error) error {
	g.observer.ObserveStoreError(op)
	log.Error("guard.store_failed", zap.String("op", op), zap.Error(err))
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return storeErr(op, err)
}

// Lookup returns the stored record for token without modifying anything.
func (g *IdempotencyGuard) Lookup(ctx context.Context, token string) (domain.IdempotencyRecord, error) {
	tok, err := domain.NormalizeToken(token)
	if err != nil {
		return domain.IdempotencyRecord{}, err
	}
	rec, found, err := g.store.GetByToken(ctx, tok)
	if err != nil {
		return domain.IdempotencyRecord{}, g.fail(g.log.With(zap.String("token", tok)), "get", err)
	}
	if !found {
		return domain.IdempotencyRecord{}, ErrNotFound
	}
	return rec, nil
}

// Ping reports store readiness when the store supports it.
func (g *IdempotencyGuard) Ping(ctx context.Context) error {
	if p, ok := g.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
