package worker

import (
	"context"
	"time"

	"idempotency-guard/internal/application"
	infraconfig "idempotency-guard/internal/infrastructure/config"

	"go.uber.org/zap"
)

var _ application.Worker = (*Sweeper)(nil)

// Sweeper deletes records older than TTL from stores without native expiry.
type Sweeper struct {
	Store application.RecordExpirer
	TTL   time.Duration

	PollEvery  time.Duration
	BatchLimit int
	Log        *zap.Logger
	Now        func() time.Time
}

func (w *Sweeper) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.PollEvery <= 0 {
		w.PollEvery = infraconfig.DefaultSweepEvery
	}
	if w.BatchLimit <= 0 {
		w.BatchLimit = infraconfig.DefaultSweepBatch
	}
	if w.Now == nil {
		w.Now = func() time.Time { return time.Now().UTC() }
	}

	t := time.NewTicker(w.PollEvery)
	defer t.Stop()

	log.Info("sweeper_started", zap.Duration("poll_every", w.PollEvery), zap.Duration("ttl", w.TTL))
	for {
		select {
		case <-ctx.Done():
			log.Info("sweeper_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

// tick drains expired records batch by batch until a short batch comes back.
func (w *Sweeper) tick(ctx context.Context, log *zap.Logger) int {
	cutoff := w.Now().Add(-w.TTL)
	total := 0
	for ctx.Err() == nil {
		n, err := w.Store.DeleteExpired(ctx, cutoff, w.BatchLimit)
		if err != nil {
			log.Warn("sweep_failed", zap.Error(err), zap.Int("deleted", total))
			return total
		}
		total += n
		if n < w.BatchLimit {
			break
		}
	}
	if total > 0 {
		log.Info("sweep_done", zap.Int("deleted", total), zap.Time("cutoff", cutoff))
	}
	return total
}
