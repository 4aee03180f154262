package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"idempotency-guard/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
)

type fakeRecordStore struct {
	mu      sync.Mutex
	records map[string]domain.IdempotencyRecord
	gets    int
	puts    int
	getErr  error
	putErr  error
	// afterGet runs outside the lock once GetByToken has read the map.
	afterGet func()
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: map[string]domain.IdempotencyRecord{}}
}

func (f *fakeRecordStore) GetByToken(_ context.Context, token string) (domain.IdempotencyRecord, bool, error) {
	f.mu.Lock()
	f.gets++
	if f.getErr != nil {
		f.mu.Unlock()
		return domain.IdempotencyRecord{}, false, f.getErr
	}
	rec, ok := f.records[token]
	hook := f.afterGet
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return rec, ok, nil
}

func (f *fakeRecordStore) PutIfNew(_ context.Context, rec domain.IdempotencyRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	if _, ok := f.records[rec.Token]; ok {
		return ErrRecordExists
	}
	f.records[rec.Token] = rec
	return nil
}

func (f *fakeRecordStore) counts() (gets, puts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets, f.puts
}

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []domain.OutcomeKind
	failures []string
}

func (o *recordingObserver) ObserveOutcome(kind domain.OutcomeKind, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, kind)
}

func (o *recordingObserver) ObserveStoreError(op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, op)
}

func strPtr(s string) *string { return &s }
