package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/domain"
)

var (
	_ application.RecordStore   = (*Store)(nil)
	_ application.RecordExpirer = (*Store)(nil)
)

// Store keeps records in process memory. Suitable for a single instance only.
type Store struct {
	mu      sync.RWMutex
	records map[string]domain.IdempotencyRecord
}

func New() *Store {
	return &Store{records: make(map[string]domain.IdempotencyRecord)}
}

func (s *Store) GetByToken(_ context.Context, token string) (domain.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[token]
	return rec, ok, nil
}

func (s *Store) PutIfNew(_ context.Context, rec domain.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.Token]; exists {
		return application.ErrRecordExists
	}
	s.records[rec.Token] = rec
	return nil
}

// DeleteExpired removes up to limit records created before the cutoff, oldest first.
func (s *Store) DeleteExpired(_ context.Context, before time.Time, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []domain.IdempotencyRecord
	for _, rec := range s.records {
		if rec.CreatedAt.Before(before) {
			expired = append(expired, rec)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].CreatedAt.Before(expired[j].CreatedAt) })
	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	for _, rec := range expired {
		delete(s.records, rec.Token)
	}
	return len(expired), nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
