package httpserver

import (
	"context"
	"errors"
	"net/http"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/domain"
	"idempotency-guard/internal/infrastructure/memstore"
)

var _ application.RecordStore = (*failingStore)(nil)

type failingStore struct{ err error }

func (f failingStore) GetByToken(context.Context, string) (domain.IdempotencyRecord, bool, error) {
	return domain.IdempotencyRecord{}, false, f.err
}

func (f failingStore) PutIfNew(context.Context, domain.IdempotencyRecord) error { return f.err }

func (f failingStore) Ping(context.Context) error { return f.err }

func setup(opts ...ServerOption) (http.Handler, *memstore.Store) {
	store := memstore.New()
	srv := NewServer(application.NewIdempotencyGuard(store), opts...)
	return NewRouter(srv), store
}

func setupFailing() http.Handler {
	store := failingStore{err: errors.New("dial tcp 10.0.0.1:8000: connection refused")}
	return NewRouter(NewServer(application.NewIdempotencyGuard(store)))
}
