package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/domain"

	"github.com/redis/go-redis/v9"
)

var _ application.RecordStore = (*Store)(nil)

type Store struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

// New returns a store keeping records under "<namespace>:<token>".
// A zero ttl keeps records until evicted by Redis itself.
func New(client *redis.Client, namespace string, ttl time.Duration) *Store {
	return &Store{Client: client, Prefix: namespace + ":", TTL: ttl}
}

type item struct {
	Digest    string    `json:"digest"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Store) key(token string) string { return s.Prefix + token }

func (s *Store) GetByToken(ctx context.Context, token string) (domain.IdempotencyRecord, bool, error) {
	raw, err := s.Client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		return domain.IdempotencyRecord{}, false, err
	}
	var it item
	if err := json.Unmarshal(raw, &it); err != nil {
		return domain.IdempotencyRecord{}, false, &application.StoreError{Op: "decode", Err: fmt.Errorf("redis item %q: %w", token, err)}
	}
	d, err := domain.ParseDigest(it.Digest)
	if err != nil {
		return domain.IdempotencyRecord{}, false, &application.StoreError{Op: "decode", Err: fmt.Errorf("redis item %q: %w", token, err)}
	}
	return domain.IdempotencyRecord{Token: token, Digest: d, CreatedAt: it.CreatedAt}, true, nil
}

func (s *Store) PutIfNew(ctx context.Context, rec domain.IdempotencyRecord) error {
	raw, err := json.Marshal(item{Digest: rec.Digest.String(), CreatedAt: rec.CreatedAt})
	if err != nil {
		return &application.StoreError{Op: "encode", Err: err}
	}
	ok, err := s.Client.SetNX(ctx, s.key(rec.Token), raw, s.TTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return application.ErrRecordExists
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
