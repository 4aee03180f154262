package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/domain"
	"idempotency-guard/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	_ application.RecordStore   = (*RecordRepo)(nil)
	_ application.RecordExpirer = (*RecordRepo)(nil)
)

// RecordRepo stores idempotency records in one namespace of the
// idempotency_records table.
type RecordRepo struct {
	db        *DB
	namespace string
}

func NewRecordRepo(db *DB, namespace string) *RecordRepo {
	return &RecordRepo{db: db, namespace: namespace}
}

func (r *RecordRepo) GetByToken(ctx context.Context, token string) (domain.IdempotencyRecord, bool, error) {
	const q = `
        SELECT digest, created_at
        FROM idempotency_records
        WHERE namespace=$1 AND token=$2`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "idempotency_record"),
		zap.String("operation", "GetByToken"),
		zap.String("token", token),
	)
	log.Debug("sql.query_start")
	var raw []byte
	var createdAt time.Time
	err := r.db.Pool.QueryRow(ctx, q, r.namespace, token).Scan(&raw, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debug("sql.query_no_rows")
		return domain.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return domain.IdempotencyRecord{}, false, err
	}
	d, err := domain.DigestFromBytes(raw)
	if err != nil {
		return domain.IdempotencyRecord{}, false, &application.StoreError{Op: "decode", Err: fmt.Errorf("row %q: %w", token, err)}
	}
	log.Debug("sql.query_success")
	return domain.IdempotencyRecord{Token: token, Digest: d, CreatedAt: createdAt}, true, nil
}

func (r *RecordRepo) PutIfNew(ctx context.Context, rec domain.IdempotencyRecord) error {
	const ins = `
        INSERT INTO idempotency_records(namespace, token, digest, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (namespace, token) DO NOTHING`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "idempotency_record"),
		zap.String("operation", "PutIfNew"),
		zap.String("token", rec.Token),
	)
	log.Debug("sql.exec_start")
	tag, err := r.db.Pool.Exec(ctx, ins, r.namespace, rec.Token, rec.Digest.Bytes(), rec.CreatedAt)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Info("sql.exec_conflict")
		return application.ErrRecordExists
	}
	log.Debug("sql.exec_success")
	return nil
}

// DeleteExpired removes at most limit of the oldest records created before the cutoff.
func (r *RecordRepo) DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error) {
	const del = `
      WITH cte AS (
        SELECT token
        FROM idempotency_records
        WHERE namespace = $1 AND created_at < $2
        ORDER BY created_at
        LIMIT $3
        FOR UPDATE SKIP LOCKED
      )
      DELETE FROM idempotency_records r
      USING cte
      WHERE r.namespace = $1 AND r.token = cte.token`
	tag, err := r.db.Pool.Exec(ctx, del, r.namespace, before, limit)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *RecordRepo) Ping(ctx context.Context) error { return r.db.Ping(ctx) }
