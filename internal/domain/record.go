package domain

import "time"

type IdempotencyRecord struct {
	Token     string
	Digest    Digest
	CreatedAt time.Time
}

// Matches reports whether payload hashes to the stored digest.
func (r IdempotencyRecord) Matches(d Digest) bool { return r.Digest == d }
