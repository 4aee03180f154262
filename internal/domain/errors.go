package domain

import "errors"

var (
	ErrInvalidToken  = errors.New("invalid idempotency token")
	ErrInvalidDigest = errors.New("invalid digest")
)
