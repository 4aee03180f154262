package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Digest is the 128-bit content fingerprint of a request body.
type Digest [md5.Size]byte

// ComputeDigest hashes the exact payload bytes.
func ComputeDigest(payload []byte) Digest {
	return Digest(md5.Sum(payload))
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

func (d Digest) Bytes() []byte { return d[:] }

func (d Digest) IsZero() bool { return d == Digest{} }

// ParseDigest decodes the hex form produced by String.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(len(d)) {
		return Digest{}, fmt.Errorf("%w: length %d", ErrInvalidDigest, len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("%w: %v", ErrInvalidDigest, err)
	}
	return d, nil
}

// DigestFromBytes copies a raw 16-byte value, as stored in bytea columns.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != len(d) {
		return Digest{}, fmt.Errorf("%w: length %d", ErrInvalidDigest, len(b))
	}
	copy(d[:], b)
	return d, nil
}
