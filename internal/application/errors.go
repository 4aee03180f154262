package application

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ErrRecordExists is returned by RecordStore.PutIfNew when the token is already taken.
var ErrRecordExists = errors.New("record already exists")

// StoreError reports a failed read or write against the record store,
// including failures to encode or decode the stored item.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
