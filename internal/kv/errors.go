package kv

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("kv: key not found")
	ErrStoreIO  = errors.New("kv: store i/o failed")
	ErrLocked   = errors.New("kv: store is in use by another process")
)

// StoreError reports a failed read or write against the backing store.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("kv: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreIO
}

func Wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Key: key, Err: err}
}
