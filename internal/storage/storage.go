// Package storage provides the small key/value document store the price
// history sits on. The interface keeps the core logic testable without a
// real persistence backend.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
// Callers must tolerate it on first run.
var ErrKeyNotFound = errors.New("key not found")

type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
