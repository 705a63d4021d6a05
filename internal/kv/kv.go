// Package kv provides the key-value store the ledger persists into: a
// single logical namespace of string keys to opaque byte values. It is the
// only package that touches the physical persistence medium.
package kv

import (
	"context"
	"fmt"
)

// Store is the persistence contract. Values are opaque; callers own
// serialization. Set either fully replaces the value under key or fails
// leaving the prior value intact.
type Store interface {
	// Get returns the value under key, with ok=false when absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Store operation names used in StorageError.
const (
	OpGet    = "get"
	OpSet    = "set"
	OpRemove = "remove"
	OpClear  = "clear"
)

// StorageError reports that the underlying medium rejected an operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
