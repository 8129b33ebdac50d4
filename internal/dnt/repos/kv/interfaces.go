// Package kv defines the opaque key/value persistence the settings and
// domain lists are stored in. Values are JSON documents namespaced to
// this tool.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store is closed")

// Store is a namespaced key/value store. Get reports found=false for a
// missing key without an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Stats carries counts reported by a backend.
type Stats struct {
	Keys    uint64
	Version uint64 // bumped on every write
}

// StatsReporter is implemented by backends that can report Stats.
type StatsReporter interface {
	Stats() Stats
}
