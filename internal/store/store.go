// Package store provides the keyed byte store behind selection persistence.
//
// Three backends share one interface: Memory for tests and throwaway runs,
// SQLite for a single local process, and Postgres when several server
// instances must see the same saved selection.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// KeyValue stores opaque values under string keys. Get reports found=false
// for a key that was never set.
type KeyValue interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver   string
	DSN      string        // file path for sqlite, connection URL for postgres
	Timeout  time.Duration // per-operation limit; zero means none
	MaxConns int           // postgres pool size
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (KeyValue, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, opts.DSN, opts.Timeout)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN, opts.MaxConns, opts.Timeout)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
