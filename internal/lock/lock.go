// Package lock serializes payout operations per payment account. Ledger
// processing and transfer aggregation for one account must not interleave,
// across processes as well as within one.
package lock

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// AccountLocker runs fn while holding an exclusive lock on the account. The
// lock is released on every exit path, including panics inside fn.
type AccountLocker interface {
	WithLock(ctx context.Context, accountKey string, fn func(ctx context.Context) error) error
}

// PostgresLocker takes session-scoped advisory locks keyed by the account.
// All processes sharing the database serialize on the same key.
type PostgresLocker struct {
	db *sql.DB
}

func NewPostgresLocker(db *sql.DB) *PostgresLocker {
	return &PostgresLocker{db: db}
}

func (l *PostgresLocker) WithLock(ctx context.Context, accountKey string, fn func(ctx context.Context) error) error {
	// The lock must be released on the same session it was taken on, so the
	// whole critical section runs on one pinned connection.
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for account lock: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock(hashtext($1))`, accountKey); err != nil {
		return fmt.Errorf("failed to lock account %s: %w", accountKey, err)
	}
	defer conn.ExecContext(ctx, `SELECT pg_advisory_unlock(hashtext($1))`, accountKey)

	return fn(ctx)
}

// MemoryLocker serializes within a single process. Used in tests and by the
// in-memory wiring.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *MemoryLocker) WithLock(ctx context.Context, accountKey string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[accountKey]
	if !ok {
		m = &sync.Mutex{}
		l.locks[accountKey] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}
