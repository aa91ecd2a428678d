// Package sqlite provides a SQLite-backed platform registry: per-scope
// permission decisions, worker registrations and push registrations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/pushbell/internal/permission"
	"github.com/cristianoliveira/pushbell/internal/platform"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS permissions (
	scope      TEXT PRIMARY KEY,
	state      TEXT NOT NULL CHECK (state IN ('default', 'granted', 'denied')),
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS workers (
	scope         TEXT PRIMARY KEY,
	backend       TEXT NOT NULL,
	registered_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subscriptions (
	scope      TEXT PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	backend    TEXT NOT NULL,
	endpoint   TEXT NOT NULL,
	auth       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

const timeLayout = time.RFC3339Nano

var _ platform.Registry = (*Registry)(nil)

// Registry implements platform.Registry on a SQLite database file.
type Registry struct {
	db  *sql.DB
	now func() time.Time
}

// NewRegistry opens (creating if needed) the registry database at dbPath.
func NewRegistry(dbPath string) (*Registry, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, ErrEmptyPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite registry: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite registry: open db: %w", err)
	}
	// One writer keeps concurrent CLI invocations from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	r := &Registry{db: db, now: time.Now}
	if err := r.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the underlying SQLite connection.
func (r *Registry) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Registry) init() error {
	if _, err := r.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite registry: set busy timeout: %w", err)
	}
	if _, err := r.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite registry: create schema: %w", err)
	}
	return nil
}

func (r *Registry) stamp() string {
	return r.now().UTC().Format(timeLayout)
}

// Permission returns the stored decision for scope, or permission.Default.
func (r *Registry) Permission(ctx context.Context, scope string) (permission.State, error) {
	if scope == "" {
		return permission.Default, ErrEmptyScope
	}
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT state FROM permissions WHERE scope = ?`, scope).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return permission.Default, nil
	}
	if err != nil {
		return permission.Default, fmt.Errorf("sqlite registry: get permission: %w", err)
	}
	state, err := permission.Parse(raw)
	if err != nil {
		return permission.Default, fmt.Errorf("%w: %v", ErrCorruptRow, err)
	}
	return state, nil
}

// SetPermission stores the decision for scope.
func (r *Registry) SetPermission(ctx context.Context, scope string, state permission.State) error {
	if scope == "" {
		return ErrEmptyScope
	}
	if !state.Valid() {
		return fmt.Errorf("sqlite registry: set permission: %w: %q", permission.ErrInvalidState, state)
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO permissions (scope, state, updated_at) VALUES (?, ?, ?)
ON CONFLICT(scope) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		scope, string(state), r.stamp())
	if err != nil {
		return fmt.Errorf("sqlite registry: set permission: %w", err)
	}
	return nil
}

// RegisterWorker records backend as the worker of scope. It reports false
// when the same backend was already registered.
func (r *Registry) RegisterWorker(ctx context.Context, scope, backend string) (bool, error) {
	if scope == "" {
		return false, ErrEmptyScope
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO workers (scope, backend, registered_at) VALUES (?, ?, ?)
ON CONFLICT(scope) DO UPDATE SET backend = excluded.backend, registered_at = excluded.registered_at
WHERE workers.backend <> excluded.backend`,
		scope, backend, r.stamp())
	if err != nil {
		return false, fmt.Errorf("sqlite registry: register worker: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite registry: register worker: %w", err)
	}
	return n > 0, nil
}

// Worker returns the backend registered for scope, or "" when none is.
func (r *Registry) Worker(ctx context.Context, scope string) (string, error) {
	var backend string
	err := r.db.QueryRowContext(ctx, `SELECT backend FROM workers WHERE scope = ?`, scope).Scan(&backend)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sqlite registry: get worker: %w", err)
	}
	return backend, nil
}

// SaveSubscription stores sub as the only registration of its scope.
func (r *Registry) SaveSubscription(ctx context.Context, sub platform.Subscription) error {
	if sub.Scope == "" {
		return ErrEmptyScope
	}
	if strings.TrimSpace(sub.ID) == "" {
		return fmt.Errorf("sqlite registry: save subscription: empty id")
	}
	createdAt := sub.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO subscriptions (scope, id, backend, endpoint, auth, created_at) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(scope) DO UPDATE SET
	id = excluded.id,
	backend = excluded.backend,
	endpoint = excluded.endpoint,
	auth = excluded.auth,
	created_at = excluded.created_at`,
		sub.Scope, sub.ID, sub.Backend, sub.Endpoint, sub.Auth, createdAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("sqlite registry: save subscription: %w", err)
	}
	return nil
}

// Subscription returns the registration of scope, or nil when there is none.
func (r *Registry) Subscription(ctx context.Context, scope string) (*platform.Subscription, error) {
	if scope == "" {
		return nil, ErrEmptyScope
	}
	var (
		sub       platform.Subscription
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT scope, id, backend, endpoint, auth, created_at FROM subscriptions WHERE scope = ?`, scope).
		Scan(&sub.Scope, &sub.ID, &sub.Backend, &sub.Endpoint, &sub.Auth, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite registry: get subscription: %w", err)
	}
	sub.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: created_at %q", ErrCorruptRow, createdAt)
	}
	return &sub, nil
}

// DeleteSubscription removes the registration of scope and reports whether one existed.
func (r *Registry) DeleteSubscription(ctx context.Context, scope string) (bool, error) {
	if scope == "" {
		return false, ErrEmptyScope
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE scope = ?`, scope)
	if err != nil {
		return false, fmt.Errorf("sqlite registry: delete subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite registry: delete subscription: %w", err)
	}
	return n > 0, nil
}
