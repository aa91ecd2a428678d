package platform

import (
	"context"
	"sync"

	"github.com/cristianoliveira/pushbell/internal/permission"
)

// MemoryRegistry is a Registry that lives as long as the process.
type MemoryRegistry struct {
	mu            sync.Mutex
	permissions   map[string]permission.State
	workers       map[string]string
	subscriptions map[string]Subscription
}

// NewMemoryRegistry returns an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		permissions:   make(map[string]permission.State),
		workers:       make(map[string]string),
		subscriptions: make(map[string]Subscription),
	}
}

func (r *MemoryRegistry) Permission(ctx context.Context, scope string) (permission.State, error) {
	if err := ctx.Err(); err != nil {
		return permission.Default, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.permissions[scope]; ok {
		return s, nil
	}
	return permission.Default, nil
}

func (r *MemoryRegistry) SetPermission(ctx context.Context, scope string, state permission.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !state.Valid() {
		return permission.ErrInvalidState
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permissions[scope] = state
	return nil
}

func (r *MemoryRegistry) RegisterWorker(ctx context.Context, scope, backend string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.workers[scope]; ok && existing == backend {
		return false, nil
	}
	r.workers[scope] = backend
	return true, nil
}

func (r *MemoryRegistry) SaveSubscription(ctx context.Context, sub Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscriptions[sub.Scope] = sub
	return nil
}

func (r *MemoryRegistry) Subscription(ctx context.Context, scope string) (*Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subscriptions[scope]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *MemoryRegistry) DeleteSubscription(ctx context.Context, scope string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subscriptions[scope]
	delete(r.subscriptions, scope)
	return ok, nil
}
