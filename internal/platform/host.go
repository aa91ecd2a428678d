package platform

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/cristianoliveira/pushbell/internal/logging"
	"github.com/cristianoliveira/pushbell/internal/permission"
	"github.com/google/uuid"
)

// Host implements Platform for one scope on top of a Backend, a Registry and a Prompter.
type Host struct {
	scope    string
	backend  Backend
	registry Registry
	prompter Prompter
	logger   logging.Logger
	now      func() time.Time
	newID    func() uuid.UUID
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the logger used for platform events.
func WithLogger(l logging.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClock overrides the time source used for registration timestamps.
func WithClock(now func() time.Time) HostOption {
	return func(h *Host) {
		h.now = now
	}
}

// NewHost creates a Host. All dependencies are required.
func NewHost(scope string, backend Backend, registry Registry, prompter Prompter, opts ...HostOption) *Host {
	if backend == nil || registry == nil || prompter == nil {
		panic("platform: NewHost requires backend, registry and prompter")
	}
	h := &Host{
		scope:    scope,
		backend:  backend,
		registry: registry,
		prompter: prompter,
		logger:   logging.Nop(),
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "platform", "backend", backend.Name(), "scope", scope)
	return h
}

// Name returns the backend name.
func (h *Host) Name() string {
	return h.backend.Name()
}

// Scope returns the scope this host serves.
func (h *Host) Scope() string {
	return h.scope
}

// Supported reports whether the backend can display notifications.
func (h *Host) Supported() bool {
	return h.backend.Available()
}

// Permission returns the stored decision for the scope.
func (h *Host) Permission(ctx context.Context) (permission.State, error) {
	state, err := h.registry.Permission(ctx, h.scope)
	if err != nil {
		return permission.Default, fmt.Errorf("platform: read permission: %w", err)
	}
	return state, nil
}

// RequestPermission prompts only while the scope is undecided.
func (h *Host) RequestPermission(ctx context.Context) (permission.State, error) {
	current, err := h.Permission(ctx)
	if err != nil {
		return permission.Default, err
	}
	if current != permission.Default {
		h.logger.Debug("permission already decided", "state", current)
		return current, nil
	}
	if !h.Supported() {
		return current, ErrUnsupported
	}

	granted, err := h.prompter.Prompt(ctx, PromptRequest{Scope: h.scope, Backend: h.backend.Name()})
	if err != nil {
		return current, fmt.Errorf("platform: permission prompt: %w", err)
	}
	state := permission.Denied
	if granted {
		state = permission.Granted
	}
	if err := h.registry.SetPermission(ctx, h.scope, state); err != nil {
		return current, fmt.Errorf("platform: store permission: %w", err)
	}
	h.logger.Info("permission decided", "state", state)
	return state, nil
}

// Register records the background worker for the scope.
func (h *Host) Register(ctx context.Context) error {
	if !h.Supported() {
		return ErrUnsupported
	}
	created, err := h.registry.RegisterWorker(ctx, h.scope, h.backend.Name())
	if err != nil {
		return fmt.Errorf("platform: register worker: %w", err)
	}
	h.logger.Debug("worker registered", "created", created)
	return nil
}

// Subscribe creates a registration and stores it in place of any previous one.
func (h *Host) Subscribe(ctx context.Context) (*Subscription, error) {
	if !h.Supported() {
		return nil, ErrUnsupported
	}
	if err := h.requireGranted(ctx); err != nil {
		return nil, err
	}

	id := h.newID()
	secret := h.newID()
	sub := Subscription{
		ID:        id.String(),
		Scope:     h.scope,
		Backend:   h.backend.Name(),
		Endpoint:  fmt.Sprintf("%s://%s/%s", h.backend.Name(), h.scope, id),
		Auth:      base64.RawURLEncoding.EncodeToString(secret[:]),
		CreatedAt: h.now().UTC(),
	}
	if err := h.registry.SaveSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("platform: save subscription: %w", err)
	}
	h.logger.Info("subscription created", "id", sub.ID, "endpoint", sub.Endpoint, "auth", sub.Auth)
	return &sub, nil
}

// Subscription returns the stored registration of the scope, or nil.
func (h *Host) Subscription(ctx context.Context) (*Subscription, error) {
	sub, err := h.registry.Subscription(ctx, h.scope)
	if err != nil {
		return nil, fmt.Errorf("platform: read subscription: %w", err)
	}
	return sub, nil
}

// Unsubscribe drops the stored registration.
func (h *Host) Unsubscribe(ctx context.Context) (bool, error) {
	removed, err := h.registry.DeleteSubscription(ctx, h.scope)
	if err != nil {
		return false, fmt.Errorf("platform: delete subscription: %w", err)
	}
	return removed, nil
}

// Show displays a notification through the backend.
func (h *Host) Show(ctx context.Context, title string, opts Options) error {
	if !h.Supported() {
		return ErrUnsupported
	}
	if err := h.requireGranted(ctx); err != nil {
		return err
	}
	if err := h.backend.Display(ctx, title, opts); err != nil {
		return fmt.Errorf("platform: display: %w", err)
	}
	return nil
}

// Reset returns the scope to the undecided state and drops its registration.
func (h *Host) Reset(ctx context.Context) error {
	if err := h.registry.SetPermission(ctx, h.scope, permission.Default); err != nil {
		return fmt.Errorf("platform: reset permission: %w", err)
	}
	if _, err := h.registry.DeleteSubscription(ctx, h.scope); err != nil {
		return fmt.Errorf("platform: reset subscription: %w", err)
	}
	h.logger.Info("scope reset")
	return nil
}

func (h *Host) requireGranted(ctx context.Context) error {
	state, err := h.Permission(ctx)
	if err != nil {
		return err
	}
	if state != permission.Granted {
		return fmt.Errorf("%w: permission is %s", ErrPermissionNotGranted, state)
	}
	return nil
}
