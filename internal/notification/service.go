// Package notification owns the push notification lifecycle: permission,
// subscription and dispatch through a platform.Platform.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cristianoliveira/pushbell/internal/hooks"
	"github.com/cristianoliveira/pushbell/internal/logging"
	"github.com/cristianoliveira/pushbell/internal/permission"
	"github.com/cristianoliveira/pushbell/internal/platform"
)

// ErrEmptyTitle is returned when a notification has no title.
var ErrEmptyTitle = errors.New("notification title cannot be empty")

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHooks sets the hook executor run around lifecycle events.
func WithHooks(h hooks.Executor) Option {
	return func(s *Service) {
		if h != nil {
			s.hooks = h
		}
	}
}

// Service is the single owner of a platform's notification capability. It
// holds at most one subscription handle, in memory only.
type Service struct {
	platform platform.Platform
	hooks    hooks.Executor
	log      logging.Logger

	initMu      sync.Mutex
	initialized bool

	mu           sync.Mutex
	subscription *platform.Subscription
}

// New returns a Service over p. Construction has no side effects.
// It panics if p is nil.
func New(p platform.Platform, opts ...Option) *Service {
	if p == nil {
		panic("notification.New: platform dependency cannot be nil")
	}
	s := &Service{
		platform: p,
		hooks:    hooks.Nop{},
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "notification")
	return s
}

// Backend returns the platform name.
func (s *Service) Backend() string {
	return s.platform.Name()
}

// Supported reports whether the platform can display notifications.
func (s *Service) Supported() bool {
	return s.platform.Supported()
}

// Permission returns the platform permission without prompting.
func (s *Service) Permission(ctx context.Context) (permission.State, error) {
	return s.platform.Permission(ctx)
}

// Init registers the background handler. After the first success further
// calls do nothing. An unsupported platform is logged and left uninitialized.
func (s *Service) Init(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initialized {
		return nil
	}
	if !s.platform.Supported() {
		s.log.Info("init skipped: notifications unsupported")
		return nil
	}
	if err := s.platform.Register(ctx); err != nil {
		s.log.Error("init failed", "error", err)
		return fmt.Errorf("notification: init: %w", err)
	}
	s.initialized = true
	s.log.Debug("initialized")
	return nil
}

// Initialized reports whether Init has succeeded.
func (s *Service) Initialized() bool {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	return s.initialized
}

// RequestPermission asks the platform for permission and reports whether the
// resulting state is granted. Platform errors are logged and read as false.
func (s *Service) RequestPermission(ctx context.Context) bool {
	granted, _ := s.AskPermission(ctx)
	return granted
}

// AskPermission is RequestPermission for callers that must tell an
// interruption from a decision. It returns an error only when the prompt was
// aborted or ctx ended before an answer; other platform failures read as false.
func (s *Service) AskPermission(ctx context.Context) (bool, error) {
	before, err := s.platform.Permission(ctx)
	if err != nil {
		if interrupted(ctx, err) {
			return false, fmt.Errorf("notification: request permission: %w", err)
		}
		s.log.Warn("read permission failed", "error", err)
		before = permission.Default
	}
	state, err := s.platform.RequestPermission(ctx)
	if err != nil {
		if interrupted(ctx, err) {
			s.log.Info("permission request interrupted", "error", err)
			return false, fmt.Errorf("notification: request permission: %w", err)
		}
		s.log.Error("permission request failed", "error", err)
		return false, nil
	}
	s.log.Info("permission requested", "state", state)
	if state != before {
		s.runHook(ctx, hooks.PermissionChanged, map[string]string{
			"PUSHBELL_PERMISSION":          state.String(),
			"PUSHBELL_PREVIOUS_PERMISSION": before.String(),
		})
	}
	return state == permission.Granted, nil
}

// Subscribe creates a push registration. It never requests permission; the
// caller must obtain it first. On success the new handle replaces the held
// one. On failure the held handle is left as it was.
func (s *Service) Subscribe(ctx context.Context) (*platform.Subscription, error) {
	if !s.platform.Supported() {
		return nil, platform.ErrUnsupported
	}
	state, err := s.platform.Permission(ctx)
	if err != nil {
		return nil, fmt.Errorf("notification: subscribe: %w", err)
	}
	if state != permission.Granted {
		return nil, fmt.Errorf("notification: subscribe: %w", platform.ErrPermissionNotGranted)
	}

	sub, err := s.platform.Subscribe(ctx)
	if err != nil {
		s.log.Error("subscribe failed", "error", err)
		return nil, fmt.Errorf("notification: subscribe: %w", err)
	}
	if sub == nil {
		return nil, errors.New("notification: subscribe: platform returned no subscription")
	}

	held := *sub
	s.mu.Lock()
	s.subscription = &held
	s.mu.Unlock()

	s.log.Info("subscribed", "id", sub.ID, "endpoint", sub.Endpoint)
	s.runHook(ctx, hooks.PostSubscribe, subscriptionEnv(sub))
	out := held
	return &out, nil
}

// Unsubscribe drops the platform registration and the held handle. It
// reports whether a registration existed.
func (s *Service) Unsubscribe(ctx context.Context) (bool, error) {
	s.mu.Lock()
	prev := s.subscription
	s.mu.Unlock()

	removed, err := s.platform.Unsubscribe(ctx)
	if err != nil {
		return false, fmt.Errorf("notification: unsubscribe: %w", err)
	}

	s.mu.Lock()
	if s.subscription == prev {
		s.subscription = nil
	}
	s.mu.Unlock()

	if removed || prev != nil {
		s.log.Info("unsubscribed")
		env := map[string]string{}
		if prev != nil {
			env = subscriptionEnv(prev)
		}
		s.runHook(ctx, hooks.PostUnsubscribe, env)
	}
	return removed || prev != nil, nil
}

// Subscription returns a copy of the held handle, or nil.
func (s *Service) Subscription() *platform.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscription == nil {
		return nil
	}
	cp := *s.subscription
	return &cp
}

// StoredSubscription returns the registration the platform keeps for the
// scope. It is not adopted as the held handle.
func (s *Service) StoredSubscription(ctx context.Context) (*platform.Subscription, error) {
	sub, err := s.platform.Subscription(ctx)
	if err != nil {
		return nil, fmt.Errorf("notification: stored subscription: %w", err)
	}
	return sub, nil
}

// SendNotification displays a notification. Failures are returned and never
// retried. A failing pre-send hook in abort mode cancels the send.
func (s *Service) SendNotification(ctx context.Context, title string, opts platform.Options) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if !s.platform.Supported() {
		return platform.ErrUnsupported
	}
	state, err := s.platform.Permission(ctx)
	if err != nil {
		return fmt.Errorf("notification: send: %w", err)
	}
	if state != permission.Granted {
		return fmt.Errorf("notification: send: %w", platform.ErrPermissionNotGranted)
	}

	env := sendEnv(title, opts)
	if err := s.hooks.Run(ctx, hooks.PreSend, env); err != nil {
		return fmt.Errorf("notification: send: %w", err)
	}
	if err := s.platform.Show(ctx, title, opts); err != nil {
		s.log.Error("send failed", "error", err, "tag", opts.Tag)
		return fmt.Errorf("notification: send: %w", err)
	}
	s.log.Info("notification sent", "tag", opts.Tag, "urgency", string(opts.Urgency))
	s.runHook(ctx, hooks.PostSend, env)
	return nil
}

// Reset returns the scope to the undecided permission state and drops every
// registration, including the held handle.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.platform.Reset(ctx); err != nil {
		return fmt.Errorf("notification: reset: %w", err)
	}
	s.mu.Lock()
	s.subscription = nil
	s.mu.Unlock()
	s.log.Info("reset")
	return nil
}

// interrupted reports whether err means nobody answered, as opposed to a
// platform failure.
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, platform.ErrPromptAborted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// runHook runs a hook whose failure cannot undo the completed operation.
func (s *Service) runHook(ctx context.Context, point string, env map[string]string) {
	if err := s.hooks.Run(ctx, point, env); err != nil {
		s.log.Warn("hook failed", "point", point, "error", err)
	}
}

func subscriptionEnv(sub *platform.Subscription) map[string]string {
	return map[string]string{
		"PUSHBELL_SUBSCRIPTION_ID": sub.ID,
		"PUSHBELL_SCOPE":           sub.Scope,
		"PUSHBELL_BACKEND":         sub.Backend,
		"PUSHBELL_ENDPOINT":        sub.Endpoint,
	}
}

func sendEnv(title string, opts platform.Options) map[string]string {
	urgency := opts.Urgency
	if urgency == "" {
		urgency = platform.UrgencyNormal
	}
	return map[string]string{
		"PUSHBELL_TITLE":   title,
		"PUSHBELL_BODY":    opts.Body,
		"PUSHBELL_TAG":     opts.Tag,
		"PUSHBELL_URGENCY": string(urgency),
	}
}
