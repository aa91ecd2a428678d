package notification

import (
	"context"
	"sync"

	"github.com/cristianoliveira/pushbell/internal/logging"
	"github.com/cristianoliveira/pushbell/internal/permission"
	"github.com/cristianoliveira/pushbell/internal/platform"
)

// Notifier is the service surface the Controller drives.
type Notifier interface {
	Supported() bool
	Permission(ctx context.Context) (permission.State, error)
	Init(ctx context.Context) error
	AskPermission(ctx context.Context) (bool, error)
	Subscribe(ctx context.Context) (*platform.Subscription, error)
	Unsubscribe(ctx context.Context) (bool, error)
	SendNotification(ctx context.Context, title string, opts platform.Options) error
	Reset(ctx context.Context) error
}

// Snapshot is the observable state of a Controller.
type Snapshot struct {
	Supported    bool                   `json:"supported"`
	Permission   permission.State       `json:"permission"`
	Phase        permission.Phase       `json:"-"`
	Subscription *platform.Subscription `json:"subscription"`
}

// Controller mirrors the service state for presentation code and sequences
// the permission-then-subscribe flow. The mirror is refreshed only when one
// of its operations completes.
type Controller struct {
	svc Notifier
	log logging.Logger

	mu         sync.Mutex
	supported  bool
	permission permission.State
	flow       permission.Flow
	sub        *platform.Subscription
	listeners  map[int]func(Snapshot)
	nextID     int

	initDone chan struct{}
	initErr  error
}

// NewController reads support and permission synchronously and then starts
// svc.Init in the background. A nil logger disables logging.
func NewController(ctx context.Context, svc Notifier, log logging.Logger) *Controller {
	if svc == nil {
		panic("notification.NewController: service dependency cannot be nil")
	}
	if log == nil {
		log = logging.Nop()
	}
	c := &Controller{
		svc:        svc,
		log:        log.With("component", "controller"),
		supported:  svc.Supported(),
		permission: permission.Default,
		listeners:  make(map[int]func(Snapshot)),
		initDone:   make(chan struct{}),
	}
	if c.supported {
		state, err := svc.Permission(ctx)
		if err != nil {
			c.log.Warn("read permission failed", "error", err)
		} else {
			c.permission = state
		}
	}
	c.flow = permission.NewFlow(c.permission)

	go func() {
		defer close(c.initDone)
		if err := svc.Init(ctx); err != nil {
			c.log.Error("background init failed", "error", err)
			c.mu.Lock()
			c.initErr = err
			c.mu.Unlock()
		}
	}()
	return c
}

// Initialized is closed once the background Init returns.
func (c *Controller) Initialized() <-chan struct{} {
	return c.initDone
}

// InitErr returns the background Init error. It is nil until Initialized is closed.
func (c *Controller) InitErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErr
}

// IsSupported is the support flag read at setup.
func (c *Controller) IsSupported() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supported
}

// Permission returns the mirrored permission.
func (c *Controller) Permission() permission.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.permission
}

// Phase returns the permission flow phase.
func (c *Controller) Phase() permission.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flow.Phase()
}

// Subscription returns a copy of the mirrored subscription, or nil.
func (c *Controller) Subscription() *platform.Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySubscription(c.sub)
}

// Snapshot returns the whole mirrored state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// OnChange registers fn to receive a snapshot after every mirror change.
// The returned function removes it.
func (c *Controller) OnChange(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// RequestPermission delegates to the service and mirrors the outcome as
// granted or denied. It returns the service's answer.
func (c *Controller) RequestPermission(ctx context.Context) bool {
	granted, _ := c.AskPermission(ctx)
	return granted
}

// AskPermission is RequestPermission with interruptions reported. An
// interrupted request leaves the mirror as it was and returns the mirrored
// answer with the error.
func (c *Controller) AskPermission(ctx context.Context) (bool, error) {
	c.update(func() {
		c.flow.Begin()
	})

	granted, err := c.svc.AskPermission(ctx)
	if err != nil {
		var held bool
		c.update(func() {
			c.flow.Sync(c.permission)
			held = c.permission == permission.Granted
		})
		return held, err
	}

	c.update(func() {
		if err := c.flow.Resolve(granted); err != nil {
			// Begin left the phase outside requested, either because the
			// mirror already read granted or a concurrent request resolved.
			c.flow.Sync(stateOf(granted))
		}
		c.permission = stateOf(granted)
	})
	return granted, nil
}

// Subscribe requests permission first unless the mirror already reads
// granted. A declined request returns (nil, nil) without subscribing; an
// interrupted one returns its error. A service failure is returned and
// leaves the mirror unchanged.
func (c *Controller) Subscribe(ctx context.Context) (*platform.Subscription, error) {
	if c.Permission() != permission.Granted {
		granted, err := c.AskPermission(ctx)
		if err != nil {
			return nil, err
		}
		if !granted {
			return nil, nil
		}
	}

	sub, err := c.svc.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	c.update(func() {
		c.sub = copySubscription(sub)
	})
	return sub, nil
}

// Unsubscribe delegates to the service and clears the mirrored subscription.
func (c *Controller) Unsubscribe(ctx context.Context) (bool, error) {
	removed, err := c.svc.Unsubscribe(ctx)
	if err != nil {
		return false, err
	}
	c.update(func() {
		c.sub = nil
	})
	return removed, nil
}

// SendNotification delegates to the service without touching the mirror.
func (c *Controller) SendNotification(ctx context.Context, title string, opts platform.Options) error {
	return c.svc.SendNotification(ctx, title, opts)
}

// Reset delegates to the service and returns the mirror to its undecided,
// unsubscribed state.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.svc.Reset(ctx); err != nil {
		return err
	}
	c.update(func() {
		c.permission = permission.Default
		c.flow.Sync(permission.Default)
		c.sub = nil
	})
	return nil
}

// update applies fn under the lock and notifies listeners outside it.
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	snap := c.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Supported:    c.supported,
		Permission:   c.permission,
		Phase:        c.flow.Phase(),
		Subscription: copySubscription(c.sub),
	}
}

func stateOf(granted bool) permission.State {
	if granted {
		return permission.Granted
	}
	return permission.Denied
}

func copySubscription(sub *platform.Subscription) *platform.Subscription {
	if sub == nil {
		return nil
	}
	cp := *sub
	return &cp
}
