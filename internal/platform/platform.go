// Package platform defines the notification capability the service drives:
// feature presence, permission, push registration and visible display.
//
// A Host assembles a Platform from three parts: a Backend that can put a
// notification in front of the user, a Registry that remembers decisions and
// registrations per scope, and a Prompter that asks the user for permission.
package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cristianoliveira/pushbell/internal/permission"
)

var (
	// ErrUnsupported indicates the backend cannot display notifications here.
	ErrUnsupported = errors.New("notifications are not supported on this platform")
	// ErrPermissionNotGranted indicates an operation that needs a granted permission.
	ErrPermissionNotGranted = errors.New("notification permission not granted")
	// ErrPromptAborted indicates the permission prompt closed without an answer.
	ErrPromptAborted = errors.New("permission prompt aborted")
)

// Platform is the capability consumed by the notification service.
type Platform interface {
	// Name identifies the backend, e.g. "desktop".
	Name() string
	// Supported is the synchronous feature-presence check.
	Supported() bool
	// Permission returns the current permission without prompting.
	Permission(ctx context.Context) (permission.State, error)
	// RequestPermission prompts when the scope has no decision yet and
	// returns the resulting state. Decided scopes answer without prompting.
	RequestPermission(ctx context.Context) (permission.State, error)
	// Register records the background handler for the scope. Repeating it is harmless.
	Register(ctx context.Context) error
	// Subscribe creates a push registration, replacing any previous one.
	Subscribe(ctx context.Context) (*Subscription, error)
	// Subscription returns the stored registration, or nil.
	Subscription(ctx context.Context) (*Subscription, error)
	// Unsubscribe drops the stored registration and reports whether one existed.
	Unsubscribe(ctx context.Context) (bool, error)
	// Show displays a notification.
	Show(ctx context.Context, title string, opts Options) error
	// Reset forgets the permission decision and all registrations of the scope.
	Reset(ctx context.Context) error
}

// Subscription is the opaque handle of a push registration.
type Subscription struct {
	ID        string    `json:"id"`
	Scope     string    `json:"scope"`
	Backend   string    `json:"backend"`
	Endpoint  string    `json:"endpoint"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// Urgency hints how intrusive a notification should be.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// ParseUrgency parses a user supplied urgency. Empty input is UrgencyNormal.
func ParseUrgency(s string) (Urgency, error) {
	switch u := Urgency(strings.ToLower(strings.TrimSpace(s))); u {
	case "":
		return UrgencyNormal, nil
	case UrgencyLow, UrgencyNormal, UrgencyCritical:
		return u, nil
	default:
		return "", fmt.Errorf("invalid urgency %q: must be one of low, normal, critical", s)
	}
}

// Options carries display hints. Backends use what they can and ignore the rest.
type Options struct {
	Body    string
	Icon    string
	Tag     string
	Badge   string
	Urgency Urgency
	Silent  bool
	Data    map[string]string
}

// Backend displays notifications.
type Backend interface {
	Name() string
	// Available reports whether Display can work in this environment.
	Available() bool
	Display(ctx context.Context, title string, opts Options) error
}

// Registry persists per-scope permission decisions, worker registrations and
// push registrations.
type Registry interface {
	Permission(ctx context.Context, scope string) (permission.State, error)
	SetPermission(ctx context.Context, scope string, state permission.State) error
	// RegisterWorker reports whether the worker was newly registered.
	RegisterWorker(ctx context.Context, scope, backend string) (bool, error)
	// SaveSubscription stores sub as the only registration of its scope.
	SaveSubscription(ctx context.Context, sub Subscription) error
	Subscription(ctx context.Context, scope string) (*Subscription, error)
	DeleteSubscription(ctx context.Context, scope string) (bool, error)
}

// PromptRequest describes a permission prompt.
type PromptRequest struct {
	Scope   string
	Backend string
}

// Prompter asks the user whether the scope may show notifications.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (bool, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, req PromptRequest) (bool, error)

// Prompt calls f.
func (f PrompterFunc) Prompt(ctx context.Context, req PromptRequest) (bool, error) {
	return f(ctx, req)
}

// StaticPrompter answers every prompt with the same decision.
func StaticPrompter(grant bool) Prompter {
	return PrompterFunc(func(ctx context.Context, _ PromptRequest) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return grant, nil
	})
}
