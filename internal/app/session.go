package app

import (
	"context"

	"github.com/cristianoliveira/pushbell/internal/notification"
	"github.com/cristianoliveira/pushbell/internal/platform"
)

// Session pairs a controller with the App facts commands print.
type Session struct {
	*notification.Controller
	app *App
}

// Session returns a new Session over the shared service.
func (a *App) Session(ctx context.Context) *Session {
	return &Session{Controller: a.Controller(ctx), app: a}
}

// Scope returns the application scope.
func (s *Session) Scope() string { return s.app.Scope() }

// Backend returns the backend name.
func (s *Session) Backend() string { return s.app.Backend() }

// StoredSubscription returns the registration the platform keeps for the scope.
func (s *Session) StoredSubscription(ctx context.Context) (*platform.Subscription, error) {
	return s.app.Notifications().StoredSubscription(ctx)
}
