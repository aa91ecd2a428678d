// Package desktop shows notifications through the operating system's
// notification center using beeep.
package desktop

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/gen2brain/beeep"

	"github.com/cristianoliveira/pushbell/internal/platform"
)

// Name is the backend identifier.
const Name = "desktop"

type notifyFunc func(title, message, icon string) error

// Backend implements platform.Backend for desktop notifications.
type Backend struct {
	defaultIcon string
	notify      notifyFunc
	alert       notifyFunc
	getenv      func(string) string
	goos        string
}

// Option configures a Backend.
type Option func(*Backend)

// WithDefaultIcon sets the icon used when a notification carries none.
func WithDefaultIcon(path string) Option {
	return func(b *Backend) {
		b.defaultIcon = path
	}
}

// New returns a desktop backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		notify: func(title, message, icon string) error { return beeep.Notify(title, message, icon) },
		alert:  func(title, message, icon string) error { return beeep.Alert(title, message, icon) },
		getenv: os.Getenv,
		goos:   runtime.GOOS,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements platform.Backend.
func (b *Backend) Name() string { return Name }

// Available reports whether a notification daemon can be reached. On Linux
// and the BSDs that needs a session bus or a graphical display.
func (b *Backend) Available() bool {
	switch b.goos {
	case "darwin", "windows":
		return true
	case "linux", "freebsd", "openbsd", "netbsd":
		return b.getenv("DBUS_SESSION_BUS_ADDRESS") != "" ||
			b.getenv("DISPLAY") != "" ||
			b.getenv("WAYLAND_DISPLAY") != ""
	default:
		return false
	}
}

// Display implements platform.Backend. Critical notifications use beeep's
// alert unless they are silent.
func (b *Backend) Display(ctx context.Context, title string, opts platform.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	icon := opts.Icon
	if icon == "" {
		icon = b.defaultIcon
	}
	send := b.notify
	if opts.Urgency == platform.UrgencyCritical && !opts.Silent {
		send = b.alert
	}
	if err := send(title, opts.Body, icon); err != nil {
		return fmt.Errorf("desktop: display: %w", err)
	}
	return nil
}
