// Package tmuxdisplay shows notifications in the tmux status line.
package tmuxdisplay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cristianoliveira/pushbell/internal/platform"
	"github.com/cristianoliveira/pushbell/internal/tmux"
)

// Name is the backend identifier.
const Name = "tmux"

// Backend implements platform.Backend on top of a tmux client.
type Backend struct {
	client   tmux.Client
	duration time.Duration
}

// New returns a tmux backend that keeps each message on screen for d.
// It panics if client is nil.
func New(client tmux.Client, d time.Duration) *Backend {
	if client == nil {
		panic("tmuxdisplay.New: client dependency cannot be nil")
	}
	return &Backend{client: client, duration: d}
}

// Name implements platform.Backend.
func (b *Backend) Name() string { return Name }

// Available reports whether a tmux server is running.
func (b *Backend) Available() bool {
	ok, err := b.client.HasSession(context.Background())
	return err == nil && ok
}

// Display implements platform.Backend.
func (b *Backend) Display(ctx context.Context, title string, opts platform.Options) error {
	if err := b.client.DisplayMessage(ctx, Format(title, opts), b.duration); err != nil {
		return fmt.Errorf("tmux: display: %w", err)
	}
	return nil
}

// Format renders a notification as a single status line message.
func Format(title string, opts platform.Options) string {
	var sb strings.Builder
	if opts.Urgency == platform.UrgencyCritical {
		sb.WriteString("!! ")
	}
	if opts.Tag != "" {
		sb.WriteString("[" + opts.Tag + "] ")
	}
	sb.WriteString(title)
	if body := strings.Join(strings.Fields(opts.Body), " "); body != "" {
		sb.WriteString(": " + body)
	}
	return sb.String()
}
