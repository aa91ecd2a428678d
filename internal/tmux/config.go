package tmux

import (
	"time"

	"github.com/cristianoliveira/pushbell/internal/logging"
)

const (
	// DefaultTimeout is the default timeout for tmux commands.
	DefaultTimeout = 5 * time.Second
)

// ClientOption is a functional option for configuring a DefaultClient.
type ClientOption func(*DefaultClient)

// WithSocketPath sets the tmux socket name passed with -L.
func WithSocketPath(socketPath string) ClientOption {
	return func(c *DefaultClient) {
		c.socketPath = socketPath
	}
}

// WithTimeout sets the timeout for tmux command execution.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *DefaultClient) {
		c.timeout = timeout
	}
}

// WithLogger sets the structured logger used for command tracing.
func WithLogger(l logging.Logger) ClientOption {
	return func(c *DefaultClient) {
		if l != nil {
			c.log = l
		}
	}
}

// WithBinary overrides the tmux executable. Tests point it at a stub script.
func WithBinary(path string) ClientOption {
	return func(c *DefaultClient) {
		c.binary = path
	}
}
