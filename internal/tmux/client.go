// Package tmux runs the few tmux commands pushbell needs to show
// notifications inside a tmux client.
package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/pushbell/internal/logging"
)

// Client abstracts the tmux operations used by the tmux display backend.
type Client interface {
	// HasSession checks if a tmux server is running.
	HasSession(ctx context.Context) (bool, error)

	// DisplayMessage shows msg in the status line of attached clients for d.
	DisplayMessage(ctx context.Context, msg string, d time.Duration) error

	// Run executes a tmux command with the given arguments.
	Run(ctx context.Context, args ...string) (string, string, error)
}

// DefaultClient implements Client using exec.Command to run tmux.
type DefaultClient struct {
	binary     string
	socketPath string
	timeout    time.Duration
	log        logging.Logger
}

// NewDefaultClient creates a new DefaultClient with the given options.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		binary:  "tmux",
		timeout: DefaultTimeout,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *DefaultClient) runCommand(ctx context.Context, args ...string) (string, string, error) {
	start := time.Now()
	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	c.log.Debug("tmux run started", "command", command, "args_count", len(args))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmdArgs := []string{}
	if c.socketPath != "" {
		cmdArgs = append(cmdArgs, "-L", c.socketPath)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.CommandContext(ctx, c.binary, cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start).Seconds()
	if err != nil {
		c.log.Error("tmux run failed", "command", command, "error", err, "duration_seconds", duration)
	} else {
		c.log.Debug("tmux run completed", "command", command, "duration_seconds", duration)
	}
	return stdout.String(), stderr.String(), err
}

// Run executes a tmux command with the given arguments.
// It returns stdout, stderr, and any error that occurred.
func (c *DefaultClient) Run(ctx context.Context, args ...string) (string, string, error) {
	stdout, stderr, err := c.runCommand(ctx, args...)
	if err != nil {
		return stdout, stderr, fmt.Errorf("tmux command %v failed: %w", args, err)
	}
	return stdout, stderr, nil
}

// HasSession checks if tmux server is running.
func (c *DefaultClient) HasSession(ctx context.Context) (bool, error) {
	_, stderr, err := c.Run(ctx, "has-session")
	if err != nil {
		if stderr != "" {
			c.log.Debug("tmux has-session stderr", "stderr", strings.TrimSpace(stderr))
		}
		return false, ErrTmuxNotRunning
	}
	return true, nil
}

// DisplayMessage shows msg for d. A non-positive d leaves the duration to
// the tmux display-time option.
func (c *DefaultClient) DisplayMessage(ctx context.Context, msg string, d time.Duration) error {
	if strings.TrimSpace(msg) == "" {
		return ErrEmptyMessage
	}
	args := []string{"display-message"}
	if d > 0 {
		args = append(args, "-d", strconv.FormatInt(d.Milliseconds(), 10))
	}
	// tmux expands #{...} formats; a literal # must be doubled.
	args = append(args, strings.ReplaceAll(msg, "#", "##"))

	_, stderr, err := c.Run(ctx, args...)
	if err != nil {
		if stderr != "" {
			return fmt.Errorf("display message: %s: %w", strings.TrimSpace(stderr), err)
		}
		return fmt.Errorf("display message: %w", err)
	}
	return nil
}
