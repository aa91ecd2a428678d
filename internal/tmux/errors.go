package tmux

import "errors"

var (
	// ErrTmuxNotRunning is returned when tmux server is not available.
	ErrTmuxNotRunning = errors.New("tmux server is not running")

	// ErrEmptyMessage is returned when DisplayMessage gets nothing to show.
	ErrEmptyMessage = errors.New("tmux message is empty")
)
