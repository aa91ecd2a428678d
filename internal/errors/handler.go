// Package errors reports command failures on the console, followed by a
// hint on how to recover when the failure is a known one.
package errors

import (
	"context"
	stderrors "errors"

	"github.com/cristianoliveira/pushbell/internal/notification"
	"github.com/cristianoliveira/pushbell/internal/permission"
	"github.com/cristianoliveira/pushbell/internal/platform"
	"github.com/cristianoliveira/pushbell/internal/storage/sqlite"
)

// ColorOutput is the console surface the handler writes to.
type ColorOutput interface {
	Error(msgs ...string)
	Info(msgs ...string)
}

// CLIHandler prints errors for the command line.
type CLIHandler struct {
	colors ColorOutput
}

// NewCLIHandler returns a handler writing to colors.
func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

// Report prints err and its hint, if any. A nil err prints nothing.
func (h *CLIHandler) Report(err error) {
	if err == nil {
		return
	}
	h.colors.Error(err.Error())
	if hint := Hint(err); hint != "" {
		h.colors.Info("hint: " + hint)
	}
}

var hints = []struct {
	target error
	hint   string
}{
	{platform.ErrPermissionNotGranted, `run "pushbell subscribe" to ask for permission; after a denial run "pushbell reset --yes" first`},
	{platform.ErrUnsupported, "this backend cannot show notifications here; try --platform console or --platform tmux"},
	{notification.ErrEmptyTitle, `pass a title, e.g. pushbell send "Build finished"`},
	{platform.ErrPromptAborted, "the permission prompt was closed without an answer; nothing was changed"},
	{context.Canceled, "interrupted; nothing was changed"},
	{sqlite.ErrEmptyPath, "set state_dir in the config file or PUSHBELL_STATE_DIR"},
	{permission.ErrInvalidState, "the registry holds an unknown permission; run \"pushbell reset --yes\""},
}

// Hint returns recovery advice for known errors, or "".
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}
