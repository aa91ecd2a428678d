package prompt

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianoliveira/pushbell/internal/platform"
)

// ErrAborted is returned when the dialog closes without an answer.
var ErrAborted = fmt.Errorf("prompt: dialog closed: %w", platform.ErrPromptAborted)

// ProgramRunner runs a bubbletea model and returns its final state.
type ProgramRunner interface {
	Run(ctx context.Context, model tea.Model) (tea.Model, error)
}

// TerminalRunner runs programs on the given terminal streams.
type TerminalRunner struct {
	In  io.Reader
	Out io.Writer
}

// Run implements ProgramRunner.
func (r TerminalRunner) Run(ctx context.Context, model tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if r.In != nil {
		opts = append(opts, tea.WithInput(r.In))
	}
	if r.Out != nil {
		opts = append(opts, tea.WithOutput(r.Out))
	}
	return tea.NewProgram(model, opts...).Run()
}

// Prompter implements platform.Prompter with the interactive dialog.
type Prompter struct {
	runner ProgramRunner
}

// New returns a Prompter. It panics if runner is nil.
func New(runner ProgramRunner) *Prompter {
	if runner == nil {
		panic("prompt.New: runner dependency cannot be nil")
	}
	return &Prompter{runner: runner}
}

// Prompt implements platform.Prompter.
func (p *Prompter) Prompt(ctx context.Context, req platform.PromptRequest) (bool, error) {
	final, err := p.runner.Run(ctx, NewModel(req))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return false, fmt.Errorf("prompt: run: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return false, fmt.Errorf("prompt: unexpected model %T", final)
	}
	if !m.Decided() {
		return false, ErrAborted
	}
	return m.Granted(), nil
}
