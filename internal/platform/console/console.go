// Package console prints notifications as a bordered card on a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/pushbell/internal/platform"
)

// Name is the backend identifier.
const Name = "console"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dataStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("4")).
			Padding(0, 1)
)

var borderByUrgency = map[platform.Urgency]lipgloss.Color{
	platform.UrgencyLow:      lipgloss.Color("241"),
	platform.UrgencyCritical: lipgloss.Color("1"),
}

// Backend implements platform.Backend by writing to an io.Writer.
type Backend struct {
	mu  sync.Mutex
	out io.Writer
}

// New returns a console backend writing to out, or stdout when out is nil.
func New(out io.Writer) *Backend {
	if out == nil {
		out = os.Stdout
	}
	return &Backend{out: out}
}

// Name implements platform.Backend.
func (b *Backend) Name() string { return Name }

// Available is always true.
func (b *Backend) Available() bool { return true }

// Display implements platform.Backend. Silent notifications skip the bell.
func (b *Backend) Display(ctx context.Context, title string, opts platform.Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	card := Render(title, opts)
	if !opts.Silent && opts.Urgency == platform.UrgencyCritical {
		card = "\a" + card
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := fmt.Fprintln(b.out, card); err != nil {
		return fmt.Errorf("console: display: %w", err)
	}
	return nil
}

// Render builds the card text for a notification.
func Render(title string, opts platform.Options) string {
	head := titleStyle.Render(title)
	if opts.Tag != "" {
		head += " " + tagStyle.Render("#"+opts.Tag)
	}
	lines := []string{head}
	if opts.Body != "" {
		lines = append(lines, opts.Body)
	}
	if len(opts.Data) > 0 {
		keys := make([]string, 0, len(opts.Data))
		for k := range opts.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, dataStyle.Render(k+"="+opts.Data[k]))
		}
	}

	style := cardStyle
	if c, ok := borderByUrgency[opts.Urgency]; ok {
		style = style.BorderForeground(c)
	}
	return style.Render(strings.Join(lines, "\n"))
}
