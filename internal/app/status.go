package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/pushbell/internal/notification"
	"github.com/cristianoliveira/pushbell/internal/platform"
)

// StatusClient defines dependencies for the status command.
type StatusClient interface {
	Scope() string
	Backend() string
	Snapshot() notification.Snapshot
	StoredSubscription(ctx context.Context) (*platform.Subscription, error)
}

// StatusReport is the status command output.
type StatusReport struct {
	Scope        string                 `json:"scope"`
	Backend      string                 `json:"backend"`
	Supported    bool                   `json:"supported"`
	Permission   string                 `json:"permission"`
	Phase        string                 `json:"phase"`
	Subscription *platform.Subscription `json:"subscription"`
	Registration *platform.Subscription `json:"registration"`
}

// StatusUseCase coordinates status behavior.
type StatusUseCase struct {
	client StatusClient
}

// NewStatusUseCase creates a status use-case.
func NewStatusUseCase(client StatusClient) *StatusUseCase {
	if client == nil {
		panic("NewStatusUseCase: client dependency cannot be nil")
	}
	return &StatusUseCase{client: client}
}

// Report collects the current status.
func (u *StatusUseCase) Report(ctx context.Context) (StatusReport, error) {
	snap := u.client.Snapshot()
	stored, err := u.client.StoredSubscription(ctx)
	if err != nil {
		return StatusReport{}, fmt.Errorf("status: %w", err)
	}
	if stored != nil {
		stored.Auth = ""
	}
	return StatusReport{
		Scope:        u.client.Scope(),
		Backend:      u.client.Backend(),
		Supported:    snap.Supported,
		Permission:   snap.Permission.String(),
		Phase:        snap.Phase.String(),
		Subscription: snap.Subscription,
		Registration: stored,
	}, nil
}

// Execute writes the status as a two-column table or, with asJSON, as JSON.
func (u *StatusUseCase) Execute(ctx context.Context, w io.Writer, asJSON bool) error {
	report, err := u.Report(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	rows := [][]string{
		{"scope:", report.Scope},
		{"backend:", report.Backend},
		{"supported:", yesNo(report.Supported)},
		{"permission:", report.Permission},
		{"phase:", report.Phase},
	}
	if report.Registration != nil {
		rows = append(rows,
			[]string{"registration:", report.Registration.ID},
			[]string{"endpoint:", report.Registration.Endpoint},
			[]string{"created:", report.Registration.CreatedAt.Format("2006-01-02 15:04:05 MST")},
		)
	} else {
		rows = append(rows, []string{"registration:", "none"})
	}

	_, err = fmt.Fprintln(w, statusTable(rows))
	return err
}

// statusTable renders rows as two left-aligned columns.
func statusTable(rows [][]string) string {
	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row[0]))
	}
	key := lipgloss.NewStyle().Width(width + 2)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, key.Render(row[0]), row[1]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
