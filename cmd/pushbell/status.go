package main

import (
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/pushbell/cmd"
	"github.com/cristianoliveira/pushbell/internal/app"
)

// NewStatusCmd creates the status command with explicit dependencies.
func NewStatusCmd(provider clientProvider) *cobra.Command {
	if provider == nil {
		panic("NewStatusCmd: provider dependency cannot be nil")
	}

	var jsonOutput bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show support, permission and registration",
		Long: `Show whether the backend can display notifications, the permission of the
scope, the permission flow phase and the stored push registration.

EXAMPLES:
    pushbell status
    pushbell status --json
    pushbell --platform tmux status`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			client, err := provider.Client(c.Context())
			if err != nil {
				return err
			}
			return app.NewStatusUseCase(client).Execute(c.Context(), c.OutOrStdout(), jsonOutput)
		},
	}
	statusCmd.Flags().BoolVar(&jsonOutput, "json", false, "print status as JSON")
	return statusCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewStatusCmd(sessions))
}
