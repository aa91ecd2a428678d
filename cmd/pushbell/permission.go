package main

import (
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/pushbell/cmd"
	"github.com/cristianoliveira/pushbell/internal/app"
)

// NewPermissionCmd creates the permission command with explicit dependencies.
func NewPermissionCmd(provider clientProvider) *cobra.Command {
	if provider == nil {
		panic("NewPermissionCmd: provider dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "permission",
		Short: "Ask for notification permission",
		Long: `Ask the user whether this scope may show notifications.

A scope that already has a decision answers without asking again; use
"pushbell reset" to ask from scratch.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			client, err := provider.Client(c.Context())
			if err != nil {
				return err
			}
			_, err = app.NewPermissionUseCase(client).Execute(c.Context(), c.OutOrStdout())
			return err
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewPermissionCmd(sessions))
}
