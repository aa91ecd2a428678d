package main

import (
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/pushbell/cmd"
	"github.com/cristianoliveira/pushbell/internal/app"
)

// NewResetCmd creates the reset command with explicit dependencies.
func NewResetCmd(provider clientProvider) *cobra.Command {
	if provider == nil {
		panic("NewResetCmd: provider dependency cannot be nil")
	}

	var yes bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget the permission decision and registrations",
		Long: `Return the scope to the default permission and drop its push
registration. The next subscribe asks for permission again.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			client, err := provider.Client(c.Context())
			if err != nil {
				return err
			}
			return app.NewResetUseCase(client).Execute(c.Context(), yes)
		},
	}
	resetCmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return resetCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewResetCmd(sessions))
}
