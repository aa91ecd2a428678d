package main

import (
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/pushbell/cmd"
	"github.com/cristianoliveira/pushbell/internal/app"
)

// NewUnsubscribeCmd creates the unsubscribe command with explicit dependencies.
func NewUnsubscribeCmd(provider clientProvider) *cobra.Command {
	if provider == nil {
		panic("NewUnsubscribeCmd: provider dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "unsubscribe",
		Short: "Drop the push registration",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			client, err := provider.Client(c.Context())
			if err != nil {
				return err
			}
			_, err = app.NewUnsubscribeUseCase(client).Execute(c.Context())
			return err
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewUnsubscribeCmd(sessions))
}
