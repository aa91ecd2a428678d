package main

import (
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/pushbell/cmd"
	"github.com/cristianoliveira/pushbell/internal/app"
)

// NewSubscribeCmd creates the subscribe command with explicit dependencies.
func NewSubscribeCmd(provider clientProvider) *cobra.Command {
	if provider == nil {
		panic("NewSubscribeCmd: provider dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "subscribe",
		Short: "Create a push registration, asking for permission first",
		Long: `Create a push registration for the scope. Permission is requested first
when it has not been granted; a declined request creates nothing.

A new registration replaces the previous one.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			client, err := provider.Client(c.Context())
			if err != nil {
				return err
			}
			_, err = app.NewSubscribeUseCase(client).Execute(c.Context(), c.OutOrStdout())
			return err
		},
	}
}

func init() {
	cmd.RootCmd.AddCommand(NewSubscribeCmd(sessions))
}
