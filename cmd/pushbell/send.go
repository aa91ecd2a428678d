package main

import (
	"github.com/spf13/cobra"

	"github.com/cristianoliveira/pushbell/cmd"
	"github.com/cristianoliveira/pushbell/internal/app"
	"github.com/cristianoliveira/pushbell/internal/config"
)

// NewSendCmd creates the send command with explicit dependencies.
func NewSendCmd(provider clientProvider) *cobra.Command {
	if provider == nil {
		panic("NewSendCmd: provider dependency cannot be nil")
	}

	var input app.SendInput
	sendCmd := &cobra.Command{
		Use:   "send <title>...",
		Short: "Show a notification",
		Long: `Show a notification through the configured backend. The scope must have
granted permission.

EXAMPLES:
    pushbell send "Build finished"
    pushbell send --body "3 tests failed" --urgency critical CI
    pushbell send --tag deploy --data env=prod --data sha=abc123 Deployed`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			client, err := provider.Client(c.Context())
			if err != nil {
				return err
			}
			input.Args = args
			if input.Icon == "" {
				input.Icon = config.Get("default_icon", "")
			}
			return app.NewSendUseCase(client).Execute(c.Context(), input)
		},
	}

	flags := sendCmd.Flags()
	flags.StringVarP(&input.Body, "body", "b", "", "notification body")
	flags.StringVar(&input.Icon, "icon", "", "icon path (defaults to default_icon)")
	flags.StringVarP(&input.Tag, "tag", "t", "", "tag grouping related notifications")
	flags.StringVar(&input.Badge, "badge", "", "badge path")
	flags.StringVarP(&input.Urgency, "urgency", "u", "normal", "low, normal or critical")
	flags.BoolVar(&input.Silent, "silent", false, "do not ring the bell or alert")
	flags.StringArrayVar(&input.Data, "data", nil, "extra key=value data, repeatable")
	return sendCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewSendCmd(sessions))
}
