// Package cmd holds the pushbell root command and the setup every
// subcommand shares.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/pushbell/internal/colors"
	"github.com/cristianoliveira/pushbell/internal/config"
	clierrors "github.com/cristianoliveira/pushbell/internal/errors"
	"github.com/cristianoliveira/pushbell/internal/logging"
	"github.com/cristianoliveira/pushbell/internal/version"
)

// flagKeys maps persistent flags onto configuration keys.
var flagKeys = map[string]string{
	"platform": "platform",
	"scope":    "scope",
	"prompt":   "prompt",
	"debug":    "debug",
	"quiet":    "quiet",
}

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:               "pushbell",
	Short:             "Ask once, subscribe, and ring the bell when something happens.",
	Long:              `Ask once, subscribe, and ring the bell when something happens.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command with ctx and prints a returned error.
// Logging stays open; the caller ends it with logging.ShutdownGlobal once
// everything the command opened is released.
func Execute(ctx context.Context) error {
	err := RootCmd.ExecuteContext(ctx)
	if err != nil {
		clierrors.NewDefaultCLIHandler().Report(err)
	}
	return err
}

// setup loads configuration, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	config.Load()
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f != nil && f.Changed {
			config.Set(key, f.Value.String())
		}
	}
	colors.SetDebug(config.GetBool("debug", false))
	colors.SetQuiet(config.GetBool("quiet", false))

	if err := logging.InitGlobal(); err != nil {
		colors.Warning(fmt.Sprintf("file logging disabled: %v", err))
	}
	logging.GetGlobal().Debug("command started", "command", cmd.CommandPath())
	return nil
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	flags := RootCmd.PersistentFlags()
	flags.String("platform", "", "notification backend: desktop, tmux or console")
	flags.String("scope", "", "application scope the permission and registration belong to")
	flags.String("prompt", "", "how to ask for permission: interactive, grant or deny")
	flags.Bool("debug", false, "print debug output")
	flags.BoolP("quiet", "q", false, "only print warnings and errors")

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})
}

// commandOrder is the order commands are listed in the help text.
var commandOrder = []string{
	"status",
	"permission",
	"subscribe",
	"unsubscribe",
	"send",
	"reset",
	"version",
}

func helpText(cmd *cobra.Command) string {
	var cmdLines []string
	for _, name := range commandOrder {
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", c.Use, c.Short))
				break
			}
		}
	}

	return fmt.Sprintf(`pushbell %s

%s

USAGE:
    pushbell [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --platform <name>   desktop, tmux or console
    --scope <name>      application scope
    --prompt <mode>     interactive, grant or deny
    --debug             print debug output
    -q, --quiet         only print warnings and errors
    -h, --help          Show help message
`, version.String(), cmd.Short, strings.Join(cmdLines, "\n"))
}
