// Package cmd holds the root command of the cansig CLI.
package cmd

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/cansig/internal/colors"
	"github.com/cristianoliveira/cansig/internal/config"
	"github.com/cristianoliveira/cansig/internal/logging"
	"github.com/cristianoliveira/cansig/internal/version"
	"github.com/spf13/cobra"
)

var dbPath string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "cansig",
	Short: "Edit the signals of CAN messages against recorded traffic.",
	Long:  `Edit the signals of CAN messages against recorded traffic.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.ShutdownGlobal()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// setup loads configuration, applies flag overrides and starts logging.
func setup() error {
	config.Load()
	if dbPath != "" {
		config.Set("db_path", dbPath)
	}
	colors.SetDebug(config.GetBool("debug", false))
	if err := logging.InitGlobal(); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	return nil
}

// Execute runs the root command and prints the error it fails with.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		colors.Error(err.Error())
	}
	return err
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (default {state_dir}/cansig.db)")

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})
}

func helpText(cmd *cobra.Command) string {
	commandOrder := []string{"edit", "list", "demo", "version"}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-20s %s", found.Use, found.Short))
	}

	return fmt.Sprintf(`cansig v%s

Edit the signals of CAN messages against recorded traffic.

USAGE:
    cansig [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --db <path>     Database file
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
}
