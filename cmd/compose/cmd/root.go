// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kusari-oss/compose/cmd/compose/cmd/cmdutil"
	"github.com/kusari-oss/compose/cmd/compose/cmd/config"
	"github.com/kusari-oss/compose/cmd/compose/cmd/plan"
	"github.com/kusari-oss/compose/cmd/compose/cmd/run"
	"github.com/kusari-oss/compose/cmd/compose/cmd/starter"
	"github.com/kusari-oss/compose/cmd/compose/cmd/validate"
	"github.com/kusari-oss/compose/internal/version"
)

// NewRootCmd builds the compose command tree
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

func newRootCmd() (*cobra.Command, *cmdutil.App) {
	a := cmdutil.NewApp()

	rootCmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose - recipe driven project scaffolding",
		Long: `Compose runs recipes: ordered steps of composer, node and git commands that
scaffold a project. Failed steps are rolled back, successful steps can be
committed automatically.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version.Version, version.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.Setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.ConfigFile, "config", "c", "", "Config file (default ~/.compose/config.yaml)")
	flags.BoolVarP(&a.Verbose, "verbose", "v", false, "Stream command output and log at debug level")
	flags.StringVar(&a.Overrides.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.Overrides.LogFormat, "log-format", "", "Log format (console or json)")
	flags.StringVar(&a.Overrides.NodeManager, "node", "", "Default node package manager (npm, yarn, pnpm, bun)")
	flags.StringVar(&a.Overrides.ComposerBinary, "composer", "", "Default composer binary")
	flags.StringVar(&a.Overrides.GitBinary, "git", "", "Default git binary")
	flags.DurationVar(&a.Overrides.Timeout, "timeout", 0, "Timeout for each command")

	rootCmd.AddCommand(run.NewRunCmd(a))
	rootCmd.AddCommand(plan.NewPlanCmd(a))
	rootCmd.AddCommand(validate.NewValidateCmd(a))
	rootCmd.AddCommand(config.NewConfigCmd(a))
	rootCmd.AddCommand(starter.NewInitCmd())

	return rootCmd, a
}

// Execute runs the root command and closes the log file it opened
func Execute() error {
	rootCmd, a := newRootCmd()
	defer a.Close()
	return rootCmd.Execute()
}
