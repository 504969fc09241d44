// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kusari-oss/compose/cmd/compose/cmd/cmdutil"
	coreconfig "github.com/kusari-oss/compose/internal/core/config"
	"github.com/kusari-oss/compose/internal/core/format"
)

// NewConfigCmd returns the config command group
func NewConfigCmd(a *cmdutil.App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the compose configuration",
	}

	configCmd.AddCommand(newShowCmd(a))
	configCmd.AddCommand(newInitCmd(a))

	return configCmd
}

func newShowCmd(a *cmdutil.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rendered, err := format.FormatData(a.Config, format.YAML)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

func newInitCmd(a *cmdutil.App) *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Long: `Init writes the default configuration to the file named by --config, or to
the global config file (~/.compose/config.yaml) when no file is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a.ConfigFile, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return initCmd
}

func runInit(cmd *cobra.Command, configFile string, force bool) error {
	global := configFile == ""

	path := coreconfig.ExpandPathWithTilde(configFile)
	if global {
		var err error
		path, err = coreconfig.GlobalConfigFilePath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
	}

	cfg := coreconfig.NewDefaultConfig()
	if global {
		if err := coreconfig.SaveGlobalConfig(cfg); err != nil {
			return err
		}
	} else if err := coreconfig.SaveConfig(cfg, path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
	return nil
}
