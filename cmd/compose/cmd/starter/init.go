// SPDX-License-Identifier: Apache-2.0

// Package starter writes the bundled starter recipes.
package starter

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kusari-oss/compose/internal/defaults"
)

// NewInitCmd returns the init command
func NewInitCmd() *cobra.Command {
	var (
		starter string
		force   bool
		list    bool
	)

	initCmd := &cobra.Command{
		Use:   "init [recipe-file]",
		Short: "Write a starter recipe",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				names, err := defaults.Names()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			path := "compose.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			if err := defaults.WriteRecipe(starter, path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recipe written to %s\n", path)
			return nil
		},
	}

	initCmd.Flags().StringVarP(&starter, "template", "t", defaults.DefaultRecipe, "Starter recipe to write")
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	initCmd.Flags().BoolVar(&list, "list", false, "List the starter recipes")

	return initCmd
}
