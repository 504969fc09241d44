// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kusari-oss/compose/cmd/compose/cmd/cmdutil"
)

// NewValidateCmd returns the validate command
func NewValidateCmd(a *cmdutil.App) *cobra.Command {
	var vars []string

	validateCmd := &cobra.Command{
		Use:   "validate [recipe-file]",
		Short: "Check a recipe without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := cmdutil.ParseVars(vars)
			if err != nil {
				return err
			}

			rec, err := a.LoadRecipe(args[0], parsed)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recipe %q is valid: %d step(s)", rec.Name(), len(rec.Steps()))
			if skipped := len(rec.SkippedSteps()); skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", %d skipped", skipped)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	validateCmd.Flags().StringArrayVar(&vars, "var", nil, "Set a recipe variable (key=value), repeatable")

	return validateCmd
}
