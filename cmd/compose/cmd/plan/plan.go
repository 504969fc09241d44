// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kusari-oss/compose/cmd/compose/cmd/cmdutil"
	"github.com/kusari-oss/compose/internal/core/format"
)

// NewPlanCmd returns the plan command
func NewPlanCmd(a *cmdutil.App) *cobra.Command {
	var (
		output string
		file   string
		vars   []string
	)

	planCmd := &cobra.Command{
		Use:   "plan [recipe-file]",
		Short: "Show the commands a recipe would run",
		Long: `Plan resolves every step of a recipe and prints the commands in run order.
Nothing is executed. Commands marked with ↺ can be rolled back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := cmdutil.ParseVars(vars)
			if err != nil {
				return err
			}

			rec, err := a.LoadRecipe(args[0], parsed)
			if err != nil {
				return err
			}

			plan, err := a.NewRunner(nil, cmd.OutOrStdout(), cmd.ErrOrStderr()).Plan(rec)
			if err != nil {
				return err
			}

			if file != "" {
				if err := format.WriteFile(file, plan); err != nil {
					return fmt.Errorf("error writing plan: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Plan saved to %s\n", file)
				return nil
			}

			if output == "" || output == "text" {
				fmt.Fprint(cmd.OutOrStdout(), plan.String())
				return nil
			}

			f, err := format.Parse(output)
			if err != nil {
				return err
			}
			rendered, err := format.FormatData(plan, f)
			if err != nil {
				return fmt.Errorf("error formatting plan: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	planCmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, yaml, json)")
	planCmd.Flags().StringVarP(&file, "file", "f", "", "Write the plan to a .yaml or .json file")
	planCmd.Flags().StringArrayVar(&vars, "var", nil, "Set a recipe variable (key=value), repeatable")

	return planCmd
}
