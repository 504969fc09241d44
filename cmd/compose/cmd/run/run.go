// SPDX-License-Identifier: Apache-2.0

package run

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kusari-oss/compose/cmd/compose/cmd/cmdutil"
	"github.com/kusari-oss/compose/internal/events"
	"github.com/kusari-oss/compose/internal/telemetry"
)

// NewRunCmd returns the run command
func NewRunCmd(a *cmdutil.App) *cobra.Command {
	var (
		dry  bool
		vars []string
	)

	runCmd := &cobra.Command{
		Use:   "run [recipe-file]",
		Short: "Run a recipe",
		Long: `Run executes every step of a recipe in order. When a step fails its actions
are rolled back, followed by every earlier step in reverse order.`,
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

			out := cmd.OutOrStdout()
			for _, name := range rec.SkippedSteps() {
				fmt.Fprintf(out, "Skipping %s\n", name)
			}

			if dry {
				plan, err := a.NewRunner(nil, out, cmd.ErrOrStderr()).Plan(rec)
				if err != nil {
					return err
				}
				fmt.Fprint(out, plan.String())
				return nil
			}

			dispatcher := events.NewDispatcher()
			attachConsole(dispatcher, out)
			telemetry.LogEvents(dispatcher, a.Logger)

			res, err := a.NewRunner(dispatcher, out, cmd.ErrOrStderr()).
				WithCommitMessageGenerator(a.CommitGenerator(rec)).
				Run(rec)
			if err != nil {
				return err
			}

			summarize(out, res, len(rec.Steps()))
			if !res.Successful {
				return fmt.Errorf("recipe %q failed at step %d", rec.Name(), res.FailedAtStep+1)
			}
			return nil
		},
	}

	runCmd.Flags().BoolVar(&dry, "dry", false, "Print the plan instead of running it")
	runCmd.Flags().StringArrayVar(&vars, "var", nil, "Set a recipe variable (key=value), repeatable")

	return runCmd
}
