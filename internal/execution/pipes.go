// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/core/step"
	"github.com/kusari-oss/compose/internal/events"
)

// ResolveOperations resolves the step's actions and always continues
func ResolveOperations(sc *StepContext, next func(*StepContext) *StepContext) *StepContext {
	sc.Step.Resolve()
	return next(sc)
}

// ExecuteActions runs the step's actions in order. The first unwarned
// failure rolls the step back and stops the pipeline.
func ExecuteActions(sc *StepContext, next func(*StepContext) *StepContext) *StepContext {
	var results []result.ActionResult

	for _, a := range sc.Step.Actions() {
		a.Bind(sc.Context)
		a = withGeneratedMessage(a, sc.Commits, sc.Step, results)

		sc.Dispatcher.Dispatch(events.ActionExecuting{Action: a})
		sc.Logger.Debug().Str("step", sc.Step.Name).Str("action", action.Describe(a)).Msg("executing action")

		res := sc.Executor.Execute(a.Command().Argv(), sc.Context.WorkingDirectory, sc.Timeout).For(a)

		if !res.Successful && sc.Step.ShouldWarnOnFailure(a) {
			res = res.AsWarned()
			results = append(results, res)
			sc.Dispatcher.Dispatch(events.ActionFailed{Action: a, Result: res, Warned: true})
			sc.Logger.Debug().Str("step", sc.Step.Name).Int("exit_code", res.ExitCode).Msg("action failure absorbed")
			continue
		}

		results = append(results, res)

		if !res.Successful {
			sc.Dispatcher.Dispatch(events.ActionFailed{Action: a, Result: res})

			var rollbackResults []result.ActionResult
			if sc.Rollback.HasRollbackableActions() {
				sc.Dispatcher.Dispatch(events.RollbackStarting{Step: sc.Step})
				rollbackResults = sc.Rollback.RollbackCurrentStep(sc.Executor)
				sc.Dispatcher.Dispatch(events.RollbackCompleted{Step: sc.Step, Results: rollbackResults})
			}

			failed := result.StepFailed(sc.Step.Name, results, rollbackResults)
			sc.Result = &failed
			return sc
		}

		sc.Rollback.Push(a)
		sc.Dispatcher.Dispatch(events.ActionCompleted{Action: a, Result: res})
	}

	succeeded := result.StepSucceeded(sc.Step.Name, results)
	sc.Result = &succeeded
	return next(sc)
}

// withGeneratedMessage gives a deferred commit the generated message for
// this execution only. The step keeps its deferred action, so later plans and
// runs generate again.
func withGeneratedMessage(a action.Action, commits CommitMessageGenerator, s *step.Step, results []result.ActionResult) action.Action {
	commit, ok := a.(*action.GitCommit)
	if !ok || !commit.Deferred() || commits == nil {
		return a
	}
	return commit.WithMessage(commits.Generate(s, results))
}
