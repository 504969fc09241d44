// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"github.com/rs/zerolog"

	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/events"
)

// LogEvents subscribes logger to every run event on d. Lifecycle events log
// at info, absorbed failures at warn, and fatal failures at error.
func LogEvents(d *events.Dispatcher, logger zerolog.Logger) {
	events.On(d, func(e events.StepStarting) {
		logger.Info().Str("step", e.Step.Name).Int("index", e.Index).Msg("step starting")
	})
	events.On(d, func(e events.StepCompleted) {
		logger.Info().
			Str("step", e.Step.Name).
			Int("actions", len(e.Result.Actions)).
			Int("warnings", len(e.Result.Warnings())).
			Msg("step completed")
	})
	events.On(d, func(e events.StepFailed) {
		logger.Error().
			Str("step", e.Step.Name).
			Int("index", e.Index).
			Bool("rolled_back", e.Result.RolledBack).
			Msg("step failed")
	})
	events.On(d, func(e events.ActionExecuting) {
		logger.Debug().Str("command", action.Describe(e.Action)).Msg("action executing")
	})
	events.On(d, func(e events.ActionCompleted) {
		logger.Debug().
			Str("command", e.Result.CommandString()).
			Dur("duration", e.Result.Duration).
			Msg("action completed")
	})
	events.On(d, func(e events.ActionFailed) {
		ev := logger.Error()
		if e.Warned {
			ev = logger.Warn()
		}
		ev.Str("command", e.Result.CommandString()).
			Int("exit_code", e.Result.ExitCode).
			Bool("warned", e.Warned).
			Str("stderr", e.Result.Stderr).
			Msg("action failed")
	})
	events.On(d, func(e events.RollbackStarting) {
		logger.Warn().Str("step", e.Step.Name).Bool("cascade", e.Cascade).Msg("rollback starting")
	})
	events.On(d, func(e events.RollbackCompleted) {
		failed := 0
		for _, r := range e.Results {
			if !r.Successful {
				failed++
			}
		}
		logger.Warn().
			Str("step", e.Step.Name).
			Bool("cascade", e.Cascade).
			Int("commands", len(e.Results)).
			Int("failed", failed).
			Msg("rollback completed")
	})
}
