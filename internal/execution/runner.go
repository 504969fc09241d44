// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/recipe"
	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/core/step"
	"github.com/kusari-oss/compose/internal/events"
	"github.com/kusari-oss/compose/internal/fsutil"
)

// Filesystem prepares the target directory before a run
type Filesystem interface {
	DeleteDirectory(path string) error
	EnsureDirectory(path string) error
}

// Runner executes recipes step by step and plans them without side effects
type Runner struct {
	executor   Executor
	dispatcher *events.Dispatcher
	commits    CommitMessageGenerator
	fs         Filesystem
	logger     zerolog.Logger
	timeout    time.Duration
	newRunID   func() string
}

// NewRunner creates a runner. A nil dispatcher drops every event.
func NewRunner(executor Executor, dispatcher *events.Dispatcher) *Runner {
	return &Runner{
		executor:   executor,
		dispatcher: dispatcher,
		commits:    NewDefaultGenerator(),
		fs:         fsutil.Local{},
		logger:     zerolog.Nop(),
		newRunID:   func() string { return uuid.New().String() },
	}
}

// WithCommitMessageGenerator replaces the default "compose: <step>" messages
func (r *Runner) WithCommitMessageGenerator(g CommitMessageGenerator) *Runner {
	r.commits = g
	return r
}

// WithFilesystem replaces the local filesystem
func (r *Runner) WithFilesystem(fs Filesystem) *Runner {
	r.fs = fs
	return r
}

// WithLogger sets the logger. The runner only logs at debug and warn level.
func (r *Runner) WithLogger(logger zerolog.Logger) *Runner {
	r.logger = logger
	return r
}

// WithTimeout bounds every command the runner executes
func (r *Runner) WithTimeout(timeout time.Duration) *Runner {
	r.timeout = timeout
	return r
}

// contextFor picks the context step i runs in. Run and Plan must agree on it.
func contextFor(rec *recipe.Recipe, i int) action.Context {
	if rec.HasBase() && i == 0 {
		return rec.BaseContext()
	}
	return rec.ProjectContext()
}

// Run executes rec. It stops at the first failed step, after rolling that
// step back and, when they have anything to undo, every earlier step. The
// error is only set for recipes that fail validation.
func (r *Runner) Run(rec *recipe.Recipe) (result.RunResult, error) {
	if err := rec.Validate(); err != nil {
		return result.RunResult{}, err
	}

	runID := r.newRunID()
	logger := r.logger.With().Str("run_id", runID).Str("recipe", rec.Name()).Logger()
	rollback := NewRollbackManager(r.timeout)
	steps := rec.Steps()
	stepResults := make([]result.StepResult, 0, len(steps))

	logger.Debug().Int("steps", len(steps)).Msg("run starting")

	for _, cb := range rec.BeforeCallbacks() {
		cb(rec)
	}

	r.prepare(rec, logger)

	for i, s := range steps {
		ctx := contextFor(rec, i)
		stepLogger := logger.With().Str("step", s.Name).Int("index", i).Logger()

		r.dispatcher.Dispatch(events.StepStarting{Step: s, Index: i})
		rollback.BeginStep(s.Name, ctx.WorkingDirectory)

		sc := Send(&StepContext{
			Step:       s,
			Context:    ctx,
			Executor:   r.executor,
			Rollback:   rollback,
			Dispatcher: r.dispatcher,
			Commits:    r.commits,
			Timeout:    r.timeout,
			Logger:     stepLogger,
		}).Through(ResolveOperations, ExecuteActions).Run()

		stepResult := result.StepSucceeded(s.Name, nil)
		if sc.Result != nil {
			stepResult = *sc.Result
		}
		stepResults = append(stepResults, stepResult)

		if !stepResult.Successful {
			var cascade []result.ActionResult
			if rollback.HasPreviousRollbackableActions() {
				r.dispatcher.Dispatch(events.RollbackStarting{Step: s, Cascade: true})
				cascade = rollback.RollbackAllSteps(r.executor)
				r.dispatcher.Dispatch(events.RollbackCompleted{Step: s, Results: cascade, Cascade: true})
			}

			r.dispatcher.Dispatch(events.StepFailed{Step: s, Result: stepResult, Index: i})
			stepLogger.Debug().
				Bool("rolled_back", stepResult.RolledBack).
				Int("cascade_rollbacks", len(cascade)).
				Msg("step failed, run stopped")

			return result.RunFailed(runID, stepResults, i, cascade), nil
		}

		r.dispatcher.Dispatch(events.StepCompleted{Step: s, Result: stepResult, Index: i})
		stepLogger.Debug().Int("actions", len(stepResult.Actions)).Msg("step completed")

		isBaseClone := rec.HasBase() && i == 0
		if rec.AutoCommit() && !isBaseClone && !s.HasCommit() {
			r.autoCommit(s, ctx, stepResult, stepLogger)
		}
	}

	for _, cb := range rec.AfterCallbacks() {
		cb(rec)
	}

	logger.Debug().Msg("run completed")
	return result.RunSucceeded(runID, stepResults), nil
}

// Plan resolves every step and describes its commands. Nothing is executed
// and no events are dispatched. Deferred commit messages are generated
// without results.
func (r *Runner) Plan(rec *recipe.Recipe) (Plan, error) {
	if err := rec.Validate(); err != nil {
		return Plan{}, err
	}

	steps := rec.Steps()
	plan := Plan{RecipeName: rec.Name(), Steps: make([]StepPlan, 0, len(steps))}

	for i, s := range steps {
		ctx := contextFor(rec, i)
		s.Resolve()

		sp := StepPlan{Name: s.Name, Description: s.Description}
		for _, a := range s.Actions() {
			a.Bind(ctx)
			a = withGeneratedMessage(a, r.commits, s, nil)
			sp.Commands = append(sp.Commands, action.Describe(a))
			sp.Rollbackable = append(sp.Rollbackable, action.CanRollback(a))
		}
		plan.Steps = append(plan.Steps, sp)
	}

	return plan, nil
}

// prepare deletes a fresh target, makes sure the first step's directory
// exists, and initializes a repository when commits have nowhere to go
func (r *Runner) prepare(rec *recipe.Recipe, logger zerolog.Logger) {
	project := rec.ProjectContext()

	if rec.Fresh() && project.WorkingDirectory != "" {
		if err := r.fs.DeleteDirectory(project.WorkingDirectory); err != nil {
			logger.Warn().Err(err).Str("path", project.WorkingDirectory).Msg("could not delete target directory")
		}
	}

	if first := contextFor(rec, 0).WorkingDirectory; first != "" {
		if err := r.fs.EnsureDirectory(first); err != nil {
			logger.Warn().Err(err).Str("path", first).Msg("could not create target directory")
		}
	}

	if rec.AutoCommit() && !rec.HasBase() {
		r.execTolerant(action.NewGitInit(), project, logger)
	}
}

// autoCommit stages and commits after a step. Both commands may fail, for
// example when there is nothing to commit.
func (r *Runner) autoCommit(s *step.Step, ctx action.Context, stepResult result.StepResult, logger zerolog.Logger) {
	message := r.commits.Generate(s, stepResult.Actions)

	r.execTolerant(action.NewGitAdd(), ctx, logger)
	r.execTolerant(action.NewGitCommit(message), ctx, logger)
}

func (r *Runner) execTolerant(a action.Action, ctx action.Context, logger zerolog.Logger) {
	a.SetAllowFailure(true)
	a.Bind(ctx)

	res := r.executor.Execute(a.Command().Argv(), ctx.WorkingDirectory, r.timeout)
	if !res.Successful {
		logger.Debug().
			Str("command", res.CommandString()).
			Int("exit_code", res.ExitCode).
			Msg("tolerated failure")
	}
}
