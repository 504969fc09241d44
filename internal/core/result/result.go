// SPDX-License-Identifier: Apache-2.0

// Package result holds the immutable outcome records of a run.
package result

import (
	"strings"
	"time"

	"github.com/kusari-oss/compose/internal/core/action"
)

// ActionResult is the outcome of one external command
type ActionResult struct {
	Command    []string      `json:"command" yaml:"command"`
	ExitCode   int           `json:"exit_code" yaml:"exit_code"`
	Stdout     string        `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr     string        `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Successful bool          `json:"successful" yaml:"successful"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Warned     bool          `json:"warned,omitempty" yaml:"warned,omitempty"`

	// Action is nil for commands that did not come from a step, such as
	// rollbacks and auto-commits
	Action action.Action `json:"-" yaml:"-"`
}

// Success builds a successful result, mostly for fakes
func Success(command []string, stdout string) ActionResult {
	return ActionResult{Command: command, Stdout: stdout, Successful: true}
}

// Failure builds a failed result, mostly for fakes
func Failure(command []string, exitCode int, stderr string) ActionResult {
	if exitCode == 0 {
		exitCode = 1
	}
	return ActionResult{Command: command, ExitCode: exitCode, Stderr: stderr}
}

// For returns a copy attributed to a
func (r ActionResult) For(a action.Action) ActionResult {
	r.Action = a
	return r
}

// AsWarned returns a copy flagged as an absorbed failure
func (r ActionResult) AsWarned() ActionResult {
	r.Warned = true
	return r
}

// CommandString joins the command with single spaces
func (r ActionResult) CommandString() string {
	return strings.Join(r.Command, " ")
}

// StepResult aggregates the action results of one step
type StepResult struct {
	Name            string         `json:"name" yaml:"name"`
	Actions         []ActionResult `json:"actions" yaml:"actions"`
	Successful      bool           `json:"successful" yaml:"successful"`
	RolledBack      bool           `json:"rolled_back,omitempty" yaml:"rolled_back,omitempty"`
	RollbackResults []ActionResult `json:"rollback_results,omitempty" yaml:"rollback_results,omitempty"`
}

// StepSucceeded builds a successful step result
func StepSucceeded(name string, actions []ActionResult) StepResult {
	return StepResult{Name: name, Actions: actions, Successful: true}
}

// StepFailed builds a failed step result. rolledBack is derived from
// rollbackResults.
func StepFailed(name string, actions []ActionResult, rollbackResults []ActionResult) StepResult {
	return StepResult{
		Name:            name,
		Actions:         actions,
		RolledBack:      len(rollbackResults) > 0,
		RollbackResults: rollbackResults,
	}
}

// Warnings returns the absorbed failures in execution order
func (s StepResult) Warnings() []ActionResult {
	var warnings []ActionResult
	for _, r := range s.Actions {
		if r.Warned {
			warnings = append(warnings, r)
		}
	}
	return warnings
}

// HasWarnings reports whether any action failure was absorbed
func (s StepResult) HasWarnings() bool {
	return len(s.Warnings()) > 0
}

// FailedAction returns the unwarned failure that ended the step, if any
func (s StepResult) FailedAction() (ActionResult, bool) {
	for _, r := range s.Actions {
		if !r.Successful && !r.Warned {
			return r, true
		}
	}
	return ActionResult{}, false
}

// RunResult aggregates every step attempted in a run
type RunResult struct {
	RunID      string       `json:"run_id" yaml:"run_id"`
	Steps      []StepResult `json:"steps" yaml:"steps"`
	Successful bool         `json:"successful" yaml:"successful"`

	// FailedAtStep is the zero-based index of the failing step, -1 on success
	FailedAtStep int `json:"failed_at_step" yaml:"failed_at_step"`

	// RollbackResults holds the compensations replayed for earlier steps
	// after a failure
	RollbackResults []ActionResult `json:"rollback_results,omitempty" yaml:"rollback_results,omitempty"`
}

// RunSucceeded builds a successful run result
func RunSucceeded(runID string, steps []StepResult) RunResult {
	return RunResult{RunID: runID, Steps: steps, Successful: true, FailedAtStep: -1}
}

// RunFailed builds a failed run result
func RunFailed(runID string, steps []StepResult, failedAt int, rollbackResults []ActionResult) RunResult {
	return RunResult{
		RunID:           runID,
		Steps:           steps,
		FailedAtStep:    failedAt,
		RollbackResults: rollbackResults,
	}
}

// StepsCompleted counts the successful steps
func (r RunResult) StepsCompleted() int {
	n := 0
	for _, s := range r.Steps {
		if s.Successful {
			n++
		}
	}
	return n
}

// StepsTotal counts the attempted steps
func (r RunResult) StepsTotal() int {
	return len(r.Steps)
}

// Warnings returns the absorbed failures of every step, in order
func (r RunResult) Warnings() []ActionResult {
	var warnings []ActionResult
	for _, s := range r.Steps {
		warnings = append(warnings, s.Warnings()...)
	}
	return warnings
}

// HasWarnings reports whether any step absorbed a failure
func (r RunResult) HasWarnings() bool {
	return len(r.Warnings()) > 0
}
