// SPDX-License-Identifier: Apache-2.0

// Package events notifies observers about the lifecycle of a run. Handlers
// observe; they cannot change what the runner does next.
package events

import (
	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/core/step"
)

// Kind identifies an event type
type Kind string

const (
	KindStepStarting      Kind = "step.starting"
	KindStepCompleted     Kind = "step.completed"
	KindStepFailed        Kind = "step.failed"
	KindActionExecuting   Kind = "action.executing"
	KindActionCompleted   Kind = "action.completed"
	KindActionFailed      Kind = "action.failed"
	KindRollbackStarting  Kind = "rollback.starting"
	KindRollbackCompleted Kind = "rollback.completed"
)

// Kinds lists every event kind in lifecycle order
func Kinds() []Kind {
	return []Kind{
		KindStepStarting,
		KindStepCompleted,
		KindStepFailed,
		KindActionExecuting,
		KindActionCompleted,
		KindActionFailed,
		KindRollbackStarting,
		KindRollbackCompleted,
	}
}

// Event is anything the dispatcher can deliver
type Event interface {
	Kind() Kind
}

// StepStarting is dispatched before a step is resolved
type StepStarting struct {
	Step  *step.Step
	Index int
}

// StepCompleted is dispatched after every action of a step succeeded or was warned
type StepCompleted struct {
	Step   *step.Step
	Result result.StepResult
	Index  int
}

// StepFailed is dispatched once a step failed and all rollback finished
type StepFailed struct {
	Step   *step.Step
	Result result.StepResult
	Index  int
}

// ActionExecuting is dispatched before the forward command runs
type ActionExecuting struct {
	Action action.Action
}

// ActionCompleted is dispatched after a successful forward command
type ActionCompleted struct {
	Action action.Action
	Result result.ActionResult
}

// ActionFailed is dispatched after a failed forward command. Warned means the
// failure was absorbed and the step goes on.
type ActionFailed struct {
	Action action.Action
	Result result.ActionResult
	Warned bool
}

// RollbackStarting is dispatched before compensating commands run. Cascade
// is set when earlier steps are being undone rather than Step itself.
type RollbackStarting struct {
	Step    *step.Step
	Cascade bool
}

// RollbackCompleted carries the compensating command results
type RollbackCompleted struct {
	Step    *step.Step
	Results []result.ActionResult
	Cascade bool
}

func (StepStarting) Kind() Kind { return KindStepStarting }
func (StepCompleted) Kind() Kind { return KindStepCompleted }
func (StepFailed) Kind() Kind { return KindStepFailed }
func (ActionExecuting) Kind() Kind { return KindActionExecuting }
func (ActionCompleted) Kind() Kind { return KindActionCompleted }
func (ActionFailed) Kind() Kind { return KindActionFailed }
func (RollbackStarting) Kind() Kind { return KindRollbackStarting }
func (RollbackCompleted) Kind() Kind { return KindRollbackCompleted }
