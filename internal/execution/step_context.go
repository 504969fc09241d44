// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/core/step"
	"github.com/kusari-oss/compose/internal/events"
)

// StepContext is threaded through the step pipeline. Result is nil until a
// stage decides the step's outcome.
type StepContext struct {
	Step       *step.Step
	Context    action.Context
	Executor   Executor
	Rollback   *RollbackManager
	Dispatcher *events.Dispatcher
	Commits    CommitMessageGenerator
	Timeout    time.Duration
	Logger     zerolog.Logger

	Result *result.StepResult
}
