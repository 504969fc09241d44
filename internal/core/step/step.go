// SPDX-License-Identifier: Apache-2.0

package step

import (
	"fmt"

	"github.com/kusari-oss/compose/internal/core/action"
)

// FailurePolicy decides what a failed action means for its step
type FailurePolicy string

const (
	// Abort fails the step and rolls it back
	Abort FailurePolicy = "abort"
	// Continue records the failure as a warning and moves on
	Continue FailurePolicy = "continue"
)

// ParseFailurePolicy converts a name into a FailurePolicy. Empty means Abort.
func ParseFailurePolicy(name string) (FailurePolicy, error) {
	switch p := FailurePolicy(name); p {
	case Abort, Continue:
		return p, nil
	case "":
		return Abort, nil
	default:
		return "", fmt.Errorf("unknown failure policy: %s", name)
	}
}

// ShouldWarn reports whether a failure is absorbed as a warning. An action
// can opt in on its own; a Continue step absorbs every failure.
func ShouldWarn(policy FailurePolicy, allowFailure bool) bool {
	return allowFailure || policy == Continue
}

// Resolver populates a step's actions through the builder
type Resolver func(b *Builder)

// Step is an ordered group of actions resolved lazily from a Resolver
type Step struct {
	Name        string
	Description string
	Message     string
	Policy      FailurePolicy

	resolver Resolver
	context  action.Context
	resolved bool
	actions  []action.Action
}

// New creates a step whose actions are produced by resolver at resolution time
func New(name string, ctx action.Context, resolver Resolver) *Step {
	return &Step{
		Name:     name,
		Policy:   Abort,
		resolver: resolver,
		context:  ctx,
	}
}

// WithDescription sets the description shown in plans
func (s *Step) WithDescription(description string) *Step {
	s.Description = description
	return s
}

// WithMessage sets the message shown when the step starts
func (s *Step) WithMessage(message string) *Step {
	s.Message = message
	return s
}

// WithPolicy sets the failure policy
func (s *Step) WithPolicy(policy FailurePolicy) *Step {
	s.Policy = policy
	return s
}

// SetContext replaces the context handed to the builder. It has no effect
// once the step is resolved.
func (s *Step) SetContext(ctx action.Context) {
	s.context = ctx
}

// Resolve runs the resolver once. Later calls are no-ops.
func (s *Step) Resolve() {
	if s.resolved {
		return
	}

	b := &Builder{context: s.context}
	if s.resolver != nil {
		s.resolver(b)
	}
	s.actions = b.finish()
	s.resolved = true
}

// Resolved reports whether Resolve has run
func (s *Step) Resolved() bool {
	return s.resolved
}

// Actions returns the resolved actions. Empty before Resolve.
func (s *Step) Actions() []action.Action {
	out := make([]action.Action, len(s.actions))
	copy(out, s.actions)
	return out
}

// ShouldWarnOnFailure applies ShouldWarn to a
func (s *Step) ShouldWarnOnFailure(a action.Action) bool {
	return ShouldWarn(s.Policy, a.AllowFailure())
}

// HasCommit reports whether the resolved actions already commit
func (s *Step) HasCommit() bool {
	for _, a := range s.actions {
		if a.Kind() == action.KindCommitChanges {
			return true
		}
	}
	return false
}
