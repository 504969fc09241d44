// SPDX-License-Identifier: Apache-2.0

package step

import (
	"github.com/kusari-oss/compose/internal/core/action"
)

// Builder collects actions while a step is being resolved. It must not be
// retained after the resolver returns.
type Builder struct {
	context action.Context
	actions []action.Action
	done    bool
}

// Context is the context the step will run in
func (b *Builder) Context() action.Context {
	return b.context
}

// Composer appends composer actions described by opts
func (b *Builder) Composer(opts action.PackageOptions) *Builder {
	return b.Add(action.ComposerActions(opts)...)
}

// Node appends node actions described by opts
func (b *Builder) Node(opts action.PackageOptions) *Builder {
	return b.Add(action.NodeActions(opts)...)
}

// Commit appends a stage and commit pair. An empty message is generated at
// execution time.
func (b *Builder) Commit(message string) *Builder {
	return b.Add(action.CommitActions(message)...)
}

// Add appends actions as-is
func (b *Builder) Add(actions ...action.Action) *Builder {
	if b.done {
		panic("step: builder used after resolution finished")
	}
	b.actions = append(b.actions, actions...)
	return b
}

func (b *Builder) finish() []action.Action {
	b.done = true
	return b.actions
}
