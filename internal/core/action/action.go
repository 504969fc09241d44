// SPDX-License-Identifier: Apache-2.0

package action

import (
	"fmt"

	"github.com/kusari-oss/compose/internal/core/command"
)

// Kind identifies the operation an action performs
type Kind string

const (
	KindInstallPackages     Kind = "install-packages"
	KindRemovePackages      Kind = "remove-packages"
	KindRunScript           Kind = "run-script"
	KindCloneRepository     Kind = "clone-repository"
	KindInitRepository      Kind = "init-repository"
	KindStagePendingChanges Kind = "stage-pending-changes"
	KindCommitChanges       Kind = "commit-changes"
)

// Action is a single external tool invocation with an optional compensating
// invocation. The set of implementations is closed to this package.
type Action interface {
	// Kind returns the operation discriminator
	Kind() Kind

	// Command builds the forward command. Panics if no context is bound.
	Command() *command.Command

	// Rollback builds the compensating command, or nil if the action
	// cannot be undone. Panics if no context is bound.
	Rollback() *command.Command

	// Bind attaches the execution context used to build commands
	Bind(ctx Context)

	// BoundContext returns the bound context. Panics if none is bound.
	BoundContext() Context

	// AllowFailure reports whether a failure of this action is only a warning
	AllowFailure() bool

	// SetAllowFailure is called by step builders at construction time
	SetAllowFailure(allow bool)

	sealed()
}

// Describe returns the display string of the forward command
func Describe(a Action) string {
	return a.Command().String()
}

// CanRollback reports whether a has a compensating command
func CanRollback(a Action) bool {
	return a.Rollback() != nil
}

// base carries the state every action shares
type base struct {
	ctx          *Context
	allowFailure bool
}

func (b *base) Bind(ctx Context) {
	b.ctx = &ctx
}

func (b *base) BoundContext() Context {
	if b.ctx == nil {
		panic(fmt.Errorf("action: %w", ErrUnboundContext))
	}
	return *b.ctx
}

func (b *base) AllowFailure() bool {
	return b.allowFailure
}

func (b *base) SetAllowFailure(allow bool) {
	b.allowFailure = allow
}

func (b *base) sealed() {}

var (
	_ Action = (*ComposerInstall)(nil)
	_ Action = (*ComposerRemove)(nil)
	_ Action = (*ComposerRun)(nil)
	_ Action = (*NodeInstall)(nil)
	_ Action = (*NodeRemove)(nil)
	_ Action = (*NodeRun)(nil)
	_ Action = (*GitClone)(nil)
	_ Action = (*GitInit)(nil)
	_ Action = (*GitAdd)(nil)
	_ Action = (*GitCommit)(nil)
)
