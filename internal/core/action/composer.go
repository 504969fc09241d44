// SPDX-License-Identifier: Apache-2.0

package action

import (
	"github.com/kusari-oss/compose/internal/core/command"
)

// ComposerInstall requires PHP packages
type ComposerInstall struct {
	base
	Packages []string
	Dev      bool
}

// NewComposerInstall creates a composer require action
func NewComposerInstall(dev bool, packages ...string) *ComposerInstall {
	return &ComposerInstall{Packages: packages, Dev: dev}
}

func (a *ComposerInstall) Kind() Kind { return KindInstallPackages }

func (a *ComposerInstall) Command() *command.Command {
	return composerPackages(a.BoundContext(), "require", a.Dev, a.Packages)
}

func (a *ComposerInstall) Rollback() *command.Command {
	return composerPackages(a.BoundContext(), "remove", a.Dev, a.Packages)
}

// ComposerRemove removes PHP packages
type ComposerRemove struct {
	base
	Packages []string
	Dev      bool
}

// NewComposerRemove creates a composer remove action
func NewComposerRemove(dev bool, packages ...string) *ComposerRemove {
	return &ComposerRemove{Packages: packages, Dev: dev}
}

func (a *ComposerRemove) Kind() Kind { return KindRemovePackages }

func (a *ComposerRemove) Command() *command.Command {
	return composerPackages(a.BoundContext(), "remove", a.Dev, a.Packages)
}

func (a *ComposerRemove) Rollback() *command.Command {
	return composerPackages(a.BoundContext(), "require", a.Dev, a.Packages)
}

// ComposerRun runs a composer script
type ComposerRun struct {
	base
	Script string
	Args   []string
}

// NewComposerRun creates a composer run action
func NewComposerRun(script string, args ...string) *ComposerRun {
	return &ComposerRun{Script: script, Args: args}
}

func (a *ComposerRun) Kind() Kind { return KindRunScript }

func (a *ComposerRun) Command() *command.Command {
	return command.New(a.BoundContext().ComposerBinary, "run", a.Script).
		When(len(a.Args) > 0, func(c *command.Command) {
			c.Argument("--").Argument(a.Args...)
		})
}

func (a *ComposerRun) Rollback() *command.Command { return nil }

func composerPackages(ctx Context, verb string, dev bool, packages []string) *command.Command {
	return command.New(ctx.ComposerBinary, verb).
		When(dev, func(c *command.Command) { c.Flag("--dev") }).
		Argument(packages...)
}
