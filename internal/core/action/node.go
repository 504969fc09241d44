// SPDX-License-Identifier: Apache-2.0

package action

import (
	"github.com/kusari-oss/compose/internal/core/command"
)

// NodeInstall adds Node packages with the bound context's manager
type NodeInstall struct {
	base
	Packages []string
	Dev      bool
}

// NewNodeInstall creates a node install action
func NewNodeInstall(dev bool, packages ...string) *NodeInstall {
	return &NodeInstall{Packages: packages, Dev: dev}
}

func (a *NodeInstall) Kind() Kind { return KindInstallPackages }

func (a *NodeInstall) Command() *command.Command {
	m := a.BoundContext().NodeManager
	return nodePackages(m, m.installVerb(), a.Dev, a.Packages)
}

func (a *NodeInstall) Rollback() *command.Command {
	m := a.BoundContext().NodeManager
	return nodePackages(m, m.removeVerb(), a.Dev, a.Packages)
}

// NodeRemove removes Node packages with the bound context's manager
type NodeRemove struct {
	base
	Packages []string
	Dev      bool
}

// NewNodeRemove creates a node remove action
func NewNodeRemove(dev bool, packages ...string) *NodeRemove {
	return &NodeRemove{Packages: packages, Dev: dev}
}

func (a *NodeRemove) Kind() Kind { return KindRemovePackages }

func (a *NodeRemove) Command() *command.Command {
	m := a.BoundContext().NodeManager
	return nodePackages(m, m.removeVerb(), a.Dev, a.Packages)
}

func (a *NodeRemove) Rollback() *command.Command {
	m := a.BoundContext().NodeManager
	return nodePackages(m, m.installVerb(), a.Dev, a.Packages)
}

// NodeRun runs a package.json script
type NodeRun struct {
	base
	Script string
	Args   []string
}

// NewNodeRun creates a node run action
func NewNodeRun(script string, args ...string) *NodeRun {
	return &NodeRun{Script: script, Args: args}
}

func (a *NodeRun) Kind() Kind { return KindRunScript }

// Command uses "run <script> -- args" for npm and pnpm; yarn and bun take
// the script name directly and forward arguments without a separator.
func (a *NodeRun) Command() *command.Command {
	m := a.BoundContext().NodeManager

	if m.usesRunVerb() {
		return command.New(string(m), "run", a.Script).
			When(len(a.Args) > 0, func(c *command.Command) {
				c.Argument("--").Argument(a.Args...)
			})
	}

	return command.New(string(m), a.Script).Argument(a.Args...)
}

func (a *NodeRun) Rollback() *command.Command { return nil }

func nodePackages(m NodeManager, verb string, dev bool, packages []string) *command.Command {
	return command.New(string(m), verb).
		When(dev, func(c *command.Command) { c.Flag(m.devFlag()) }).
		Argument(packages...)
}

func (m NodeManager) installVerb() string {
	if m == Npm {
		return "install"
	}
	return "add"
}

func (m NodeManager) removeVerb() string {
	if m == Npm {
		return "uninstall"
	}
	return "remove"
}

func (m NodeManager) devFlag() string {
	switch m {
	case Npm, Pnpm:
		return "--save-dev"
	default:
		return "--dev"
	}
}

func (m NodeManager) usesRunVerb() bool {
	switch m {
	case Yarn, Bun:
		return false
	default:
		return true
	}
}
