// SPDX-License-Identifier: Apache-2.0

package action

import (
	"errors"
	"fmt"
)

// ErrUnboundContext is the panic value cause when a command is built before Bind
var ErrUnboundContext = errors.New("command requested before an execution context was bound")

// NodeManager is the Node package manager flavor
type NodeManager string

const (
	Npm  NodeManager = "npm"
	Yarn NodeManager = "yarn"
	Pnpm NodeManager = "pnpm"
	Bun  NodeManager = "bun"
)

// ParseNodeManager converts a name into a NodeManager
func ParseNodeManager(name string) (NodeManager, error) {
	switch m := NodeManager(name); m {
	case Npm, Yarn, Pnpm, Bun:
		return m, nil
	case "":
		return Npm, nil
	default:
		return "", fmt.Errorf("unknown node package manager: %s", name)
	}
}

// Context is the immutable environment an action's commands are built for
type Context struct {
	ComposerBinary   string
	GitBinary        string
	NodeManager      NodeManager
	WorkingDirectory string
}

// DefaultContext uses binaries resolved from PATH and npm
func DefaultContext() Context {
	return Context{
		ComposerBinary: "composer",
		GitBinary:      "git",
		NodeManager:    Npm,
	}
}

// WithWorkingDirectory returns a copy of c running in dir
func (c Context) WithWorkingDirectory(dir string) Context {
	c.WorkingDirectory = dir
	return c
}
