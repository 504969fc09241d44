// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"
)

// Command describes an external tool invocation. Tokens are never shell
// escaped; executors must hand Argv directly to the OS.
type Command struct {
	parts     []string
	flags     []string
	arguments []string
}

// New creates a command from a program and optional subcommand parts
func New(program string, parts ...string) *Command {
	return &Command{
		parts: append([]string{program}, parts...),
	}
}

// Flag appends a flag token
func (c *Command) Flag(flag string) *Command {
	c.flags = append(c.flags, flag)
	return c
}

// Argument appends positional tokens
func (c *Command) Argument(args ...string) *Command {
	c.arguments = append(c.arguments, args...)
	return c
}

// When applies fn only if condition holds
func (c *Command) When(condition bool, fn func(*Command)) *Command {
	if condition {
		fn(c)
	}
	return c
}

// Program returns the binary name
func (c *Command) Program() string {
	return c.parts[0]
}

// Argv returns program, parts, flags and arguments in that order
func (c *Command) Argv() []string {
	argv := make([]string, 0, len(c.parts)+len(c.flags)+len(c.arguments))
	argv = append(argv, c.parts...)
	argv = append(argv, c.flags...)
	argv = append(argv, c.arguments...)
	return argv
}

// String joins Argv with single spaces. The result is for display only.
func (c *Command) String() string {
	return strings.Join(c.Argv(), " ")
}
