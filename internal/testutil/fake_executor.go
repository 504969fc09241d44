// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"

	"github.com/kusari-oss/compose/internal/core/result"
)

// Invocation is one command seen by a FakeExecutor
type Invocation struct {
	Command []string
	Cwd     string
	Timeout time.Duration
}

// String joins the command with single spaces
func (i Invocation) String() string {
	return strings.Join(i.Command, " ")
}

type response struct {
	pattern string
	matcher glob.Glob
	result  result.ActionResult
}

// FakeExecutor records every command and answers with canned results.
// Patterns match the space-joined command exactly, with * matching any run
// of characters. Unmatched commands succeed.
type FakeExecutor struct {
	responses []response
	executed  []Invocation
}

// NewFakeExecutor creates a fake that succeeds at everything
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{}
}

// On answers commands matching pattern with res. Earlier patterns win.
func (f *FakeExecutor) On(pattern string, res result.ActionResult) *FakeExecutor {
	f.responses = append(f.responses, response{
		pattern: pattern,
		matcher: compilePattern(pattern),
		result:  res,
	})
	return f
}

// Fail makes commands matching pattern exit with code 1
func (f *FakeExecutor) Fail(pattern string) *FakeExecutor {
	return f.On(pattern, result.Failure(nil, 1, "failed: "+pattern))
}

// Execute implements the executor contract
func (f *FakeExecutor) Execute(argv []string, cwd string, timeout time.Duration) result.ActionResult {
	command := append([]string(nil), argv...)
	f.executed = append(f.executed, Invocation{Command: command, Cwd: cwd, Timeout: timeout})

	joined := strings.Join(command, " ")
	for _, r := range f.responses {
		if r.matcher.Match(joined) {
			res := r.result
			res.Command = command
			res.Duration = 0
			return res
		}
	}

	return result.Success(command, "")
}

// Executed returns every invocation in order
func (f *FakeExecutor) Executed() []Invocation {
	return append([]Invocation(nil), f.executed...)
}

// Commands returns every executed command, space joined
func (f *FakeExecutor) Commands() []string {
	commands := make([]string, 0, len(f.executed))
	for _, inv := range f.executed {
		commands = append(commands, inv.String())
	}
	return commands
}

// Find returns the first invocation matching command, which may contain *
func (f *FakeExecutor) Find(command ...string) (Invocation, bool) {
	matcher := compilePattern(strings.Join(command, " "))
	for _, inv := range f.executed {
		if matcher.Match(inv.String()) {
			return inv, true
		}
	}
	return Invocation{}, false
}

// AssertExecuted checks that a command matching command ran
func (f *FakeExecutor) AssertExecuted(t *testing.T, command ...string) bool {
	t.Helper()
	_, found := f.Find(command...)
	return assert.True(t, found, "Expected command [%s] was not executed. Executed:\n%s",
		strings.Join(command, " "), strings.Join(f.Commands(), "\n"))
}

// AssertNotExecuted checks that no command matching command ran
func (f *FakeExecutor) AssertNotExecuted(t *testing.T, command ...string) bool {
	t.Helper()
	_, found := f.Find(command...)
	return assert.False(t, found, "Unexpected command [%s] was executed.", strings.Join(command, " "))
}

// AssertNothingExecuted checks that no command ran at all
func (f *FakeExecutor) AssertNothingExecuted(t *testing.T) bool {
	t.Helper()
	return assert.Empty(t, f.executed, "Expected no commands to be executed, but %d were.", len(f.executed))
}

// compilePattern escapes everything except * so commands containing glob
// syntax such as braces or brackets match literally
func compilePattern(pattern string) glob.Glob {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = glob.QuoteMeta(p)
	}
	return glob.MustCompile(strings.Join(parts, "*"))
}
