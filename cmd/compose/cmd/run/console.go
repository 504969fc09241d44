// SPDX-License-Identifier: Apache-2.0

package run

import (
	"fmt"
	"io"
	"strings"

	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/events"
)

// console renders run events for a terminal
type console struct {
	out io.Writer
}

func attachConsole(d *events.Dispatcher, out io.Writer) {
	c := &console{out: out}

	events.On(d, c.stepStarting)
	events.On(d, c.stepCompleted)
	events.On(d, c.stepFailed)
	events.On(d, c.actionExecuting)
	events.On(d, c.actionFailed)
	events.On(d, c.rollbackStarting)
	events.On(d, c.rollbackCompleted)
}

func (c *console) stepStarting(e events.StepStarting) {
	title := e.Step.Message
	if title == "" {
		title = e.Step.Name
	}
	fmt.Fprintf(c.out, "\n▸ %s\n", title)
}

func (c *console) stepCompleted(e events.StepCompleted) {
	if e.Result.HasWarnings() {
		fmt.Fprintf(c.out, "  ✓ %s (%d warning(s))\n", e.Step.Name, len(e.Result.Warnings()))
		return
	}
	fmt.Fprintf(c.out, "  ✓ %s\n", e.Step.Name)
}

func (c *console) stepFailed(e events.StepFailed) {
	fmt.Fprintf(c.out, "  ✗ %s failed\n", e.Step.Name)
}

func (c *console) actionExecuting(e events.ActionExecuting) {
	fmt.Fprintf(c.out, "  → %s\n", action.Describe(e.Action))
}

func (c *console) actionFailed(e events.ActionFailed) {
	marker := "✗"
	if e.Warned {
		marker = "⚠"
	}
	fmt.Fprintf(c.out, "    %s exit %d\n", marker, e.Result.ExitCode)
	c.indent(e.Result.Stderr)
}

func (c *console) rollbackStarting(e events.RollbackStarting) {
	if e.Cascade {
		fmt.Fprintf(c.out, "  ↺ rolling back %s\n", e.Step.Name)
		return
	}
	fmt.Fprintln(c.out, "  ↺ rolling back")
}

func (c *console) rollbackCompleted(e events.RollbackCompleted) {
	for _, r := range e.Results {
		status := "✓"
		if !r.Successful {
			status = "✗"
		}
		fmt.Fprintf(c.out, "    %s %s\n", status, r.CommandString())
	}
}

// indent prints the last lines of command output under the failed action
func (c *console) indent(output string) {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > 10 {
		lines = lines[len(lines)-10:]
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintf(c.out, "      %s\n", line)
	}
}

// summarize prints the outcome of a run
func summarize(out io.Writer, res result.RunResult, total int) {
	fmt.Fprintln(out)
	if res.Successful {
		fmt.Fprintf(out, "Completed %d/%d steps", res.StepsCompleted(), total)
	} else {
		fmt.Fprintf(out, "Failed after %d/%d steps", res.StepsCompleted(), total)
	}
	if res.HasWarnings() {
		fmt.Fprintf(out, " with %d warning(s)", len(res.Warnings()))
	}
	fmt.Fprintf(out, " (run %s)\n", res.RunID)

	for _, w := range res.Warnings() {
		fmt.Fprintf(out, "  ⚠ %s (exit %d)\n", w.CommandString(), w.ExitCode)
	}
}
