// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"time"

	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/result"
)

// RollbackManager tracks the successfully applied actions of every step so
// they can be compensated in reverse order
type RollbackManager struct {
	order       []string
	stacks      map[string][]action.Action
	directories map[string]string
	current     string
	hasCurrent  bool
	timeout     time.Duration
}

// NewRollbackManager creates an empty manager. timeout applies to every
// compensating command; zero means the executor's default.
func NewRollbackManager(timeout time.Duration) *RollbackManager {
	return &RollbackManager{
		stacks:      make(map[string][]action.Action),
		directories: make(map[string]string),
		timeout:     timeout,
	}
}

// BeginStep opens a fresh stack for name, run in workingDirectory, and makes
// it current
func (m *RollbackManager) BeginStep(name, workingDirectory string) {
	if _, seen := m.stacks[name]; !seen {
		m.order = append(m.order, name)
	}
	m.stacks[name] = nil
	m.directories[name] = workingDirectory
	m.current = name
	m.hasCurrent = true
}

// Push records a successfully applied action on the current step. It is a
// no-op before BeginStep.
func (m *RollbackManager) Push(a action.Action) {
	if !m.hasCurrent {
		return
	}
	m.stacks[m.current] = append(m.stacks[m.current], a)
}

// RollbackCurrentStep compensates the current step's actions newest first,
// in the directory the step ran in, and clears its stack
func (m *RollbackManager) RollbackCurrentStep(executor Executor) []result.ActionResult {
	if !m.hasCurrent {
		return nil
	}
	return m.drain(m.current, executor)
}

// RollbackAllSteps compensates every step except the current one, newest
// step first. Each step is fully drained before the next older one.
func (m *RollbackManager) RollbackAllSteps(executor Executor) []result.ActionResult {
	var results []result.ActionResult
	for i := len(m.order) - 1; i >= 0; i-- {
		name := m.order[i]
		if m.hasCurrent && name == m.current {
			continue
		}
		results = append(results, m.drain(name, executor)...)
	}
	return results
}

// HasRollbackableActions reports whether the current step has anything to compensate
func (m *RollbackManager) HasRollbackableActions() bool {
	if !m.hasCurrent {
		return false
	}
	return anyRollbackable(m.stacks[m.current])
}

// HasPreviousRollbackableActions reports whether any other step has anything
// to compensate
func (m *RollbackManager) HasPreviousRollbackableActions() bool {
	for _, name := range m.order {
		if m.hasCurrent && name == m.current {
			continue
		}
		if anyRollbackable(m.stacks[name]) {
			return true
		}
	}
	return false
}

func (m *RollbackManager) drain(name string, executor Executor) []result.ActionResult {
	stack := m.stacks[name]
	cwd := m.directories[name]

	var results []result.ActionResult
	for i := len(stack) - 1; i >= 0; i-- {
		cmd := stack[i].Rollback()
		if cmd == nil {
			continue
		}
		results = append(results, executor.Execute(cmd.Argv(), cwd, m.timeout))
	}

	m.stacks[name] = nil
	return results
}

func anyRollbackable(actions []action.Action) bool {
	for _, a := range actions {
		if action.CanRollback(a) {
			return true
		}
	}
	return false
}
