// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Plan is a side-effect free preview of a run
type Plan struct {
	RecipeName string     `json:"recipe" yaml:"recipe"`
	Steps      []StepPlan `json:"steps" yaml:"steps"`
}

// StepPlan lists the commands one step would run. Rollbackable is parallel
// to Commands.
type StepPlan struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Commands     []string `json:"commands" yaml:"commands"`
	Rollbackable []bool   `json:"rollbackable" yaml:"rollbackable"`
}

// Commands flattens every step's commands in run order
func (p Plan) Commands() []string {
	var commands []string
	for _, s := range p.Steps {
		commands = append(commands, s.Commands...)
	}
	return commands
}

// String renders the plan for a terminal. Rollbackable commands are marked ↺.
func (p Plan) String() string {
	var b strings.Builder

	title := "Compose: " + p.RecipeName
	fmt.Fprintf(&b, "  %s\n", title)
	fmt.Fprintf(&b, "  %s\n\n", strings.Repeat("─", utf8.RuneCountInString(title)))

	for i, s := range p.Steps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s.Name)
		if s.Description != "" {
			fmt.Fprintf(&b, "     %s\n", s.Description)
		}
		for j, command := range s.Commands {
			indicator := " "
			if j < len(s.Rollbackable) && s.Rollbackable[j] {
				indicator = "↺"
			}
			fmt.Fprintf(&b, "     %s %s\n", indicator, command)
		}
		b.WriteString("\n")
	}

	return b.String()
}
