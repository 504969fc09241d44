// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/core/step"
	"github.com/kusari-oss/compose/internal/core/template"
)

// DefaultCommitTemplate renders "compose: <step name>"
const DefaultCommitTemplate = "compose: {{.Step}}"

// CommitMessageGenerator writes the message for a commit whose step did not
// provide one
type CommitMessageGenerator interface {
	Generate(s *step.Step, results []result.ActionResult) string
}

// CommitData is what commit message templates are rendered with
type CommitData struct {
	Step        string
	Description string
	Commands    []string
}

// NewCommitData collects the template data for s
func NewCommitData(s *step.Step, results []result.ActionResult) CommitData {
	data := CommitData{Step: s.Name, Description: s.Description}
	for _, r := range results {
		if r.Successful {
			data.Commands = append(data.Commands, r.CommandString())
		}
	}
	return data
}

// TemplateGenerator renders a text/template over CommitData. File, when set,
// is read on every Generate and wins over Template.
type TemplateGenerator struct {
	Template string
	File     string
}

// NewDefaultGenerator renders DefaultCommitTemplate
func NewDefaultGenerator() *TemplateGenerator {
	return &TemplateGenerator{Template: DefaultCommitTemplate}
}

// Generate renders the template, falling back to the default message when
// the template is empty or broken
func (g *TemplateGenerator) Generate(s *step.Step, results []result.ActionResult) string {
	data := NewCommitData(s, results)

	if g.File != "" {
		message, err := template.ProcessFile(g.File, data)
		if err == nil && message != "" {
			return message
		}
	}

	if g.Template != "" {
		message, err := template.ProcessString(g.Template, data)
		if err == nil && message != "" {
			return message
		}
	}
	return DefaultCommitMessage(s)
}

// DefaultCommitMessage is "compose: <step name>"
func DefaultCommitMessage(s *step.Step) string {
	return "compose: " + s.Name
}
