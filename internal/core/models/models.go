// SPDX-License-Identifier: Apache-2.0

// Package models holds the on-disk recipe document. It has no dependencies on
// the execution packages so loaders and validators can share it.
package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RecipeDocument is the parsed form of a recipe file
type RecipeDocument struct {
	Name     string                 `json:"name" yaml:"name"`
	Target   string                 `json:"target,omitempty" yaml:"target,omitempty"`
	Fresh    bool                   `json:"fresh,omitempty" yaml:"fresh,omitempty"`
	Base     *BaseDocument          `json:"base,omitempty" yaml:"base,omitempty"`
	Commit   *CommitDocument        `json:"commit,omitempty" yaml:"commit,omitempty"`
	AI       *AIDocument            `json:"ai,omitempty" yaml:"ai,omitempty"`
	Node     string                 `json:"node,omitempty" yaml:"node,omitempty"`
	Binaries *BinariesDocument      `json:"binaries,omitempty" yaml:"binaries,omitempty"`
	Vars     map[string]interface{} `json:"vars,omitempty" yaml:"vars,omitempty"`
	Steps    []StepDocument         `json:"steps" yaml:"steps"`
}

// BaseDocument names the repository a project is cloned from
type BaseDocument struct {
	Repo   string `json:"repo" yaml:"repo"`
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// CommitDocument configures auto-commit. Automatically defaults to true.
type CommitDocument struct {
	Automatically *bool `json:"automatically,omitempty" yaml:"automatically,omitempty"`
	Smart         bool  `json:"smart,omitempty" yaml:"smart,omitempty"`
}

// AIDocument selects the provider used for smart commit messages
type AIDocument struct {
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
}

// BinariesDocument overrides tool binaries
type BinariesDocument struct {
	Composer string `json:"composer,omitempty" yaml:"composer,omitempty"`
	Git      string `json:"git,omitempty" yaml:"git,omitempty"`
}

// StepDocument is one step of a recipe
type StepDocument struct {
	Name        string           `json:"name" yaml:"name"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Message     string           `json:"message,omitempty" yaml:"message,omitempty"`
	OnFailure   string           `json:"on_failure,omitempty" yaml:"on_failure,omitempty"` // abort or continue
	When        string           `json:"when,omitempty" yaml:"when,omitempty"`             // CEL expression over vars
	Actions     []ActionDocument `json:"actions" yaml:"actions"`
}

// ActionDocument is one entry of a step's action list. Which fields apply
// depends on Type.
type ActionDocument struct {
	Type         string     `json:"type" yaml:"type"`
	Install      StringList `json:"install,omitempty" yaml:"install,omitempty"`
	Dev          StringList `json:"dev,omitempty" yaml:"dev,omitempty"`
	Remove       StringList `json:"remove,omitempty" yaml:"remove,omitempty"`
	RemoveDev    StringList `json:"remove_dev,omitempty" yaml:"remove_dev,omitempty"`
	Run          string     `json:"run,omitempty" yaml:"run,omitempty"`
	Args         StringList `json:"args,omitempty" yaml:"args,omitempty"`
	Repo         string     `json:"repo,omitempty" yaml:"repo,omitempty"`
	Branch       string     `json:"branch,omitempty" yaml:"branch,omitempty"`
	Directory    string     `json:"directory,omitempty" yaml:"directory,omitempty"`
	Message      string     `json:"message,omitempty" yaml:"message,omitempty"`
	AllowFailure bool       `json:"allow_failure,omitempty" yaml:"allow_failure,omitempty"`
}

// StringList accepts either a single string or a list of strings
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*l = items
	return nil
}
