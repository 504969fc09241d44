// SPDX-License-Identifier: Apache-2.0

package action

import (
	"errors"
	"fmt"

	"github.com/kusari-oss/compose/internal/core/models"
)

// ErrUnknownType is returned for action documents with an unregistered type
var ErrUnknownType = errors.New("unknown action type")

// Creator builds the actions described by one action document
type Creator func(doc models.ActionDocument) ([]Action, error)

// Factory creates actions of different types
type Factory struct {
	creators map[string]Creator
}

// NewFactory creates an empty factory
func NewFactory() *Factory {
	return &Factory{
		creators: make(map[string]Creator),
	}
}

// Register registers a new action type creator
func (f *Factory) Register(typeName string, creator Creator) {
	f.creators[typeName] = creator
}

// Create builds the actions for doc. allow_failure applies to every
// produced action.
func (f *Factory) Create(doc models.ActionDocument) ([]Action, error) {
	creator, ok := f.creators[doc.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, doc.Type)
	}

	actions, err := creator(doc)
	if err != nil {
		return nil, fmt.Errorf("error creating %s action: %w", doc.Type, err)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("%s action does not describe any operation", doc.Type)
	}

	return withAllowFailure(actions, doc.AllowFailure), nil
}

// RegisterDefaultTypes registers all the standard action types
func (f *Factory) RegisterDefaultTypes() {
	f.Register("composer", func(doc models.ActionDocument) ([]Action, error) {
		return ComposerActions(packageOptions(doc)), nil
	})

	f.Register("node", func(doc models.ActionDocument) ([]Action, error) {
		return NodeActions(packageOptions(doc)), nil
	})

	f.Register("clone", func(doc models.ActionDocument) ([]Action, error) {
		if doc.Repo == "" {
			return nil, fmt.Errorf("repo is required for clone actions")
		}
		return []Action{NewGitClone(doc.Repo, doc.Branch, doc.Directory)}, nil
	})

	f.Register("init", func(doc models.ActionDocument) ([]Action, error) {
		return []Action{NewGitInit()}, nil
	})

	f.Register("stage", func(doc models.ActionDocument) ([]Action, error) {
		return []Action{NewGitAdd()}, nil
	})

	f.Register("commit", func(doc models.ActionDocument) ([]Action, error) {
		return CommitActions(doc.Message), nil
	})
}

func packageOptions(doc models.ActionDocument) PackageOptions {
	return PackageOptions{
		Install:   doc.Install,
		Dev:       doc.Dev,
		Remove:    doc.Remove,
		RemoveDev: doc.RemoveDev,
		Run:       doc.Run,
		Args:      doc.Args,
	}
}
