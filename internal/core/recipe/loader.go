// SPDX-License-Identifier: Apache-2.0

package recipe

import (
	"fmt"
	"path/filepath"

	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/condition"
	"github.com/kusari-oss/compose/internal/core/format"
	"github.com/kusari-oss/compose/internal/core/models"
	"github.com/kusari-oss/compose/internal/core/schema"
	"github.com/kusari-oss/compose/internal/core/step"
)

// Loader builds recipes from recipe documents
type Loader struct {
	factory   *action.Factory
	evaluator *condition.CELEvaluator
	vars      map[string]interface{}
	defaults  []func(doc *models.RecipeDocument)
}

// NewLoader creates a loader with the default action types registered
func NewLoader() (*Loader, error) {
	evaluator, err := condition.NewCELEvaluator()
	if err != nil {
		return nil, err
	}

	factory := action.NewFactory()
	factory.RegisterDefaultTypes()

	return &Loader{factory: factory, evaluator: evaluator}, nil
}

// WithVars sets variables that override the recipe's own vars
func (l *Loader) WithVars(vars map[string]interface{}) *Loader {
	l.vars = vars
	return l
}

// WithDefaults registers fn to fill in a document before it is built
func (l *Loader) WithDefaults(fn func(doc *models.RecipeDocument)) *Loader {
	l.defaults = append(l.defaults, fn)
	return l
}

// LoadFile reads, validates, and builds the recipe at path. A relative
// target is resolved against the recipe file's directory.
func (l *Loader) LoadFile(path string) (*Recipe, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}

	if doc.Target == "" {
		doc.Target = "."
	}
	if !filepath.IsAbs(doc.Target) {
		doc.Target = filepath.Join(filepath.Dir(path), doc.Target)
	}

	return l.FromDocument(doc)
}

// Load validates and builds a recipe from raw YAML or JSON
func (l *Loader) Load(data []byte) (*Recipe, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return l.FromDocument(doc)
}

// ReadDocument reads and validates the recipe document at path
func ReadDocument(path string) (*models.RecipeDocument, error) {
	var raw map[string]interface{}
	if err := format.ParseFile(path, &raw); err != nil {
		return nil, fmt.Errorf("error reading recipe %s: %w", path, err)
	}
	return decodeDocument(raw)
}

// ParseDocument validates and decodes raw YAML or JSON
func ParseDocument(data []byte) (*models.RecipeDocument, error) {
	var raw map[string]interface{}
	if err := format.ParseData(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing recipe: %w", err)
	}
	return decodeDocument(raw)
}

func decodeDocument(raw map[string]interface{}) (*models.RecipeDocument, error) {
	if err := schema.ValidateRecipe(raw); err != nil {
		return nil, err
	}

	// Re-encode through the validated map so both YAML and JSON inputs decode
	// with the same rules
	data, err := format.Marshal(raw, format.YAML)
	if err != nil {
		return nil, err
	}

	var doc models.RecipeDocument
	if err := format.ParseData(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding recipe: %w", err)
	}
	return &doc, nil
}

// FromDocument builds a recipe. Steps whose when expression is false are
// left out and reported by SkippedSteps.
func (l *Loader) FromDocument(doc *models.RecipeDocument) (*Recipe, error) {
	for _, fn := range l.defaults {
		fn(doc)
	}

	r := New(doc.Name)

	manager, err := action.ParseNodeManager(doc.Node)
	if err != nil {
		return nil, err
	}
	r.Node(manager)

	if doc.Binaries != nil {
		if doc.Binaries.Composer != "" {
			r.Composer(doc.Binaries.Composer)
		}
		if doc.Binaries.Git != "" {
			r.Git(doc.Binaries.Git)
		}
	}

	r.In(doc.Target, doc.Fresh)
	if doc.Base != nil {
		r.Base(doc.Base.Repo, doc.Base.Branch)
	}

	if doc.Commit != nil {
		automatically := true
		if doc.Commit.Automatically != nil {
			automatically = *doc.Commit.Automatically
		}
		r.Commit(automatically, doc.Commit.Smart)
	}
	if doc.AI != nil {
		r.AI(doc.AI.Provider, doc.AI.Model)
	}

	r.vars = schema.MergeWithDefaults(l.vars, doc.Vars)

	for i, sd := range doc.Steps {
		if sd.When != "" {
			include, err := l.evaluator.EvaluateExpression(sd.When, r.vars)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", sd.Name, err)
			}
			if !include {
				r.skipped = append(r.skipped, sd.Name)
				continue
			}
		}

		policy, err := step.ParseFailurePolicy(sd.OnFailure)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", sd.Name, err)
		}

		var actions []action.Action
		for j, ad := range sd.Actions {
			created, err := l.factory.Create(ad)
			if err != nil {
				return nil, fmt.Errorf("step %d (%s), action %d: %w", i+1, sd.Name, j+1, err)
			}
			actions = append(actions, created...)
		}

		r.Step(sd.Name, func(b *step.Builder) {
			b.Add(actions...)
		}).
			WithDescription(sd.Description).
			WithMessage(sd.Message).
			WithPolicy(policy)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}
