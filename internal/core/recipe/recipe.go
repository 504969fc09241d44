// SPDX-License-Identifier: Apache-2.0

package recipe

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gosimple/slug"

	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/step"
)

// ErrNoSteps is returned when a recipe has nothing to run
var ErrNoSteps = errors.New("recipe has no steps")

// CloneStepName names the synthetic step added by Base
const CloneStepName = "Clone base repository"

// Callback runs before or after a recipe
type Callback func(r *Recipe)

// Recipe is the ordered list of steps plus run-level settings
type Recipe struct {
	name   string
	target string
	fresh  bool

	baseRepo    string
	baseBranch  string
	projectName string
	cloneStep   *step.Step

	autoCommit  bool
	smartCommit bool
	aiProvider  string
	aiModel     string

	nodeManager    action.NodeManager
	composerBinary string
	gitBinary      string

	vars    map[string]interface{}
	skipped []string

	before []Callback
	after  []Callback
	steps  []*step.Step
}

// New creates a recipe with auto-commit on, npm, and binaries from PATH
func New(name string) *Recipe {
	defaults := action.DefaultContext()
	return &Recipe{
		name:           name,
		autoCommit:     true,
		nodeManager:    defaults.NodeManager,
		composerBinary: defaults.ComposerBinary,
		gitBinary:      defaults.GitBinary,
	}
}

// In sets the target directory. fresh deletes the project directory first.
func (r *Recipe) In(target string, fresh bool) *Recipe {
	r.target = target
	r.fresh = fresh
	r.refreshContexts()
	return r
}

// Base clones repo (optionally at branch) into target/slug(name) as the
// first step. Every other step then runs inside the clone.
func (r *Recipe) Base(repo, branch string) *Recipe {
	r.baseRepo = repo
	r.baseBranch = branch
	r.projectName = slug.Make(r.Name())

	description := fmt.Sprintf("Clone %s", repo)
	if branch != "" {
		description += fmt.Sprintf(" (branch: %s)", branch)
	}
	description += fmt.Sprintf(" into %s", r.projectName)

	directory := r.projectName
	r.cloneStep = step.New(CloneStepName, r.BaseContext(), func(b *step.Builder) {
		b.Add(action.NewGitClone(repo, branch, directory))
	}).WithDescription(description)

	r.refreshContexts()
	return r
}

// Commit configures auto-commit after each step; smart uses the AI generator
func (r *Recipe) Commit(automatically, smart bool) *Recipe {
	r.autoCommit = automatically
	r.smartCommit = smart
	return r
}

// AI selects the provider and model for smart commits
func (r *Recipe) AI(provider, model string) *Recipe {
	r.aiProvider = provider
	r.aiModel = model
	return r
}

// Node sets the node package manager
func (r *Recipe) Node(manager action.NodeManager) *Recipe {
	r.nodeManager = manager
	r.refreshContexts()
	return r
}

// Composer sets the composer binary
func (r *Recipe) Composer(binary string) *Recipe {
	r.composerBinary = binary
	r.refreshContexts()
	return r
}

// Git sets the git binary
func (r *Recipe) Git(binary string) *Recipe {
	r.gitBinary = binary
	r.refreshContexts()
	return r
}

// Before registers a callback run before the first step
func (r *Recipe) Before(cb Callback) *Recipe {
	r.before = append(r.before, cb)
	return r
}

// After registers a callback run after every step succeeded
func (r *Recipe) After(cb Callback) *Recipe {
	r.after = append(r.after, cb)
	return r
}

// Step appends a step and returns it for further configuration
func (r *Recipe) Step(name string, resolver step.Resolver) *step.Step {
	s := step.New(name, r.ProjectContext(), resolver)
	r.steps = append(r.steps, s)
	return s
}

// Name defaults to "default"
func (r *Recipe) Name() string {
	if r.name == "" {
		return "default"
	}
	return r.name
}

// ProjectName is the slug of the name once a base repository is set
func (r *Recipe) ProjectName() string { return r.projectName }
func (r *Recipe) Target() string { return r.target }
func (r *Recipe) Fresh() bool { return r.fresh }
func (r *Recipe) BaseRepo() string { return r.baseRepo }
func (r *Recipe) BaseBranch() string { return r.baseBranch }
func (r *Recipe) HasBase() bool { return r.baseRepo != "" }
func (r *Recipe) AutoCommit() bool { return r.autoCommit }
func (r *Recipe) SmartCommit() bool { return r.smartCommit }
func (r *Recipe) AIProvider() string { return r.aiProvider }
func (r *Recipe) AIModel() string { return r.aiModel }
func (r *Recipe) BeforeCallbacks() []Callback { return r.before }
func (r *Recipe) AfterCallbacks() []Callback { return r.after }

// Vars are the variables step conditions were evaluated against
func (r *Recipe) Vars() map[string]interface{} { return r.vars }

// SkippedSteps names the steps dropped because their condition was false
func (r *Recipe) SkippedSteps() []string { return r.skipped }

// UsesAI reports whether both provider and model are configured
func (r *Recipe) UsesAI() bool {
	return r.aiProvider != "" && r.aiModel != ""
}

// Steps returns every step in run order, the clone step first
func (r *Recipe) Steps() []*step.Step {
	steps := make([]*step.Step, 0, len(r.steps)+1)
	if r.cloneStep != nil {
		steps = append(steps, r.cloneStep)
	}
	return append(steps, r.steps...)
}

// BaseContext runs in the raw target directory, where the clone is created
func (r *Recipe) BaseContext() action.Context {
	return action.Context{
		ComposerBinary:   r.composerBinary,
		GitBinary:        r.gitBinary,
		NodeManager:      r.nodeManager,
		WorkingDirectory: r.target,
	}
}

// ProjectContext runs inside target/projectName when a base repository is
// configured, otherwise in the target directory
func (r *Recipe) ProjectContext() action.Context {
	ctx := r.BaseContext()
	if r.projectName != "" && r.target != "" {
		ctx.WorkingDirectory = filepath.Join(r.target, r.projectName)
	}
	return ctx
}

// Validate checks the recipe can be run
func (r *Recipe) Validate() error {
	if len(r.Steps()) == 0 {
		return ErrNoSteps
	}

	seen := make(map[string]bool)
	for _, s := range r.Steps() {
		if s.Name == "" {
			return fmt.Errorf("recipe %q has a step without a name", r.Name())
		}
		// Rollback state is keyed by step name
		if seen[s.Name] {
			return fmt.Errorf("recipe %q has duplicate step name %q", r.Name(), s.Name)
		}
		seen[s.Name] = true
	}

	return nil
}

func (r *Recipe) refreshContexts() {
	if r.cloneStep != nil {
		r.cloneStep.SetContext(r.BaseContext())
	}
	for _, s := range r.steps {
		s.SetContext(r.ProjectContext())
	}
}
