// SPDX-License-Identifier: Apache-2.0

package recipe_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/models"
	"github.com/kusari-oss/compose/internal/core/recipe"
	"github.com/kusari-oss/compose/internal/core/schema"
	"github.com/kusari-oss/compose/internal/core/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullRecipe = `
name: My App
target: /tmp/target
fresh: true
base:
  repo: https://github.com/laravel/laravel.git
  branch: 11.x
commit:
  automatically: false
  smart: true
ai:
  provider: anthropic
  model: claude-haiku
node: yarn
binaries:
  composer: /usr/local/bin/composer
vars:
  frontend: vue
  docker: false
steps:
  - name: Install dependencies
    description: Telescope for debugging
    message: Installing dev tooling
    actions:
      - type: composer
        dev: laravel/telescope
  - name: Frontend
    when: vars.frontend == "vue"
    on_failure: continue
    actions:
      - type: node
        install: [vue]
        dev: [vite]
      - type: node
        run: build
        args: ["--mode", "production"]
        allow_failure: true
      - type: commit
        message: add frontend
  - name: Docker
    when: vars.docker
    actions:
      - type: composer
        install: laravel/sail
`

func newLoader(t *testing.T) *recipe.Loader {
	t.Helper()
	l, err := recipe.NewLoader()
	require.NoError(t, err)
	return l
}

func TestLoad(t *testing.T) {
	r, err := newLoader(t).Load([]byte(fullRecipe))
	require.NoError(t, err)

	assert.Equal(t, "My App", r.Name())
	assert.Equal(t, "my-app", r.ProjectName())
	assert.Equal(t, "/tmp/target", r.Target())
	assert.True(t, r.Fresh())
	assert.False(t, r.AutoCommit())
	assert.True(t, r.SmartCommit())
	assert.True(t, r.UsesAI())
	assert.Equal(t, []string{"Docker"}, r.SkippedSteps())

	steps := r.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, recipe.CloneStepName, steps[0].Name)
	assert.Equal(t, "Install dependencies", steps[1].Name)
	assert.Equal(t, "Telescope for debugging", steps[1].Description)
	assert.Equal(t, "Installing dev tooling", steps[1].Message)
	assert.Equal(t, step.Abort, steps[1].Policy)
	assert.Equal(t, step.Continue, steps[2].Policy)

	ctx := r.ProjectContext()
	assert.Equal(t, action.Yarn, ctx.NodeManager)
	assert.Equal(t, "/usr/local/bin/composer", ctx.ComposerBinary)
	assert.Equal(t, "git", ctx.GitBinary)

	steps[2].Resolve()
	var commands []string
	for _, a := range steps[2].Actions() {
		a.Bind(ctx)
		commands = append(commands, action.Describe(a))
	}
	assert.Equal(t, []string{
		"yarn add vue",
		"yarn add --dev vite",
		"yarn build --mode production",
		"git add -A",
		"git commit -m add frontend",
	}, commands)

	assert.True(t, steps[2].Actions()[2].AllowFailure())
	assert.False(t, steps[2].Actions()[0].AllowFailure())
}

func TestLoadVarOverrides(t *testing.T) {
	r, err := newLoader(t).
		WithVars(map[string]interface{}{"frontend": "react", "docker": true}).
		Load([]byte(fullRecipe))
	require.NoError(t, err)

	names := make([]string, 0)
	for _, s := range r.Steps() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{recipe.CloneStepName, "Install dependencies", "Docker"}, names)
	assert.Equal(t, []string{"Frontend"}, r.SkippedSteps())
}

func TestLoadDefaults(t *testing.T) {
	r, err := newLoader(t).Load([]byte(`
name: app
steps:
  - name: Install
    actions:
      - type: composer
        install: x
`))
	require.NoError(t, err)

	assert.True(t, r.AutoCommit())
	assert.False(t, r.HasBase())
	assert.Equal(t, action.Npm, r.ProjectContext().NodeManager)
}

func TestLoadWithDefaults(t *testing.T) {
	r, err := newLoader(t).
		WithDefaults(func(doc *models.RecipeDocument) {
			if doc.Node == "" {
				doc.Node = "pnpm"
			}
			doc.Binaries = &models.BinariesDocument{Git: "/opt/git"}
		}).
		Load([]byte(`
name: app
steps:
  - name: Install
    actions:
      - type: node
        install: vue
`))
	require.NoError(t, err)

	assert.Equal(t, action.Pnpm, r.ProjectContext().NodeManager)
	assert.Equal(t, "/opt/git", r.ProjectContext().GitBinary)
	assert.Equal(t, "composer", r.ProjectContext().ComposerBinary)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		target   error
		contains string
	}{
		{
			name:     "schema violation",
			document: "name: app\nsteps:\n  - name: X\n    actions:\n      - type: helm\n",
			target:   schema.ErrInvalidRecipe,
		},
		{
			name:     "non boolean condition",
			document: "name: app\nsteps:\n  - name: X\n    when: \"'yes'\"\n    actions:\n      - type: init\n",
			contains: "did not evaluate to a boolean",
		},
		{
			name:     "unknown variable in condition",
			document: "name: app\nsteps:\n  - name: X\n    when: vars.missing\n    actions:\n      - type: init\n",
			contains: "step \"X\"",
		},
		{
			name:     "action without operation",
			document: "name: app\nsteps:\n  - name: X\n    actions:\n      - type: node\n",
			contains: "does not describe any operation",
		},
		{
			name:     "every step skipped",
			document: "name: app\nvars: {enabled: false}\nsteps:\n  - name: X\n    when: vars.enabled\n    actions:\n      - type: init\n",
			target:   recipe.ErrNoSteps,
		},
		{
			name:     "duplicate names",
			document: "name: app\nsteps:\n  - name: X\n    actions: [{type: init}]\n  - name: X\n    actions: [{type: init}]\n",
			contains: "duplicate step name",
		},
		{
			name:     "not a document",
			document: "- just\n- a list\n",
			contains: "error parsing recipe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLoader(t).Load([]byte(tt.document))
			require.Error(t, err)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "got %v", err)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestLoadFileResolvesRelativeTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipe.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "name": "app",
  "target": "out",
  "steps": [{"name": "Init", "actions": [{"type": "init"}]}]
}`), 0644))

	r, err := newLoader(t).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out"), r.Target())

	_, err = newLoader(t).LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
