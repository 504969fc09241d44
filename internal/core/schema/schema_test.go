// SPDX-License-Identifier: Apache-2.0

package schema_test

import (
	"errors"
	"testing"

	"github.com/kusari-oss/compose/internal/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decode(t *testing.T, doc string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(doc), &out))
	return out
}

func TestValidateRecipe(t *testing.T) {
	tests := []struct {
		name       string
		document   string
		shouldPass bool
		contains   string
	}{
		{
			name: "minimal recipe",
			document: `
name: app
steps:
  - name: Install
    actions:
      - type: composer
        install: laravel/framework
`,
			shouldPass: true,
		},
		{
			name: "full recipe",
			document: `
name: my app
target: /tmp/target
fresh: true
base:
  repo: https://github.com/laravel/laravel.git
  branch: 11.x
commit:
  automatically: true
  smart: true
ai:
  provider: openai
  model: gpt-4o-mini
node: pnpm
binaries:
  composer: /usr/local/bin/composer
vars:
  frontend: vue
steps:
  - name: Frontend
    when: vars.frontend == "vue"
    on_failure: continue
    actions:
      - type: node
        install: [vue]
        dev: [vite, typescript]
        run: build
        args: ["--mode", "production"]
        allow_failure: true
      - type: commit
        message: add frontend
`,
			shouldPass: true,
		},
		{
			name:       "missing steps",
			document:   "name: app\n",
			shouldPass: false,
			contains:   "steps",
		},
		{
			name: "unknown action type",
			document: `
name: app
steps:
  - name: Deploy
    actions:
      - type: helm
`,
			shouldPass: false,
		},
		{
			name: "unknown failure policy",
			document: `
name: app
steps:
  - name: Install
    on_failure: retry
    actions: []
`,
			shouldPass: false,
		},
		{
			name: "unknown node manager",
			document: `
name: app
node: deno
steps: []
`,
			shouldPass: false,
		},
		{
			name: "unknown top-level key",
			document: `
name: app
parallel: true
steps: []
`,
			shouldPass: false,
		},
		{
			name: "base without repo",
			document: `
name: app
base:
  branch: main
steps: []
`,
			shouldPass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.ValidateRecipe(decode(t, tt.document))

			if tt.shouldPass {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, schema.ErrInvalidRecipe))
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestRecipeSchemaIsACopy(t *testing.T) {
	first := schema.RecipeSchema()
	require.NotEmpty(t, first)
	first[0] = 'x'

	assert.Equal(t, byte('{'), schema.RecipeSchema()[0])
}

func TestMergeWithDefaults(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]interface{}
		defaults map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:     "merge with no conflicts",
			params:   map[string]interface{}{"frontend": "vue"},
			defaults: map[string]interface{}{"database": "mysql"},
			expected: map[string]interface{}{"frontend": "vue", "database": "mysql"},
		},
		{
			name:     "params override defaults",
			params:   map[string]interface{}{"frontend": "react"},
			defaults: map[string]interface{}{"frontend": "vue", "database": "mysql"},
			expected: map[string]interface{}{"frontend": "react", "database": "mysql"},
		},
		{
			name:     "nil params",
			params:   nil,
			defaults: map[string]interface{}{"frontend": "vue"},
			expected: map[string]interface{}{"frontend": "vue"},
		},
		{
			name:     "nil defaults",
			params:   map[string]interface{}{"frontend": "vue"},
			defaults: nil,
			expected: map[string]interface{}{"frontend": "vue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.MergeWithDefaults(tt.params, tt.defaults))
		})
	}
}
