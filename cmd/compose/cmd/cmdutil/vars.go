// SPDX-License-Identifier: Apache-2.0

package cmdutil

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseVars turns key=value flags into recipe variables. Values are read as
// YAML scalars so "true" and "3" become a bool and an int.
func ParseVars(pairs []string) (map[string]interface{}, error) {
	vars := make(map[string]interface{}, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", pair)
		}

		var parsed interface{}
		if err := yaml.Unmarshal([]byte(value), &parsed); err != nil || parsed == nil {
			parsed = value
		}
		if _, isMap := parsed.(map[string]interface{}); isMap {
			parsed = value
		}
		vars[key] = parsed
	}

	return vars, nil
}
