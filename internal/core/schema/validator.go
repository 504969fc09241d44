// SPDX-License-Identifier: Apache-2.0

package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidRecipe wraps every recipe validation failure
var ErrInvalidRecipe = errors.New("invalid recipe")

//go:embed recipe.schema.json
var recipeSchema []byte

// RecipeSchema returns the JSON schema recipe documents are validated against
func RecipeSchema() []byte {
	out := make([]byte, len(recipeSchema))
	copy(out, recipeSchema)
	return out
}

// ValidateRecipe validates a decoded recipe document (YAML or JSON decoded
// into generic maps) against the embedded recipe schema
func ValidateRecipe(document interface{}) error {
	err := validate(gojsonschema.NewBytesLoader(recipeSchema), document)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}
	return nil
}

func validate(schemaLoader gojsonschema.JSONLoader, document interface{}) error {
	documentBytes, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("schema validation error: failed to serialize document: %w", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(documentBytes))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var msg strings.Builder
		msg.WriteString("validation failed:")
		for _, e := range result.Errors() {
			msg.WriteString("\n- ")
			msg.WriteString(e.String())
		}
		return errors.New(msg.String())
	}

	return nil
}

// MergeWithDefaults merges params with default values
func MergeWithDefaults(params map[string]interface{}, defaults map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for k, v := range defaults {
		result[k] = v
	}

	for k, v := range params {
		result[k] = v
	}

	return result
}
