// SPDX-License-Identifier: Apache-2.0

package condition

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// CELEvaluator evaluates step conditions against recipe variables
type CELEvaluator struct {
	env *cel.Env
}

// NewCELEvaluator creates a new CEL evaluator exposing a single "vars" map
func NewCELEvaluator() (*CELEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("vars", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}

	return &CELEvaluator{env: env}, nil
}

// EvaluateExpression evaluates a boolean CEL expression. Referencing a
// variable that is not set is an error, not false.
func (e *CELEvaluator) EvaluateExpression(expression string, vars map[string]interface{}) (bool, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("error compiling expression %q: %w", expression, issues.Err())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("error building program for %q: %w", expression, err)
	}

	if vars == nil {
		vars = map[string]interface{}{}
	}

	result, _, err := program.Eval(map[string]interface{}{"vars": vars})
	if err != nil {
		return false, fmt.Errorf("error evaluating expression %q: %w", expression, err)
	}

	if result.Type() != types.BoolType {
		return false, fmt.Errorf("expression %q did not evaluate to a boolean", expression)
	}

	return result.Value().(bool), nil
}
