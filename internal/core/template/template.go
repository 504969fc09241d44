// SPDX-License-Identifier: Apache-2.0

package template

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// ProcessFile processes a template file with the given data
func ProcessFile(filePath string, data interface{}) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("error reading template file: %w", err)
	}

	return ProcessString(string(content), data)
}

// ProcessString processes a template string with the given data. Missing
// map keys are an error. Surrounding whitespace is trimmed from the result.
func ProcessString(text string, data interface{}) (string, error) {
	tmpl, err := template.New("template").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"join":  strings.Join,
			"lower": strings.ToLower,
		}).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("error parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
