// SPDX-License-Identifier: Apache-2.0

package format

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format for recipes, configs, and plans
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// Parse converts a user supplied name into a Format. Empty means YAML.
func Parse(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// ForFile picks the format from a file extension, defaulting to YAML
func ForFile(filePath string) Format {
	if IsJSONFile(filePath) {
		return JSON
	}
	return YAML
}

// ParseFile reads and parses a file, trying YAML first, then JSON
func ParseFile(filePath string, v interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	return ParseData(data, v)
}

// ParseData parses data, trying YAML first, then JSON
func ParseData(data []byte, v interface{}) error {
	err := yaml.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	jsonErr := json.Unmarshal(data, v)
	if jsonErr == nil {
		return nil
	}

	return fmt.Errorf("failed to parse as YAML (%v) or JSON (%v)", err, jsonErr)
}

// Marshal encodes v in the given format
func Marshal(v interface{}, f Format) ([]byte, error) {
	var data []byte
	var err error

	switch f {
	case JSON:
		data, err = json.MarshalIndent(v, "", "  ")
	case YAML:
		data, err = yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("unsupported format: %s", f)
	}

	if err != nil {
		return nil, fmt.Errorf("error marshaling %s: %w", f, err)
	}
	return data, nil
}

// WriteFile writes v to filePath in the format matching its extension
func WriteFile(filePath string, v interface{}) error {
	data, err := Marshal(v, ForFile(filePath))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory '%s': %w", dir, err)
		}
	}

	return os.WriteFile(filePath, data, 0644)
}

// FormatData formats data as a YAML or JSON string
func FormatData(v interface{}, f Format) (string, error) {
	data, err := Marshal(v, f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsYAMLFile returns true if the file extension suggests it's a YAML file
func IsYAMLFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".yaml" || ext == ".yml"
}

// IsJSONFile returns true if the file extension suggests it's a JSON file
func IsJSONFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".json"
}
