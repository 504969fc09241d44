// SPDX-License-Identifier: Apache-2.0

// Package defaults ships starter recipes inside the binary.
package defaults

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed recipes/*.yaml
var embeddedFiles embed.FS

// DefaultRecipe is written when no starter is named
const DefaultRecipe = "basic"

// ErrUnknownRecipe is returned for a starter that is not embedded
var ErrUnknownRecipe = errors.New("unknown starter recipe")

// ErrExists is returned when the destination is already present
var ErrExists = errors.New("file already exists")

// Names lists the embedded starter recipes
func Names() ([]string, error) {
	entries, err := fs.ReadDir(embeddedFiles, "recipes")
	if err != nil {
		return nil, fmt.Errorf("error reading embedded recipes: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// Recipe returns the content of a starter recipe
func Recipe(name string) ([]byte, error) {
	if name == "" {
		name = DefaultRecipe
	}

	data, err := embeddedFiles.ReadFile(filepath.ToSlash(filepath.Join("recipes", name+".yaml")))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecipe, name)
	}
	return data, nil
}

// WriteRecipe copies a starter recipe to dstPath. An existing file is only
// replaced with force.
func WriteRecipe(name, dstPath string, force bool) error {
	data, err := Recipe(name)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dstPath); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrExists, dstPath)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("error creating directory %s: %w", filepath.Dir(dstPath), err)
	}

	if err := os.WriteFile(dstPath, data, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", dstPath, err)
	}
	return nil
}
