// SPDX-License-Identifier: Apache-2.0

// Package fsutil prepares target directories on the local disk.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Local implements directory preparation against the real filesystem
type Local struct{}

// DeleteDirectory removes path recursively. Read-only entries, such as git
// pack files, are made writable first. A missing path is not an error.
func (Local) DeleteDirectory(path string) error {
	return DeleteDirectory(path)
}

// EnsureDirectory creates path and its parents
func (Local) EnsureDirectory(path string) error {
	return EnsureDirectory(path)
}

// DeleteDirectory removes path recursively, clearing read-only bits on the way
func DeleteDirectory(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error inspecting %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		mode := os.FileMode(0o666)
		if d.IsDir() {
			mode = 0o777
		}
		return os.Chmod(p, mode)
	})
	if err != nil {
		return fmt.Errorf("error preparing %s for removal: %w", path, err)
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("error removing %s: %w", path, err)
	}
	return nil
}

// EnsureDirectory creates path and its parents
func EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("error creating directory '%s': %w", path, err)
	}
	return nil
}
