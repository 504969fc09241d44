// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/core/step"
	"github.com/stretchr/testify/mock"
)

// MockFilesystem records directory preparation without touching the disk.
// Without expectations every call succeeds.
type MockFilesystem struct {
	mock.Mock
	Deleted []string
	Ensured []string
}

// DeleteDirectory mocks directory removal
func (m *MockFilesystem) DeleteDirectory(path string) error {
	m.Deleted = append(m.Deleted, path)
	if len(m.ExpectedCalls) > 0 {
		return m.Called(path).Error(0)
	}
	return nil
}

// EnsureDirectory mocks directory creation
func (m *MockFilesystem) EnsureDirectory(path string) error {
	m.Ensured = append(m.Ensured, path)
	if len(m.ExpectedCalls) > 0 {
		return m.Called(path).Error(0)
	}
	return nil
}

// MockCommitMessageGenerator returns messages set through expectations
type MockCommitMessageGenerator struct {
	mock.Mock
}

// Generate mocks message generation
func (m *MockCommitMessageGenerator) Generate(s *step.Step, results []result.ActionResult) string {
	return m.Called(s, results).String(0)
}
