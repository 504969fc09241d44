// SPDX-License-Identifier: Apache-2.0

package testutil_test

import (
	"testing"
	"time"

	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeExecutorDefaultsToSuccess(t *testing.T) {
	fake := testutil.NewFakeExecutor()

	res := fake.Execute([]string{"composer", "require", "x"}, "/tmp", time.Second)
	assert.True(t, res.Successful)
	assert.Equal(t, []string{"composer", "require", "x"}, res.Command)

	executed := fake.Executed()
	require.Len(t, executed, 1)
	assert.Equal(t, "/tmp", executed[0].Cwd)
	assert.Equal(t, time.Second, executed[0].Timeout)
}

func TestFakeExecutorPatterns(t *testing.T) {
	fake := testutil.NewFakeExecutor().
		On("git commit *", result.Failure(nil, 1, "nothing to commit")).
		Fail("composer require pkg-b").
		On("composer *", result.Success(nil, "ok"))

	tests := []struct {
		argv       []string
		successful bool
		stdout     string
	}{
		{argv: []string{"git", "commit", "-m", "compose: Install"}, successful: false},
		{argv: []string{"composer", "require", "pkg-b"}, successful: false},
		{argv: []string{"composer", "require", "pkg-a"}, successful: true, stdout: "ok"},
		{argv: []string{"composer", "require", "pkg-b", "extra"}, successful: true, stdout: "ok"},
		{argv: []string{"git", "add", "-A"}, successful: true},
	}

	for _, tt := range tests {
		res := fake.Execute(tt.argv, "", 0)
		assert.Equal(t, tt.successful, res.Successful, "%v", tt.argv)
		assert.Equal(t, tt.stdout, res.Stdout, "%v", tt.argv)
		assert.Equal(t, tt.argv, res.Command)
	}
}

func TestFakeExecutorMatchesGlobSyntaxLiterally(t *testing.T) {
	fake := testutil.NewFakeExecutor().Fail("npm install {a,b}")

	assert.True(t, fake.Execute([]string{"npm", "install", "a"}, "", 0).Successful)
	assert.False(t, fake.Execute([]string{"npm", "install", "{a,b}"}, "", 0).Successful)
}

func TestFakeExecutorAssertions(t *testing.T) {
	fake := testutil.NewFakeExecutor()
	fake.AssertNothingExecuted(t)

	fake.Execute([]string{"git", "clone", "https://example.com/app.git", "app"}, "/tmp", 0)

	fake.AssertExecuted(t, "git", "clone", "*")
	fake.AssertExecuted(t, "git clone * app")
	fake.AssertNotExecuted(t, "git", "init")
	assert.Equal(t, []string{"git clone https://example.com/app.git app"}, fake.Commands())

	inv, found := fake.Find("git", "clone", "*")
	require.True(t, found)
	assert.Equal(t, "/tmp", inv.Cwd)
}
