// SPDX-License-Identifier: Apache-2.0

package action

import (
	"path"
	"runtime"
	"strings"

	"github.com/kusari-oss/compose/internal/core/command"
)

// goos is swapped in tests to exercise the windows rollback
var goos = runtime.GOOS

// GitClone clones a repository into the working directory
type GitClone struct {
	base
	Repo      string
	Branch    string
	Directory string
}

// NewGitClone creates a clone action. Branch and directory may be empty.
func NewGitClone(repo, branch, directory string) *GitClone {
	return &GitClone{Repo: repo, Branch: branch, Directory: directory}
}

func (a *GitClone) Kind() Kind { return KindCloneRepository }

func (a *GitClone) Command() *command.Command {
	return command.New(a.BoundContext().GitBinary, "clone").
		When(a.Branch != "", func(c *command.Command) {
			c.Flag("--branch").Argument(a.Branch)
		}).
		Argument(a.Repo).
		When(a.Directory != "", func(c *command.Command) {
			c.Argument(a.Directory)
		})
}

// Rollback removes the cloned directory
func (a *GitClone) Rollback() *command.Command {
	// Keeps the unbound-context contract uniform across variants
	_ = a.BoundContext()

	if goos == "windows" {
		return command.New("cmd", "/c", "rmdir", "/s", "/q", a.TargetDirectory())
	}
	return command.New("rm", "-rf", a.TargetDirectory())
}

// TargetDirectory is the directory the clone creates
func (a *GitClone) TargetDirectory() string {
	if a.Directory != "" {
		return a.Directory
	}
	return strings.TrimSuffix(path.Base(a.Repo), ".git")
}

// GitInit initializes a repository
type GitInit struct {
	base
}

// NewGitInit creates a git init action
func NewGitInit() *GitInit {
	return &GitInit{}
}

func (a *GitInit) Kind() Kind { return KindInitRepository }

func (a *GitInit) Command() *command.Command {
	return command.New(a.BoundContext().GitBinary, "init")
}

func (a *GitInit) Rollback() *command.Command { return nil }

// GitAdd stages every pending change
type GitAdd struct {
	base
}

// NewGitAdd creates a git add -A action
func NewGitAdd() *GitAdd {
	return &GitAdd{}
}

func (a *GitAdd) Kind() Kind { return KindStagePendingChanges }

func (a *GitAdd) Command() *command.Command {
	return command.New(a.BoundContext().GitBinary, "add").Flag("-A")
}

func (a *GitAdd) Rollback() *command.Command { return nil }

// GitCommit commits staged changes. A nil Message is filled in by the
// commit message generator before execution.
type GitCommit struct {
	base
	Message *string
}

// NewGitCommit creates a commit action with a fixed message
func NewGitCommit(message string) *GitCommit {
	return &GitCommit{Message: &message}
}

// NewDeferredGitCommit creates a commit action whose message is generated later
func NewDeferredGitCommit() *GitCommit {
	return &GitCommit{}
}

func (a *GitCommit) Kind() Kind { return KindCommitChanges }

func (a *GitCommit) Command() *command.Command {
	message := ""
	if a.Message != nil {
		message = *a.Message
	}
	return command.New(a.BoundContext().GitBinary, "commit").Flag("-m").Argument(message)
}

func (a *GitCommit) Rollback() *command.Command { return nil }

// Deferred reports whether the message still has to be generated
func (a *GitCommit) Deferred() bool {
	return a.Message == nil
}

// SetMessage fills in a deferred message
func (a *GitCommit) SetMessage(message string) {
	a.Message = &message
}

// WithMessage returns a copy carrying message and the same binding. The
// receiver is left untouched.
func (a *GitCommit) WithMessage(message string) *GitCommit {
	c := *a
	c.Message = &message
	return &c
}
