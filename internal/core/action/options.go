// SPDX-License-Identifier: Apache-2.0

package action

// PackageOptions describes one package-manager request. Each non-empty
// field becomes one action, in field order.
type PackageOptions struct {
	Install      []string
	Dev          []string
	Remove       []string
	RemoveDev    []string
	Run          string
	Args         []string
	AllowFailure bool
}

// ComposerActions expands opts into composer actions
func ComposerActions(opts PackageOptions) []Action {
	var actions []Action

	if len(opts.Install) > 0 {
		actions = append(actions, NewComposerInstall(false, opts.Install...))
	}
	if len(opts.Dev) > 0 {
		actions = append(actions, NewComposerInstall(true, opts.Dev...))
	}
	if len(opts.Remove) > 0 {
		actions = append(actions, NewComposerRemove(false, opts.Remove...))
	}
	if len(opts.RemoveDev) > 0 {
		actions = append(actions, NewComposerRemove(true, opts.RemoveDev...))
	}
	if opts.Run != "" {
		actions = append(actions, NewComposerRun(opts.Run, opts.Args...))
	}

	return withAllowFailure(actions, opts.AllowFailure)
}

// NodeActions expands opts into node actions
func NodeActions(opts PackageOptions) []Action {
	var actions []Action

	if len(opts.Install) > 0 {
		actions = append(actions, NewNodeInstall(false, opts.Install...))
	}
	if len(opts.Dev) > 0 {
		actions = append(actions, NewNodeInstall(true, opts.Dev...))
	}
	if len(opts.Remove) > 0 {
		actions = append(actions, NewNodeRemove(false, opts.Remove...))
	}
	if len(opts.RemoveDev) > 0 {
		actions = append(actions, NewNodeRemove(true, opts.RemoveDev...))
	}
	if opts.Run != "" {
		actions = append(actions, NewNodeRun(opts.Run, opts.Args...))
	}

	return withAllowFailure(actions, opts.AllowFailure)
}

// CommitActions is the stage-then-commit pair. An empty message defers
// message generation.
func CommitActions(message string) []Action {
	commit := NewDeferredGitCommit()
	if message != "" {
		commit.SetMessage(message)
	}
	return []Action{NewGitAdd(), commit}
}

func withAllowFailure(actions []Action, allow bool) []Action {
	for _, a := range actions {
		a.SetAllowFailure(allow)
	}
	return actions
}
