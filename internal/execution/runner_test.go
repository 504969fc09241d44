// SPDX-License-Identifier: Apache-2.0

package execution_test

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/recipe"
	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/core/step"
	"github.com/kusari-oss/compose/internal/events"
	"github.com/kusari-oss/compose/internal/execution"
	"github.com/kusari-oss/compose/internal/testutil"
)

type harness struct {
	fake       *testutil.FakeExecutor
	fs         *testutil.MockFilesystem
	dispatcher *events.Dispatcher
	runner     *execution.Runner
	kinds      []events.Kind
}

func newHarness() *harness {
	h := &harness{
		fake:       testutil.NewFakeExecutor(),
		fs:         &testutil.MockFilesystem{},
		dispatcher: events.NewDispatcher(),
	}
	h.dispatcher.ListenAll(func(e events.Event) { h.kinds = append(h.kinds, e.Kind()) })
	h.runner = execution.NewRunner(h.fake, h.dispatcher).WithFilesystem(h.fs)
	return h
}

func install(packages ...string) step.Resolver {
	return func(b *step.Builder) {
		b.Composer(action.PackageOptions{Install: packages})
	}
}

func TestRunSingleStep(t *testing.T) {
	h := newHarness()
	r := recipe.New("app").Commit(false, false)
	r.Step("Install", install("x"))

	res, err := h.runner.Run(r)
	require.NoError(t, err)

	assert.True(t, res.Successful)
	assert.Equal(t, 1, res.StepsCompleted())
	assert.Equal(t, -1, res.FailedAtStep)
	assert.NotEmpty(t, res.RunID)

	require.Len(t, h.fake.Executed(), 1)
	assert.Equal(t, []string{"composer", "require", "x"}, h.fake.Executed()[0].Command)

	require.Len(t, res.Steps[0].Actions, 1)
	assert.IsType(t, &action.ComposerInstall{}, res.Steps[0].Actions[0].Action)
}

func TestRunFailureCascadesToEarlierSteps(t *testing.T) {
	h := newHarness()
	h.fake.Fail("composer require pkg-b")

	r := recipe.New("app").Commit(false, false)
	r.Step("First", install("pkg-a"))
	r.Step("Second", func(b *step.Builder) {
		b.Composer(action.PackageOptions{Install: []string{"pkg-b"}})
		b.Composer(action.PackageOptions{Install: []string{"never-reached"}})
	})
	r.Step("Third", install("pkg-c"))

	res, err := h.runner.Run(r)
	require.NoError(t, err)

	assert.False(t, res.Successful)
	assert.Equal(t, 1, res.FailedAtStep)
	assert.Equal(t, 1, res.StepsCompleted())
	assert.Equal(t, 2, res.StepsTotal())

	h.fake.AssertExecuted(t, "composer", "remove", "pkg-a")
	h.fake.AssertNotExecuted(t, "composer", "require", "never-reached")
	h.fake.AssertNotExecuted(t, "composer", "require", "pkg-c")

	assert.False(t, res.Steps[1].RolledBack, "nothing in the failed step succeeded")
	require.Len(t, res.RollbackResults, 1)
	assert.Equal(t, []string{"composer", "remove", "pkg-a"}, res.RollbackResults[0].Command)

	assert.Equal(t, []events.Kind{
		events.KindStepStarting,
		events.KindActionExecuting,
		events.KindActionCompleted,
		events.KindStepCompleted,
		events.KindStepStarting,
		events.KindActionExecuting,
		events.KindActionFailed,
		events.KindRollbackStarting,
		events.KindRollbackCompleted,
		events.KindStepFailed,
	}, h.kinds)
}

func TestRunRollsBackFailedStepLIFO(t *testing.T) {
	h := newHarness()
	h.fake.Fail("composer require a3")

	r := recipe.New("app").Commit(false, false)
	r.Step("Install", func(b *step.Builder) {
		b.Add(
			action.NewComposerInstall(false, "a1"),
			action.NewComposerInstall(false, "a2"),
			action.NewComposerInstall(false, "a3"),
		)
	})

	res, err := h.runner.Run(r)
	require.NoError(t, err)

	assert.False(t, res.Successful)
	assert.Equal(t, 0, res.FailedAtStep)
	assert.Equal(t, []string{
		"composer require a1",
		"composer require a2",
		"composer require a3",
		"composer remove a2",
		"composer remove a1",
	}, h.fake.Commands())
	h.fake.AssertNotExecuted(t, "composer", "remove", "a3")

	stepResult := res.Steps[0]
	assert.True(t, stepResult.RolledBack)
	assert.Len(t, stepResult.RollbackResults, 2)
	assert.Len(t, stepResult.Actions, 3)
	assert.Empty(t, res.RollbackResults, "no earlier steps to cascade to")
}

func TestRunCascadeUsesRecordedWorkingDirectories(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	h := newHarness()
	h.fake.Fail("composer require c")

	r := recipe.New("My App").In("/tmp/target", false).
		Base("https://github.com/laravel/laravel.git", "").
		Commit(false, false)
	r.Step("One", install("a"))
	r.Step("Two", func(b *step.Builder) {
		b.Add(action.NewComposerInstall(false, "b"), action.NewComposerInstall(false, "c"))
	})

	res, err := h.runner.Run(r)
	require.NoError(t, err)
	require.False(t, res.Successful)
	assert.Equal(t, 2, res.FailedAtStep)

	project := filepath.Join("/tmp/target", "my-app")
	executed := h.fake.Executed()
	require.Len(t, executed, 7)

	rollbacks := executed[4:]
	assert.Equal(t, "composer remove b", rollbacks[0].String())
	assert.Equal(t, project, rollbacks[0].Cwd)
	assert.Equal(t, "composer remove a", rollbacks[1].String())
	assert.Equal(t, project, rollbacks[1].Cwd)
	assert.Equal(t, "rm -rf my-app", rollbacks[2].String())
	assert.Equal(t, "/tmp/target", rollbacks[2].Cwd)
}

func TestRunAbsorbsAllowedFailures(t *testing.T) {
	h := newHarness()
	h.fake.Fail("composer run lint")

	r := recipe.New("app").Commit(false, false)
	r.Step("Install", func(b *step.Builder) {
		b.Composer(action.PackageOptions{Install: []string{"x"}})
		b.Composer(action.PackageOptions{Run: "lint", AllowFailure: true})
		b.Composer(action.PackageOptions{Install: []string{"y"}})
	})

	res, err := h.runner.Run(r)
	require.NoError(t, err)

	assert.True(t, res.Successful)
	assert.True(t, res.HasWarnings())
	warnings := res.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"composer", "run", "lint"}, warnings[0].Command)
	assert.True(t, warnings[0].Warned)

	h.fake.AssertExecuted(t, "composer", "require", "y")
	h.fake.AssertNotExecuted(t, "composer", "remove", "*")
	assert.NotContains(t, h.kinds, events.KindRollbackStarting)
}

func TestRunContinuePolicyWarnsEveryFailure(t *testing.T) {
	h := newHarness()
	h.fake.Fail("composer remove old/*")

	var failures []events.ActionFailed
	events.On(h.dispatcher, func(e events.ActionFailed) { failures = append(failures, e) })

	r := recipe.New("app").Commit(false, false)
	r.Step("Swap", func(b *step.Builder) {
		b.Composer(action.PackageOptions{Remove: []string{"old/package"}})
		b.Composer(action.PackageOptions{Install: []string{"new/package"}})
	}).WithPolicy(step.Continue)

	res, err := h.runner.Run(r)
	require.NoError(t, err)

	assert.True(t, res.Successful)
	assert.Equal(t, []string{"composer remove old/package", "composer require new/package"}, h.fake.Commands())
	require.Len(t, failures, 1)
	assert.True(t, failures[0].Warned)
}

func TestRunAutoCommitWithoutBase(t *testing.T) {
	h := newHarness()
	h.fake.On("git commit *", result.Failure(nil, 1, "nothing to commit, working tree clean"))

	r := recipe.New("app").In("/tmp/target", false)
	r.Step("Install", install("x"))
	r.Step("Frontend", func(b *step.Builder) {
		b.Node(action.PackageOptions{Install: []string{"vue"}})
	})

	res, err := h.runner.Run(r)
	require.NoError(t, err)

	assert.True(t, res.Successful)
	assert.Equal(t, []string{
		"git init",
		"composer require x",
		"git add -A",
		"git commit -m compose: Install",
		"npm install vue",
		"git add -A",
		"git commit -m compose: Frontend",
	}, h.fake.Commands())

	commit, found := h.fake.Find("git", "commit", "*")
	require.True(t, found)
	assert.Equal(t, []string{"git", "commit", "-m", "compose: Install"}, commit.Command)
	assert.Equal(t, []string{"/tmp/target"}, h.fs.Ensured)
	assert.Empty(t, h.fs.Deleted)
}

func TestRunAutoCommitSkipsStepsWithManualCommit(t *testing.T) {
	h := newHarness()

	gen := &testutil.MockCommitMessageGenerator{}
	gen.On("Generate", mock.AnythingOfType("*step.Step"), mock.Anything).Return("feat: add x")
	h.runner.WithCommitMessageGenerator(gen)

	r := recipe.New("app")
	r.Step("Install", func(b *step.Builder) {
		b.Composer(action.PackageOptions{Install: []string{"x"}}).Commit("")
	})

	res, err := h.runner.Run(r)
	require.NoError(t, err)
	require.True(t, res.Successful)

	assert.Equal(t, []string{
		"git init",
		"composer require x",
		"git add -A",
		"git commit -m feat: add x",
	}, h.fake.Commands())
	gen.AssertNumberOfCalls(t, "Generate", 1)

	results := gen.Calls[0].Arguments.Get(1).([]result.ActionResult)
	require.Len(t, results, 2, "generator sees the results gathered before the commit")
	assert.Equal(t, "composer require x", results[0].CommandString())
}

func TestRunWithBaseRepository(t *testing.T) {
	h := newHarness()

	r := recipe.New("My App").In("/tmp/target", false).
		Base("https://github.com/laravel/laravel.git", "").
		Commit(false, false)
	r.Step("Install", install("x"))

	res, err := h.runner.Run(r)
	require.NoError(t, err)
	require.True(t, res.Successful)

	executed := h.fake.Executed()
	require.Len(t, executed, 2)

	assert.Equal(t, "/tmp/target", executed[0].Cwd)
	assert.Contains(t, executed[0].Command, "my-app")
	assert.Equal(t, filepath.Join("/tmp/target", "my-app"), executed[1].Cwd)
	h.fake.AssertNotExecuted(t, "git", "init")
}

func TestRunDoesNotAutoCommitTheCloneStep(t *testing.T) {
	h := newHarness()

	r := recipe.New("app").In("/tmp/target", false).Base("https://example.com/app.git", "")
	r.Step("Install", install("x"))

	_, err := h.runner.Run(r)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"git clone https://example.com/app.git app",
		"composer require x",
		"git add -A",
		"git commit -m compose: Install",
	}, h.fake.Commands())
}

func TestRunFreshDeletesProjectDirectory(t *testing.T) {
	h := newHarness()

	r := recipe.New("My App").In("/tmp/target", true).
		Base("https://example.com/app.git", "").
		Commit(false, false)

	_, err := h.runner.Run(r)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join("/tmp/target", "my-app")}, h.fs.Deleted)
	assert.Equal(t, []string{"/tmp/target"}, h.fs.Ensured)
}

func TestRunFilesystemErrorsAreNotFatal(t *testing.T) {
	h := newHarness()
	h.fs.On("DeleteDirectory", "/tmp/target").Return(errors.New("permission denied"))
	h.fs.On("EnsureDirectory", "/tmp/target").Return(nil)

	r := recipe.New("app").In("/tmp/target", true).Commit(false, false)
	r.Step("Install", install("x"))

	res, err := h.runner.Run(r)
	require.NoError(t, err)
	assert.True(t, res.Successful)
	h.fs.AssertExpectations(t)
}

func TestRunCallbacks(t *testing.T) {
	h := newHarness()

	var order []string
	r := recipe.New("app").Commit(false, false).
		Before(func(*recipe.Recipe) { order = append(order, "before") }).
		After(func(*recipe.Recipe) { order = append(order, "after") })
	r.Step("Install", install("x"))

	_, err := h.runner.Run(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "after"}, order)

	order = nil
	h.fake.Fail("composer require x")
	_, err = h.runner.Run(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"before"}, order, "after callbacks only run on success")
}

func TestRunPassesTimeout(t *testing.T) {
	h := newHarness()
	h.runner.WithTimeout(90 * time.Second)

	r := recipe.New("app")
	r.Step("Install", install("x"))

	_, err := h.runner.Run(r)
	require.NoError(t, err)

	for _, inv := range h.fake.Executed() {
		assert.Equal(t, 90*time.Second, inv.Timeout, inv.String())
	}
}

func TestRunRejectsInvalidRecipes(t *testing.T) {
	h := newHarness()

	_, err := h.runner.Run(recipe.New("app"))
	assert.True(t, errors.Is(err, recipe.ErrNoSteps))
	h.fake.AssertNothingExecuted(t)

	_, err = h.runner.Plan(recipe.New("app"))
	assert.True(t, errors.Is(err, recipe.ErrNoSteps))
}

func TestPlanHasNoSideEffects(t *testing.T) {
	h := newHarness()

	r := recipe.New("My App").In("/tmp/target", true).Base("https://example.com/app.git", "main")
	r.Step("Install", func(b *step.Builder) {
		b.Composer(action.PackageOptions{Install: []string{"x"}, Run: "build"})
	}).WithDescription("Dependencies")

	plan, err := h.runner.Plan(r)
	require.NoError(t, err)

	h.fake.AssertNothingExecuted(t)
	assert.Empty(t, h.kinds)
	assert.Empty(t, h.fs.Deleted)
	assert.Empty(t, h.fs.Ensured)

	assert.Equal(t, "My App", plan.RecipeName)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, recipe.CloneStepName, plan.Steps[0].Name)
	assert.Equal(t, []string{"git clone --branch main https://example.com/app.git my-app"}, plan.Steps[0].Commands)
	assert.Equal(t, []bool{true}, plan.Steps[0].Rollbackable)
	assert.Equal(t, "Dependencies", plan.Steps[1].Description)
	assert.Equal(t, []string{"composer require x", "composer run build"}, plan.Steps[1].Commands)
	assert.Equal(t, []bool{true, false}, plan.Steps[1].Rollbackable)
}

func TestPlanMatchesExecution(t *testing.T) {
	h := newHarness()

	r := recipe.New("app").In("/tmp/target", false).Node(action.Bun)
	r.Step("Backend", func(b *step.Builder) {
		b.Composer(action.PackageOptions{Install: []string{"laravel/sanctum"}, Dev: []string{"pestphp/pest"}})
	})
	r.Step("Frontend", func(b *step.Builder) {
		b.Node(action.PackageOptions{Install: []string{"vue"}, RemoveDev: []string{"jquery"}, Run: "build", Args: []string{"--watch"}})
		b.Commit("add frontend")
	})

	plan, err := h.runner.Plan(r)
	require.NoError(t, err)

	var described []string
	events.On(h.dispatcher, func(e events.ActionExecuting) {
		described = append(described, action.Describe(e.Action))
	})

	res, err := h.runner.Run(r)
	require.NoError(t, err)
	require.True(t, res.Successful)

	assert.Equal(t, plan.Commands(), described)
	assert.Contains(t, described, "bun build --watch")
}

func TestPlanMatchesExecutionWithGeneratedMessages(t *testing.T) {
	h := newHarness()

	r := recipe.New("app").In("/tmp/target", false).Commit(false, false)
	r.Step("Frontend", func(b *step.Builder) {
		b.Node(action.PackageOptions{Install: []string{"vue"}}).Commit("")
	})

	plan, err := h.runner.Plan(r)
	require.NoError(t, err)

	res, err := h.runner.Run(r)
	require.NoError(t, err)
	require.True(t, res.Successful)

	expected := []string{"npm install vue", "git add -A", "git commit -m compose: Frontend"}
	assert.Equal(t, expected, plan.Commands())
	assert.Equal(t, expected, h.fake.Commands())
}

func TestRunLeavesDeferredCommitsDeferred(t *testing.T) {
	h := newHarness()

	gen := &testutil.MockCommitMessageGenerator{}
	gen.On("Generate", mock.AnythingOfType("*step.Step"), mock.Anything).Return("first run").Once()
	gen.On("Generate", mock.AnythingOfType("*step.Step"), mock.Anything).Return("second run").Once()
	h.runner.WithCommitMessageGenerator(gen)

	r := recipe.New("app").Commit(false, false)
	s := r.Step("Install", func(b *step.Builder) {
		b.Composer(action.PackageOptions{Install: []string{"x"}}).Commit("")
	})

	_, err := h.runner.Run(r)
	require.NoError(t, err)

	commit := s.Actions()[2].(*action.GitCommit)
	assert.True(t, commit.Deferred())

	_, err = h.runner.Run(r)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"composer require x", "git add -A", "git commit -m first run",
		"composer require x", "git add -A", "git commit -m second run",
	}, h.fake.Commands())
	gen.AssertNumberOfCalls(t, "Generate", 2)
}
