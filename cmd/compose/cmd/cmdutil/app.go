// SPDX-License-Identifier: Apache-2.0

// Package cmdutil holds the state shared by the compose subcommands.
package cmdutil

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/kusari-oss/compose/internal/commitmsg"
	"github.com/kusari-oss/compose/internal/core/config"
	"github.com/kusari-oss/compose/internal/core/recipe"
	"github.com/kusari-oss/compose/internal/events"
	"github.com/kusari-oss/compose/internal/execution"
	"github.com/kusari-oss/compose/internal/telemetry"
)

// App is filled from persistent flags and completed by Setup before any
// subcommand runs
type App struct {
	ConfigFile string
	Verbose    bool
	Overrides  config.Overrides

	Config *config.Config
	Logger zerolog.Logger

	logCloser io.Closer
}

// NewApp returns an App that logs nothing until Setup runs
func NewApp() *App {
	return &App{Logger: zerolog.Nop()}
}

// Setup loads the configuration, applies flag overrides, and opens the logger
func (a *App) Setup() error {
	cfg, err := config.LoadConfig(a.ConfigFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	if a.Verbose && a.Overrides.LogLevel == "" {
		a.Overrides.LogLevel = "debug"
	}
	cfg.ApplyOverrides(a.Overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := telemetry.NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	if err := a.Close(); err != nil {
		closer.Close()
		return err
	}

	a.Config = cfg
	a.Logger = logger
	a.logCloser = closer
	return nil
}

// Close releases the log destination opened by Setup
func (a *App) Close() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	a.Logger = zerolog.Nop()
	return err
}

// LoadRecipe reads a recipe, filling unset defaults from the configuration
func (a *App) LoadRecipe(path string, vars map[string]interface{}) (*recipe.Recipe, error) {
	loader, err := recipe.NewLoader()
	if err != nil {
		return nil, err
	}

	rec, err := loader.WithVars(vars).WithDefaults(a.Config.ApplyTo).LoadFile(path)
	if err != nil {
		return nil, err
	}

	a.Logger.Debug().
		Str("recipe", rec.Name()).
		Str("target", rec.Target()).
		Int("steps", len(rec.Steps())).
		Strs("skipped", rec.SkippedSteps()).
		Msg("recipe loaded")
	return rec, nil
}

// NewRunner builds a runner using the configured timeout and commit
// template. In verbose mode command output is streamed to out and errOut.
func (a *App) NewRunner(dispatcher *events.Dispatcher, out, errOut io.Writer) *execution.Runner {
	executor := execution.NewOSExecutor().
		WithDefaultTimeout(a.Config.Timeout).
		WithLogger(a.Logger)
	if a.Verbose {
		executor.WithOutput(Prefixed(out), Prefixed(errOut))
	}

	return execution.NewRunner(executor, dispatcher).
		WithLogger(a.Logger).
		WithTimeout(a.Config.Timeout).
		WithCommitMessageGenerator(a.TemplateGenerator())
}

// TemplateGenerator renders commit messages from the configured template
// file or inline template
func (a *App) TemplateGenerator() *execution.TemplateGenerator {
	return &execution.TemplateGenerator{
		Template: a.Config.CommitTemplate,
		File:     a.Config.CommitTemplateFile,
	}
}

// CommitGenerator uses the AI generator for smart commits and falls back to
// the configured template when no client can be created
func (a *App) CommitGenerator(rec *recipe.Recipe) execution.CommitMessageGenerator {
	template := a.TemplateGenerator()
	if !rec.SmartCommit() || !rec.UsesAI() {
		return template
	}

	provider, err := commitmsg.ParseProvider(rec.AIProvider())
	if err != nil {
		a.Logger.Warn().Err(err).Msg("smart commits disabled")
		return template
	}

	client, err := commitmsg.NewClient(commitmsg.ClientOptions{
		Provider:  provider,
		APIKeyEnv: a.Config.AI.APIKeyEnv,
		BaseURL:   a.Config.AI.BaseURL,
	})
	if err != nil {
		a.Logger.Warn().Err(err).Msg("smart commits disabled")
		return template
	}

	return commitmsg.NewAIGenerator(client, rec.AIModel(), template).WithLogger(a.Logger)
}
