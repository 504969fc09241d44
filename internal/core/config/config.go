// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kusari-oss/compose/internal/commitmsg"
	"github.com/kusari-oss/compose/internal/core/action"
	"github.com/kusari-oss/compose/internal/core/models"
	"github.com/kusari-oss/compose/internal/execution"
	"github.com/kusari-oss/compose/internal/telemetry"
	"gopkg.in/yaml.v3"
)

// Constants for default paths
const (
	DefaultConfigDir      = ".compose"
	DefaultConfigFileName = "config.yaml"
	DefaultTimeout        = 10 * time.Minute
	HomeEnv               = "COMPOSE_HOME"
)

// Config holds the global application configuration
type Config struct {
	ComposerBinary string `yaml:"composer_binary"`
	GitBinary      string `yaml:"git_binary"`
	NodeManager    string `yaml:"node_manager"`
	// AutoCommit is the default for recipes without a commit section
	AutoCommit *bool `yaml:"auto_commit,omitempty"`
	// Timeout bounds each command
	Timeout        time.Duration `yaml:"timeout"`
	CommitTemplate string        `yaml:"commit_template"`
	// CommitTemplateFile is rendered instead of CommitTemplate when set
	CommitTemplateFile string `yaml:"commit_template_file,omitempty"`

	Log telemetry.LoggingConfig `yaml:"log"`
	AI  AIConfig                `yaml:"ai"`
}

// AIConfig configures smart commit messages
type AIConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
}

// Overrides are values set on the command line. Zero values are ignored.
type Overrides struct {
	ComposerBinary string
	GitBinary      string
	NodeManager    string
	Timeout        time.Duration
	LogLevel       string
	LogFormat      string
}

// NewDefaultConfig creates a default configuration
func NewDefaultConfig() *Config {
	defaults := action.DefaultContext()
	autoCommit := true
	return &Config{
		ComposerBinary: defaults.ComposerBinary,
		GitBinary:      defaults.GitBinary,
		NodeManager:    string(defaults.NodeManager),
		AutoCommit:     &autoCommit,
		Timeout:        DefaultTimeout,
		CommitTemplate: execution.DefaultCommitTemplate,
		Log:            telemetry.DefaultLoggingConfig(),
		AI: AIConfig{
			Provider: string(commitmsg.OpenAI),
			Model:    "gpt-4o-mini",
		},
	}
}

// ExpandPathWithTilde expands ~ to the home directory, respecting COMPOSE_HOME
func ExpandPathWithTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home := getHomeDir()
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

func getHomeDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// GlobalConfigFilePath returns the path of ~/.compose/config.yaml
func GlobalConfigFilePath() (string, error) {
	home := getHomeDir()
	if home == "" {
		return "", errors.New("could not determine home directory")
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFileName), nil
}

// LoadConfig starts from the defaults and merges the global config file over
// them. pathOverride replaces the global file location. A missing file is
// not an error.
func LoadConfig(pathOverride string) (*Config, error) {
	config := NewDefaultConfig()

	path := ExpandPathWithTilde(pathOverride)
	if path == "" {
		var err error
		path, err = GlobalConfigFilePath()
		if err != nil {
			return config, nil
		}
	}

	fileConfig, err := LoadConfigFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, err
	}

	mergeConfigs(config, fileConfig)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file '%s': %w", path, err)
	}

	return config, nil
}

// LoadConfigFile loads a configuration from a specific file path
func LoadConfigFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path cannot be empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// mergeConfigs copies non-zero values from source into target
func mergeConfigs(target, source *Config) {
	if source.ComposerBinary != "" {
		target.ComposerBinary = source.ComposerBinary
	}
	if source.GitBinary != "" {
		target.GitBinary = source.GitBinary
	}
	if source.NodeManager != "" {
		target.NodeManager = source.NodeManager
	}
	if source.AutoCommit != nil {
		target.AutoCommit = source.AutoCommit
	}
	if source.Timeout > 0 {
		target.Timeout = source.Timeout
	}
	if source.CommitTemplate != "" {
		target.CommitTemplate = source.CommitTemplate
	}
	if source.CommitTemplateFile != "" {
		target.CommitTemplateFile = ExpandPathWithTilde(source.CommitTemplateFile)
	}

	if source.Log.Level != "" {
		target.Log.Level = source.Log.Level
	}
	if source.Log.Format != "" {
		target.Log.Format = source.Log.Format
	}
	if source.Log.Output != "" {
		target.Log.Output = ExpandPathWithTilde(source.Log.Output)
	}

	if source.AI.Provider != "" {
		target.AI.Provider = source.AI.Provider
	}
	if source.AI.Model != "" {
		target.AI.Model = source.AI.Model
	}
	if source.AI.BaseURL != "" {
		target.AI.BaseURL = source.AI.BaseURL
	}
	if source.AI.APIKeyEnv != "" {
		target.AI.APIKeyEnv = source.AI.APIKeyEnv
	}
}

// ApplyOverrides merges command line values over the configuration
func (c *Config) ApplyOverrides(o Overrides) {
	mergeConfigs(c, &Config{
		ComposerBinary: o.ComposerBinary,
		GitBinary:      o.GitBinary,
		NodeManager:    o.NodeManager,
		Timeout:        o.Timeout,
		Log:            telemetry.LoggingConfig{Level: o.LogLevel, Format: o.LogFormat},
	})
}

// Validate checks values that are parsed later
func (c *Config) Validate() error {
	if _, err := action.ParseNodeManager(c.NodeManager); err != nil {
		return err
	}
	if _, err := telemetry.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.AI.Provider != "" {
		if _, err := commitmsg.ParseProvider(c.AI.Provider); err != nil {
			return err
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}
	return nil
}

// ApplyTo fills the settings a recipe document leaves unset
func (c *Config) ApplyTo(doc *models.RecipeDocument) {
	if doc.Node == "" {
		doc.Node = c.NodeManager
	}

	if doc.Binaries == nil {
		doc.Binaries = &models.BinariesDocument{}
	}
	if doc.Binaries.Composer == "" {
		doc.Binaries.Composer = c.ComposerBinary
	}
	if doc.Binaries.Git == "" {
		doc.Binaries.Git = c.GitBinary
	}

	if c.AutoCommit != nil {
		if doc.Commit == nil {
			doc.Commit = &models.CommitDocument{}
		}
		if doc.Commit.Automatically == nil {
			automatically := *c.AutoCommit
			doc.Commit.Automatically = &automatically
		}
	}

	if doc.AI == nil {
		doc.AI = &models.AIDocument{}
	}
	if doc.AI.Provider == "" {
		doc.AI.Provider = c.AI.Provider
	}
	if doc.AI.Model == "" {
		doc.AI.Model = c.AI.Model
	}
}

// SaveConfig writes the configuration to path, creating its directory
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory '%s': %w", dir, err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file '%s': %w", path, err)
	}

	return nil
}

// SaveGlobalConfig writes the configuration to ~/.compose/config.yaml
func SaveGlobalConfig(config *Config) error {
	path, err := GlobalConfigFilePath()
	if err != nil {
		return fmt.Errorf("could not determine global config path for saving: %w", err)
	}
	return SaveConfig(config, path)
}
