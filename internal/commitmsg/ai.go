// SPDX-License-Identifier: Apache-2.0

// Package commitmsg writes commit messages with a chat completion model.
package commitmsg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/kusari-oss/compose/internal/core/result"
	"github.com/kusari-oss/compose/internal/core/step"
	"github.com/kusari-oss/compose/internal/execution"
)

// Provider names a chat completion backend
type Provider string

const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
)

// AnthropicBaseURL is Anthropic's OpenAI compatible endpoint
const AnthropicBaseURL = "https://api.anthropic.com/v1/"

const systemPrompt = `You write git commit messages for changes made by a project scaffolding tool.
Reply with the commit message only: a subject line of at most 72 characters in the
imperative mood, optionally followed by a blank line and a short body. No quotes, no code fences.`

// ErrMissingAPIKey is returned when no API key can be found for a provider
var ErrMissingAPIKey = errors.New("missing API key")

// ChatCompleter is the part of the go-openai client the generator uses
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ClientOptions configures a chat completion client
type ClientOptions struct {
	Provider Provider
	APIKey   string
	// APIKeyEnv is read when APIKey is empty. Defaults per provider.
	APIKeyEnv string
	BaseURL   string
}

// ParseProvider converts a provider name
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(name)); p {
	case OpenAI, Anthropic:
		return p, nil
	default:
		return "", fmt.Errorf("unknown AI provider: %s", name)
	}
}

// NewClient creates a go-openai client for the provider
func NewClient(opts ClientOptions) (ChatCompleter, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		env := opts.APIKeyEnv
		if env == "" {
			env = defaultKeyEnv(opts.Provider)
		}
		apiKey = os.Getenv(env)
		if apiKey == "" {
			return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, env)
		}
	}

	cfg := openai.DefaultConfig(apiKey)
	switch {
	case opts.BaseURL != "":
		cfg.BaseURL = opts.BaseURL
	case opts.Provider == Anthropic:
		cfg.BaseURL = AnthropicBaseURL
	}

	return openai.NewClientWithConfig(cfg), nil
}

func defaultKeyEnv(p Provider) string {
	if p == Anthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// AIGenerator asks a model for a commit message and falls back to another
// generator when the request fails or returns nothing usable
type AIGenerator struct {
	client   ChatCompleter
	model    string
	fallback execution.CommitMessageGenerator
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewAIGenerator creates a generator. A nil fallback uses the default template.
func NewAIGenerator(client ChatCompleter, model string, fallback execution.CommitMessageGenerator) *AIGenerator {
	if fallback == nil {
		fallback = execution.NewDefaultGenerator()
	}
	return &AIGenerator{
		client:   client,
		model:    model,
		fallback: fallback,
		timeout:  30 * time.Second,
		logger:   zerolog.Nop(),
	}
}

// WithTimeout bounds each completion request
func (g *AIGenerator) WithTimeout(timeout time.Duration) *AIGenerator {
	g.timeout = timeout
	return g
}

// WithLogger sets the logger used to report fallbacks
func (g *AIGenerator) WithLogger(logger zerolog.Logger) *AIGenerator {
	g.logger = logger
	return g
}

// Generate implements execution.CommitMessageGenerator
func (g *AIGenerator) Generate(s *step.Step, results []result.ActionResult) string {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(s, results)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		g.logger.Warn().Err(err).Str("step", s.Name).Msg("AI commit message failed, using fallback")
		return g.fallback.Generate(s, results)
	}

	if len(resp.Choices) == 0 {
		g.logger.Warn().Str("step", s.Name).Msg("AI returned no choices, using fallback")
		return g.fallback.Generate(s, results)
	}

	message := clean(resp.Choices[0].Message.Content)
	if message == "" {
		return g.fallback.Generate(s, results)
	}
	return message
}

// Prompt describes what a step did for the model
func Prompt(s *step.Step, results []result.ActionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Step: %s\n", s.Name)
	if s.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", s.Description)
	}

	b.WriteString("Commands run:\n")
	for _, r := range results {
		status := "ok"
		switch {
		case r.Warned:
			status = "failed, ignored"
		case !r.Successful:
			status = "failed"
		}
		fmt.Fprintf(&b, "- %s (%s)\n", r.CommandString(), status)
	}

	return b.String()
}

func clean(message string) string {
	message = strings.TrimSpace(message)
	message = strings.TrimPrefix(message, "```")
	message = strings.TrimSuffix(message, "```")
	message = strings.TrimSpace(message)
	return strings.Trim(message, "\"'`")
}
