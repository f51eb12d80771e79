// Package generate builds design-generation prompts from the aggregate style
// profile and submits them to an OpenAI-compatible LLM endpoint.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/inkwelllabs/styleprofd/internal/config"
	"github.com/inkwelllabs/styleprofd/internal/guidance"
	"github.com/inkwelllabs/styleprofd/internal/profile"
)

// ErrNotConfigured indicates no LLM credentials were provided; generation is
// cleanly unavailable rather than broken.
var ErrNotConfigured = errors.New("generation LLM not configured")

// ErrEmptyBrief indicates a generation request without a design brief.
var ErrEmptyBrief = errors.New("design brief cannot be empty")

// Service produces new designs guided by the accumulated style profile.
type Service struct {
	llm       llms.Model
	store     *profile.Store
	maxTokens int
	logger    *zap.Logger
}

// NewService creates a generation service. When cfg.APIKey is empty the
// service is created without an LLM and every Generate call returns
// ErrNotConfigured.
func NewService(cfg config.GenerationConfig, store *profile.Store, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:     store,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}

	if cfg.APIKey == "" {
		return s, nil
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	s.llm = llm

	logger.Info("generation LLM configured",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", cfg.Model))
	return s, nil
}

// Available reports whether an LLM client is configured.
func (s *Service) Available() bool {
	return s != nil && s.llm != nil
}

// Generate renders the current profile into guidance text, composes the
// generation prompt around the brief, and returns the model's output.
func (s *Service) Generate(ctx context.Context, brief string) (string, error) {
	if !s.Available() {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(brief) == "" {
		return "", ErrEmptyBrief
	}

	guidanceText := ""
	if s.store != nil {
		p := s.store.Profile()
		if p.Count > 0 {
			guidanceText = guidance.Render(p)
		}
	}

	prompt := BuildPrompt(brief, guidanceText)

	resp, err := s.llm.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
			llms.TextParts(schema.ChatMessageTypeHuman, prompt),
		},
		llms.WithMaxTokens(s.maxTokens),
		llms.WithTemperature(0.7),
	)
	if err != nil {
		return "", fmt.Errorf("generating design: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	out := resp.Choices[0].Content

	s.logger.Debug("generated design",
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("output_chars", len(out)))
	return out, nil
}

// SetModel overrides the LLM client; tests use this with a fake model.
func (s *Service) SetModel(m llms.Model) { s.llm = m }
