// Package generator asks a generative model for API test cases and turns its
// free-form output into validated model.TestCase values.
package generator

import (
	"context"
	"log/slog"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// Model produces raw text for a prompt. GeminiClient is the production implementation.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service runs one generation batch: prompt, model call, recovery, materialization.
type Service struct {
	model  Model
	logger *slog.Logger
}

// NewService creates a Service backed by m.
func NewService(m Model, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{model: m, logger: logger}
}

// Generate returns freshly identified test cases for the described endpoint.
// Any failure aborts the whole batch.
func (s *Service) Generate(ctx context.Context, req model.GenerateRequest) ([]model.TestCase, error) {
	prompt := BuildPrompt(req)

	text, err := s.model.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("model call failed", "endpoint", req.Endpoint, "err", err)
		return nil, err
	}
	s.logger.Debug("model output", "text", text)

	tests, err := Materialize(Recover(text))
	if err != nil {
		s.logger.Error("generated output rejected", "endpoint", req.Endpoint, "err", err)
		return nil, err
	}

	s.logger.Info("generated test cases", "endpoint", req.Endpoint, "count", len(tests))
	return tests, nil
}
