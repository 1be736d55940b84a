// Package api implements the APIBeast HTTP API handlers.
package api

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

// Generator produces test cases for an endpoint description.
type Generator interface {
	Generate(ctx context.Context, req model.GenerateRequest) ([]model.TestCase, error)
}

// Executor runs test cases and returns one result per case.
type Executor interface {
	Execute(ctx context.Context, tests []model.TestCase) []model.TestResult
}

// Handler holds all API handler state.
type Handler struct {
	gen     Generator
	exec    Executor
	logger  *slog.Logger
	version string
}

// NewHandler creates a new API handler.
func NewHandler(gen Generator, exec Executor, logger *slog.Logger, version string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{gen: gen, exec: exec, logger: logger, version: version}
}

// Routes mounts the API routes under /api.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-tests", h.GenerateTests)
		r.Post("/execute-tests", h.ExecuteTests)
		r.Get("/health", h.Health)
	})
}

// Unavailable returns a Generator that fails every call with err. It stands
// in when generation is not configured so execution stays usable.
func Unavailable(err error) Generator {
	return unavailable{err: err}
}

type unavailable struct{ err error }

func (u unavailable) Generate(context.Context, model.GenerateRequest) ([]model.TestCase, error) {
	return nil, u.err
}
