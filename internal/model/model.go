// Package model wraps the summarization backends behind one interface.
package model

import (
	"context"
	"fmt"

	"github.com/dgallion1/fern/internal/config"
)

// Params are the generation settings sent with every chunk.
type Params struct {
	MaxLength int
	MinLength int
	DoSample  bool
}

// DefaultParams returns the settings used for document summaries.
func DefaultParams() Params {
	return Params{MaxLength: 150, MinLength: 30, DoSample: false}
}

// Model produces a summary for one chunk of text.
type Model interface {
	Summarize(ctx context.Context, text string, p Params) (string, error)
	Name() string
}

// StatusError is returned when a backend answers with a non-2xx status.
type StatusError struct {
	Backend    string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api status %d: %s", e.Backend, e.StatusCode, truncate(e.Message, 200))
}

// New builds the backend selected by cfg.ModelBackend.
func New(ctx context.Context, cfg config.Config) (Model, error) {
	switch cfg.ModelBackend {
	case config.BackendHuggingFace, "":
		return NewHuggingFace(cfg.HFBaseURL, cfg.HFAPIToken, cfg.HFModel), nil
	case config.BackendGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.BackendOpenRouter:
		return NewOpenRouter(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.ModelBackend)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
