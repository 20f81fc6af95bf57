package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenRouter talks to any OpenAI-compatible chat endpoint; OpenRouter is
// the default target.
type OpenRouter struct {
	llm   llms.Model
	model string
}

func NewOpenRouter(baseURL, apiKey, model string) (*OpenRouter, error) {
	if apiKey == "" {
		return nil, errors.New("openrouter: api key is required")
	}
	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("openrouter client: %w", err)
	}
	return &OpenRouter{llm: llm, model: model}, nil
}

func (o *OpenRouter) Name() string { return "openrouter:" + o.model }

func (o *OpenRouter) Summarize(ctx context.Context, text string, p Params) (string, error) {
	opts := []llms.CallOption{llms.WithMaxTokens(maxOutputTokens(p))}
	if !p.DoSample {
		opts = append(opts, llms.WithTemperature(0))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, o.llm, BuildPrompt(text, p), opts...)
	if err != nil {
		return "", fmt.Errorf("openrouter api: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty response from %s", o.model)
	}
	return out, nil
}
