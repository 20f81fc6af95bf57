package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini summarizes through the Gemini API using an instruction prompt.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini:" + g.model }

func (g *Gemini) Summarize(ctx context.Context, text string, p Params) (string, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxOutputTokens(p)),
	}
	if !p.DoSample {
		cfg.Temperature = genai.Ptr[float32](0)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(text, p)), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini api: %w", err)
	}

	var sb strings.Builder
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part != nil && part.Text != "" && !part.Thought {
				sb.WriteString(part.Text)
			}
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("empty response from %s", g.model)
	}
	return out, nil
}
