package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// HuggingFace calls the hosted inference API for a summarization model
// such as facebook/bart-large-cnn.
type HuggingFace struct {
	client *resty.Client
	model  string
}

func NewHuggingFace(baseURL, token, model string) *HuggingFace {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &HuggingFace{client: client, model: model}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

func (h *HuggingFace) Name() string { return "huggingface:" + h.model }

// Summarize posts one chunk and returns the first summary_text.
func (h *HuggingFace) Summarize(ctx context.Context, text string, p Params) (string, error) {
	var out []hfSummary
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(hfRequest{
			Inputs: text,
			Parameters: hfParameters{
				MaxLength: p.MaxLength,
				MinLength: p.MinLength,
				DoSample:  p.DoSample,
			},
			// Cold models answer 503 until loaded; wait instead.
			Options: hfOptions{WaitForModel: true},
		}).
		SetResult(&out).
		Post("/" + h.model)
	if err != nil {
		return "", fmt.Errorf("huggingface api: %w", err)
	}
	if resp.IsError() {
		return "", &StatusError{Backend: "huggingface", StatusCode: resp.StatusCode(), Message: resp.String()}
	}
	if len(out) == 0 || strings.TrimSpace(out[0].SummaryText) == "" {
		return "", fmt.Errorf("empty response from %s", h.model)
	}
	return out[0].SummaryText, nil
}

// Close releases idle connections.
func (h *HuggingFace) Close() {
	h.client.GetClient().CloseIdleConnections()
}
