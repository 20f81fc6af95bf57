package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/fern/internal/apperr"
	"github.com/dgallion1/fern/internal/parser"
	"github.com/dgallion1/fern/internal/summarize"
)

// Summarizer is the part of summarize.Summarizer the worker needs.
type Summarizer interface {
	SummarizeObserved(ctx context.Context, text, label string, obs summarize.Observer) (*summarize.Result, error)
}

// Worker processes a single document job.
type Worker struct {
	summarizer Summarizer
	parserOpts parser.Options
	log        *slog.Logger
}

func NewWorker(s Summarizer, opts parser.Options, log *slog.Logger) *Worker {
	return &Worker{summarizer: s, parserOpts: opts, log: log}
}

// Process extracts the job's document text and summarizes it. The job ends
// completed or failed; failures carry the same messages the synchronous
// endpoints return.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Extract
	job.SetStatus(StatusExtracting)
	text, err := w.extract(job)
	if err != nil {
		log.Warn("extraction failed", "error", err)
		job.AddError(err.Error())
		job.Fail(apperr.MessageOf(err, "Error reading file"))
		return
	}

	// Phase 2: Summarize
	job.SetStatus(StatusSummarizing)
	res, err := w.summarizer.SummarizeObserved(ctx, text, job.Label, job)
	if err != nil {
		log.Error("summarization failed", "error", err)
		msg := apperr.MessageOf(err, "Error generating summary")
		if errors.Is(err, context.Canceled) {
			msg = "Job cancelled"
		}
		job.Fail(msg)
		return
	}

	job.Complete(res)
	log.Info("job completed",
		"chunks", res.Chunks,
		"failed_chunks", res.Failed,
		"cached", res.Cached,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (w *Worker) extract(job *Job) (string, error) {
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		return "", apperr.Validation("Unsupported file type")
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		return "", apperr.Extraction(fmt.Sprintf("Error reading file: %v", err), err)
	}

	text := doc.Text()
	if strings.TrimSpace(text) == "" {
		return "", apperr.Extraction("Could not extract text from file", nil)
	}
	return text, nil
}
