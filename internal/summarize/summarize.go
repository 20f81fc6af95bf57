// Package summarize turns arbitrary text into one summary by chunking it and
// summarizing each chunk with the configured model.
package summarize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/semaphore"

	"github.com/dgallion1/fern/internal/apperr"
	"github.com/dgallion1/fern/internal/chunker"
	"github.com/dgallion1/fern/internal/model"
)

// Result is the outcome of one summarization.
type Result struct {
	Summary   string
	Chunks    int
	Succeeded int
	Failed    int
	Cached    bool
}

// Observer receives progress while a text is summarized. Planned is called
// once with the number of chunks, then ChunkDone once per chunk in order.
type Observer interface {
	Planned(total int)
	ChunkDone(index int, err error)
}

type Options struct {
	ChunkSize     int
	Timeout       time.Duration // per chunk; 0 disables
	MaxConcurrent int
	CacheSize     int // 0 disables the cache
	CacheTTL      time.Duration
}

type Summarizer struct {
	model  model.Model
	params model.Params
	opts   Options
	sem    *semaphore.Weighted
	cache  *expirable.LRU[string, Result]
	log    *slog.Logger
}

type chunkResult struct {
	index int
	text  string
	err   error
}

func New(m model.Model, opts Options, log *slog.Logger) *Summarizer {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunker.DefaultChunkSize
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	s := &Summarizer{
		model:  m,
		params: model.DefaultParams(),
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		log:    log.With("component", "summarizer"),
	}
	if opts.CacheSize > 0 {
		s.cache = expirable.NewLRU[string, Result](opts.CacheSize, nil, opts.CacheTTL)
	}
	return s
}

// ChunkSize is the target chunk length in characters.
func (s *Summarizer) ChunkSize() int { return s.opts.ChunkSize }

func (s *Summarizer) Summarize(ctx context.Context, text, label string) (*Result, error) {
	return s.SummarizeObserved(ctx, text, label, nil)
}

// SummarizeObserved summarizes text and reports per-chunk progress to obs,
// which may be nil. A non-empty label prefixes the summary.
func (s *Summarizer) SummarizeObserved(ctx context.Context, text, label string, obs Observer) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("Text cannot be empty")
	}

	var chunks []string
	for _, c := range chunker.Split(text, s.opts.ChunkSize) {
		if utf8.RuneCountInString(strings.TrimSpace(c)) < chunker.MinChunkChars {
			continue
		}
		chunks = append(chunks, c)
	}
	if len(chunks) == 0 {
		return nil, apperr.NoContent("No valid text content found to summarize")
	}

	key := cacheKey(label, chunks)
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			s.log.Debug("summary cache hit", "label", label, "chunks", hit.Chunks)
			if obs != nil {
				obs.Planned(len(chunks))
				for i := range chunks {
					obs.ChunkDone(i, nil)
				}
			}
			hit.Cached = true
			return &hit, nil
		}
	}

	if obs != nil {
		obs.Planned(len(chunks))
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, apperr.Internal("Error generating summary", err)
	}
	defer s.sem.Release(1)

	start := time.Now()
	results := make([]chunkResult, 0, len(chunks))
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, apperr.Internal("Error generating summary", err)
		}
		out, err := s.summarizeChunk(ctx, c)
		if err != nil {
			s.log.Warn("chunk summarization failed",
				"label", label, "chunk", i, "chars", utf8.RuneCountInString(c), "error", err)
		}
		results = append(results, chunkResult{index: i, text: out, err: err})
		if obs != nil {
			obs.ChunkDone(i, err)
		}
	}

	res := Result{Chunks: len(chunks)}
	var parts []string
	var errs []error
	for _, r := range results {
		if r.err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("chunk %d: %w", r.index, r.err))
			continue
		}
		res.Succeeded++
		parts = append(parts, r.text)
	}
	if res.Succeeded == 0 {
		return nil, apperr.SummarizationFailed("Could not generate summary", errors.Join(errs...))
	}

	res.Summary = strings.Join(parts, " ")
	if label != "" {
		res.Summary = fmt.Sprintf("Summary of %s:\n\n%s", label, res.Summary)
	}

	s.log.Info("summary generated",
		"label", label,
		"model", s.model.Name(),
		"chunks", res.Chunks,
		"failed", res.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	// Only complete results are cached.
	if s.cache != nil && res.Failed == 0 {
		s.cache.Add(key, res)
	}
	return &res, nil
}

func (s *Summarizer) summarizeChunk(ctx context.Context, chunk string) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	return s.model.Summarize(ctx, chunk, s.params)
}

// cacheKey hashes the label and chunk sequence; chunks are normalized, so
// inputs differing only in noise share a key.
func cacheKey(label string, chunks []string) string {
	h := sha256.New()
	h.Write([]byte(label))
	h.Write([]byte{0})
	for _, c := range chunks {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
