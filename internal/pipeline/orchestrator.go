package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/fern/internal/config"
	"github.com/dgallion1/fern/internal/parser"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full")

// JobHook is called once per job after it reaches a terminal status.
type JobHook func(status JobStatus, elapsed time.Duration)

// Orchestrator runs async summarization jobs on a fixed worker pool.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	log    *slog.Logger
	cfg    config.Config
	hook   JobHook

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewOrchestrator(cfg config.Config, s Summarizer, log *slog.Logger, hook JobHook) *Orchestrator {
	log = log.With("component", "pipeline")
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(s, parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}, log),
		log:    log,
		cfg:    cfg,
		hook:   hook,
	}
}

// Start launches worker goroutines and the job store cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.run(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.jobs.Cleanup(); n > 0 {
					o.log.Debug("expired jobs removed", "count", n)
				}
			}
		}
	}()
}

func (o *Orchestrator) run(ctx context.Context, job *Job) {
	start := time.Now()
	o.worker.Process(ctx, job)
	if o.hook != nil {
		o.hook(job.Snapshot().Status, time.Since(start))
	}
}

// Stop cancels in-flight work, waits for the workers to exit and fails any
// job still waiting in the queue.
func (o *Orchestrator) Stop() {
	o.once.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		close(o.queue)
		o.wg.Wait()

		for job := range o.queue {
			job.Fail("Job cancelled")
			o.log.Info("queued job cancelled", "job_id", job.ID)
			if o.hook != nil {
				o.hook(StatusFailed, time.Since(job.CreatedAt))
			}
		}
	})
}

// Submit registers the job and queues it, failing fast when the queue is full.
func (o *Orchestrator) Submit(job *Job) error {
	select {
	case o.queue <- job:
		o.jobs.Put(job)
		return nil
	default:
		return ErrQueueFull
	}
}

// GetJob returns a job by ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
