// Package jobs runs suitadmin's periodic housekeeping, such as pruning
// expired sessions and old attendance logs, on a small worker pool.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"suitadmin/internal/config"
)

// Job is a task executed at a fixed interval.
type Job struct {
	// ID is a unique identifier for the job
	ID string

	// Interval is how often the job should run
	Interval time.Duration

	// Task is the function to execute
	Task func(context.Context) error

	cancel  context.CancelFunc
	running bool
}

// Scheduler runs jobs with bounded concurrency. A run that finds every
// worker busy is skipped rather than queued.
type Scheduler struct {
	config config.SchedulerConfig

	// Job management
	jobs   map[string]*Job
	jobsMu sync.Mutex

	// Worker pool
	workers chan struct{}

	// Lifecycle management
	running bool
	mu      sync.RWMutex
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	retryDelay func(attempt int) time.Duration
}

// NewScheduler creates a new scheduler with the given configuration.
func NewScheduler(cfg config.SchedulerConfig) *Scheduler {
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &Scheduler{
		config:  cfg,
		jobs:    make(map[string]*Job),
		workers: make(chan struct{}, cfg.WorkerCount),
		retryDelay: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
	}
}

// Start starts the scheduler. Jobs stop when ctx is cancelled or Stop is
// called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	// Fill the worker pool
	for len(s.workers) < cap(s.workers) {
		s.workers <- struct{}{}
	}

	s.running = true
	log.Info().Int("worker_count", s.config.WorkerCount).Msg("Scheduler started")
	return nil
}

// Stop cancels every job and waits for running tasks to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	log.Info().Msg("Stopping scheduler")

	s.jobsMu.Lock()
	for id, job := range s.jobs {
		job.stop()
		delete(s.jobs, id)
	}
	s.jobsMu.Unlock()

	s.wg.Wait()
	log.Info().Msg("Scheduler stopped")
}

// AddJob schedules job and runs it once immediately.
func (s *Scheduler) AddJob(job *Job) error {
	if job.Interval <= 0 {
		return fmt.Errorf("job %s: interval must be greater than 0", job.ID)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return fmt.Errorf("scheduler is not running")
	}

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("job with ID %s already exists", job.ID)
	}

	jobCtx, cancel := context.WithCancel(s.ctx)
	job.cancel = cancel
	job.running = true
	s.jobs[job.ID] = job

	s.wg.Add(1)
	go s.runJob(jobCtx, job)

	log.Debug().Str("job_id", job.ID).Dur("interval", job.Interval).Msg("Job added")
	return nil
}

// JobCount returns the number of scheduled jobs.
func (s *Scheduler) JobCount() int {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()
	return len(s.jobs)
}

// IsRunning returns whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (j *Job) stop() {
	if !j.running {
		return
	}
	j.cancel()
	j.running = false
}

// runJob executes the task immediately and then on every tick.
func (s *Scheduler) runJob(ctx context.Context, job *Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	log.Debug().Str("job_id", job.ID).Msg("Job started")

	s.dispatch(ctx, job)
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("job_id", job.ID).Msg("Job stopped")
			return
		case <-ticker.C:
			s.dispatch(ctx, job)
		}
	}
}

// dispatch hands one run of job to a free worker.
func (s *Scheduler) dispatch(ctx context.Context, job *Job) {
	select {
	case <-s.workers:
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { s.workers <- struct{}{} }()

			s.executeWithRetry(ctx, job)
		}()
	default:
		log.Warn().Str("job_id", job.ID).Msg("No workers available, skipping job execution")
	}
}

func (s *Scheduler) executeWithRetry(ctx context.Context, job *Job) {
	maxRetries := s.config.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return
		}

		err := job.Task(ctx)
		if err == nil {
			if attempt > 0 {
				log.Info().Str("job_id", job.ID).Int("attempt", attempt+1).Msg("Job succeeded after retry")
			}
			return
		}

		if attempt == maxRetries {
			log.Error().Str("job_id", job.ID).Int("attempts", attempt+1).Err(err).Msg("Job failed after all retries")
			return
		}

		log.Warn().Str("job_id", job.ID).Int("attempt", attempt+1).Err(err).Msg("Job failed, retrying")
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.retryDelay(attempt + 1)):
		}
	}
}
