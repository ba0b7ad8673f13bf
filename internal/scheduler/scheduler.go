// Package scheduler runs recurring valuation jobs on cron schedules
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/neil-k-zero/intrinsic-value-calc/pkg/logger"
)

// Job is one recurring task
type Job interface {
	Name() string

	// Schedule returns the cron expression ("@daily", "0 18 * * MON-FRI")
	Schedule() string

	Run(ctx context.Context) error
}

// JobResult records one execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

const historyLimit = 100

// Scheduler owns the cron runner and per-job execution history
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	jobs    map[string]Job
	history map[string][]JobResult
	mu      sync.RWMutex
}

func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		log:     log,
		jobs:    make(map[string]Job),
		history: make(map[string][]JobResult),
	}
}

// AddJob registers a job under its cron schedule
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	if _, err := s.cron.AddFunc(job.Schedule(), func() { s.runJob(job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	s.jobs[name] = job

	s.log.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("job scheduled")
	return nil
}

func (s *Scheduler) runJob(job Job) {
	start := time.Now()
	err := job.Run(context.Background())

	result := JobResult{
		JobName:   job.Name(),
		StartTime: start,
		Duration:  time.Since(start),
		Success:   err == nil,
	}
	if err != nil {
		result.Error = err.Error()
		s.log.WithError(err).WithField("job", job.Name()).Error("job failed")
	} else {
		s.log.WithFields(map[string]interface{}{
			"job":      job.Name(),
			"duration": result.Duration.String(),
		}).Info("job completed")
	}

	s.mu.Lock()
	h := append(s.history[job.Name()], result)
	if len(h) > historyLimit {
		h = h[len(h)-historyLimit:]
	}
	s.history[job.Name()] = h
	s.mu.Unlock()
}

// History returns the recorded results for one job, oldest first
func (s *Scheduler) History(jobName string) []JobResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]JobResult, len(s.history[jobName]))
	copy(out, s.history[jobName])
	return out
}

// Start begins executing schedules. Non-blocking.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Infof("scheduler started with %d job(s)", len(s.jobs))
}

// Stop halts scheduling and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}
