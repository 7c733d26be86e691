package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
)

const (
	JobAutoArchive = "payroll_auto_archive"
	JobArchive     = "payroll_archive"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"

	historyLimit = 50
)

// Archiver is the slice of the payroll service the scheduler drives.
type Archiver interface {
	ArchivePreviousMonth(ctx context.Context, now time.Time) (payroll.Run, error)
}

type Run struct {
	ID          string     `json:"id"`
	JobType     string     `json:"jobType"`
	Status      string     `json:"status"`
	Details     any        `json:"details,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Service struct {
	archiver Archiver
	interval time.Duration
	queue    chan job
	now      func() time.Time

	mu      sync.Mutex
	history []Run
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(archiver Archiver, interval time.Duration, queueSize int) *Service {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Service{
		archiver: archiver,
		interval: interval,
		queue:    make(chan job, queueSize),
		now:      time.Now,
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.interval > 0 && s.archiver != nil {
		go s.scheduleAutoArchive(ctx, s.interval)
	}
}

// Enqueue hands run to the background worker. It reports false when the
// queue is full and the job was dropped.
func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// History returns the most recent job runs, newest first.
func (s *Service) History() []Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Run, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		out = append(out, s.history[i])
	}
	return out
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil && !errors.Is(err, payroll.ErrPeriodAlreadyArchived) {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := s.begin(j.Type)

	details, err := j.Run(ctx)
	status := StatusCompleted
	switch {
	case errors.Is(err, payroll.ErrPeriodAlreadyArchived):
		status = StatusSkipped
	case err != nil:
		status = StatusFailed
	}
	s.finish(runID, status, details, err)
	return details, err
}

func (s *Service) begin(jobType string) string {
	run := Run{ID: uuid.NewString(), JobType: jobType, Status: StatusRunning, StartedAt: s.now().UTC()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, run)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
	return run.ID
}

func (s *Service) finish(runID, status string, details any, err error) {
	completed := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.history {
		if s.history[i].ID != runID {
			continue
		}
		s.history[i].Status = status
		s.history[i].Details = details
		s.history[i].CompletedAt = &completed
		if err != nil {
			s.history[i].Error = err.Error()
		}
		return
	}
}

func (s *Service) scheduleAutoArchive(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobAutoArchive, s.autoArchive)
		}
	}
}

func (s *Service) autoArchive(ctx context.Context) (any, error) {
	run, err := s.archiver.ArchivePreviousMonth(ctx, s.now())
	if errors.Is(err, payroll.ErrPeriodAlreadyArchived) {
		slog.Debug("previous month already archived")
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return run.Header(), nil
}
