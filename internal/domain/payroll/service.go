package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// archiveAttempts bounds how often Archive recomputes after another writer
// moved a loan balance under it.
const archiveAttempts = 3

type Service struct {
	store   StoreAPI
	metrics Recorder
	now     func() time.Time

	// settleMu serialises archive and reopen so each settlement is computed
	// from the balances it is applied to.
	settleMu sync.Mutex
}

func NewService(store StoreAPI, metrics Recorder) *Service {
	return &Service{store: store, metrics: metrics, now: time.Now}
}

// Compute runs the engine over a fresh snapshot. The snapshot is taken once,
// so every employee sees the same data.
func (s *Service) Compute(ctx context.Context, start, end time.Time) (Result, error) {
	if dateOnly(end).Before(dateOnly(start)) {
		return Result{}, ErrInvalidPeriod
	}
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load payroll snapshot: %w", err)
	}

	began := time.Now()
	records := ComputePayroll(start, end, snap)
	if s.metrics != nil {
		s.metrics.RecordComputation(len(records), time.Since(began).Milliseconds())
	}

	return Result{
		PeriodStart: FormatDate(start),
		PeriodEnd:   FormatDate(end),
		Records:     records,
		Summary:     Summarize(records),
	}, nil
}

func (s *Service) ComputeMonth(ctx context.Context, month, year int) (Result, error) {
	start, end, err := MonthRange(month, year)
	if err != nil {
		return Result{}, err
	}
	return s.Compute(ctx, start, end)
}

// Archive computes the period, stores the run and settles the loan
// installments it collected. A period can only be archived once. If the
// store reports that a loan balance moved since the snapshot (another
// process archived meanwhile), the period is recomputed.
func (s *Service) Archive(ctx context.Context, start, end time.Time) (Run, error) {
	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	var err error
	for attempt := 1; attempt <= archiveAttempts; attempt++ {
		var run Run
		run, err = s.archiveOnce(ctx, start, end)
		if !errors.Is(err, ErrLoanBalanceChanged) {
			return run, err
		}
		slog.Warn("loan balance changed during archive, recomputing", "periodStart", FormatDate(start), "periodEnd", FormatDate(end), "attempt", attempt)
	}
	return Run{}, err
}

func (s *Service) archiveOnce(ctx context.Context, start, end time.Time) (Run, error) {
	result, err := s.Compute(ctx, start, end)
	if err != nil {
		return Run{}, err
	}
	run := Run{
		ID:          uuid.NewString(),
		PeriodStart: result.PeriodStart,
		PeriodEnd:   result.PeriodEnd,
		CreatedAt:   s.now().UTC(),
		Records:     result.Records,
		Summary:     result.Summary,
	}
	if err := s.store.ArchiveRun(ctx, run, SettlementAdjustments(run.Records)); err != nil {
		return Run{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordArchive()
	}
	slog.Info("payroll run archived", "runId", run.ID, "periodStart", run.PeriodStart, "periodEnd", run.PeriodEnd, "employees", len(run.Records))
	return run, nil
}

// ArchivePreviousMonth archives the calendar month before now.
func (s *Service) ArchivePreviousMonth(ctx context.Context, now time.Time) (Run, error) {
	previous := now.AddDate(0, 0, -now.Day()+1).AddDate(0, -1, 0)
	start, end, err := MonthRange(int(previous.Month()), previous.Year())
	if err != nil {
		return Run{}, err
	}
	return s.Archive(ctx, start, end)
}

// Reopen deletes an archived run and gives back the loan balances it took.
func (s *Service) Reopen(ctx context.Context, runID string) (Run, error) {
	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	run, err := s.store.GetRun(ctx, runID)
	if err != nil {
		return Run{}, err
	}
	if err := s.store.DeleteRun(ctx, runID, RestorationAdjustments(run.Records)); err != nil {
		return Run{}, err
	}
	slog.Info("payroll run reopened", "runId", run.ID, "periodStart", run.PeriodStart, "periodEnd", run.PeriodEnd)
	return run, nil
}

func (s *Service) GetRun(ctx context.Context, runID string) (Run, error) {
	return s.store.GetRun(ctx, runID)
}

func (s *Service) ListRuns(ctx context.Context) ([]RunHeader, error) {
	return s.store.ListRuns(ctx)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
