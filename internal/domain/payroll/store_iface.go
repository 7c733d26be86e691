package payroll

import "context"

// StoreAPI is what the payroll service needs from the data store.
// ArchiveRun and DeleteRun apply their loan adjustments in the same
// transaction as the run itself.
type StoreAPI interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	ArchiveRun(ctx context.Context, run Run, adjustments []LoanAdjustment) error
	DeleteRun(ctx context.Context, runID string, adjustments []LoanAdjustment) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context) ([]RunHeader, error)
	Ping(ctx context.Context) error
}

// Recorder receives payroll metrics. It may be nil.
type Recorder interface {
	RecordComputation(employees int, durationMs int64)
	RecordArchive()
}
