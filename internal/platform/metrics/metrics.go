package metrics

import (
	"sync/atomic"
	"time"
)

// Collector counts HTTP traffic and payroll activity. All methods are safe
// for concurrent use.
type Collector struct {
	totalRequests     uint64
	errorRequests     uint64
	clientErrors      uint64
	totalDurationMs   uint64
	computations      uint64
	employeesComputed uint64
	computeDurationMs uint64
	runsArchived      uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	} else if status >= 400 {
		atomic.AddUint64(&c.clientErrors, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordComputation(employees int, durationMs int64) {
	atomic.AddUint64(&c.computations, 1)
	if employees > 0 {
		atomic.AddUint64(&c.employeesComputed, uint64(employees))
	}
	if durationMs > 0 {
		atomic.AddUint64(&c.computeDurationMs, uint64(durationMs))
	}
}

func (c *Collector) RecordArchive() {
	atomic.AddUint64(&c.runsArchived, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":            total,
		"errorsTotal":              atomic.LoadUint64(&c.errorRequests),
		"clientErrorsTotal":        atomic.LoadUint64(&c.clientErrors),
		"avgDurationMs":            avg,
		"totalDurationMs":          totalMs,
		"payrollComputationsTotal": atomic.LoadUint64(&c.computations),
		"payrollEmployeesTotal":    atomic.LoadUint64(&c.employeesComputed),
		"payrollComputeDurationMs": atomic.LoadUint64(&c.computeDurationMs),
		"payrollRunsArchivedTotal": atomic.LoadUint64(&c.runsArchived),
	}
}
