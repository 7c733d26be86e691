package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorRecord(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(404, 20*time.Millisecond)
	c.Record(503, 30*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, uint64(3), snap["requestsTotal"])
	assert.Equal(t, uint64(1), snap["errorsTotal"])
	assert.Equal(t, uint64(1), snap["clientErrorsTotal"])
	assert.Equal(t, uint64(60), snap["totalDurationMs"])
	assert.InDelta(t, 20.0, snap["avgDurationMs"], 0.001)
}

func TestCollectorPayrollCounters(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RecordComputation(3, 2)
		}()
	}
	wg.Wait()
	c.RecordArchive()

	snap := c.Snapshot()
	assert.Equal(t, uint64(10), snap["payrollComputationsTotal"])
	assert.Equal(t, uint64(30), snap["payrollEmployeesTotal"])
	assert.Equal(t, uint64(20), snap["payrollComputeDurationMs"])
	assert.Equal(t, uint64(1), snap["payrollRunsArchivedTotal"])
}

func TestSnapshotEmpty(t *testing.T) {
	snap := New().Snapshot()
	assert.Equal(t, float64(0), snap["avgDurationMs"])
}
