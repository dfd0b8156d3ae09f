package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	generationRuns     uint64
	generationFailures uint64
	periodsCommitted   uint64
	periodsDiscarded   uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordGeneration tallies one payroll generation run.
func (c *Collector) RecordGeneration(committed, discarded int, failed bool) {
	atomic.AddUint64(&c.generationRuns, 1)
	if failed {
		atomic.AddUint64(&c.generationFailures, 1)
	}
	atomic.AddUint64(&c.periodsCommitted, uint64(committed))
	atomic.AddUint64(&c.periodsDiscarded, uint64(discarded))
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":           total,
		"errorsTotal":             errs,
		"rateLimitedTotal":        limited,
		"avgDurationMs":           avg,
		"totalDurationMs":         totalMs,
		"generationRunsTotal":     atomic.LoadUint64(&c.generationRuns),
		"generationFailuresTotal": atomic.LoadUint64(&c.generationFailures),
		"payrollPeriodsCommitted": atomic.LoadUint64(&c.periodsCommitted),
		"payrollPeriodsDiscarded": atomic.LoadUint64(&c.periodsDiscarded),
	}
}
