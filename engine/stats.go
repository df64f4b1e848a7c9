package engine

import (
	"sync/atomic"
	"time"
)

// LoopStats describes one of the two program loops.
type LoopStats struct {
	Iterations uint64
	// LastDelta is the time between the two most recent iterations.
	LastDelta time.Duration
	// AvgBusy is the mean time spent doing work per iteration, excluding
	// ticker waits and frame limiting.
	AvgBusy  time.Duration
	LastBusy time.Duration
	// Rate is the iteration frequency derived from LastDelta.
	Rate float64
}

// Stats is a point-in-time view of program performance.
type Stats struct {
	Logic     LoopStats
	Draw      LoopStats
	Scheduler *SchedulerStats
	// Collisions is the number of blocked entity/tile pairs in the most
	// recent logic iteration.
	Collisions int64
}

// loopCounter is written by a single loop goroutine and read from anywhere.
type loopCounter struct {
	iterations atomic.Uint64
	lastDelta  atomic.Int64
	lastBusy   atomic.Int64
	totalBusy  atomic.Int64
}

func (c *loopCounter) record(delta, busy time.Duration) {
	c.iterations.Add(1)
	c.lastDelta.Store(int64(delta))
	c.lastBusy.Store(int64(busy))
	c.totalBusy.Add(int64(busy))
}

func (c *loopCounter) snapshot() LoopStats {
	s := LoopStats{
		Iterations: c.iterations.Load(),
		LastDelta:  time.Duration(c.lastDelta.Load()),
		LastBusy:   time.Duration(c.lastBusy.Load()),
	}
	if s.Iterations > 0 {
		s.AvgBusy = time.Duration(c.totalBusy.Load() / int64(s.Iterations))
	}
	if s.LastDelta > 0 {
		s.Rate = float64(time.Second) / float64(s.LastDelta)
	}
	return s
}

// Stats returns current loop and system statistics. Safe for concurrent use.
func (p *Program) Stats() Stats {
	return Stats{
		Logic:      p.logic.snapshot(),
		Draw:       p.draw.snapshot(),
		Scheduler:  p.scheduler.GetStats(),
		Collisions: p.collisions.hits.Load(),
	}
}
