// Package model defines shared data structures.
package model

import "time"

// Config defines calculator settings.
type Config struct {
	Margin         int
	CellWidth      float64
	MaxBound       int
	History        bool
	ResizeDebounce time.Duration
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Calculation records one completed sieve run. The primes themselves are
// never stored.
type Calculation struct {
	ID        int64
	StartedAt time.Time
	EndedAt   time.Time
	Bound     int
	Count     int
	Largest   int
	ElapsedNs int64
}

// Elapsed returns the sieve duration.
func (c Calculation) Elapsed() time.Duration {
	return time.Duration(c.ElapsedNs)
}
