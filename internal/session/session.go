// Package session keeps the latest sieve result so layouts can be redone
// without recomputing primes.
package session

import (
	"fmt"
	"sync"

	"github.com/DavidDAndrews/ErastSieve/internal/bound"
	"github.com/DavidDAndrews/ErastSieve/internal/layout"
	"github.com/DavidDAndrews/ErastSieve/internal/sieve"
	"github.com/DavidDAndrews/ErastSieve/internal/stats"
)

// Session caches one calculation at a time. Newer calculations supersede
// older ones even if the older one finishes last.
type Session struct {
	mu      sync.Mutex
	gen     uint64
	current sieve.Result
	has     bool
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Begin reserves a generation for a new calculation.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Complete stores res if gen is still the newest calculation. It reports
// whether the result was kept.
func (s *Session) Complete(gen uint64, res sieve.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.current = res
	s.has = true
	return true
}

// IsLatest reports whether gen is the newest calculation started.
func (s *Session) IsLatest(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// Current returns the cached result, if any.
func (s *Session) Current() (sieve.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.has
}

// Render formats the cached primes for p, with grouped digits in the header.
func (s *Session) Render(p layout.Params) string {
	res, ok := s.Current()
	if !ok {
		return ""
	}
	return layout.Format(res.Primes, res.Bound, p).Render(bound.Group)
}

// Summary returns the count and timing status lines for the cached result.
func (s *Session) Summary() (count, timing string) {
	res, ok := s.Current()
	if !ok {
		return "", ""
	}
	return Summarize(res)
}

// Summarize builds the count and timing status lines for res.
func Summarize(res sieve.Result) (count, timing string) {
	count = fmt.Sprintf("Found %s prime numbers up to %s", bound.Group(res.Count()), bound.Group(res.Bound))
	timing = fmt.Sprintf("Calculation complete in %s seconds", stats.FormatSeconds(res.Elapsed))
	return count, timing
}
