// Package sieve computes primes with the Sieve of Eratosthenes.
package sieve

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"
)

// ErrAllocation reports that the sieve table for a bound could not be allocated.
var ErrAllocation = errors.New("sieve table allocation failed")

// ErrNegativeBound reports a bound below zero.
var ErrNegativeBound = errors.New("bound must be >= 0")

// Result is one completed sieve run.
type Result struct {
	Bound   int
	Primes  []int
	Elapsed time.Duration
}

// Count returns the number of primes found.
func (r Result) Count() int {
	return len(r.Primes)
}

// Largest returns the largest prime found, or 0 when there are none.
func (r Result) Largest() int {
	if len(r.Primes) == 0 {
		return 0
	}
	return r.Primes[len(r.Primes)-1]
}

// Engine runs sieve computations. The zero value has no bound limit
// beyond what the runtime can allocate.
type Engine struct {
	// MaxBound rejects larger bounds with ErrAllocation. Zero means unlimited.
	MaxBound int

	now func() time.Time
}

// Compute runs the sieve with a default Engine.
func Compute(n int) (Result, error) {
	return Engine{}.Compute(n)
}

// Compute returns every prime <= n in ascending order along with the
// wall-clock time of the whole call, table allocation included.
func (e Engine) Compute(n int) (Result, error) {
	if n < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrNegativeBound, n)
	}
	now := e.now
	if now == nil {
		now = time.Now
	}
	start := now()

	table, err := e.allocate(n)
	if err != nil {
		return Result{}, err
	}
	mark(table)
	primes := collect(table)

	return Result{
		Bound:   n,
		Primes:  primes,
		Elapsed: now().Sub(start),
	}, nil
}

func (e Engine) allocate(n int) (table []bool, err error) {
	if n == math.MaxInt {
		return nil, fmt.Errorf("%w: bound %d overflows table size", ErrAllocation, n)
	}
	if e.MaxBound > 0 && n > e.MaxBound {
		return nil, fmt.Errorf("%w: bound %d exceeds limit %d", ErrAllocation, n, e.MaxBound)
	}
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			table = nil
			err = fmt.Errorf("%w: bound %d: %v", ErrAllocation, n, rerr)
		}
	}()
	table = make([]bool, n+1)
	for i := 2; i <= n; i++ {
		table[i] = true
	}
	return table, nil
}

func mark(table []bool) {
	n := len(table) - 1
	for c := 2; c*c <= n; c++ {
		if !table[c] {
			continue
		}
		for m := c * c; m <= n; m += c {
			table[m] = false
		}
	}
}

func collect(table []bool) []int {
	primes := make([]int, 0, estimateCount(len(table)-1))
	for i, isPrime := range table {
		if isPrime {
			primes = append(primes, i)
		}
	}
	return primes
}

// estimateCount sizes the output slice from n/ln(n), a slight undercount.
func estimateCount(n int) int {
	if n < 2 {
		return 0
	}
	return int(float64(n) / math.Log(float64(n)))
}
