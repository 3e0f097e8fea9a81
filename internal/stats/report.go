// Package stats contains calculation history metrics and reporting.
package stats

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/DavidDAndrews/ErastSieve/internal/model"
	"github.com/DavidDAndrews/ErastSieve/internal/store"
)

const topBounds = 3

// Report contains precomputed data for history rendering.
type Report struct {
	Calculations []model.Calculation
	Window       int
	Fastest      map[int]model.Calculation
	TopBounds    []int
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig) (Report, error) {
	calcs, err := st.ListCalculations(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	top := TopBoundsByFrequency(calcs, topBounds)
	fastest := make(map[int]model.Calculation, len(top))
	for _, b := range top {
		calc, ok, err := st.FastestForBound(ctx, b)
		if err != nil {
			return Report{}, err
		}
		if ok {
			fastest[b] = calc
		}
	}
	return Report{
		Calculations: calcs,
		Window:       cfg.CurveWindow,
		Fastest:      fastest,
		TopBounds:    top,
	}, nil
}

// Render writes the summary, curve, table and per-bound bests.
func (r Report) Render(w io.Writer, now time.Time) error {
	if err := RenderSummary(w, r.Calculations); err != nil {
		return err
	}
	if len(r.Calculations) == 0 {
		return nil
	}
	if err := RenderElapsedCurve(w, r.Calculations, r.Window); err != nil {
		return err
	}
	if err := RenderTable(w, r.Calculations, now); err != nil {
		return err
	}
	if len(r.TopBounds) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nBest times for frequent bounds"); err != nil {
		return err
	}
	for _, b := range r.TopBounds {
		calc, ok := r.Fastest[b]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s s (%s primes)\n", humanize.Comma(int64(b)), FormatSeconds(calc.Elapsed()), humanize.Comma(int64(calc.Count))); err != nil {
			return err
		}
	}
	return nil
}
