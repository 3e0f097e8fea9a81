// Package stats contains calculation history metrics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/DavidDAndrews/ErastSieve/internal/model"
)

const sparkChars = " .:-=+*#%@"

// CalcMetrics computes sieve throughput and prime density for one run.
func CalcMetrics(count, bound int, elapsed time.Duration) (numbersPerSec, primesPerSec, density float64) {
	if bound > 0 {
		density = float64(count) / float64(bound)
	}
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0, 0, density
	}
	numbersPerSec = float64(bound) / seconds
	primesPerSec = float64(count) / seconds
	return numbersPerSec, primesPerSec, density
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints aggregate figures for calculations.
func RenderSummary(w io.Writer, calcs []model.Calculation) error {
	if len(calcs) == 0 {
		_, err := fmt.Fprintln(w, "No calculations found.")
		return err
	}
	var total time.Duration
	largest := 0
	bestRate := 0.0
	for _, c := range calcs {
		total += c.Elapsed()
		largest = max(largest, c.Bound)
		rate, _, _ := CalcMetrics(c.Count, c.Bound, c.Elapsed())
		bestRate = math.Max(bestRate, rate)
	}
	avg := total / time.Duration(len(calcs))
	lines := []string{
		"Summary",
		fmt.Sprintf("Calculations: %d", len(calcs)),
		fmt.Sprintf("Largest bound: %s", humanize.Comma(int64(largest))),
		fmt.Sprintf("Avg time: %s", FormatSeconds(avg)),
		fmt.Sprintf("Best rate: %s numbers/s", humanize.Comma(int64(bestRate))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderElapsedCurve prints a sparkline of smoothed calculation times.
func RenderElapsedCurve(w io.Writer, calcs []model.Calculation, window int) error {
	if len(calcs) == 0 {
		return nil
	}
	values := make([]float64, len(calcs))
	for i, c := range calcs {
		values[i] = c.Elapsed().Seconds()
	}
	values = MovingAverage(values, window)
	_, err := fmt.Fprintf(w, "Elapsed (moving avg %d): [%s]\n\n", max(window, 1), Sparkline(values))
	return err
}

// RenderTable prints one row per calculation, newest last.
func RenderTable(w io.Writer, calcs []model.Calculation, now time.Time) error {
	if len(calcs) == 0 {
		return nil
	}
	headers := []string{"ID", "When", "Bound", "Primes", "Largest", "Time (s)", "Numbers/s"}
	rows := make([][]string, 0, len(calcs))
	for _, c := range calcs {
		rate, _, _ := CalcMetrics(c.Count, c.Bound, c.Elapsed())
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.ID),
			humanize.RelTime(c.EndedAt, now, "ago", "from now"),
			humanize.Comma(int64(c.Bound)),
			humanize.Comma(int64(c.Count)),
			humanize.Comma(int64(c.Largest)),
			FormatSeconds(c.Elapsed()),
			humanize.Comma(int64(rate)),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatSeconds renders a duration with two decimals, in seconds.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}
