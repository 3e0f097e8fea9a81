package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/DavidDAndrews/ErastSieve/internal/model"
)

func TestCalcMetrics(t *testing.T) {
	rate, primeRate, density := CalcMetrics(25, 100, 500*time.Millisecond)
	if rate != 200 || primeRate != 50 || density != 0.25 {
		t.Fatalf("unexpected metrics: %v %v %v", rate, primeRate, density)
	}
	rate, primeRate, density = CalcMetrics(25, 100, 0)
	if rate != 0 || primeRate != 0 || density != 0.25 {
		t.Fatalf("expected zero rates for zero elapsed: %v %v %v", rate, primeRate, density)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected average at %d: %v", i, got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}); got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No calculations found." {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderTable(t *testing.T) {
	now := time.Unix(3600, 0)
	calcs := []model.Calculation{
		{ID: 1, EndedAt: now.Add(-2 * time.Minute), Bound: 1000000, Count: 78498, Largest: 999983, ElapsedNs: int64(250 * time.Millisecond)},
	}
	var buf bytes.Buffer
	if err := RenderTable(&buf, calcs, now); err != nil {
		t.Fatalf("render table: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"1,000,000", "78,498", "999,983", "0.25", "4,000,000", "2 minutes ago"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}
