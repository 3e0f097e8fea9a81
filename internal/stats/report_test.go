package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DavidDAndrews/ErastSieve/internal/model"
	"github.com/DavidDAndrews/ErastSieve/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "erastsieve.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	bounds := []int{100, 1000, 100}
	elapsed := []time.Duration{3 * time.Millisecond, 8 * time.Millisecond, time.Millisecond}
	var ids []int64
	for i, b := range bounds {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		id, err := st.InsertCalculation(ctx, model.Calculation{
			StartedAt: start,
			EndedAt:   start.Add(elapsed[i]),
			Bound:     b,
			Count:     25,
			Largest:   97,
			ElapsedNs: elapsed[i].Nanoseconds(),
		})
		if err != nil {
			t.Fatalf("insert calculation: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Last: 2, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Calculations) != 2 {
		t.Fatalf("expected 2 calculations, got %d", len(report.Calculations))
	}
	if report.Calculations[0].ID != ids[1] || report.Calculations[1].ID != ids[2] {
		t.Fatalf("unexpected calculation ids: %+v", report.Calculations)
	}
	if len(report.TopBounds) != 2 {
		t.Fatalf("expected 2 distinct bounds, got %v", report.TopBounds)
	}
	best, ok := report.Fastest[100]
	if !ok || best.ID != ids[2] {
		t.Fatalf("expected fastest run for 100 to be %d, got %+v", ids[2], best)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, time.Unix(3600, 0)); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Calculations: 2", "Elapsed (moving avg 2)", "Best times for frequent bounds", "100: 0.00 s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
