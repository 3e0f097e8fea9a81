package stats

import (
	"testing"

	"github.com/DavidDAndrews/ErastSieve/internal/model"
)

func TestTopBoundsByFrequency(t *testing.T) {
	calcs := []model.Calculation{
		{Bound: 100},
		{Bound: 1000},
		{Bound: 100},
		{Bound: 50},
		{Bound: 1000},
		{Bound: 7},
	}
	top := TopBoundsByFrequency(calcs, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 bounds, got %d", len(top))
	}
	if top[0] != 100 || top[1] != 1000 || top[2] != 7 {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopBoundsByFrequency(calcs, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
