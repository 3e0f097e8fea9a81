package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DavidDAndrews/ErastSieve/internal/layout"
	"github.com/DavidDAndrews/ErastSieve/internal/model"
	"github.com/DavidDAndrews/ErastSieve/internal/sieve"
)

func newTestModel(debounce time.Duration) *Model {
	cfg := model.Config{
		Margin:         layout.DefaultMargin,
		CellWidth:      1,
		ResizeDebounce: debounce,
	}
	return NewModel(cfg, sieve.Engine{}, nil)
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func runCalculation(t *testing.T, m *Model, n int) calcDoneMsg {
	t.Helper()
	gen := m.session.Begin()
	m.calculating = true
	res, err := sieve.Compute(n)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	msg := calcDoneMsg{gen: gen, res: res, startedAt: time.Unix(0, 0), endedAt: time.Unix(1, 0)}
	m.Update(msg)
	return msg
}

func TestTypingGroupsDigits(t *testing.T) {
	m := newTestModel(0)
	typeText(m, "1000000")
	if got := m.input.Value(); got != "1,000,000" {
		t.Fatalf("expected grouped input, got %q", got)
	}
	if m.input.Position() != len("1,000,000") {
		t.Fatalf("expected cursor at end, got %d", m.input.Position())
	}
}

func TestSubmitRejectsInvalidBound(t *testing.T) {
	m := newTestModel(0)
	typeText(m, "1")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected no calculation for invalid bound")
	}
	if m.errMsg != "Number must be greater than 1" {
		t.Fatalf("unexpected error message: %q", m.errMsg)
	}
	if m.calculating {
		t.Fatalf("expected no calculation in progress")
	}
}

func TestSubmitRunsSieve(t *testing.T) {
	m := newTestModel(0)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	typeText(m, "30")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || !m.calculating {
		t.Fatalf("expected calculation command")
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected batch message, got %T", msg)
	}
	var done calcDoneMsg
	found := false
	for _, c := range batch {
		if c == nil {
			continue
		}
		if d, ok := c().(calcDoneMsg); ok {
			done = d
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a calcDoneMsg in batch")
	}
	m.Update(done)
	if m.calculating {
		t.Fatalf("expected calculation to finish")
	}
	view := m.View()
	for _, want := range []string{"Found 10 prime numbers up to 30", "Prime numbers up to 30:", "29"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestStaleCalculationIsDropped(t *testing.T) {
	m := newTestModel(0)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	older := m.session.Begin()
	newer := runCalculation(t, m, 50)

	res, err := sieve.Compute(10)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	m.Update(calcDoneMsg{gen: older, res: res})
	current, _ := m.session.Current()
	if current.Bound != newer.res.Bound {
		t.Fatalf("expected newest calculation to stay, got bound %d", current.Bound)
	}
}

func TestFailedCalculationReportsError(t *testing.T) {
	m := newTestModel(0)
	gen := m.session.Begin()
	m.calculating = true
	m.Update(calcDoneMsg{gen: gen, err: sieve.ErrAllocation})
	if m.calculating {
		t.Fatalf("expected calculation to stop")
	}
	if !strings.HasPrefix(m.errMsg, "An unexpected error occurred: ") {
		t.Fatalf("unexpected error message: %q", m.errMsg)
	}
	if _, ok := m.session.Current(); ok {
		t.Fatalf("expected no cached result after failure")
	}
}

func TestResizeIsDebounced(t *testing.T) {
	m := newTestModel(250 * time.Millisecond)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	runCalculation(t, m, 200)
	wide := m.content

	_, first := m.Update(tea.WindowSizeMsg{Width: 40, Height: 40})
	_, second := m.Update(tea.WindowSizeMsg{Width: 45, Height: 40})
	if first == nil || second == nil {
		t.Fatalf("expected debounce ticks after a calculation")
	}
	if m.content != wide {
		t.Fatalf("expected content to wait for the debounce tick")
	}

	m.Update(reflowMsg{seq: m.reflowID - 1})
	if m.content != wide {
		t.Fatalf("expected superseded tick to be ignored")
	}
	m.Update(reflowMsg{seq: m.reflowID})
	if m.content == wide {
		t.Fatalf("expected content to reflow for the new width")
	}
	current, _ := m.session.Current()
	if current.Count() != 46 {
		t.Fatalf("expected cached primes to be reused, got %d", current.Count())
	}
}

func TestResizeBeforeCalculationSchedulesNothing(t *testing.T) {
	m := newTestModel(250 * time.Millisecond)
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cmd != nil {
		t.Fatalf("expected no reflow before the first calculation")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdef", 5); got != "ab..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncateLine("abc", 0); got != "abc" {
		t.Fatalf("expected unchanged line, got %q", got)
	}
}

func TestCompletionClearsValidationError(t *testing.T) {
	m := newTestModel(0)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	gen := m.session.Begin()
	m.calculating = true

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.errMsg != "Please enter a number" {
		t.Fatalf("expected empty-input error, got %q", m.errMsg)
	}

	res, err := sieve.Compute(30)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	m.Update(calcDoneMsg{gen: gen, res: res})
	if m.errMsg != "" {
		t.Fatalf("expected error to clear, got %q", m.errMsg)
	}
	if !strings.Contains(m.View(), "Found 10 prime numbers up to 30") {
		t.Fatalf("expected count line after completion")
	}
}
