// Package tui provides the Bubble Tea prime calculator interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DavidDAndrews/ErastSieve/internal/bound"
	"github.com/DavidDAndrews/ErastSieve/internal/layout"
	"github.com/DavidDAndrews/ErastSieve/internal/model"
	"github.com/DavidDAndrews/ErastSieve/internal/session"
	"github.com/DavidDAndrews/ErastSieve/internal/sieve"
	"github.com/DavidDAndrews/ErastSieve/internal/store"
)

const (
	titleText       = "Prime Number Calculator"
	instructionText = "Enter a number greater than 1 and press Enter to find all prime numbers up to that value:"
	helpText        = "Calculate: enter  Scroll: up/down/pgup/pgdn  Quit: esc/ctrl+c"
	headerHeight    = 6
	footerHeight    = 1
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#007ACC")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#28A745"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	inputStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#0000FF")).
			Padding(0, 1)
)

type calcDoneMsg struct {
	gen       uint64
	res       sieve.Result
	err       error
	startedAt time.Time
	endedAt   time.Time
}

type reflowMsg struct {
	seq int
}

// Model implements the Bubble Tea calculator UI.
type Model struct {
	config  model.Config
	engine  sieve.Engine
	session *session.Session
	store   *store.Store

	input    textinput.Model
	results  viewport.Model
	spinner  spinner.Model
	content  string
	width    int
	height   int
	reflowID int

	calculating bool
	errMsg      string
}

// NewModel constructs a calculator TUI model. st may be nil to skip
// recording history.
func NewModel(cfg model.Config, engine sieve.Engine, st *store.Store) *Model {
	input := textinput.New()
	input.Placeholder = "1,000,000"
	input.Prompt = ""
	input.CharLimit = 32
	input.Width = 20
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = pendingStyle

	return &Model{
		config:  cfg,
		engine:  engine,
		session: session.New(),
		store:   st,
		input:   input,
		results: viewport.New(0, 0),
		spinner: spin,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.Width = msg.Width
		m.results.Height = max(1, msg.Height-headerHeight-footerHeight)
		return m, m.scheduleReflow()
	case reflowMsg:
		if msg.seq == m.reflowID {
			m.reflow()
		}
		return m, nil
	case calcDoneMsg:
		m.finishCalculation(msg)
		return m, nil
	case spinner.TickMsg:
		if !m.calculating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		}
		return m, m.updateInput(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := []string{
		titleStyle.Render(titleText),
		mutedStyle.Render(truncateLine(instructionText, m.width)),
		inputStyle.Render(m.input.View()),
		m.renderCount(),
		m.renderStatus(),
	}
	header := strings.Join(lines, "\n")
	if m.width == 0 || m.height == 0 {
		return header + "\n" + m.results.View()
	}
	header = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, header)
	footer := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footerStyle.Render(helpText))
	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.results.View(), footer)
}

func (m *Model) submit() tea.Cmd {
	n, err := bound.Parse(m.input.Value())
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.calculating = true
	gen := m.session.Begin()
	engine := m.engine
	calc := func() tea.Msg {
		started := time.Now()
		res, err := engine.Compute(n)
		return calcDoneMsg{gen: gen, res: res, err: err, startedAt: started, endedAt: time.Now()}
	}
	return tea.Batch(m.spinner.Tick, calc)
}

func (m *Model) finishCalculation(msg calcDoneMsg) {
	if msg.err != nil {
		// A failed run leaves the previous result on screen.
		if !m.session.IsLatest(msg.gen) {
			return
		}
		m.calculating = false
		m.errMsg = fmt.Sprintf("An unexpected error occurred: %v", msg.err)
		return
	}
	if !m.session.Complete(msg.gen, msg.res) {
		return
	}
	m.calculating = false
	m.errMsg = ""
	m.reflow()
	m.results.GotoTop()
	m.record(msg)
}

func (m *Model) record(msg calcDoneMsg) {
	if m.store == nil {
		return
	}
	calc := model.Calculation{
		StartedAt: msg.startedAt,
		EndedAt:   msg.endedAt,
		Bound:     msg.res.Bound,
		Count:     msg.res.Count(),
		Largest:   msg.res.Largest(),
		ElapsedNs: msg.res.Elapsed.Nanoseconds(),
	}
	if _, err := m.store.InsertCalculation(context.Background(), calc); err != nil {
		logErrf("failed to save calculation: %v\n", err)
	}
}

func (m *Model) scheduleReflow() tea.Cmd {
	m.reflowID++
	if _, ok := m.session.Current(); !ok {
		return nil
	}
	if m.config.ResizeDebounce <= 0 {
		m.reflow()
		return nil
	}
	seq := m.reflowID
	return tea.Tick(m.config.ResizeDebounce, func(time.Time) tea.Msg {
		return reflowMsg{seq: seq}
	})
}

func (m *Model) reflow() {
	m.content = m.session.Render(m.layoutParams())
	m.results.SetContent(m.content)
}

func (m *Model) layoutParams() layout.Params {
	return layout.ParamsFor(m.width, m.config.CellWidth, m.config.Margin)
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	value := m.input.Value()
	grouped, cursor := bound.Regroup(value, m.input.Position())
	if grouped != value {
		m.input.SetValue(grouped)
		m.input.SetCursor(cursor)
	}
	return cmd
}

func (m *Model) renderCount() string {
	if m.errMsg != "" || m.calculating {
		return ""
	}
	count, _ := m.session.Summary()
	return countStyle.Render(count)
}

func (m *Model) renderStatus() string {
	switch {
	case m.errMsg != "":
		return errorStyle.Render(truncateLine(m.errMsg, m.width))
	case m.calculating:
		return m.spinner.View() + pendingStyle.Render("Calculating...")
	}
	_, timing := m.session.Summary()
	if timing == "" {
		return ""
	}
	return doneStyle.Render("✓ " + timing)
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
