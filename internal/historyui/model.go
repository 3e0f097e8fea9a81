// Package historyui provides the Bubble Tea calculation history browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/DavidDAndrews/ErastSieve/internal/model"
	"github.com/DavidDAndrews/ErastSieve/internal/stats"
	"github.com/DavidDAndrews/ErastSieve/internal/store"
)

const (
	tabOverview = iota
	tabRuns
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store *store.Store
	cfg   model.HistoryConfig
	now   func() time.Time

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	runs      table.Model

	width  int
	height int

	filterMode  bool
	lastInput   textinput.Model
	filterError string
}

// NewModel constructs a history UI model.
func NewModel(st *store.Store, cfg model.HistoryConfig) *Model {
	m := &Model{
		store:    st,
		cfg:      cfg,
		now:      time.Now,
		tabs:     []string{"Overview", "Runs"},
		overview: viewport.New(0, 0),
		runs:     buildRunsTable(nil, 0, 1),
	}
	m.lastInput = textinput.New()
	m.lastInput.Prompt = "Last: "
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			m.filterMode = true
			m.filterError = ""
			if m.cfg.Last > 0 {
				m.lastInput.SetValue(strconv.Itoa(m.cfg.Last))
			} else {
				m.lastInput.SetValue("")
			}
			return m, m.lastInput.Focus()
		}
		var cmd tea.Cmd
		if m.activeTab == tabRuns {
			m.runs, cmd = m.runs.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderTabs() + "\n" + headerStyle.Render(m.renderSettings())
	var body string
	switch {
	case m.filterMode:
		body = m.lastInput.View()
		if m.filterError != "" {
			body += "\n" + errorStyle.Render(m.filterError)
		}
	case m.activeTab == tabRuns:
		body = m.runs.View()
	default:
		body = m.overview.View()
	}
	footer := headerStyle.Render("Nav: left/right  Scroll: up/down  Window: -/=  Last N: /  Quit: q")
	if m.errMsg != "" {
		footer += "\n" + errorStyle.Render(m.errMsg)
	}
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.lastInput.Blur()
		return m, nil
	case tea.KeyEnter:
		last, err := parseLast(m.lastInput.Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg.Last = last
		m.filterMode = false
		m.lastInput.Blur()
		m.refreshReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.lastInput, cmd = m.lastInput.Update(msg)
	return m, cmd
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.report = report
	m.renderContents()
}

func (m *Model) renderContents() {
	var buf bytes.Buffer
	if err := m.report.Render(&buf, m.now()); err != nil {
		m.overview.SetContent(fmt.Sprintf("Failed to render history: %v", err))
	} else {
		m.overview.SetContent(strings.TrimRight(buf.String(), "\n"))
	}
	m.runs.SetRows(buildRunsRows(m.report.Calculations))
}

func (m *Model) updateLayout() {
	bodyHeight := max(1, m.height-lipgloss.Height(activeNavStyle.Render("X"))-3)
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.runs.SetWidth(m.width)
	m.runs.SetHeight(bodyHeight)
	m.lastInput.Width = max(10, m.width-lipgloss.Width(m.lastInput.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabRuns {
		m.runs.Focus()
	} else {
		m.runs.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSettings() string {
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	return fmt.Sprintf("Settings: since=%s  last=%s  window=%d", since, last, m.cfg.CurveWindow)
}

func buildRunsTable(calcs []model.Calculation, width, height int) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Ended", Width: 19},
		{Title: "Bound", Width: 15},
		{Title: "Primes", Width: 12},
		{Title: "Largest", Width: 15},
		{Title: "Time (s)", Width: 9},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(buildRunsRows(calcs)),
		table.WithHeight(max(1, height)),
	)
	t.SetWidth(width)
	return t
}

// buildRunsRows lists calculations newest first.
func buildRunsRows(calcs []model.Calculation) []table.Row {
	rows := make([]table.Row, 0, len(calcs))
	for i := len(calcs) - 1; i >= 0; i-- {
		c := calcs[i]
		rows = append(rows, table.Row{
			strconv.FormatInt(c.ID, 10),
			c.EndedAt.Local().Format("2006-01-02 15:04:05"),
			humanize.Comma(int64(c.Bound)),
			humanize.Comma(int64(c.Count)),
			humanize.Comma(int64(c.Largest)),
			stats.FormatSeconds(c.Elapsed()),
		})
	}
	return rows
}

func parseLast(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid last value (use 0 or positive integer)")
	}
	return n, nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}
