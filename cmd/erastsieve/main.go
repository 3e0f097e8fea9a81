// Package main provides the CLI entrypoint for erastsieve.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/DavidDAndrews/ErastSieve/internal/bound"
	"github.com/DavidDAndrews/ErastSieve/internal/config"
	"github.com/DavidDAndrews/ErastSieve/internal/historyui"
	"github.com/DavidDAndrews/ErastSieve/internal/layout"
	"github.com/DavidDAndrews/ErastSieve/internal/model"
	"github.com/DavidDAndrews/ErastSieve/internal/session"
	"github.com/DavidDAndrews/ErastSieve/internal/sieve"
	"github.com/DavidDAndrews/ErastSieve/internal/stats"
	"github.com/DavidDAndrews/ErastSieve/internal/store"
	"github.com/DavidDAndrews/ErastSieve/internal/tui"
)

const (
	defaultCellWidth        = 1.0
	defaultMaxBound         = 0
	defaultResizeDebounceMs = 250
	defaultCurveWindow      = 10
	terminalWidthBackup     = 80
)

var (
	calcMargin     int
	calcCellWidth  float64
	calcMaxBound   int
	calcNoHistory  bool
	calcDebounceMs int

	listWidth int
	listGroup bool

	historySince       string
	historyLast        int
	historyCurveWindow int
	historyClear       bool
	historyTUI         bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "erastsieve",
		Short:         "Sieve of Eratosthenes prime calculator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCalculatorCmd,
	}

	addCalcFlags(rootCmd)
	rootCmd.Flags().IntVar(&calcDebounceMs, "resize-debounce-ms", defaultResizeDebounceMs, "delay before reflowing results after a resize")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addCalcFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&calcMargin, "margin", layout.DefaultMargin, "cells reserved for padding before fitting columns")
	cmd.Flags().Float64Var(&calcCellWidth, "cell-width", defaultCellWidth, "width of one character cell")
	cmd.Flags().IntVar(&calcMaxBound, "max-bound", defaultMaxBound, "largest bound the sieve will allocate (0: no limit)")
	cmd.Flags().BoolVar(&calcNoHistory, "no-history", false, "do not record calculations")
}

func loadCalcConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "margin", &calcMargin, fileCfg.Layout.Margin)
	applyFloatConfig(cmd, "cell-width", &calcCellWidth, fileCfg.Layout.CellWidth)
	applyIntConfig(cmd, "max-bound", &calcMaxBound, fileCfg.Sieve.MaxBound)
	applyIntConfig(cmd, "resize-debounce-ms", &calcDebounceMs, fileCfg.UI.ResizeDebounceMs)
	if fileCfg.History.Enabled != nil && !cmd.Flags().Changed("no-history") {
		calcNoHistory = !*fileCfg.History.Enabled
	}

	cfg := model.Config{
		Margin:         calcMargin,
		CellWidth:      calcCellWidth,
		MaxBound:       calcMaxBound,
		History:        !calcNoHistory,
		ResizeDebounce: time.Duration(calcDebounceMs) * time.Millisecond,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runCalculatorCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCalcConfig(cmd)
	if err != nil {
		return err
	}
	st := openHistory(cfg)
	defer closeHistory(st)

	model := tui.NewModel(cfg, sieve.Engine{MaxBound: cfg.MaxBound}, st)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <bound>",
		Short: "Print all primes up to a bound",
		Args:  cobra.ExactArgs(1),
		RunE:  runListCmd,
	}
	addCalcFlags(cmd)
	cmd.Flags().IntVar(&listWidth, "width", 0, "available width (default: terminal width)")
	cmd.Flags().BoolVar(&listGroup, "group", false, "group digits of the bound in the header")
	return cmd
}

func runListCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadCalcConfig(cmd)
	if err != nil {
		return err
	}
	n, err := bound.Parse(args[0])
	if err != nil {
		return err
	}
	width := listWidth
	if width <= 0 {
		width = terminalWidth()
	}

	startedAt := time.Now()
	res, err := computeList(sieve.Engine{MaxBound: cfg.MaxBound}, n)
	if err != nil {
		return err
	}
	endedAt := time.Now()

	if err := writeList(cmd.OutOrStdout(), res, cfg, width, listGroup); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	count, timing := session.Summarize(res)
	logErrln(count)
	logErrln(timing)

	if st := openHistory(cfg); st != nil {
		defer closeHistory(st)
		recordCalculation(st, res, startedAt, endedAt)
	}
	return nil
}

func computeList(engine sieve.Engine, n int) (sieve.Result, error) {
	res, err := engine.Compute(n)
	if err != nil {
		return sieve.Result{}, fmt.Errorf("An unexpected error occurred: %w", err)
	}
	return res, nil
}

func writeList(w io.Writer, res sieve.Result, cfg model.Config, width int, group bool) error {
	params := layout.ParamsFor(width, cfg.CellWidth, cfg.Margin)
	block := layout.Format(res.Primes, res.Bound, params)
	text := block.String()
	if group {
		text = block.Render(bound.Group)
	}
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past calculations",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N calculations")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&historyClear, "clear", false, "delete all recorded calculations")
	cmd.Flags().BoolVar(&historyTUI, "tui", false, "browse history interactively")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "last", &historyLast, fileCfg.History.Last)
	applyIntConfig(cmd, "curve-window", &historyCurveWindow, fileCfg.History.CurveWindow)

	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeHistory(st)

	ctx := context.Background()
	if historyClear {
		n, err := st.Clear(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d calculations.\n", n)
		return err
	}

	historyCfg := model.HistoryConfig{
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
	}
	if historyTUI {
		program := tea.NewProgram(historyui.NewModel(st, historyCfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history UI: %w", err)
		}
		return nil
	}
	report, err := stats.BuildReport(ctx, st, historyCfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), time.Now())
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openHistory(cfg model.Config) *store.Store {
	if !cfg.History {
		return nil
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open history db: %v\n", err)
		return nil
	}
	return st
}

func closeHistory(st *store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func recordCalculation(st *store.Store, res sieve.Result, startedAt, endedAt time.Time) {
	calc := model.Calculation{
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Bound:     res.Bound,
		Count:     res.Count(),
		Largest:   res.Largest(),
		ElapsedNs: res.Elapsed.Nanoseconds(),
	}
	if _, err := st.InsertCalculation(context.Background(), calc); err != nil {
		logErrf("failed to save calculation: %v\n", err)
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# erastsieve configuration
# Uncomment a value to enable it. CLI flags override config values.

[layout]
# margin = %d               # Cells reserved for padding before fitting columns
# cell-width = %.1f         # Width of one character cell

[sieve]
# max-bound = %d            # Largest bound the sieve will allocate (0: no limit)

[history]
# enabled = true            # Record calculations
# last = 0                  # Limit history output to the last N calculations
# curve-window = %d         # Moving average window for elapsed times

[ui]
# resize-debounce-ms = %d   # Delay before reflowing results after a resize
`,
		layout.DefaultMargin,
		defaultCellWidth,
		defaultMaxBound,
		defaultCurveWindow,
		defaultResizeDebounceMs,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Margin < 0 {
		return fmt.Errorf("--margin must be >= 0")
	}
	if cfg.CellWidth <= 0 {
		return fmt.Errorf("--cell-width must be > 0")
	}
	if cfg.MaxBound < 0 {
		return fmt.Errorf("--max-bound must be >= 0")
	}
	if cfg.ResizeDebounce < 0 {
		return fmt.Errorf("--resize-debounce-ms must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
