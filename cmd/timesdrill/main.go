// Package main provides the CLI entrypoint for timesdrill.
package main

import (
	"bufio"
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

	"github.com/verte-zerg/timesdrill/internal/bank"
	"github.com/verte-zerg/timesdrill/internal/config"
	"github.com/verte-zerg/timesdrill/internal/cue"
	"github.com/verte-zerg/timesdrill/internal/history"
	"github.com/verte-zerg/timesdrill/internal/model"
	"github.com/verte-zerg/timesdrill/internal/scheduler"
	"github.com/verte-zerg/timesdrill/internal/stats"
	"github.com/verte-zerg/timesdrill/internal/statsui"
	"github.com/verte-zerg/timesdrill/internal/store"
	"github.com/verte-zerg/timesdrill/internal/tui"
)

const (
	defaultTable        = bank.AllTables
	defaultScopeToTable = true
	defaultShuffle      = string(model.ShuffleInsert)
	defaultBell         = true
	defaultCurveWindow  = 20
	defaultNext         = 10
	recentHistory       = 10
)

var (
	dbPath string

	practiceTable         int
	practiceScopeToTable  bool
	practiceShuffle       string
	practiceBell          bool
	practiceBellOnSuccess bool

	statsPlain       bool
	statsLast        int
	statsCurveWindow int

	historyNext int
	historyFact string

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "timesdrill",
		Short:         "TUI multiplication facts trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (default: XDG data dir)")

	rootCmd.Flags().IntVar(&practiceTable, "table", defaultTable, "times table to start on (0 = all, 2-12)")
	rootCmd.Flags().BoolVar(&practiceScopeToTable, "scope-to-table", defaultScopeToTable, "only ask problems from the selected table")
	rootCmd.Flags().StringVar(&practiceShuffle, "shuffle", defaultShuffle, "candidate shuffle (insert or uniform)")
	rootCmd.Flags().BoolVar(&practiceBell, "bell", defaultBell, "ring the terminal bell on a wrong digit")
	rootCmd.Flags().BoolVar(&practiceBellOnSuccess, "bell-on-success", false, "ring the terminal bell on a correct answer")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := practiceConfig(cmd, fileCfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	hist := history.New(st, history.DefaultKey, history.WithLogger(logErrf))
	log := hist.Load(context.Background())

	m := tui.NewModel(cfg, hist, scheduler.New(cfg.Shuffle), bank.Generate(), log, cue.FromConfig(cfg, os.Stderr))
	program := tea.NewProgram(m, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	reportSaveErr(final)
	return nil
}

// reportSaveErr logs an unrecovered save failure once the alt screen is gone.
func reportSaveErr(final tea.Model) {
	pm, ok := final.(*tui.Model)
	if !ok {
		return
	}
	if err := pm.SaveErr(); err != nil {
		logErrf("failed to save history: %v\n", err)
	}
}

func practiceConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	applyIntConfig(cmd, "table", &practiceTable, fileCfg.Practice.Table)
	applyBoolConfig(cmd, "scope-to-table", &practiceScopeToTable, fileCfg.Practice.ScopeToTable)
	applyStringConfig(cmd, "shuffle", &practiceShuffle, fileCfg.Practice.Shuffle)
	applyBoolConfig(cmd, "bell", &practiceBell, fileCfg.Practice.Bell)
	applyBoolConfig(cmd, "bell-on-success", &practiceBellOnSuccess, fileCfg.Practice.BellOnSuccess)

	return model.Config{
		Table:         practiceTable,
		ScopeToTable:  practiceScopeToTable,
		Shuffle:       model.ShuffleMode(strings.ToLower(strings.TrimSpace(practiceShuffle))),
		Bell:          practiceBell,
		BellOnSuccess: practiceBellOnSuccess,
	}
}

func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N questions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)
	cfg := model.StatsConfig{
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}
	if err := validateStatsConfig(cfg); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	hist := history.New(st, history.DefaultKey, history.WithLogger(logErrf))
	problems := bank.Generate()
	if statsPlain {
		report := stats.BuildReport(context.Background(), hist, problems, cfg)
		return writePlainStats(cmd.OutOrStdout(), report, cfg)
	}

	m := statsui.NewModel(hist, problems, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writePlainStats(w io.Writer, report stats.Report, cfg model.StatsConfig) error {
	if len(report.Log) == 0 {
		_, err := fmt.Fprintln(w, "No attempts recorded yet.")
		return err
	}
	if err := stats.RenderSummary(w, report.Log); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := stats.RenderTableReport(w, report.Log); err != nil {
		return fmt.Errorf("failed to write table report: %w", err)
	}
	if err := stats.RenderSlowest(w, report.Slowest); err != nil {
		return fmt.Errorf("failed to write slowest facts: %w", err)
	}
	if err := stats.RenderCurves(w, report.Log, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to write curves: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent attempts and the next candidates",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyNext, "next", defaultNext, "number of ranked candidates to list")
	cmd.Flags().StringVar(&historyFact, "fact", "", "show one fact in detail (e.g. 7x8)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyNext < 0 {
		return fmt.Errorf("--next must be >= 0")
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	mode := model.ShuffleMode(defaultShuffle)
	if fileCfg.Practice.Shuffle != nil {
		mode = model.ShuffleMode(strings.ToLower(strings.TrimSpace(*fileCfg.Practice.Shuffle)))
	}
	if !validShuffle(mode) {
		return fmt.Errorf("shuffle must be %q or %q", model.ShuffleInsert, model.ShuffleUniform)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := context.Background()
	hist := history.New(st, history.DefaultKey, history.WithLogger(logErrf))
	log := hist.Load(ctx)
	updated, ok, err := st.UpdatedAt(ctx, history.DefaultKey)
	if err != nil {
		return fmt.Errorf("failed to read history timestamp: %w", err)
	}

	out := cmd.OutOrStdout()
	problems := bank.Generate()
	if historyFact != "" {
		text, err := parseFact(historyFact)
		if err != nil {
			return err
		}
		problem, found := bank.Lookup(problems, text)
		if !found {
			return fmt.Errorf("unknown fact %q (factors must be %d-%d)", historyFact, bank.MinFactor, bank.MaxFactor)
		}
		return writeFact(out, problem, log)
	}

	sched := scheduler.New(mode)
	ranked := sched.Ranked(log, problems)
	return writeHistory(out, log, ranked, sched.Mode(), historyNext, updated, ok)
}

func writeHistory(w io.Writer, log model.HistoryLog, ranked []scheduler.Candidate, mode model.ShuffleMode, next int, updated time.Time, hasUpdated bool) error {
	bw := bufio.NewWriter(w)
	if hasUpdated {
		fmt.Fprintf(bw, "Last saved: %s\n", updated.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(bw, "Recorded attempts: %d\n", len(log))
	fmt.Fprintf(bw, "Shuffle: %s\n\n", mode)

	if next > len(ranked) {
		next = len(ranked)
	}
	fmt.Fprintln(bw, "Next candidates:")
	for i, c := range ranked[:next] {
		seen := "unseen"
		if c.Seen > 0 {
			seen = fmt.Sprintf("%.0f ms", c.Score)
		}
		fmt.Fprintf(bw, "%3d. %-8s %-10s decoys %s\n", i+1, c.Problem.Text, seen, formatInts(c.Problem.Decoys))
	}

	recent := log
	if len(recent) > recentHistory {
		recent = recent[len(recent)-recentHistory:]
	}
	if len(recent) > 0 {
		fmt.Fprintln(bw, "\nRecent attempts:")
		for i := len(recent) - 1; i >= 0; i-- {
			rec := recent[i]
			fmt.Fprintf(bw, "  %-8s %6d ms  %d mistakes\n", rec.ProblemText, rec.ElapsedMillis, rec.MistakeCount)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// parseFact accepts "7x8", "7*8" or "7 ✕ 8" and returns the problem text.
func parseFact(s string) (string, error) {
	normalized := strings.NewReplacer("✕", " ", "x", " ", "X", " ", "*", " ").Replace(s)
	var left, right int
	if _, err := fmt.Sscanf(normalized, "%d %d", &left, &right); err != nil {
		return "", fmt.Errorf("invalid --fact %q (use e.g. 7x8)", s)
	}
	return bank.Text(left, right), nil
}

func writeFact(w io.Writer, problem model.Problem, log model.HistoryLog) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s = %d\n", problem.Text, problem.Answer)
	fmt.Fprintf(bw, "Decoys: %s\n", formatInts(problem.Decoys))
	score := scheduler.Scores(log, []model.Problem{problem})[problem.Text]
	if score == scheduler.UnseenScore {
		fmt.Fprintln(bw, "Score: unseen")
	} else {
		fmt.Fprintf(bw, "Score: %.0f ms\n", score)
	}
	attempts := 0
	for i := len(log) - 1; i >= 0; i-- {
		rec := log[i]
		if rec.ProblemText != problem.Text {
			continue
		}
		if attempts == 0 {
			fmt.Fprintln(bw, "Attempts (newest first):")
		}
		attempts++
		fmt.Fprintf(bw, "  %6d ms  %d mistakes\n", rec.ElapsedMillis, rec.MistakeCount)
	}
	if attempts == 0 {
		fmt.Fprintln(bw, "No attempts recorded yet.")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func formatInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%d", v))
	}
	return strings.Join(parts, ",")
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all recorded attempts",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete all recorded attempts? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			logErrln("Aborted.")
			return nil
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	hist := history.New(st, history.DefaultKey, history.WithLogger(logErrf))
	if err := hist.Reset(context.Background()); err != nil {
		return fmt.Errorf("failed to reset history: %w", err)
	}
	logErrln("History cleared.")
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# timesdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# table = %d               # Times table to start on (0 = all, 2-12)
# scope-to-table = %t   # Only ask problems from the selected table
# shuffle = %q       # Candidate shuffle: "insert" or "uniform"
# bell = %t             # Ring the terminal bell on a wrong digit
# bell-on-success = false # Ring the terminal bell on a correct answer

[stats]
# curve-window = %d       # Moving average window
`,
		defaultTable,
		defaultScopeToTable,
		defaultShuffle,
		defaultBell,
		defaultCurveWindow,
	)
}

func validShuffle(mode model.ShuffleMode) bool {
	return mode == model.ShuffleInsert || mode == model.ShuffleUniform
}

func validateConfig(cfg model.Config) error {
	if !bank.ValidTable(cfg.Table) {
		return fmt.Errorf("--table must be 0 or between %d and %d", bank.MinFactor, bank.MaxFactor)
	}
	if !validShuffle(cfg.Shuffle) {
		return fmt.Errorf("--shuffle must be %q or %q", model.ShuffleInsert, model.ShuffleUniform)
	}
	return nil
}

func validateStatsConfig(cfg model.StatsConfig) error {
	if cfg.Last < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
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
