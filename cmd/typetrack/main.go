// Package main provides the CLI entrypoint for typetrack.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetrack/internal/config"
	"github.com/verte-zerg/typetrack/internal/logging"
	"github.com/verte-zerg/typetrack/internal/model"
	"github.com/verte-zerg/typetrack/internal/stats"
	"github.com/verte-zerg/typetrack/internal/statsui"
	"github.com/verte-zerg/typetrack/internal/store"
	"github.com/verte-zerg/typetrack/internal/textsource"
	"github.com/verte-zerg/typetrack/internal/tui"
)

const (
	defaultLang        = "en"
	defaultWords       = 25
	defaultCaps        = 0.5
	defaultPunct       = 0.5
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 5
	defaultStatsTop    = 10
)

const defaultPunctSet = ".,!?;:\"'{}()[]-=/<>`"

var (
	practiceLang       string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceTextFile   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int

	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int
	statsChars       string
)

var log = logging.New("cli")

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetrack",
		Short:         "TUI typing exercises",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code (default: en)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per text")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().StringVar(&practiceTextFile, "text-file", "", "practice paragraphs of a text file instead of random words")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent exercises to compute weak chars")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyConfig(cmd, "text-file", &practiceTextFile, fileCfg.Practice.TextFile)
	applyConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		Lang:       practiceLang,
		Words:      practiceWords,
		CapsPct:    practiceCaps,
		PunctPct:   practicePunct,
		PunctSet:   practicePunctSet,
		TextFile:   practiceTextFile,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	closeLog, err := setupFileLogging(fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("failed to close db", "error", cerr)
		}
	}()

	source, words, err := buildSource(cfg)
	if err != nil {
		return err
	}
	if words != nil && cfg.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), cfg.WeakWindow, cfg.Lang)
		if err != nil {
			log.Warn("failed to load weak chars", "error", err)
		} else {
			weakSet := stats.SelectWeakChars(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				log.Info("no stats available for weak-char focus yet; using uniform words")
			}
			words.SetWeak(weakSet, cfg.WeakFactor)
		}
	}

	m, err := tui.NewModel(cfg, st, source, words)
	if err != nil {
		return fmt.Errorf("failed to start exercise: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// buildSource returns the text source for cfg. words is non-nil when the
// source draws from a word list.
func buildSource(cfg model.Config) (textsource.Source, *textsource.Words, error) {
	if cfg.TextFile != "" {
		paras, err := textsource.LoadParagraphs(cfg.TextFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load text file: %w", err)
		}
		log.Debug("loaded text file", "path", cfg.TextFile, "paragraphs", paras.Len())
		return paras, nil, nil
	}
	wordPath := config.DefaultWordListPath(cfg.Lang)
	list, err := loadWordList(cfg.Lang, wordPath)
	if err != nil {
		return nil, nil, wordListLoadError(cfg.Lang, wordPath, err)
	}
	words, err := textsource.NewWords(list, textsource.WordsOptions{
		Name:     cfg.Lang,
		Count:    cfg.Words,
		CapsPct:  cfg.CapsPct,
		PunctPct: cfg.PunctPct,
		PunctSet: []rune(cfg.PunctSet),
	})
	if err != nil {
		return nil, nil, err
	}
	return words, words, nil
}

// setupFileLogging points the shared logger at a file so log lines do not
// draw over the alternate screen.
func setupFileLogging(cfg config.LogConfig) (func(), error) {
	path := config.DefaultLogPath()
	if cfg.File != nil && *cfg.File != "" {
		path = *cfg.File
	}
	level := ""
	if cfg.Level != nil {
		level = *cfg.Level
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logging.Setup(f, level)
	log = logging.New("cli")
	return func() {
		logging.Setup(os.Stderr, level)
		_ = f.Close()
	}, nil
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
		log.Info("created config", "path", path)
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// loadWordList reads the installed list for lang, falling back to the list
// bundled with the binary when none is installed.
func loadWordList(lang, path string) ([]string, error) {
	filter := textsource.FilterForLang(lang)
	list, err := textsource.LoadWords(path, filter)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return list, err
	}
	builtin, ok, berr := textsource.BuiltinWords(lang, filter)
	if !ok {
		return nil, err
	}
	if berr != nil {
		return nil, berr
	}
	log.Info("using bundled word list", "lang", lang, "missing", path)
	return builtin, nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List installed and bundled wordlist languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := listLangs(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func listLangs(dir string) ([]string, error) {
	seen := make(map[string]bool)
	for _, lang := range textsource.BuiltinLangs() {
		seen[lang] = true
	}
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		seen[strings.TrimSuffix(name, ".txt")] = true
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("no wordlists found in %s", dir)
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show exercise history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N exercises")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultStatsTop, "number of weakest characters to list")
	cmd.Flags().StringVar(&statsChars, "char", "", "characters for per-char curves in the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	cfg := model.StatsConfig{
		Lang:        statsLang,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		WeakTop:     statsTop,
		Chars:       statsChars,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Warn("failed to close db", "error", cerr)
		}
	}()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return writeReport(cmd.OutOrStdout(), report, cfg, terminalWidth())
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	closeLog, err := setupFileLogging(fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

// writeReport prints the plain stats report used when stdout is not a
// terminal.
func writeReport(w io.Writer, report stats.Report, cfg model.StatsConfig, width int) error {
	if err := stats.RenderSummary(w, report.Results); err != nil {
		return err
	}
	if err := stats.RenderCurve(w, report.Results, cfg.CurveWindow, width); err != nil {
		return err
	}
	if len(report.Results) == 0 {
		return nil
	}
	return stats.RenderCharTable(w, report.CharAggsWindow, cfg.WeakTop)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = "en"             # Language code (default %q)
# words = %d              # Words per text
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q          # Punctuation set
# text-file = ""          # Practice paragraphs of this file instead of words
# focus-weak = false      # Bias practice toward weak characters
# weak-top = %d           # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# weak-window = %d        # Number of recent exercises to compute weak chars

[log]
# level = "info"          # debug, info, warn or error
# file = ""               # Log file (default %q)
`,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		fmt.Sprintf("Place a newline-separated word list for %q at that path", lang),
		"Run: typetrack langs to list installed and bundled languages",
		"Or practice a text file: typetrack --text-file <path>",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}
