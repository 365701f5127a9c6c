// Package main provides the CLI entrypoint for codetype.
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
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/lesson"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
	"github.com/verte-zerg/codetype/internal/statsui"
	"github.com/verte-zerg/codetype/internal/store"
	"github.com/verte-zerg/codetype/internal/tui"
)

const (
	defaultMode        = "strict"
	defaultFlashMs     = 200
	defaultCurveWindow = 20
	defaultTopErrors   = 10
	defaultPlotWidth   = 60
)

var (
	practiceLesson     string
	practiceFile       string
	practiceMode       string
	practiceExclude    []string
	practiceLang       string
	practiceFlashMs    int
	practiceLessonsDir string
	practiceShowHidden bool

	lessonsLang  string
	lessonsLangs bool

	compileFile    string
	compileExclude []string

	statsLesson      string
	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTopErrors   int
	statsPlain       bool

	configShow bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "codetype",
		Short:         "Typing trainer for code snippets",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLesson, "lesson", "", "lesson id (default: first lesson)")
	rootCmd.Flags().StringVar(&practiceFile, "file", "", "practice a source file instead of a lesson")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "correction mode: strict or practice")
	rootCmd.Flags().StringSliceVar(&practiceExclude, "exclude", nil, "words to hide when practicing --file")
	rootCmd.Flags().StringVar(&practiceLang, "lang", "", "lesson language filter")
	rootCmd.Flags().IntVar(&practiceFlashMs, "flash-ms", defaultFlashMs, "how long a strict mismatch stays red (ms)")
	rootCmd.Flags().StringVar(&practiceLessonsDir, "lessons-dir", "", "lessons directory (default: XDG data dir)")
	rootCmd.Flags().BoolVar(&practiceShowHidden, "show-hidden", false, "reveal hidden characters while typing")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func loadFileConfig() (config.FileConfig, config.EnvConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, config.EnvConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return config.FileConfig{}, config.EnvConfig{}, err
	}
	return envCfg.Apply(fileCfg), envCfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, envCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyIntConfig(cmd, "flash-ms", &practiceFlashMs, fileCfg.Practice.FlashMs)
	applyStringConfig(cmd, "lessons-dir", &practiceLessonsDir, fileCfg.Practice.LessonsDir)
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyBoolConfig(cmd, "show-hidden", &practiceShowHidden, fileCfg.Practice.ShowHidden)

	cfg := model.Config{
		Mode:       practiceMode,
		ForceMode:  cmd.Flags().Changed("mode"),
		FlashMs:    practiceFlashMs,
		LessonsDir: practiceLessonsDir,
		Lang:       practiceLang,
		ShowHidden: practiceShowHidden,
	}
	if err := validateConfig(&cfg); err != nil {
		return err
	}

	catalog, start, err := resolvePracticeLesson(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(resolveDBPath(envCfg))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m := tui.NewModel(cfg, st, catalog, start)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePracticeLesson picks the starting lesson. A --file lesson runs without a catalog.
func resolvePracticeLesson(cfg model.Config) (*lesson.Catalog, *lesson.Lesson, error) {
	if practiceFile != "" {
		l, err := lesson.FromSourceFile(practiceFile, lesson.Mode(cfg.Mode), practiceExclude)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load %s: %w", practiceFile, err)
		}
		return nil, l, nil
	}
	catalog, err := loadCatalog(cfg.LessonsDir)
	if err != nil {
		return nil, nil, err
	}
	l, err := pickLesson(catalog, practiceLesson, cfg.Lang)
	if err != nil {
		return nil, nil, err
	}
	return catalog, l, nil
}

func pickLesson(catalog *lesson.Catalog, id, lang string) (*lesson.Lesson, error) {
	if id != "" {
		l, err := catalog.Get(id)
		if err != nil {
			return nil, fmt.Errorf("%w (run: codetype lessons)", err)
		}
		return l, nil
	}
	l, err := catalog.First(lang)
	if errors.Is(err, lesson.ErrEmptyCatalog) && lang != "" {
		return nil, fmt.Errorf("no lessons for language %q (run: codetype lessons --langs)", lang)
	}
	return l, err
}

// loadCatalog reads the lessons directory, falling back to the built-in lessons when the
// directory does not exist.
func loadCatalog(dir string) (*lesson.Catalog, error) {
	explicit := dir != ""
	if !explicit {
		dir = config.DefaultLessonsDir()
	}
	catalog, err := lesson.LoadCatalog(dir)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			logErrln("lessons directory not found, using built-in lessons:", dir)
		}
		catalog, err = lesson.Builtin()
	}
	if err != nil {
		return nil, err
	}
	if catalog.Count() == 0 {
		return nil, fmt.Errorf("%w in %s", lesson.ErrEmptyCatalog, dir)
	}
	return catalog, nil
}

func resolveDBPath(envCfg config.EnvConfig) string {
	if envCfg.DBPath != nil && *envCfg.DBPath != "" {
		return *envCfg.DBPath
	}
	return config.DefaultDBPath()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configShow, "show", false, "print the effective config instead of opening an editor")
	return cmd
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	if configShow {
		fileCfg, _, err := loadFileConfig()
		if err != nil {
			return err
		}
		return config.Encode(cmd.OutOrStdout(), fileCfg)
	}

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
	editCmd := exec.Command(parts[0], append(parts[1:], path)...)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	if err := editCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLessonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List available lessons",
		Args:  cobra.NoArgs,
		RunE:  runLessonsCmd,
	}
	cmd.Flags().StringVar(&lessonsLang, "lang", "", "language filter")
	cmd.Flags().BoolVar(&lessonsLangs, "langs", false, "list languages instead of lessons")
	cmd.Flags().StringVar(&practiceLessonsDir, "lessons-dir", "", "lessons directory (default: XDG data dir)")
	return cmd
}

func runLessonsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, _, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "lessons-dir", &practiceLessonsDir, fileCfg.Practice.LessonsDir)
	catalog, err := loadCatalog(practiceLessonsDir)
	if err != nil {
		return err
	}
	if lessonsLangs {
		return writeLanguages(cmd.OutOrStdout(), catalog.Languages())
	}
	list := catalog.All()
	if lessonsLang != "" {
		list = catalog.ByLanguage(lessonsLang)
	}
	return writeLessons(cmd.OutOrStdout(), list)
}

func writeLanguages(w io.Writer, langs []lesson.LanguageInfo) error {
	for _, lang := range langs {
		if _, err := fmt.Fprintf(w, "%-12s %d\n", lang.ID, lang.LessonCount); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func writeLessons(w io.Writer, list []*lesson.Lesson) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No lessons found.")
		return err
	}
	for _, l := range list {
		mode := string(l.Mode)
		if mode == "" {
			mode = "-"
		}
		if _, err := fmt.Fprintf(w, "%-24s %-12s %-9s %s\n", l.ID, l.Language, mode, l.DisplayTitle()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [lesson-id]",
		Short: "Show the compiled text of a lesson",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompileCmd,
	}
	cmd.Flags().StringVar(&compileFile, "file", "", "compile a source file instead of a lesson")
	cmd.Flags().StringSliceVar(&compileExclude, "exclude", nil, "words to hide when compiling --file")
	cmd.Flags().StringVar(&practiceLessonsDir, "lessons-dir", "", "lessons directory (default: XDG data dir)")
	return cmd
}

func runCompileCmd(cmd *cobra.Command, args []string) error {
	var l *lesson.Lesson
	switch {
	case compileFile != "":
		src, err := lesson.FromSourceFile(compileFile, "", compileExclude)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", compileFile, err)
		}
		l = src
	case len(args) == 1:
		fileCfg, _, err := loadFileConfig()
		if err != nil {
			return err
		}
		applyStringConfig(cmd, "lessons-dir", &practiceLessonsDir, fileCfg.Practice.LessonsDir)
		catalog, err := loadCatalog(practiceLessonsDir)
		if err != nil {
			return err
		}
		if l, err = catalog.Get(args[0]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("expected a lesson id or --file")
	}
	return writeCompiled(cmd.OutOrStdout(), l.Compile())
}

// writeCompiled prints the typed text with hidden characters masked, then the counts.
func writeCompiled(w io.Writer, targets []lesson.Target) error {
	var b strings.Builder
	for _, t := range targets {
		if t.Hidden && t.Char != '\n' {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(t.Char)
	}
	if _, err := fmt.Fprintln(w, b.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(w, "\n%d characters, %d hidden\n", len(targets), lesson.CountHidden(targets)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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
	cmd.Flags().StringVar(&statsLesson, "lesson", "", "lesson id filter")
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTopErrors, "top-errors", defaultTopErrors, "number of error pairs to show")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print plain text instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, envCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, fileCfg.Stats.CurveWindow)
	applyIntConfig(cmd, "last", &statsLast, fileCfg.Stats.Last)
	applyIntConfig(cmd, "top-errors", &statsTopErrors, fileCfg.Stats.TopErrors)

	sinceTime, err := resolveSince(statsSince)
	if err != nil {
		return err
	}
	cfg := model.StatsConfig{
		LessonID:    statsLesson,
		Lang:        statsLang,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		TopErrors:   statsTopErrors,
	}
	if err := validateStatsConfig(cfg); err != nil {
		return err
	}

	st, err := store.Open(resolveDBPath(envCfg))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	stdoutFd := int(os.Stdout.Fd())
	if statsPlain || !term.IsTerminal(stdoutFd) {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return writePlainStats(cmd.OutOrStdout(), report, cfg, plotWidth(stdoutFd))
	}

	load := func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(load, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func plotWidth(fd int) int {
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 20 {
		return defaultPlotWidth
	}
	return min(width-20, 120)
}

func writePlainStats(w io.Writer, report stats.Report, cfg model.StatsConfig, width int) error {
	if err := stats.RenderSummary(w, report.Summary); err != nil {
		return err
	}
	if len(report.Attempts) == 0 {
		return nil
	}
	sections := []func() error{
		func() error { return stats.RenderCurves(w, report.Attempts, cfg.CurveWindow, width) },
		func() error { return stats.RenderErrors(w, report.Errors) },
		func() error { return stats.RenderLessons(w, report.Lessons) },
	}
	for _, render := range sections {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := render(); err != nil {
			return err
		}
	}
	if len(report.WeakChars) > 0 {
		labels := make([]string, len(report.WeakChars))
		for i, c := range report.WeakChars {
			labels[i] = stats.CharLabel(c)
		}
		if _, err := fmt.Fprintf(w, "\nWeakest keys: %s\n", strings.Join(labels, " ")); err != nil {
			return err
		}
	}
	return nil
}

func resolveSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
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
	return fmt.Sprintf(`# codetype configuration
# Uncomment a value to enable it. CLI flags override config values,
# and CODETYPE_* environment variables override this file.

[practice]
# mode = %q          # strict or practice; lessons may declare their own
# flash-ms = %d           # How long a strict mismatch stays red (ms)
# lessons-dir = "%s"
# lang = "go"               # Only practice lessons of this language
# show-hidden = false       # Reveal hidden characters while typing

[stats]
# curve-window = %d         # Moving average window
# last = 0                  # Limit to last N sessions (0 = all)
# top-errors = %d           # Number of error pairs to show
`,
		defaultMode,
		defaultFlashMs,
		config.DefaultLessonsDir(),
		defaultCurveWindow,
		defaultTopErrors,
	)
}

// validateConfig checks practice settings and normalizes the mode name.
func validateConfig(cfg *model.Config) error {
	mode, err := lesson.ParseMode(cfg.Mode)
	if err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	cfg.Mode = string(mode)
	if cfg.FlashMs < 0 {
		return fmt.Errorf("--flash-ms must be >= 0")
	}
	return nil
}

func validateStatsConfig(cfg model.StatsConfig) error {
	if cfg.Last < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if cfg.CurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}
	if cfg.TopErrors < 0 {
		return fmt.Errorf("--top-errors must be >= 0")
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
