// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/engine"
	"github.com/verte-zerg/codetype/internal/lesson"
	"github.com/verte-zerg/codetype/internal/model"
	statsPkg "github.com/verte-zerg/codetype/internal/stats"
)

const liveInterval = 500 * time.Millisecond

// Recorder persists finished attempts and provides history for the footer.
type Recorder interface {
	InsertAttempt(ctx context.Context, rec model.AttemptRecord, errs []model.ErrorRecord) (string, error)
	ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error)
}

type liveTickMsg struct{}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	recorder Recorder
	catalog  *lesson.Catalog
	lesson   *lesson.Lesson
	session  *engine.Session
	sched    *teaScheduler
	strategy statsPkg.PointStrategy
	now      func() time.Time

	width  int
	height int

	snap    engine.Snapshot
	result  *statsPkg.Result
	ticking bool

	lastWPM float64
	lastAcc float64
	hasLast bool

	allCorrect    int
	allMismatches int
	allDuration   int64
	allPoints     int
	allWPM        float64
	allAcc        float64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	hiddenStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs a typing TUI model for the lesson. The catalog may be nil, in which
// case moving to the next lesson repeats the current one.
func NewModel(cfg model.Config, recorder Recorder, catalog *lesson.Catalog, start *lesson.Lesson) *Model {
	sched := &teaScheduler{}
	opts := []engine.Option{engine.WithScheduler(sched)}
	if cfg.FlashMs > 0 {
		opts = append(opts, engine.WithFlashDelay(time.Duration(cfg.FlashMs)*time.Millisecond))
	}
	m := &Model{
		config:   cfg,
		recorder: recorder,
		catalog:  catalog,
		sched:    sched,
		strategy: statsPkg.NewDefaultStrategy(),
		now:      time.Now,
	}
	m.session = engine.NewSession(append(opts, engine.WithClock(func() time.Time { return m.now() }))...)
	m.loadFooterStats()
	m.startLesson(start)
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
		return m, nil
	case flashMsg:
		msg.run()
		m.snap = m.session.Snapshot()
		return m, nil
	case liveTickMsg:
		if m.snap.Started() && !m.snap.Finished() {
			return m, liveTick()
		}
		m.ticking = false
		return m, nil
	case tea.KeyMsg:
		if m.result != nil {
			return m.handleResultsKey(resultsKey(msg))
		}
		return m.handleTypingKey(typingKey(msg))
	default:
		return m, nil
	}
}

func liveTick() tea.Cmd {
	return tea.Tick(liveInterval, func(time.Time) tea.Msg { return liveTickMsg{} })
}

func (m *Model) handleTypingKey(in keyInput) (tea.Model, tea.Cmd) {
	switch in.action {
	case actionQuit:
		return m, tea.Quit
	case actionRetry:
		m.apply(m.session.Retry())
		return m, m.sched.drain()
	case actionBackspace:
		m.apply(m.session.SubmitBackspace())
		return m, m.sched.drain()
	case actionType:
		for _, r := range in.runes {
			if m.result != nil {
				break
			}
			m.apply(m.session.SubmitCharacter(r))
		}
		cmds := []tea.Cmd{m.sched.drain()}
		if m.snap.Started() && !m.snap.Finished() && !m.ticking {
			m.ticking = true
			cmds = append(cmds, liveTick())
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *Model) handleResultsKey(in keyInput) (tea.Model, tea.Cmd) {
	switch in.action {
	case actionQuit:
		return m, tea.Quit
	case actionRetry:
		m.result = nil
		m.apply(m.session.Retry())
	case actionNext:
		m.startLesson(m.nextLesson())
	}
	return m, m.sched.drain()
}

func (m *Model) nextLesson() *lesson.Lesson {
	if m.catalog == nil {
		return m.lesson
	}
	next, err := m.catalog.Next(m.lesson.ID)
	if err != nil {
		logErrf("failed to load next lesson: %v\n", err)
		return m.lesson
	}
	return next
}

func (m *Model) mode(l *lesson.Lesson) lesson.Mode {
	fallback := lesson.Mode(m.config.Mode)
	if fallback == "" {
		fallback = lesson.ModeStrict
	}
	if m.config.ForceMode {
		return fallback
	}
	return l.EffectiveMode(fallback)
}

func (m *Model) startLesson(l *lesson.Lesson) {
	m.lesson = l
	m.result = nil
	m.apply(m.session.Init(l.Compile(), m.mode(l)))
}

// apply stores the snapshot and records the attempt on the finished edge.
func (m *Model) apply(snap engine.Snapshot) {
	m.snap = snap
	if !snap.Signals.Has(engine.SignalFinished) {
		return
	}
	res := statsPkg.NewResult(m.lesson, snap.State, m.now(), m.strategy)
	m.result = &res
	if snap.Started() {
		m.record(res)
	}
}

func (m *Model) record(res statsPkg.Result) {
	rec := res.Record()
	if m.recorder != nil {
		if _, err := m.recorder.InsertAttempt(context.Background(), rec, res.CommonErrors); err != nil {
			logErrf("failed to save attempt: %v\n", err)
		}
	}
	m.lastWPM = rec.WPM
	m.lastAcc = rec.Accuracy
	m.hasLast = true
	m.allCorrect += rec.CorrectChars
	m.allMismatches += rec.Mismatches
	m.allDuration += rec.DurationMs
	m.allPoints += rec.Points
	m.recomputeAllTime()
}

func (m *Model) loadFooterStats() {
	if m.recorder == nil {
		return
	}
	attempts, err := m.recorder.ListAttempts(context.Background(), model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		logErrf("failed to load attempt stats: %v\n", err)
		return
	}
	if len(attempts) == 0 {
		return
	}
	last := attempts[len(attempts)-1]
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
	for _, a := range attempts {
		m.allCorrect += a.CorrectChars
		m.allMismatches += a.Mismatches
		m.allDuration += a.DurationMs
		m.allPoints += a.Points
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	wpm, _, acc := statsPkg.SessionMetrics(m.allCorrect, m.allMismatches, m.allDuration)
	m.allWPM = wpm
	m.allAcc = acc
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.result != nil {
		return m.place(m.renderResults(), "")
	}
	if m.snap.Len() == 0 {
		return ""
	}
	cursorIndex := -1
	if !m.snap.Finished() {
		cursorIndex = m.snap.Cursor()
	}
	styled := buildStyledRunes(m.snap.Targets(), cursorIndex, m.config.ShowHidden)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styled)
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth))
	header := titleStyle.Render(m.lesson.DisplayTitle())
	if m.lesson.Description != "" {
		header += "\n" + footerStyle.Render(m.lesson.Description)
	}
	return m.place(header+"\n\n"+content, m.renderFooter())
}

func (m *Model) place(content, footer string) string {
	if m.width == 0 || m.height == 0 {
		if footer == "" {
			return content
		}
		return content + "\n" + footer
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	total := m.snap.Len()
	if total == 0 {
		return ""
	}
	progress := int(float64(m.snap.Cursor()) / float64(total) * 100)
	segments := []string{
		fmt.Sprintf("Progress %d%%", progress),
		fmt.Sprintf("%.1f WPM", m.session.LiveWPM()),
		fmt.Sprintf("%.1f%%", engine.Accuracy(m.snap.CorrectCount(), m.snap.Mismatches())),
		string(m.snap.Mode()),
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
