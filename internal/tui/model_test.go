package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/codetype/internal/lesson"
	"github.com/verte-zerg/codetype/internal/model"
)

type fakeRecorder struct {
	history  []model.AttemptAggregate
	inserted []model.AttemptRecord
	errs     [][]model.ErrorRecord
}

func (f *fakeRecorder) InsertAttempt(_ context.Context, rec model.AttemptRecord, errs []model.ErrorRecord) (string, error) {
	f.inserted = append(f.inserted, rec)
	f.errs = append(f.errs, errs)
	return "id", nil
}

func (f *fakeRecorder) ListAttempts(context.Context, model.StatsConfig) ([]model.AttemptAggregate, error) {
	return f.history, nil
}

type testClock struct {
	now time.Time
}

func newTestModel(t *testing.T, cfg model.Config, catalog *lesson.Catalog, l *lesson.Lesson) (*Model, *fakeRecorder, *testClock) {
	t.Helper()
	rec := &fakeRecorder{}
	m := NewModel(cfg, rec, catalog, l)
	clock := &testClock{now: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)}
	m.now = func() time.Time { return clock.now }
	return m, rec, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// collect runs cmd and any batched commands, returning every message produced.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestTypingFinishesAndRecords(t *testing.T) {
	l := &lesson.Lesson{ID: "go-1", Title: "Intro", Language: "go", Code: "ab"}
	m, rec, clock := newTestModel(t, model.Config{Mode: "strict"}, nil, l)

	press(m, runes("a"))
	clock.now = clock.now.Add(6 * time.Second)
	press(m, runes("x"), runes("b"))

	require.NotNil(t, m.result)
	require.Len(t, rec.inserted, 1)
	got := rec.inserted[0]
	assert.Equal(t, "go-1", got.LessonID)
	assert.Equal(t, "strict", got.Mode)
	assert.Equal(t, int64(6000), got.DurationMs)
	assert.Equal(t, 4.0, got.WPM)
	assert.Equal(t, 66.7, got.Accuracy)
	assert.Equal(t, []model.ErrorRecord{{Expected: "b", Typed: "x", Count: 1}}, rec.errs[0])
	assert.True(t, m.hasLast)
	assert.Equal(t, 4.0, m.lastWPM)

	view := m.View()
	assert.Contains(t, view, "Intro complete")
	assert.Contains(t, view, "b -> x  x1")

	// Input on the results screen does not reach the finished attempt.
	press(m, runes("a"))
	assert.Len(t, rec.inserted, 1)
}

func TestEnterAndTabAreTyped(t *testing.T) {
	l := &lesson.Lesson{ID: "go-2", Language: "go", Code: "{\n\tx\n}"}
	m, rec, _ := newTestModel(t, model.Config{Mode: "practice"}, nil, l)

	press(m,
		runes("{"),
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyTab},
		runes("x"),
		tea.KeyMsg{Type: tea.KeyEnter},
		runes("}"),
	)
	require.NotNil(t, m.result)
	require.Len(t, rec.inserted, 1)
	assert.Equal(t, 0, rec.inserted[0].Mismatches)
	assert.Equal(t, 6, rec.inserted[0].CorrectChars)
}

func TestStrictFlashRevertsThroughCmd(t *testing.T) {
	l := &lesson.Lesson{ID: "go-3", Language: "go", Code: "ab"}
	m, _, _ := newTestModel(t, model.Config{Mode: "strict", FlashMs: 1}, nil, l)

	press(m, runes("a"))
	cmd := press(m, runes("x"))
	assert.Equal(t, lesson.StatusIncorrect, m.snap.Target(1).Status)

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	flash, ok := msgs[0].(flashMsg)
	require.True(t, ok, "expected a flash message, got %T", msgs[0])

	press(m, flash)
	assert.Equal(t, lesson.StatusPending, m.snap.Target(1).Status)
	assert.Equal(t, 1, m.snap.Cursor())
}

func TestRetryCancelsPendingFlash(t *testing.T) {
	l := &lesson.Lesson{ID: "go-4", Language: "go", Code: "ab"}
	m, _, _ := newTestModel(t, model.Config{Mode: "strict", FlashMs: 1}, nil, l)

	cmd := press(m, runes("x"))
	var flash flashMsg
	for _, msg := range collect(cmd) {
		if f, ok := msg.(flashMsg); ok {
			flash = f
		}
	}
	require.NotNil(t, flash.task)

	press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.True(t, flash.task.cancelled)
	assert.False(t, m.snap.Started())
	assert.Equal(t, 0, m.snap.Mismatches())
}

func TestResultsRetryAndNext(t *testing.T) {
	first := &lesson.Lesson{ID: "go-a", Language: "go", Code: "a", Order: 1}
	second := &lesson.Lesson{ID: "go-b", Language: "go", Code: "b", Order: 2}
	catalog := lesson.NewCatalog(first, second)
	m, rec, _ := newTestModel(t, model.Config{}, catalog, first)

	press(m, runes("a"))
	require.NotNil(t, m.result)

	press(m, runes("r"))
	assert.Nil(t, m.result)
	assert.Equal(t, "go-a", m.lesson.ID)
	assert.Equal(t, 0, m.snap.Cursor())

	press(m, runes("a"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, m.result)
	assert.Equal(t, "go-b", m.lesson.ID)
	assert.Len(t, rec.inserted, 2)
}

func TestPasteIsIgnored(t *testing.T) {
	l := &lesson.Lesson{ID: "go-5", Language: "go", Code: "ab"}
	m, _, _ := newTestModel(t, model.Config{}, nil, l)
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab"), Paste: true})
	assert.Equal(t, 0, m.snap.Cursor())
	assert.Nil(t, m.result)
}

func TestQuitKeys(t *testing.T) {
	l := &lesson.Lesson{ID: "go-6", Language: "go", Code: "ab"}
	m, _, _ := newTestModel(t, model.Config{}, nil, l)
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModeSelection(t *testing.T) {
	l := &lesson.Lesson{ID: "go-7", Language: "go", Code: "ab", Mode: lesson.ModePractice}

	m, _, _ := newTestModel(t, model.Config{Mode: "strict"}, nil, l)
	assert.Equal(t, lesson.ModePractice, m.snap.Mode())

	forced, _, _ := newTestModel(t, model.Config{Mode: "strict", ForceMode: true}, nil, l)
	assert.Equal(t, lesson.ModeStrict, forced.snap.Mode())

	plain := &lesson.Lesson{ID: "go-8", Language: "go", Code: "ab"}
	def, _, _ := newTestModel(t, model.Config{}, nil, plain)
	assert.Equal(t, lesson.ModeStrict, def.snap.Mode())
}

func TestEmptyLessonIsNotRecorded(t *testing.T) {
	l := &lesson.Lesson{ID: "empty", Language: "go", Code: ""}
	m, rec, _ := newTestModel(t, model.Config{}, nil, l)
	require.NotNil(t, m.result)
	assert.Empty(t, rec.inserted)
}

func TestRenderFooterFormats(t *testing.T) {
	rec := &fakeRecorder{history: []model.AttemptAggregate{
		{CorrectChars: 100, DurationMs: 60000, WPM: 30, Accuracy: 90},
		{CorrectChars: 200, DurationMs: 60000, WPM: 72.4, Accuracy: 97.8},
	}}
	l := &lesson.Lesson{ID: "go-9", Language: "go", Code: "abcd"}
	m := NewModel(model.Config{Mode: "practice"}, rec, nil, l)
	press(m, runes("a"), runes("x"))

	out := m.renderFooter()
	for _, needle := range []string{"Progress 50%", "50.0%", "practice", "Last 72.4 WPM", "97.8%", "All-time 30.0 WPM", "100.0%"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("footer missing %q: %s", needle, out)
		}
	}
}
