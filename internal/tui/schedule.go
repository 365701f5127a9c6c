package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type flashTask struct {
	fn        func()
	cancelled bool
}

type flashMsg struct {
	task *flashTask
}

// teaScheduler turns engine timers into tea.Tick commands so reverts run inside Update on
// the UI goroutine.
type teaScheduler struct {
	queued []tea.Cmd
}

func (s *teaScheduler) Schedule(d time.Duration, fn func()) func() {
	task := &flashTask{fn: fn}
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return flashMsg{task: task}
	}))
	return func() { task.cancelled = true }
}

func (s *teaScheduler) drain() tea.Cmd {
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

func (m flashMsg) run() {
	if m.task == nil || m.task.cancelled {
		return
	}
	m.task.fn()
}
