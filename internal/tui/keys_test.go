package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestTypingKey(t *testing.T) {
	cases := []struct {
		name   string
		msg    tea.KeyMsg
		action action
		runes  []rune
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, actionType, []rune{'\n'}},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, actionType, []rune{'\t'}},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, actionType, []rune{' '}},
		{"runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("{}")}, actionType, []rune("{}")},
		{"paste", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x := 1"), Paste: true}, actionNone, nil},
		{"alt", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true}, actionNone, nil},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, actionBackspace, nil},
		{"delete", tea.KeyMsg{Type: tea.KeyDelete}, actionBackspace, nil},
		{"retry", tea.KeyMsg{Type: tea.KeyCtrlR}, actionRetry, nil},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, actionQuit, nil},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, actionQuit, nil},
		{"arrow", tea.KeyMsg{Type: tea.KeyLeft}, actionNone, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := typingKey(tc.msg)
			assert.Equal(t, tc.action, got.action)
			assert.Equal(t, tc.runes, got.runes)
		})
	}
}

func TestResultsKey(t *testing.T) {
	assert.Equal(t, actionRetry, resultsKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}).action)
	assert.Equal(t, actionNext, resultsKey(tea.KeyMsg{Type: tea.KeyEnter}).action)
	assert.Equal(t, actionQuit, resultsKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}).action)
	assert.Equal(t, actionNone, resultsKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}).action)
}
