package tui

import tea "github.com/charmbracelet/bubbletea"

type action int

const (
	actionNone action = iota
	actionType
	actionBackspace
	actionRetry
	actionNext
	actionQuit
)

type keyInput struct {
	action action
	runes  []rune
}

// typingKey translates a key press during an attempt. Enter and Tab submit the newline
// and tab characters. Pasted text is ignored.
func typingKey(msg tea.KeyMsg) keyInput {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return keyInput{action: actionQuit}
	case tea.KeyCtrlR:
		return keyInput{action: actionRetry}
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlH:
		return keyInput{action: actionBackspace}
	case tea.KeyEnter:
		return keyInput{action: actionType, runes: []rune{'\n'}}
	case tea.KeyTab:
		return keyInput{action: actionType, runes: []rune{'\t'}}
	case tea.KeySpace:
		return keyInput{action: actionType, runes: []rune{' '}}
	case tea.KeyRunes:
		if msg.Paste || msg.Alt || len(msg.Runes) == 0 {
			return keyInput{}
		}
		return keyInput{action: actionType, runes: msg.Runes}
	}
	return keyInput{}
}

// resultsKey translates a key press on the results screen.
func resultsKey(msg tea.KeyMsg) keyInput {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return keyInput{action: actionQuit}
	case tea.KeyEnter:
		return keyInput{action: actionNext}
	case tea.KeyCtrlR:
		return keyInput{action: actionRetry}
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return keyInput{action: actionQuit}
		case "r":
			return keyInput{action: actionRetry}
		case "n":
			return keyInput{action: actionNext}
		}
	}
	return keyInput{}
}
