package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/codetype/internal/lesson"
)

const (
	hiddenGlyph  = "_"
	newlineGlyph = "↵"
	tabGlyph     = "→"
	tabWidth     = 4
	wrongSpace   = "•"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	isBreak bool
}

// glyph returns the text shown for a target.
func glyph(t lesson.Target, showHidden bool) string {
	if t.Hidden && t.Status == lesson.StatusPending && !showHidden {
		return hiddenGlyph
	}
	switch t.Char {
	case '\n':
		return newlineGlyph
	case '\t':
		return tabGlyph + strings.Repeat(" ", tabWidth-1)
	case ' ':
		if t.Status == lesson.StatusIncorrect {
			return wrongSpace
		}
	}
	return string(t.Char)
}

func isSeparator(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}

func buildStyledRunes(targets []lesson.Target, cursorIndex int, showHidden bool) []styledRune {
	words := findWords(targets)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targets))
	for i, t := range targets {
		var style lipgloss.Style
		switch t.Status {
		case lesson.StatusCorrect:
			style = correctStyle
		case lesson.StatusIncorrect:
			style = incorrectStyle
		default:
			switch {
			case t.Hidden:
				style = hiddenStyle
			case currentWord != nil && i >= currentWord.start && i < currentWord.end:
				style = currentWordStyle
			default:
				style = pendingStyle
			}
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		text := glyph(t, showHidden)
		out = append(out, styledRune{
			s:       style.Render(text),
			width:   runewidth.StringWidth(text),
			isSpace: isSeparator(t.Char),
			isBreak: t.Char == '\n',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targets []lesson.Target) []wordRange {
	var words []wordRange
	start := -1
	for i, t := range targets {
		if isSeparator(t.Char) {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targets)})
	}
	return words
}

// wordForCursor returns the word under the cursor, or the next one when the cursor sits on
// a separator.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines after every newline target and soft-wraps at separators so
// no line is wider than width.
func wrapStyledRunes(runes []styledRune, width int) string {
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	flush := func(items []styledRune) {
		out.WriteString(renderStyledRunes(items))
		out.WriteRune('\n')
	}

	for i := 0; i < len(runes); {
		item := runes[i]
		if width > 0 && lineWidth+item.width > width && len(line) > 0 && !item.isBreak {
			if lastSpaceIdx >= 0 {
				flush(line[:lastSpaceIdx+1])
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				flush(line)
				line = line[:0]
			}
			lineWidth = lineWidthOf(line)
			lastSpaceIdx = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
		if item.isBreak {
			flush(line)
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
		}
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
