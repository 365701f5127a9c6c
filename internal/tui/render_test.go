package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/codetype/internal/lesson"
)

func plainRunes(s string) []styledRune {
	out := make([]styledRune, 0, len(s))
	for _, r := range s {
		item := styledRune{s: string(r), width: 1, isSpace: r == ' '}
		if r == '\n' {
			item = styledRune{s: newlineGlyph, width: 1, isSpace: true, isBreak: true}
		}
		out = append(out, item)
	}
	return out
}

func TestBuildStyledRunesCursor(t *testing.T) {
	targets := []lesson.Target{
		{Char: 'a', Status: lesson.StatusCorrect},
		{Char: 'b'},
	}
	runes := buildStyledRunes(targets, 1, false)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	targets := []lesson.Target{
		{Char: 'a', Status: lesson.StatusCorrect},
		{Char: 'b', Status: lesson.StatusIncorrect},
	}
	runes := buildStyledRunes(targets, -1, false)
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	targets := lesson.Compile("one two", nil)
	targets[0].Status = lesson.StatusCorrect
	runes := buildStyledRunes(targets, 1, false)
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesHiddenTargets(t *testing.T) {
	targets := lesson.Compile("x [[ab]]", nil)
	targets[2].Status = lesson.StatusCorrect

	runes := buildStyledRunes(targets, 3, false)
	if !strings.Contains(runes[2].s, "a") {
		t.Fatalf("typed hidden target should be revealed, got %q", runes[2].s)
	}
	if !strings.Contains(runes[3].s, hiddenGlyph) || strings.Contains(runes[3].s, "b") {
		t.Fatalf("pending hidden target should be masked, got %q", runes[3].s)
	}

	shown := buildStyledRunes(targets, 3, true)
	if !strings.Contains(shown[3].s, "b") {
		t.Fatalf("show-hidden should reveal pending hidden targets, got %q", shown[3].s)
	}
}

func TestBuildStyledRunesWhitespaceGlyphs(t *testing.T) {
	targets := lesson.Compile("a\n\tb c", nil)
	targets[4].Status = lesson.StatusIncorrect

	runes := buildStyledRunes(targets, -1, false)
	if !strings.Contains(runes[1].s, newlineGlyph) || !runes[1].isBreak {
		t.Fatalf("expected newline glyph with a line break, got %+v", runes[1])
	}
	if !strings.Contains(runes[2].s, tabGlyph) || runes[2].width != tabWidth {
		t.Fatalf("expected tab glyph of width %d, got %+v", tabWidth, runes[2])
	}
	if !strings.Contains(runes[4].s, wrongSpace) {
		t.Fatalf("expected wrong space marker, got %q", runes[4].s)
	}
}

func TestWrapBreaksAfterNewline(t *testing.T) {
	got := wrapStyledRunes(plainRunes("ab\ncd"), 80)
	if got != "ab"+newlineGlyph+"\ncd" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapAtSpaces(t *testing.T) {
	got := wrapStyledRunes(plainRunes("one two three"), 5)
	if got != "one \ntwo \nthree" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}

func TestWrapLongWord(t *testing.T) {
	got := wrapStyledRunes(plainRunes("abcdef"), 3)
	if got != "abc\ndef" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}
