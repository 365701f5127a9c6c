// Package lesson compiles lesson text into typing targets and loads lesson catalogs.
package lesson

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Status is the typing state of a single target.
type Status uint8

const (
	StatusPending Status = iota
	StatusCorrect
	StatusIncorrect
)

func (s Status) String() string {
	switch s {
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	default:
		return "pending"
	}
}

// Target is one character position of a compiled lesson.
type Target struct {
	Char   rune
	Status Status
	Hidden bool
}

// Spans never cross a newline and the shortest match wins, so "[[a]] [[b]]" yields two spans.
var hiddenSpan = regexp.MustCompile(`\[\[(.*?)\]\]`)

// Compile turns lesson text into pending targets. Characters inside [[...]] markers and
// whole-word occurrences of exclude words are hidden. Unterminated markers stay literal.
func Compile(text string, exclude []string) []Target {
	targets := make([]Target, 0, utf8.RuneCountInString(text))
	excludeRe := excludePattern(exclude)
	last := 0
	for _, loc := range hiddenSpan.FindAllStringSubmatchIndex(text, -1) {
		targets = appendLiteral(targets, text[last:loc[0]], excludeRe)
		targets = appendRunes(targets, text[loc[2]:loc[3]], true)
		last = loc[1]
	}
	return appendLiteral(targets, text[last:], excludeRe)
}

// StripMarkers returns the text a user types for the given lesson source.
func StripMarkers(text string) string {
	return hiddenSpan.ReplaceAllString(text, "$1")
}

// PlainText joins target characters back into a string.
func PlainText(targets []Target) string {
	var b strings.Builder
	b.Grow(len(targets))
	for _, t := range targets {
		b.WriteRune(t.Char)
	}
	return b.String()
}

// CountHidden returns how many targets are hidden.
func CountHidden(targets []Target) int {
	n := 0
	for _, t := range targets {
		if t.Hidden {
			n++
		}
	}
	return n
}

func appendLiteral(targets []Target, run string, excludeRe *regexp.Regexp) []Target {
	if excludeRe == nil {
		return appendRunes(targets, run, false)
	}
	last := 0
	for _, loc := range excludeRe.FindAllStringIndex(run, -1) {
		targets = appendRunes(targets, run[last:loc[0]], false)
		targets = appendRunes(targets, run[loc[0]:loc[1]], true)
		last = loc[1]
	}
	return appendRunes(targets, run[last:], false)
}

func appendRunes(targets []Target, s string, hidden bool) []Target {
	for _, r := range s {
		targets = append(targets, Target{Char: r, Status: StatusPending, Hidden: hidden})
	}
	return targets
}

// excludePattern builds one alternation over the exclude words. A word boundary is only
// asserted on a side where the word begins or ends with a word character.
func excludePattern(words []string) *regexp.Regexp {
	alts := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		var b strings.Builder
		if isWordByte(w[0]) {
			b.WriteString(`\b`)
		}
		b.WriteString(regexp.QuoteMeta(w))
		if isWordByte(w[len(w)-1]) {
			b.WriteString(`\b`)
		}
		alts = append(alts, b.String())
	}
	if len(alts) == 0 {
		return nil
	}
	return regexp.MustCompile("(?:" + strings.Join(alts, "|") + ")")
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}
