package lesson

import (
	"testing"
)

func hiddenMask(targets []Target) string {
	out := make([]rune, len(targets))
	for i, t := range targets {
		if t.Hidden {
			out[i] = '#'
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

func TestCompileHiddenMarker(t *testing.T) {
	targets := Compile("a[[b]]c", nil)
	want := []Target{
		{Char: 'a', Status: StatusPending},
		{Char: 'b', Status: StatusPending, Hidden: true},
		{Char: 'c', Status: StatusPending},
	}
	if len(targets) != len(want) {
		t.Fatalf("expected %d targets, got %d", len(want), len(targets))
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("target %d: expected %+v, got %+v", i, want[i], targets[i])
		}
	}
}

func TestCompileEmpty(t *testing.T) {
	if targets := Compile("", nil); len(targets) != 0 {
		t.Fatalf("expected no targets, got %d", len(targets))
	}
	if targets := Compile("[[]]", nil); len(targets) != 0 {
		t.Fatalf("expected empty marker to produce no targets, got %d", len(targets))
	}
}

func TestCompileExcludeWord(t *testing.T) {
	targets := Compile("foo bar", []string{"bar"})
	if got := PlainText(targets); got != "foo bar" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := hiddenMask(targets); got != "....###" {
		t.Fatalf("unexpected hidden mask %q", got)
	}
}

func TestCompileExcludeRespectsWordBoundaries(t *testing.T) {
	targets := Compile("barn bar rebar", []string{"bar"})
	if got := hiddenMask(targets); got != ".....###......" {
		t.Fatalf("unexpected hidden mask %q", got)
	}
}

func TestCompileExcludePunctuation(t *testing.T) {
	// ":=" has no word characters, so it must match even between word characters.
	targets := Compile("x:=1", []string{":="})
	if got := hiddenMask(targets); got != ".##." {
		t.Fatalf("unexpected hidden mask %q", got)
	}
	// "fmt." only asserts a boundary before the word.
	targets = Compile("fmt.Println", []string{"fmt."})
	if got := hiddenMask(targets); got != "####......." {
		t.Fatalf("unexpected hidden mask %q", got)
	}
}

func TestCompileExcludeIsLiteralAndCaseSensitive(t *testing.T) {
	targets := Compile("a.b axb A.B", []string{"a.b"})
	if got := hiddenMask(targets); got != "###........" {
		t.Fatalf("unexpected hidden mask %q", got)
	}
}

func TestCompileExcludeFirstWordWins(t *testing.T) {
	targets := Compile("func funcs", []string{"func", "funcs"})
	// "funcs" is not matched by \bfunc\b, so the second alternative hides it whole.
	if got := hiddenMask(targets); got != "####.#####" {
		t.Fatalf("unexpected hidden mask %q", got)
	}
	targets = Compile("a+b", []string{"a+", "a+b"})
	if got := hiddenMask(targets); got != "##." {
		t.Fatalf("expected earlier alternative to win, got %q", got)
	}
}

func TestCompileExcludeSkippedInsideHiddenSpan(t *testing.T) {
	targets := Compile("[[x y]] y", []string{"y"})
	if got := PlainText(targets); got != "x y y" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := hiddenMask(targets); got != "###.#" {
		t.Fatalf("unexpected hidden mask %q", got)
	}
}

func TestCompileIgnoresEmptyExcludeWords(t *testing.T) {
	targets := Compile("abc", []string{"", "b"})
	if got := hiddenMask(targets); got != "..." {
		t.Fatalf("unexpected hidden mask %q", got)
	}
}

func TestCompileUnterminatedMarkerIsLiteral(t *testing.T) {
	targets := Compile("a[[b", nil)
	if got := PlainText(targets); got != "a[[b" {
		t.Fatalf("unexpected text %q", got)
	}
	if CountHidden(targets) != 0 {
		t.Fatalf("expected no hidden targets")
	}
}

func TestCompileMarkersAreShortestMatch(t *testing.T) {
	targets := Compile("[[a]]-[[b]]", nil)
	if got := PlainText(targets); got != "a-b" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := hiddenMask(targets); got != "#.#" {
		t.Fatalf("unexpected hidden mask %q", got)
	}
}

func TestCompileMarkerDoesNotSpanLines(t *testing.T) {
	targets := Compile("[[a\nb]]", nil)
	if got := PlainText(targets); got != "[[a\nb]]" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestCompileKeepsWhitespaceAndMultibyte(t *testing.T) {
	targets := Compile("if x {\n\tπ := [[ü]]\n}", nil)
	text := PlainText(targets)
	if text != "if x {\n\tπ := ü\n}" {
		t.Fatalf("unexpected text %q", text)
	}
	if len(targets) != len([]rune(text)) {
		t.Fatalf("expected one target per rune")
	}
	for _, tg := range targets {
		if tg.Status != StatusPending {
			t.Fatalf("expected pending status, got %s", tg.Status)
		}
	}
}

func TestStripMarkers(t *testing.T) {
	if got := StripMarkers("x := [[make]](map[string]int)"); got != "x := make(map[string]int)" {
		t.Fatalf("unexpected stripped text %q", got)
	}
}
