package lesson

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCompileProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// Odd pieces are wrapped in markers, even pieces stay literal.
	properties.Property("length equals stripped text for balanced markers", prop.ForAll(
		func(pieces []string) bool {
			var src strings.Builder
			wantLen, wantHidden := 0, 0
			for i, p := range pieces {
				n := utf8.RuneCountInString(p)
				wantLen += n
				if i%2 == 1 {
					src.WriteString("[[" + p + "]]")
					wantHidden += n
					continue
				}
				src.WriteString(p)
			}
			targets := Compile(src.String(), nil)
			return len(targets) == wantLen &&
				len(targets) == utf8.RuneCountInString(StripMarkers(src.String())) &&
				CountHidden(targets) == wantHidden
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("exclusion never changes the character sequence", prop.ForAll(
		func(text string, exclude []string) bool {
			plain := Compile(text, nil)
			excluded := Compile(text, exclude)
			return PlainText(plain) == PlainText(excluded) && len(plain) == len(excluded)
		},
		gen.AnyString(),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("all targets start pending", prop.ForAll(
		func(text string) bool {
			for _, tg := range Compile(text, []string{"a"}) {
				if tg.Status != StatusPending {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
