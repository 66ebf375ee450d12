package phonetics

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const finnishLookback = 10

var finnishLower = cases.Lower(language.Finnish)

type finnish struct{}

func (finnish) Tag() string { return "fi" }

func (finnish) IsVowel(r rune) bool {
	return strings.ContainsRune("aeiouyäöå", r)
}

func (finnish) IsBoundary(r rune) bool { return isSpace(r) }

func (finnish) MapVowel(r rune) rune { return r }

func (finnish) Keep(r rune) bool {
	return isASCIIWord(r) || r == 'å' || r == 'ä' || r == 'ö' || r == '\n'
}

func (finnish) FoldCase(s string) string { return finnishLower.String(s) }

func (finnish) LineTerminator() string { return "" }

func (finnish) Phonetic() bool { return false }

func (finnish) GuardRepeats() bool { return false }

// Highlight upper-cases every marked position.
func (finnish) Highlight(text []rune, marks [][]int) string {
	out := make([]rune, len(text))
	copy(out, text)
	for _, side := range marks {
		for _, p := range side {
			if p >= 0 && p < len(out) {
				out[p] = unicode.ToUpper(out[p])
			}
		}
	}
	return string(out)
}

func (finnish) DefaultLookback() int { return finnishLookback }

func (finnish) Voice() string { return "" }
