package phonetics

import (
	"sort"
	"strings"
)

const englishLookback = 15

// eSpeak vowel mnemonics. The schwa '@' is left out on purpose: it rhymes with
// too many vowels and would inflate rhyme lengths.
const englishVowels = "3L5aAeEiI0VuUoO"

var englishVowelMap = map[rune]rune{
	'0': 'o',
	'O': 'o',
	'I': 'i',
	'E': 'e',
}

type english struct {
	voice string
}

func (e english) Tag() string { return e.voice }

func (english) IsVowel(r rune) bool {
	return strings.ContainsRune(englishVowels, r)
}

func (english) IsBoundary(r rune) bool {
	return isSpace(r) || IsTerminator(r)
}

func (english) MapVowel(r rune) rune {
	if m, ok := englishVowelMap[r]; ok {
		return m
	}
	return r
}

func (english) Keep(r rune) bool {
	if isASCIIWord(r) {
		return true
	}
	return strings.ContainsRune("åÅäÄöÖéÉ'.?!\n", r)
}

func (english) FoldCase(s string) string { return s }

func (english) LineTerminator() string { return "." }

func (english) Phonetic() bool { return true }

func (english) GuardRepeats() bool { return true }

// Highlight wraps each side's rhyming span in "| " and "|". The phonetic
// alphabet is case sensitive, so capitalization cannot be used.
func (english) Highlight(text []rune, marks [][]int) string {
	open := map[int]int{}
	closing := map[int]int{}
	for _, side := range marks {
		if len(side) == 0 {
			continue
		}
		sorted := append([]int(nil), side...)
		sort.Ints(sorted)
		open[sorted[0]]++
		closing[sorted[len(sorted)-1]]++
	}
	var b strings.Builder
	for i, r := range text {
		for n := open[i]; n > 0; n-- {
			b.WriteString("| ")
		}
		b.WriteRune(r)
		for n := closing[i]; n > 0; n-- {
			b.WriteByte('|')
		}
	}
	return b.String()
}

func (english) DefaultLookback() int { return englishLookback }

func (e english) Voice() string { return e.voice }

// IsTerminator reports whether r ends a sentence.
func IsTerminator(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}
