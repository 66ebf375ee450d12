// Package phonetics defines per-language character classes used by the rhyme engine.
package phonetics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned for language tags without a profile.
var ErrUnknownLanguage = errors.New("unknown language")

// Profile groups the language-specific behaviour consumed by the normalizer,
// the vowel scanner and the rhyme renderer.
type Profile interface {
	// Tag returns the language tag the profile was resolved from.
	Tag() string
	// IsVowel reports whether r, already passed through MapVowel, is a vowel.
	IsVowel(r rune) bool
	// IsBoundary reports whether r ends a word.
	IsBoundary(r rune) bool
	// MapVowel folds near-duplicate phonetic symbols onto one canonical vowel.
	MapVowel(r rune) rune
	// Keep reports whether r survives normalization; other runs become a space.
	Keep(r rune) bool
	// FoldCase applies the profile's case folding to raw text.
	FoldCase(s string) string
	// LineTerminator is appended to every normalized line.
	LineTerminator() string
	// Phonetic reports whether the text must be transcribed before scanning.
	Phonetic() bool
	// GuardRepeats enables the disguised-repeat stop rule in the matcher.
	GuardRepeats() bool
	// Highlight marks the rhyming positions of an excerpt.
	Highlight(text []rune, marks [][]int) string
	// DefaultLookback is the lookback used when none is configured.
	DefaultLookback() int
	// Voice is the transcriber voice for phonetic profiles.
	Voice() string
}

// Info describes a supported language tag.
type Info struct {
	Tag             string
	Name            string
	DefaultLookback int
	Phonetic        bool
}

// Lookup resolves a language tag to its profile.
func Lookup(tag string) (Profile, error) {
	norm := strings.ToLower(strings.TrimSpace(tag))
	switch {
	case norm == "fi":
		return finnish{}, nil
	case strings.HasPrefix(norm, "en"):
		return english{voice: norm}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, tag)
	}
}

// Supported lists the language tags accepted by Lookup.
func Supported() []Info {
	return []Info{
		{Tag: "fi", Name: "Finnish", DefaultLookback: finnishLookback},
		{Tag: "en", Name: "English (eSpeak default voice)", DefaultLookback: englishLookback, Phonetic: true},
		{Tag: "en-us", Name: "American English", DefaultLookback: englishLookback, Phonetic: true},
		{Tag: "en-gb", Name: "British English", DefaultLookback: englishLookback, Phonetic: true},
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n'
}

func isASCIIWord(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
