package phonetics

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		tag      string
		phonetic bool
		lookback int
	}{
		{tag: "fi", phonetic: false, lookback: 10},
		{tag: "FI ", phonetic: false, lookback: 10},
		{tag: "en-us", phonetic: true, lookback: 15},
		{tag: "en", phonetic: true, lookback: 15},
	}
	for _, tc := range cases {
		p, err := Lookup(tc.tag)
		if err != nil {
			t.Fatalf("lookup %q: %v", tc.tag, err)
		}
		if p.Phonetic() != tc.phonetic {
			t.Fatalf("%q: expected phonetic=%v", tc.tag, tc.phonetic)
		}
		if p.DefaultLookback() != tc.lookback {
			t.Fatalf("%q: expected lookback %d, got %d", tc.tag, tc.lookback, p.DefaultLookback())
		}
	}
	if _, err := Lookup("sv"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestEnglishVowelAliases(t *testing.T) {
	p, _ := Lookup("en-us")
	for in, want := range map[rune]rune{'0': 'o', 'O': 'o', 'I': 'i', 'E': 'e', 'a': 'a', 'V': 'V'} {
		if got := p.MapVowel(in); got != want {
			t.Fatalf("MapVowel(%q) = %q, want %q", in, got, want)
		}
	}
	if p.IsVowel('@') {
		t.Fatalf("schwa must not count as a vowel")
	}
	for _, r := range ".?! \n" {
		if !p.IsBoundary(r) {
			t.Fatalf("expected %q to be a boundary", r)
		}
	}
}

func TestFinnishClasses(t *testing.T) {
	p, _ := Lookup("fi")
	for _, r := range "aeiouyäöå" {
		if !p.IsVowel(r) {
			t.Fatalf("expected %q to be a vowel", r)
		}
	}
	if p.IsBoundary('.') {
		t.Fatalf("finnish boundaries are whitespace only")
	}
	if got := p.FoldCase("ÄITI Öljy"); got != "äiti öljy" {
		t.Fatalf("unexpected fold: %q", got)
	}
	if p.Keep('é') || p.Keep('\'') {
		t.Fatalf("finnish alphabet should not keep é or apostrophe")
	}
}

func TestHighlight(t *testing.T) {
	fi, _ := Lookup("fi")
	if got := fi.Highlight([]rune("koira voita"), [][]int{{1, 2, 4}, {7, 8, 10}}); got != "kOIrA vOItA" {
		t.Fatalf("unexpected finnish highlight: %q", got)
	}
	en, _ := Lookup("en-us")
	if got := en.Highlight([]rune("ab cd"), [][]int{{0, 1}, {3}}); got != "| ab| | c|d" {
		t.Fatalf("unexpected english highlight: %q", got)
	}
}
