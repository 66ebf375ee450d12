// Package lyrics scores song lyrics by rhyme density.
package lyrics

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/raplyzer/internal/phonetics"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Normalize cleans raw lyrics into one trimmed, de-duplicated line per row.
// Annotation lines such as "[Chorus]" or "(x2)" are dropped, characters
// outside the profile alphabet collapse into single spaces, and each kept line
// is terminated with the profile's line terminator and a newline.
func Normalize(raw string, p phonetics.Profile) string {
	text := norm.NFC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	rawLines := strings.Split(text, "\n")
	kept := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		if isAnnotation(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	text = strings.Join(kept, "\n")

	text = p.FoldCase(text)
	text = replaceForeign(text, p)
	text = blankRuns.ReplaceAllString(text, "\n\n")

	seen := make(map[string]struct{})
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		b.WriteString(line)
		b.WriteString(p.LineTerminator())
		b.WriteByte('\n')
	}
	return b.String()
}

func replaceForeign(text string, p phonetics.Profile) string {
	var b strings.Builder
	b.Grow(len(text))
	inRun := false
	for _, r := range text {
		if p.Keep(r) {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte(' ')
			inRun = true
		}
	}
	return b.String()
}

func isAnnotation(line string) bool {
	if len(line) < 2 {
		return false
	}
	first, last := line[0], line[len(line)-1]
	return (first == '[' && last == ']') || (first == '(' && last == ')')
}
