package lyrics

import "github.com/verte-zerg/raplyzer/internal/phonetics"

// Word is a word of the scanned text, cut after its last vowel. End is the
// index of that vowel in the vowel sequence.
type Word struct {
	Text string
	End  int
}

// representation is the vowel-level view of a scanned text. segments[i]
// identifies the boundary-delimited token holding vowel i.
type representation struct {
	text      []rune
	vowels    []rune
	positions []int
	segments  []int
	words     []Word
	lineIndex []int
}

// buildRepresentation scans text once, left to right. Identical adjacent
// vowels collapse into one entry positioned at the later occurrence, and
// consonants after a word's last vowel are dropped from the word.
func buildRepresentation(text []rune, p phonetics.Profile) representation {
	rep := representation{text: text}
	if p.Phonetic() {
		rep.lineIndex = make([]int, len(text))
	}

	prevSpace := -1
	segment := 0
	line := 0
	for i, raw := range text {
		if rep.lineIndex != nil {
			rep.lineIndex[i] = line
			if raw == '\n' || (phonetics.IsTerminator(raw) && (i+1 >= len(text) || text[i+1] != '\n')) {
				line++
			}
		}

		c := p.MapVowel(raw)
		switch {
		case p.IsVowel(c):
			if i > 0 && text[i-1] == raw {
				rep.positions[len(rep.positions)-1] = i
				continue
			}
			rep.vowels = append(rep.vowels, c)
			rep.positions = append(rep.positions, i)
			rep.segments = append(rep.segments, segment)
		case p.IsBoundary(raw):
			if i > 0 && !p.IsBoundary(text[i-1]) && len(rep.vowels) > 0 {
				last := rep.positions[len(rep.positions)-1]
				// A token without vowels leaves the last vowel behind prevSpace.
				if last > prevSpace {
					rep.words = append(rep.words, Word{
						Text: string(text[prevSpace+1 : last+1]),
						End:  len(rep.vowels) - 1,
					})
				}
			}
			prevSpace = i
			segment++
		}
	}
	return rep
}

// enclosingWord returns the boundary-to-boundary token around vowel v.
func (r *representation) enclosingWord(v int, p phonetics.Profile) string {
	start := r.positions[v]
	for start > 0 && !p.IsBoundary(r.text[start-1]) {
		start--
	}
	end := r.positions[v]
	for end+1 < len(r.text) && !p.IsBoundary(r.text[end+1]) {
		end++
	}
	return string(r.text[start : end+1])
}
