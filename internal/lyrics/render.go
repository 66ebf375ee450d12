package lyrics

import "strings"

// Render builds a readable excerpt for m: from the start of the earlier word's
// line to the end of the later word, with the rhyming vowels marked. Phonetic
// songs also get the matching original lines appended.
func (s *Song) Render(m RhymeMatch) string {
	if !m.Found() || m.Length <= 0 || m.Second >= len(s.rep.words) || m.First >= m.Second {
		return ""
	}
	text := s.rep.text
	end1 := s.rep.words[m.First].End
	end2 := s.rep.words[m.Second].End

	p2 := s.rep.positions[end2]
	for p2 < len(text)-1 && !s.profile.IsBoundary(text[p2]) {
		p2++
	}
	p0 := s.rep.positions[max(0, end1-m.Length)]
	for p0 > 0 && text[p0] != '\n' {
		p0--
	}
	if text[p0] == '\n' && p0 < p2 {
		p0++
	}

	sides := [][]int{
		s.rhymingVowels(end1, m.Length),
		s.rhymingVowels(end2, m.Length),
	}
	for i, side := range sides {
		shifted := make([]int, 0, len(side))
		for _, p := range side {
			if p >= p0 && p <= p2 {
				shifted = append(shifted, p-p0)
			}
		}
		sides[i] = shifted
	}
	out := strings.TrimSpace(s.profile.Highlight(text[p0:p2+1], sides))

	if s.rep.lineIndex != nil {
		if orig := s.originalLines(s.rep.lineIndex[p0], s.rep.lineIndex[p2]); orig != "" {
			out += "\n" + orig
		}
	}
	return out
}

// rhymingVowels walks back from vowel index end and returns the text
// positions of the first n distinct vowels. Both halves of a double vowel are
// returned but counted once; the starting vowel always counts.
func (s *Song) rhymingVowels(end, n int) []int {
	text := s.rep.text
	p := s.rep.positions[end]
	last := p
	var out []int
	for count := 0; count < n && p >= 0; p-- {
		if !s.profile.IsVowel(s.profile.MapVowel(text[p])) {
			continue
		}
		out = append(out, p)
		if p == last || p+1 >= len(text) || text[p] != text[p+1] {
			count++
		}
	}
	return out
}

// originalLines returns normalized lines from..to inclusive.
func (s *Song) originalLines(from, to int) string {
	lines := strings.Split(strings.TrimRight(s.text, "\n"), "\n")
	if from < 0 {
		from = 0
	}
	if to >= len(lines) {
		to = len(lines) - 1
	}
	if from > to {
		return ""
	}
	return strings.Join(lines[from:to+1], "\n")
}
