package lyrics

// RhymeMatch is a rhyme between the earlier word First and the later word
// Second, Length vowels long. NoRhyme has both indices set to -1.
type RhymeMatch struct {
	Length int
	First  int
	Second int
}

// NoRhyme is the match reported when no rhyme of length two or more exists.
var NoRhyme = RhymeMatch{Length: 0, First: -1, Second: -1}

// Found reports whether m refers to a pair of words.
func (m RhymeMatch) Found() bool {
	return m.First >= 0 && m.Second >= 0
}

// RhymeLengthFixed returns the length in vowels of the common suffix ending
// at words w1 and w2, where w1 < w2. Literal repeats never rhyme, the match
// never wraps past the song start or overlaps the later word, and a single
// matching vowel does not count.
func (s *Song) RhymeLengthFixed(w1, w2 int) int {
	if w1 < 0 || w1 >= w2 || w2 >= len(s.rep.words) {
		return 0
	}
	if s.rep.words[w1].Text == s.rep.words[w2].Text {
		return 0
	}
	vow := s.rep.vowels
	p1 := s.rep.words[w1].End
	p2 := s.rep.words[w2].End
	l := 0
	for vow[p1-l] == vow[p2-l] {
		l++
		if p1-l < 0 || p2-l <= p1 {
			break
		}
		if s.profile.GuardRepeats() && s.disguisedRepeat(p1-l, p2-l) {
			break
		}
	}
	if l == 1 {
		l = 0
	}
	return l
}

// disguisedRepeat reports whether extending the match to vowels q1 and q2
// steps into a previous word on both sides and those two words are the same
// text, e.g. one multi-syllable word repeated after two different endings.
func (s *Song) disguisedRepeat(q1, q2 int) bool {
	seg := s.rep.segments
	if seg[q1] == seg[q1+1] || seg[q2] == seg[q2+1] {
		return false
	}
	return s.rep.enclosingWord(q1, s.profile) == s.rep.enclosingWord(q2, s.profile)
}

// RhymeLength finds the best rhyme for word w2 among the lookback preceding
// words. Ties keep the earliest candidate.
func (s *Song) RhymeLength(w2 int) RhymeMatch {
	best := RhymeMatch{Length: 0, First: -1, Second: w2}
	for w1 := max(0, w2-s.lookback); w1 < w2; w1++ {
		if l := s.RhymeLengthFixed(w1, w2); l > best.Length {
			best.Length = l
			best.First = w1
		}
	}
	if best.Length == 0 {
		return NoRhyme
	}
	return best
}
