package lyrics

// Stats summarizes the rhymes of a song. Lengths holds the best-rhyme length
// of every word but the first and AvgRhymeLength is their mean. Longest keeps
// the first of equally long rhymes.
type Stats struct {
	AvgRhymeLength float64
	Longest        RhymeMatch
	Lengths        []int
}

func (s *Song) computeStats() Stats {
	st := Stats{Longest: NoRhyme}
	n := len(s.rep.words)
	if n < 2 {
		return st
	}
	st.Lengths = make([]int, 0, n-1)
	total := 0
	for w2 := 1; w2 < n; w2++ {
		m := s.RhymeLength(w2)
		st.Lengths = append(st.Lengths, m.Length)
		total += m.Length
		if m.Length > st.Longest.Length {
			st.Longest = m
		}
	}
	st.AvgRhymeLength = float64(total) / float64(len(st.Lengths))
	return st
}
