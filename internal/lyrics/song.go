package lyrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/verte-zerg/raplyzer/internal/logging"
	"github.com/verte-zerg/raplyzer/internal/phonetics"
	"github.com/verte-zerg/raplyzer/internal/transcribe"
)

var (
	// ErrInvalidLookback is returned for a negative lookback.
	ErrInvalidLookback = errors.New("lookback must be positive")
	// ErrNoTranscriber is returned when a phonetic language has no transcriber.
	ErrNoTranscriber = errors.New("language requires a phonetic transcriber")
)

// Options configures song analysis. A zero Lookback selects the language
// default.
type Options struct {
	Lang        string
	Lookback    int
	Transcriber transcribe.Transcriber
	Logger      *slog.Logger
}

// Song holds one lyrics document and everything derived from it. A Song is
// immutable after New; changing language or lookback means building a new one.
type Song struct {
	id       string
	raw      string
	text     string
	phonetic string
	profile  phonetics.Profile
	lookback int
	rep      representation
	stats    Stats
}

// New normalizes raw, transcribes it when the language is phonetic, builds
// the vowel representation and computes the rhyme statistics.
func New(ctx context.Context, id, raw string, opts Options) (*Song, error) {
	profile, err := phonetics.Lookup(opts.Lang)
	if err != nil {
		return nil, err
	}
	lookback := opts.Lookback
	if lookback < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLookback, lookback)
	}
	if lookback == 0 {
		lookback = profile.DefaultLookback()
	}
	if profile.Phonetic() && opts.Transcriber == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTranscriber, profile.Tag())
	}
	logger := logging.OrNop(opts.Logger)

	s := &Song{
		id:       id,
		raw:      raw,
		profile:  profile,
		lookback: lookback,
	}
	s.text = Normalize(raw, profile)

	scanned := s.text
	if profile.Phonetic() {
		s.phonetic, err = opts.Transcriber.Transcribe(ctx, id, s.text)
		if err != nil {
			return nil, fmt.Errorf("failed to transcribe %s: %w", id, err)
		}
		scanned = s.phonetic
	}
	s.rep = buildRepresentation([]rune(scanned), profile)
	s.stats = s.computeStats()

	logger.Debug("song analyzed",
		slog.String("song", id),
		slog.String("lang", profile.Tag()),
		slog.Int("words", len(s.rep.words)),
		slog.Int("vowels", len(s.rep.vowels)),
		slog.Float64("avg_rhyme_length", s.stats.AvgRhymeLength),
		slog.Int("longest_rhyme", s.stats.Longest.Length))
	return s, nil
}

// ID returns the song identifier.
func (s *Song) ID() string { return s.id }

// Lang returns the resolved language tag.
func (s *Song) Lang() string { return s.profile.Tag() }

// Lookback returns the number of preceding words searched for rhymes.
func (s *Song) Lookback() int { return s.lookback }

// Text returns the normalized text.
func (s *Song) Text() string { return s.text }

// Phonetic returns the cleaned transcription, empty for non-phonetic languages.
func (s *Song) Phonetic() string { return s.phonetic }

// Vowels returns the vowel sequence.
func (s *Song) Vowels() []rune { return append([]rune(nil), s.rep.vowels...) }

// VowelPositions returns the scanned-text index of every vowel.
func (s *Song) VowelPositions() []int { return append([]int(nil), s.rep.positions...) }

// Words returns the words of the scanned text.
func (s *Song) Words() []Word { return append([]Word(nil), s.rep.words...) }

// WordEnds returns the vowel index of each word's last vowel.
func (s *Song) WordEnds() []int {
	ends := make([]int, len(s.rep.words))
	for i, w := range s.rep.words {
		ends[i] = w.End
	}
	return ends
}

// LineIndex maps every scanned character to its normalized line. It is nil
// for non-phonetic languages, where the scanned text is the normalized text.
func (s *Song) LineIndex() []int {
	if s.rep.lineIndex == nil {
		return nil
	}
	return append([]int(nil), s.rep.lineIndex...)
}

// Stats returns the rhyme statistics.
func (s *Song) Stats() Stats {
	st := s.stats
	st.Lengths = append([]int(nil), s.stats.Lengths...)
	return st
}

// AvgRhymeLength returns the mean best-rhyme length.
func (s *Song) AvgRhymeLength() float64 { return s.stats.AvgRhymeLength }

// LongestRhyme returns the longest rhyme's length and rendered excerpt.
func (s *Song) LongestRhyme() (int, string) {
	return s.stats.Longest.Length, s.Render(s.stats.Longest)
}

// RhymeLengths returns the best-rhyme length of every word but the first.
func (s *Song) RhymeLengths() []int { return append([]int(nil), s.stats.Lengths...) }

// Vocabulary returns lower-cased word tokens for vocabulary statistics.
// Phonetic languages tokenize the raw text, since the normalized text keeps
// case and sentence punctuation.
func (s *Song) Vocabulary() []string {
	if !s.profile.Phonetic() {
		return strings.Fields(s.text)
	}
	return strings.FieldsFunc(strings.ToLower(s.raw), func(r rune) bool {
		return !isVocabularyRune(r)
	})
}

func isVocabularyRune(r rune) bool {
	return r == '_' || r == 'å' || r == 'ä' || r == 'ö' ||
		(r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9')
}
