// Package model defines shared data structures.
package model

import "time"

// AnalyzeConfig defines analysis settings.
type AnalyzeConfig struct {
	Lang       string
	Lookback   int
	Workers    int
	Artist     string
	Album      string
	SkipFailed bool
}

// ReportConfig defines ranking sizes for reports.
type ReportConfig struct {
	TopRhymes        int
	TopSongs         int
	VocabularySample int
}

// BrowseConfig selects the stored run shown by the browser.
type BrowseConfig struct {
	RunID string
	Lang  string
}

// SongScore captures the analysis of one song.
type SongScore struct {
	Artist         string
	Album          string
	Song           string
	Path           string
	AvgRhymeLength float64
	LongestLength  int
	LongestExcerpt string
	Words          int
}

// ArtistScore aggregates the songs of one artist. Vocabulary is the number of
// distinct words among the first sample words, or 0 when the artist has
// fewer than that many words in total.
type ArtistScore struct {
	Artist         string
	Songs          int
	AvgRhymeLength float64
	TotalWords     int
	Vocabulary     int
}

// SongFailure records a song that could not be analyzed.
type SongFailure struct {
	Path string
	Err  string
}

// Run is a stored corpus analysis.
type Run struct {
	ID        string
	StartedAt time.Time
	Root      string
	Lang      string
	Lookback  int
	Songs     []SongScore
	Artists   []ArtistScore
	Failed    []SongFailure
}

// RunSummary describes a stored run without its scores.
type RunSummary struct {
	ID        string
	StartedAt time.Time
	Root      string
	Lang      string
	Lookback  int
	SongCount int
}
