package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verte-zerg/raplyzer/internal/corpus"
	"github.com/verte-zerg/raplyzer/internal/model"
)

// Report holds the rankings printed after a corpus analysis.
type Report struct {
	Rhymes  []model.SongScore
	Songs   []model.SongScore
	Artists []model.ArtistScore
	Failed  []model.SongFailure
}

// Build ranks a corpus result. Zero sizes in cfg fall back to the defaults.
func Build(res corpus.Result, cfg model.ReportConfig) Report {
	topRhymes := cfg.TopRhymes
	if topRhymes <= 0 {
		topRhymes = DefaultTopRhymes
	}
	topSongs := cfg.TopSongs
	if topSongs <= 0 {
		topSongs = DefaultTopSongs
	}
	return Report{
		Rhymes:  TopRhymes(res.Songs, topRhymes),
		Songs:   BestSongs(res.Songs, topSongs),
		Artists: RankArtists(res.Artists),
		Failed:  res.Failed,
	}
}

// FromRun rebuilds a report from a stored run.
func FromRun(run model.Run, cfg model.ReportConfig) Report {
	return Build(corpus.Result{Songs: run.Songs, Artists: run.Artists, Failed: run.Failed}, cfg)
}

// Write renders the report sections as plain text.
func Write(w io.Writer, r Report) error {
	var b strings.Builder

	b.WriteString("Best rhymes\n")
	if len(r.Rhymes) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, s := range r.Rhymes {
		fmt.Fprintf(&b, "%d. [%d] %s\n", i+1, s.LongestLength, songLabel(s))
		for _, line := range strings.Split(s.LongestExcerpt, "\n") {
			b.WriteString("   ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	b.WriteString("\nBest songs\n")
	songRows := make([][]string, 0, len(r.Songs))
	for i, s := range r.Songs {
		songRows = append(songRows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.3f", s.AvgRhymeLength),
			songLabel(s),
		})
	}
	for _, line := range formatTable([]string{"#", "Avg", "Song"}, songRows, map[int]bool{0: true, 1: true}) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString("\nBest artists\n")
	artistRows := make([][]string, 0, len(r.Artists))
	for i, a := range r.Artists {
		artistRows = append(artistRows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%.3f", a.AvgRhymeLength),
			strconv.Itoa(a.Songs),
			strconv.Itoa(a.TotalWords),
			vocabularyLabel(a.Vocabulary),
			corpus.DisplayName(a.Artist),
		})
	}
	headers := []string{"#", "Avg", "Songs", "Words", "Vocabulary", "Artist"}
	for _, line := range formatTable(headers, artistRows, map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if len(r.Failed) > 0 {
		b.WriteString("\nFailed songs\n")
		for _, f := range r.Failed {
			fmt.Fprintf(&b, "%s: %s\n", f.Path, f.Err)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func songLabel(s model.SongScore) string {
	song := corpus.DisplayName(strings.TrimSuffix(s.Song, ".txt"))
	return fmt.Sprintf("%s / %s / %s", corpus.DisplayName(s.Artist), corpus.DisplayName(s.Album), song)
}

func vocabularyLabel(v int) string {
	if v <= 0 {
		return "-"
	}
	return strconv.Itoa(v)
}
