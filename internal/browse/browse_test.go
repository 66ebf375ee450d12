package browse

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/raplyzer/internal/model"
)

func testRun() model.Run {
	return model.Run{
		ID:        "0123456789abcdef",
		StartedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Lang:      "fi",
		Lookback:  10,
		Songs: []model.SongScore{
			{Artist: "Paleface", Album: "Helsinki_y2010y", Song: "b.txt", AvgRhymeLength: 3, LongestLength: 3, LongestExcerpt: "kOIrA\nvOItA", Words: 2},
			{Artist: "Asa", Album: "Album", Song: "a.txt", AvgRhymeLength: 1, LongestLength: 2, LongestExcerpt: "tAlO pAllO", Words: 2},
		},
		Artists: []model.ArtistScore{
			{Artist: "Asa", Songs: 1, AvgRhymeLength: 1, TotalWords: 2},
			{Artist: "Paleface", Songs: 1, AvgRhymeLength: 3, TotalWords: 2},
		},
	}
}

func TestViewRendersTabs(t *testing.T) {
	m := NewModel(testRun(), model.ReportConfig{})
	if m.View() != "" {
		t.Fatalf("expected empty view before the first window size")
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	out := m.View()
	for _, want := range []string{"Artists", "Songs", "Rhymes", "Run 01234567", "Paleface"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
	if got := len(strings.Split(out, "\n")); got != 20 {
		t.Fatalf("expected view to fill 20 lines, got %d", got)
	}
}

func TestSelectArtistFiltersSongs(t *testing.T) {
	m := NewModel(testRun(), model.ReportConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.activeTab != tabSongs {
		t.Fatalf("expected songs tab after selecting an artist")
	}
	// Artists are ranked by average, so the cursor starts on Paleface.
	if m.artistFilter != "Paleface" {
		t.Fatalf("unexpected artist filter %q", m.artistFilter)
	}
	if songs := m.filteredSongs(); len(songs) != 1 || songs[0].Song != "b.txt" {
		t.Fatalf("unexpected filtered songs %+v", songs)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.artistFilter != "" {
		t.Fatalf("expected esc to clear the artist filter")
	}
}

func TestMoveTabWraps(t *testing.T) {
	m := NewModel(testRun(), model.ReportConfig{})
	m.moveTab(-1)
	if m.activeTab != tabRhymes {
		t.Fatalf("expected wrap to last tab, got %d", m.activeTab)
	}
	m.moveTab(1)
	if m.activeTab != tabArtists {
		t.Fatalf("expected wrap to first tab, got %d", m.activeTab)
	}
}

func TestSongRowsOrder(t *testing.T) {
	songs := []model.SongScore{
		{Song: "a.txt", AvgRhymeLength: 2, LongestLength: 2},
		{Song: "b.txt", AvgRhymeLength: 1, LongestLength: 5},
	}
	if rows := songRows(songs, orderAverage); rows[0][6] != "a" {
		t.Fatalf("expected average ordering, got %v", rows)
	}
	if rows := songRows(songs, orderLongest); rows[0][6] != "b" {
		t.Fatalf("expected longest ordering, got %v", rows)
	}
}

func TestBuildStyledRunesBracketed(t *testing.T) {
	runes := buildStyledRunes([]rune("l| AI|t"), true)
	if len(runes) != 4 {
		t.Fatalf("expected markers to be dropped, got %d runes", len(runes))
	}
	if runes[1].s != rhymeStyle.Render("A") || runes[2].s != rhymeStyle.Render("I") {
		t.Fatalf("expected rhyme style inside markers")
	}
	if runes[0].s != textStyle.Render("l") || runes[3].s != textStyle.Render("t") {
		t.Fatalf("expected text style outside markers")
	}
}

func TestBuildStyledRunesUpperCase(t *testing.T) {
	runes := buildStyledRunes([]rune("kOIrA"), false)
	if runes[0].s != textStyle.Render("k") || runes[1].s != rhymeStyle.Render("O") {
		t.Fatalf("expected upper-case vowels to be highlighted")
	}
}

func TestWrapStyledRunes(t *testing.T) {
	runes := buildStyledRunes([]rune("koira voita talo"), false)
	out := wrapStyledRunes(runes, 12)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != renderStyledRunes(runes[:11]) {
		t.Fatalf("expected first line to hold two words")
	}
	long := buildStyledRunes([]rune("abcdefgh"), false)
	if got := strings.Count(wrapStyledRunes(long, 3), "\n"); got != 2 {
		t.Fatalf("expected long word to be split twice, got %d", got)
	}
}
