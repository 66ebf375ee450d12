package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/verte-zerg/raplyzer/internal/lyrics"
	"github.com/verte-zerg/raplyzer/internal/model"
)

func writeSong(t *testing.T, root, artist, album, song, text string) {
	t.Helper()
	dir := filepath.Join(root, artist, album)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, song), []byte(text), 0o644); err != nil {
		t.Fatalf("write song: %v", err)
	}
}

func TestSortAlbumsByYear(t *testing.T) {
	albums := []string{"Later_y2010y", "Demo", "First_y1999y", "Bootleg"}
	got := SortAlbumsByYear(albums)
	want := []string{"Demo", "Bootleg", "First_y1999y", "Later_y2010y"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order %v", got)
	}
	if AlbumYear("Albumy1999") != 0 {
		t.Fatalf("year without closing marker must not parse")
	}
}

func TestVocabularySize(t *testing.T) {
	words := []string{"a", "b", "a", "c", "d"}
	if got := VocabularySize(words, 3); got != 2 {
		t.Fatalf("expected 2 distinct words in sample, got %d", got)
	}
	if got := VocabularySize(words, 6); got != 0 {
		t.Fatalf("expected 0 for short vocabularies, got %d", got)
	}
}

func TestLoadLyricsStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.txt")
	if err := os.WriteFile(path, []byte("\ufeffkoira\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	text, err := LoadLyrics(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if text != "koira\n" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestAnalyze(t *testing.T) {
	root := t.TempDir()
	writeSong(t, root, "Paleface", "Helsinki_y2010y", "b.txt", "koira\nvoita\n")
	writeSong(t, root, "Paleface", "Helsinki_y2010y", "a.txt", "talo\n")
	writeSong(t, root, "Paleface", "Demo", "notes.md", "ignored")
	writeSong(t, root, "Asa", "Album_y2005y", "song.txt", "koira voita talo\n")

	res, err := Analyze(context.Background(), root, Options{
		Analyze:          model.AnalyzeConfig{Lang: "fi", Workers: 2},
		VocabularySample: 3,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Songs) != 3 {
		t.Fatalf("expected 3 songs, got %d", len(res.Songs))
	}
	order := []string{res.Songs[0].Song, res.Songs[1].Song, res.Songs[2].Song}
	if !reflect.DeepEqual(order, []string{"song.txt", "a.txt", "b.txt"}) {
		t.Fatalf("unexpected song order %v", order)
	}
	b := res.Songs[2]
	if b.AvgRhymeLength != 3 || b.LongestLength != 3 || b.LongestExcerpt != "kOIrA\nvOItA" {
		t.Fatalf("unexpected score %+v", b)
	}

	if len(res.Artists) != 2 {
		t.Fatalf("expected 2 artists, got %d", len(res.Artists))
	}
	asa, pale := res.Artists[0], res.Artists[1]
	if asa.Artist != "Asa" || asa.AvgRhymeLength != 1.5 || asa.TotalWords != 3 || asa.Vocabulary != 3 {
		t.Fatalf("unexpected artist score %+v", asa)
	}
	if pale.Songs != 2 || pale.AvgRhymeLength != 1.5 || pale.Vocabulary != 3 {
		t.Fatalf("unexpected artist score %+v", pale)
	}
}

func TestAnalyzeFilters(t *testing.T) {
	root := t.TempDir()
	writeSong(t, root, "Paleface", "One", "a.txt", "koira\n")
	writeSong(t, root, "Paleface", "Two", "b.txt", "voita\n")
	writeSong(t, root, "Asa", "One", "c.txt", "talo\n")

	res, err := Analyze(context.Background(), root, Options{
		Analyze: model.AnalyzeConfig{Lang: "fi", Artist: "Paleface", Album: "Two"},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(res.Songs) != 1 || res.Songs[0].Song != "b.txt" {
		t.Fatalf("unexpected songs %+v", res.Songs)
	}
}

func TestAnalyzeFailures(t *testing.T) {
	root := t.TempDir()
	writeSong(t, root, "Artist", "Album", "a.txt", "hello there\n")

	_, err := Analyze(context.Background(), root, Options{
		Analyze: model.AnalyzeConfig{Lang: "en-us"},
	})
	if !errors.Is(err, lyrics.ErrNoTranscriber) {
		t.Fatalf("expected ErrNoTranscriber, got %v", err)
	}

	res, err := Analyze(context.Background(), root, Options{
		Analyze: model.AnalyzeConfig{Lang: "en-us", SkipFailed: true},
	})
	if err != nil {
		t.Fatalf("skip-failed run must succeed: %v", err)
	}
	if len(res.Songs) != 0 || len(res.Failed) != 1 || len(res.Artists) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

type cancelingTranscriber struct {
	cancel context.CancelFunc
}

func (c cancelingTranscriber) Transcribe(ctx context.Context, _, _ string) (string, error) {
	c.cancel()
	return "", ctx.Err()
}

func TestAnalyzeSkipFailedStillReportsCancellation(t *testing.T) {
	root := t.TempDir()
	writeSong(t, root, "Artist", "Album", "a.txt", "hello there\n")
	writeSong(t, root, "Artist", "Album", "b.txt", "over there\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := Analyze(ctx, root, Options{
		Analyze:     model.AnalyzeConfig{Lang: "en-us", Workers: 1, SkipFailed: true},
		Transcriber: cancelingTranscriber{cancel: cancel},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
