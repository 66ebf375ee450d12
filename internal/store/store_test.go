package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/verte-zerg/raplyzer/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "data", "raplyzer.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return st
}

func TestTranscriptionCache(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.Get(ctx, "Artist/Album/a.txt"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := st.Put(ctx, "Artist/Album/a.txt", "l'aIt"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := st.Put(ctx, "Artist/Album/a.txt", "m'aIt"); err != nil {
		t.Fatalf("put replace: %v", err)
	}
	if err := st.Put(ctx, "Other/Album/b.txt", "h@l'oU"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := st.Get(ctx, "Artist/Album/a.txt")
	if err != nil || !ok || got != "m'aIt" {
		t.Fatalf("unexpected get %q ok=%v err=%v", got, ok, err)
	}

	keys, err := st.ListTranscriptionKeys(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"Artist/Album/a.txt", "Other/Album/b.txt"}) {
		t.Fatalf("unexpected keys %v", keys)
	}

	n, err := st.DeleteTranscriptions(ctx, "Artist/")
	if err != nil || n != 1 {
		t.Fatalf("expected 1 deleted, got %d err=%v", n, err)
	}
	keys, err = st.ListTranscriptionKeys(ctx, "Artist/")
	if err != nil || len(keys) != 0 {
		t.Fatalf("expected no keys left under prefix, got %v err=%v", keys, err)
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	older := model.Run{
		StartedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Root:      "/lyrics/fi",
		Lang:      "fi",
		Lookback:  10,
		Songs: []model.SongScore{
			{Artist: "Paleface", Album: "Helsinki_y2010y", Song: "b.txt", AvgRhymeLength: 3, LongestLength: 3, LongestExcerpt: "kOIrA\nvOItA", Words: 2},
			{Artist: "Paleface", Album: "Helsinki_y2010y", Song: "a.txt", Words: 1},
		},
		Artists: []model.ArtistScore{
			{Artist: "Paleface", Songs: 2, AvgRhymeLength: 1.5, TotalWords: 3},
		},
		Failed: []model.SongFailure{
			{Path: "/lyrics/fi/Paleface/Helsinki_y2010y/c.txt", Err: "invalid lookback"},
		},
	}
	olderID, err := st.SaveRun(ctx, older)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if olderID == "" {
		t.Fatalf("expected generated run id")
	}

	newer := model.Run{
		ID:        "fixed-id",
		StartedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		Root:      "/lyrics/en",
		Lang:      "en-us",
		Lookback:  15,
	}
	if _, err := st.SaveRun(ctx, newer); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := st.ListRuns(ctx, "")
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "fixed-id" || runs[1].ID != olderID || runs[1].SongCount != 2 {
		t.Fatalf("unexpected runs %+v", runs)
	}

	latest, err := st.LoadRun(ctx, "", "")
	if err != nil || latest.ID != "fixed-id" {
		t.Fatalf("expected latest run, got %+v err=%v", latest, err)
	}

	fi, err := st.LoadRun(ctx, "", "fi")
	if err != nil {
		t.Fatalf("load fi: %v", err)
	}
	if fi.ID != olderID || !fi.StartedAt.Equal(older.StartedAt) {
		t.Fatalf("unexpected run %+v", fi)
	}
	if !reflect.DeepEqual(fi.Songs, older.Songs) || !reflect.DeepEqual(fi.Artists, older.Artists) ||
		!reflect.DeepEqual(fi.Failed, older.Failed) {
		t.Fatalf("scores did not round trip: %+v", fi)
	}

	if _, err := st.LoadRun(ctx, "missing", ""); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestTranscriptionCacheConcurrentWriters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	value := strings.Repeat("h@l'oU ", 3000)

	const workers, perWorker = 16, 50
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("Artist/Album/%d-%d.txt", w, i)
				if err := st.Put(ctx, key, value); err != nil {
					errs <- err
					continue
				}
				if _, ok, err := st.Get(ctx, key); err != nil || !ok {
					errs <- fmt.Errorf("get %s: ok=%v err=%v", key, ok, err)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent cache access failed: %v", err)
	}

	keys, err := st.ListTranscriptionKeys(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != workers*perWorker {
		t.Fatalf("expected %d keys, got %d", workers*perWorker, len(keys))
	}
}
