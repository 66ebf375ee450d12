// Package corpus analyzes a directory tree of lyrics organised as
// <root>/<artist>/<album>/<song>.txt.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/raplyzer/internal/logging"
	"github.com/verte-zerg/raplyzer/internal/lyrics"
	"github.com/verte-zerg/raplyzer/internal/model"
	"github.com/verte-zerg/raplyzer/internal/transcribe"
)

// DefaultVocabularySample is the number of leading words used to count an
// artist's vocabulary.
const DefaultVocabularySample = 20000

// Options configures a corpus analysis.
type Options struct {
	Analyze          model.AnalyzeConfig
	VocabularySample int
	Transcriber      transcribe.Transcriber
	Logger           *slog.Logger
}

// Result holds per-song and per-artist scores in traversal order.
type Result struct {
	Songs   []model.SongScore
	Artists []model.ArtistScore
	Failed  []model.SongFailure
}

type job struct {
	artist string
	album  string
	song   string
	path   string
}

type outcome struct {
	score model.SongScore
	words []string
	err   error
}

// Analyze scores every song under root. Songs are analyzed concurrently;
// results keep directory order (artists and songs lexically, albums by year).
// A failing song aborts the run unless SkipFailed is set.
func Analyze(ctx context.Context, root string, opts Options) (Result, error) {
	logger := logging.OrNop(opts.Logger)
	jobs, err := collectJobs(root, opts.Analyze)
	if err != nil {
		return Result{}, err
	}
	logger.Info("analyzing corpus", slog.String("root", root), slog.Int("songs", len(jobs)))

	workers := opts.Analyze.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	songOpts := lyrics.Options{
		Lang:        opts.Analyze.Lang,
		Lookback:    opts.Analyze.Lookback,
		Transcriber: opts.Transcriber,
		Logger:      logger,
	}

	outcomes := make([]outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, j := range jobs {
		g.Go(func() error {
			out := analyzeSong(gctx, root, j, songOpts)
			outcomes[i] = out
			if out.err != nil {
				if opts.Analyze.SkipFailed {
					logger.Warn("skipping song", slog.String("path", j.path), slog.Any("error", out.err))
					return nil
				}
				return out.err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	// Skipped songs may hide a cancellation; a partial run is not a result.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	sample := opts.VocabularySample
	if sample <= 0 {
		sample = DefaultVocabularySample
	}
	return aggregate(jobs, outcomes, sample), nil
}

func analyzeSong(ctx context.Context, root string, j job, opts lyrics.Options) outcome {
	raw, err := LoadLyrics(j.path)
	if err != nil {
		return outcome{err: fmt.Errorf("failed to read %s: %w", j.path, err)}
	}
	song, err := lyrics.New(ctx, songKey(root, j.path), raw, opts)
	if err != nil {
		return outcome{err: err}
	}
	length, excerpt := song.LongestRhyme()
	words := song.Vocabulary()
	return outcome{
		score: model.SongScore{
			Artist:         j.artist,
			Album:          j.album,
			Song:           j.song,
			Path:           j.path,
			AvgRhymeLength: song.AvgRhymeLength(),
			LongestLength:  length,
			LongestExcerpt: excerpt,
			Words:          len(song.Words()),
		},
		words: words,
	}
}

func collectJobs(root string, cfg model.AnalyzeConfig) ([]job, error) {
	artists := []string{cfg.Artist}
	if cfg.Artist == "" {
		var err error
		if artists, err = listDirs(root); err != nil {
			return nil, err
		}
	}
	var jobs []job
	for _, artist := range artists {
		artistDir := filepath.Join(root, artist)
		albums := []string{cfg.Album}
		if cfg.Album == "" {
			names, err := listDirs(artistDir)
			if err != nil {
				return nil, err
			}
			albums = SortAlbumsByYear(names)
		}
		for _, album := range albums {
			albumDir := filepath.Join(artistDir, album)
			songs, err := listSongs(albumDir)
			if err != nil {
				return nil, err
			}
			for _, song := range songs {
				jobs = append(jobs, job{
					artist: artist,
					album:  album,
					song:   song,
					path:   filepath.Join(albumDir, song),
				})
			}
		}
	}
	return jobs, nil
}

func aggregate(jobs []job, outcomes []outcome, sample int) Result {
	var res Result
	type artistAcc struct {
		sum   float64
		songs int
		words []string
	}
	accs := map[string]*artistAcc{}
	var order []string
	for i, out := range outcomes {
		if out.err != nil {
			res.Failed = append(res.Failed, model.SongFailure{Path: jobs[i].path, Err: out.err.Error()})
			continue
		}
		res.Songs = append(res.Songs, out.score)
		acc, ok := accs[jobs[i].artist]
		if !ok {
			acc = &artistAcc{}
			accs[jobs[i].artist] = acc
			order = append(order, jobs[i].artist)
		}
		acc.sum += out.score.AvgRhymeLength
		acc.songs++
		acc.words = append(acc.words, out.words...)
	}
	for _, artist := range order {
		acc := accs[artist]
		res.Artists = append(res.Artists, model.ArtistScore{
			Artist:         artist,
			Songs:          acc.songs,
			AvgRhymeLength: acc.sum / float64(acc.songs),
			TotalWords:     len(acc.words),
			Vocabulary:     VocabularySize(acc.words, sample),
		})
	}
	return res
}

// VocabularySize counts distinct words among the first sample words. It
// returns 0 when fewer than sample words are available, so artists are only
// compared on equally long text.
func VocabularySize(words []string, sample int) int {
	if sample <= 0 || len(words) < sample {
		return 0
	}
	seen := make(map[string]struct{}, sample)
	for _, w := range words[:sample] {
		seen[w] = struct{}{}
	}
	return len(seen)
}
