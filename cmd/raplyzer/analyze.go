package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/raplyzer/internal/config"
	"github.com/verte-zerg/raplyzer/internal/corpus"
	"github.com/verte-zerg/raplyzer/internal/lyrics"
	"github.com/verte-zerg/raplyzer/internal/model"
	"github.com/verte-zerg/raplyzer/internal/phonetics"
	"github.com/verte-zerg/raplyzer/internal/report"
	"github.com/verte-zerg/raplyzer/internal/store"
	"github.com/verte-zerg/raplyzer/internal/transcribe"
)

var (
	songCurve bool
	songWords bool

	corpusArtist     string
	corpusAlbum      string
	corpusWorkers    int
	corpusSkipFailed bool
	corpusNoSave     bool
	corpusTopRhymes  int
	corpusTopSongs   int
	corpusVocabulary int
)

func newSongCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "song <file>",
		Short: "Analyze a single lyrics file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSongCmd,
	}
	cmd.Flags().BoolVar(&songCurve, "curve", false, "plot the rhyme length of every word")
	cmd.Flags().BoolVar(&songWords, "words", false, "print the normalized words")
	return cmd
}

func runSongCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := corpus.LoadLyrics(path)
	if err != nil {
		return fmt.Errorf("failed to read lyrics: %w", err)
	}

	cfg := analyzeConfig()
	env, err := openAnalysisEnv(cfg.Lang, false)
	if err != nil {
		return err
	}
	defer env.close()

	song, err := lyrics.New(cmd.Context(), filepath.ToSlash(filepath.Clean(path)), raw, lyrics.Options{
		Lang:        cfg.Lang,
		Lookback:    cfg.Lookback,
		Transcriber: env.transcriber,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	length, excerpt := song.LongestRhyme()
	var b strings.Builder
	fmt.Fprintf(&b, "Song: %s\n", path)
	fmt.Fprintf(&b, "Language: %s  Lookback: %d  Words: %d\n", song.Lang(), song.Lookback(), len(song.Words()))
	fmt.Fprintf(&b, "Average rhyme length: %.3f\n", song.AvgRhymeLength())
	if length > 0 {
		fmt.Fprintf(&b, "Longest rhyme (%d):\n%s\n", length, excerpt)
	} else {
		b.WriteString("Longest rhyme: none\n")
	}
	if songWords {
		b.WriteString("\nWords:\n")
		for _, w := range song.Words() {
			b.WriteString(w.Text)
			b.WriteByte('\n')
		}
	}
	if _, err := fmt.Fprint(out, b.String()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if songCurve {
		lengths := song.RhymeLengths()
		values := make([]float64, len(lengths))
		for i, l := range lengths {
			values[i] = float64(l)
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := report.PlotCurve(out, "Rhyme length per word", values, 0, 0); err != nil {
			return fmt.Errorf("failed to plot curve: %w", err)
		}
	}
	return nil
}

func newCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus [dir]",
		Short: "Analyze a lyrics tree of <artist>/<album>/<song>.txt",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCorpusCmd,
	}
	cmd.Flags().StringVar(&corpusArtist, "artist", "", "only analyze this artist directory")
	cmd.Flags().StringVar(&corpusAlbum, "album", "", "only analyze this album directory")
	cmd.Flags().IntVar(&corpusWorkers, "workers", 0, "songs analyzed in parallel (0: number of CPUs)")
	cmd.Flags().BoolVar(&corpusSkipFailed, "skip-failed", false, "log and skip songs that cannot be analyzed")
	cmd.Flags().BoolVar(&corpusNoSave, "no-save", false, "do not store the run")
	cmd.Flags().IntVar(&corpusTopRhymes, "top-rhymes", report.DefaultTopRhymes, "longest rhymes listed")
	cmd.Flags().IntVar(&corpusTopSongs, "top-songs", report.DefaultTopSongs, "best songs listed")
	cmd.Flags().IntVar(&corpusVocabulary, "vocabulary-sample", corpus.DefaultVocabularySample, "words per artist used for vocabulary size")
	return cmd
}

func runCorpusCmd(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	applyIntConfig(cmd, "workers", &corpusWorkers, fileCfg.Analyze.Workers)
	applyBoolConfig(cmd, "skip-failed", &corpusSkipFailed, fileCfg.Analyze.SkipFailed)
	applyIntConfig(cmd, "top-rhymes", &corpusTopRhymes, fileCfg.Report.TopRhymes)
	applyIntConfig(cmd, "top-songs", &corpusTopSongs, fileCfg.Report.TopSongs)
	applyIntConfig(cmd, "vocabulary-sample", &corpusVocabulary, fileCfg.Report.VocabularySample)
	if corpusWorkers < 0 {
		return fmt.Errorf("--workers must be >= 0")
	}
	if corpusTopRhymes <= 0 || corpusTopSongs <= 0 || corpusVocabulary <= 0 {
		return fmt.Errorf("--top-rhymes, --top-songs and --vocabulary-sample must be > 0")
	}

	analyze := analyzeConfig()
	analyze.Artist = corpusArtist
	analyze.Album = corpusAlbum
	analyze.Workers = corpusWorkers
	analyze.SkipFailed = corpusSkipFailed
	reportCfg := model.ReportConfig{
		TopRhymes:        corpusTopRhymes,
		TopSongs:         corpusTopSongs,
		VocabularySample: corpusVocabulary,
	}

	env, err := openAnalysisEnv(analyze.Lang, !corpusNoSave)
	if err != nil {
		return err
	}
	defer env.close()

	startedAt := time.Now()
	res, err := corpus.Analyze(cmd.Context(), root, corpus.Options{
		Analyze:          analyze,
		VocabularySample: reportCfg.VocabularySample,
		Transcriber:      env.transcriber,
		Logger:           logger,
	})
	if err != nil {
		return err
	}
	if err := report.Write(cmd.OutOrStdout(), report.Build(res, reportCfg)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if corpusNoSave {
		return nil
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	profile, err := phonetics.Lookup(analyze.Lang)
	if err != nil {
		return err
	}
	lookback := analyze.Lookback
	if lookback == 0 {
		lookback = profile.DefaultLookback()
	}
	id, err := env.store.SaveRun(cmd.Context(), model.Run{
		StartedAt: startedAt,
		Root:      absRoot,
		Lang:      profile.Tag(),
		Lookback:  lookback,
		Songs:     res.Songs,
		Artists:   res.Artists,
		Failed:    res.Failed,
	})
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	logger.Info("run saved", slog.String("run", id), slog.Int("songs", len(res.Songs)))
	logErrf("Saved run %s (browse with: raplyzer browse --run %s)\n", id, id)
	return nil
}

// analysisEnv bundles the store and transcriber used by one command.
type analysisEnv struct {
	store       *store.Store
	transcriber transcribe.Transcriber
}

// openAnalysisEnv opens the database when the run is saved or the SQLite
// transcription cache is selected, and builds the transcriber for phonetic
// languages.
func openAnalysisEnv(lang string, needStore bool) (*analysisEnv, error) {
	profile, err := phonetics.Lookup(lang)
	if err != nil {
		return nil, err
	}
	backend := config.CacheSQLite
	if fileCfg.Transcriber.Cache != nil {
		backend = *fileCfg.Transcriber.Cache
	}

	env := &analysisEnv{}
	if needStore || (profile.Phonetic() && backend == config.CacheSQLite) {
		env.store, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
	}
	if !profile.Phonetic() {
		return env, nil
	}

	var cache transcribe.Cache
	switch backend {
	case config.CacheSQLite:
		cache = env.store
	case config.CacheFile:
		dir := config.DefaultTranscriptionDir()
		if fileCfg.Transcriber.CacheDir != nil && *fileCfg.Transcriber.CacheDir != "" {
			dir = *fileCfg.Transcriber.CacheDir
		}
		cache = transcribe.NewFileCache(dir)
	default:
		cache = transcribe.NopCache{}
	}
	espeak := transcribe.NewEspeak(config.EspeakBinary(fileCfg), profile.Voice())
	env.transcriber = transcribe.NewCached(espeak, cache, logger)
	return env, nil
}

func (e *analysisEnv) close() {
	if e.store != nil {
		closeWithLog("db", e.store)
	}
}
