// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/raplyzer/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrRunNotFound is returned when no stored run matches a lookup.
var ErrRunNotFound = errors.New("run not found")

// Store wraps SQLite access for transcriptions and analysis runs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// Pragmas in the DSN apply to every pooled connection, so concurrent
	// cache writers wait for the lock instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transcriptions (
			key TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			root TEXT NOT NULL,
			lang TEXT NOT NULL,
			lookback INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS song_scores (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			artist TEXT NOT NULL,
			album TEXT NOT NULL,
			song TEXT NOT NULL,
			path TEXT NOT NULL,
			avg_rhyme_length REAL NOT NULL,
			longest_length INTEGER NOT NULL,
			longest_excerpt TEXT NOT NULL,
			words INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS artist_scores (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			artist TEXT NOT NULL,
			songs INTEGER NOT NULL,
			avg_rhyme_length REAL NOT NULL,
			total_words INTEGER NOT NULL,
			vocabulary INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS run_failures (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			path TEXT NOT NULL,
			error TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the cached raw transcription for key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT text FROM transcriptions WHERE key = ?`, key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// Put stores the raw transcription for key, replacing an older one.
func (s *Store) Put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcriptions (key, text, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET text = excluded.text, created_at = excluded.created_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// ListTranscriptionKeys returns cached keys, optionally filtered by prefix.
func (s *Store) ListTranscriptionKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM transcriptions WHERE substr(key, 1, length(?)) = ? ORDER BY key`, prefix, prefix)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteTranscriptions removes cached transcriptions whose key starts with
// prefix and returns how many were removed.
func (s *Store) DeleteTranscriptions(ctx context.Context, prefix string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transcriptions WHERE substr(key, 1, length(?)) = ?`, prefix, prefix)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SaveRun stores a run and its scores and returns the assigned run ID.
func (s *Store) SaveRun(ctx context.Context, run model.Run) (id string, err error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, root, lang, lookback) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Root, run.Lang, run.Lookback,
	); err != nil {
		return "", err
	}

	if len(run.Songs) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO song_scores (run_id, position, artist, album, song, path, avg_rhyme_length, longest_length, longest_excerpt, words)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, sc := range run.Songs {
			if _, err = stmt.ExecContext(ctx, run.ID, i, sc.Artist, sc.Album, sc.Song, sc.Path,
				sc.AvgRhymeLength, sc.LongestLength, sc.LongestExcerpt, sc.Words); err != nil {
				return "", err
			}
		}
	}

	if len(run.Artists) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO artist_scores (run_id, position, artist, songs, avg_rhyme_length, total_words, vocabulary)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, a := range run.Artists {
			if _, err = stmt.ExecContext(ctx, run.ID, i, a.Artist, a.Songs, a.AvgRhymeLength, a.TotalWords, a.Vocabulary); err != nil {
				return "", err
			}
		}
	}

	if len(run.Failed) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO run_failures (run_id, position, path, error) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, f := range run.Failed {
			if _, err = stmt.ExecContext(ctx, run.ID, i, f.Path, f.Err); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

// ListRuns returns stored runs, newest first, optionally filtered by language.
func (s *Store) ListRuns(ctx context.Context, lang string) ([]model.RunSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if lang != "" {
		clauses = append(clauses, "r.lang = ?")
		args = append(args, lang)
	}
	query := fmt.Sprintf(`SELECT r.id, r.started_at, r.root, r.lang, r.lookback,
			(SELECT COUNT(*) FROM song_scores s WHERE s.run_id = r.id)
		FROM runs r
		WHERE %s
		ORDER BY r.started_at DESC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		var startedAt string
		if err := rows.Scan(&r.ID, &startedAt, &r.Root, &r.Lang, &r.Lookback, &r.SongCount); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		r.StartedAt = parsed
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// LoadRun returns a stored run with its scores. An empty id selects the most
// recent run, optionally restricted to lang.
func (s *Store) LoadRun(ctx context.Context, id, lang string) (model.Run, error) {
	runs, err := s.ListRuns(ctx, lang)
	if err != nil {
		return model.Run{}, err
	}
	var summary *model.RunSummary
	for i := range runs {
		if id == "" || runs[i].ID == id {
			summary = &runs[i]
			break
		}
	}
	if summary == nil {
		if id == "" {
			return model.Run{}, ErrRunNotFound
		}
		return model.Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	run := model.Run{
		ID:        summary.ID,
		StartedAt: summary.StartedAt,
		Root:      summary.Root,
		Lang:      summary.Lang,
		Lookback:  summary.Lookback,
	}
	if run.Songs, err = s.listSongScores(ctx, run.ID); err != nil {
		return model.Run{}, err
	}
	if run.Artists, err = s.listArtistScores(ctx, run.ID); err != nil {
		return model.Run{}, err
	}
	if run.Failed, err = s.listFailures(ctx, run.ID); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

func (s *Store) listSongScores(ctx context.Context, runID string) ([]model.SongScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT artist, album, song, path, avg_rhyme_length, longest_length, longest_excerpt, words
		 FROM song_scores WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SongScore
	for rows.Next() {
		var sc model.SongScore
		if err := rows.Scan(&sc.Artist, &sc.Album, &sc.Song, &sc.Path, &sc.AvgRhymeLength,
			&sc.LongestLength, &sc.LongestExcerpt, &sc.Words); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) listArtistScores(ctx context.Context, runID string) ([]model.ArtistScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT artist, songs, avg_rhyme_length, total_words, vocabulary
		 FROM artist_scores WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ArtistScore
	for rows.Next() {
		var a model.ArtistScore
		if err := rows.Scan(&a.Artist, &a.Songs, &a.AvgRhymeLength, &a.TotalWords, &a.Vocabulary); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) listFailures(ctx context.Context, runID string) ([]model.SongFailure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, error FROM run_failures WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SongFailure
	for rows.Next() {
		var f model.SongFailure
		if err := rows.Scan(&f.Path, &f.Err); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
