// Package transcribe converts normalized English lyrics into an eSpeak phoneme
// stream and caches the result per song.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/verte-zerg/raplyzer/internal/logging"
)

var (
	// ErrEmptyTranscription is returned when the tool produced no phonemes.
	ErrEmptyTranscription = errors.New("empty transcription")
	// ErrToolUnavailable is returned when the transcription tool cannot be started.
	ErrToolUnavailable = errors.New("transcription tool unavailable")
)

// exclamationArtifact is what eSpeak emits for a lone "!" in -x mode.
const exclamationArtifact = "_:'Ekskl@m,eIS@n_:"

// Transcriber turns text into a phonetic symbol stream. The key identifies the
// song and is used for caching.
type Transcriber interface {
	Transcribe(ctx context.Context, key, text string) (string, error)
}

// Cache stores raw transcriptions by key.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Cached wraps a transcriber with a get-or-compute cache. A hit is returned
// without invoking the inner transcriber. Only raw tool output is cached;
// Clean runs on every read.
type Cached struct {
	inner  Transcriber
	cache  Cache
	logger *slog.Logger
}

// NewCached builds a caching transcriber. A nil cache disables caching.
func NewCached(inner Transcriber, cache Cache, logger *slog.Logger) *Cached {
	if cache == nil {
		cache = NopCache{}
	}
	return &Cached{inner: inner, cache: cache, logger: logging.OrNop(logger)}
}

// Transcribe returns the cleaned transcription for key.
func (c *Cached) Transcribe(ctx context.Context, key, text string) (string, error) {
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read transcription cache: %w", err)
	}
	if ok {
		c.logger.Debug("transcription cache hit", slog.String("key", key))
	} else {
		c.logger.Debug("transcribing", slog.String("key", key), slog.Int("chars", len(text)))
		raw, err = c.inner.Transcribe(ctx, key, text)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(raw) == "" {
			return "", fmt.Errorf("%w for %q", ErrEmptyTranscription, key)
		}
		if err := c.cache.Put(ctx, key, raw); err != nil {
			return "", fmt.Errorf("failed to write transcription cache: %w", err)
		}
	}
	cleaned := Clean(raw)
	if strings.TrimSpace(cleaned) == "" {
		return "", fmt.Errorf("%w for %q", ErrEmptyTranscription, key)
	}
	return cleaned, nil
}

// Clean removes notation artifacts from raw eSpeak output: the spelled-out
// exclamation mark, stress/quotation markers and comma separators.
func Clean(raw string) string {
	out := strings.ReplaceAll(raw, exclamationArtifact, "")
	out = strings.ReplaceAll(out, "'", "")
	return strings.ReplaceAll(out, ",", "")
}

// NopCache never hits and discards writes.
type NopCache struct{}

// Get always misses.
func (NopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }

// Put discards the value.
func (NopCache) Put(context.Context, string, string) error { return nil }
