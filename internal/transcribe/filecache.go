package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	cacheExt  = ".phon"
	lockRetry = 25 * time.Millisecond
)

// FileCache keeps one plain-text transcription file per key in Dir. Each entry
// is guarded by a lock file so concurrent workers never read a partial write.
type FileCache struct {
	Dir string
}

// NewFileCache returns a cache rooted at dir.
func NewFileCache(dir string) *FileCache {
	return &FileCache{Dir: dir}
}

// Path returns the cache file path for key.
func (c *FileCache) Path(key string) string {
	return filepath.Join(c.Dir, url.PathEscape(key)+cacheExt)
}

// Get reads the cached transcription for key.
func (c *FileCache) Get(ctx context.Context, key string) (string, bool, error) {
	path := c.Path(key)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to stat cache entry: %w", err)
	}
	lock := flock.New(path + ".lock")
	if _, err := lock.TryRLockContext(ctx, lockRetry); err != nil {
		return "", false, fmt.Errorf("failed to lock cache entry: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return string(data), true, nil
}

// Put writes value for key via a temp file and rename.
func (c *FileCache) Put(ctx context.Context, key, value string) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	path := c.Path(key)
	lock := flock.New(path + ".lock")
	if _, err := lock.TryLockContext(ctx, lockRetry); err != nil {
		return fmt.Errorf("failed to lock cache entry: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	tmpFile, err := os.CreateTemp(c.Dir, "transcription-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache entry: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.WriteString(value); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close cache entry: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move cache entry: %w", err)
	}
	return nil
}
