package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const songExt = ".txt"

var albumYear = regexp.MustCompile(`^.+y(\d{4})y$`)

// LoadLyrics reads a lyrics file. Invalid UTF-8 sequences are replaced and a
// leading byte order mark is dropped; an empty file is not an error.
func LoadLyrics(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.ToValidUTF8(string(data), "\ufffd")
	return strings.TrimPrefix(text, "\ufeff"), nil
}

// AlbumYear extracts the year encoded as a "yYYYYy" suffix, or 0.
func AlbumYear(album string) int {
	m := albumYear.FindStringSubmatch(album)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

// SortAlbumsByYear orders albums by their encoded year. Albums without a year
// come first and keep their relative order.
func SortAlbumsByYear(albums []string) []string {
	out := append([]string(nil), albums...)
	sort.SliceStable(out, func(i, j int) bool {
		return AlbumYear(out[i]) < AlbumYear(out[j])
	})
	return out
}

func listDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func listSongs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, songExt) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DisplayName turns a directory name into a readable label.
func DisplayName(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func songKey(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
