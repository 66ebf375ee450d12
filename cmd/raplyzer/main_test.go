package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("raplyzer %s: %v\n%s", strings.Join(args, " "), err, errOut.String())
	}
	return out.String()
}

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLangsCmd(t *testing.T) {
	setupEnv(t)
	out := execute(t, "langs")
	for _, want := range []string{"fi", "en-us", "lookback=10", "lookback=15"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSongCmd(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "song.txt")
	writeFile(t, path, "koira\nvoita\n")

	out := execute(t, "song", "--lang", "fi", "--words", path)
	for _, want := range []string{
		"Average rhyme length: 3.000",
		"Longest rhyme (3):\nkOIrA\nvOItA\n",
		"Words:\nkoira\nvoita\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSongCmdRejectsUnknownLanguage(t *testing.T) {
	setupEnv(t)
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"song", "--lang", "sv", "missing.txt"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
}

func TestCorpusCmdSavesRun(t *testing.T) {
	setupEnv(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Pale_Face", "Helsinki_y2010y", "a.txt"), "koira\nvoita\n")

	out := execute(t, "corpus", "--log-level", "error", root)
	for _, want := range []string{"Best rhymes", "Best songs", "Best artists", "Pale Face"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	runs := execute(t, "browse", "--list")
	if !strings.Contains(runs, "songs=1") || !strings.Contains(runs, "fi") {
		t.Fatalf("expected stored run, got:\n%s", runs)
	}
}

func TestConfigOverridesDefaults(t *testing.T) {
	setupEnv(t)
	writeFile(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "raplyzer", "config.toml"), "[analyze]\nlookback = 1\n")
	path := filepath.Join(t.TempDir(), "song.txt")
	writeFile(t, path, "koira\nvoita\n")

	out := execute(t, "song", path)
	if !strings.Contains(out, "Lookback: 1 ") {
		t.Fatalf("expected lookback from config, got:\n%s", out)
	}
	out = execute(t, "song", "--lookback", "4", path)
	if !strings.Contains(out, "Lookback: 4 ") {
		t.Fatalf("expected flag to win over config, got:\n%s", out)
	}
}

func TestBrowseReportKeepsFailedSongs(t *testing.T) {
	setupEnv(t)
	t.Setenv("RAPLYZER_ESPEAK", filepath.Join(t.TempDir(), "missing-espeak"))
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Artist", "Album", "a.txt"), "hello there\n")

	out := execute(t, "corpus", "--lang", "en-us", "--skip-failed", "--log-level", "error", root)
	if !strings.Contains(out, "Failed songs\n") {
		t.Fatalf("expected failed songs in corpus report:\n%s", out)
	}

	stored := execute(t, "browse", "--report")
	if !strings.Contains(stored, "Failed songs\n") || !strings.Contains(stored, "a.txt") {
		t.Fatalf("expected failed songs in stored report:\n%s", stored)
	}
}
