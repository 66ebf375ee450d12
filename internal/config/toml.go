// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EspeakEnv overrides the transcriber binary.
const EspeakEnv = "RAPLYZER_ESPEAK"

// Transcription cache backends.
const (
	CacheSQLite = "sqlite"
	CacheFile   = "file"
	CacheNone   = "none"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analyze     AnalyzeConfig     `toml:"analyze"`
	Report      ReportConfig      `toml:"report"`
	Transcriber TranscriberConfig `toml:"transcriber"`
	Log         LogConfig         `toml:"log"`
}

// AnalyzeConfig maps analysis settings.
type AnalyzeConfig struct {
	Lang       *string `toml:"lang"`
	Lookback   *int    `toml:"lookback"`
	Workers    *int    `toml:"workers"`
	SkipFailed *bool   `toml:"skip-failed"`
}

// ReportConfig maps report sizes.
type ReportConfig struct {
	TopRhymes        *int `toml:"top-rhymes"`
	TopSongs         *int `toml:"top-songs"`
	VocabularySample *int `toml:"vocabulary-sample"`
}

// TranscriberConfig maps the phonetic transcriber and its cache.
type TranscriberConfig struct {
	Binary   *string `toml:"binary"`
	Cache    *string `toml:"cache"`
	CacheDir *string `toml:"cache-dir"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (c FileConfig) validate() error {
	if c.Transcriber.Cache != nil {
		switch *c.Transcriber.Cache {
		case CacheSQLite, CacheFile, CacheNone:
		default:
			return fmt.Errorf("invalid transcriber cache %q (want %s, %s or %s)",
				*c.Transcriber.Cache, CacheSQLite, CacheFile, CacheNone)
		}
	}
	if c.Analyze.Lookback != nil && *c.Analyze.Lookback < 0 {
		return fmt.Errorf("lookback must be >= 0")
	}
	if c.Analyze.Workers != nil && *c.Analyze.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	return nil
}

// LoadEnv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadEnv() {
	// Best-effort: a missing .env is the common case.
	_ = godotenv.Load()
}

// EspeakBinary returns the transcriber binary, preferring the environment
// override over the config value.
func EspeakBinary(cfg FileConfig) string {
	if v := os.Getenv(EspeakEnv); v != "" {
		return v
	}
	if cfg.Transcriber.Binary != nil {
		return *cfg.Transcriber.Binary
	}
	return ""
}
