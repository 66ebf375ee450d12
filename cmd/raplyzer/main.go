// Package main provides the CLI entrypoint for raplyzer.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/raplyzer/internal/config"
	"github.com/verte-zerg/raplyzer/internal/corpus"
	"github.com/verte-zerg/raplyzer/internal/logging"
	"github.com/verte-zerg/raplyzer/internal/model"
	"github.com/verte-zerg/raplyzer/internal/phonetics"
	"github.com/verte-zerg/raplyzer/internal/report"
)

const (
	defaultLang      = "fi"
	defaultLogLevel  = "info"
	defaultLogFormat = "auto"
)

var (
	rootLang      string
	rootLookback  int
	rootLogLevel  string
	rootLogFormat string

	// Resolved in the persistent pre-run.
	fileCfg config.FileConfig
	logger  = logging.NewNop()
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "raplyzer",
		Short:             "Score rap lyrics by rhyme density",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setupCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootLang, "lang", defaultLang, "language tag (fi, en, en-us, en-gb)")
	flags.IntVar(&rootLookback, "lookback", 0, "preceding words searched for rhymes (0: language default)")
	flags.StringVar(&rootLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&rootLogFormat, "log-format", defaultLogFormat, "log format (auto, text, json)")

	rootCmd.AddCommand(newSongCmd())
	rootCmd.AddCommand(newCorpusCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func setupCmd(cmd *cobra.Command, _ []string) error {
	config.LoadEnv()
	var err error
	fileCfg, err = config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &rootLang, fileCfg.Analyze.Lang)
	applyIntConfig(cmd, "lookback", &rootLookback, fileCfg.Analyze.Lookback)
	applyStringConfig(cmd, "log-level", &rootLogLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &rootLogFormat, fileCfg.Log.Format)

	if _, err := phonetics.Lookup(rootLang); err != nil {
		return fmt.Errorf("--lang: %w", err)
	}
	if rootLookback < 0 {
		return fmt.Errorf("--lookback must be >= 0")
	}
	logger, err = logging.New(logging.Options{
		Level:  rootLogLevel,
		Format: rootLogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	for _, info := range phonetics.Supported() {
		kind := "orthographic"
		if info.Phonetic {
			kind = "phonetic (eSpeak)"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-6s lookback=%-3d %-18s %s\n",
			info.Tag, info.DefaultLookback, kind, info.Name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# raplyzer configuration
# Uncomment a value to enable it. CLI flags override config values.

[analyze]
# lang = %q              # Language tag: fi, en, en-us, en-gb
# lookback = 0            # Preceding words searched for rhymes (0: fi=10, en=15)
# workers = 0             # Songs analyzed in parallel (0: number of CPUs)
# skip-failed = false     # Keep going when a song cannot be analyzed

[report]
# top-rhymes = %d          # Longest rhymes listed
# top-songs = %d          # Best songs listed
# vocabulary-sample = %d  # Words per artist used for vocabulary size

[transcriber]
# binary = %q        # eSpeak binary (env %s overrides)
# cache = %q         # Transcription cache: sqlite, file or none
# cache-dir = ""          # Directory for the file cache

[log]
# level = %q           # debug, info, warn, error
# format = %q          # auto, text, json
`,
		defaultLang,
		report.DefaultTopRhymes,
		report.DefaultTopSongs,
		corpus.DefaultVocabularySample,
		"espeak",
		config.EspeakEnv,
		config.CacheSQLite,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func analyzeConfig() model.AnalyzeConfig {
	return model.AnalyzeConfig{
		Lang:     rootLang,
		Lookback: rootLookback,
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func closeWithLog(name string, closer interface{ Close() error }) {
	if err := closer.Close(); err != nil {
		logger.Warn("close failed", slog.String("resource", name), slog.Any("error", err))
	}
}
