package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/raplyzer/internal/config"
	"github.com/verte-zerg/raplyzer/internal/store"
)

var cachePrefix string

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the SQLite transcription cache",
	}
	cmd.PersistentFlags().StringVar(&cachePrefix, "prefix", "", "only keys starting with this prefix")
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List cached transcription keys",
		Args:  cobra.NoArgs,
		RunE:  runCacheListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete cached transcriptions",
		Args:  cobra.NoArgs,
		RunE:  runCacheClearCmd,
	})
	return cmd
}

func runCacheListCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeWithLog("db", st)

	keys, err := st.ListTranscriptionKeys(cmd.Context(), cachePrefix)
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}
	for _, key := range keys {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), key); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runCacheClearCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeWithLog("db", st)

	n, err := st.DeleteTranscriptions(cmd.Context(), cachePrefix)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d cached transcriptions\n", n); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
