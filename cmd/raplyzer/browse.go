package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/raplyzer/internal/browse"
	"github.com/verte-zerg/raplyzer/internal/config"
	"github.com/verte-zerg/raplyzer/internal/model"
	"github.com/verte-zerg/raplyzer/internal/report"
	"github.com/verte-zerg/raplyzer/internal/store"
)

var (
	browseRun    string
	browseList   bool
	browseReport bool
)

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a stored corpus run",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
	cmd.Flags().StringVar(&browseRun, "run", "", "run ID (default: latest run)")
	cmd.Flags().BoolVar(&browseList, "list", false, "list stored runs instead of opening the browser")
	cmd.Flags().BoolVar(&browseReport, "report", false, "print the run report instead of opening the browser")
	return cmd
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeWithLog("db", st)

	cfg := model.BrowseConfig{RunID: browseRun}
	if cmd.Flags().Changed("lang") {
		cfg.Lang = rootLang
	}

	if browseList {
		runs, err := st.ListRuns(cmd.Context(), cfg.Lang)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		for _, r := range runs {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-5s  songs=%-5d %s\n",
				r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Lang, r.SongCount, r.Root); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		return nil
	}

	run, err := st.LoadRun(cmd.Context(), cfg.RunID, cfg.Lang)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) && cfg.RunID == "" {
			return fmt.Errorf("no stored runs; analyze a corpus first with: raplyzer corpus <dir>")
		}
		return fmt.Errorf("failed to load run: %w", err)
	}

	reportCfg := model.ReportConfig{}
	if fileCfg.Report.TopRhymes != nil {
		reportCfg.TopRhymes = *fileCfg.Report.TopRhymes
	}
	if fileCfg.Report.TopSongs != nil {
		reportCfg.TopSongs = *fileCfg.Report.TopSongs
	}
	if browseReport {
		if err := report.Write(cmd.OutOrStdout(), report.FromRun(run, reportCfg)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}
	program := tea.NewProgram(browse.NewModel(run, reportCfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	return nil
}
