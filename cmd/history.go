package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/apolog/internal/config"
	"github.com/chriserin/apolog/internal/db"
	"github.com/chriserin/apolog/internal/ui"
)

var limitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunHistory(cmd.OutOrStdout(), limitFlag)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Number of runs to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path := cfg.HistoryPath()
	if path == "" {
		return nil, fmt.Errorf("run history is disabled in %s", filepath.Join(config.ProjectConfigDir, "config.yaml"))
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("run `apolog init` first")
	}
	sqlDB, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, nil
}

func RunHistory(w io.Writer, limit int) error {
	sqlDB, err := openHistory()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	runs, err := db.ListRuns(sqlDB, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no recorded runs")
		return nil
	}

	idWidth := 0
	for _, r := range runs {
		if len(r.RunID) > idWidth {
			idWidth = len(r.RunID)
		}
	}
	for _, r := range runs {
		ui.RunRow(w, r.RunID, r.StartedAt, r.Documents, r.ErrorCount, idWidth)
	}
	return nil
}
