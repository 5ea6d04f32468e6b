package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/apolog/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the errors of the most recent run by kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatusReport(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatusReport(w io.Writer) error {
	sqlDB, err := openHistory()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	runs, err := db.ListRuns(sqlDB, 1)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no recorded runs")
		return nil
	}
	last := runs[0]

	fmt.Fprintf(w, "Last run: %s\n", last.RunID)
	fmt.Fprintf(w, "Documents: %d\n", last.Documents)
	fmt.Fprintf(w, "Errors: %d\n", last.ErrorCount)
	if last.ErrorCount == 0 {
		return nil
	}

	counts, err := db.ErrorCounts(sqlDB, last.ID)
	if err != nil {
		return err
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %s %s: %d\n", c.Kind, c.NodeType, c.Count)
	}
	return nil
}
