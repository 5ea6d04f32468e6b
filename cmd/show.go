package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/apolog/internal/db"
	"github.com/chriserin/apolog/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the unbound nodes of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// RunShow prints a run's errors. runID may be any unique prefix.
func RunShow(w io.Writer, runID string) error {
	sqlDB, err := openHistory()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	run, err := db.FindRun(sqlDB, runID)
	if err != nil {
		return err
	}
	errs, err := db.RunErrors(sqlDB, run.ID)
	if err != nil {
		return err
	}

	ui.RunHeader(w, run.RunID, run.StartedAt)
	if len(errs) == 0 {
		ui.NoErrors(w)
		return nil
	}
	for _, e := range errs {
		ui.RunErrorLine(w, e.Kind, e.NodeType, e.NodeName, e.FilePath)
	}
	return nil
}
