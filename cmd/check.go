package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chriserin/apolog/internal/config"
	"github.com/chriserin/apolog/internal/outline"
	"github.com/chriserin/apolog/internal/parser"
	"github.com/chriserin/apolog/internal/tree"
	"github.com/chriserin/apolog/internal/ui"
)

var quietFlag bool

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Parse feature files and print their expanded outline",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCheck(cmd.OutOrStdout(), args, quietFlag)
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Only print parse errors and the summary")
	rootCmd.AddCommand(checkCmd)
}

type checkCounts struct {
	scenarios int
	steps     int
}

func RunCheck(w io.Writer, paths []string, quiet bool) error {
	if len(paths) == 0 {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		for _, pattern := range cfg.Features {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", pattern, err)
			}
			paths = append(paths, matches...)
		}
		sort.Strings(paths)
	}

	var (
		counts checkCounts
		failed int
	)
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		feature, err := parser.Parse(path, content)
		if err != nil {
			ui.ParseErrorLine(w, path, err)
			failed++
			continue
		}
		printFeature(w, feature, &counts, quiet)
	}

	ui.CheckSummary(w, len(paths), counts.scenarios, counts.steps, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(paths))
	}
	return nil
}

func printFeature(w io.Writer, feature *tree.Node, counts *checkCounts, quiet bool) {
	if !quiet {
		ui.NodeLine(w, 0, feature.Keyword, feature.Name)
	}
	for _, child := range feature.Children {
		for _, inst := range outline.Expand(child) {
			counts.scenarios++
			if quiet {
				counts.steps += len(inst.Children)
				if feature.Background != nil {
					counts.steps += len(feature.Background.Children)
				}
				continue
			}
			ui.NodeLine(w, 1, inst.Keyword, inst.Name)
			if feature.Background != nil {
				bg := outline.WithRow(feature.Background, inst.Example)
				ui.NodeLine(w, 2, bg.Keyword, bg.Name)
				printSteps(w, 3, bg, counts)
			}
			printSteps(w, 2, inst, counts)
		}
	}
}

func printSteps(w io.Writer, depth int, parent *tree.Node, counts *checkCounts) {
	for _, step := range parent.Children {
		s := outline.WithRow(step, parent.Example)
		ui.StepLine(w, depth, s.Keyword, s.Name)
		counts.steps++
	}
}
