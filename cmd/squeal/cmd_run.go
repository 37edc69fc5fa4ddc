package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/storage/sqlite"
	"github.com/willibrandon/squeal/internal/workbench"
)

func newRunCmd() *cobra.Command {
	var (
		tabID  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a tab and print the result",
		Long: `Run the active tab (or --tab ID) through the mock engine and print the result.

Formats: table (default), md, csv, json. Running a tab makes it the active tab.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			e, err := openEnv("squeal-cli")
			if err != nil {
				return err
			}
			defer e.Close()

			run, err := runTab(cmd.Context(), e, tabID)
			if err != nil {
				return err
			}
			if err := renderResult(os.Stdout, run.Result, format); err != nil {
				return err
			}
			if run.Result.Kind == dispatch.KindRows && (format == "" || format == "table") {
				fmt.Fprintln(os.Stderr, faint(fmt.Sprintf("%s rows in %s", humanize.Comma(int64(run.RowCount())), run.Duration.Round(time.Microsecond))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tabID, "tab", "t", "", "tab id to run (default: the active tab)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, md, csv, json")
	return cmd
}

// runTab activates tabID when given, runs it and records the run in history.
func runTab(ctx context.Context, e *env, tabID string) (workbench.Run, error) {
	if tabID != "" {
		if _, err := e.wb.Lookup(tabID); err != nil {
			return workbench.Run{}, err
		}
		e.wb.SetActiveTab(tabID)
	}

	st := e.wb.Run()
	run := *st.LastRun

	err := e.history.Add(ctx, sqlite.HistoryEntry{
		TabID:      run.TabID,
		TabTitle:   run.Title,
		SQL:        run.SQL,
		ExecutedAt: run.At,
		Duration:   run.Duration,
		RowCount:   run.RowCount(),
		Error:      run.ErrorMessage(),
	})
	if err != nil {
		return run, fmt.Errorf("failed to record history: %w", err)
	}
	return run, nil
}
