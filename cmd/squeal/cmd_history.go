package main

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/willibrandon/squeal/internal/storage/sqlite"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit    int
		search   string
		graph    bool
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously run statements",
		Long: `Show the statements run from the workbench, the CLI and the HTTP API, newest
first. Running the same statement again moves it to the top and bumps its run count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1, got %d", limit)
			}

			e, err := openEnv("squeal-cli")
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			if clearAll {
				n, err := e.history.Count(ctx)
				if err != nil {
					return err
				}
				if err := e.history.Clear(ctx); err != nil {
					return err
				}
				fmt.Printf("Cleared %s history entries\n", humanize.Comma(int64(n)))
				return nil
			}

			var entries []sqlite.HistoryEntry
			if search != "" {
				entries, err = e.history.Search(ctx, search, limit)
			} else {
				entries, err = e.history.GetRecent(ctx, limit)
			}
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println(faint("No history"))
				return nil
			}

			if graph {
				fmt.Println(rowGraph(entries, termWidth()))
				return nil
			}
			printHistory(os.Stdout, entries, termWidth())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	cmd.Flags().StringVarP(&search, "search", "s", "", "only entries whose SQL contains this text")
	cmd.Flags().BoolVar(&graph, "graph", false, "plot row counts instead of listing")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all history")
	return cmd
}

func printHistory(w io.Writer, entries []sqlite.HistoryEntry, width int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"When", "Tab", "Rows", "Runs", "SQL"})

	sqlWidth := max(width-48, 20)
	for _, e := range entries {
		rows := humanize.Comma(int64(e.RowCount))
		if e.Failed() {
			rows = red("error")
		}
		t.AppendRow(table.Row{
			humanize.Time(e.ExecutedAt),
			e.TabTitle,
			rows,
			e.Runs,
			truncate(e.SQL, sqlWidth),
		})
	}
	t.Render()
}

// rowGraph plots the row count of each entry, oldest on the left.
func rowGraph(entries []sqlite.HistoryEntry, width int) string {
	data := make([]float64, len(entries))
	for i, e := range entries {
		data[i] = float64(e.RowCount)
	}
	slices.Reverse(data)
	if len(data) == 1 {
		data = append(data, data[0])
	}

	return asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(min(max(width-12, 10), 120)),
		asciigraph.Caption(fmt.Sprintf("rows per run, last %d statements", len(entries))),
	)
}
