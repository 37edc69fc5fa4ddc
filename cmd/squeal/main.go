package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/willibrandon/squeal/internal/app"
	"github.com/willibrandon/squeal/internal/logger"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	dbPath     string
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "squeal",
		Short: "A terminal SQL workbench",
		Long: `squeal is a terminal SQL workbench: tabs of SQL on the left, an editor in the
middle and a result grid on the right. Queries run against a built-in mock
engine, so it works without any database.

Without a subcommand squeal opens the workbench. The subcommands work on the
same saved tabs and preferences from scripts:

  squeal run [--tab ID]        Run a tab and print the result
  squeal export [PATH]         Run a tab and write the result to a file
  squeal tabs                  List, add, remove, rename and select tabs
  squeal history               Show previously run statements
  squeal serve                 Serve the workbench as JSON over HTTP
  squeal reset                 Restore the default tabs and preferences
  squeal config                Write or show the configuration`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/squeal/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "state database path (overrides storage.path)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newRunCmd(),
		newExportCmd(),
		newTabsCmd(),
		newHistoryCmd(),
		newServeCmd(),
		newResetCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// runTUI opens the workbench in the alternate screen.
func runTUI() error {
	e, err := openEnv("squeal")
	if err != nil {
		return err
	}
	defer e.Close()

	if debug {
		fmt.Fprintf(os.Stderr, "Debug mode: Logs written to %s\n", logger.Path)
	}

	opts := app.Options{
		ExportDir:   e.cfg.Export.Dir,
		ExportGzip:  e.cfg.Export.Gzip,
		DateFormat:  e.cfg.UI.DateFormat,
		SyntaxDark:  e.cfg.UI.SyntaxThemeDark,
		SyntaxLight: e.cfg.UI.SyntaxThemeLite,
	}
	if e.history != nil {
		opts.History = e.history
	}
	model := app.New(e.wb, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if m, ok := finalModel.(app.Model); ok {
		m.Cleanup()
	}
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
