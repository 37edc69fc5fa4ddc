package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/willibrandon/squeal/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		tabID  string
		format string
		gzip   bool
	)

	cmd := &cobra.Command{
		Use:   "export [PATH]",
		Short: "Run a tab and write the result to a file",
		Long: `Run the active tab (or --tab ID) and write the rows to PATH.

Without PATH the file is named after the tab and placed in export.dir. The format
extension, and .gz with --gzip, are added when missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			e, err := openEnv("squeal-cli")
			if err != nil {
				return err
			}
			defer e.Close()

			if !cmd.Flags().Changed("gzip") {
				gzip = e.cfg.Export.Gzip
			}

			run, err := runTab(cmd.Context(), e, tabID)
			if err != nil {
				return err
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				path = filepath.Join(e.cfg.Export.Dir, export.DefaultFilename(run.Title, run.At, f))
			}

			r, err := export.ToFile(run.Result, path, export.Options{Format: f, Gzip: gzip})
			if err != nil {
				if run.ErrorMessage() != "" {
					return errors.New(run.ErrorMessage())
				}
				return err
			}
			fmt.Println(green(export.FormatSuccess(r)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tabID, "tab", "t", "", "tab id to export (default: the active tab)")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "file format: csv, json")
	cmd.Flags().BoolVar(&gzip, "gzip", false, "gzip the file (default from export.gzip)")
	return cmd
}
