package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"

	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/export"
)

const defaultWidth = 80

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	faint = color.New(color.FgHiBlack).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func init() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
}

// termWidth returns the stdout width, or defaultWidth when it is not a terminal.
func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func printError(err error) {
	msg := wordwrap.WrapString("Error: "+err.Error(), uint(termWidth()))
	fmt.Fprintln(os.Stderr, red(msg))
}

// errNoRows is returned by renderers when a run produced nothing to print.
var errNoRows = errors.New("no result: this tab has no query routed to it")

// checkFormat rejects output formats renderResult cannot print.
func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "table", "md", "markdown", "csv", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q (valid: table, md, csv, json)", format)
}

// renderResult prints res in the named format: table, md, csv or json.
func renderResult(w io.Writer, res dispatch.Result, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	switch res.Kind {
	case dispatch.KindError:
		return errors.New(res.Message)
	case dispatch.KindNone:
		return errNoRows
	}

	switch strings.ToLower(format) {
	case "", "table":
		tableWriter(w, res).Render()
	case "md", "markdown":
		tableWriter(w, res).RenderMarkdown()
	case "csv":
		_, err := export.WriteCSV(w, res)
		return err
	case "json":
		_, err := export.WriteJSON(w, res)
		return err
	}
	return nil
}

func tableWriter(w io.Writer, res dispatch.Result) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	cols := res.Columns()
	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, row := range res.Rows {
		r := make(table.Row, len(cols))
		for i, c := range cols {
			v, _ := row.Get(c)
			r[i] = dispatch.FormatValue(v)
		}
		t.AppendRow(r)
	}
	return t
}

// truncate flattens whitespace and shortens s to width display cells.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 1 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
