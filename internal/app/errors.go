package app

import (
	"errors"
	"fmt"

	"github.com/willibrandon/squeal/internal/export"
	"github.com/willibrandon/squeal/internal/ui"
)

// FormatExportError turns an export failure into the notice shown to the user
func FormatExportError(err error) string {
	if errors.Is(err, export.ErrNoData) {
		return "Nothing to export: run a query that returns rows first."
	}
	return fmt.Sprintf("Export failed: %s", err.Error())
}

// FormatClipboardError turns a clipboard failure into the notice shown to the user
func FormatClipboardError(err error) string {
	if errors.Is(err, ui.ErrClipboardUnavailable) {
		return "Clipboard unavailable. Install wl-copy, xclip or xsel and try again."
	}
	return fmt.Sprintf("Copy failed: %s", err.Error())
}
