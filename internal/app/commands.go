package app

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/export"
	"github.com/willibrandon/squeal/internal/logger"
	"github.com/willibrandon/squeal/internal/storage/sqlite"
	"github.com/willibrandon/squeal/internal/workbench"
)

const historyTimeout = 2 * time.Second

// recordHistory writes a finished run to the history store
func recordHistory(h HistoryRecorder, run workbench.Run) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()

		err := h.Add(ctx, sqlite.HistoryEntry{
			TabID:      run.TabID,
			TabTitle:   run.Title,
			SQL:        run.SQL,
			ExecutedAt: run.At,
			Duration:   run.Duration,
			RowCount:   run.RowCount(),
			Error:      run.ErrorMessage(),
		})
		return HistoryRecordedMsg{Err: err}
	}
}

// exportResult writes res under dir as CSV, named after the tab
func exportResult(res dispatch.Result, dir, title string, gzip bool, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, export.DefaultFilename(title, now, export.FormatCSV))
		r, err := export.ToFile(res, path, export.Options{Format: export.FormatCSV, Gzip: gzip})
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		logger.Info("Result exported", "path", r.FilePath, "rows", r.RowCount, "bytes", r.Bytes)
		return ExportDoneMsg{Result: r}
	}
}

// copyText hands text to the clipboard
func copyText(c Copier, what, text string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{What: what, Err: c.Write(text)}
	}
}

// expireToast schedules removal of toast id
func expireToast(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
