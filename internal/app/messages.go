package app

import "github.com/willibrandon/squeal/internal/export"

// HistoryRecordedMsg is sent after a run has been written to the history store
type HistoryRecordedMsg struct {
	Err error
}

// ExportDoneMsg is sent when an export finishes or fails
type ExportDoneMsg struct {
	Result *export.Result
	Err    error
}

// CopiedMsg is sent after text has been handed to the clipboard
type CopiedMsg struct {
	What string
	Err  error
}

// toastExpiredMsg clears the toast it was scheduled for
type toastExpiredMsg struct {
	id int
}
