package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/export"
	"github.com/willibrandon/squeal/internal/layout"
	"github.com/willibrandon/squeal/internal/logger"
	"github.com/willibrandon/squeal/internal/prefs"
	"github.com/willibrandon/squeal/internal/session"
	"github.com/willibrandon/squeal/internal/storage/sqlite"
	"github.com/willibrandon/squeal/internal/workbench"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
	maxBodyBytes        = 1 << 20
	historyTimeout      = 2 * time.Second
)

// History records and lists runs.
type History interface {
	Add(ctx context.Context, e sqlite.HistoryEntry) error
	GetRecent(ctx context.Context, limit int) ([]sqlite.HistoryEntry, error)
	Search(ctx context.Context, query string, limit int) ([]sqlite.HistoryEntry, error)
}

// Handlers provides the HTTP handlers over one workbench.
type Handlers struct {
	wb      *workbench.Workbench
	history History
}

// NewHandlers creates a new Handlers instance. history may be nil.
func NewHandlers(wb *workbench.Workbench, history History) *Handlers {
	return &Handlers{wb: wb, history: history}
}

// SessionView is the JSON shape of GET /api/session.
type SessionView struct {
	Tabs      []session.Tab     `json:"tabs"`
	ActiveTab string            `json:"activeTab"`
	Prefs     prefs.Preferences `json:"prefs"`
	Layout    layout.Layout     `json:"layout"`
	Result    dispatch.Result   `json:"result"`
}

func sessionView(st workbench.State) SessionView {
	return SessionView{
		Tabs:      st.Session.Tabs(),
		ActiveTab: st.Session.ActiveID(),
		Prefs:     st.Prefs,
		Layout:    st.Layout,
		Result:    st.Result,
	}
}

// TabPatch is the body of PATCH /api/tabs/{id}. Absent fields are left alone.
type TabPatch struct {
	Title *string `json:"title"`
	Code  *string `json:"code"`
}

// RunView is the JSON shape of POST /api/run.
type RunView struct {
	TabID      string          `json:"tabId"`
	Title      string          `json:"title"`
	Kind       string          `json:"kind"`
	RowCount   int             `json:"rowCount"`
	DurationUS int64           `json:"durationUs"`
	At         time.Time       `json:"at"`
	Result     dispatch.Result `json:"result"`
}

// HistoryView is one entry of GET /api/history.
type HistoryView struct {
	ID         int64     `json:"id"`
	TabID      string    `json:"tabId"`
	TabTitle   string    `json:"tabTitle"`
	SQL        string    `json:"sql"`
	ExecutedAt time.Time `json:"executedAt"`
	DurationUS int64     `json:"durationUs"`
	RowCount   int       `json:"rowCount"`
	Error      string    `json:"error,omitempty"`
	Runs       int       `json:"runs"`
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Session returns the whole workbench state.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionView(h.wb.State()))
}

// AddTab opens an empty tab and makes it active.
func (h *Handlers) AddTab(w http.ResponseWriter, r *http.Request) {
	_, tab := h.wb.AddTab()
	writeJSON(w, http.StatusCreated, tab)
}

// UpdateTab renames a tab and/or replaces its SQL.
func (h *Handlers) UpdateTab(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.exists(w, id) {
		return
	}

	var patch TabPatch
	if !decode(w, r, &patch) {
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		writeError(w, http.StatusBadRequest, "title cannot be blank")
		return
	}

	if patch.Title != nil {
		h.wb.RenameTab(id, *patch.Title)
	}
	if patch.Code != nil {
		h.wb.UpdateCode(id, *patch.Code)
	}

	tab, err := h.wb.Lookup(id)
	if err != nil {
		// closed concurrently
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tab)
}

// RemoveTab closes a tab. Closing the last tab restores the default set.
func (h *Handlers) RemoveTab(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.exists(w, id) {
		return
	}
	writeJSON(w, http.StatusOK, sessionView(h.wb.RemoveTab(id)))
}

// SetActive selects a tab.
func (h *Handlers) SetActive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.exists(w, id) {
		return
	}
	writeJSON(w, http.StatusOK, sessionView(h.wb.SetActiveTab(id)))
}

// Run executes the active tab and records it in history.
func (h *Handlers) Run(w http.ResponseWriter, r *http.Request) {
	st := h.wb.Run()
	run := st.LastRun

	if h.history != nil {
		ctx, cancel := context.WithTimeout(r.Context(), historyTimeout)
		defer cancel()
		err := h.history.Add(ctx, sqlite.HistoryEntry{
			TabID:      run.TabID,
			TabTitle:   run.Title,
			SQL:        run.SQL,
			ExecutedAt: run.At,
			Duration:   run.Duration,
			RowCount:   run.RowCount(),
			Error:      run.ErrorMessage(),
		})
		if err != nil {
			logger.Warn("Failed to record run history", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, RunView{
		TabID:      run.TabID,
		Title:      run.Title,
		Kind:       run.Result.Kind.String(),
		RowCount:   run.RowCount(),
		DurationUS: run.Duration.Microseconds(),
		At:         run.At,
		Result:     run.Result,
	})
}

// ExportCSV streams the current result as CSV. A result without rows is 409.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	st := h.wb.State()

	var buf bytes.Buffer
	if _, err := export.WriteCSV(&buf, st.Result); err != nil {
		if errors.Is(err, export.ErrNoData) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	name := export.DefaultFilename(st.Session.Active().Title, time.Now(), export.FormatCSV)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// History lists recorded runs, newest first. ?q= filters by SQL text.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history is not enabled")
		return
	}

	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	var (
		entries []sqlite.HistoryEntry
		err     error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		entries, err = h.history.Search(r.Context(), q, limit)
	} else {
		entries, err = h.history.GetRecent(r.Context(), limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]HistoryView, len(entries))
	for i, e := range entries {
		out[i] = HistoryView{
			ID:         e.ID,
			TabID:      e.TabID,
			TabTitle:   e.TabTitle,
			SQL:        e.SQL,
			ExecutedAt: e.ExecutedAt,
			DurationUS: e.Duration.Microseconds(),
			RowCount:   e.RowCount,
			Error:      e.Error,
			Runs:       e.Runs,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// Prefs returns the current preferences.
func (h *Handlers) Prefs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.wb.State().Prefs)
}

// UpdatePrefs sets theme and/or editor mode. Unknown values are 400.
func (h *Handlers) UpdatePrefs(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme      *string `json:"theme"`
		EditorMode *string `json:"editorMode"`
	}
	if !decode(w, r, &body) {
		return
	}

	var (
		theme prefs.Theme
		mode  prefs.EditorMode
		err   error
	)
	if body.Theme != nil {
		if theme, err = prefs.ParseTheme(*body.Theme); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if body.EditorMode != nil {
		if mode, err = prefs.ParseEditorMode(*body.EditorMode); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	st := h.wb.State()
	if body.Theme != nil {
		st = h.wb.SetTheme(theme)
	}
	if body.EditorMode != nil {
		st = h.wb.SetEditorMode(mode)
	}
	writeJSON(w, http.StatusOK, st.Prefs)
}

func (h *Handlers) exists(w http.ResponseWriter, id string) bool {
	if _, err := h.wb.Lookup(id); err != nil {
		if errors.Is(err, workbench.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return false
	}
	return true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
