package httpapi

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/prefs"
	"github.com/willibrandon/squeal/internal/session"
	"github.com/willibrandon/squeal/internal/storage/sqlite"
	"github.com/willibrandon/squeal/internal/workbench"
)

type fixture struct {
	handler http.Handler
	wb      *workbench.Workbench
	store   *workbench.MemoryStore
	history *sqlite.HistoryStore
}

func setupTestServer(t *testing.T) *fixture {
	t.Helper()

	disp, err := dispatch.New()
	require.NoError(t, err)
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "squeal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := workbench.NewMemoryStore(nil)
	wb := workbench.Open(store, disp)
	history := sqlite.NewHistoryStore(db)

	srv := NewServer(Config{Workbench: wb, History: history, Port: 7878})
	return &fixture{handler: srv.Handler(), wb: wb, store: store, history: history}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	f := setupTestServer(t)

	rec := f.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSession(t *testing.T) {
	f := setupTestServer(t)

	rec := f.do(t, http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Tabs      []session.Tab     `json:"tabs"`
		ActiveTab string            `json:"activeTab"`
		Prefs     prefs.Preferences `json:"prefs"`
		Result    json.RawMessage   `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, session.DefaultTabs(), view.Tabs)
	assert.Equal(t, session.DefaultActiveID, view.ActiveTab)
	assert.Equal(t, prefs.Default(), view.Prefs)
	assert.JSONEq(t, "null", string(view.Result))
}

func TestTabLifecycle(t *testing.T) {
	f := setupTestServer(t)

	rec := f.do(t, http.MethodPost, "/api/tabs", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	tab := decodeBody[session.Tab](t, rec)
	assert.NotEmpty(t, tab.ID)
	assert.Equal(t, tab.ID, f.wb.State().Session.ActiveID())

	rec = f.do(t, http.MethodPatch, "/api/tabs/"+tab.ID, `{"title":"scratch","code":"SELECT 1;"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.Tab{ID: tab.ID, Title: "scratch", Code: "SELECT 1;"}, decodeBody[session.Tab](t, rec))

	rec = f.do(t, http.MethodPatch, "/api/tabs/"+tab.ID, `{"code":"SELECT 2;"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "scratch", decodeBody[session.Tab](t, rec).Title, "absent fields are kept")

	rec = f.do(t, http.MethodPut, "/api/active/tab-3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tab-3", f.wb.State().Session.ActiveID())

	rec = f.do(t, http.MethodDelete, "/api/tabs/"+tab.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, f.wb.State().Session.Len())

	raw, _, _ := f.store.Load(workbench.KeyActiveTab)
	assert.Equal(t, "tab-3", raw)
}

func TestTabErrors(t *testing.T) {
	f := setupTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"patch unknown", http.MethodPatch, "/api/tabs/tab-99", `{"title":"x"}`, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/tabs/tab-99", "", http.StatusNotFound},
		{"activate unknown", http.MethodPut, "/api/active/tab-99", "", http.StatusNotFound},
		{"blank title", http.MethodPatch, "/api/tabs/tab-2", `{"title":"  "}`, http.StatusBadRequest},
		{"bad json", http.MethodPatch, "/api/tabs/tab-2", `{"title":`, http.StatusBadRequest},
		{"unknown field", http.MethodPatch, "/api/tabs/tab-2", `{"name":"x"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, decodeBody[map[string]string](t, rec), "error")
		})
	}
	assert.Equal(t, session.DefaultTabs(), f.wb.State().Session.Tabs(), "failed requests change nothing")
}

func TestRun_NotFoundTable(t *testing.T) {
	f := setupTestServer(t)
	f.wb.SetActiveTab("tab-5")

	rec := f.do(t, http.MethodPost, "/api/run", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var run struct {
		TabID  string          `json:"tabId"`
		Kind   string          `json:"kind"`
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "tab-5", run.TabID)
	assert.Equal(t, "error", run.Kind)
	assert.JSONEq(t, `{"error":"Query failed: Table not found."}`, string(run.Result))

	rec = f.do(t, http.MethodGet, "/api/export.csv", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRunExportAndHistory(t *testing.T) {
	f := setupTestServer(t)
	f.wb.SetActiveTab("tab-4")

	rec := f.do(t, http.MethodPost, "/api/run", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := len(f.wb.State().Result.Rows)
	require.Positive(t, rows)

	rec = f.do(t, http.MethodGet, "/api/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "query-three-")
	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, rows+1)

	// a second run of the same statement is deduplicated
	f.do(t, http.MethodPost, "/api/run", "")

	rec = f.do(t, http.MethodGet, "/api/history?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeBody[[]HistoryView](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, "tab-4", entries[0].TabID)
	assert.Equal(t, 2, entries[0].Runs)
	assert.Equal(t, rows, entries[0].RowCount)

	rec = f.do(t, http.MethodGet, "/api/history?q=airlogs", "")
	assert.Empty(t, decodeBody[[]HistoryView](t, rec))

	rec = f.do(t, http.MethodGet, "/api/history?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryDisabled(t *testing.T) {
	disp, err := dispatch.New()
	require.NoError(t, err)
	srv := NewServer(Config{Workbench: workbench.Open(workbench.NewMemoryStore(nil), disp)})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}

func TestPrefs(t *testing.T) {
	f := setupTestServer(t)

	rec := f.do(t, http.MethodPut, "/api/prefs", `{"theme":"light"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, prefs.Preferences{Theme: prefs.ThemeLight, EditorMode: prefs.ModeNormal}, decodeBody[prefs.Preferences](t, rec))

	rec = f.do(t, http.MethodPut, "/api/prefs", `{"editorMode":"emacs"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/prefs", "")
	assert.Equal(t, prefs.ThemeLight, decodeBody[prefs.Preferences](t, rec).Theme)

	theme, _, _ := f.store.Load(workbench.KeyTheme)
	assert.Equal(t, "light", theme)
}
