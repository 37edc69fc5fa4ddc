// Package workbench is the application state of squeal: the tab session, pane layout,
// preferences and the last query result, behind an injected persistence Store.
//
// Every mutation replaces the current State with a new snapshot and writes the
// affected keys to the Store before returning.
package workbench

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/layout"
	"github.com/willibrandon/squeal/internal/logger"
	"github.com/willibrandon/squeal/internal/prefs"
	"github.com/willibrandon/squeal/internal/session"
)

// ErrNotFound is returned by Lookup for an id not in the session.
var ErrNotFound = errors.New("tab not found")

// State is an immutable snapshot of the workbench.
type State struct {
	Session session.Session
	Layout  layout.Layout
	Prefs   prefs.Preferences
	Result  dispatch.Result
	LastRun *Run
}

// Run describes the most recent execution.
type Run struct {
	TabID    string
	Title    string
	SQL      string
	At       time.Time
	Duration time.Duration
	Result   dispatch.Result
}

// RowCount returns the number of rows the run produced.
func (r Run) RowCount() int {
	return len(r.Result.Rows)
}

// ErrorMessage returns the error text of an error result, or "".
func (r Run) ErrorMessage() string {
	if r.Result.Kind == dispatch.KindError {
		return r.Result.Message
	}
	return ""
}

// Workbench owns the current State. It is safe for concurrent use; all writers are
// serialized.
type Workbench struct {
	mu    sync.Mutex
	store Store
	disp  *dispatch.Dispatcher
	state State
	now   func() time.Time

	sessOpts []session.Option
	base     prefs.Preferences
}

// Option configures a Workbench.
type Option func(*options)

type options struct {
	ids    session.IDGenerator
	layout layout.Layout
	prefs  prefs.Preferences
	now    func() time.Time
}

// WithIDGenerator sets the tab id generator.
func WithIDGenerator(g session.IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

// WithLayout sets the starting pane geometry.
func WithLayout(l layout.Layout) Option {
	return func(o *options) { o.layout = l }
}

// WithDefaultPrefs sets the preferences used when none are persisted, and by Reset.
func WithDefaultPrefs(p prefs.Preferences) Option {
	return func(o *options) { o.prefs = p }
}

// WithClock sets the clock used to stamp runs.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Open restores state from store. It never fails: unreadable state becomes defaults.
func Open(store Store, disp *dispatch.Dispatcher, opts ...Option) *Workbench {
	o := options{layout: layout.Default(), prefs: prefs.Default(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	var sessOpts []session.Option
	if o.ids != nil {
		sessOpts = append(sessOpts, session.WithIDGenerator(o.ids))
	}

	return &Workbench{
		store:    store,
		disp:     disp,
		now:      o.now,
		sessOpts: sessOpts,
		base:     o.prefs,
		state: State{
			Session: LoadSession(store, sessOpts...),
			Layout:  o.layout,
			Prefs:   LoadPrefs(store, o.prefs),
			Result:  dispatch.None(),
		},
	}
}

// State returns the current snapshot.
func (w *Workbench) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Lookup returns the tab with id, or ErrNotFound.
func (w *Workbench) Lookup(id string) (session.Tab, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.state.Session.Tab(id)
	if !ok {
		return session.Tab{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t, nil
}

// AddTab appends a new empty tab and activates it.
func (w *Workbench) AddTab() (State, session.Tab) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, tab := w.state.Session.AddTab()
	logger.Debug("Tab added", "id", tab.ID)
	return w.commitSession(next), tab
}

// RemoveTab closes id.
func (w *Workbench) RemoveTab(id string) State {
	return w.mutateSession(func(s session.Session) session.Session { return s.RemoveTab(id) })
}

// RenameTab sets the title of id.
func (w *Workbench) RenameTab(id, title string) State {
	return w.mutateSession(func(s session.Session) session.Session { return s.RenameTab(id, title) })
}

// UpdateCode replaces the SQL text of id.
func (w *Workbench) UpdateCode(id, code string) State {
	return w.mutateSession(func(s session.Session) session.Session { return s.UpdateCode(id, code) })
}

// SetActiveTab selects id when it exists.
func (w *Workbench) SetActiveTab(id string) State {
	return w.mutateSession(func(s session.Session) session.Session { return s.SetActive(id) })
}

// CycleTab moves the selection by delta tabs.
func (w *Workbench) CycleTab(delta int) State {
	return w.mutateSession(func(s session.Session) session.Session { return s.Cycle(delta) })
}

// SetTheme switches the colour theme.
func (w *Workbench) SetTheme(t prefs.Theme) State {
	return w.mutatePrefs(func(p prefs.Preferences) prefs.Preferences { return p.WithTheme(t) })
}

// ToggleTheme flips between dark and light.
func (w *Workbench) ToggleTheme() State {
	return w.mutatePrefs(func(p prefs.Preferences) prefs.Preferences { return p.WithTheme(p.Theme.Toggle()) })
}

// SetEditorMode switches the editor bindings.
func (w *Workbench) SetEditorMode(m prefs.EditorMode) State {
	return w.mutatePrefs(func(p prefs.Preferences) prefs.Preferences { return p.WithEditorMode(m) })
}

// ToggleEditorMode flips between normal and vim bindings.
func (w *Workbench) ToggleEditorMode() State {
	return w.mutatePrefs(func(p prefs.Preferences) prefs.Preferences {
		return p.WithEditorMode(p.EditorMode.Toggle())
	})
}

// SetLayout replaces the pane geometry. Layout is not persisted.
func (w *Workbench) SetLayout(l layout.Layout) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Layout = l
	return w.state
}

// Run executes the active tab against the dispatcher and keeps the result.
func (w *Workbench) Run() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	tab := w.state.Session.Active()
	start := w.now()
	res := w.disp.Run(tab.ID)

	w.state.Result = res
	w.state.LastRun = &Run{
		TabID:    tab.ID,
		Title:    tab.Title,
		SQL:      strings.TrimSpace(tab.Code),
		At:       start,
		Duration: w.now().Sub(start),
		Result:   res,
	}
	logger.Debug("Query dispatched", "tab", tab.ID, "kind", res.Kind.String(), "rows", len(res.Rows))
	return w.state
}

// ClearResult returns the result pane to the no-result state.
func (w *Workbench) ClearResult() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Result = dispatch.None()
	return w.state
}

// Reset restores the default session and the base preferences and persists them.
func (w *Workbench) Reset() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.Session = session.Default(w.sessOpts...)
	w.state.Prefs = w.base
	w.state.Result = dispatch.None()
	w.state.LastRun = nil
	w.save(SaveSession(w.store, w.state.Session))
	w.save(SavePrefs(w.store, w.state.Prefs))
	return w.state
}

func (w *Workbench) mutateSession(fn func(session.Session) session.Session) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.commitSession(fn(w.state.Session))
}

func (w *Workbench) commitSession(next session.Session) State {
	w.state.Session = next
	w.save(SaveSession(w.store, next))
	return w.state
}

func (w *Workbench) mutatePrefs(fn func(prefs.Preferences) prefs.Preferences) State {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.Prefs = fn(w.state.Prefs)
	w.save(SavePrefs(w.store, w.state.Prefs))
	return w.state
}

func (w *Workbench) save(err error) {
	if err != nil {
		logger.Warn("Failed to persist workbench state", "error", err)
	}
}
