package session

import "fmt"

// Session is the ordered tab collection plus the active tab id.
// The zero value is not usable; build one with New or Default.
type Session struct {
	tabs   []Tab
	active string
	ids    IDGenerator
}

// Option configures a Session.
type Option func(*Session)

// WithIDGenerator sets the generator used by AddTab.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		if g != nil {
			s.ids = g
		}
	}
}

// New builds a session from tabs and a preferred active id.
// Invalid tab sets fall back to DefaultTabs. An active id that does not resolve
// becomes the first tab.
func New(tabs []Tab, activeID string, opts ...Option) Session {
	s := Session{ids: NewTimeIDs()}
	for _, opt := range opts {
		opt(&s)
	}

	if Validate(tabs) != nil {
		tabs = DefaultTabs()
	}
	s.tabs = append([]Tab(nil), tabs...)
	s.active = s.resolve(activeID)
	return s
}

// Default returns the seed session with tab-1 active.
func Default(opts ...Option) Session {
	return New(DefaultTabs(), DefaultActiveID, opts...)
}

func (s Session) resolve(id string) string {
	if s.Index(id) >= 0 {
		return id
	}
	return s.tabs[0].ID
}

// Tabs returns a copy of the tab collection in display order.
func (s Session) Tabs() []Tab {
	return append([]Tab(nil), s.tabs...)
}

// Len returns the number of tabs.
func (s Session) Len() int {
	return len(s.tabs)
}

// ActiveID returns the active tab id.
func (s Session) ActiveID() string {
	return s.active
}

// Active returns the active tab.
func (s Session) Active() Tab {
	if i := s.Index(s.active); i >= 0 {
		return s.tabs[i]
	}
	return s.tabs[0]
}

// ActiveIndex returns the display position of the active tab.
func (s Session) ActiveIndex() int {
	if i := s.Index(s.active); i >= 0 {
		return i
	}
	return 0
}

// Tab looks up a tab by id.
func (s Session) Tab(id string) (Tab, bool) {
	if i := s.Index(id); i >= 0 {
		return s.tabs[i], true
	}
	return Tab{}, false
}

// Index returns the position of id, or -1.
func (s Session) Index(id string) int {
	for i, t := range s.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// AddTab appends an empty tab titled after the new tab count and makes it active.
func (s Session) AddTab() (Session, Tab) {
	tab := Tab{
		ID:    s.ids.NewID(func(id string) bool { return s.Index(id) >= 0 }),
		Title: fmt.Sprintf("Tab %d", len(s.tabs)+1),
	}

	next := s.clone()
	next.tabs = append(next.tabs, tab)
	next.active = tab.ID
	return next, tab
}

// RemoveTab drops the tab with id. Removing the active tab activates the first
// remaining tab; removing the last tab restores the default tab set.
func (s Session) RemoveTab(id string) Session {
	i := s.Index(id)
	if i < 0 {
		return s
	}

	remaining := make([]Tab, 0, len(s.tabs)-1)
	remaining = append(remaining, s.tabs[:i]...)
	remaining = append(remaining, s.tabs[i+1:]...)

	next := s.clone()
	if len(remaining) == 0 {
		next.tabs = DefaultTabs()
		next.active = next.tabs[0].ID
		return next
	}

	next.tabs = remaining
	if s.active == id {
		next.active = remaining[0].ID
	}
	return next
}

// RenameTab replaces the title of id.
func (s Session) RenameTab(id, title string) Session {
	return s.update(id, func(t *Tab) { t.Title = title })
}

// UpdateCode replaces the code of id.
func (s Session) UpdateCode(id, code string) Session {
	return s.update(id, func(t *Tab) { t.Code = code })
}

// SetActive selects id. Unknown ids are ignored.
func (s Session) SetActive(id string) Session {
	if s.Index(id) < 0 || s.active == id {
		return s
	}
	next := s.clone()
	next.active = id
	return next
}

// Cycle moves the active selection by delta positions, wrapping around.
func (s Session) Cycle(delta int) Session {
	n := len(s.tabs)
	i := ((s.ActiveIndex()+delta)%n + n) % n
	return s.SetActive(s.tabs[i].ID)
}

func (s Session) update(id string, fn func(*Tab)) Session {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	next := s.clone()
	fn(&next.tabs[i])
	return next
}

func (s Session) clone() Session {
	return Session{
		tabs:   append([]Tab(nil), s.tabs...),
		active: s.active,
		ids:    s.ids,
	}
}
