package session

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time { return t }
}

func newTestSession(tabs []Tab, active string) Session {
	return New(tabs, active, WithIDGenerator(&TimeIDs{Now: fixedClock()}))
}

func TestDefault(t *testing.T) {
	s := Default()

	require.Equal(t, 5, s.Len())
	assert.Equal(t, DefaultActiveID, s.ActiveID())
	assert.Equal(t, "Readme.md", s.Active().Title)
	assert.Contains(t, s.Active().Code, "-- readme")
}

func TestNew_FallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name string
		tabs []Tab
	}{
		{"nil", nil},
		{"empty", []Tab{}},
		{"missing id", []Tab{{Title: "x"}}},
		{"duplicate ids", []Tab{{ID: "a"}, {ID: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.tabs, "a")
			assert.Equal(t, DefaultTabs(), s.Tabs())
			assert.Equal(t, DefaultActiveID, s.ActiveID())
		})
	}
}

func TestNew_ResolvesActive(t *testing.T) {
	tabs := []Tab{{ID: "a"}, {ID: "b"}}

	assert.Equal(t, "b", New(tabs, "b").ActiveID())
	assert.Equal(t, "a", New(tabs, "gone").ActiveID())
	assert.Equal(t, "a", New(tabs, "").ActiveID())
}

func TestAddTab(t *testing.T) {
	s := newTestSession(nil, "")

	next, tab := s.AddTab()

	assert.Equal(t, s.Len()+1, next.Len())
	assert.Equal(t, tab.ID, next.ActiveID())
	assert.Equal(t, "Tab 6", tab.Title)
	assert.Empty(t, tab.Code)
	assert.Equal(t, 5, s.Len(), "receiver must not change")
	assert.Equal(t, DefaultActiveID, s.ActiveID())
}

func TestAddTab_UniqueIDsWithFrozenClock(t *testing.T) {
	s := newTestSession(nil, "")
	seen := map[string]bool{}
	for _, tab := range s.Tabs() {
		seen[tab.ID] = true
	}

	for i := 0; i < 50; i++ {
		var tab Tab
		s, tab = s.AddTab()
		require.False(t, seen[tab.ID], "duplicate id %s", tab.ID)
		seen[tab.ID] = true
	}
	assert.Equal(t, 55, s.Len())
}

func TestAddTab_SkipsTakenID(t *testing.T) {
	clock := fixedClock()
	taken := "tab-" + "1700000000000"
	s := New([]Tab{{ID: taken}}, taken, WithIDGenerator(&TimeIDs{Now: clock}))

	_, tab := s.AddTab()

	assert.Equal(t, "tab-1700000000001", tab.ID)
}

func TestRemoveTab_ActiveMovesToFirstRemaining(t *testing.T) {
	s := newTestSession(nil, "tab-3")

	next := s.RemoveTab("tab-3")

	assert.Equal(t, 4, next.Len())
	assert.Equal(t, "tab-1", next.ActiveID())
	_, ok := next.Tab("tab-3")
	assert.False(t, ok)
}

func TestRemoveTab_InactiveKeepsActive(t *testing.T) {
	s := newTestSession(nil, "tab-3")

	next := s.RemoveTab("tab-1")

	assert.Equal(t, "tab-3", next.ActiveID())
}

func TestRemoveTab_LastTabRestoresDefaults(t *testing.T) {
	s := newTestSession([]Tab{{ID: "only", Title: "solo"}}, "only")

	next := s.RemoveTab("only")

	assert.Equal(t, DefaultTabs(), next.Tabs())
	assert.Equal(t, DefaultActiveID, next.ActiveID())
}

func TestRemoveTab_UnknownIsNoop(t *testing.T) {
	s := newTestSession(nil, "tab-2")

	next := s.RemoveTab("nope")

	assert.Equal(t, s.Tabs(), next.Tabs())
	assert.Equal(t, "tab-2", next.ActiveID())
}

func TestScenario_AddTwoRemoveFirst(t *testing.T) {
	s := newTestSession(DefaultTabs()[:1], "tab-1")
	seed := s.ActiveID()

	s, first := s.AddTab()
	s, second := s.AddTab()
	require.Equal(t, 3, s.Len())
	require.NotEqual(t, first.ID, second.ID)

	s = s.SetActive(seed).RemoveTab(seed)

	assert.Equal(t, first.ID, s.ActiveID())
	assert.Equal(t, 2, s.Len())
}

func TestRenameTab(t *testing.T) {
	s := newTestSession(nil, "")

	next := s.RenameTab("tab-2", "Readme.md")

	tab, _ := next.Tab("tab-2")
	assert.Equal(t, "Readme.md", tab.Title, "titles need not be unique")
	assert.Equal(t, "SELECT * FROM airlogs;", tab.Code)
	old, _ := s.Tab("tab-2")
	assert.Equal(t, "query-one", old.Title)
}

func TestUpdateCode(t *testing.T) {
	s := newTestSession(nil, "")

	next := s.UpdateCode("tab-4", "SELECT 1;")

	tab, _ := next.Tab("tab-4")
	assert.Equal(t, "SELECT 1;", tab.Code)
	for _, other := range next.Tabs() {
		if other.ID != "tab-4" {
			prev, _ := s.Tab(other.ID)
			assert.Equal(t, prev, other)
		}
	}
}

func TestSetActive(t *testing.T) {
	s := newTestSession(nil, "")

	assert.Equal(t, "tab-4", s.SetActive("tab-4").ActiveID())
	assert.Equal(t, DefaultActiveID, s.SetActive("missing").ActiveID())
}

func TestCycle(t *testing.T) {
	s := newTestSession(nil, "tab-5")

	assert.Equal(t, "tab-1", s.Cycle(1).ActiveID())
	assert.Equal(t, "tab-4", s.Cycle(-1).ActiveID())
	assert.Equal(t, "tab-5", s.Cycle(5).ActiveID())
}

func TestTabsReturnsCopy(t *testing.T) {
	s := newTestSession(nil, "")

	tabs := s.Tabs()
	tabs[0].Title = "mutated"

	assert.Equal(t, "Readme.md", s.Active().Title)
}

func TestRandomAddRemoveKeepsInvariants(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	s := newTestSession(nil, "")

	for i := 0; i < 500; i++ {
		if r.IntN(2) == 0 {
			s, _ = s.AddTab()
		} else {
			tabs := s.Tabs()
			s = s.RemoveTab(tabs[r.IntN(len(tabs))].ID)
		}

		require.Positive(t, s.Len())
		require.NoError(t, Validate(s.Tabs()))
		_, ok := s.Tab(s.ActiveID())
		require.True(t, ok, "active %s must resolve", s.ActiveID())
	}
}
