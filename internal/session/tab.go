// Package session holds the open SQL tabs and the active tab selection.
//
// A Session is an immutable snapshot: every mutation returns a new Session and leaves
// the receiver untouched, so callers can keep the previous value for diffing or undo.
package session

import (
	_ "embed"
	"fmt"
)

// Tab is one editable SQL document.
type Tab struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Code  string `json:"code"`
}

//go:embed readme.sql
var readme string

// DefaultActiveID is the tab selected when nothing else resolves.
const DefaultActiveID = "tab-1"

// DefaultTabs returns a fresh copy of the seed tab set.
func DefaultTabs() []Tab {
	return []Tab{
		{ID: "tab-1", Title: "Readme.md", Code: readme},
		{ID: "tab-2", Title: "query-one", Code: "SELECT * FROM airlogs;"},
		{ID: "tab-3", Title: "query-two", Code: "SELECT * FROM airlogs WHERE flight_duration > 2;"},
		{ID: "tab-4", Title: "query-three", Code: "SELECT * from users;"},
		{ID: "tab-5", Title: "query-four", Code: "SELECT * from ufotable;"},
	}
}

// Validate reports whether tabs can seed a session: non-empty, every id set and unique.
func Validate(tabs []Tab) error {
	if len(tabs) == 0 {
		return fmt.Errorf("no tabs")
	}
	seen := make(map[string]struct{}, len(tabs))
	for i, t := range tabs {
		if t.ID == "" {
			return fmt.Errorf("tab %d has an empty id", i)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("duplicate tab id %q", t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
