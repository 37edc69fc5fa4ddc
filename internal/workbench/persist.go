package workbench

import (
	"encoding/json"
	"fmt"

	"github.com/willibrandon/squeal/internal/logger"
	"github.com/willibrandon/squeal/internal/prefs"
	"github.com/willibrandon/squeal/internal/session"
)

// LoadSession restores the tab collection and active tab. Anything missing, unreadable
// or malformed falls back to the default tab set; the error never reaches the caller.
func LoadSession(store Store, opts ...session.Option) session.Session {
	tabs, err := loadTabs(store)
	if err != nil {
		logger.Warn("Discarding persisted tabs", "error", err)
		return session.Default(opts...)
	}
	if tabs == nil {
		return session.Default(opts...)
	}

	active, ok, err := store.Load(KeyActiveTab)
	if err != nil || !ok {
		active = ""
	}
	return session.New(tabs, active, opts...)
}

func loadTabs(store Store) ([]session.Tab, error) {
	raw, ok, err := store.Load(KeyTabs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyTabs, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var tabs []session.Tab
	if err := json.Unmarshal([]byte(raw), &tabs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyTabs, err)
	}
	if len(tabs) == 0 {
		return nil, nil
	}
	if err := session.Validate(tabs); err != nil {
		return nil, err
	}
	return tabs, nil
}

// LoadPrefs restores theme and editor mode. Each one falls back to base independently.
func LoadPrefs(store Store, base prefs.Preferences) prefs.Preferences {
	p := base

	if raw, ok, err := store.Load(KeyTheme); err == nil && ok {
		if theme, err := prefs.ParseTheme(raw); err == nil {
			p.Theme = theme
		} else {
			logger.Warn("Ignoring persisted theme", "value", raw)
		}
	}
	if raw, ok, err := store.Load(KeyEditorMode); err == nil && ok {
		if mode, err := prefs.ParseEditorMode(raw); err == nil {
			p.EditorMode = mode
		} else {
			logger.Warn("Ignoring persisted editor mode", "value", raw)
		}
	}
	return p
}

// SaveSession writes the tabs and active tab keys.
func SaveSession(store Store, s session.Session) error {
	data, err := json.Marshal(s.Tabs())
	if err != nil {
		return fmt.Errorf("encode tabs: %w", err)
	}
	if err := store.Save(KeyTabs, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", KeyTabs, err)
	}
	if err := store.Save(KeyActiveTab, s.ActiveID()); err != nil {
		return fmt.Errorf("save %s: %w", KeyActiveTab, err)
	}
	return nil
}

// SavePrefs writes the theme and editor mode keys.
func SavePrefs(store Store, p prefs.Preferences) error {
	if err := store.Save(KeyTheme, string(p.Theme)); err != nil {
		return fmt.Errorf("save %s: %w", KeyTheme, err)
	}
	if err := store.Save(KeyEditorMode, string(p.EditorMode)); err != nil {
		return fmt.Errorf("save %s: %w", KeyEditorMode, err)
	}
	return nil
}
