package main

import (
	"fmt"
	"time"

	"github.com/willibrandon/squeal/internal/config"
	"github.com/willibrandon/squeal/internal/dispatch"
	"github.com/willibrandon/squeal/internal/layout"
	"github.com/willibrandon/squeal/internal/logger"
	"github.com/willibrandon/squeal/internal/prefs"
	"github.com/willibrandon/squeal/internal/session"
	"github.com/willibrandon/squeal/internal/storage/sqlite"
	"github.com/willibrandon/squeal/internal/workbench"
)

// env is everything a command needs: configuration, the state database and the
// workbench restored from it.
type env struct {
	cfg     *config.Config
	db      *sqlite.DB
	kv      *sqlite.KVStore
	history *sqlite.HistoryStore
	wb      *workbench.Workbench
}

// openEnv loads configuration, starts the log named logName and opens the workbench.
func openEnv(logName string) (*env, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}

	level := logger.LevelInfo
	if debug || cfg.Debug {
		level = logger.LevelDebug
	}
	if err := logger.Init(level, logger.DefaultPath(logName)); err != nil {
		return nil, err
	}
	logger.Debug("Starting", "version", version, "config", cfg.File, "db", cfg.Storage.Path)

	db, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	disp, err := newDispatcher(cfg.Dispatch)
	if err != nil {
		_ = db.Close()
		logger.Close()
		return nil, err
	}

	kv := sqlite.NewKVStore(db)
	wb := workbench.Open(kv, disp,
		workbench.WithIDGenerator(session.NewIDGenerator(cfg.Session.IDStyle)),
		workbench.WithLayout(layout.New(cfg.Layout.SplitRatio, cfg.Layout.SidebarWidth)),
		workbench.WithDefaultPrefs(basePrefs(cfg.UI)),
	)

	return &env{
		cfg:     cfg,
		db:      db,
		kv:      kv,
		history: sqlite.NewHistoryStore(db),
		wb:      wb,
	}, nil
}

// Close releases the database and the log file.
func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		logger.Warn("Failed to close state database", "error", err)
	}
	logger.Close()
}

func newDispatcher(cfg config.DispatchConfig) (*dispatch.Dispatcher, error) {
	var opts []dispatch.Option
	if cfg.Fallback != "" && cfg.Fallback != "none" {
		opts = append(opts, dispatch.WithFallback(cfg.Fallback))
	}
	if cfg.Sample {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		opts = append(opts, dispatch.WithSampler(dispatch.NewSeededSampler(seed, cfg.SampleMin)))
	}
	return dispatch.New(opts...)
}

// basePrefs turns the configured ui defaults into preferences. Config validation has
// already rejected unknown values.
func basePrefs(ui config.UIConfig) prefs.Preferences {
	p := prefs.Default()
	if t, err := prefs.ParseTheme(ui.Theme); err == nil {
		p.Theme = t
	}
	if m, err := prefs.ParseEditorMode(ui.EditorMode); err == nil {
		p.EditorMode = m
	}
	return p
}
