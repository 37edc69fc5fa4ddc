package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// historyLimit is how many distinct statements are retained.
const historyLimit = 1000

// HistoryEntry is one distinct statement that has been run.
type HistoryEntry struct {
	ID         int64
	TabID      string
	TabTitle   string
	SQL        string
	ExecutedAt time.Time
	Duration   time.Duration
	RowCount   int
	Error      string
	Runs       int
}

// Failed reports whether the last run produced an error result.
func (e HistoryEntry) Failed() bool {
	return e.Error != ""
}

// HistoryStore records runs with shell-style deduplication: running a statement
// again moves it to the top instead of adding a row.
type HistoryStore struct {
	db  *DB
	now func() time.Time
}

// NewHistoryStore creates a new history store.
func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db, now: time.Now}
}

// Fingerprint hashes the normalized form of sqlText, so statements that differ only
// in literals share a fingerprint. Text that does not parse as SQL hashes as-is.
func Fingerprint(sqlText string) int64 {
	normalized, err := pg_query.Normalize(sqlText)
	if err != nil {
		normalized = sqlText
	}
	return int64(pg_query.HashXXH3_64([]byte(normalized), 0))
}

// Add records a run. Blank statements are ignored. A zero ExecutedAt is stamped now.
func (s *HistoryStore) Add(ctx context.Context, e HistoryEntry) error {
	e.SQL = strings.TrimSpace(e.SQL)
	if e.SQL == "" {
		return nil
	}
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = s.now()
	}

	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO query_history (fingerprint, tab_id, tab_title, query, executed_at, duration_us, row_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			tab_id = excluded.tab_id,
			tab_title = excluded.tab_title,
			query = excluded.query,
			executed_at = excluded.executed_at,
			duration_us = excluded.duration_us,
			row_count = excluded.row_count,
			error = excluded.error,
			runs = runs + 1
	`, Fingerprint(e.SQL), e.TabID, e.TabTitle, e.SQL, e.ExecutedAt.UTC(), e.Duration.Microseconds(), e.RowCount, e.Error)
	if err != nil {
		return err
	}

	_, _ = s.db.conn.ExecContext(ctx, `
		DELETE FROM query_history
		WHERE id NOT IN (
			SELECT id FROM query_history
			ORDER BY executed_at DESC
			LIMIT ?
		)
	`, historyLimit)
	return nil
}

// GetRecent returns the most recent entries, newest first.
func (s *HistoryStore) GetRecent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	return s.Search(ctx, "", limit)
}

// Search returns entries whose text contains query (case-insensitive), newest first.
func (s *HistoryStore) Search(ctx context.Context, query string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	var (
		rows *sql.Rows
		err  error
	)
	const cols = `SELECT id, tab_id, tab_title, query, executed_at, duration_us, row_count, error, runs FROM query_history`
	if query == "" {
		rows, err = s.db.conn.QueryContext(ctx, cols+` ORDER BY executed_at DESC, id DESC LIMIT ?`, limit)
	} else {
		rows, err = s.db.conn.QueryContext(ctx,
			cols+` WHERE query LIKE ? ORDER BY executed_at DESC, id DESC LIMIT ?`, "%"+query+"%", limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			e  HistoryEntry
			us int64
		)
		if err := rows.Scan(&e.ID, &e.TabID, &e.TabTitle, &e.SQL, &e.ExecutedAt, &us, &e.RowCount, &e.Error, &e.Runs); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(us) * time.Microsecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of distinct statements recorded.
func (s *HistoryStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM query_history").Scan(&count)
	return count, err
}

// Clear deletes all history.
func (s *HistoryStore) Clear(ctx context.Context) error {
	_, err := s.db.conn.ExecContext(ctx, "DELETE FROM query_history")
	return err
}
