package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
)

// KVStore is a flat string key/value table. It satisfies workbench.Store.
type KVStore struct {
	db *DB
}

// NewKVStore creates a new key/value store.
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Load returns the value saved under key. ok is false when the key is absent.
func (s *KVStore) Load(key string) (string, bool, error) {
	var value string
	err := s.db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %q: %w", key, err)
	}
	return value, true, nil
}

// Save upserts key.
func (s *KVStore) Save(key, value string) error {
	_, err := s.db.conn.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *KVStore) Delete(key string) error {
	if _, err := s.db.conn.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys returns every stored key in lexical order.
func (s *KVStore) Keys() ([]string, error) {
	rows, err := s.db.conn.Query(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Clear removes every key.
func (s *KVStore) Clear() error {
	_, err := s.db.conn.Exec(`DELETE FROM kv`)
	return err
}
