// ABOUTME: SQLite implementation of the repository's key-value collaborator
// ABOUTME: Values are opaque bytes keyed by collection name
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/bizdash/store"
)

// KVStore keeps named collections in the kv table.
type KVStore struct {
	db *sql.DB
}

// OpenKVStore opens (or creates) the database at path.
func OpenKVStore(path string) (*KVStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return &KVStore{db: db}, nil
}

// NewKVStore wraps an already opened database.
func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns store.ErrNotFound for a key that was never written.
func (s *KVStore) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *KVStore) Set(key, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(key), value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(key []byte) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in lexical order.
func (s *KVStore) Keys() ([][]byte, error) {
	rows, err := s.db.Query(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys [][]byte
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, []byte(k))
	}
	return keys, rows.Err()
}

// UpdatedAt reports when key was last written.
func (s *KVStore) UpdatedAt(key string) (time.Time, error) {
	var ts time.Time
	err := s.db.QueryRow(`SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, store.ErrNotFound
	}
	return ts, err
}

func (s *KVStore) Close() error {
	return s.db.Close()
}
