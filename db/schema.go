// ABOUTME: Database schema for the SQLite key-value backend
// ABOUTME: One table of named JSON collections plus a schema version marker
package db

import (
	"database/sql"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_kv_updated_at ON kv(updated_at);

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);
`

// InitSchema creates the tables if needed and records the schema version once.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		_, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion)
		return err
	}
	return nil
}
