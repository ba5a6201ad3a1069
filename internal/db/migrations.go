package db

import "database/sql"

func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Timestamps are stored as UTC RFC3339 text so that a corrupt expires_at can
// be detected at read time and treated as already expired.
const schema = `
CREATE TABLE IF NOT EXISTS urls (
    code               TEXT PRIMARY KEY,
    target_url         TEXT NOT NULL,
    created_at         TEXT NOT NULL,
    expires_at         TEXT NOT NULL DEFAULT '',
    created_ip         TEXT NOT NULL DEFAULT '',
    created_user_agent TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_urls_created_at ON urls(created_at);

CREATE TABLE IF NOT EXISTS clicks (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    code       TEXT NOT NULL,
    at         TEXT NOT NULL,
    ip         TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    referer    TEXT NOT NULL DEFAULT '',
    country    TEXT NOT NULL DEFAULT '',
    city       TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (code) REFERENCES urls(code)
);

CREATE INDEX IF NOT EXISTS idx_clicks_code ON clicks(code);
CREATE INDEX IF NOT EXISTS idx_clicks_at ON clicks(at);
`
