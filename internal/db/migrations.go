package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS channels (
			position INTEGER NOT NULL,
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL DEFAULT '',
			subject  TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS timings (
			channel_id TEXT NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			time_range TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			user_id    TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (channel_id, position)
		);

		CREATE TABLE IF NOT EXISTS queries (
			id         TEXT PRIMARY KEY,
			day        TEXT NOT NULL,
			seq        INTEGER NOT NULL,
			chat_id    TEXT NOT NULL,
			user_id    TEXT NOT NULL DEFAULT '',
			text       TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_channels_position ON channels(position);
		CREATE INDEX IF NOT EXISTS idx_queries_day ON queries(day);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
