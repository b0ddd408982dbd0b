// Package db provides storage for the channel directory and the query log.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/onduty/internal/roster"
)

// SQLite implements roster.Repository and the query log using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Load reads every channel and its timings in stored order.
func (s *SQLite) Load(ctx context.Context) (*roster.Directory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, subject
		FROM channels
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying channels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var channels []*roster.Channel
	byID := make(map[string]*roster.Channel)
	for rows.Next() {
		ch := &roster.Channel{Timings: []roster.Slot{}}
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Subject); err != nil {
			return nil, fmt.Errorf("scanning channel: %w", err)
		}
		channels = append(channels, ch)
		byID[ch.ID] = ch
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating channels: %w", err)
	}

	timingRows, err := s.db.QueryContext(ctx, `
		SELECT channel_id, time_range, name, user_id
		FROM timings
		ORDER BY channel_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying timings: %w", err)
	}
	defer func() { _ = timingRows.Close() }()

	for timingRows.Next() {
		var (
			channelID string
			slot      roster.Slot
		)
		if err := timingRows.Scan(&channelID, &slot.Time, &slot.Name, &slot.UserID); err != nil {
			return nil, fmt.Errorf("scanning timing: %w", err)
		}
		if ch, ok := byID[channelID]; ok {
			ch.Timings = append(ch.Timings, slot)
		}
	}
	if err := timingRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timings: %w", err)
	}

	return roster.NewDirectory(channels...), nil
}

// Save replaces the stored directory in a single transaction.
func (s *SQLite) Save(ctx context.Context, d *roster.Directory) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM timings`); err != nil {
		return fmt.Errorf("clearing timings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM channels`); err != nil {
		return fmt.Errorf("clearing channels: %w", err)
	}

	channelStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO channels (position, id, name, subject) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing channel statement: %w", err)
	}
	defer func() { _ = channelStmt.Close() }()

	timingStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO timings (channel_id, position, time_range, name, user_id) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing timing statement: %w", err)
	}
	defer func() { _ = timingStmt.Close() }()

	for i, ch := range d.List() {
		if _, err := channelStmt.ExecContext(ctx, i, ch.ID, ch.Name, ch.Subject); err != nil {
			return fmt.Errorf("inserting channel %s: %w", ch.ID, err)
		}
		for j, slot := range ch.Timings {
			if _, err := timingStmt.ExecContext(ctx, ch.ID, j, slot.Time, slot.Name, slot.UserID); err != nil {
				return fmt.Errorf("inserting timing %d of channel %s: %w", j, ch.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}
