package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Query is one question raised by a chat member.
type Query struct {
	ID        string
	ChatID    string
	UserID    string
	Text      string
	CreatedAt time.Time
}

// RaiseQuery appends a query to the log and returns it with its generated id
// "<YYYY-MM-DD>-<NNN>-<hash8>". NNN is the 1-based count of queries raised
// that day; the hash is derived from the timestamp, chat id and running count
// and is best-effort unique.
func (s *SQLite) RaiseQuery(ctx context.Context, chatID, userID, text string, now time.Time) (*Query, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	day := now.Format("2006-01-02")

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM queries WHERE day = ?`, day).Scan(&count); err != nil {
		return nil, fmt.Errorf("counting queries: %w", err)
	}
	seq := count + 1

	q := &Query{
		ID:        QueryID(now, chatID, seq),
		ChatID:    chatID,
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO queries (id, day, seq, chat_id, user_id, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, q.ID, day, seq, q.ChatID, q.UserID, q.Text, now.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("inserting query: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return q, nil
}

// ListQueries returns the queries raised on the given day, oldest first.
func (s *SQLite) ListQueries(ctx context.Context, day time.Time) ([]*Query, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chat_id, user_id, text, created_at
		FROM queries
		WHERE day = ?
		ORDER BY seq
	`, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying queries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var queries []*Query
	for rows.Next() {
		var (
			q         Query
			createdAt string
		)
		if err := rows.Scan(&q.ID, &q.ChatID, &q.UserID, &q.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning query: %w", err)
		}
		q.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		queries = append(queries, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating queries: %w", err)
	}

	return queries, nil
}

// QueryID builds the query id for the seq-th query of now's day.
func QueryID(now time.Time, chatID string, seq int) string {
	sum := sha256.Sum256([]byte(now.Format(time.RFC3339Nano) + "|" + chatID + "|" + strconv.Itoa(seq)))
	return fmt.Sprintf("%s-%03d-%s", now.Format("2006-01-02"), seq, hex.EncodeToString(sum[:4]))
}
