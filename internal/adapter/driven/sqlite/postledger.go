package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/commitcast/internal/domain/model"
	"github.com/ericfisherdev/commitcast/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PostLedger = (*PostLedger)(nil)

// PostLedger is the SQLite implementation of the PostLedger port interface.
type PostLedger struct {
	db *DB
}

// NewPostLedger creates a new PostLedger backed by the given DB.
func NewPostLedger(db *DB) *PostLedger {
	return &PostLedger{db: db}
}

// HasPosted reports whether a post has been recorded for batchKey.
func (l *PostLedger) HasPosted(ctx context.Context, batchKey string) (bool, error) {
	const query = `SELECT COUNT(*) FROM posts WHERE batch_key = ?`
	var count int
	if err := l.db.Reader.QueryRowContext(ctx, query, batchKey).Scan(&count); err != nil {
		return false, fmt.Errorf("check posted batch %s: %w", batchKey, err)
	}
	return count > 0, nil
}

// Record stores a published post. Recording the same batch key twice is a
// no-op so a retried record after a crash does not fail.
func (l *PostLedger) Record(ctx context.Context, rec model.PostRecord) error {
	const query = `
		INSERT INTO posts (run_id, day, batch_key, post_id, url, text)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(batch_key) DO NOTHING`
	_, err := l.db.Writer.ExecContext(ctx, query, rec.RunID, rec.Day, rec.BatchKey, rec.PostID, rec.URL, rec.Text)
	if err != nil {
		return fmt.Errorf("record post %s: %w", rec.PostID, err)
	}
	return nil
}

// ListByDay returns the posts recorded for day (YYYY-MM-DD), oldest first.
func (l *PostLedger) ListByDay(ctx context.Context, day string) ([]model.PostRecord, error) {
	const query = `
		SELECT run_id, day, batch_key, post_id, url, text, created_at
		FROM posts WHERE day = ? ORDER BY created_at, rowid`
	rows, err := l.db.Reader.QueryContext(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("list posts for %s: %w", day, err)
	}
	defer rows.Close()

	var records []model.PostRecord
	for rows.Next() {
		var rec model.PostRecord
		var createdAt string
		if err := rows.Scan(&rec.RunID, &rec.Day, &rec.BatchKey, &rec.PostID, &rec.URL, &rec.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		rec.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for post %s: %w", rec.PostID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return records, nil
}
