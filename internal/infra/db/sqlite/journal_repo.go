package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bryanwahyu/forensic-audit/internal/domain/journal"
)

// timestamps disimpan sebagai unix nano biar urutannya stabil
type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository { return &JournalRepository{db: db} }

// Append implements journal.Sink
func (r *JournalRepository) Append(ctx context.Context, e journal.Entry) error {
	const q = `
INSERT INTO forensic_journal
  (id, session_id, level, message, created_at)
VALUES (?,?,?,?,?)
ON CONFLICT (id) DO NOTHING`
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	created := e.Time
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, e.ID, dashIfEmpty(e.SessionID), dashIfEmpty(string(e.Level)), msg, created.UnixNano())
	return err
}

func (r *JournalRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]journal.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, session_id, level, message, created_at
FROM forensic_journal
WHERE session_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.Entry
	for rows.Next() {
		var e journal.Entry
		var level string
		var created int64
		if err := rows.Scan(&e.ID, &e.SessionID, &level, &e.Message, &created); err != nil {
			return nil, err
		}
		e.Level = journal.Level(level)
		e.Time = time.Unix(0, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

func dashIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
