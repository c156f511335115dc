package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bryanwahyu/forensic-audit/internal/domain/journal"
)

type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) *JournalRepository { return &JournalRepository{db: db} }

// Append implements journal.Sink
func (r *JournalRepository) Append(ctx context.Context, e journal.Entry) error {
	const q = `
INSERT INTO forensic_journal
  (id, session_id, level, message, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO NOTHING`
	msg := e.Message
	if strings.TrimSpace(msg) == "" {
		msg = "-"
	}
	_, err := r.db.ExecContext(ctx, q, e.ID, stringOrDash(e.SessionID), stringOrDash(string(e.Level)), msg, timeOrNow(e.Time))
	return err
}

func (r *JournalRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]journal.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, session_id, level, message, created_at
FROM forensic_journal
WHERE session_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []journal.Entry
	for rows.Next() {
		var e journal.Entry
		var level string
		var created time.Time
		if err := rows.Scan(&e.ID, &e.SessionID, &level, &e.Message, &created); err != nil {
			return nil, err
		}
		e.Level = journal.Level(level)
		e.Time = created
		out = append(out, e)
	}
	return out, rows.Err()
}
