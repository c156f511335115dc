package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Connect opens a local database file. SQLite serializes writers, so the
// pool is kept to a single connection.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{`
CREATE TABLE IF NOT EXISTS forensic_journal (
  id          TEXT     NOT NULL PRIMARY KEY,
  session_id  TEXT     NOT NULL,
  level       TEXT     NOT NULL,
  message     TEXT     NOT NULL,
  created_at  INTEGER  NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_session ON forensic_journal (session_id, created_at)`, `
CREATE TABLE IF NOT EXISTS forensic_reports (
  run_id             TEXT     NOT NULL PRIMARY KEY,
  session_id         TEXT     NOT NULL,
  verdict            TEXT     NOT NULL,
  deviation_percent  REAL     NOT NULL,
  quantum            REAL     NOT NULL,
  result_json        TEXT     NOT NULL,
  created_at         INTEGER  NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_session ON forensic_reports (session_id, created_at)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
