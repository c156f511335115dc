package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

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
  id          UUID         PRIMARY KEY,
  session_id  VARCHAR(32)  NOT NULL,
  level       VARCHAR(16)  NOT NULL,
  message     TEXT         NOT NULL,
  created_at  TIMESTAMPTZ  NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_session ON forensic_journal (session_id, created_at)`, `
CREATE TABLE IF NOT EXISTS forensic_reports (
  run_id             UUID              PRIMARY KEY,
  session_id         VARCHAR(32)       NOT NULL,
  verdict            VARCHAR(16)       NOT NULL,
  deviation_percent  DOUBLE PRECISION  NOT NULL,
  quantum            DOUBLE PRECISION  NOT NULL,
  result_json        JSONB             NOT NULL,
  created_at         TIMESTAMPTZ       NOT NULL
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
