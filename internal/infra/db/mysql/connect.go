package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema bikin tabel journal + report kalau belum ada
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{`
CREATE TABLE IF NOT EXISTS forensic_journal (
  id          CHAR(36)     NOT NULL PRIMARY KEY,
  session_id  VARCHAR(32)  NOT NULL,
  level       VARCHAR(16)  NOT NULL,
  message     TEXT         NOT NULL,
  created_at  DATETIME(6)  NOT NULL,
  INDEX idx_journal_session (session_id, created_at)
)`, `
CREATE TABLE IF NOT EXISTS forensic_reports (
  run_id             CHAR(36)     NOT NULL PRIMARY KEY,
  session_id         VARCHAR(32)  NOT NULL,
  verdict            VARCHAR(16)  NOT NULL,
  deviation_percent  DOUBLE       NOT NULL,
  quantum            DOUBLE       NOT NULL,
  result_json        JSON         NOT NULL,
  created_at         DATETIME(6)  NOT NULL,
  INDEX idx_reports_session (session_id, created_at)
)`}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
