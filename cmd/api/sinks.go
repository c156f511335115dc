package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
	"github.com/bryanwahyu/forensic-audit/internal/domain/journal"
	mysqlp "github.com/bryanwahyu/forensic-audit/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/forensic-audit/internal/infra/db/postgres"
	sqlitep "github.com/bryanwahyu/forensic-audit/internal/infra/db/sqlite"
)

type journalStore interface {
	journal.Sink
	ListBySession(ctx context.Context, sessionID string, limit int) ([]journal.Entry, error)
}

type reportStore interface {
	analysis.ReportSink
	LatestBySession(ctx context.Context, sessionID string) (*analysis.Report, error)
}

// sqlSinks is the journal and report storage behind one database handle.
type sqlSinks struct {
	DB      *sql.DB
	Journal journalStore
	Reports reportStore
}

func (s *sqlSinks) Close() error { return s.DB.Close() }

// openSinks connects the configured driver and makes sure the tables exist.
func openSinks(ctx context.Context, driver, dsn string) (*sqlSinks, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case "mysql":
		if db, err = mysqlp.Connect(ctx, dsn); err == nil {
			err = mysqlp.EnsureSchema(ctx, db)
		}
		if err == nil {
			return &sqlSinks{DB: db, Journal: mysqlp.NewJournalRepository(db), Reports: mysqlp.NewReportRepository(db)}, nil
		}
	case "postgres":
		if db, err = pgp.Connect(ctx, dsn); err == nil {
			err = pgp.EnsureSchema(ctx, db)
		}
		if err == nil {
			return &sqlSinks{DB: db, Journal: pgp.NewJournalRepository(db), Reports: pgp.NewReportRepository(db)}, nil
		}
	case "sqlite":
		if db, err = sqlitep.Connect(ctx, dsn); err == nil {
			err = sqlitep.EnsureSchema(ctx, db)
		}
		if err == nil {
			return &sqlSinks{DB: db, Journal: sqlitep.NewJournalRepository(db), Reports: sqlitep.NewReportRepository(db)}, nil
		}
	default:
		return nil, fmt.Errorf("journal driver %q not supported", driver)
	}
	if db != nil {
		db.Close()
	}
	return nil, fmt.Errorf("%s sink: %w", driver, err)
}
