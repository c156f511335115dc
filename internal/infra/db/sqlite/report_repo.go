package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/bryanwahyu/forensic-audit/internal/domain/analysis"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

// StoreReport implements analysis.ReportSink
func (r *ReportRepository) StoreReport(ctx context.Context, rep analysis.Report) error {
	const q = `
INSERT INTO forensic_reports
  (run_id, session_id, verdict, deviation_percent, quantum, result_json, created_at)
VALUES (?,?,?,?,?,?,?)
ON CONFLICT (run_id) DO UPDATE SET
  verdict=excluded.verdict,
  deviation_percent=excluded.deviation_percent,
  quantum=excluded.quantum,
  result_json=excluded.result_json`
	b, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	created := rep.GeneratedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q,
		rep.RunID, dashIfEmpty(rep.SessionID), dashIfEmpty(string(rep.Verdict)),
		rep.Result.DeviationPercent, rep.Result.Quantum, string(b), created.UnixNano(),
	)
	return err
}

// LatestBySession returns nil, nil when the session has no stored report.
func (r *ReportRepository) LatestBySession(ctx context.Context, sessionID string) (*analysis.Report, error) {
	const q = `
SELECT result_json FROM forensic_reports
WHERE session_id = ?
ORDER BY created_at DESC
LIMIT 1`
	var raw string
	if err := r.db.QueryRowContext(ctx, q, sessionID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var rep analysis.Report
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
