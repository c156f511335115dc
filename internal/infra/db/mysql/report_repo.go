package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

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
ON DUPLICATE KEY UPDATE
  verdict=VALUES(verdict), deviation_percent=VALUES(deviation_percent),
  quantum=VALUES(quantum), result_json=VALUES(result_json)`
	b, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		rep.RunID, stringOrDash(rep.SessionID), stringOrDash(string(rep.Verdict)),
		rep.Result.DeviationPercent, rep.Result.Quantum, string(b), timeOrNow(rep.GeneratedAt),
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
		if err == sql.ErrNoRows {
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
