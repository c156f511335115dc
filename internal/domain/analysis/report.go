package analysis

import "time"

// Report is the immutable snapshot handed to the renderers.
type Report struct {
	SessionID    string      `json:"session_id"`
	RunID        string      `json:"run_id"`
	State        State       `json:"state"`
	Counts       Counts      `json:"counts"`
	Result       Result      `json:"result"`
	Verdict      Verdict     `json:"verdict"`
	VerdictLabel string      `json:"verdict_label"`
	Description  string      `json:"description"`
	Narrative    string      `json:"narrative,omitempty"`
	Chart        ChartSeries `json:"chart"`
	GeneratedAt  time.Time   `json:"generated_at"`
}

// NewReport assembles the report of a settled run. GeneratedAt is left to
// the caller.
func NewReport(sessionID, runID string, c Counts, res Result, p Policy) Report {
	v := Classify(res.DeviationPercent, p)
	return Report{
		SessionID:    sessionID,
		RunID:        runID,
		State:        StateDone,
		Counts:       c,
		Result:       res,
		Verdict:      v,
		VerdictLabel: v.Label(),
		Description:  v.Description(),
		Chart:        Chart(res),
	}
}
